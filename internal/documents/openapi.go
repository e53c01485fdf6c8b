package documents

import "github.com/JaimeStill/dossier/pkg/openapi"

type openAPI struct {
	ListForUser *openapi.Operation
	ListByState *openapi.Operation
	ListPending *openapi.Operation
	Schemas     map[string]*openapi.Schema
}

var stateEnum = []any{"empty", "uploaded", "submitted", "corrected", "observed", "rejected", "accepted"}

var spec = openAPI{
	ListForUser: &openapi.Operation{
		Summary:     "List required documents with the user's progress",
		Description: "Documents without a stored row report state empty.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("code", "string", "User code"),
			openapi.QueryParam("procedure_type", "string", "Restrict to one procedure type", false),
		},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Requirement catalog",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Requirement")}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	ListByState: &openapi.Operation{
		Summary: "List a user's documents in one state",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "integer", "User ID"),
			{Name: "state", In: "path", Required: true, Schema: &openapi.Schema{Type: "string", Enum: stateEnum}},
		},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Matching documents",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("UserDocument")}},
				},
			},
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	ListPending: &openapi.Operation{
		Summary: "List users with documents awaiting review",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Users grouped with their pending documents",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("PendingUser")}},
				},
			},
		},
	},
	Schemas: map[string]*openapi.Schema{
		"UserDocument": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"user_id":     {Type: "integer"},
				"document_id": {Type: "integer"},
				"object_ref":  {Type: "string"},
				"link":        {Type: "string", Format: "uri"},
				"state":       {Type: "string", Enum: stateEnum},
				"page_count":  {Type: "integer"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"Requirement": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "integer"},
				"procedure_type": {Type: "string"},
				"description":    {Type: "string"},
				"state":          {Type: "string", Enum: stateEnum},
				"link":           {Type: "string", Format: "uri"},
				"items":          {Type: "array", Items: &openapi.Schema{Type: "object"}},
			},
		},
		"PendingUser": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"user_id":   {Type: "integer"},
				"code":      {Type: "string"},
				"full_name": {Type: "string"},
				"category":  {Type: "string"},
				"documents": {Type: "array", Items: &openapi.Schema{Type: "object"}},
			},
		},
	},
}
