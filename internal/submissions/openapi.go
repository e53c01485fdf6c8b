package submissions

import "github.com/JaimeStill/dossier/pkg/openapi"

type openAPI struct {
	Submit      *openapi.Operation
	SubmitBatch *openapi.Operation
	Schemas     map[string]*openapi.Schema
}

var spec = openAPI{
	Submit: &openapi.Operation{
		Summary:     "Upload or replace a required document",
		Description: "Creates the user's storage container on first use. Resubmitting a document overwrites the stored object in place.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"user_id":     {Type: "integer", Description: "Defaults to the authenticated user"},
							"document_id": {Type: "integer"},
							"file":        {Type: "string", Format: "binary"},
						},
						Required: []string{"document_id", "file"},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Existing document replaced", "SubmissionResult"),
			201: openapi.ResponseJSON("Document stored", "SubmissionResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			413: openapi.ResponseRef("BadRequest"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	SubmitBatch: &openapi.Operation{
		Summary:     "Upload several required documents",
		Description: "Repeats document_id and file; the n-th document_id names the n-th file. Items are submitted independently and reported in order.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"user_id":     {Type: "integer", Description: "Defaults to the authenticated user"},
							"document_id": {Type: "array", Items: &openapi.Schema{Type: "integer"}},
							"file":        {Type: "array", Items: &openapi.Schema{Type: "string", Format: "binary"}},
						},
						Required: []string{"document_id", "file"},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Every document stored", "SubmissionBatch"),
			207: openapi.ResponseJSON("Some documents failed", "SubmissionBatch"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("BadRequest"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"SubmissionBatch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"items": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"document_id": {Type: "integer"},
							"filename":    {Type: "string"},
							"status_code": {Type: "integer"},
							"result":      openapi.SchemaRef("SubmissionResult"),
							"error":       {Type: "string"},
						},
					},
				},
				"failed": {Type: "integer"},
			},
		},
		"SubmissionResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document":          openapi.SchemaRef("UserDocument"),
				"link":              {Type: "string", Format: "uri"},
				"status":            {Type: "string", Enum: []any{"created", "updated"}},
				"container":         {Type: "string"},
				"container_created": {Type: "boolean"},
			},
		},
	},
}
