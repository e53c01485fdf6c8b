package observations

import "github.com/JaimeStill/dossier/pkg/openapi"

type openAPI struct {
	Commit          *openapi.Operation
	ListForReceiver *openapi.Operation
	Schemas         map[string]*openapi.Schema
}

var spec = openAPI{
	Commit: &openapi.Operation{
		Summary:     "Commit a batch of observations",
		Description: "Inserts every observation and sets each document's state in one transaction. Batches are not idempotent.",
		RequestBody: openapi.RequestBodyJSON("CommitCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Batch committed", "CommitResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			500: openapi.ResponseRef("Internal"),
		},
	},
	ListForReceiver: &openapi.Operation{
		Summary: "List observations received by a user",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "integer", "Receiver user ID"),
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search observation content", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("document_id", "integer", "Filter by document", false),
			openapi.QueryParam("emitter_id", "integer", "Filter by reviewer", false),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Observation page"},
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"CommitCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"emitter_id":  {Type: "integer", Description: "Replaced by the authenticated user when present"},
				"receiver_id": {Type: "integer"},
				"items": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"document_id":  {Type: "integer"},
							"content":      {Type: "string"},
							"target_state": {Type: "string", Enum: []any{"observed", "accepted", "rejected"}},
						},
						Required: []string{"document_id", "content", "target_state"},
					},
				},
			},
			Required: []string{"receiver_id", "items"},
		},
		"Observation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "integer"},
				"emitter_id":  {Type: "integer"},
				"receiver_id": {Type: "integer"},
				"document_id": {Type: "integer"},
				"content":     {Type: "string"},
				"tag":         {Type: "string"},
				"created_at":  {Type: "string", Format: "date-time"},
			},
		},
		"CommitResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"observations": {Type: "array", Items: openapi.SchemaRef("Observation")},
				"updated":      {Type: "integer"},
			},
		},
	},
}
