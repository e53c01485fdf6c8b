package review

import "github.com/JaimeStill/dossier/pkg/openapi"

type openAPI struct {
	Worklist *openapi.Operation
	Snapshot *openapi.Operation
	Schemas  map[string]*openapi.Schema
}

var spec = openAPI{
	Worklist: &openapi.Operation{
		Summary:     "List users needing review",
		Description: "Users with at least the configured number of documents awaiting review, with their most recent unanswered questions.",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Worklist",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("WorklistEntry")}},
				},
			},
		},
	},
	Snapshot: &openapi.Operation{
		Summary:    "Summarize one user's review progress",
		Parameters: []*openapi.Parameter{openapi.PathParam("code", "string", "User code")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Snapshot", "Snapshot"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"WorklistEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"user_id":   {Type: "integer"},
				"code":      {Type: "string"},
				"full_name": {Type: "string"},
				"category":  {Type: "string"},
				"documents": {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"questions": {Type: "array", Items: &openapi.Schema{Type: "object"}},
			},
		},
		"Snapshot": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"user_id":      {Type: "integer"},
				"code":         {Type: "string"},
				"full_name":    {Type: "string"},
				"email":        {Type: "string"},
				"category":     {Type: "string"},
				"accepted":     {Type: "integer"},
				"observations": {Type: "array", Items: &openapi.Schema{Type: "object"}},
			},
		},
	},
}
