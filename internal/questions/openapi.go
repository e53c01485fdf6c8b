package questions

import "github.com/JaimeStill/dossier/pkg/openapi"

type openAPI struct {
	List    *openapi.Operation
	Create  *openapi.Operation
	Patch   *openapi.Operation
	Schemas map[string]*openapi.Schema
}

var spec = openAPI{
	List: &openapi.Operation{
		Summary: "List questions",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search question and answer text", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("user_id", "integer", "Filter by user", false),
			openapi.QueryParam("unanswered", "boolean", "Only questions without an answer", false),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Question page"},
		},
	},
	Create: &openapi.Operation{
		Summary: "Ask a question",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"user_id":  {Type: "integer", Description: "Defaults to the authenticated user"},
						"question": {Type: "string"},
					},
					Required: []string{"question"},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Question created", "Question"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Patch: &openapi.Operation{
		Summary:     "Edit or answer a question",
		Description: "Setting an answer records the answer time.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "integer", "Question ID")},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"question": {Type: "string"},
						"answer":   {Type: "string"},
					},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Question updated", "Question"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Question": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "integer"},
				"user_id":     {Type: "integer"},
				"question":    {Type: "string"},
				"answer":      {Type: "string"},
				"asked_at":    {Type: "string", Format: "date-time"},
				"answered_at": {Type: "string", Format: "date-time"},
			},
		},
	},
}
