package identity

import "github.com/JaimeStill/dossier/pkg/openapi"

type openAPI struct {
	Login    *openapi.Operation
	Register *openapi.Operation
	Schemas  map[string]*openapi.Schema
}

var spec = openAPI{
	Login: &openapi.Operation{
		Summary:     "Exchange credentials for a bearer token",
		Description: "The credential is either the user's email or code.",
		RequestBody: openapi.RequestBodyJSON("LoginCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session issued", "Session"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Register: &openapi.Operation{
		Summary:     "Register a user account",
		RequestBody: openapi.RequestBodyJSON("RegisterCommand", true),
		Responses: map[int]*openapi.Response{
			201: {Description: "Account created"},
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"LoginCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"credential": {Type: "string", Description: "Email or user code"},
				"password":   {Type: "string"},
			},
			Required: []string{"credential", "password"},
		},
		"RegisterCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"code":       {Type: "string"},
				"first_name": {Type: "string"},
				"last_name":  {Type: "string"},
				"email":      {Type: "string", Format: "email"},
				"phone":      {Type: "string"},
				"password":   {Type: "string", Description: "6-60 characters with upper and lower case letters and a digit"},
				"role":       {Type: "string", Enum: []any{RoleAdmin, RoleReviewer, RoleStudent, RoleGraduate}},
				"category":   {Type: "string"},
			},
			Required: []string{"code", "first_name", "last_name", "email", "password", "role"},
		},
		"Session": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"actor": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"id":       {Type: "integer"},
						"role":     {Type: "string"},
						"category": {Type: "string"},
					},
				},
				"token":      {Type: "string"},
				"expires_at": {Type: "string", Format: "date-time"},
			},
		},
	},
}
