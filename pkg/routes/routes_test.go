package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/dossier/pkg/openapi"
	"github.com/JaimeStill/dossier/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, nil, routes.Group{
		Prefix: "/questions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok},
			{Method: "PATCH", Pattern: "/{id}", Handler: ok},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list", "GET", "/questions", http.StatusOK},
		{"patch", "PATCH", "/questions/12", http.StatusOK},
		{"wrong method", "DELETE", "/questions/12", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, nil, routes.Group{
		Prefix: "/review",
		Children: []routes.Group{
			{
				Prefix: "/users",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{code}", Handler: ok},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/review/users/E2020-07", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}

func TestRegisterWithSpec(t *testing.T) {
	mux := http.NewServeMux()
	spec := openapi.NewSpec("Test", "1.0.0")

	list := &openapi.Operation{Summary: "List observations"}
	commit := &openapi.Operation{Summary: "Commit batch", Tags: []string{"Review"}}

	routes.Register(mux, spec, routes.Group{
		Prefix:  "/observations",
		Tags:    []string{"Observations"},
		Schemas: map[string]*openapi.Schema{"Observation": {Type: "object"}},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: ok, OpenAPI: commit},
			{Method: "GET", Pattern: "/receiver/{id}", Handler: ok, OpenAPI: list},
			{Method: "GET", Pattern: "/hidden", Handler: ok},
		},
	})

	if spec.Paths["/observations"].Post != commit {
		t.Error("commit operation not documented")
	}
	if spec.Paths["/observations/receiver/{id}"].Get != list {
		t.Error("list operation not documented")
	}
	if _, found := spec.Paths["/observations/hidden"]; found {
		t.Error("undocumented route should not appear")
	}
	if list.Tags[0] != "Observations" {
		t.Errorf("group tag not applied: %v", list.Tags)
	}
	if commit.Tags[0] != "Review" {
		t.Errorf("explicit tag overwritten: %v", commit.Tags)
	}
	if _, found := spec.Components.Schemas["Observation"]; !found {
		t.Error("group schema not added")
	}
}
