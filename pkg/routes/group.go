package routes

import (
	"net/http"

	"github.com/JaimeStill/dossier/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix   string
	Tags     []string
	Schemas  map[string]*openapi.Schema
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux. When spec is
// non-nil, documented routes and group schemas are added to it.
func Register(mux *http.ServeMux, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, spec, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	if spec != nil && len(group.Schemas) > 0 {
		spec.Components.AddSchemas(group.Schemas)
	}

	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)

		if spec != nil && route.OpenAPI != nil {
			op := route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = tags
			}
			spec.AddOperation(fullPrefix+route.Pattern, route.Method, op)
		}
	}
	for _, child := range group.Children {
		registerGroup(mux, spec, fullPrefix, tags, child)
	}
}
