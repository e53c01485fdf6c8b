// Package scalar serves the Scalar API reference UI for the published
// OpenAPI document.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/dossier/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

// NewModule creates a module that serves the API reference at basePath,
// rendering the OpenAPI document found at specURL.
func NewModule(basePath, specURL string) *module.Module {
	router := buildRouter(basePath, specURL)
	return module.New(basePath, router)
}

func buildRouter(basePath, specURL string) http.Handler {
	mux := http.NewServeMux()

	tmpl := template.Must(template.ParseFS(staticFS, "index.html"))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{
			"BasePath": basePath,
			"SpecURL":  specURL,
		})
	})

	return mux
}
