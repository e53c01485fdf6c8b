package scalar_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/dossier/web/scalar"
)

func TestModuleRendersSpecURL(t *testing.T) {
	m := scalar.NewModule("/scalar", "/api/openapi.json")

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodGet, "/scalar", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), `data-url="/api/openapi.json"`) {
		t.Error("page does not reference the OpenAPI document")
	}
}
