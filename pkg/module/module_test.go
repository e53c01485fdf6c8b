package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/pkg/module"
)

func TestNewInvalidPrefixPanics(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			require.Panics(t, func() { module.New(prefix, http.NewServeMux()) })
		})
	}
}

func TestServeStripsPrefixAndKeepsQuery(t *testing.T) {
	mux := http.NewServeMux()

	var path, object string
	mux.HandleFunc("GET /storage/view", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		object = r.URL.Query().Get("object")
		w.WriteHeader(http.StatusOK)
	})

	m := module.New("/api", mux)
	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/storage/view?container=c1&object=a.pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "/storage/view", path)
	require.Equal(t, "a.pdf", object)
}

func TestServeRootPath(t *testing.T) {
	mux := http.NewServeMux()

	var path string
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	})

	module.New("/scalar", mux).Serve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/scalar", nil))
	require.Equal(t, "/", path)
}

func TestModuleMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {})

	m := module.New("/api", mux)

	var called bool
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	})

	m.Serve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api", nil))
	require.True(t, called)
}

func TestRouterDispatch(t *testing.T) {
	api := http.NewServeMux()
	api.HandleFunc("GET /review/worklist", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("api"))
	})

	docs := http.NewServeMux()
	docs.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("scalar"))
	})

	router := module.NewRouter()
	router.Mount(module.New("/api", api))
	router.Mount(module.New("/scalar", docs))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	require.Equal(t, []string{"/api", "/scalar"}, router.Prefixes())

	tests := []struct {
		name string
		path string
		want string
	}{
		{"api module", "/api/review/worklist", "api"},
		{"trailing slash", "/api/review/worklist/", "api"},
		{"scalar module", "/scalar", "scalar"},
		{"native fallback", "/healthz", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRouterDuplicateMountPanics(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", http.NewServeMux()))

	require.Panics(t, func() { router.Mount(module.New("/api", http.NewServeMux())) })
}
