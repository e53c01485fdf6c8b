package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/dossier/internal/api"
	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/internal/identity"
	"github.com/JaimeStill/dossier/internal/infrastructure"
	"github.com/JaimeStill/dossier/internal/review"
	"github.com/JaimeStill/dossier/pkg/database"
	"github.com/JaimeStill/dossier/pkg/middleware"
	"github.com/JaimeStill/dossier/pkg/openapi"
	"github.com/JaimeStill/dossier/pkg/pagination"
	"github.com/JaimeStill/dossier/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:             "localhost",
			Port:             5432,
			Name:             "dossier",
			User:             "dossier",
			Password:         "dossier",
			SSLMode:          "disable",
			MaxOpenConns:     25,
			MaxIdleConns:     5,
			ConnMaxLifetime:  "15m",
			ConnTimeout:      "5s",
			StatementTimeout: "30s",
			ApplicationName:  "dossier",
		},
		Storage: storage.Config{
			ConnectionString: azuriteConnString,
			ContainerPrefix:  "dossier",
			ViewBaseURL:      "http://localhost:8080/api/storage",
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "10MB",
			CORS:          middleware.CORSConfig{Enabled: false},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
			OpenAPI: openapi.Config{Title: "Dossier API"},
		},
		Auth: identity.Config{
			Secret:     "0123456789abcdef0123456789abcdef",
			Issuer:     "dossier",
			TokenTTL:   "1h",
			BcryptCost: bcrypt.MinCost,
		},
		Review: review.Config{
			MinOutstanding: 2,
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })
	return infra
}

func TestNewModule(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	runtime := api.NewRuntime(validConfig(), setupInfra(t))

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.ContainerPrefix != "dossier" {
		t.Errorf("container prefix: got %s, want dossier", runtime.ContainerPrefix)
	}
	if runtime.Review.MinOutstanding != 2 {
		t.Errorf("review min outstanding: got %d, want 2", runtime.Review.MinOutstanding)
	}
	if runtime.Logger == nil || runtime.Database == nil || runtime.Storage == nil || runtime.Lifecycle == nil {
		t.Error("runtime is missing infrastructure")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig()
	domain, err := api.NewDomain(cfg, api.NewRuntime(cfg, setupInfra(t)))
	if err != nil {
		t.Fatalf("NewDomain() error = %v", err)
	}

	if domain.Identity == nil || domain.Users == nil || domain.Documents == nil ||
		domain.Submissions == nil || domain.Observations == nil ||
		domain.Questions == nil || domain.Review == nil {
		t.Fatalf("domain has nil systems: %+v", domain)
	}
}

func TestOpenAPISpec(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var spec openapi.Spec
	if err := json.NewDecoder(rec.Body).Decode(&spec); err != nil {
		t.Fatalf("decode spec: %v", err)
	}

	paths := []string{
		"/submissions",
		"/submissions/batch",
		"/observations",
		"/observations/receiver/{id}",
		"/users/{code}/documents",
		"/users/{id}/documents/state/{state}",
		"/documents/pending",
		"/review/worklist",
		"/review/users/{code}",
		"/questions",
		"/questions/{id}",
		"/auth/login",
		"/storage/view",
	}
	for _, p := range paths {
		if _, ok := spec.Paths[p]; !ok {
			t.Errorf("spec missing path %s", p)
		}
	}
	if spec.Paths["/questions/{id}"].Patch == nil {
		t.Error("PATCH /questions/{id} not documented")
	}
}

func TestInvalidBearerRejected(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/review/worklist", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	m.Serve(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestStorageViewRequiresReference(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/storage/view?container=dossier-ana-7", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
