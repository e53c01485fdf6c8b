package infrastructure_test

import (
	"slices"
	"testing"

	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/internal/infrastructure"
	"github.com/JaimeStill/dossier/pkg/database"
	"github.com/JaimeStill/dossier/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
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
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	if infra.Lifecycle == nil || infra.Logger == nil || infra.Database == nil || infra.Storage == nil {
		t.Fatalf("New() left a system nil: %+v", infra)
	}
}

func TestNotReadyBeforeStartup(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	if infra.Ready() {
		t.Error("infrastructure should not be ready before startup hooks run")
	}
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

func TestPendingBeforeStartup(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	pending := infra.Pending()
	if !slices.Contains(pending, "startup") || !slices.Contains(pending, "database") {
		t.Errorf("pending: got %v, want startup and database", pending)
	}
}
