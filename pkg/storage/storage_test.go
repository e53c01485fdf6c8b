package storage_test

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/dossier/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=dossierstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/dossierstore;"

func TestNewReturnsSystem(t *testing.T) {
	cfg := &storage.Config{
		ConnectionString: azuriteConnString,
		ViewBaseURL:      "https://files.example.edu/api/storage",
	}

	sys, err := storage.New(cfg, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}

	link := sys.Link(storage.ObjectRef{Container: "dossier-ana-1", Object: "abc-f.pdf"})
	if !strings.HasPrefix(link, "https://files.example.edu/api/storage/view?") {
		t.Errorf("Link() = %s", link)
	}
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{ConnectionString: "not-a-connection-string"}

	if _, err := storage.New(cfg, slog.Default()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestBuildLink(t *testing.T) {
	ref := storage.ObjectRef{Container: "dossier-maria-lozano-5", Object: "0f1e-f.pdf"}
	link := storage.BuildLink("https://files.example.edu/api/storage/", ref)

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if u.Scheme != "https" || u.Path != "/api/storage/view" {
		t.Errorf("link = %s, want https .../view", link)
	}
	if got := u.Query().Get("container"); got != ref.Container {
		t.Errorf("container = %s, want %s", got, ref.Container)
	}
	if got := u.Query().Get("object"); got != ref.Object {
		t.Errorf("object = %s, want %s", got, ref.Object)
	}
}

func TestContainerName(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		display string
		id      int64
		want    string
	}{
		{"accented name", "dossier", "María Lozano", 5, "dossier-mar-a-lozano-5"},
		{"no prefix", "", "Andrés Torres", 12, "andr-s-torres-12"},
		{"empty display", "dossier", "  ", 3, "dossier-user-3"},
		{"symbols collapse", "Dossier", "egresado__egresado", 2, "dossier-egresado-egresado-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storage.ContainerName(tt.prefix, tt.display, tt.id)
			if got != tt.want {
				t.Errorf("ContainerName() = %s, want %s", got, tt.want)
			}
			if err := storage.ValidateContainerName(got); err != nil {
				t.Errorf("generated name invalid: %v", err)
			}
		})
	}

	long := storage.ContainerName("dossier", strings.Repeat("a", 120), 123456)
	if len(long) > 63 {
		t.Errorf("len = %d, want <= 63", len(long))
	}
	if !strings.HasSuffix(long, "-123456") {
		t.Errorf("truncated name lost id suffix: %s", long)
	}
}

func TestValidateContainerName(t *testing.T) {
	for _, bad := range []string{"", "ab", "Upper", "-lead", "trail-", "double--dash", "has_underscore"} {
		if err := storage.ValidateContainerName(bad); err == nil {
			t.Errorf("ValidateContainerName(%q) = nil, want error", bad)
		}
	}
	if err := storage.ValidateContainerName("dossier-ana-1"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
}

func TestParseRef(t *testing.T) {
	ref, err := storage.ParseRef("dossier-ana-1/0f1e-f.pdf")
	if err != nil {
		t.Fatalf("ParseRef() error = %v", err)
	}
	if ref.Container != "dossier-ana-1" || ref.Object != "0f1e-f.pdf" {
		t.Errorf("ParseRef() = %+v", ref)
	}
	if ref.String() != "dossier-ana-1/0f1e-f.pdf" {
		t.Errorf("String() = %s", ref.String())
	}

	if _, err := storage.ParseRef("nocontainer"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("ParseRef(no slash) error = %v, want ErrInvalidKey", err)
	}
	if _, err := storage.ParseRef("dossier-ana-1/../x"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("ParseRef(traversal) error = %v, want ErrInvalidKey", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", storage.ErrNotFound), http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{storage.ErrInvalidContainer, http.StatusBadRequest},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &storage.Config{ConnectionString: azuriteConnString}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.ContainerPrefix != "dossier" {
			t.Errorf("ContainerPrefix = %s, want dossier", cfg.ContainerPrefix)
		}
		if !strings.HasPrefix(cfg.ViewBaseURL, "https://") {
			t.Errorf("ViewBaseURL = %s", cfg.ViewBaseURL)
		}
	})

	t.Run("requires credentials", func(t *testing.T) {
		cfg := &storage.Config{}
		if err := cfg.Finalize(nil); err == nil {
			t.Fatal("expected error without connection string or account url")
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_STORAGE_ACCOUNT_URL", "https://acct.blob.core.windows.net/")
		t.Setenv("TEST_STORAGE_PREFIX", "grads")

		cfg := &storage.Config{}
		env := &storage.Env{AccountURL: "TEST_STORAGE_ACCOUNT_URL", ContainerPrefix: "TEST_STORAGE_PREFIX"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.AccountURL != "https://acct.blob.core.windows.net/" || cfg.ContainerPrefix != "grads" {
			t.Errorf("env not applied: %+v", cfg)
		}
	})

	t.Run("merge", func(t *testing.T) {
		cfg := &storage.Config{ContainerPrefix: "a", ViewBaseURL: "https://x/y"}
		cfg.Merge(&storage.Config{ContainerPrefix: "b"})
		if cfg.ContainerPrefix != "b" || cfg.ViewBaseURL != "https://x/y" {
			t.Errorf("Merge() = %+v", cfg)
		}
	})
}
