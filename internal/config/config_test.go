package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "database:\n  url: postgres://localhost/test\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Ingest.ChunkSize != 500 || cfg.Ingest.ChunkOverlap != 50 {
		t.Errorf("default chunking: %d/%d", cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("default dimensions: got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Search.DefaultTopK != 5 {
		t.Errorf("default top_k: got %d", cfg.Search.DefaultTopK)
	}
}

func TestLoad_RejectsOverlapNotBelowSize(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/test
ingest:
  chunk_size: 100
  chunk_overlap: 100
`)
	if _, err := Load(path); err == nil {
		t.Error("overlap == chunk_size should be rejected")
	}

	path = writeConfig(t, `
database:
  url: postgres://localhost/test
ingest:
  chunk_size: 100
  chunk_overlap: 150
`)
	if _, err := Load(path); err == nil {
		t.Error("overlap > chunk_size should be rejected")
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	path := writeConfig(t, "debug: true\n")
	if _, err := Load(path); err == nil {
		t.Error("missing database url should be rejected")
	}
}

func TestLoad_EnvOverridesDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/override")
	path := writeConfig(t, "database:\n  url: postgres://file-host/ignored\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.URL != "postgres://env-host/override" {
		t.Errorf("env should win: got %s", cfg.Database.URL)
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/test
embedding:
  provider: carrier-pigeon
`)
	if _, err := Load(path); err == nil {
		t.Error("unknown provider should be rejected")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should be an error")
	}
}
