package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
endpoint:
  url: https://api.example.com/graphql
  headers:
    Authorization: Bearer token123
    X-Tenant: acme
generate:
  schema_name: example
  package: examplegql
registry:
  db: /tmp/gqlforge.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Endpoint.URL != "https://api.example.com/graphql" {
		t.Errorf("unexpected endpoint url %q", cfg.Endpoint.URL)
	}
	if cfg.Endpoint.Headers["Authorization"] != "Bearer token123" {
		t.Errorf("unexpected headers %v", cfg.Endpoint.Headers)
	}
	if cfg.Endpoint.Headers["X-Tenant"] != "acme" {
		t.Errorf("unexpected headers %v", cfg.Endpoint.Headers)
	}
	if cfg.Generate.SchemaName != "example" || cfg.Generate.Package != "examplegql" {
		t.Errorf("unexpected generate section %+v", cfg.Generate)
	}
	if cfg.Registry.DB != "/tmp/gqlforge.db" {
		t.Errorf("unexpected registry db %q", cfg.Registry.DB)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing explicit config path")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "endpoint: [not: closed")

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadDefault_MissingIsZero(t *testing.T) {
	cfg, err := LoadDefault(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error for absent default config, got %v", err)
	}
	if cfg.Endpoint.URL != "" || cfg.Generate.SchemaName != "" || cfg.Registry.DB != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadDefault_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "generate:\n  schema_name: fromfile\n")

	cfg, err := LoadDefault(dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Generate.SchemaName != "fromfile" {
		t.Errorf("expected schema name from file, got %q", cfg.Generate.SchemaName)
	}
}
