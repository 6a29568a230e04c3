package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != ":8787" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.DatabasePath != "websentry.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.Provider.Kind != "workers-ai" {
		t.Errorf("Provider.Kind = %q", cfg.Provider.Kind)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "websentry.yaml")
	content := `
listen: ":9090"
database_path: /var/lib/websentry/sessions.db
provider:
  kind: openai
  model: gpt-4o-mini
  base_url: https://gateway.internal/v1/chat/completions
  max_rps: 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.DatabasePath != "/var/lib/websentry/sessions.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.Provider.Kind != "openai" || cfg.Provider.Model != "gpt-4o-mini" {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Provider.MaxRPS != 5 {
		t.Errorf("MaxRPS = %v", cfg.Provider.MaxRPS)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load returned error for absent file: %v", err)
	}
	if cfg.Listen != Default().Listen {
		t.Errorf("Listen = %q, want default", cfg.Listen)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load returned nil error for malformed YAML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WEBSENTRY_LISTEN", ":7000")
	t.Setenv("WEBSENTRY_PROVIDER", "openai")
	t.Setenv("WEBSENTRY_API_TOKEN", "token-from-env")
	t.Setenv("WEBSENTRY_MAX_RPS", "0.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Listen != ":7000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Provider.Kind != "openai" {
		t.Errorf("Provider.Kind = %q", cfg.Provider.Kind)
	}
	if cfg.Provider.APIToken != "token-from-env" {
		t.Errorf("APIToken = %q", cfg.Provider.APIToken)
	}
	if cfg.Provider.MaxRPS != 0.5 {
		t.Errorf("MaxRPS = %v", cfg.Provider.MaxRPS)
	}
}

func TestLoad_TokenNeverFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "websentry.yaml")
	if err := os.WriteFile(path, []byte("provider:\n  apitoken: leaked\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("WEBSENTRY_API_TOKEN", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Provider.APIToken != "" {
		t.Errorf("APIToken = %q, want empty (file values ignored)", cfg.Provider.APIToken)
	}
}
