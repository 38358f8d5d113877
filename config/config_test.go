package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GESTOR_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.Backend != BackendMemory || cfg.AutosaveInterval != 30*time.Second {
		t.Errorf("Load() = %+v", cfg)
	}
	if filepath.Base(cfg.DocsDir) != "Gestor360-Docs" {
		t.Errorf("DocsDir = %q", cfg.DocsDir)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gestor.yaml")
	yml := `port: "9090"
backend: files
docsDir: /srv/docs
autosaveInterval: 10s
allowedOrigins:
  - http://localhost:5000
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GESTOR_PORT", "7070")
	t.Setenv("GESTOR_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Port = %q, env should win", cfg.Port)
	}
	if cfg.Backend != BackendFiles || cfg.DocsDir != "/srv/docs" || cfg.AutosaveInterval != 10*time.Second {
		t.Errorf("Load() = %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"GESTOR_BACKEND": "mongo"}},
		{"postgres without url", map[string]string{"GESTOR_BACKEND": "postgres", "DATABASE_URL": ""}},
		{"bad interval", map[string]string{"GESTOR_AUTOSAVE_INTERVAL": "soon"}},
		{"bad port", map[string]string{"GESTOR_PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GESTOR_CONFIG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/docs"); got != filepath.Join(home, "docs") {
		t.Errorf("expandHome(~/docs) = %q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("expandHome(/abs) = %q", got)
	}
}
