// Package config loads settings from an optional YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendFiles    = "files"
)

type Config struct {
	Port        string `yaml:"port" validate:"required,numeric"`
	Env         string `yaml:"env" validate:"oneof=development production test"`
	LogLevel    string `yaml:"logLevel"`
	Backend     string `yaml:"backend" validate:"oneof=memory postgres files"`
	DatabaseURL string `yaml:"databaseUrl" validate:"required_if=Backend postgres"`
	DocsDir     string `yaml:"docsDir" validate:"required"`

	// TokenHash is a bcrypt hash; when empty the API is open.
	TokenHash      string   `yaml:"tokenHash"`
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// Client side.
	APIURL           string        `yaml:"apiUrl" validate:"omitempty,url"`
	APIToken         string        `yaml:"apiToken"`
	AutosaveInterval time.Duration `yaml:"autosaveInterval" validate:"gt=0"`
}

func Default() *Config {
	return &Config{
		Port:             "8080",
		Env:              "development",
		LogLevel:         "info",
		Backend:          BackendMemory,
		DocsDir:          defaultDocsDir(),
		AllowedOrigins:   []string{"*"},
		AutosaveInterval: 30 * time.Second,
	}
}

// LoadEnvFile loads .env from the working directory when present.
func LoadEnvFile() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load builds the configuration. path names a YAML file; when empty,
// GESTOR_CONFIG is consulted, and no file is read if both are empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("GESTOR_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.DocsDir = expandHome(cfg.DocsDir)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "GESTOR_PORT")
	setString(&c.Env, "GESTOR_ENV")
	setString(&c.LogLevel, "GESTOR_LOG_LEVEL")
	setString(&c.Backend, "GESTOR_BACKEND")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.DocsDir, "GESTOR_DOCS_DIR")
	setString(&c.TokenHash, "GESTOR_TOKEN_HASH")
	setString(&c.APIURL, "GESTOR_API_URL")
	setString(&c.APIToken, "GESTOR_API_TOKEN")

	if v := os.Getenv("GESTOR_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("GESTOR_AUTOSAVE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GESTOR_AUTOSAVE_INTERVAL: %w", err)
		}
		c.AutosaveInterval = d
	}
	return nil
}

// IsDevelopment reports whether human-readable logs should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultDocsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Gestor360-Docs"
	}
	return filepath.Join(home, "Gestor360-Docs")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
