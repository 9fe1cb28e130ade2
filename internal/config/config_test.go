// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("Expected default model text-embedding-3-small, got %s", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("Expected 1536 dimensions, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Search.InitialTopK != 50 || cfg.Search.FinalTopK != 16 {
		t.Errorf("Expected top-k defaults 50/16, got %d/%d",
			cfg.Search.InitialTopK, cfg.Search.FinalTopK)
	}
	if cfg.Search.CacheTTL != time.Hour {
		t.Errorf("Expected 1h cache TTL, got %v", cfg.Search.CacheTTL)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}

	// Defaults must pass their own validation
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SEARCH_FINAL_TOP_K", "8")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090 from env, got %d", cfg.Server.Port)
	}
	if cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("Expected API key from env, got %q", cfg.Embedding.APIKey)
	}
	if cfg.Search.FinalTopK != 8 {
		t.Errorf("Expected final_top_k 8, got %d", cfg.Search.FinalTopK)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug log level, got %s", cfg.Logging.Level)
	}
	if len(cfg.API.CORSOrigins) != 2 || cfg.API.CORSOrigins[0] != "https://a.example" {
		t.Errorf("Expected parsed CORS origins, got %v", cfg.API.CORSOrigins)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 3000
search:
  initial_top_k: 100
  final_top_k: 10
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Expected port 3000 from file, got %d", cfg.Server.Port)
	}
	if cfg.Search.InitialTopK != 100 || cfg.Search.FinalTopK != 10 {
		t.Errorf("Expected top-k 100/10 from file, got %d/%d",
			cfg.Search.InitialTopK, cfg.Search.FinalTopK)
	}

	// Env should still beat the file
	t.Setenv("HTTP_PORT", "3001")
	cfg, err = LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf failed: %v", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("Expected env to override file, got port %d", cfg.Server.Port)
	}
}

func TestLoadRecordsSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 4000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf failed: %v", err)
	}
	if cfg.SourceFile != path {
		t.Errorf("Expected source file %q recorded for watching, got %q", path, cfg.SourceFile)
	}

	// Without a file the path stays empty and no watcher should start
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	cfg, err = LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf failed: %v", err)
	}
	if cfg.SourceFile != "" {
		t.Errorf("Expected empty source file, got %q", cfg.SourceFile)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"final exceeds initial", func(c *Config) { c.Search.FinalTopK = 200 }},
		{"zero cache ttl", func(c *Config) { c.Search.CacheTTL = 0 }},
		{"lambda out of range", func(c *Config) { c.Search.DiversityLambda = 1.5 }},
		{"empty model", func(c *Config) { c.Embedding.Model = "" }},
		{"bad base url", func(c *Config) { c.Embedding.BaseURL = "ftp://example.com" }},
		{"zero rpm", func(c *Config) { c.Embedding.RequestsPerMinute = 0 }},
		{"page size inversion", func(c *Config) { c.API.MaxPageSize = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	cases := map[string]string{
		"OPENAI_API_KEY":    "embedding.api_key",
		"DUCKDB_PATH":       "database.path",
		"HTTP_PORT":         "server.port",
		"SEARCH_CACHE_TTL":  "search.cache_ttl",
		"VECTOR_STORE_PATH": "vector_store.path",
		"RANDOM_VAR":        "", // unmapped keys are skipped
	}

	for in, want := range cases {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
