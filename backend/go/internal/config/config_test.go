package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, `
llm:
  provider: ollama
  ollama:
    model: mistral
cache:
  backend: sqlite
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "mistral", cfg.LLM.Ollama.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Ollama.BaseURL)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "24h", cfg.Cache.TTL)
	assert.Equal(t, 8, cfg.MongoDB.SampleConcurrency)
	assert.Equal(t, 250.0, cfg.Layout.NodeWidth)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := writeFile(t, "llm: [unterminated")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadFallsBackToDefaultsWhenFileIsMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("does-not-exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Address)
}

func TestApplyEnvOverridesConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://env-host:27017/shop")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SCHEMAFLOW_LLM_PROVIDER", "none")
	t.Setenv("SCHEMAFLOW_CACHE_BACKEND", "redis")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, "mongodb://env-host:27017/shop", cfg.MongoDB.DefaultURI)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Equal(t, "redis", cfg.Cache.Backend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"unknown provider", func(c *AppConfig) { c.LLM.Provider = "claude" }},
		{"unknown cache backend", func(c *AppConfig) { c.Cache.Backend = "memcached" }},
		{"bad ttl", func(c *AppConfig) { c.Cache.TTL = "a day" }},
		{"zero concurrency", func(c *AppConfig) { c.MongoDB.SampleConcurrency = 0 }},
		{"zero node width", func(c *AppConfig) { c.Layout.NodeWidth = 0 }},
		{"negative spacing", func(c *AppConfig) { c.Layout.LayerSpacing = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, Duration("24h", time.Minute))
	assert.Equal(t, time.Minute, Duration("", time.Minute))
}
