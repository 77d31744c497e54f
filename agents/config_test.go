package agents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("GROQ_MODEL", "")
	t.Setenv("USE_WEB_RESEARCH", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "llama3-8b-8192", cfg.Model)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-9)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.True(t, cfg.UseWeb)
	assert.Equal(t, 3, cfg.SearchTopK)
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "llama3-8b-8192", cfg.Model)
}

func TestLoadConfigFromYAML(t *testing.T) {
	t.Setenv("GROQ_MODEL", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: llama3-70b-8192
temperature: 0.7
max_attempts: 5
use_web_research: false
search_top_k: 4
logging:
  level: debug
  debug: true
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "llama3-70b-8192", cfg.Model)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.False(t, cfg.UseWeb)
	assert.Equal(t, 4, cfg.SearchTopK)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Debug)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gk-123")
	t.Setenv("TAVILY_API_KEY", "tv-456")
	t.Setenv("GROQ_MODEL", "mixtral-8x7b-32768")
	t.Setenv("USE_WEB_RESEARCH", "FALSE")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "gk-123", cfg.GroqAPIKey)
	assert.Equal(t, "tv-456", cfg.TavilyAPIKey)
	assert.Equal(t, "mixtral-8x7b-32768", cfg.Model)
	assert.False(t, cfg.UseWeb)
}

func TestLoadConfigInvalidBoolIgnored(t *testing.T) {
	t.Setenv("USE_WEB_RESEARCH", "maybe")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.UseWeb, "unparseable override keeps the configured value")
}

func TestLoadConfigNormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_attempts: -1\nsearch_top_k: 0\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 3, cfg.SearchTopK)
}
