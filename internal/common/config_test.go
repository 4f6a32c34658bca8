package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a default configuration with the one credential every
// deployment needs.
func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Gemini.APIKey = "test-gemini-key"
	return cfg
}

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, LLMProviderGemini, cfg.LLM.DefaultProvider)
	assert.Equal(t, 768, cfg.Gemini.EmbedDimension)
	assert.Equal(t, "gemini-embedding-001", cfg.Gemini.EmbedModel)
	assert.Equal(t, 5, cfg.Answer.TopK)
	assert.Equal(t, float32(0.7), cfg.Answer.SimilarityThreshold)
	assert.NotEmpty(t, cfg.Answer.FallbackMessage)
	assert.Equal(t, "3s", cfg.Ingest.SettleDelay)
	assert.False(t, cfg.Ingest.Enabled, "ingestion requires explicit opt-in")
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingGeminiKey(t *testing.T) {
	cfg := NewDefaultConfig()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini.api_key")
}

func TestValidate_ClaudeProviderRequiresKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.DefaultProvider = LLMProviderClaude

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claude.api_key")

	cfg.Claude.APIKey = "test-claude-key"
	require.NoError(t, cfg.Validate())
}

func TestValidate_EnabledIngestRequiresSelectors(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.Enabled = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content_selector")

	cfg.Ingest.ListingURL = "https://www.emol.com/noticias/"
	cfg.Ingest.LinkSelector = "div.headline"
	cfg.Ingest.ContentSelector = "div#body"
	require.NoError(t, cfg.Validate())
}

func TestValidate_BadIngestDuration(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.Enabled = true
	cfg.Ingest.ListingURL = "https://www.emol.com/noticias/"
	cfg.Ingest.LinkSelector = "div.headline"
	cfg.Ingest.ContentSelector = "div#body"
	cfg.Ingest.SettleDelay = "fast"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settle_delay")
}

func TestValidate_BadGeminiTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Gemini.Timeout = "soon"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini.timeout")
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, "nuntius.toml", `
[server]
port = 9090

[gemini]
api_key = "file-key"
`)

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, 768, cfg.Gemini.EmbedDimension, "defaults survive partial files")
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	first := writeConfigFile(t, "base.toml", "[server]\nport = 9090\n")
	second := writeConfigFile(t, "override.toml", "[server]\nport = 9091\n")

	cfg, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 9091, cfg.Server.Port)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("NUNTIUS_SERVER_PORT", "9999")
	t.Setenv("GEMINI_API_KEY", "vendor-key")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "vendor-key", cfg.Gemini.APIKey, "vendor variable accepted as fallback")
}

func TestLoadFromFiles_NuntiusKeyBeatsVendorKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "vendor-key")
	t.Setenv("NUNTIUS_GEMINI_API_KEY", "nuntius-key")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, "nuntius-key", cfg.Gemini.APIKey)
}
