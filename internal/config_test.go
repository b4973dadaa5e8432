package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Backend:           BackendGroq,
		Temperature:       0.45,
		PreferredLanguage: "en",
		SummaryStyle:      "short",
		SummaryMode:       ModeChunked,
		MaxChunkChars:     12000,
		OverlapChars:      400,
		MaxInputChars:     DefaultMaxInputChars,
		MaxRetryAttempts:  DefaultMaxAttempts,
	}
}

func TestInitConfigFromFile(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("CLIP2TEXT_CONCURRENCY", "7")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend = "OpenAI"
summary_style = "study"
summary_mode = "truncate"
max_input_chars = 9000
fetch_timeout = "5s"
`), 0644))

	config, err := InitConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.ConfigFileUsed())
	assert.Equal(t, BackendOpenAI, config.Backend)
	assert.Equal(t, "gpt-4o-mini", config.ModelName())
	assert.Equal(t, "sk-env", config.APIKey())
	assert.Equal(t, ModeTruncate, config.SummaryMode)
	assert.Equal(t, 9000, config.MaxInputChars)
	assert.Equal(t, 5*time.Second, config.FetchTimeout)
	assert.Equal(t, 7, config.Concurrency)
	assert.Equal(t, "en", config.PreferredLanguage)
	assert.Equal(t, DefaultMaxAttempts, config.MaxRetryAttempts)

	style, err := config.Style()
	require.NoError(t, err)
	assert.Equal(t, StyleStudy, style)
	assert.NoError(t, config.Validate())
}

func TestInitConfigMissingExplicitFile(t *testing.T) {
	_, err := InitConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestEmbeddedDefaultsAreValid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EnsureDefaultConfig(dir))
	require.NoError(t, EnsureDefaultPrompt(dir))
	assert.FileExists(t, filepath.Join(dir, "config.toml"))
	assert.FileExists(t, filepath.Join(dir, "prompt.txt"))

	config, err := InitConfig(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Backend = "ollama" }, "unsupported backend"},
		{"unknown style", func(c *Config) { c.SummaryStyle = "poem" }, "unknown summary style"},
		{"overlap too large", func(c *Config) { c.OverlapChars = c.MaxChunkChars }, "invalid chunk config"},
		{"unknown mode", func(c *Config) { c.SummaryMode = "map-reduce" }, "unsupported summary mode"},
		{"truncate without budget", func(c *Config) {
			c.SummaryMode = ModeTruncate
			c.MaxInputChars = 0
		}, "max_input_chars"},
		{"no attempts", func(c *Config) { c.MaxRetryAttempts = 0 }, "max_retry_attempts"},
		{"hot temperature", func(c *Config) { c.Temperature = 2.5 }, "temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modify(config)
			err := config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestConfigAPIKeyAndModel(t *testing.T) {
	config := validConfig()
	config.GroqAPIKey = "gsk"
	config.OpenAIAPIKey = "sk"
	config.GeminiAPIKey = "gm"

	for backend, key := range map[string]string{BackendGroq: "gsk", BackendOpenAI: "sk", BackendGemini: "gm"} {
		config.Backend = backend
		assert.Equal(t, key, config.APIKey())
		assert.Equal(t, DefaultModel(backend), config.ModelName())
	}

	config.Model = "llama-3.3-70b-versatile"
	assert.Equal(t, "llama-3.3-70b-versatile", config.ModelName())
}
