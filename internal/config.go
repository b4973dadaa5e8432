package internal

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const appName = "clip2text"

const (
	BackendGroq   = "groq"
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Backends lists the supported summarization backends
var Backends = []string{BackendGroq, BackendOpenAI, BackendGemini}

// Config holds application settings
type Config struct {
	// Summarization backend
	Backend     string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int

	GroqAPIKey   string
	OpenAIAPIKey string
	GeminiAPIKey string

	// Pipeline
	PreferredLanguage string
	SummaryStyle      string
	SummaryMode       string
	MaxChunkChars     int
	OverlapChars      int
	MaxInputChars     int
	MaxRetryAttempts  int
	FetchTimeout      time.Duration
	SummaryTimeout    time.Duration
	Concurrency       int
	RequestsPerMinute int
	LogLines          int

	// Output
	OutputDir     string
	Verbose       bool
	Quiet         bool
	Prompt        string
	MCPLogEnabled bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string

	configFileUsed string
}

//go:embed config.toml prompt.txt
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Fprintf(os.Stderr, "Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig writes the embedded config.toml to configDir if none exists
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompt writes the embedded prompt.txt to configDir if none exists
func EnsureDefaultPrompt(configDir string) error {
	return ensureDefaultFile(configDir, "prompt.txt", "prompt template")
}

// DefaultModel returns the model used when none is configured
func DefaultModel(backend string) string {
	switch backend {
	case BackendOpenAI:
		return "gpt-4o-mini"
	case BackendGemini:
		return "gemini-2.5-flash"
	default:
		return "llama-3.1-8b-instant"
	}
}

// InitConfig initializes Viper and loads configuration.
// configFile overrides the search of the XDG config dir and the working directory.
func InitConfig(configFile string) (*Config, error) {
	configDir := filepath.Join(xdg.ConfigHome, appName)
	dataDir := filepath.Join(xdg.DataHome, appName)
	cacheDir := filepath.Join(xdg.CacheHome, appName)

	v := viper.New()
	setDefaults(v, dataDir)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CLIP2TEXT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("groq_api_key", "CLIP2TEXT_GROQ_API_KEY", "GROQ_API_KEY", "GROQ_KEY")
	_ = v.BindEnv("openai_api_key", "CLIP2TEXT_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("gemini_api_key", "CLIP2TEXT_GEMINI_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	config := &Config{
		Backend:     strings.ToLower(v.GetString("backend")),
		Model:       v.GetString("model"),
		BaseURL:     v.GetString("base_url"),
		Temperature: v.GetFloat64("temperature"),
		MaxTokens:   v.GetInt("max_tokens"),

		GroqAPIKey:   v.GetString("groq_api_key"),
		OpenAIAPIKey: v.GetString("openai_api_key"),
		GeminiAPIKey: v.GetString("gemini_api_key"),

		PreferredLanguage: v.GetString("preferred_language"),
		SummaryStyle:      v.GetString("summary_style"),
		SummaryMode:       strings.ToLower(v.GetString("summary_mode")),
		MaxChunkChars:     v.GetInt("max_chunk_chars"),
		OverlapChars:      v.GetInt("overlap_chars"),
		MaxInputChars:     v.GetInt("max_input_chars"),
		MaxRetryAttempts:  v.GetInt("max_retry_attempts"),
		FetchTimeout:      v.GetDuration("fetch_timeout"),
		SummaryTimeout:    v.GetDuration("summary_timeout"),
		Concurrency:       v.GetInt("concurrency"),
		RequestsPerMinute: v.GetInt("requests_per_minute"),
		LogLines:          v.GetInt("log_lines"),

		OutputDir:     v.GetString("output_dir"),
		Verbose:       v.GetBool("verbose"),
		Quiet:         v.GetBool("quiet"),
		Prompt:        v.GetString("prompt"),
		MCPLogEnabled: v.GetBool("mcp_log_enabled"),

		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,

		configFileUsed: v.ConfigFileUsed(),
	}
	return config, nil
}

func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("backend", BackendGroq)
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("temperature", 0.45)
	v.SetDefault("max_tokens", 8192)
	v.SetDefault("preferred_language", "en")
	v.SetDefault("summary_style", StyleShort.Key())
	v.SetDefault("summary_mode", ModeChunked)
	v.SetDefault("max_chunk_chars", 12000)
	v.SetDefault("overlap_chars", 400)
	v.SetDefault("max_input_chars", DefaultMaxInputChars)
	v.SetDefault("max_retry_attempts", DefaultMaxAttempts)
	v.SetDefault("fetch_timeout", 30*time.Second)
	v.SetDefault("summary_timeout", 2*time.Minute)
	v.SetDefault("concurrency", 3)
	v.SetDefault("requests_per_minute", 30)
	v.SetDefault("log_lines", DefaultLogLines)
	v.SetDefault("output_dir", filepath.Join(dataDir, "outputs"))
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("prompt", "") // if empty will use default prompt template
	v.SetDefault("mcp_log_enabled", false)
}

// ConfigFileUsed returns the config file that was read, if any
func (c *Config) ConfigFileUsed() string {
	return c.configFileUsed
}

// ModelName returns the configured model or the backend default
func (c *Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Backend)
}

// APIKey returns the key of the configured backend
func (c *Config) APIKey() string {
	switch c.Backend {
	case BackendOpenAI:
		return c.OpenAIAPIKey
	case BackendGemini:
		return c.GeminiAPIKey
	default:
		return c.GroqAPIKey
	}
}

// Style returns the configured summary preset
func (c *Config) Style() (SummaryStyle, error) {
	return ParseSummaryStyle(c.SummaryStyle)
}

// Validate checks settings that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("unsupported backend: %s (supported: %s)", c.Backend, strings.Join(Backends, ", "))
	}
	if _, err := c.Style(); err != nil {
		return err
	}
	switch c.SummaryMode {
	case ModeChunked:
		if _, err := ChunkText("x", c.MaxChunkChars, c.OverlapChars); err != nil {
			return err
		}
	case ModeTruncate:
		if c.MaxInputChars <= 0 {
			return fmt.Errorf("max_input_chars must be positive, got %d", c.MaxInputChars)
		}
	default:
		return fmt.Errorf("unsupported summary mode: %s (supported: %s, %s)", c.SummaryMode, ModeChunked, ModeTruncate)
	}
	if c.MaxRetryAttempts < 1 {
		return fmt.Errorf("max_retry_attempts must be at least 1, got %d", c.MaxRetryAttempts)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	return nil
}
