package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	LLM         LLMConfig     `toml:"llm"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	Ingest      IngestConfig  `toml:"ingest"`
	Answer      AnswerConfig  `toml:"answer"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the generation provider. Embeddings always come from
// Gemini: the stored vectors are Gemini vectors, and mixing embedding models
// without re-indexing corrupts similarity search.
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=gemini claude"`
}

// GeminiConfig contains Google Gemini API configuration for embeddings and chat
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`         // Google Gemini API key
	EmbedModel     string  `toml:"embed_model"`     // Embedding model (default: "gemini-embedding-001")
	ChatModel      string  `toml:"chat_model"`      // Chat model (default: "gemini-2.0-flash")
	EmbedDimension int     `toml:"embed_dimension"` // Embedding output dimensionality (default: 768)
	Temperature    float32 `toml:"temperature"`     // Chat completion temperature (default: 0.7)
	Timeout        string  `toml:"timeout"`         // Operation timeout as duration string (default: "2m")
}

// ClaudeConfig contains Anthropic Claude API configuration (generation only)
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for generation (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
}

// IngestConfig configures the ingestion pipeline: the default source and the
// pacing of browser navigations against it.
type IngestConfig struct {
	Enabled         bool   `toml:"enabled"`          // Ingestion must be explicitly enabled
	Schedule        string `toml:"schedule"`         // Cron schedule for recurring runs (empty = manual only)
	Source          string `toml:"source"`           // Publisher label for the default source
	ListingURL      string `toml:"listing_url"`      // Listing page to render and scan
	BaseURL         string `toml:"base_url"`         // Base for resolving relative links (derived from listing_url when empty)
	LinkSelector    string `toml:"link_selector"`    // Selector matching candidate link containers
	ContentSelector string `toml:"content_selector"` // Selector locating the article body
	SourcesDir      string `toml:"sources_dir"`      // Optional directory of additional source definitions (*.toml, *.yaml)
	SettleDelay     string `toml:"settle_delay"`     // Wait after navigation as duration string (default: "3s")
	RequestDelay    string `toml:"request_delay"`    // Minimum spacing between navigations as duration string (default: "1s")
	RequestTimeout  string `toml:"request_timeout"`  // Per-navigation timeout as duration string (default: "30s")
	Headless        bool   `toml:"headless"`         // Run the browser headless
	UserAgent       string `toml:"user_agent"`       // Browser user agent
}

// AnswerConfig configures the answering pipeline retrieval step.
type AnswerConfig struct {
	TopK                int     `toml:"top_k" validate:"gt=0"`                       // Articles retrieved per question
	SimilarityThreshold float32 `toml:"similarity_threshold" validate:"gte=0,lte=1"` // Minimum similarity for a match
	FallbackMessage     string  `toml:"fallback_message" validate:"required"`        // Returned when nothing clears the threshold
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability; only
// user-facing settings belong in nuntius.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8081,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Gemini: GeminiConfig{
			APIKey:         "",
			EmbedModel:     "gemini-embedding-001",
			ChatModel:      "gemini-2.0-flash",
			EmbedDimension: 768,
			Temperature:    0.7,
			Timeout:        "2m",
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   4096,
			Temperature: 0.7,
			Timeout:     "2m",
		},
		Ingest: IngestConfig{
			Enabled:        false, // User must explicitly opt in
			Schedule:       "",
			SettleDelay:    "3s", // Wait for JavaScript to render
			RequestDelay:   "1s", // At most one navigation per second
			RequestTimeout: "30s",
			Headless:       true,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Answer: AnswerConfig{
			TopK:                5,
			SimilarityThreshold: 0.7,
			FallbackMessage:     "I could not find relevant news about that topic in my database.",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// An empty path loads defaults and environment overrides only.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files override
// earlier files, and environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NUNTIUS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("NUNTIUS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("NUNTIUS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("NUNTIUS_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("NUNTIUS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Provider credentials. Vendor-standard variable names are accepted as
	// fallbacks so the binaries work in environments already configured for
	// the official SDKs.
	if key := os.Getenv("NUNTIUS_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("NUNTIUS_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if provider := os.Getenv("NUNTIUS_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Ingestion configuration
	if listingURL := os.Getenv("NUNTIUS_INGEST_LISTING_URL"); listingURL != "" {
		config.Ingest.ListingURL = listingURL
	}
	if schedule := os.Getenv("NUNTIUS_INGEST_SCHEDULE"); schedule != "" {
		config.Ingest.Schedule = schedule
	}
	if delay := os.Getenv("NUNTIUS_INGEST_SETTLE_DELAY"); delay != "" {
		config.Ingest.SettleDelay = delay
	}
	if delay := os.Getenv("NUNTIUS_INGEST_REQUEST_DELAY"); delay != "" {
		config.Ingest.RequestDelay = delay
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks that the resolved configuration can actually serve. A
// missing credential or an enabled-but-unconfigured ingestion target is a
// fatal configuration error: the process must not start without it.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Gemini is always required: it is the only embedding provider.
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required (set NUNTIUS_GEMINI_API_KEY, GEMINI_API_KEY, or gemini.api_key in config)")
	}
	if c.Gemini.EmbedDimension <= 0 {
		return fmt.Errorf("gemini.embed_dimension must be greater than 0, got %d", c.Gemini.EmbedDimension)
	}
	if _, err := time.ParseDuration(c.Gemini.Timeout); err != nil {
		return fmt.Errorf("invalid gemini.timeout %q: %w", c.Gemini.Timeout, err)
	}

	if c.LLM.DefaultProvider == LLMProviderClaude {
		if c.Claude.APIKey == "" {
			return fmt.Errorf("claude.api_key is required when llm.default_provider is %q (set NUNTIUS_CLAUDE_API_KEY, ANTHROPIC_API_KEY, or claude.api_key in config)", LLMProviderClaude)
		}
		if _, err := time.ParseDuration(c.Claude.Timeout); err != nil {
			return fmt.Errorf("invalid claude.timeout %q: %w", c.Claude.Timeout, err)
		}
	}

	if c.Ingest.Enabled {
		if c.Ingest.ListingURL == "" || c.Ingest.LinkSelector == "" || c.Ingest.ContentSelector == "" {
			return fmt.Errorf("ingest.listing_url, ingest.link_selector and ingest.content_selector are required when ingestion is enabled")
		}
		for name, value := range map[string]string{
			"ingest.settle_delay":    c.Ingest.SettleDelay,
			"ingest.request_delay":   c.Ingest.RequestDelay,
			"ingest.request_timeout": c.Ingest.RequestTimeout,
		} {
			if value == "" {
				continue
			}
			if d, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid %s %q: %w", name, value, err)
			} else if d < 0 {
				return fmt.Errorf("%s must not be negative, got %q", name, value)
			}
		}
	}

	return nil
}
