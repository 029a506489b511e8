package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Transcripts TranscriptConfig `toml:"transcripts"`
	Chunking    ChunkingConfig   `toml:"chunking"`
	Embedding   EmbeddingConfig  `toml:"embedding"`
	Retrieval   RetrievalConfig  `toml:"retrieval"`
	LLM         LLMConfig        `toml:"llm"`
	Processing  ProcessingConfig `toml:"processing"`
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
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// TranscriptConfig configures the file-based transcript source.
type TranscriptConfig struct {
	Dir string `toml:"dir"` // Directory holding <video-key>.json / <video-key>.srt transcripts
}

// ChunkingConfig controls the transcript splitter.
type ChunkingConfig struct {
	WindowChars  int `toml:"window_chars"`  // Max characters per chunk
	OverlapChars int `toml:"overlap_chars"` // Characters shared between consecutive chunks
}

// EmbeddingConfig controls the embedding provider wrapper.
type EmbeddingConfig struct {
	Dimension         int     `toml:"dimension"`           // Fixed vector dimension per provider
	RequestsPerSecond float64 `toml:"requests_per_second"` // Rate limit for provider calls
	BatchSize         int     `toml:"batch_size"`          // Texts per EmbedBatch call
}

// RetrievalConfig controls hybrid search behavior.
type RetrievalConfig struct {
	TopK int `toml:"top_k"` // Results returned per question
}

// LLMConfig holds provider configuration for embeddings and answer generation.
type LLMConfig struct {
	DefaultProvider string       `toml:"default_provider"` // "gemini" or "claude"
	Timeout         string       `toml:"timeout"`          // e.g. "45s" - per-call timeout
	Gemini          GeminiConfig `toml:"gemini"`
	Claude          ClaudeConfig `toml:"claude"`
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	EmbedModel  string  `toml:"embed_model"`
	Temperature float32 `toml:"temperature"`
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

// ProcessingConfig controls the scheduled re-embed sweep for chunks that were
// persisted before their embedding could be generated.
type ProcessingConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format (with seconds field)
	Limit    int    `toml:"limit"`    // Max chunks to embed per run
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Transcripts: TranscriptConfig{
			Dir: "./transcripts",
		},
		Chunking: ChunkingConfig{
			WindowChars:  1000,
			OverlapChars: 200,
		},
		Embedding: EmbeddingConfig{
			Dimension:         384,
			RequestsPerSecond: 5,
			BatchSize:         32,
		},
		Retrieval: RetrievalConfig{
			TopK: 3,
		},
		LLM: LLMConfig{
			DefaultProvider: "gemini",
			Timeout:         "45s",
			Gemini: GeminiConfig{
				Model:       "gemini-2.5-flash",
				EmbedModel:  "gemini-embedding-001",
				Temperature: 0,
			},
			Claude: ClaudeConfig{
				Model:       "claude-sonnet-4-20250514",
				MaxTokens:   2048,
				Temperature: 0,
			},
		},
		Processing: ProcessingConfig{
			Enabled:  false,           // Disabled by default - user must explicitly opt-in
			Schedule: "0 */10 * * * *", // Every 10 minutes (cron format with seconds)
			Limit:    500,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files override
// earlier files. Priority: CLI flags > env > last file > ... > first file > defaults.
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

// LLMTimeout parses the configured per-call timeout, falling back to 45s.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 45 * time.Second
	}
	return d
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VERBA_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("VERBA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VERBA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("VERBA_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Transcript source configuration
	if dir := os.Getenv("VERBA_TRANSCRIPTS_DIR"); dir != "" {
		config.Transcripts.Dir = dir
	}

	// Logging configuration
	if level := os.Getenv("VERBA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("VERBA_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM configuration (API keys usually arrive via environment)
	if key := os.Getenv("VERBA_GEMINI_API_KEY"); key != "" {
		config.LLM.Gemini.APIKey = key
	}
	if key := os.Getenv("VERBA_ANTHROPIC_API_KEY"); key != "" {
		config.LLM.Claude.APIKey = key
	}
	if provider := os.Getenv("VERBA_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = provider
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority).
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
