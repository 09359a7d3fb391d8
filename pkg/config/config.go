package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the collector
type Config struct {
	// HTTP client settings
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Request pacing configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// HTTPConfig holds HTTP client configuration
type HTTPConfig struct {
	// BaseURL overrides the mobile API host, mainly for tests
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// RateLimitConfig holds the pacing schedule: after MinSteps..MaxSteps
// requests the collector pauses for MinDelaySeconds..MaxDelaySeconds.
type RateLimitConfig struct {
	MinSteps        int   `yaml:"min_steps" json:"min_steps"`
	MaxSteps        int   `yaml:"max_steps" json:"max_steps"`
	MinDelaySeconds int   `yaml:"min_delay_seconds" json:"min_delay_seconds"`
	MaxDelaySeconds int   `yaml:"max_delay_seconds" json:"max_delay_seconds"`
	// Seed fixes the pacing schedule; 0 means time-seeded
	Seed int64 `yaml:"seed" json:"seed"`
}

// OutputConfig holds output stream configuration
type OutputConfig struct {
	// Path of the JSONL output file; empty means stdout
	Path string `yaml:"path" json:"path"`
	// ResolveLongText fetches the detail page for truncated posts
	ResolveLongText bool `yaml:"resolve_long_text" json:"resolve_long_text"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults. The
// pacing defaults pause 6-10 seconds after every 1-5 requests.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Mobile Safari/537.36",
		},
		RateLimit: RateLimitConfig{
			MinSteps:        1,
			MaxSteps:        5,
			MinDelaySeconds: 6,
			MaxDelaySeconds: 10,
		},
		Output: OutputConfig{
			ResolveLongText: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration: defaults, then an optional
// .env file, then a YAML config file, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// a missing .env is fine
	_ = godotenv.Load()

	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file. An empty path
// falls back to the default locations; a missing file is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// findConfigFile checks default config file locations
func (c *Config) findConfigFile() string {
	candidates := []string{".wbscraper.yaml", "wbscraper.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".wbscraper.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFromEnv loads configuration from WBSCRAPER_* environment variables
func (c *Config) LoadFromEnv() error {
	if ua := os.Getenv("WBSCRAPER_USER_AGENT"); ua != "" {
		c.HTTP.UserAgent = ua
	}
	if base := os.Getenv("WBSCRAPER_BASE_URL"); base != "" {
		c.HTTP.BaseURL = base
	}
	if out := os.Getenv("WBSCRAPER_OUTPUT"); out != "" {
		c.Output.Path = out
	}
	if level := os.Getenv("WBSCRAPER_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if seed := os.Getenv("WBSCRAPER_RATE_LIMIT_SEED"); seed != "" {
		val, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid WBSCRAPER_RATE_LIMIT_SEED: %w", err)
		}
		c.RateLimit.Seed = val
	}
	return nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %v", c.HTTP.Timeout)
	}
	rl := c.RateLimit
	if rl.MinSteps < 1 {
		return fmt.Errorf("rate limit min_steps must be at least 1, got %d", rl.MinSteps)
	}
	if rl.MaxSteps < rl.MinSteps {
		return fmt.Errorf("rate limit max_steps %d is below min_steps %d", rl.MaxSteps, rl.MinSteps)
	}
	if rl.MinDelaySeconds < 0 {
		return fmt.Errorf("rate limit min_delay_seconds must not be negative, got %d", rl.MinDelaySeconds)
	}
	if rl.MaxDelaySeconds < rl.MinDelaySeconds {
		return fmt.Errorf("rate limit max_delay_seconds %d is below min_delay_seconds %d", rl.MaxDelaySeconds, rl.MinDelaySeconds)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("unknown log level: %s", c.Logging.Level)
	}
	return nil
}
