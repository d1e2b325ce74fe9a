// Package config manages agent configuration from defaults, config
// files, and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contains the shared configuration for all agents
type Config struct {
	// LLM settings
	Provider    string  `json:"provider" mapstructure:"provider" validate:"required,oneof=groq anthropic openai"`
	Model       string  `json:"model" mapstructure:"model"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens" validate:"min=1,max=200000"`
	Temperature float32 `json:"temperature" mapstructure:"temperature" validate:"min=0,max=2"`

	// Rate limiting and retries
	RequestsPerMinute int           `json:"requests_per_minute" mapstructure:"requests_per_minute" validate:"min=1,max=10000"`
	RetryAttempts     int           `json:"retry_attempts" mapstructure:"retry_attempts" validate:"min=1,max=10"`
	RetryDelay        time.Duration `json:"retry_delay" mapstructure:"retry_delay" validate:"min=0"`

	// Caching
	CacheEnabled bool          `json:"cache_enabled" mapstructure:"cache_enabled"`
	CacheDir     string        `json:"cache_dir" mapstructure:"cache_dir"`
	CacheTTL     time.Duration `json:"cache_ttl" mapstructure:"cache_ttl" validate:"min=0"`

	// Output
	OutputDir string `json:"output_dir" mapstructure:"output_dir" validate:"required"`
	Verbose   bool   `json:"verbose" mapstructure:"verbose"`
}

// Default returns the default configuration. Groq is the default
// provider because of its free tier.
func Default() *Config {
	return &Config{
		Provider:          "groq",
		Model:             "",
		MaxTokens:         4096,
		Temperature:       0.7,
		RequestsPerMinute: 50,
		RetryAttempts:     3,
		RetryDelay:        time.Second,
		CacheEnabled:      true,
		CacheDir:          ".cache",
		CacheTTL:          time.Hour,
		OutputDir:         "output",
		Verbose:           false,
	}
}

// Load builds the configuration from defaults, an optional config file
// (YAML or JSON), and AGENT_* environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}

		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides config fields from AGENT_* environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("AGENT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("AGENT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("AGENT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv("AGENT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			c.Temperature = float32(f)
		}
	}
	if v := os.Getenv("AGENT_VERBOSE"); v != "" {
		c.Verbose = v == "true" || v == "1"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// LoadDotenv loads a .env file from the working directory when present.
// A missing file is not an error.
func LoadDotenv() {
	_ = godotenv.Load()
}
