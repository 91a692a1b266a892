// Package config provides YAML configuration for applications embedding
// esgo, including the esdoc CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SecretEnvVar, when set, overrides the secret from the config file so
// credentials can stay out of checked-in files.
const SecretEnvVar = "ESGO_SECRET"

// Config is the complete esgo application configuration.
type Config struct {
	Engine   EngineConfig   `yaml:"engine" json:"engine"`
	Cache    CacheConfig    `yaml:"cache" json:"cache"`
	Defaults DefaultsConfig `yaml:"defaults" json:"defaults"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// EngineConfig configures the connection to the search engine.
type EngineConfig struct {
	// Endpoints lists the engine HTTP endpoints, used round-robin.
	Endpoints []string `yaml:"endpoints" json:"endpoints"`

	// Secret carries credentials as "basic:user:pass" or "token:key".
	// The ESGO_SECRET env var takes precedence.
	Secret string `yaml:"secret" json:"secret"`

	Gzip                bool          `yaml:"gzip" json:"gzip"`
	MaxRetries          int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay          time.Duration `yaml:"retry_delay" json:"retry_delay"`
	RateLimit           float64       `yaml:"rate_limit" json:"rate_limit"`
	RateBurst           int           `yaml:"rate_burst" json:"rate_burst"`
	HealthCheckInterval time.Duration `yaml:"health_check_interval" json:"health_check_interval"`
	OpaqueIDs           bool          `yaml:"opaque_ids" json:"opaque_ids"`
}

// CacheConfig configures the fetch response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Size    int           `yaml:"size" json:"size"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// DefaultsConfig configures per-operation defaults.
type DefaultsConfig struct {
	Index  string `yaml:"index" json:"index"`
	Type   string `yaml:"type" json:"type"`
	Strict bool   `yaml:"strict" json:"strict"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file is present: a single
// local endpoint, no credentials, modest retries.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Endpoints:  []string{"http://localhost:9200"},
			MaxRetries: 3,
			RetryDelay: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			Size: 1024,
			TTL:  time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration from path, overlaying it on the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if secret := os.Getenv(SecretEnvVar); secret != "" {
		c.Engine.Secret = secret
	}
}

// Validate checks the configuration for values the transport or cache would
// reject later.
func (c *Config) Validate() error {
	if len(c.Engine.Endpoints) == 0 {
		return fmt.Errorf("engine.endpoints must not be empty")
	}
	for _, e := range c.Engine.Endpoints {
		if e == "" {
			return fmt.Errorf("engine.endpoints must not contain empty entries")
		}
	}
	if c.Engine.MaxRetries < 0 {
		return fmt.Errorf("engine.max_retries must not be negative")
	}
	if c.Engine.RateLimit < 0 {
		return fmt.Errorf("engine.rate_limit must not be negative")
	}
	if c.Engine.RateLimit > 0 && c.Engine.RateBurst <= 0 {
		return fmt.Errorf("engine.rate_burst must be positive when rate limiting is enabled")
	}
	if c.Cache.Enabled && c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive when the cache is enabled")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}
	return nil
}
