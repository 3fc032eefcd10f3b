package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entryladder/entryladder/internal/source"
)

// Config is the root configuration for the entryladder pipeline.
type Config struct {
	IngestInterval time.Duration
	DatabasePath   string
	Fetch          FetchConfig
	Sources        SourcesConfig
}

// FetchConfig controls the retry policy shared by all source fetchers.
type FetchConfig struct {
	MaxAttempts    int           // attempts per fetch unit, including the first
	InitialBackoff time.Duration // backoff before the second attempt, doubled after each failure
}

// SourcesConfig carries the per-provider endpoints.
type SourcesConfig struct {
	Arbeitnow ArbeitnowConfig
	Remotive  EndpointConfig
	TheMuse   EndpointConfig
}

// ArbeitnowConfig configures the one paginated provider.
type ArbeitnowConfig struct {
	URL   string `yaml:"url"`
	Pages int    `yaml:"pages"`
}

// EndpointConfig configures a single-collection provider.
type EndpointConfig struct {
	URL string `yaml:"url"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations
// as strings).
type rawConfig struct {
	IngestInterval string           `yaml:"ingest_interval"`
	DatabasePath   string           `yaml:"database_path"`
	Fetch          rawFetchConfig   `yaml:"fetch"`
	Sources        rawSourcesConfig `yaml:"sources"`
}

type rawFetchConfig struct {
	MaxAttempts    int    `yaml:"max_attempts"`
	InitialBackoff string `yaml:"initial_backoff"`
}

type rawSourcesConfig struct {
	Arbeitnow ArbeitnowConfig `yaml:"arbeitnow"`
	Remotive  EndpointConfig  `yaml:"remotive"`
	TheMuse   EndpointConfig  `yaml:"themuse"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		IngestInterval: time.Hour,
		DatabasePath:   "jobs.db",
		Fetch: FetchConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Second,
		},
		Sources: SourcesConfig{
			Arbeitnow: ArbeitnowConfig{URL: source.DefaultArbeitnowURL, Pages: 3},
			Remotive:  EndpointConfig{URL: source.DefaultRemotiveURL},
			TheMuse:   EndpointConfig{URL: source.DefaultMuseURL},
		},
	}
}

// Load reads and parses the YAML config file at path, applies defaults for
// anything unset, validates, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if raw.IngestInterval != "" {
		interval, err := time.ParseDuration(raw.IngestInterval)
		if err != nil {
			return nil, fmt.Errorf("parse ingest_interval %q: %w", raw.IngestInterval, err)
		}
		cfg.IngestInterval = interval
	}
	if raw.DatabasePath != "" {
		cfg.DatabasePath = raw.DatabasePath
	}
	if raw.Fetch.MaxAttempts != 0 {
		cfg.Fetch.MaxAttempts = raw.Fetch.MaxAttempts
	}
	if raw.Fetch.InitialBackoff != "" {
		backoff, err := time.ParseDuration(raw.Fetch.InitialBackoff)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.initial_backoff %q: %w", raw.Fetch.InitialBackoff, err)
		}
		cfg.Fetch.InitialBackoff = backoff
	}
	if raw.Sources.Arbeitnow.URL != "" {
		cfg.Sources.Arbeitnow.URL = raw.Sources.Arbeitnow.URL
	}
	if raw.Sources.Arbeitnow.Pages != 0 {
		cfg.Sources.Arbeitnow.Pages = raw.Sources.Arbeitnow.Pages
	}
	if raw.Sources.Remotive.URL != "" {
		cfg.Sources.Remotive.URL = raw.Sources.Remotive.URL
	}
	if raw.Sources.TheMuse.URL != "" {
		cfg.Sources.TheMuse.URL = raw.Sources.TheMuse.URL
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.IngestInterval <= 0 {
		return fmt.Errorf("ingest_interval must be positive, got %v", cfg.IngestInterval)
	}
	if cfg.Fetch.MaxAttempts < 1 {
		return fmt.Errorf("fetch.max_attempts must be at least 1, got %d", cfg.Fetch.MaxAttempts)
	}
	if cfg.Fetch.InitialBackoff < 0 {
		return fmt.Errorf("fetch.initial_backoff must not be negative, got %v", cfg.Fetch.InitialBackoff)
	}
	if cfg.Sources.Arbeitnow.Pages < 1 {
		return fmt.Errorf("sources.arbeitnow.pages must be at least 1, got %d", cfg.Sources.Arbeitnow.Pages)
	}
	if cfg.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	return nil
}
