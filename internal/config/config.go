// Package config holds all courtside configuration, loaded from
// .courtside/config.yaml with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all courtside configuration.
type Config struct {
	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// NBA stats upstream configuration
	NBA NBAConfig `yaml:"nba"`

	// Game log cache
	Cache CacheConfig `yaml:"cache"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generative-text provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// NBAConfig configures the stats.nba.com upstream.
type NBAConfig struct {
	Season      string `yaml:"season"`       // e.g. "2025-26"
	SeasonType  string `yaml:"season_type"`  // "Regular Season"
	Timeout     string `yaml:"timeout"`      // per-request timeout
	Retries     int    `yaml:"retries"`      // retry ceiling for the game log fetch
	BackoffUnit string `yaml:"backoff_unit"` // linear backoff unit per attempt
	Window      int    `yaml:"window"`       // most-recent games kept
}

// CacheConfig configures the SQLite game log cache.
type CacheConfig struct {
	Path string `yaml:"path"`
	TTL  string `yaml:"ttl"`
}

// LoggingConfig configures categorized file logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// DefaultConfigPath returns the default path to .courtside/config.yaml
// under the given workspace.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(workspace, ".courtside", "config.yaml")
}

// Default returns a fully-populated default configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "",
			Model:    "",
			Timeout:  "120s",
		},
		NBA: NBAConfig{
			Season:      "2025-26",
			SeasonType:  "Regular Season",
			Timeout:     "30s",
			Retries:     4,
			BackoffUnit: "3s",
			Window:      5,
		},
		Cache: CacheConfig{
			Path: filepath.Join(".courtside", "statcache.db"),
			TTL:  "1h",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads the config file at path, applies defaults for missing
// fields, then applies environment overrides. A missing file is not an
// error; defaults plus environment are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// applyDefaults refills any fields the YAML zeroed out.
func (c *Config) applyDefaults() {
	def := Default()
	if c.NBA.Season == "" {
		c.NBA.Season = def.NBA.Season
	}
	if c.NBA.SeasonType == "" {
		c.NBA.SeasonType = def.NBA.SeasonType
	}
	if c.NBA.Timeout == "" {
		c.NBA.Timeout = def.NBA.Timeout
	}
	if c.NBA.Retries <= 0 {
		c.NBA.Retries = def.NBA.Retries
	}
	if c.NBA.BackoffUnit == "" {
		c.NBA.BackoffUnit = def.NBA.BackoffUnit
	}
	if c.NBA.Window <= 0 {
		c.NBA.Window = def.NBA.Window
	}
	if c.Cache.Path == "" {
		c.Cache.Path = def.Cache.Path
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = def.Cache.TTL
	}
	if c.LLM.Timeout == "" {
		c.LLM.Timeout = def.LLM.Timeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

// ApplyEnvOverrides applies environment variables on top of the file
// configuration. COURTSIDE_SEASON overrides the season; API keys are
// picked up when the file carries none.
func (c *Config) ApplyEnvOverrides() {
	if season := os.Getenv("COURTSIDE_SEASON"); season != "" {
		c.NBA.Season = season
	}
	if c.LLM.APIKey != "" {
		return
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "openai"
		}
		return
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "gemini"
		}
	}
}

// NBATimeout returns the parsed per-request timeout for the stats upstream.
func (c *Config) NBATimeout() time.Duration {
	return parseDurationOr(c.NBA.Timeout, 30*time.Second)
}

// NBABackoffUnit returns the parsed linear backoff unit.
func (c *Config) NBABackoffUnit() time.Duration {
	return parseDurationOr(c.NBA.BackoffUnit, 3*time.Second)
}

// LLMTimeout returns the parsed LLM call timeout.
func (c *Config) LLMTimeout() time.Duration {
	return parseDurationOr(c.LLM.Timeout, 120*time.Second)
}

// CacheTTL returns the parsed cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return parseDurationOr(c.Cache.TTL, time.Hour)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
