// Package config provides configuration loading and validation for the
// engine: timeouts, source toggles, affiliate credentials, and storage.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the engine configuration that can be loaded from a JSON
// file or the environment. All fields are optional; missing values use
// defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty means in-memory

	// HTTP
	Port int `json:"port,omitempty"` // API listen port

	// Affiliate network credentials
	AwinAPIToken    string `json:"awin_api_token,omitempty"`
	AwinPublisherID string `json:"awin_publisher_id,omitempty"`

	// Timeouts in milliseconds. Zero means the built-in default.
	RetailerTimeoutMS int `json:"retailer_timeout_ms,omitempty"` // per retailer call
	SlotTimeoutMS     int `json:"slot_timeout_ms,omitempty"`     // per slot search
	GlobalTimeoutMS   int `json:"global_timeout_ms,omitempty"`   // whole assembly job

	// Sources
	Retailers  []string `json:"retailers,omitempty"`   // structured-page retailers to enable
	WebSearch  bool     `json:"web_search,omitempty"`  // enable the generic web search source
	UseBrowser bool     `json:"use_browser,omitempty"` // headless browser for JS-heavy pages

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. It is applied as the
// lowest-priority layer under config file and CLI flags.
func FromEnv() Config {
	return Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AwinAPIToken:    os.Getenv("AWIN_API_TOKEN"),
		AwinPublisherID: os.Getenv("AWIN_PUBLISHER_ID"),
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.RetailerTimeoutMS < 0 || c.SlotTimeoutMS < 0 || c.GlobalTimeoutMS < 0 {
		return fmt.Errorf("config error: timeouts must be non-negative")
	}
	if c.RetailerTimeoutMS > 0 && c.SlotTimeoutMS > 0 && c.RetailerTimeoutMS > c.SlotTimeoutMS {
		return fmt.Errorf("config error: 'retailer_timeout_ms' must not exceed 'slot_timeout_ms'")
	}
	if c.SlotTimeoutMS > 0 && c.GlobalTimeoutMS > 0 && c.SlotTimeoutMS > c.GlobalTimeoutMS {
		return fmt.Errorf("config error: 'slot_timeout_ms' must not exceed 'global_timeout_ms'")
	}

	// Partial affiliate credentials are a misconfiguration, not a degraded mode
	if (c.AwinAPIToken == "") != (c.AwinPublisherID == "") {
		return fmt.Errorf("config error: 'awin_api_token' and 'awin_publisher_id' must be set together")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to layer config file values under CLI flags and
// over environment values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.AwinAPIToken == "" {
		result.AwinAPIToken = defaults.AwinAPIToken
	}
	if result.AwinPublisherID == "" {
		result.AwinPublisherID = defaults.AwinPublisherID
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RetailerTimeoutMS == 0 {
		result.RetailerTimeoutMS = defaults.RetailerTimeoutMS
	}
	if result.SlotTimeoutMS == 0 {
		result.SlotTimeoutMS = defaults.SlotTimeoutMS
	}
	if result.GlobalTimeoutMS == 0 {
		result.GlobalTimeoutMS = defaults.GlobalTimeoutMS
	}

	if len(result.Retailers) == 0 {
		result.Retailers = defaults.Retailers
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// timeoutOrDefault converts a millisecond field to a duration, keeping the
// fallback when the field is unset.
func timeoutOrDefault(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// RetailerTimeout returns the per-retailer budget.
func (c *Config) RetailerTimeout(fallback time.Duration) time.Duration {
	return timeoutOrDefault(c.RetailerTimeoutMS, fallback)
}

// SlotTimeout returns the per-slot budget.
func (c *Config) SlotTimeout(fallback time.Duration) time.Duration {
	return timeoutOrDefault(c.SlotTimeoutMS, fallback)
}

// GlobalTimeout returns the whole-job budget.
func (c *Config) GlobalTimeout(fallback time.Duration) time.Duration {
	return timeoutOrDefault(c.GlobalTimeoutMS, fallback)
}
