// Package common provides shared utilities for pricedesk
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for pricedesk
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Clients     ClientsConfig   `toml:"clients"`
	Fetch       FetchConfig     `toml:"fetch"`
	Returns     ReturnsConfig   `toml:"returns"`
	Policy      PolicyConfig    `toml:"policy"`
	Registry    RegistryConfig  `toml:"registry"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects and configures the reference baseline store.
// Backend is one of "file", "badger", "surrealdb", "sqlite".
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"` // directory for file/badger, database file for sqlite

	// SurrealDB only
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds price source client configurations
type ClientsConfig struct {
	Yahoo YahooConfig `toml:"yahoo"`
	EODHD EODHDConfig `toml:"eodhd"`
}

// YahooConfig holds Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	BatchSize int    `toml:"batch_size"` // symbols per spark request
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 15*time.Second)
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// FetchConfig configures the ordered fallback chain.
type FetchConfig struct {
	// Tiers lists source tiers in fallback order. "yahoo_batch" is the bulk tier
	// and is only used by batch fetches; the rest run per symbol.
	Tiers          []string `toml:"tiers"`
	TierTimeout    string   `toml:"tier_timeout"`
	MaxConcurrency int      `toml:"max_concurrency"`
	LookbackYears  int      `toml:"lookback_years"`
}

// GetTierTimeout parses and returns the per-tier timeout
func (c *FetchConfig) GetTierTimeout() time.Duration {
	return parseDuration(c.TierTimeout, 10*time.Second)
}

// ReturnsConfig holds return calculation policy switches.
type ReturnsConfig struct {
	GraceDays       int  `toml:"grace_days"`
	PriceReturn     bool `toml:"price_return"`     // default series column; false = total return
	ManualBaselines bool `toml:"manual_baselines"` // reference baselines override computed YTD baselines
	LivePrice       bool `toml:"live_price"`       // substitute a live price when the target date is today

	// Timezone (IANA) that decides which calendar day is "today"; also the
	// zone of the scheduler's cron expression.
	Timezone string `toml:"timezone"`
}

// Location resolves Timezone, falling back to UTC.
func (c ReturnsConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PolicyConfig extends the built-in Euronext-style venue tables.
type PolicyConfig struct {
	PreHolidaySuffixes []string `toml:"pre_holiday_suffixes"`
	PreHolidayRegions  []string `toml:"pre_holiday_regions"`
}

// RegistryConfig points to the instrument list.
type RegistryConfig struct {
	Path string `toml:"path"`
}

// SchedulerConfig configures the periodic snapshot run.
type SchedulerConfig struct {
	Enabled    bool   `toml:"enabled"`
	Cron       string `toml:"cron"`        // six fields, seconds first
	RecordPath string `toml:"record_path"` // SQLite file for snapshot history; empty disables recording
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// DefaultTiers is the fallback chain used when none is configured.
var DefaultTiers = []string{"yahoo_batch", "yahoo", "yahoo_lookback", "eodhd"}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend:   "file",
			Path:      "data/baselines",
			Namespace: "pricedesk",
			Database:  "pricedesk",
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "15s",
				BatchSize: 20,
			},
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Fetch: FetchConfig{
			Tiers:          append([]string(nil), DefaultTiers...),
			TierTimeout:    "10s",
			MaxConcurrency: 24,
			LookbackYears:  2,
		},
		Returns: ReturnsConfig{
			GraceDays:       3,
			PriceReturn:     true,
			ManualBaselines: true,
			LivePrice:       false,
			Timezone:        "UTC",
		},
		Registry: RegistryConfig{
			Path: "config/instruments.yaml",
		},
		Scheduler: SchedulerConfig{
			Enabled: false,
			Cron:    "0 30 22 * * 1-5",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "./logs/pricedesk.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	normalize(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PRICEDESK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PRICEDESK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PRICEDESK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PRICEDESK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("PRICEDESK_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if path := os.Getenv("PRICEDESK_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Join(path, "baselines")
	}

	if addr := os.Getenv("PRICEDESK_SURREAL_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if reg := os.Getenv("PRICEDESK_REGISTRY"); reg != "" {
		config.Registry.Path = reg
	}

	for _, name := range []string{"EODHD_API_KEY", "PRICEDESK_EODHD_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			config.Clients.EODHD.APIKey = key
			break
		}
	}

	if v := os.Getenv("PRICEDESK_LIVE_PRICE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Returns.LivePrice = b
		}
	}

	if tz := os.Getenv("PRICEDESK_TIMEZONE"); tz != "" {
		config.Returns.Timezone = tz
	}

	if v := os.Getenv("PRICEDESK_MANUAL_BASELINES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Returns.ManualBaselines = b
		}
	}
}

// normalize clamps values that would otherwise break the pipeline.
func normalize(config *Config) {
	if len(config.Fetch.Tiers) == 0 {
		config.Fetch.Tiers = append([]string(nil), DefaultTiers...)
	}
	for i, t := range config.Fetch.Tiers {
		config.Fetch.Tiers[i] = strings.ToLower(strings.TrimSpace(t))
	}
	if config.Fetch.MaxConcurrency <= 0 {
		config.Fetch.MaxConcurrency = 24
	}
	if config.Fetch.LookbackYears <= 0 {
		config.Fetch.LookbackYears = 2
	}
	if config.Returns.GraceDays < 0 {
		config.Returns.GraceDays = 0
	}
	config.Returns.Timezone = strings.TrimSpace(config.Returns.Timezone)
	if _, err := time.LoadLocation(config.Returns.Timezone); err != nil || config.Returns.Timezone == "" {
		config.Returns.Timezone = "UTC"
	}
	if config.Clients.Yahoo.BatchSize <= 0 {
		config.Clients.Yahoo.BatchSize = 20
	}
	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	if config.Storage.Backend == "" {
		config.Storage.Backend = "file"
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
