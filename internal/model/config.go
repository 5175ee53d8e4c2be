package model

import "time"

// Config holds all runtime configuration
type Config struct {
	HTTP         HTTPConfig        `yaml:"http"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	Store        StoreConfig       `yaml:"store"`
	Retention    RetentionConfig   `yaml:"retention"`
	Drafting     DraftingConfig    `yaml:"drafting"`
	Packaging    PackagingConfig   `yaml:"packaging"`
	Audit        AuditConfig       `yaml:"audit"`
	Logging      LoggingConfig     `yaml:"logging"`
	Output       OutputConfig      `yaml:"output"`
}

// HTTPConfig configures official-link fetching and source checks
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty"`
	NoProxy       string        `yaml:"no_proxy,omitempty"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// RateLimitConfig configures per-host request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// ConcurrencyConfig sizes the worker pools
type ConcurrencyConfig struct {
	Workers           int `yaml:"workers"`            // Batch evidence preparation
	ValidationWorkers int `yaml:"validation_workers"` // Source liveness checks
}

// StoreConfig configures where matter sessions are persisted between commands
type StoreConfig struct {
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// RetentionConfig is the default retention policy for new matters
type RetentionConfig struct {
	Days int `yaml:"days"`
}

// DraftingConfig controls draft generation
type DraftingConfig struct {
	RequireConfirmation bool   `yaml:"require_confirmation"`
	IncludeDisclaimer   bool   `yaml:"include_disclaimer"`
	KeepPlaceholders    bool   `yaml:"keep_placeholders"`
	Disclaimer          string `yaml:"disclaimer,omitempty"` // Overrides the built-in disclaimer text
}

// PackagingConfig controls package assembly
type PackagingConfig struct {
	AuthorityFile    string  `yaml:"authority_file,omitempty"` // Extra authorities merged over the built-in seed
	FormMappings     string  `yaml:"form_mappings,omitempty"`  // JSONC form mapping file
	SmallClaimsLimit float64 `yaml:"small_claims_limit"`
}

// AuditConfig selects the audit store
type AuditConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite
	Path   string `yaml:"path,omitempty"`
}

// LoggingConfig configures slog
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Verbose     bool   `yaml:"verbose"`
	Color       bool   `yaml:"color"`
	MetricsFile string `yaml:"metrics_file,omitempty"` // Prometheus textfile written after each command
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "casefile/0.1 (+https://github.com/ppiankov/casefile)",
			MaxBodyBytes:  5 * 1024 * 1024,
			RespectRobots: true,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         2,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			ValidationWorkers: 10,
		},
		Store: StoreConfig{
			Dir:       "~/.casefile/matters",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   365 * 24 * time.Hour,
		},
		Retention: RetentionConfig{
			Days: 2555,
		},
		Drafting: DraftingConfig{
			RequireConfirmation: true,
			IncludeDisclaimer:   true,
			KeepPlaceholders:    true,
		},
		Packaging: PackagingConfig{
			SmallClaimsLimit: 35000,
		},
		Audit: AuditConfig{
			Driver: "memory",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}
