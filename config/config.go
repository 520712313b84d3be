package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/metrics"
)

// Environment variables that override file settings.
const (
	EnvConfig   = "TRADEJOURNAL_CONFIG"
	EnvDB       = "TRADEJOURNAL_DB"
	EnvOwner    = "TRADEJOURNAL_OWNER"
	EnvLogLevel = "TRADEJOURNAL_LOG_LEVEL"
)

// Config represents the complete journal configuration
type Config struct {
	Owner   string        `json:"owner" yaml:"owner"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Report  ReportConfig  `json:"report" yaml:"report"`

	// Instruments is the per-lot spread cost table handed to the metrics
	// engine. Stored per-owner overrides are applied on top of it.
	Instruments map[string]float64 `json:"instruments" yaml:"instruments"`

	Weekdays   []string `json:"weekdays" yaml:"weekdays"`
	Strategies []string `json:"strategies" yaml:"strategies"`
	Timeframes []string `json:"timeframes" yaml:"timeframes"`
	Emotions   []string `json:"emotions" yaml:"emotions"`
	Scores     []string `json:"scores" yaml:"scores"`
}

// JournalConfig locates the trade store
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// LogConfig controls the logrus logger
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text or json
}

// ReportConfig holds presentation defaults
type ReportConfig struct {
	// PoorScore is the execution grade at or below which trades are
	// highlighted, e.g. "C".
	PoorScore string `json:"poor_score" yaml:"poor_score"`
}

// LoadFromFile loads configuration from a file (YAML or JSON) and applies
// environment overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load reads path when it is non-empty, otherwise starts from Default.
// Variables from a .env file in the working directory are loaded first; a
// missing .env is fine, an unreadable or malformed one is an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		cfg := Default()
		cfg.ApplyEnv()
		return cfg, cfg.Validate()
	}
	return LoadFromFile(path)
}

// ApplyEnv overrides settings from TRADEJOURNAL_* variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Journal.DBPath = v
	}
	if v := os.Getenv(EnvOwner); v != "" {
		c.Owner = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	for name, cost := range c.Instruments {
		if cost <= 0 {
			return fmt.Errorf("instruments.%s: spread cost must be positive", name)
		}
	}
	if len(c.Weekdays) != 0 && len(c.Weekdays) != 7 {
		return fmt.Errorf("weekdays must list 7 names starting with Sunday")
	}
	return nil
}

// CostTable returns the configured spread costs with overrides applied.
func (c *Config) CostTable(overrides map[string]float64) metrics.CostTable {
	return metrics.CostTable(c.Instruments).With(overrides)
}

// Calculator builds the metrics engine configuration.
func (c *Config) Calculator(overrides map[string]float64) metrics.Calculator {
	return metrics.Calculator{
		Costs:    c.CostTable(overrides),
		Weekdays: c.Weekdays,
	}
}

// Pairs lists the configured instrument names in a stable order.
func (c *Config) Pairs() []string {
	return metrics.CostTable(c.Instruments).Names()
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Owner: "default",
		Journal: JournalConfig{
			DBPath: "./tradejournal.sqlite",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Report: ReportConfig{
			PoorScore: "C",
		},
		Instruments: metrics.DefaultCostTable(),
		Weekdays:    append([]string(nil), metrics.DefaultWeekdays...),
		Strategies:  []string{"trend-following", "channel-breakout", "pullback", "pattern", "mean-reversion", "fundamental", "technical+fundamental", "other"},
		Timeframes:  []string{"M15", "M30", "H1", "H4", "D1", "W1"},
		Emotions:    []string{"calm", "nervous", "greedy", "fearful", "revenge", "overconfident", "hesitant"},
		Scores:      []string{"A-flawless", "B-mostly-followed", "C-deviated", "D-serious-violation"},
	}
}
