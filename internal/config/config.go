package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file stored alongside the ledger CSVs.
const FileName = "ledger.yaml"

// Config represents the top-level ledger.yaml configuration.
type Config struct {
	Ledger   LedgerConfig   `yaml:"ledger"`
	Format   FormatConfig   `yaml:"format"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Git      GitConfig      `yaml:"git"`
}

// LedgerConfig identifies the ledger.
type LedgerConfig struct {
	Name            string `yaml:"name"`
	DefaultCurrency string `yaml:"default_currency"`
}

// FormatConfig controls how dates and weeks are presented.
type FormatConfig struct {
	DateFormat   string `yaml:"date_format"`   // Go reference layout, e.g. "2006-01-02"
	FirstWeekday int    `yaml:"first_weekday"` // 0 = Sunday
}

// ScheduleConfig controls how far ahead recurring occurrences are shown.
type ScheduleConfig struct {
	AheadMonths int `yaml:"ahead_months"`
}

// GitConfig controls git integration on save.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a ledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(name, currency string) *Config {
	if currency == "" {
		currency = "USD"
	}
	return &Config{
		Ledger: LedgerConfig{
			Name:            name,
			DefaultCurrency: currency,
		},
		Format: FormatConfig{
			DateFormat:   "2006-01-02",
			FirstWeekday: 1,
		},
		Schedule: ScheduleConfig{
			AheadMonths: 3,
		},
		Git: GitConfig{
			AutoCommit: false,
		},
	}
}
