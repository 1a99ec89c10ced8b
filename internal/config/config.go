// Package config loads hearth.yaml, the single configuration file for
// the household calendar. A missing file is first-run: the defaults are
// written out so there is always a file to edit.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// DSN is the file path for sqlite, a connection URL for postgres.
	DSN string `yaml:"dsn"`
}

// MemberConfig is one family member on the roster.
type MemberConfig struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"` // #RRGGBB
}

// DigestConfig controls the weekly email digest.
type DigestConfig struct {
	Enabled bool `yaml:"enabled"`
	// Cron is a standard 5-field cron expression for when the digest runs.
	Cron       string   `yaml:"cron"`
	Recipients []string `yaml:"recipients"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Timezone is the IANA timezone all dates are interpreted in
	// (e.g. "Pacific/Auckland").
	Timezone string `yaml:"timezone"`

	// WeekStart is the first column of the month grid: "sunday" or "monday".
	WeekStart string `yaml:"week_start"`

	Database DatabaseConfig `yaml:"database"`

	// Family is the roster seeded at startup. Members keep their identity
	// across restarts; edit colors freely.
	Family []MemberConfig `yaml:"family"`

	Digest DigestConfig `yaml:"digest"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	return &Config{
		Listen:    "127.0.0.1:8080",
		Timezone:  "Pacific/Auckland",
		WeekStart: "sunday",
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "hearth.db",
		},
		Family: []MemberConfig{
			{Name: "Mum", Color: "#4A90D9"},
			{Name: "Dad", Color: "#D94A4A"},
			{Name: "Ash", Color: "#4AD97B"},
			{Name: "Ruby", Color: "#D9A84A"},
		},
		Digest: DigestConfig{
			Enabled: false,
			Cron:    "0 7 * * 1",
			Recipients: []string{},
		},
	}
}

// Normalize fills missing values so a hand-trimmed config still loads.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Pacific/Auckland"
	}
	switch c.WeekStart {
	case "sunday", "monday":
	default:
		c.WeekStart = "sunday"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.DSN == "" {
		c.Database.DSN = "hearth.db"
	}
	if c.Digest.Cron == "" {
		c.Digest.Cron = "0 7 * * 1"
	}
	if c.Digest.Recipients == nil {
		c.Digest.Recipients = []string{}
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver %q: must be sqlite or postgres", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return errors.New("database.dsn is required for postgres")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if len(c.Family) == 0 {
		return errors.New("family roster is empty")
	}
	return nil
}

// Location resolves the configured timezone.
// PRE: Validate has passed
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WeekStartDay maps the config string onto time.Weekday.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// Load reads configuration from path. A missing file is first-run: the
// defaults are written with 0600 perms and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".hearth-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
