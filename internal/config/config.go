package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"blockday/internal/model"
)

// DailyReminderConfig controls the once-a-day planning nudge.
type DailyReminderConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Hour is the local hour (0–23) after which the nudge may fire.
	Hour int `yaml:"hour" json:"hour"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA timezone used as the canonical local zone.
	// Empty means the system local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// DatabasePath is the SQLite file location.
	DatabasePath string `yaml:"database_path" json:"database_path"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// EarlyWarningLeadMinutes is the reminder lead time; 0 disables
	// early warnings.
	EarlyWarningLeadMinutes int `yaml:"early_warning_lead_minutes" json:"early_warning_lead_minutes"`

	NotificationsEnabled bool `yaml:"notifications_enabled" json:"notifications_enabled"`

	// SnoozeDefaultMinutes applies when an inbound snooze action
	// carries no duration.
	SnoozeDefaultMinutes int `yaml:"snooze_default_minutes" json:"snooze_default_minutes"`

	// RescheduleDebounceMS bounds how often the coordinator actually
	// reruns derivation when triggers arrive in bursts.
	RescheduleDebounceMS int `yaml:"reschedule_debounce_ms" json:"reschedule_debounce_ms"`

	// CheckCron drives the coarse periodic check (day rollover,
	// daily reminder hour).
	CheckCron string `yaml:"check_cron" json:"check_cron"`

	DailyReminder DailyReminderConfig `yaml:"daily_reminder" json:"daily_reminder"`
}

func DefaultConfig() *Config {
	return &Config{
		Timezone:                "",
		DatabasePath:            defaultDatabasePath(),
		LogLevel:                "info",
		EarlyWarningLeadMinutes: 10,
		NotificationsEnabled:    true,
		SnoozeDefaultMinutes:    model.DefaultSnoozeMinutes,
		RescheduleDebounceMS:    1000,
		CheckCron:               "* * * * *",
		DailyReminder:           DailyReminderConfig{Enabled: true, Hour: 8},
	}
}

// Normalize fills in missing or out-of-range values so partially
// filled configs still behave.
func (c *Config) Normalize() {
	if c.DatabasePath == "" {
		c.DatabasePath = defaultDatabasePath()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.EarlyWarningLeadMinutes < 0 {
		c.EarlyWarningLeadMinutes = 0
	}
	if c.SnoozeDefaultMinutes <= 0 {
		c.SnoozeDefaultMinutes = model.DefaultSnoozeMinutes
	}
	if c.RescheduleDebounceMS <= 0 {
		c.RescheduleDebounceMS = 1000
	}
	if c.CheckCron == "" {
		c.CheckCron = "* * * * *"
	}
	if c.DailyReminder.Hour < 0 || c.DailyReminder.Hour > 23 {
		c.DailyReminder.Hour = 8
	}
}

// Location resolves the configured timezone, defaulting to the system
// local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Settings projects the notification preferences the engine reads at
// derivation time.
func (c *Config) Settings() model.Settings {
	return model.Settings{
		EarlyWarningLeadMinutes: c.EarlyWarningLeadMinutes,
		NotificationsEnabled:    c.NotificationsEnabled,
	}
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.RescheduleDebounceMS) * time.Millisecond
}

// Load loads configuration from the given YAML path. A missing file is
// a first run: the parent directory is created and a default config is
// written with 0600 perms.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if saveErr := Save(path, cfg); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config as YAML with 0600 perms, creating the parent
// directory if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "blockday.db"
	}
	return filepath.Join(home, ".blockday", "blockday.db")
}
