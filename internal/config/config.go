// Package config loads ewucal settings from a YAML file and the environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, EWUCAL_* environment
// variables, then command-line flags applied by the caller. A missing file is not
// an error; the defaults are used.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"

	"github.com/ewu-ics-cal/ewucal/internal/calendar"
	"github.com/ewu-ics-cal/ewucal/internal/logger"
	"github.com/ewu-ics-cal/ewucal/internal/scraper"
)

const (
	DefaultListen         = "127.0.0.1:8080"
	DefaultDataDir        = "~/.local/share/ewucal"
	DefaultRefresh        = "@every 6h"
	DefaultRatePerSecond  = 2.0
	DefaultRequestTimeout = 30 * time.Second
)

// Config is the top-level application configuration.
type Config struct {
	// BaseURL is the institution site the calendar pages are fetched from.
	BaseURL string `yaml:"base_url" json:"base_url" env:"EWUCAL_BASE_URL"`

	// Listen is the HTTP listen address for `ewucal serve`.
	Listen string `yaml:"listen" json:"listen" env:"EWUCAL_LISTEN"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level" env:"EWUCAL_LOG_LEVEL"`

	// Location is the LOCATION written on every exported event.
	Location string `yaml:"location" json:"location" env:"EWUCAL_LOCATION"`

	// Timezone and UTCOffset describe the single fixed-offset VTIMEZONE.
	Timezone  string `yaml:"timezone" json:"timezone" env:"EWUCAL_TIMEZONE"`
	UTCOffset string `yaml:"utc_offset" json:"utc_offset" env:"EWUCAL_UTC_OFFSET"`

	// Refresh is the cron schedule for refreshing the cached calendar index.
	Refresh string `yaml:"refresh" json:"refresh" env:"EWUCAL_REFRESH"`

	// RatePerSecond caps outbound page fetches.
	RatePerSecond float64 `yaml:"rate_per_second" json:"rate_per_second" env:"EWUCAL_RATE_PER_SECOND"`

	// RequestTimeout bounds a single page fetch.
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout" env:"EWUCAL_REQUEST_TIMEOUT"`

	// DataDir holds exported calendars and the revision snapshot.
	DataDir string `yaml:"data_dir" json:"data_dir" env:"EWUCAL_DATA_DIR"`

	// SNSTopicARN, when set, receives revision change notifications from `ewucal watch`.
	SNSTopicARN string `yaml:"sns_topic_arn" json:"sns_topic_arn,omitempty" env:"EWUCAL_SNS_TOPIC_ARN"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:        scraper.BaseURL,
		Listen:         DefaultListen,
		LogLevel:       "info",
		Location:       calendar.DefaultLocation,
		Timezone:       calendar.DefaultTimezone,
		UTCOffset:      calendar.DefaultOffset,
		Refresh:        DefaultRefresh,
		RatePerSecond:  DefaultRatePerSecond,
		RequestTimeout: DefaultRequestTimeout,
		DataDir:        DefaultDataDir,
	}
}

// Normalize fills zero values with defaults
func (c *Config) Normalize() {
	d := Default()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Location == "" {
		c.Location = d.Location
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.UTCOffset == "" {
		c.UTCOffset = d.UTCOffset
	}
	if c.Refresh == "" {
		c.Refresh = d.Refresh
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = d.RatePerSecond
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
}

// Validate reports settings that cannot be used as given
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := time.Parse("-0700", c.UTCOffset); err != nil {
		return fmt.Errorf("invalid utc_offset %q: want +HHMM", c.UTCOffset)
	}
	return nil
}

// Load reads path (if non-empty and present), applies environment overrides,
// normalizes and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
