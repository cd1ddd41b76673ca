package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"FXDashboard/internal/model"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of start_date.
const DateLayout = "2006-01-02"

// Instrument is one configured price history.
type Instrument struct {
	Key    string `yaml:"key" validate:"required,alphanum"`
	Symbol string `yaml:"symbol" validate:"required"`
	Label  string `yaml:"label" validate:"required"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port           string   `yaml:"port" validate:"required,numeric"`
		GinMode        string   `yaml:"gin_mode" validate:"oneof=debug release test"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		RateLimit      int      `yaml:"rate_limit" validate:"gte=0"` // requests per second, 0 disables
	} `yaml:"server"`
	DataSource struct {
		Mock      bool   `yaml:"mock"`
		StartDate string `yaml:"start_date" validate:"required"`
	} `yaml:"data_source"`
	Instruments []Instrument `yaml:"instruments" validate:"required,min=1,dive"`
	Dashboard   struct {
		Title         string   `yaml:"title"`
		Primary       string   `yaml:"primary" validate:"required"`
		Benchmarks    []string `yaml:"benchmarks"`
		Windows       []int    `yaml:"windows" validate:"required,min=1,dive,gt=0"`
		DefaultWindow int      `yaml:"default_window" validate:"gt=0"`
		PipFactor     float64  `yaml:"pip_factor" validate:"gt=0"`
		ChartWidth    int      `yaml:"chart_width" validate:"gte=0"`
		ChartHeight   int      `yaml:"chart_height" validate:"gte=0"`
	} `yaml:"dashboard"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.GinMode = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("START_DATE"); v != "" {
		cfg.DataSource.StartDate = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("DATA_SOURCE_MOCK"); v != "" {
		mock, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse DATA_SOURCE_MOCK: %w", err)
		}
		cfg.DataSource.Mock = mock
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8050"
	}
	if cfg.Server.GinMode == "" {
		cfg.Server.GinMode = "release"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:8050"}
	}
	if cfg.DataSource.StartDate == "" {
		cfg.DataSource.StartDate = "2022-01-01"
	}
	if len(cfg.Instruments) == 0 {
		cfg.Instruments = []Instrument{
			{Key: "usdjpy", Symbol: "USDJPY=X", Label: "USD/JPY rate"},
			{Key: "nikkei", Symbol: "^N225", Label: "Nikkei"},
			{Key: "sp", Symbol: "^GSPC", Label: "S&P"},
		}
	}
	if cfg.Dashboard.Title == "" {
		cfg.Dashboard.Title = "USD/JPY Dashboard"
	}
	if cfg.Dashboard.Primary == "" {
		cfg.Dashboard.Primary = cfg.Instruments[0].Key
	}
	if len(cfg.Dashboard.Benchmarks) == 0 {
		for _, inst := range cfg.Instruments {
			if inst.Key != cfg.Dashboard.Primary {
				cfg.Dashboard.Benchmarks = append(cfg.Dashboard.Benchmarks, inst.Key)
			}
		}
	}
	if len(cfg.Dashboard.Windows) == 0 {
		cfg.Dashboard.Windows = []int{1, 2, 5, 10}
	}
	if cfg.Dashboard.DefaultWindow == 0 {
		cfg.Dashboard.DefaultWindow = 10
	}
	if cfg.Dashboard.PipFactor == 0 {
		cfg.Dashboard.PipFactor = 100
	}

	return cfg, nil
}

// Validate checks field constraints and cross-field references.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.StartTime(); err != nil {
		return err
	}

	keys := make(map[string]bool, len(c.Instruments))
	for _, inst := range c.Instruments {
		if keys[inst.Key] {
			return fmt.Errorf("instruments: duplicate key %q", inst.Key)
		}
		keys[inst.Key] = true
	}
	if !keys[c.Dashboard.Primary] {
		return fmt.Errorf("dashboard.primary %q is not a configured instrument", c.Dashboard.Primary)
	}
	for _, b := range c.Dashboard.Benchmarks {
		if !keys[b] {
			return fmt.Errorf("dashboard.benchmarks: %q is not a configured instrument", b)
		}
		if b == c.Dashboard.Primary {
			return fmt.Errorf("dashboard.benchmarks: %q is the primary instrument", b)
		}
	}

	found := false
	for _, w := range c.Dashboard.Windows {
		if w == c.Dashboard.DefaultWindow {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("dashboard.default_window %d is not one of %v", c.Dashboard.DefaultWindow, c.Dashboard.Windows)
	}
	return nil
}

// StartTime parses data_source.start_date as a UTC date.
func (c *Config) StartTime() (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(c.DataSource.StartDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("data_source.start_date: %w", err)
	}
	return t, nil
}

// ModelInstruments converts the configured instruments for the collector.
func (c *Config) ModelInstruments() []model.Instrument {
	out := make([]model.Instrument, len(c.Instruments))
	for i, inst := range c.Instruments {
		out[i] = model.Instrument{Key: inst.Key, Symbol: inst.Symbol, Label: inst.Label}
	}
	return out
}
