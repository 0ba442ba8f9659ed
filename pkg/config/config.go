// Package config loads explorer settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dd0wney/phewas-explorer/pkg/validation"
	"github.com/dd0wney/phewas-explorer/pkg/visualization"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values
const (
	EnvAPIURL      = "PHEWAS_API_URL"
	EnvLogLevel    = "PHEWAS_LOG_LEVEL"
	EnvPrefsPath   = "PHEWAS_PREFS_PATH"
	EnvMetricsAddr = "PHEWAS_METRICS_ADDR"
	EnvStrict      = "PHEWAS_STRICT"
)

// Config holds everything the composition root needs.
type Config struct {
	APIURL string `yaml:"api_url" validate:"required,http_url"`

	// RequestTimeout of 0 lets requests run until cancelled.
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFile  string `yaml:"log_file"`

	// LogFormat is json or text (key=value lines).
	LogFormat string `yaml:"log_format" validate:"oneof=json text"`

	PrefsPath   string `yaml:"prefs_path"`
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`

	// Strict returns missing-node conditions as errors instead of skipping.
	Strict bool `yaml:"strict"`

	AlleleColoring string `yaml:"allele_coloring" validate:"oneof=simple risk"`

	Layout Layout `yaml:"layout"`
}

// Layout mirrors visualization.LayoutConfig for the config file.
type Layout struct {
	Width          float64 `yaml:"width" validate:"gt=0"`
	Height         float64 `yaml:"height" validate:"gt=0"`
	CategoryRadius float64 `yaml:"category_radius" validate:"gt=0"`
	DiseaseRadius  float64 `yaml:"disease_radius" validate:"gt=0"`
	AlleleRadius   float64 `yaml:"allele_radius" validate:"gt=0"`
	Iterations     int     `yaml:"iterations" validate:"min=1,max=10000"`
	Gravity        float64 `yaml:"gravity" validate:"gte=0"`
	ScalingRatio   float64 `yaml:"scaling_ratio" validate:"gt=0"`
	SlowDown       float64 `yaml:"slow_down" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	l := visualization.DefaultLayoutConfig()
	return &Config{
		APIURL:         "http://localhost:8000",
		LogLevel:       "info",
		LogFormat:      "json",
		PrefsPath:      defaultPrefsPath(),
		AlleleColoring: "simple",
		Layout: Layout{
			Width:          l.Width,
			Height:         l.Height,
			CategoryRadius: l.CategoryRadius,
			DiseaseRadius:  l.DiseaseRadius,
			AlleleRadius:   l.AlleleRadius,
			Iterations:     l.Iterations,
			Gravity:        l.Gravity,
			ScalingRatio:   l.ScalingRatio,
			SlowDown:       l.SlowDown,
		},
	}
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "phewas-explorer", "prefs.yaml")
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file. The result is not validated; call Validate
// after applying flags.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvPrefsPath); ok {
		c.PrefsPath = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv(EnvStrict); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvStrict, v, err)
		}
		c.Strict = b
	}
	return nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LayoutConfig converts the layout block for the layout engine.
func (c *Config) LayoutConfig() visualization.LayoutConfig {
	return visualization.LayoutConfig{
		Width:          c.Layout.Width,
		Height:         c.Layout.Height,
		CategoryRadius: c.Layout.CategoryRadius,
		DiseaseRadius:  c.Layout.DiseaseRadius,
		AlleleRadius:   c.Layout.AlleleRadius,
		Iterations:     c.Layout.Iterations,
		Gravity:        c.Layout.Gravity,
		ScalingRatio:   c.Layout.ScalingRatio,
		SlowDown:       c.Layout.SlowDown,
	}
}
