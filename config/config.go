package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/akulishov/timegrid/core/factory"
	"github.com/akulishov/timegrid/core/metrics"
	"github.com/akulishov/timegrid/infra/mqtt"
)

type Config struct {
	Source   factory.ModuleConfig `json:"source"`
	Refresh  RefreshConfig        `json:"refresh"`
	Log      LogConfig            `json:"log"`
	Metrics  metrics.Config       `json:"metrics"`
	Notifier mqtt.Config          `json:"notifier"`
	API      APIConfig            `json:"api"`
}

// RefreshConfig controls the periodic refresh loop.
type RefreshConfig struct {
	// IntervalSeconds between refresh cycles.
	IntervalSeconds int `json:"interval_seconds"`
}

// SetDefaults applies sane defaults.
func (c *RefreshConfig) SetDefaults() {
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = 600
	}
}

// Validate checks mandatory fields.
func (c RefreshConfig) Validate() error {
	if c.IntervalSeconds < 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	return nil
}

// LogConfig bounds the rolling change log.
type LogConfig struct {
	// Capacity is the number of diff batches retained; oldest evicted first.
	Capacity int `json:"capacity"`
}

// Validate checks the capacity bound.
func (c LogConfig) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("log capacity must not be negative")
	}
	return nil
}

// APIConfig controls the thin HTTP facade. An empty address disables it.
type APIConfig struct {
	Addr string `json:"addr"`
}

// Load reads the configuration file (json or yaml by extension) and applies
// TG_ environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("TG_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "tg_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Refresh.SetDefaults()
	cfg.Notifier.SetDefaults()
	if err := cfg.Refresh.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Log.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Notifier.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
