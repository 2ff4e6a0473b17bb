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

	"github.com/kilianp07/microgrid/core/cost"
	"github.com/kilianp07/microgrid/infra/metrics"
	"github.com/kilianp07/microgrid/infra/telemetry"
)

type Config struct {
	MQTT    telemetry.MQTTConfig   `json:"mqtt"`
	Influx  telemetry.InfluxConfig `json:"influx"`
	Metrics metrics.Config         `json:"metrics"`
	Sim     SimConfig              `json:"sim"`
	Grid    GridConfig             `json:"grid"`
	Tariff  cost.Tariff            `json:"tariff"`
}

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
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the stock configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills every section with its stock values.
func (c *Config) SetDefaults() {
	c.MQTT.SetDefaults()
	c.Metrics.SetDefaults()
	c.Sim.SetDefaults()
	c.Grid.SetDefaults()
	c.Tariff.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Sim.Validate(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if err := c.Tariff.Validate(); err != nil {
		return fmt.Errorf("tariff: %w", err)
	}
	return nil
}
