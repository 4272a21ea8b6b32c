// Package config loads the application configuration from a YAML or JSON
// file with environment overrides.
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

	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/metrics"
	"github.com/kilianp07/wsnlife/core/runlog"
	"github.com/kilianp07/wsnlife/core/search"
	"github.com/kilianp07/wsnlife/infra/mqtt"
	"github.com/kilianp07/wsnlife/pkg/report"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by a
// double underscore: WSN_SEARCH__ITERATIONS sets search.iterations.
const EnvPrefix = "WSN_"

type Config struct {
	// Field is optional; positional CLI arguments take precedence.
	Field   field.Params   `json:"field"`
	Search  search.Config  `json:"search"`
	Metrics metrics.Config `json:"metrics"`
	RunLog  runlog.Config  `json:"runlog"`
	Report  report.Options `json:"report"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Sentry  SentryConfig   `json:"sentry"`
}

// Default returns a configuration with every section defaulted.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills zero values of every section.
func (c *Config) SetDefaults() {
	c.Search.SetDefaults()
	c.RunLog.SetDefaults()
	c.Report.SetDefaults()
	c.Sentry.SetDefaults()
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Field != (field.Params{}) {
		if err := c.Field.Validate(); err != nil {
			return fmt.Errorf("field: %w", err)
		}
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.RunLog.Validate(); err != nil {
		return err
	}
	if err := c.Report.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return c.Sentry.Validate()
}

// Load reads path, applies WSN_ environment overrides, then defaults and
// validation. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
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
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
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

func envKey(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
