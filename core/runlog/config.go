package runlog

import (
	"fmt"

	"github.com/kilianp07/wsnlife/core/factory"
)

// Config selects and parameterises the run store.
type Config struct {
	Backend    string `json:"backend" yaml:"backend"`
	Path       string `json:"path" yaml:"path"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "runs.db"
		default:
			c.Path = "runs.jsonl"
		}
	}
	if c.Backend == "rotating" {
		if c.MaxSizeMB == 0 {
			c.MaxSizeMB = 10
		}
		if c.MaxBackups == 0 {
			c.MaxBackups = 3
		}
		if c.MaxAgeDays == 0 {
			c.MaxAgeDays = 28
		}
	}
}

// Validate checks the backend name and rotation limits.
func (c Config) Validate() error {
	if !storeRegistry.Has(c.Backend) {
		return fmt.Errorf("runlog: unknown backend %q (known: %v)", c.Backend, storeRegistry.Names())
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("runlog: rotation limits must be non-negative")
	}
	return nil
}

var storeRegistry = factory.NewRegistry[Store]()

type storeConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func init() {
	_ = storeRegistry.Register("memory", func(map[string]any) (Store, error) {
		return NewMemoryStore(), nil
	})
	_ = storeRegistry.Register("jsonl", func(conf map[string]any) (Store, error) {
		var c storeConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewJSONLStore(c.Path)
	})
	_ = storeRegistry.Register("rotating", func(conf map[string]any) (Store, error) {
		var c storeConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	_ = storeRegistry.Register("sqlite", func(conf map[string]any) (Store, error) {
		var c storeConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
}

// Open builds the store named by cfg.Backend.
func Open(cfg Config) (Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st, err := storeRegistry.Create(factory.ModuleConfig{
		Type: cfg.Backend,
		Conf: map[string]any{
			"path":         cfg.Path,
			"max_size_mb":  cfg.MaxSizeMB,
			"max_backups":  cfg.MaxBackups,
			"max_age_days": cfg.MaxAgeDays,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s run store: %w", cfg.Backend, err)
	}
	return st, nil
}
