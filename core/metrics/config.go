package metrics

import (
	"fmt"

	"github.com/kilianp07/wsnlife/core/factory"
)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusAddr, when set, serves /metrics for the lifetime of the process.
	PrometheusAddr string `json:"prometheus_addr" yaml:"prometheus_addr"`
}

// Validate checks every configured sink type is known.
func (c Config) Validate() error {
	for _, s := range c.Sinks {
		if !sinkRegistry.Has(s.Type) {
			return fmt.Errorf("metrics: unknown sink type %q (known: %v)", s.Type, sinkRegistry.Names())
		}
	}
	return nil
}
