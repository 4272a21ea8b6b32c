package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/wsnlife/core/factory"
	coremetrics "github.com/kilianp07/wsnlife/core/metrics"
)

// init registers the Prometheus and InfluxDB sinks. The nop sink is built into core/metrics.
func init() {
	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.Sink, error) {
		// The HTTP endpoint is configured through metrics.prometheus_addr.
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.Sink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
