package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/wsnlife/core/metrics"
)

// PromSink records search observations in Prometheus metrics.
type PromSink struct {
	trials   *prometheus.CounterVec
	lifetime prometheus.Histogram
	best     prometheus.Gauge
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewPromSink registers search metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	trials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wsn_trials_total",
		Help: "Number of search trials by decision",
	}, []string{"decision"})
	lifetime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wsn_trial_lifetime",
		Help:    "Lifetime reached by individual trials",
		Buckets: prometheus.LinearBuckets(0, 60, 20),
	})
	best := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wsn_best_lifetime",
		Help: "Lifetime of the currently adopted schedule",
	})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wsn_runs_total",
		Help: "Number of finished searches",
	}, []string{"interrupted"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wsn_run_duration_seconds",
		Help:    "Wall time of a search",
		Buckets: prometheus.DefBuckets,
	})

	var err error
	if trials, err = register(reg, trials); err != nil {
		return nil, err
	}
	if lifetime, err = register(reg, lifetime); err != nil {
		return nil, err
	}
	if best, err = register(reg, best); err != nil {
		return nil, err
	}
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &PromSink{trials: trials, lifetime: lifetime, best: best, runs: runs, duration: duration}, nil
}

// register returns the already registered collector when c was registered before.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordTrial counts the decision and observes the trial lifetime.
func (s *PromSink) RecordTrial(rec coremetrics.TrialRecord) error {
	s.trials.WithLabelValues(rec.Decision).Inc()
	s.lifetime.Observe(float64(rec.Lifetime))
	s.best.Set(float64(rec.Best))
	return nil
}

// RecordRun counts the run and observes its duration.
func (s *PromSink) RecordRun(sum coremetrics.RunSummary) error {
	interrupted := "false"
	if sum.Interrupted {
		interrupted = "true"
	}
	s.runs.WithLabelValues(interrupted).Inc()
	s.duration.Observe(sum.Duration.Seconds())
	s.best.Set(float64(sum.Lifetime))
	return nil
}
