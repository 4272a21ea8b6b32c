// Package app wires the search to its adapters: metrics sinks, the run store
// and the MQTT publisher.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/wsnlife/config"
	"github.com/kilianp07/wsnlife/core/events"
	"github.com/kilianp07/wsnlife/core/factory"
	"github.com/kilianp07/wsnlife/core/field"
	coremetrics "github.com/kilianp07/wsnlife/core/metrics"
	"github.com/kilianp07/wsnlife/core/monitoring"
	coremqtt "github.com/kilianp07/wsnlife/core/mqtt"
	"github.com/kilianp07/wsnlife/core/runlog"
	"github.com/kilianp07/wsnlife/core/search"
	"github.com/kilianp07/wsnlife/infra/logger"
	"github.com/kilianp07/wsnlife/infra/metrics"
	"github.com/kilianp07/wsnlife/infra/mqtt"
	"github.com/kilianp07/wsnlife/internal/eventbus"
)

// adapterTimeout bounds persistence and publication after a run.
const adapterTimeout = 10 * time.Second

// Option overrides a dependency built from configuration.
type Option func(*Service)

// WithSink replaces the configured metrics sink.
func WithSink(s coremetrics.Sink) Option { return func(svc *Service) { svc.sink = s } }

// WithStore replaces the configured run store.
func WithStore(s runlog.Store) Option { return func(svc *Service) { svc.store = s } }

// WithPublisher replaces the configured MQTT publisher.
func WithPublisher(p coremqtt.Publisher) Option { return func(svc *Service) { svc.pub = p } }

// WithLogger replaces the service logger.
func WithLogger(l logger.Logger) Option { return func(svc *Service) { svc.log = l } }

// Service runs searches and records their outcome.
type Service struct {
	cfg   *config.Config
	log   logger.Logger
	sink  coremetrics.Sink
	store runlog.Store
	pub   coremqtt.Publisher
}

// New creates a Service from the configuration. Options take precedence over
// the adapters described in cfg, which are only built when not overridden.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	svc := &Service{cfg: cfg}
	for _, o := range opts {
		o(svc)
	}
	if svc.log == nil {
		svc.log = logger.New("service")
	}
	if svc.sink == nil {
		sinks := cfg.Metrics.Sinks
		if cfg.Metrics.PrometheusAddr != "" && !hasSink(sinks, "prometheus") {
			sinks = append(append([]factory.ModuleConfig(nil), sinks...), factory.ModuleConfig{Type: "prometheus"})
		}
		sink, err := coremetrics.NewSink(sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		svc.sink = sink
	}
	if svc.store == nil {
		store, err := runlog.Open(cfg.RunLog)
		if err != nil {
			coremetrics.Close(svc.sink)
			return nil, fmt.Errorf("run store: %w", err)
		}
		svc.store = store
	}
	if svc.pub == nil {
		pub, err := mqtt.New(cfg.MQTT, logger.New("mqtt_publisher"))
		if err != nil {
			svc.log.Errorf("mqtt publisher disabled: %v", err)
			monitoring.CaptureException(err, map[string]string{"module": "mqtt"})
			pub = coremqtt.NopPublisher{}
		}
		svc.pub = pub
	}
	return svc, nil
}

func hasSink(cfgs []factory.ModuleConfig, typ string) bool {
	for _, c := range cfgs {
		if c.Type == typ {
			return true
		}
	}
	return false
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *config.Config { return s.cfg }

// Store returns the run store.
func (s *Service) Store() runlog.Store { return s.store }

// ServeMetrics exposes the default Prometheus registry on the configured
// address until ctx ends. It is a no-op without an address.
func (s *Service) ServeMetrics(ctx context.Context) {
	addr := s.cfg.Metrics.PrometheusAddr
	if addr == "" {
		return
	}
	go func() {
		s.log.Infof("serving metrics on %s/metrics", addr)
		if err := metrics.StartPromServer(ctx, addr, prometheus.DefaultGatherer); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

// RunRequest describes one search.
type RunRequest struct {
	Params field.Params
	// Search overrides the configured search section when non-nil.
	Search *search.Config
}

// Outcome carries everything a run produced.
type Outcome struct {
	Record runlog.RunRecord
	Field  *field.Field
	Result search.Result
}

// Run executes req and returns the stored record.
func (s *Service) Run(ctx context.Context, req RunRequest) (runlog.RunRecord, error) {
	out, err := s.Execute(ctx, req)
	if err != nil {
		return runlog.RunRecord{}, err
	}
	return out.Record, nil
}

// Execute builds a random field from req, searches it and records the run.
// Only invalid input is an error: sink, store and publisher failures are
// logged and reported without affecting the outcome.
func (s *Service) Execute(ctx context.Context, req RunRequest) (*Outcome, error) {
	f, err := field.New(req.Params)
	if err != nil {
		return nil, err
	}
	scfg := s.cfg.Search
	if req.Search != nil {
		scfg = *req.Search
	}
	if scfg.Seed == 0 {
		scfg.Seed = time.Now().UnixNano()
	}
	runID := uuid.NewString()

	f.Generate()
	f.PlaceRandomly(rand.New(rand.NewSource(scfg.Seed)))
	s.log.Infof("run %s: %d of %d sensors live", runID, f.NumLive(), req.Params.Sensors)

	bus := eventbus.NewTyped[events.TrialEvent]()
	collectCtx, stopCollect := context.WithCancel(context.WithoutCancel(ctx))
	defer stopCollect()
	done := metrics.StartEventCollector(collectCtx, bus, s.sink, s.log)

	searcher, err := search.New(scfg, logger.New("search"), search.WithObserver(func(ev search.TrialEvent) {
		bus.Publish(events.TrialEvent{RunID: runID, Trial: ev, Time: time.Now()})
	}))
	if err != nil {
		bus.Close()
		return nil, err
	}
	start := time.Now()
	res := searcher.Run(ctx, f)
	bus.Close()
	<-done

	rec := runlog.RunRecord{
		ID:          runID,
		Timestamp:   start.UTC(),
		Params:      req.Params,
		Seed:        res.Seed,
		LiveSensors: f.NumLive(),
		Lifetime:    res.Lifetime,
		StepCount:   len(res.Steps),
		Interrupted: res.Interrupted,
		Stats:       res.Stats,
		Trace:       res.Trace,
	}
	s.record(ctx, rec)
	return &Outcome{Record: rec, Field: f, Result: res}, nil
}

// record hands the finished run to every adapter. It uses a context detached
// from ctx so an interrupted search is still persisted.
func (s *Service) record(ctx context.Context, rec runlog.RunRecord) {
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), adapterTimeout)
	defer cancel()

	sum := coremetrics.RunSummary{
		RunID:         rec.ID,
		Sensors:       rec.Params.Sensors,
		LiveSensors:   rec.LiveSensors,
		Targets:       rec.Params.Targets,
		Lifetime:      rec.Lifetime,
		Steps:         rec.StepCount,
		Trials:        rec.Stats.Trials,
		Improvements:  rec.Stats.Improvements,
		AcceptedWorse: rec.Stats.AcceptedWorse,
		MeanLifetime:  rec.Stats.MeanLifetime,
		Interrupted:   rec.Interrupted,
		Duration:      rec.Stats.Elapsed,
		Time:          rec.Timestamp,
	}
	if err := s.sink.RecordRun(sum); err != nil {
		s.report("record run metrics", err, rec.ID)
	}
	if err := s.store.Append(actx, rec); err != nil {
		s.report("append run", err, rec.ID)
	}
	if err := s.pub.PublishRun(actx, rec); err != nil {
		s.report("publish run", err, rec.ID)
	}
}

func (s *Service) report(what string, err error, runID string) {
	err = fmt.Errorf("%s: %w", what, err)
	s.log.Errorf("run %s: %v", runID, err)
	monitoring.CaptureException(err, map[string]string{"module": "app", "run_id": runID})
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.pub.Close()
	coremetrics.Close(s.sink)
	return s.store.Close()
}
