package scenarios

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/wsnlife/core/coverage"
	"github.com/kilianp07/wsnlife/core/events"
	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/search"
	"github.com/kilianp07/wsnlife/infra/logger"
	"github.com/kilianp07/wsnlife/infra/metrics"
	"github.com/kilianp07/wsnlife/internal/eventbus"
)

func buildField(t *testing.T, sc *Scenario) *field.Field {
	t.Helper()
	if sc.Layout != nil {
		f, err := sc.Layout.ToField()
		if err != nil {
			t.Fatalf("layout: %v", err)
		}
		return f
	}
	f, err := field.New(*sc.Field)
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	f.Generate()
	f.PlaceRandomly(rand.New(rand.NewSource(sc.PlacementSeed)))
	return f
}

// RunScenario searches the scenario field once per seed and checks every
// expectation against the result. Trial events flow through a bus into a
// Prometheus sink so the reported counters are checked too.
func RunScenario(t *testing.T, sc *Scenario) {
	f := buildField(t, sc)
	seeds := sc.Seeds
	if len(seeds) == 0 {
		seeds = []int64{1}
	}
	if sc.Expected.LiveSensors != nil && f.NumLive() != *sc.Expected.LiveSensors {
		t.Errorf("scenario %s expected %d live sensors, got %d", sc.Name, *sc.Expected.LiveSensors, f.NumLive())
	}
	cov := coverage.Build(f)

	for _, seed := range seeds {
		reg := prometheus.NewRegistry()
		sink, err := metrics.NewPromSinkWithRegistry(reg)
		if err != nil {
			t.Fatalf("prom sink: %v", err)
		}
		bus := eventbus.NewTyped[events.TrialEvent]()
		done := metrics.StartEventCollector(context.Background(), bus, sink, logger.NopLogger{})

		cfg := sc.Search
		cfg.Seed = seed
		s, err := search.New(cfg, logger.NopLogger{}, search.WithObserver(func(ev search.TrialEvent) {
			bus.Publish(events.TrialEvent{RunID: sc.Name, Trial: ev, Time: time.Unix(0, 0)})
		}))
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		res := s.Run(context.Background(), f)
		bus.Close()
		<-done

		battery := s.Config().BatteryDuration
		if res.Lifetime%battery != 0 || res.Lifetime != len(res.Steps)*battery {
			t.Errorf("seed %d: lifetime %d inconsistent with %d steps", seed, res.Lifetime, len(res.Steps))
		}
		if !res.Steps.Disjoint() {
			t.Errorf("seed %d: steps share a sensor", seed)
		}
		for i, step := range res.Steps {
			if !cov.Covered(step) {
				t.Errorf("seed %d: step %d leaves a target uncovered", seed, i)
			}
		}
		if got := trialCount(t, reg); got != res.Stats.Trials {
			t.Errorf("seed %d: sink counted %d trials, search ran %d", seed, got, res.Stats.Trials)
		}
		checkExpected(t, sc, seed, res, battery)
	}
}

func checkExpected(t *testing.T, sc *Scenario, seed int64, res search.Result, battery int) {
	t.Helper()
	exp := sc.Expected
	if exp.Lifetime != nil && res.Lifetime != *exp.Lifetime {
		t.Errorf("scenario %s seed %d expected lifetime %d, got %d", sc.Name, seed, *exp.Lifetime, res.Lifetime)
	}
	if exp.MinLifetime != nil && res.Lifetime < *exp.MinLifetime {
		t.Errorf("scenario %s seed %d expected lifetime >= %d, got %d", sc.Name, seed, *exp.MinLifetime, res.Lifetime)
	}
	if exp.Steps != nil && len(res.Steps) != *exp.Steps {
		t.Errorf("scenario %s seed %d expected %d steps, got %d", sc.Name, seed, *exp.Steps, len(res.Steps))
	}
	if exp.MaxSteps != nil && len(res.Steps) > *exp.MaxSteps {
		t.Errorf("scenario %s seed %d expected at most %d steps, got %d", sc.Name, seed, *exp.MaxSteps, len(res.Steps))
	}
	if exp.StepSensors != nil {
		if len(res.Steps) == 0 || !sameIDs(res.Steps[0], exp.StepSensors) {
			t.Errorf("scenario %s seed %d expected first step %v, got %v", sc.Name, seed, exp.StepSensors, res.Steps)
		}
	}
}

func sameIDs(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func trialCount(t *testing.T, reg *prometheus.Registry) int {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	total := 0.0
	for _, mf := range mfs {
		if mf.GetName() != "wsn_trials_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return int(total)
}
