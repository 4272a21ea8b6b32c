package app

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/wsnlife/config"
	coremetrics "github.com/kilianp07/wsnlife/core/metrics"
	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/runlog"
	"github.com/kilianp07/wsnlife/core/search"
	"github.com/kilianp07/wsnlife/infra/logger"
	"github.com/kilianp07/wsnlife/infra/metrics"
	"github.com/kilianp07/wsnlife/infra/mqtt"
)

type failingStore struct{ runlog.Store }

func (failingStore) Append(context.Context, runlog.RunRecord) error { return errors.New("disk full") }
func (failingStore) Close() error                                   { return nil }

func newTestService(t *testing.T, opts ...Option) (*Service, *prometheus.Registry, *runlog.MemoryStore, *mqtt.MockPublisher) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	store := runlog.NewMemoryStore()
	pub := mqtt.NewMockPublisher()
	base := []Option{WithSink(sink), WithStore(store), WithPublisher(pub), WithLogger(logger.NopLogger{})}
	svc, err := New(config.Default(), append(base, opts...)...)
	require.NoError(t, err)
	return svc, reg, store, pub
}

func TestExecuteRecordsRun(t *testing.T) {
	svc, reg, store, pub := newTestService(t)
	out, err := svc.Execute(context.Background(), RunRequest{
		Params: field.Params{Sensors: 60, Targets: 5, Size: 80, Range: 40},
		Search: &search.Config{Iterations: 200, Seed: 42},
	})
	require.NoError(t, err)

	rec := out.Record
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, int64(42), rec.Seed)
	assert.Equal(t, out.Field.NumLive(), rec.LiveSensors)
	assert.Equal(t, out.Result.Lifetime, rec.Lifetime)
	assert.Equal(t, rec.StepCount*60, rec.Lifetime)
	assert.Equal(t, 201, rec.Stats.Trials)
	assert.False(t, rec.Interrupted)

	stored, err := store.Query(context.Background(), runlog.RunQuery{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, rec.ID, stored[0].ID)
	require.Len(t, pub.Published(), 1)
	assert.Equal(t, rec.ID, pub.Published()[0].ID)

	assert.Equal(t, 201.0, counterSum(t, reg, "wsn_trials_total"))
	assert.Equal(t, float64(rec.Lifetime), gaugeValue(t, reg, "wsn_best_lifetime"))
	runs, err := testutil.GatherAndCount(reg, "wsn_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
	require.NoError(t, svc.Close())
	assert.True(t, pub.Closed)
}

func TestExecuteSameSeedSameLifetime(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	req := RunRequest{
		Params: field.Params{Sensors: 40, Targets: 4, Size: 50, Range: 30},
		Search: &search.Config{Iterations: 100, Seed: 7},
	}
	a, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, a.Record.ID, b.Record.ID)
	assert.Equal(t, a.Record.Lifetime, b.Record.Lifetime)
	assert.Equal(t, a.Record.Trace, b.Record.Trace)
}

func TestExecuteInvalidInput(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	_, err := svc.Execute(context.Background(), RunRequest{Params: field.Params{Sensors: 0, Targets: 1, Size: 10, Range: 5}})
	require.ErrorIs(t, err, field.ErrInvalidInput)

	_, err = svc.Run(context.Background(), RunRequest{
		Params: field.Params{Sensors: 3, Targets: 1, Size: 10, Range: 5},
		Search: &search.Config{CoolingRate: 3},
	})
	require.Error(t, err)

	recs, _ := store.Query(context.Background(), runlog.RunQuery{})
	assert.Empty(t, recs)
}

func TestExecuteAdapterFailureKeepsOutcome(t *testing.T) {
	pubErr := mqtt.NewMockPublisher()
	pubErr.Err = errors.New("broker down")
	svc, _, _, _ := newTestService(t, WithStore(failingStore{}), WithPublisher(pubErr))
	rec, err := svc.Run(context.Background(), RunRequest{
		Params: field.Params{Sensors: 10, Targets: 2, Size: 20, Range: 15},
		Search: &search.Config{Iterations: 20, Seed: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 21, rec.Stats.Trials)
}

func TestExecuteInterruptedIsStillRecorded(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec, err := svc.Run(ctx, RunRequest{
		Params: field.Params{Sensors: 10, Targets: 2, Size: 20, Range: 15},
		Search: &search.Config{Iterations: 20, Seed: 3},
	})
	require.NoError(t, err)
	assert.True(t, rec.Interrupted)
	recs, err := store.Query(context.Background(), runlog.RunQuery{})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RunLog = runlog.Config{Backend: "memory"}
	svc, err := New(cfg, WithLogger(logger.NopLogger{}))
	require.NoError(t, err)
	assert.IsType(t, coremetrics.NopSink{}, svc.sink)
	assert.IsType(t, &runlog.MemoryStore{}, svc.Store())
	require.NoError(t, svc.Close())

	cfg.RunLog = runlog.Config{Backend: "nope"}
	_, err = New(cfg)
	assert.Error(t, err)
}

func counterSum(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	var sum float64
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
