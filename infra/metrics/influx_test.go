package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/wsnlife/core/metrics"
)

type capture struct {
	mu     sync.Mutex
	bodies []string
}

func (c *capture) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, string(data))
		c.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInfluxSink_RecordRun(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	sum := coremetrics.RunSummary{
		RunID:         "run1",
		Sensors:       10,
		LiveSensors:   8,
		Targets:       2,
		Lifetime:      180,
		Steps:         3,
		Trials:        5001,
		Improvements:  4,
		AcceptedWorse: 1,
		MeanLifetime:  97.5,
		Duration:      1500 * time.Millisecond,
		Time:          now,
	}
	if err := sink.RecordRun(sum); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("wsn_run").
		AddTag("run_id", "run1").
		AddTag("interrupted", "false").
		AddField("sensors", 10).
		AddField("live_sensors", 8).
		AddField("targets", 2).
		AddField("lifetime", 180).
		AddField("steps", 3).
		AddField("trials", 5001).
		AddField("improvements", 4).
		AddField("accepted_worse", 1).
		AddField("mean_lifetime", 97.5).
		AddField("duration_ms", 1500.0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(c.bodies) != 1 || strings.TrimSpace(c.bodies[0]) != expected {
		t.Errorf("unexpected bodies: %v", c.bodies)
	}
}

func TestInfluxSink_RecordTrialAdoptedOnly(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	if err := sink.RecordTrial(coremetrics.TrialRecord{RunID: "r", Decision: "rejected", Time: now}); err != nil {
		t.Fatalf("record rejected: %v", err)
	}
	if len(c.bodies) != 0 {
		t.Fatalf("rejected trial should not be written")
	}
	rec := coremetrics.TrialRecord{RunID: "r", Index: 7, Lifetime: 120, Best: 120, Temperature: 478.2969, Decision: "improved", Adopted: true, Time: now}
	if err := sink.RecordTrial(rec); err != nil {
		t.Fatalf("record adopted: %v", err)
	}
	if len(c.bodies) != 1 {
		t.Fatalf("expected one write, got %d", len(c.bodies))
	}
	body := c.bodies[0]
	for _, want := range []string{"wsn_trial,", "decision=improved", "run_id=r", "best=120i", "temperature=478.297"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
