package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/wsnlife/core/metrics"
	"github.com/kilianp07/wsnlife/infra/logger"
)

// InfluxSink writes search observations to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordTrial writes adopted trials only; rejected trials carry no schedule
// change worth a point.
func (s *InfluxSink) RecordTrial(rec coremetrics.TrialRecord) error {
	if !rec.Adopted {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("wsn_trial").
		AddTag("run_id", rec.RunID).
		AddTag("decision", rec.Decision).
		AddField("index", rec.Index).
		AddField("lifetime", rec.Lifetime).
		AddField("best", rec.Best).
		AddField("temperature", round3(rec.Temperature)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRun writes one point per finished run.
func (s *InfluxSink) RecordRun(sum coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("wsn_run").
		AddTag("run_id", sum.RunID).
		AddTag("interrupted", strconv.FormatBool(sum.Interrupted)).
		AddField("sensors", sum.Sensors).
		AddField("live_sensors", sum.LiveSensors).
		AddField("targets", sum.Targets).
		AddField("lifetime", sum.Lifetime).
		AddField("steps", sum.Steps).
		AddField("trials", sum.Trials).
		AddField("improvements", sum.Improvements).
		AddField("accepted_worse", sum.AcceptedWorse).
		AddField("mean_lifetime", round3(sum.MeanLifetime)).
		AddField("duration_ms", round3(sum.Duration.Seconds()*1000)).
		SetTime(sum.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
