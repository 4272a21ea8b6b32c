package metrics

import (
	"context"

	"github.com/kilianp07/wsnlife/core/events"
	coremetrics "github.com/kilianp07/wsnlife/core/metrics"
	"github.com/kilianp07/wsnlife/infra/logger"
	"github.com/kilianp07/wsnlife/internal/eventbus"
)

// collectorBuffer holds trial events while sinks perform I/O.
const collectorBuffer = 4096

// StartEventCollector subscribes to the trial bus and records every event in
// sink. It stops when ctx is canceled or the bus is closed; the returned
// channel is closed once the goroutine has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.TrialEvent], sink coremetrics.Sink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.SubscribeBuffered(collectorBuffer)
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		failures := 0
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					if failures > 0 {
						log.Warnf("metrics sink rejected %d trial records", failures)
					}
					if d := bus.Dropped(); d > 0 {
						log.Warnf("metrics collector fell behind, %d trial events dropped", d)
					}
					return
				}
				if err := sink.RecordTrial(toRecord(ev)); err != nil {
					if failures == 0 {
						log.Errorf("record trial: %v", err)
					}
					failures++
				}
			}
		}
	}()
	return done
}

func toRecord(ev events.TrialEvent) coremetrics.TrialRecord {
	return coremetrics.TrialRecord{
		RunID:       ev.RunID,
		Index:       ev.Trial.Index,
		Lifetime:    ev.Trial.Lifetime,
		Best:        ev.Trial.Best,
		Temperature: ev.Trial.Temperature,
		Decision:    ev.Trial.Decision.String(),
		Adopted:     ev.Trial.Decision.Adopted(),
		Time:        ev.Time,
	}
}
