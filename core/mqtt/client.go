// Package mqtt declares how finished runs are announced to other systems.
// The Paho implementation lives in infra/mqtt.
package mqtt

import (
	"context"

	"github.com/kilianp07/wsnlife/core/runlog"
)

// Publisher announces a finished run.
type Publisher interface {
	// PublishRun sends the run record as JSON. Implementations retry
	// transient failures until ctx ends.
	PublishRun(ctx context.Context, rec runlog.RunRecord) error
	Close()
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishRun(context.Context, runlog.RunRecord) error { return nil }
func (NopPublisher) Close()                                             {}
