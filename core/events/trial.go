package events

import (
	"time"

	"github.com/kilianp07/wsnlife/core/search"
)

// TrialEvent is published for every trial of a run, in trial order.
type TrialEvent struct {
	RunID string
	Trial search.TrialEvent
	Time  time.Time
}
