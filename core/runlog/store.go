// Package runlog records the outcome of every search run and lets the CLI
// list past runs. Stores exist for JSONL files (plain or rotated) and SQLite.
package runlog

import (
	"context"
	"time"

	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/schedule"
	"github.com/kilianp07/wsnlife/core/search"
)

// RunRecord captures one search run and its best schedule.
type RunRecord struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Params      field.Params   `json:"params"`
	Seed        int64          `json:"seed"`
	LiveSensors int            `json:"live_sensors"`
	Lifetime    int            `json:"lifetime"`
	StepCount   int            `json:"step_count"`
	Interrupted bool           `json:"interrupted"`
	Stats       search.Stats   `json:"stats"`
	Trace       schedule.Trace `json:"trace"`
}

// RunQuery defines filters for retrieving records. Zero values disable a filter.
type RunQuery struct {
	Start       time.Time
	End         time.Time
	MinLifetime int
	Limit       int
}

// Match reports whether r passes the time and lifetime filters.
func (q RunQuery) Match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return r.Lifetime >= q.MinLifetime
}

// apply keeps the newest Limit records when a limit is set.
func (q RunQuery) apply(recs []RunRecord) []RunRecord {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}

// Store persists RunRecords and supports querying. Records come back ordered
// by timestamp.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}
