package report

import (
	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/geometry"
	"github.com/kilianp07/wsnlife/core/schedule"
)

// ActivityPoint is one sample of the active-sensor curve.
type ActivityPoint struct {
	Time   int `json:"time"`
	Active int `json:"active"`
}

// ActivitySeries returns the number of active sensors at the start of every
// step, followed by a closing point at the end of the last step with zero
// active sensors.
func ActivitySeries(trace schedule.Trace, battery int) []ActivityPoint {
	out := make([]ActivityPoint, 0, len(trace)+1)
	for i, n := range trace.ActiveCounts() {
		out = append(out, ActivityPoint{Time: i * battery, Active: n})
	}
	return append(out, ActivityPoint{Time: len(trace) * battery})
}

// Layout splits the field into live sensor, dead sensor and target positions.
type Layout struct {
	Live    []geometry.Point
	Dead    []geometry.Point
	Targets []geometry.Point
	Size    float64
	Range   float64
}

// NewLayout extracts the plotted positions from f.
func NewLayout(f *field.Field) Layout {
	p := f.Params()
	l := Layout{Size: p.Size, Range: p.Range}
	for _, s := range f.Sensors() {
		if s.Alive() {
			l.Live = append(l.Live, s.Pos)
		} else {
			l.Dead = append(l.Dead, s.Pos)
		}
	}
	for _, t := range f.Targets() {
		l.Targets = append(l.Targets, t.Pos)
	}
	return l
}
