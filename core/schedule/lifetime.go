package schedule

import (
	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/geometry"
)

// Trace lists, per step index, the coordinates of the sensors active in that step.
type Trace [][]geometry.Point

// ActiveCounts returns the number of active sensors per step.
func (t Trace) ActiveCounts() []int {
	out := make([]int, len(t))
	for i, step := range t {
		out[i] = len(step)
	}
	return out
}

// Result is the evaluated outcome of one schedule.
type Result struct {
	Lifetime int      `json:"lifetime"`
	Steps    Schedule `json:"steps"`
	Trace    Trace    `json:"trace"`
}

// Evaluate converts a schedule into its lifetime (steps × battery) and the
// per-step coordinate trace.
func Evaluate(f *field.Field, s Schedule, battery int) Result {
	trace := make(Trace, len(s))
	for i, step := range s {
		coords := make([]geometry.Point, 0, len(step))
		for _, id := range step {
			if sensor, ok := f.Sensor(id); ok {
				coords = append(coords, sensor.Pos)
			}
		}
		trace[i] = coords
	}
	return Result{Lifetime: len(s) * battery, Steps: s, Trace: trace}
}
