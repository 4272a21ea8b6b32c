package schedule

import (
	"math/rand"

	"github.com/kilianp07/wsnlife/core/coverage"
)

const (
	// DefaultActivationProbability is the chance for each pooled sensor to be
	// drawn into a candidate step.
	DefaultActivationProbability = 1.0 / 3
	// DefaultBatteryDuration is the time one step keeps its sensors powered.
	DefaultBatteryDuration = 60
)

// Step is the set of sensor IDs active during one battery duration.
type Step []int

// Schedule is an ordered list of steps built by one trial.
type Schedule []Step

// Disjoint reports whether no sensor appears in more than one step.
func (s Schedule) Disjoint() bool {
	seen := make(map[int]struct{})
	for _, step := range s {
		for _, id := range step {
			if _, dup := seen[id]; dup {
				return false
			}
			seen[id] = struct{}{}
		}
	}
	return true
}

// SensorCount returns the number of sensors consumed by the schedule.
func (s Schedule) SensorCount() int {
	n := 0
	for _, step := range s {
		n += len(step)
	}
	return n
}

// Builder draws trial schedules from a coverage map.
type Builder struct {
	Coverage coverage.Map
	// Probability is the per-sensor inclusion chance for a candidate step.
	Probability float64
	// StepCap bounds the size of a candidate step. Zero or less disables the cap.
	StepCap int
}

// NewBuilder returns a Builder capping steps at the number of targets. A
// probability outside (0,1] falls back to DefaultActivationProbability.
func NewBuilder(m coverage.Map, p float64) Builder {
	if !(p > 0 && p <= 1) {
		p = DefaultActivationProbability
	}
	return Builder{Coverage: m, Probability: p, StepCap: m.TargetCount()}
}

// Build runs one trial. The pool starts with every live sensor; each round
// draws a candidate step from the pool and keeps it while it covers all
// targets. The first failing candidate ends the trial and is discarded.
func (b Builder) Build(rng *rand.Rand) Schedule {
	pool := b.Coverage.Sensors()
	var sched Schedule
	for len(pool) > 0 {
		step := b.draw(pool, rng)
		// An empty step consumes nothing and would never end the trial.
		if len(step) == 0 || !b.Coverage.Covered(step) {
			break
		}
		sched = append(sched, step)
		pool = without(pool, step)
	}
	return sched
}

func (b Builder) draw(pool []int, rng *rand.Rand) Step {
	var step Step
	for _, id := range pool {
		if rng.Float64() < b.Probability {
			step = append(step, id)
		}
		if b.StepCap > 0 && len(step) >= b.StepCap {
			break
		}
	}
	return step
}

// without returns pool minus the sensors of step, preserving order. Both
// slices are in pool order, so a single merge pass suffices.
func without(pool []int, step Step) []int {
	out := pool[:0]
	j := 0
	for _, id := range pool {
		if j < len(step) && step[j] == id {
			j++
			continue
		}
		out = append(out, id)
	}
	return out
}
