package field

import (
	"fmt"
	"math/rand"

	"github.com/kilianp07/wsnlife/core/geometry"
	"github.com/kilianp07/wsnlife/core/model"
)

// Field owns every sensor and target of a network.
type Field struct {
	params  Params
	sensors []model.Sensor
	targets []model.Target
}

// New returns an empty field for validated params. Call Generate or
// PlaceRandomly to populate it.
func New(p Params) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Field{params: p}, nil
}

// NewWithLayout builds a field from explicit positions. Empty sensor or target
// lists are accepted so degenerate networks can be described; size and range
// must still be positive and every position must lie inside the field.
func NewWithLayout(size, rng float64, sensors, targets []geometry.Point) (*Field, error) {
	if !(size > 0) {
		return nil, fmt.Errorf("%w: size must be positive, got %v", ErrInvalidInput, size)
	}
	if !(rng > 0) {
		return nil, fmt.Errorf("%w: range must be positive, got %v", ErrInvalidInput, rng)
	}
	f := &Field{params: Params{Sensors: len(sensors), Targets: len(targets), Size: size, Range: rng}}
	f.sensors = make([]model.Sensor, len(sensors))
	for i, p := range sensors {
		if !p.Within(size) {
			return nil, fmt.Errorf("%w: sensor %d at %v outside field", ErrInvalidInput, i, p)
		}
		f.sensors[i] = model.Sensor{ID: i, Pos: p, Range: rng, Status: model.StatusActive}
	}
	f.targets = make([]model.Target, len(targets))
	for i, p := range targets {
		if !p.Within(size) {
			return nil, fmt.Errorf("%w: target %d at %v outside field", ErrInvalidInput, i, p)
		}
		f.targets[i] = model.Target{ID: i, Pos: p}
	}
	f.ClassifyLiveness()
	return f, nil
}

// Generate creates all sensors and targets at the origin. Sensors start
// active with the field range.
func (f *Field) Generate() {
	f.sensors = make([]model.Sensor, f.params.Sensors)
	for i := range f.sensors {
		f.sensors[i] = model.Sensor{ID: i, Range: f.params.Range, Status: model.StatusActive}
	}
	f.targets = make([]model.Target, f.params.Targets)
	for i := range f.targets {
		f.targets[i] = model.Target{ID: i}
	}
}

// PlaceRandomly draws uniform positions in [0,Size]² for every sensor, then
// every target, and classifies liveness.
func (f *Field) PlaceRandomly(rng *rand.Rand) {
	if f.sensors == nil && f.targets == nil {
		f.Generate()
	}
	for i := range f.sensors {
		f.sensors[i].Pos = geometry.Point{X: rng.Float64() * f.params.Size, Y: rng.Float64() * f.params.Size}
		f.sensors[i].Status = model.StatusActive
	}
	for i := range f.targets {
		f.targets[i].Pos = geometry.Point{X: rng.Float64() * f.params.Size, Y: rng.Float64() * f.params.Size}
	}
	f.ClassifyLiveness()
}

// ClassifyLiveness marks every sensor that covers no target as dead.
func (f *Field) ClassifyLiveness() {
	for i := range f.sensors {
		s := &f.sensors[i]
		s.Status = model.StatusDead
		for _, t := range f.targets {
			if s.Covers(t) {
				s.Status = model.StatusActive
				break
			}
		}
	}
}

// Params returns the parameters the field was built with.
func (f *Field) Params() Params { return f.params }

// Sensors returns a copy of every sensor, dead ones included.
func (f *Field) Sensors() []model.Sensor {
	out := make([]model.Sensor, len(f.sensors))
	copy(out, f.sensors)
	return out
}

// Targets returns a copy of every target.
func (f *Field) Targets() []model.Target {
	out := make([]model.Target, len(f.targets))
	copy(out, f.targets)
	return out
}

// Sensor looks up a sensor by ID.
func (f *Field) Sensor(id int) (model.Sensor, bool) {
	if id < 0 || id >= len(f.sensors) {
		return model.Sensor{}, false
	}
	return f.sensors[id], true
}

// LiveSensors returns the sensors eligible for scheduling, in ID order.
func (f *Field) LiveSensors() []model.Sensor {
	var out []model.Sensor
	for _, s := range f.sensors {
		if s.Alive() {
			out = append(out, s)
		}
	}
	return out
}

// NumLive returns the number of live sensors.
func (f *Field) NumLive() int {
	n := 0
	for _, s := range f.sensors {
		if s.Alive() {
			n++
		}
	}
	return n
}
