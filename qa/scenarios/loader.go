package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/geometry"
	"github.com/kilianp07/wsnlife/core/search"
)

// LayoutDef pins every sensor and target position.
type LayoutDef struct {
	Size    float64      `yaml:"size"`
	Range   float64      `yaml:"range"`
	Sensors [][2]float64 `yaml:"sensors"`
	Targets [][2]float64 `yaml:"targets"`
}

func (l LayoutDef) points(raw [][2]float64) []geometry.Point {
	out := make([]geometry.Point, len(raw))
	for i, p := range raw {
		out[i] = geometry.Point{X: p[0], Y: p[1]}
	}
	return out
}

// ToField builds the field described by the layout.
func (l LayoutDef) ToField() (*field.Field, error) {
	return field.NewWithLayout(l.Size, l.Range, l.points(l.Sensors), l.points(l.Targets))
}

// Expected lists the checks applied to a scenario result. Pointer fields are
// skipped when unset.
type Expected struct {
	Lifetime    *int  `yaml:"lifetime,omitempty"`
	MinLifetime *int  `yaml:"min_lifetime,omitempty"`
	MaxSteps    *int  `yaml:"max_steps,omitempty"`
	Steps       *int  `yaml:"steps,omitempty"`
	LiveSensors *int  `yaml:"live_sensors,omitempty"`
	StepSensors []int `yaml:"step_sensors,omitempty"`
}

// Scenario describes one network and the result its search must produce.
// Exactly one of Field and Layout is set; a random field is placed with
// PlacementSeed.
type Scenario struct {
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description,omitempty"`
	Field         *field.Params `yaml:"field,omitempty"`
	PlacementSeed int64         `yaml:"placement_seed,omitempty"`
	Layout        *LayoutDef    `yaml:"layout,omitempty"`
	Search        search.Config `yaml:"search"`
	Seeds         []int64       `yaml:"seeds,omitempty"`
	Expected      Expected      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if (sc.Field == nil) == (sc.Layout == nil) {
		return nil, fmt.Errorf("scenario %s: exactly one of field and layout must be set", sc.Name)
	}
	return &sc, nil
}
