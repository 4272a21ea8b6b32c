package model

import (
	"encoding/json"
	"fmt"

	"github.com/kilianp07/wsnlife/core/geometry"
)

// SensorStatus is the liveness state of a sensor.
type SensorStatus int

const (
	// StatusActive marks a sensor that covers at least one target and can be scheduled.
	StatusActive SensorStatus = iota
	// StatusDead marks a sensor that covers no target. Dead sensors are never scheduled.
	StatusDead
)

func (s SensorStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDead:
		return "dead"
	default:
		return fmt.Sprintf("SensorStatus(%d)", int(s))
	}
}

// MarshalJSON encodes the status as its string form.
func (s SensorStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the string form written by MarshalJSON.
func (s *SensorStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	switch str {
	case "active":
		*s = StatusActive
	case "dead":
		*s = StatusDead
	default:
		return fmt.Errorf("unknown sensor status %q", str)
	}
	return nil
}

// Sensor is a node of the network with a circular sensing area.
//
// ID is a stable index assigned when the field is built. It is the key used by
// the coverage map and by schedules.
type Sensor struct {
	ID     int            `json:"id"`
	Pos    geometry.Point `json:"pos"`
	Range  float64        `json:"range"`
	Status SensorStatus   `json:"status"`
}

// Covers reports whether t is strictly inside the sensing radius.
func (s Sensor) Covers(t Target) bool {
	return geometry.Distance(s.Pos, t.Pos) < s.Range
}

// Alive reports whether the sensor may take part in a schedule.
func (s Sensor) Alive() bool { return s.Status == StatusActive }
