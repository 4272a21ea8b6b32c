package model

import (
	"encoding/json"
	"testing"

	"github.com/kilianp07/wsnlife/core/geometry"
)

func TestSensorCoversIsStrict(t *testing.T) {
	s := Sensor{Pos: geometry.Point{X: 0, Y: 0}, Range: 5}
	if !s.Covers(Target{Pos: geometry.Point{X: 3, Y: 3.9}}) {
		t.Fatalf("expected target inside range to be covered")
	}
	if s.Covers(Target{Pos: geometry.Point{X: 3, Y: 4}}) {
		t.Fatalf("target at exactly the range must not be covered")
	}
}

func TestSensorStatusJSON(t *testing.T) {
	b, err := json.Marshal(Sensor{ID: 2, Status: StatusDead})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var s Sensor
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Status != StatusDead || s.Alive() {
		t.Fatalf("status not preserved: %+v", s)
	}
	if err := json.Unmarshal([]byte(`{"status":"zombie"}`), &s); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if StatusActive.String() != "active" || SensorStatus(9).String() != "SensorStatus(9)" {
		t.Fatalf("unexpected status strings")
	}
}
