package schedule

import (
	"testing"

	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/geometry"
)

func TestEvaluate(t *testing.T) {
	f, err := field.NewWithLayout(10, 15,
		[]geometry.Point{{X: 1, Y: 1}, {X: 2, Y: 3}, {X: 4, Y: 4}},
		[]geometry.Point{{X: 5, Y: 5}},
	)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	res := Evaluate(f, Schedule{{0, 2}, {1}}, DefaultBatteryDuration)
	if res.Lifetime != 120 {
		t.Fatalf("expected lifetime 120 got %d", res.Lifetime)
	}
	if len(res.Trace) != 2 {
		t.Fatalf("expected 2 trace entries got %d", len(res.Trace))
	}
	if res.Trace[0][1] != (geometry.Point{X: 4, Y: 4}) || res.Trace[1][0] != (geometry.Point{X: 2, Y: 3}) {
		t.Fatalf("unexpected trace %v", res.Trace)
	}
	counts := res.Trace.ActiveCounts()
	if counts[0] != 2 || counts[1] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	f, _ := field.NewWithLayout(10, 1, nil, nil)
	res := Evaluate(f, nil, DefaultBatteryDuration)
	if res.Lifetime != 0 || len(res.Trace) != 0 {
		t.Fatalf("empty schedule should have zero lifetime, got %+v", res)
	}
}
