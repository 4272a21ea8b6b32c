package metrics

import (
	"testing"

	"github.com/kilianp07/wsnlife/core/factory"
)

/*
TestNewSink validates NewSink behavior with zero, one, and multiple configs.
Cases:
  - no config -> NopSink
  - one config -> the sink itself
  - two configs -> MultiSink with two sub-sinks
  - unknown type -> error
*/
func TestNewSink(t *testing.T) {
	s, err := NewSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	s, err = NewSink([]factory.ModuleConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("create single: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	s, err = NewSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if len(m.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(m.Sinks))
	}

	if _, err := NewSink([]factory.ModuleConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if err := (Config{Sinks: []factory.ModuleConfig{{Type: "missing"}}}).Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}
