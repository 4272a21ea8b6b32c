package factory

import "testing"

type sample struct{ A int }

type sampleConf struct {
	A int `json:"a"`
}

func sampleFactory(conf map[string]any) (*sample, error) {
	var c sampleConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sample{A: c.A}, nil
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("s", sampleFactory); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.A != 3 {
		t.Fatalf("expected 3 got %d", inst.A)
	}
}

// String values from env overrides decode into numeric fields.
func TestDecode_WeakTypes(t *testing.T) {
	var c sampleConf
	if err := Decode(map[string]any{"a": "7"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.A != 7 {
		t.Fatalf("expected 7 got %d", c.A)
	}
}

// Test duplicate registration, unknown type errors and name listing.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); err == nil {
		t.Fatal("expected unknown type error")
	}
	_ = reg.Register("a", func(map[string]any) (int, error) { return 0, nil })
	if names := reg.Names(); len(names) != 2 || names[0] != "a" || names[1] != "x" {
		t.Fatalf("unexpected names %v", names)
	}
	if !reg.Has("x") || reg.Has("y") {
		t.Fatal("Has mismatch")
	}
}
