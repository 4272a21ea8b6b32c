// Package coverage derives which targets each live sensor watches and answers
// whether a set of active sensors covers the whole target set.
package coverage

import "github.com/kilianp07/wsnlife/core/field"

// Map is a read-only view from live sensor ID to covered target IDs. It is
// derived from a field and must be rebuilt when positions change.
type Map struct {
	targets int
	order   []int
	cover   map[int][]int
}

// Build computes the coverage map of every live sensor of f.
func Build(f *field.Field) Map {
	targets := f.Targets()
	m := Map{targets: len(targets), cover: make(map[int][]int)}
	for _, s := range f.LiveSensors() {
		var ids []int
		for _, t := range targets {
			if s.Covers(t) {
				ids = append(ids, t.ID)
			}
		}
		m.order = append(m.order, s.ID)
		m.cover[s.ID] = ids
	}
	return m
}

// TargetCount returns the size of the full target set.
func (m Map) TargetCount() int { return m.targets }

// Sensors returns the live sensor IDs in field order.
func (m Map) Sensors() []int {
	out := make([]int, len(m.order))
	copy(out, m.order)
	return out
}

// Targets returns the target IDs covered by a sensor. Unknown sensors cover nothing.
func (m Map) Targets(sensorID int) []int {
	return m.cover[sensorID]
}

// Covered reports whether the union of the targets watched by active equals
// the full target set. An empty target set is always covered.
func (m Map) Covered(active []int) bool {
	return len(m.Uncovered(active)) == 0
}

// Uncovered lists the target IDs no sensor of active watches, in ID order.
func (m Map) Uncovered(active []int) []int {
	if m.targets == 0 {
		return nil
	}
	seen := make([]bool, m.targets)
	left := m.targets
	for _, id := range active {
		for _, t := range m.cover[id] {
			if !seen[t] {
				seen[t] = true
				left--
			}
		}
		if left == 0 {
			return nil
		}
	}
	out := make([]int, 0, left)
	for t, ok := range seen {
		if !ok {
			out = append(out, t)
		}
	}
	return out
}
