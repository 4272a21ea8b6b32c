// Package schedule builds randomized duty-cycling schedules and converts them
// into a network lifetime.
//
// A schedule is a sequence of steps. Each step is a set of sensors, drawn from
// the sensors not used by earlier steps, that together cover every target for
// one battery duration. Builder draws steps independently at random and stops
// at the first candidate that fails to cover the targets; it is a sampling
// heuristic, not a cover solver.
package schedule
