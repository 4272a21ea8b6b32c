// Package search runs many independent schedule trials on a field and keeps
// the best one by lifetime.
//
// Each trial is built from scratch from the full live-sensor pool; it is not
// a perturbation of the current best. On top of this independent sampling the
// loop applies an annealing-style acceptance rule: a trial that does not
// improve on the best is still adopted with probability
// exp((lifetime-best)/temperature), and the temperature is multiplied by the
// cooling rate after every trial. The result is whichever trial was adopted
// last.
//
// Every trial draws from its own generator seeded from (Seed, index), and
// adoption is decided serially in index order, so a fixed seed yields the same
// result whatever the number of workers.
package search
