package search

import "fmt"

// Decision tells what the loop did with a trial.
type Decision int

const (
	// DecisionSeed marks trial 0, which initialises the best result.
	DecisionSeed Decision = iota
	// DecisionImproved marks a trial with a strictly longer lifetime.
	DecisionImproved
	// DecisionAcceptedEqual marks a tie adopted by the acceptance rule.
	DecisionAcceptedEqual
	// DecisionAcceptedWorse marks a shorter trial adopted by the acceptance rule.
	DecisionAcceptedWorse
	// DecisionRejected marks a trial that left the best unchanged.
	DecisionRejected
)

func (d Decision) String() string {
	switch d {
	case DecisionSeed:
		return "seed"
	case DecisionImproved:
		return "improved"
	case DecisionAcceptedEqual:
		return "accepted_equal"
	case DecisionAcceptedWorse:
		return "accepted_worse"
	case DecisionRejected:
		return "rejected"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Adopted reports whether the trial replaced the best result.
func (d Decision) Adopted() bool { return d != DecisionRejected }

// TrialEvent describes one trial once its decision is known. Events are
// emitted in index order.
type TrialEvent struct {
	Index    int
	Lifetime int
	// Best is the best lifetime after the decision.
	Best        int
	Temperature float64
	Decision    Decision
}
