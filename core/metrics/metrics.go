package metrics

import "time"

// TrialRecord describes one trial and the decision taken on it.
type TrialRecord struct {
	RunID       string
	Index       int
	Lifetime    int
	Best        int
	Temperature float64
	Decision    string
	Adopted     bool
	Time        time.Time
}

// RunSummary describes a finished run.
type RunSummary struct {
	RunID         string
	Sensors       int
	LiveSensors   int
	Targets       int
	Lifetime      int
	Steps         int
	Trials        int
	Improvements  int
	AcceptedWorse int
	MeanLifetime  float64
	Interrupted   bool
	Duration      time.Duration
	Time          time.Time
}

// Sink records search observations.
type Sink interface {
	RecordTrial(rec TrialRecord) error
	RecordRun(sum RunSummary) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordTrial(TrialRecord) error { return nil }
func (NopSink) RecordRun(RunSummary) error    { return nil }

// MultiSink fans observations out to several sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTrial forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTrial(rec TrialRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrial(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun forwards the summary to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(sum RunSummary) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(sum); err != nil {
			return err
		}
	}
	return nil
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close()
}

// Close releases every sink that holds resources.
func Close(s Sink) {
	switch v := s.(type) {
	case *MultiSink:
		for _, sub := range v.Sinks {
			Close(sub)
		}
	case Closer:
		v.Close()
	}
}
