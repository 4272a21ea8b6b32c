// Package metrics defines the sink interface used to observe searches. Sinks
// like PromSink and InfluxSink live in infra/metrics and register themselves
// with the factory here; NewSink returns a MultiSink automatically when more
// than one sink is configured.
package metrics
