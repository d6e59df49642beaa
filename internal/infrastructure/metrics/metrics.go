// Package metrics records the outcome of ledger synchronisation operations
package metrics

import "time"

// Collector receives sync-operation events. Implementations export them to a backend.
type Collector interface {
	// RecordOperation is called once per settled operation (create, update, remove, load, stats)
	RecordOperation(op string, outcome Outcome, duration time.Duration)

	// RecordStaleDiscard is called when a response is dropped because a newer request exists
	RecordStaleDiscard(target string)
}

// Outcome classifies how an operation settled
type Outcome string

const (
	OutcomeCommitted  Outcome = "committed"
	OutcomeValidation Outcome = "validation"
	OutcomeBusy       Outcome = "busy"
	OutcomeServer     Outcome = "server"
	OutcomeTransport  Outcome = "transport"
	OutcomeTimeout    Outcome = "timeout"
)

// NoOpCollector is used when metrics are not needed.
type NoOpCollector struct{}

// RecordOperation does nothing.
func (NoOpCollector) RecordOperation(op string, outcome Outcome, duration time.Duration) {}

// RecordStaleDiscard does nothing.
func (NoOpCollector) RecordStaleDiscard(target string) {}
