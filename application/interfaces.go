package application

import (
	"time"

	"hoopsleague/domain/entities"
)

// Operation outcomes reported to Metrics
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics records what the application layer did. Implemented by the
// observability package; NoopMetrics is used when metrics are disabled.
type Metrics interface {
	ObserveOperation(operation, outcome string, duration time.Duration)
	ObserveSchedulerRun(summary entities.SchedulerRunSummary, duration time.Duration)
}

// NoopMetrics discards everything
type NoopMetrics struct{}

func (NoopMetrics) ObserveOperation(string, string, time.Duration) {}

func (NoopMetrics) ObserveSchedulerRun(entities.SchedulerRunSummary, time.Duration) {}
