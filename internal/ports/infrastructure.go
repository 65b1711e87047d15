// Package ports defines the interfaces through which the ranking core
// talks to its external collaborators: observation sources, result
// sinks, and observability backends.
package ports

import (
	"context"
	"time"

	"github.com/varietal/winerank/internal/domain"
)

// ObservationSource supplies the batch of observations a ranking run
// operates on. Implementations read a relational database, a delimited
// file, or an in-memory fixture; the core treats all of them as a
// simple in-memory table.
type ObservationSource interface {
	// Load reads the full snapshot of observations. The core performs a
	// full batch recompute, so Load is called exactly once per run.
	// Implementations must fail fast on malformed identifiers rather
	// than coercing them; missing scores may pass through as the
	// sentinel value and are filtered during table construction.
	Load(ctx context.Context) ([]domain.Observation, error)
}

// ResultSink persists a computed ranking. The core only ever hands a
// sink the complete, sorted, filtered result; partial rankings are
// never written.
type ResultSink interface {
	// Write persists the ranking. An empty ranking is a valid write.
	Write(ctx context.Context, ranking []domain.RankedWine) error
}

// MetricsCollector defines the interface for collecting operational
// metrics about ranking runs. Implementations should integrate with
// observability platforms like Prometheus or OpenTelemetry.
type MetricsCollector interface {
	// RecordLatency records the execution time of a pipeline stage.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like completed or failed runs.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking run sizes like wines ranked or pairs
	// compared.
	RecordGauge(metric string, value float64, labels map[string]string)
}
