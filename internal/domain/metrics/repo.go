package metrics

import (
	"context"
)

// Repository defines the interface for metric persistence and sample
// extraction.
type Repository interface {
	// LoadSamples returns lead-time samples for a NAC code from
	// approved request/receive pairs.
	LoadSamples(ctx context.Context, nacCode string) ([]Sample, error)

	// ListNacCodes returns every NAC code that has at least one
	// approved linked pair.
	ListNacCodes(ctx context.Context) ([]string, error)

	// Upsert replaces the metric row for its NAC code.
	Upsert(ctx context.Context, metric *Metric) error

	// Get returns the metric for a NAC code, or a not-found error.
	Get(ctx context.Context, nacCode string) (*Metric, error)

	// Delete removes the metric row for a NAC code.
	Delete(ctx context.Context, nacCode string) error
}
