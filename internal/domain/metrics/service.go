package metrics

import (
	"context"
	"fmt"
	"time"

	"gims/internal/core/apperror"
	"gims/pkg/logger"
)

// Service refreshes and serves prediction metrics.
type Service struct {
	repo Repository

	// now is swappable for tests
	now func() time.Time
}

// NewService creates a new metrics service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Get returns the stored metric for a NAC code.
func (s *Service) Get(ctx context.Context, nacCode string) (*Metric, error) {
	if nacCode == "" {
		return nil, apperror.NewValidation("nac code is required").
			WithDetail("field", "nacCode")
	}
	return s.repo.Get(ctx, nacCode)
}

// Refresh recomputes the metric for one NAC code. A code with no
// samples left gets its metric row removed.
func (s *Service) Refresh(ctx context.Context, nacCode string) (*Metric, error) {
	if nacCode == "" {
		return nil, apperror.NewValidation("nac code is required").
			WithDetail("field", "nacCode")
	}

	samples, err := s.repo.LoadSamples(ctx, nacCode)
	if err != nil {
		return nil, fmt.Errorf("load samples: %w", err)
	}

	now := s.now().UTC()
	stats, ok := Compute(samples, now)
	if !ok {
		if err := s.repo.Delete(ctx, nacCode); err != nil {
			return nil, fmt.Errorf("drop empty metric: %w", err)
		}
		return nil, apperror.NewNotFound("prediction metric", nacCode)
	}

	metric := &Metric{
		NacCode:          nacCode,
		MeanLeadDays:     stats.Mean,
		WeightedLeadDays: stats.WeightedMean,
		MedianLeadDays:   stats.Median,
		P10LeadDays:      stats.P10,
		P90LeadDays:      stats.P90,
		StdDevLeadDays:   stats.StdDev,
		SampleSize:       stats.SampleSize,
		ConfidenceTier:   stats.Tier,
		ComputedAt:       now,
	}
	if err := s.repo.Upsert(ctx, metric); err != nil {
		return nil, fmt.Errorf("store metric: %w", err)
	}

	logger.Info(ctx, "prediction metric refreshed",
		"nac_code", nacCode,
		"sample_size", stats.SampleSize,
		"tier", stats.Tier)
	return metric, nil
}

// RefreshAll recomputes metrics for every NAC code with history.
// Individual failures are logged and skipped so one bad code does not
// abort the batch.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	codes, err := s.repo.ListNacCodes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list nac codes: %w", err)
	}

	refreshed := 0
	for _, code := range codes {
		if _, err := s.Refresh(ctx, code); err != nil {
			if apperror.IsNotFound(err) {
				continue
			}
			logger.Error(ctx, "metric refresh failed", "nac_code", code, "error", err)
			continue
		}
		refreshed++
	}

	logger.Info(ctx, "prediction metrics refreshed", "count", refreshed, "total", len(codes))
	return refreshed, nil
}
