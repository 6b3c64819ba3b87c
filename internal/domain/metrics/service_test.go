package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
)

type mockRepo struct {
	samples map[string][]Sample
	stored  map[string]*Metric
	deleted []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		samples: make(map[string][]Sample),
		stored:  make(map[string]*Metric),
	}
}

func (r *mockRepo) LoadSamples(_ context.Context, nacCode string) ([]Sample, error) {
	return r.samples[nacCode], nil
}

func (r *mockRepo) ListNacCodes(_ context.Context) ([]string, error) {
	codes := make([]string, 0, len(r.samples))
	for code := range r.samples {
		codes = append(codes, code)
	}
	return codes, nil
}

func (r *mockRepo) Upsert(_ context.Context, metric *Metric) error {
	r.stored[metric.NacCode] = metric
	return nil
}

func (r *mockRepo) Get(_ context.Context, nacCode string) (*Metric, error) {
	m, ok := r.stored[nacCode]
	if !ok {
		return nil, apperror.NewNotFound("prediction metric", nacCode)
	}
	return m, nil
}

func (r *mockRepo) Delete(_ context.Context, nacCode string) error {
	delete(r.stored, nacCode)
	r.deleted = append(r.deleted, nacCode)
	return nil
}

func TestRefresh_StoresMetric(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	repo.samples["GT04552"] = []Sample{
		{LeadDays: 3, RequestDate: now.AddDate(0, -1, 0)},
		{LeadDays: 5, RequestDate: now.AddDate(0, -2, 0)},
	}

	service := NewService(repo)
	service.now = func() time.Time { return now }

	metric, err := service.Refresh(ctx, "GT04552")
	require.NoError(t, err)
	assert.Equal(t, 2, metric.SampleSize)
	assert.Equal(t, TierLow, metric.ConfidenceTier)
	assert.Equal(t, now, metric.ComputedAt)
	assert.Contains(t, repo.stored, "GT04552")
}

func TestRefresh_NoSamplesDropsMetric(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	repo.stored["GT09999"] = &Metric{NacCode: "GT09999"}

	service := NewService(repo)

	_, err := service.Refresh(ctx, "GT09999")
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, []string{"GT09999"}, repo.deleted)
}

func TestRefreshAll_CountsOnlyStored(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	now := time.Now().UTC()

	repo.samples["GT00001"] = []Sample{{LeadDays: 4, RequestDate: now}}
	repo.samples["GT00002"] = []Sample{{LeadDays: 9, RequestDate: now}}
	repo.samples["GT00003"] = nil // no history left

	service := NewService(repo)

	refreshed, err := service.RefreshAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed)
	assert.Len(t, repo.stored, 2)
}
