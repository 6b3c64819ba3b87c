// Package metrics_repo provides the PostgreSQL implementation of the
// prediction metrics repository.
package metrics_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"gims/internal/core/apperror"
	"gims/internal/domain/metrics"
	"gims/internal/infrastructure/storage/postgres"
)

const metricsTable = "prediction_metrics"

// MetricsRepo implements metrics.Repository.
type MetricsRepo struct {
	txm *postgres.TxManager
}

var _ metrics.Repository = (*MetricsRepo)(nil)

// NewMetricsRepo creates a new metrics repository.
func NewMetricsRepo(txm *postgres.TxManager) *MetricsRepo {
	return &MetricsRepo{txm: txm}
}

func (r *MetricsRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// LoadSamples extracts lead-time observations from approved
// request/receive pairs for one NAC code. Lead time is the day delta
// between the request date and the receive date.
func (r *MetricsRepo) LoadSamples(ctx context.Context, nacCode string) ([]metrics.Sample, error) {
	const q = `
		SELECT
			EXTRACT(EPOCH FROM (rcv.receive_date - req.request_date)) / 86400 AS lead_days,
			req.request_date
		FROM receive_records rcv
		JOIN request_records req ON req.id = rcv.request_fk
		WHERE req.nac_code = $1
		  AND rcv.approval_status = 'APPROVED'
		  AND req.approval_status = 'APPROVED'
		  AND rcv.receive_date >= req.request_date
		ORDER BY req.request_date`

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, q, nacCode)
	if err != nil {
		return nil, fmt.Errorf("load samples: %w", err)
	}
	defer rows.Close()

	var samples []metrics.Sample
	for rows.Next() {
		var s metrics.Sample
		if err := rows.Scan(&s.LeadDays, &s.RequestDate); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// ListNacCodes returns every NAC code with at least one approved pair.
func (r *MetricsRepo) ListNacCodes(ctx context.Context) ([]string, error) {
	const q = `
		SELECT DISTINCT req.nac_code
		FROM receive_records rcv
		JOIN request_records req ON req.id = rcv.request_fk
		WHERE rcv.approval_status = 'APPROVED'
		  AND req.approval_status = 'APPROVED'
		ORDER BY req.nac_code`

	var codes []string
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &codes, q); err != nil {
		return nil, fmt.Errorf("list nac codes: %w", err)
	}
	return codes, nil
}

// Upsert replaces the metric row for its NAC code.
func (r *MetricsRepo) Upsert(ctx context.Context, m *metrics.Metric) error {
	const q = `
		INSERT INTO prediction_metrics (
			nac_code, mean_lead_days, weighted_lead_days, median_lead_days,
			p10_lead_days, p90_lead_days, stddev_lead_days,
			sample_size, confidence_tier, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (nac_code) DO UPDATE SET
			mean_lead_days = EXCLUDED.mean_lead_days,
			weighted_lead_days = EXCLUDED.weighted_lead_days,
			median_lead_days = EXCLUDED.median_lead_days,
			p10_lead_days = EXCLUDED.p10_lead_days,
			p90_lead_days = EXCLUDED.p90_lead_days,
			stddev_lead_days = EXCLUDED.stddev_lead_days,
			sample_size = EXCLUDED.sample_size,
			confidence_tier = EXCLUDED.confidence_tier,
			computed_at = EXCLUDED.computed_at`

	_, err := r.txm.GetQuerier(ctx).Exec(ctx, q,
		m.NacCode, m.MeanLeadDays, m.WeightedLeadDays, m.MedianLeadDays,
		m.P10LeadDays, m.P90LeadDays, m.StdDevLeadDays,
		m.SampleSize, m.ConfidenceTier, m.ComputedAt)
	if err != nil {
		return fmt.Errorf("upsert metric: %w", err)
	}
	return nil
}

// Get returns the metric for a NAC code.
func (r *MetricsRepo) Get(ctx context.Context, nacCode string) (*metrics.Metric, error) {
	q := r.builder().
		Select("nac_code", "mean_lead_days", "weighted_lead_days", "median_lead_days",
			"p10_lead_days", "p90_lead_days", "stddev_lead_days",
			"sample_size", "confidence_tier", "computed_at").
		From(metricsTable).
		Where(squirrel.Eq{"nac_code": nacCode})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	m := &metrics.Metric{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("prediction metric", nacCode)
		}
		return nil, fmt.Errorf("get metric: %w", err)
	}
	return m, nil
}

// Delete removes the metric row for a NAC code. Missing rows are not
// an error; the refresh path deletes before recomputing.
func (r *MetricsRepo) Delete(ctx context.Context, nacCode string) error {
	q := r.builder().
		Delete(metricsTable).
		Where(squirrel.Eq{"nac_code": nacCode})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}
	return nil
}
