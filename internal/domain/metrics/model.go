package metrics

import (
	"time"
)

// Metric is the materialized lead-time summary for one NAC code.
// Refreshed out-of-band from transactional writes.
type Metric struct {
	NacCode string `db:"nac_code" json:"nacCode"`

	MeanLeadDays     float64 `db:"mean_lead_days" json:"meanLeadDays"`
	WeightedLeadDays float64 `db:"weighted_lead_days" json:"weightedLeadDays"`
	MedianLeadDays   float64 `db:"median_lead_days" json:"medianLeadDays"`
	P10LeadDays      float64 `db:"p10_lead_days" json:"p10LeadDays"`
	P90LeadDays      float64 `db:"p90_lead_days" json:"p90LeadDays"`
	StdDevLeadDays   float64 `db:"stddev_lead_days" json:"stdDevLeadDays"`

	SampleSize     int    `db:"sample_size" json:"sampleSize"`
	ConfidenceTier string `db:"confidence_tier" json:"confidenceTier"`

	ComputedAt time.Time `db:"computed_at" json:"computedAt"`
}
