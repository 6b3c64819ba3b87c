// Package metrics computes lead-time prediction statistics per NAC
// code from historical request/receive date deltas.
package metrics

import (
	"math"
	"sort"
	"time"
)

// Confidence tiers by sample size.
const (
	TierHigh   = "HIGH"
	TierMedium = "MEDIUM"
	TierLow    = "LOW"
)

const (
	tierHighMin   = 10
	tierMediumMin = 4
)

// Sample is one observed lead time.
type Sample struct {
	// LeadDays is receive_date - request_date in days
	LeadDays float64

	// RequestDate weights recent samples heavier
	RequestDate time.Time
}

// Stats holds the computed lead-time statistics.
type Stats struct {
	Mean         float64
	WeightedMean float64
	Median       float64
	P10          float64
	P90          float64
	StdDev       float64
	SampleSize   int
	Tier         string
}

// Compute derives the full statistics set from samples.
// Returns ok=false when there are no samples.
func Compute(samples []Sample, now time.Time) (Stats, bool) {
	n := len(samples)
	if n == 0 {
		return Stats{}, false
	}

	values := make([]float64, n)
	var sum, weightedSum, weightTotal float64
	for i, s := range samples {
		values[i] = s.LeadDays
		sum += s.LeadDays

		// Recent observations matter more: weight 1/(1+age in years).
		ageYears := now.Sub(s.RequestDate).Hours() / (24 * 365.25)
		if ageYears < 0 {
			ageYears = 0
		}
		w := 1 / (1 + ageYears)
		weightedSum += w * s.LeadDays
		weightTotal += w
	}
	sort.Float64s(values)

	mean := sum / float64(n)

	var variance float64
	if n > 1 {
		for _, v := range values {
			d := v - mean
			variance += d * d
		}
		variance /= float64(n - 1)
	}

	return Stats{
		Mean:         mean,
		WeightedMean: weightedSum / weightTotal,
		Median:       percentile(values, 50),
		P10:          percentile(values, 10),
		P90:          percentile(values, 90),
		StdDev:       math.Sqrt(variance),
		SampleSize:   n,
		Tier:         tier(n),
	}, true
}

// percentile computes the p-th percentile of sorted values with linear
// interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func tier(sampleSize int) string {
	switch {
	case sampleSize >= tierHighMin:
		return TierHigh
	case sampleSize >= tierMediumMin:
		return TierMedium
	default:
		return TierLow
	}
}
