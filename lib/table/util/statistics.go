// Package util provides shared helpers for the table implementations and
// their tooling. This file implements a specialized probe histogram for
// tracking the distribution of probe sequence lengths (PSL) in open
// addressing tables, plus small statistic helpers used to judge hash
// digest spread.
//
// Key features include:
//   - Efficient memory usage through bucketing
//   - Exact mean and maximum alongside estimated percentiles
//   - Distribution analysis capabilities
//
// The histogram makes it cheap for a table to report on its probe
// characteristics without retaining a per-slot record.
package util

import (
	"math"
)

// ----------------------------------------------------------------------------
// Helper functions
// ----------------------------------------------------------------------------

type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes the standard deviation, minimum, and maximum values
// from an array of float64 values in a single pass.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	min := values[0]
	max := values[0]

	// accumulate sum and sum of squares in one pass
	var sum, sumSquares float64
	for _, v := range values {
		sum += v
		sumSquares += v * v

		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	n := float64(len(values))
	mean := sum / n

	// population variance via E[x^2] - E[x]^2, clamped against
	// floating point cancellation
	variance := sumSquares/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	var minMaxRatio float64 = 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return Stats{
		StdDeviation: math.Sqrt(variance),
		Min:          min,
		Max:          max,
		Mean:         mean,
		MinMaxRatio:  minMaxRatio,
	}
}

type DistributionStats struct {
	Stats
	DistributionQuality float64 `json:"distribution_quality"`
}

// NewDistributionStats computes quality metrics for value distribution
func NewDistributionStats(bucketSizes []float64) DistributionStats {
	// get statistics
	stats := NewStats(bucketSizes)

	// calculate coefficient of variation
	var cv float64
	if stats.Mean > 0 {
		cv = stats.StdDeviation / stats.Mean
	}

	// distribution quality combines CV and min/max ratio
	// -> lower CV and higher min/max ratio indicate better distribution
	distributionQuality := (1.0-math.Min(1.0, cv))*0.5 + stats.MinMaxRatio*0.5

	return DistributionStats{
		Stats:               stats,
		DistributionQuality: distributionQuality,
	}
}

// ----------------------------------------------------------------------------
// ProbeHistogram
// ----------------------------------------------------------------------------

// ProbeHistogram tracks the distribution of probe sequence lengths.
// It organizes samples into buckets for efficient memory usage while
// still providing accurate estimations. The boundaries are dense near
// zero where a healthy table lives and widen exponentially above that.
//
// Thread-safety: not safe for concurrent use. The histogram follows the
// single-threaded model of the tables it describes; callers that share
// one must serialize access externally.
type ProbeHistogram struct {
	boundaries []int   // Bucket boundaries covering the useful PSL range
	buckets    []int64 // Count of samples in each bucket
	count      int64   // Total number of samples
	sum        int64   // Sum of all sampled lengths
	max        int     // Largest length seen since the last Reset
}

// NewProbeHistogram creates a new probe histogram with default bucket
// boundaries. Anything above the last boundary lands in an overflow
// bucket; with a resize threshold well below full, lengths that large
// indicate a broken table rather than an unlucky one.
func NewProbeHistogram() *ProbeHistogram {
	return &ProbeHistogram{
		boundaries: []int{
			0, 1, 2, 3, 4, // the common case: at or next to home
			6, 8, 12, 16, // mild clustering
			24, 32, 48, 64, // heavy clustering
			96, 128, // pathological
		},
		buckets: make([]int64, 16), // 15 boundaries + 1 overflow bucket
	}
}

// AddSample adds one probe sequence length to the histogram
func (h *ProbeHistogram) AddSample(psl int) {
	// Find the appropriate bucket for this length
	bucketIndex := 0
	for i, boundary := range h.boundaries {
		if psl <= boundary {
			bucketIndex = i
			break
		}
		bucketIndex = len(h.boundaries) // Last bucket for all larger values
	}

	// Update statistics
	h.buckets[bucketIndex]++
	h.count++
	h.sum += int64(psl)
	if psl > h.max {
		h.max = psl
	}
}

// GetCount returns the total number of samples
func (h *ProbeHistogram) GetCount() int64 {
	return h.count
}

// Mean returns the exact average probe sequence length
func (h *ProbeHistogram) Mean() float64 {
	if h.count == 0 {
		return 0
	}
	return float64(h.sum) / float64(h.count)
}

// Max returns the exact largest probe sequence length seen
func (h *ProbeHistogram) Max() int {
	return h.max
}

// Reset clears all histogram data
func (h *ProbeHistogram) Reset() {
	h.count = 0
	h.sum = 0
	h.max = 0
	for i := range h.buckets {
		h.buckets[i] = 0
	}
}

// PercentileEstimate returns an estimate for the given percentile (0-100).
// The estimate is bucket-based: exact for the dense low boundaries, a
// midpoint approximation above them.
func (h *ProbeHistogram) PercentileEstimate(percentile int) int {
	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}

	// Calculate target count for percentile
	targetCount := int64(math.Ceil(float64(h.count) * float64(percentile) / 100.0))
	cumulativeCount := int64(0)

	for i, count := range h.buckets {
		cumulativeCount += count
		if cumulativeCount >= targetCount {
			// Found the percentile bucket
			if i < len(h.boundaries) {
				return h.boundaries[i]
			}
			// Estimation for the overflow bucket: the exact max is
			// known, use it instead of extrapolating
			return h.max
		}
	}

	// Shouldn't happen but as a fallback
	return int(h.sum / h.count)
}

// Distribution returns the distribution of samples across buckets.
// Returns two slices: bucket boundaries and the percentage in each bucket.
func (h *ProbeHistogram) Distribution() ([]int, []float64) {
	if h.count == 0 {
		return h.boundaries, make([]float64, len(h.buckets))
	}

	// Calculate percentages
	percentages := make([]float64, len(h.buckets))
	for i, count := range h.buckets {
		percentages[i] = float64(count) * 100.0 / float64(h.count)
	}

	return h.boundaries, percentages
}
