package util

import (
	"math"
	"testing"
)

func TestNewStats(t *testing.T) {
	// classic textbook sample: mean 5, population stddev 2
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	stats := NewStats(values)

	if stats.Mean != 5 {
		t.Errorf("Expected mean 5, got %f", stats.Mean)
	}
	if math.Abs(stats.StdDeviation-2) > 1e-9 {
		t.Errorf("Expected stddev 2, got %f", stats.StdDeviation)
	}
	if stats.Min != 2 || stats.Max != 9 {
		t.Errorf("Expected min/max 2/9, got %f/%f", stats.Min, stats.Max)
	}
	if math.Abs(stats.MinMaxRatio-2.0/9.0) > 1e-9 {
		t.Errorf("Expected min/max ratio %f, got %f", 2.0/9.0, stats.MinMaxRatio)
	}
}

func TestNewStatsEmpty(t *testing.T) {
	stats := NewStats(nil)
	if stats != (Stats{}) {
		t.Errorf("Expected zero stats for empty input, got %+v", stats)
	}
}

func TestNewDistributionStatsUniform(t *testing.T) {
	// a perfectly even distribution scores a quality of 1.0
	values := []float64{10, 10, 10, 10}
	dist := NewDistributionStats(values)

	if math.Abs(dist.DistributionQuality-1.0) > 1e-9 {
		t.Errorf("Expected quality 1.0 for uniform values, got %f", dist.DistributionQuality)
	}
}

func TestNewDistributionStatsSkewed(t *testing.T) {
	values := []float64{1, 1, 1, 100}
	dist := NewDistributionStats(values)

	if dist.DistributionQuality > 0.5 {
		t.Errorf("Expected low quality for skewed values, got %f", dist.DistributionQuality)
	}
}

func TestProbeHistogramEmpty(t *testing.T) {
	h := NewProbeHistogram()

	if h.GetCount() != 0 {
		t.Errorf("Expected count 0, got %d", h.GetCount())
	}
	if h.Mean() != 0 {
		t.Errorf("Expected mean 0, got %f", h.Mean())
	}
	if h.Max() != 0 {
		t.Errorf("Expected max 0, got %d", h.Max())
	}
	if h.PercentileEstimate(50) != 0 {
		t.Errorf("Expected percentile 0 on empty histogram, got %d", h.PercentileEstimate(50))
	}
}

func TestProbeHistogramBasics(t *testing.T) {
	h := NewProbeHistogram()
	for _, psl := range []int{0, 0, 1, 2} {
		h.AddSample(psl)
	}

	if h.GetCount() != 4 {
		t.Errorf("Expected count 4, got %d", h.GetCount())
	}
	if h.Mean() != 0.75 {
		t.Errorf("Expected mean 0.75, got %f", h.Mean())
	}
	if h.Max() != 2 {
		t.Errorf("Expected max 2, got %d", h.Max())
	}
}

func TestProbeHistogramPercentiles(t *testing.T) {
	h := NewProbeHistogram()
	for i := 0; i < 90; i++ {
		h.AddSample(1)
	}
	for i := 0; i < 10; i++ {
		h.AddSample(8)
	}

	if p := h.PercentileEstimate(50); p != 1 {
		t.Errorf("Expected P50 of 1, got %d", p)
	}
	if p := h.PercentileEstimate(95); p != 8 {
		t.Errorf("Expected P95 of 8, got %d", p)
	}
}

func TestProbeHistogramOverflow(t *testing.T) {
	h := NewProbeHistogram()
	h.AddSample(1000)

	if h.Max() != 1000 {
		t.Errorf("Expected max 1000, got %d", h.Max())
	}
	// overflow samples report the exact max instead of a bucket midpoint
	if p := h.PercentileEstimate(100); p != 1000 {
		t.Errorf("Expected P100 of 1000, got %d", p)
	}
}

func TestProbeHistogramDistribution(t *testing.T) {
	h := NewProbeHistogram()
	h.AddSample(0)
	h.AddSample(0)
	h.AddSample(1)
	h.AddSample(1)

	boundaries, percentages := h.Distribution()
	if len(boundaries)+1 != len(percentages) {
		t.Fatalf("Expected one more bucket than boundaries, got %d/%d", len(boundaries), len(percentages))
	}
	if percentages[0] != 50 || percentages[1] != 50 {
		t.Errorf("Expected 50/50 split across the first two buckets, got %v", percentages)
	}
}

func TestProbeHistogramReset(t *testing.T) {
	h := NewProbeHistogram()
	h.AddSample(5)
	h.Reset()

	if h.GetCount() != 0 || h.Max() != 0 || h.Mean() != 0 {
		t.Errorf("Expected cleared histogram after reset, got count=%d max=%d mean=%f",
			h.GetCount(), h.Max(), h.Mean())
	}
}
