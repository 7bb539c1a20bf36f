package sampler

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two significant figures means every value is accurate to within 1%.
const histogramPrecision = 0.01

func TestSummarize_KnownDistribution(t *testing.T) {
	var latencies []time.Duration
	for i := 0; i < 1000; i++ {
		latencies = append(latencies, time.Millisecond, 2*time.Millisecond, 3*time.Millisecond)
	}

	summary, err := Summarize(latencies)
	require.NoError(t, err)

	assert.Equal(t, int64(3000), summary.Count)
	assert.InEpsilon(t, float64(2*time.Millisecond), float64(summary.Mean), histogramPrecision)
	assert.InEpsilon(t, float64(time.Millisecond), float64(summary.Min), histogramPrecision)
	assert.InEpsilon(t, float64(3*time.Millisecond), float64(summary.Max), histogramPrecision)
	expectedStdDev := math.Sqrt(2.0/3.0) * float64(time.Millisecond)
	assert.InEpsilon(t, expectedStdDev, float64(summary.StdDev), histogramPrecision)
	assert.InEpsilon(t, float64(2*time.Millisecond), float64(summary.P50), histogramPrecision)
	assert.InEpsilon(t, float64(3*time.Millisecond), float64(summary.P99), histogramPrecision)
}

func TestSummarize_SkipsZeroLatencies(t *testing.T) {
	summary, err := Summarize([]time.Duration{0, 500 * time.Nanosecond, 10 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.Count)
	assert.InEpsilon(t, float64(10*time.Millisecond), float64(summary.Mean), histogramPrecision)
	assert.InEpsilon(t, float64(10*time.Millisecond), float64(summary.Min), histogramPrecision)
}

func TestSummarize_Bounds(t *testing.T) {
	tests := map[string]struct {
		latency  time.Duration
		overflow bool
	}{
		"lowest trackable value": {latency: time.Microsecond},
		"exactly one hour":       {latency: time.Hour},
		"just over one hour":     {latency: time.Hour + time.Millisecond, overflow: true},
		"a day":                  {latency: 24 * time.Hour, overflow: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			summary, err := Summarize([]time.Duration{tc.latency})
			if tc.overflow {
				var overflow *ErrHistogramOverflow
				require.ErrorAs(t, err, &overflow)
				assert.Equal(t, tc.latency, overflow.Value)
				assert.Equal(t, time.Hour, overflow.Max)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), summary.Count)
		})
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary, err := Summarize(nil)
	require.NoError(t, err)
	assert.Equal(t, LatencySummary{}, summary)
}
