package sampler

import (
	"time"

	"github.com/codahale/hdrhistogram"
)

const (
	// Latencies are tracked in microseconds between 1µs and one hour at two significant figures.
	histogramUnit               = time.Microsecond
	lowestTrackableValue        = int64(1)
	highestTrackableValue       = int64(time.Hour / histogramUnit)
	histogramSignificantFigures = 2
)

// LatencySummary describes the latency distribution of the successful requests of a run.
type LatencySummary struct {
	// Number of samples recorded in the histogram. Zero latencies are not included.
	Count  int64         `json:"count"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stdDev"`
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	P50    time.Duration `json:"p50"`
	P90    time.Duration `json:"p90"`
	P99    time.Duration `json:"p99"`
}

// Summarize records the latencies into an HDR histogram and derives the summary statistics from it.
// Latencies that round down to 0µs are skipped as they denote requests that were never really measured.
func Summarize(latencies []time.Duration) (LatencySummary, error) {
	hist := hdrhistogram.New(lowestTrackableValue, highestTrackableValue, histogramSignificantFigures)
	for _, latency := range latencies {
		v := int64(latency / histogramUnit)
		if v <= 0 {
			continue
		}
		if v > highestTrackableValue {
			return LatencySummary{}, &ErrHistogramOverflow{Value: latency, Max: time.Hour}
		}
		if err := hist.RecordValue(v); err != nil {
			return LatencySummary{}, &ErrHistogramOverflow{Value: latency, Max: time.Hour}
		}
	}
	return LatencySummary{
		Count:  hist.TotalCount(),
		Mean:   fromHistogramUnits(hist.Mean()),
		StdDev: fromHistogramUnits(hist.StdDev()),
		Min:    time.Duration(hist.Min()) * histogramUnit,
		Max:    time.Duration(hist.Max()) * histogramUnit,
		P50:    time.Duration(hist.ValueAtQuantile(50)) * histogramUnit,
		P90:    time.Duration(hist.ValueAtQuantile(90)) * histogramUnit,
		P99:    time.Duration(hist.ValueAtQuantile(99)) * histogramUnit,
	}, nil
}

func fromHistogramUnits(v float64) time.Duration {
	return time.Duration(v * float64(histogramUnit))
}
