package sampler

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/searchbench/internal/common/logging"
)

// Report is the outcome of a run.
type Report struct {
	// Number of successful requests across all workers
	TotalRequests int `json:"totalRequests"`
	// Unweighted mean of the throughput of each worker
	AverageRequestsPerSecond float64 `json:"averageRequestsPerSecond"`
	// Latency statistics derived from the histogram
	Latency LatencySummary `json:"latency"`
	// Non-success responses by HTTP status code
	Errors map[int]int `json:"errors"`
	// Number of workers whose samples were merged
	Workers int `json:"workers"`
	// Number of workers that failed before handing over their samples
	MissingWorkers int `json:"missingWorkers"`
	// Average latency in milliseconds for every query length
	LengthProfile LengthProfile `json:"lengthProfile"`
	// Location of the rendered latency chart, empty if none was written
	ChartPath string `json:"chartPath,omitempty"`
}

func newReport(data *MergedDataset, summary LatencySummary) *Report {
	return &Report{
		TotalRequests:            len(data.Latencies),
		AverageRequestsPerSecond: data.AverageRequestsPerSecond(),
		Latency:                  summary,
		Errors:                   data.Errors,
		Workers:                  data.Workers,
		MissingWorkers:           data.MissingWorkers,
		LengthProfile:            NewLengthProfile(data.LatenciesByLength),
	}
}

// StatusCodes returns the status codes of the errors in ascending order.
func (r *Report) StatusCodes() []int {
	codes := maps.Keys(r.Errors)
	slices.Sort(codes)
	return codes
}

// Log writes the report in human-readable form.
func (r *Report) Log(logger *logging.Logger) {
	logger.Info("General benchmark results:")
	logger.Infof("     Total Successful Requests Sent: %d", r.TotalRequests)
	logger.Infof("     Average Requests/sec: %.2f", r.AverageRequestsPerSecond)
	logger.Infof("     Average Latency: %s", r.Latency.Mean)
	logger.Infof("     Max Latency: %s", r.Latency.Max)
	logger.Infof("     Min Latency: %s", r.Latency.Min)
	logger.Infof("     Stdev Latency: %s", r.Latency.StdDev)
	logger.Infof("     p50/p90/p99 Latency: %s / %s / %s", r.Latency.P50, r.Latency.P90, r.Latency.P99)

	for _, code := range r.StatusCodes() {
		logger.Warnf("     Got status %d: %d", code, r.Errors[code])
	}
	if r.MissingWorkers > 0 {
		logger.Warnf("     %d of %d workers failed before reporting their samples", r.MissingWorkers, r.Workers+r.MissingWorkers)
	}
}
