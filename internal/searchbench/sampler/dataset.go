package sampler

import (
	"time"
)

// MergedDataset is the union of the SampleSets of every worker that finished.
type MergedDataset struct {
	Latencies         []time.Duration
	LatenciesByLength [][]time.Duration
	Errors            map[int]int
	// Throughput of each merged worker in merge order. Workers without latencies contribute their sentinel 0.
	WorkerRequestsPerSecond []float64
	// Number of workers merged into this dataset
	Workers int
	// Number of workers that never handed over a SampleSet
	MissingWorkers int
}

func newMergedDataset() *MergedDataset {
	return &MergedDataset{
		Latencies:               []time.Duration{},
		LatenciesByLength:       [][]time.Duration{},
		Errors:                  map[int]int{},
		WorkerRequestsPerSecond: []float64{},
	}
}

// Merge folds a single worker's samples into the dataset.
func (m *MergedDataset) Merge(s *SampleSet) {
	m.Workers++
	m.WorkerRequestsPerSecond = append(m.WorkerRequestsPerSecond, s.RequestsPerSecond)
	m.Latencies = append(m.Latencies, s.Latencies...)

	for len(m.LatenciesByLength) < len(s.LatenciesByLength) {
		m.LatenciesByLength = append(m.LatenciesByLength, []time.Duration{})
	}
	for length, latencies := range s.LatenciesByLength {
		m.LatenciesByLength[length] = append(m.LatenciesByLength[length], latencies...)
	}

	for status, count := range s.Errors {
		m.Errors[status] += count
	}
}

// AverageRequestsPerSecond is the unweighted mean of each worker's own throughput.
// Each worker issues requests sequentially, so the mean approximates the rate a single client sees.
func (m *MergedDataset) AverageRequestsPerSecond() float64 {
	if len(m.WorkerRequestsPerSecond) == 0 {
		return 0
	}
	var total float64
	for _, rps := range m.WorkerRequestsPerSecond {
		total += rps
	}
	return total / float64(len(m.WorkerRequestsPerSecond))
}
