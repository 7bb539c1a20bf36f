package sampler

import (
	"time"
)

// SampleSet holds everything a single worker measured during a run.
type SampleSet struct {
	// Latencies of every request whose outcome counted as a success.
	Latencies []time.Duration
	// LatenciesByLength is indexed by query length. Index 0 is never reported.
	LatenciesByLength [][]time.Duration
	// Errors counts non-success responses by HTTP status code.
	Errors map[int]int
	// RequestsPerSecond is computed once by Finish and is 0 if no latencies were recorded.
	RequestsPerSecond float64
}

func newSampleSet() *SampleSet {
	return &SampleSet{
		Latencies:         []time.Duration{},
		LatenciesByLength: [][]time.Duration{},
		Errors:            map[int]int{},
	}
}

// throughput divides the number of successful requests by the total time spent serving them.
func (s *SampleSet) throughput() float64 {
	if len(s.Latencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, l := range s.Latencies {
		total += l
	}
	if total <= 0 {
		return 0
	}
	return float64(len(s.Latencies)) / total.Seconds()
}

// Handle accumulates the samples of one worker. A Handle must only ever be used by the goroutine that owns it
// and is not safe for concurrent use.
//
// Once Finish or Abandon has been called the Handle is spent and any further calls to its Record methods panic.
type Handle struct {
	sample *SampleSet
	submit chan *SampleSet
}

func newHandle() (*Handle, <-chan *SampleSet) {
	// Buffered so that Finish never blocks the worker.
	c := make(chan *SampleSet, 1)
	return &Handle{sample: newSampleSet(), submit: c}, c
}

// RecordLatency records the latency of a successful request.
func (h *Handle) RecordLatency(d time.Duration) {
	s := h.mustSample()
	s.Latencies = append(s.Latencies, d)
}

// RecordLatencyForLength records the latency of a successful request against the length of its query.
// length must not be negative.
func (h *Handle) RecordLatencyForLength(length int, d time.Duration) {
	s := h.mustSample()
	for len(s.LatenciesByLength) <= length {
		s.LatenciesByLength = append(s.LatenciesByLength, []time.Duration{})
	}
	s.LatenciesByLength[length] = append(s.LatenciesByLength[length], d)
}

// RecordError counts a request that completed with a non-success status.
func (h *Handle) RecordError(status int) {
	s := h.mustSample()
	s.Errors[status]++
}

// Finish computes the worker's throughput and hands the samples over to the Sampler.
// Calling Finish on a spent Handle is a no-op.
func (h *Handle) Finish() {
	if h.submit == nil {
		return
	}
	s := h.sample
	s.RequestsPerSecond = s.throughput()
	h.submit <- s
	h.release()
}

// Abandon tells the Sampler that this worker will never deliver any samples.
// Calling Abandon on a spent Handle is a no-op, so it is safe to defer straight after creating the worker.
func (h *Handle) Abandon() {
	if h.submit == nil {
		return
	}
	h.release()
}

func (h *Handle) release() {
	close(h.submit)
	h.submit = nil
	h.sample = nil
}

func (h *Handle) mustSample() *SampleSet {
	if h.sample == nil {
		panic("sampler: handle used after Finish or Abandon")
	}
	return h.sample
}
