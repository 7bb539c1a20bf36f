package sampler

import (
	"time"
)

// LengthProfile holds the average latency in whole milliseconds for every query length from 1 up to the longest
// length observed. Entry i describes queries of length i+1; lengths without samples have an average of 0.
type LengthProfile []int64

// NewLengthProfile builds a LengthProfile from latencies indexed by query length. Index 0 is ignored.
func NewLengthProfile(latenciesByLength [][]time.Duration) LengthProfile {
	if len(latenciesByLength) <= 1 {
		return LengthProfile{}
	}
	profile := make(LengthProfile, len(latenciesByLength)-1)
	for length := 1; length < len(latenciesByLength); length++ {
		profile[length-1] = averageMillis(latenciesByLength[length])
	}
	return profile
}

// Average returns the average latency in milliseconds of queries of the given length.
func (p LengthProfile) Average(length int) int64 {
	if length < 1 || length > len(p) {
		return 0
	}
	return p[length-1]
}

// MaxLength is the longest query length covered by the profile.
func (p LengthProfile) MaxLength() int {
	return len(p)
}

// MaxAverage is the largest per-length average in the profile.
func (p LengthProfile) MaxAverage() int64 {
	var m int64
	for _, avg := range p {
		if avg > m {
			m = avg
		}
	}
	return m
}

func averageMillis(latencies []time.Duration) int64 {
	if len(latencies) == 0 {
		return 0
	}
	var total int64
	for _, l := range latencies {
		total += l.Milliseconds()
	}
	return total / int64(len(latencies))
}
