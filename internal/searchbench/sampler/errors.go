package sampler

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrNoSuccessfulSamples is returned when, once every worker has been collected, not a single successful
// request latency was recorded. Nothing meaningful can be reported in that case.
var ErrNoSuccessfulSamples = errors.New("unable to complete the run as no worker recorded a successful request")

// ErrHistogramOverflow is returned when a latency is larger than the histogram is able to track.
type ErrHistogramOverflow struct {
	// The latency that could not be recorded
	Value time.Duration
	// The largest latency the histogram tracks
	Max time.Duration
}

func (err *ErrHistogramOverflow) Error() string {
	return fmt.Sprintf("latency %s exceeds the maximum trackable latency of %s", err.Value, err.Max)
}

// ErrRender is returned when the latency chart could not be written.
type ErrRender struct {
	// Where the chart was being written to
	Path string
	// The underlying failure
	Err error
}

func (err *ErrRender) Error() string {
	return fmt.Sprintf("failed to render latency chart to %s: %s", err.Path, err.Err)
}

func (err *ErrRender) Cause() error {
	return err.Err
}

func (err *ErrRender) Unwrap() error {
	return err.Err
}
