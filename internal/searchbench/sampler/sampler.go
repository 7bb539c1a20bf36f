// Package sampler collects the latencies measured by many concurrent workers and turns them into a report.
//
// Every worker owns exactly one Handle and records into it without any synchronisation. When the worker is done
// it either calls Finish, which hands its samples over to the Sampler, or Abandon if it failed. The Sampler waits
// for every Handle to resolve, merges the samples and derives the statistics and the latency chart from them.
//
// A worker that neither finishes nor abandons its Handle blocks CollectAndReport until ctx is done. Callers are
// expected to bound the lifetime of their workers, e.g. with a per-worker deadline.
package sampler

import (
	"context"

	"github.com/armadaproject/searchbench/internal/common/logging"
)

// Sampler owns the receiving side of every Handle it created.
type Sampler struct {
	outputDir string
	receivers []<-chan *SampleSet
	logger    *logging.Logger
}

// New creates a Sampler that writes its chart into outputDir.
func New(outputDir string) *Sampler {
	return &Sampler{
		outputDir: outputDir,
		logger:    logging.StdLogger(),
	}
}

// WithLogger sets the logger the report is written to.
func (s *Sampler) WithLogger(logger *logging.Logger) *Sampler {
	s.logger = logger
	return s
}

// NewHandle registers a new worker. It must be called for every worker before CollectAndReport.
func (s *Sampler) NewHandle() *Handle {
	h, c := newHandle()
	s.receivers = append(s.receivers, c)
	return h
}

// Workers returns the number of registered workers.
func (s *Sampler) Workers() int {
	return len(s.receivers)
}

// Collect waits for every registered Handle to resolve and merges the samples that were handed over.
// Workers that abandoned their Handle are counted in MissingWorkers.
func (s *Sampler) Collect(ctx context.Context) (*MergedDataset, error) {
	data := newMergedDataset()
	for _, c := range s.receivers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sample, ok := <-c:
			if !ok {
				data.MissingWorkers++
				continue
			}
			data.Merge(sample)
		}
	}
	return data, nil
}

// CollectAndReport collects all samples, logs the resulting statistics and renders the latency chart.
//
// The statistics are logged before the chart is rendered, so if rendering fails an *ErrRender is returned
// together with the Report.
func (s *Sampler) CollectAndReport(ctx context.Context) (*Report, error) {
	data, err := s.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if data.MissingWorkers > 0 {
		s.logger.Warnf("%d of %d workers did not report any samples", data.MissingWorkers, len(s.receivers))
	}
	if len(data.Latencies) == 0 {
		return nil, ErrNoSuccessfulSamples
	}

	summary, err := Summarize(data.Latencies)
	if err != nil {
		return nil, err
	}

	report := newReport(data, summary)
	report.Log(s.logger)

	if report.LengthProfile.MaxLength() == 0 {
		s.logger.Info("No latencies were recorded by query length, skipping chart")
		return report, nil
	}
	path := ChartPath(s.outputDir)
	if err := RenderChart(report.LengthProfile, path); err != nil {
		return report, err
	}
	report.ChartPath = path
	s.logger.Infof("Result has been saved to %s", path)
	return report, nil
}
