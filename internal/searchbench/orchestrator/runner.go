package orchestrator

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/armadaproject/searchbench/internal/common/logging"
	"github.com/armadaproject/searchbench/internal/searchbench/backend"
	"github.com/armadaproject/searchbench/internal/searchbench/configuration"
	"github.com/armadaproject/searchbench/internal/searchbench/metrics"
	"github.com/armadaproject/searchbench/internal/searchbench/sampler"
	"github.com/armadaproject/searchbench/internal/searchbench/workload"
)

const SummaryFileName = "run-summary.json"

// Runner orchestrates a single benchmark run against one backend.
type Runner struct {
	id       string
	config   configuration.TestConfig
	registry *prometheus.Registry
}

// NewRunner creates a new Runner with the given test configuration.
func NewRunner(config configuration.TestConfig) *Runner {
	return &Runner{
		id:       uuid.NewString(),
		config:   config,
		registry: prometheus.NewRegistry(),
	}
}

// Run executes the benchmark.
//
// It performs the following steps:
//  1. Creates the backend and, if a documents file is configured, loads the documents into it
//  2. Loads the search terms and creates the output directory
//  3. Registers one sampler handle per worker, then starts every worker
//  4. Collects and reports the samples of all workers while they run
//  5. Optionally writes the report to run-summary.json in the output directory
//
// A failing worker doesn't fail the run; its samples are discarded and the failure is logged. A worker stopped by its
// own deadline or by cancellation of ctx is treated as finished and its samples are kept, so cancelling ctx ends the
// run early but still reports what was collected. If the latency chart could not be rendered, the report is returned
// together with a *sampler.ErrRender.
func (r *Runner) Run(ctx context.Context) (*sampler.Report, error) {
	logging.Infof("Starting searchbench run %s against %s at %s", r.id, r.config.Backend.Kind, r.config.Backend.Address)

	engine, err := backend.New(r.config.Backend)
	if err != nil {
		return nil, err
	}

	if err := r.prep(ctx, engine); err != nil {
		return nil, errors.WithMessagef(err, "preparing %s", engine.Name())
	}

	terms, err := workload.LoadTerms(r.config.Workload.TermsFile.String())
	if err != nil {
		return nil, err
	}
	logging.Infof("Loaded %d search terms", len(terms))

	outputDir := r.config.Output.Directory.String()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.WithMessage(err, "creating output directory")
	}

	requestMetrics, err := metrics.NewRequestMetrics(r.registry, engine.Name())
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if r.config.MetricsPort != 0 {
		var served sync.WaitGroup
		defer served.Wait()
		defer cancel()
		served.Go(func() {
			if err := metrics.Serve(runCtx, r.config.MetricsPort, prometheus.Gatherers{r.registry, prometheus.DefaultGatherer}); err != nil {
				logging.WithError(err).Warn("metrics server failed")
			}
		})
	}

	// Every handle has to exist before the first worker starts
	s := sampler.New(outputDir).WithLogger(logging.WithFields(map[string]any{"run": r.id, "backend": engine.Name()}))
	handles := make([]*sampler.Handle, r.config.Workload.Concurrency)
	for i := range handles {
		handles[i] = s.NewHandle()
	}

	seed := r.config.Workload.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mode := workload.Mode(r.config.Workload.Mode)
	logging.Infof("Starting %d %s workers", len(handles), mode)

	var (
		mu       sync.Mutex
		failures *multierror.Error
		report   *sampler.Report
	)
	g, gctx := errgroup.WithContext(runCtx)
	for i, h := range handles {
		workerTerms := workload.Limit(workload.Shuffle(terms, rand.New(rand.NewSource(seed+int64(i)))), r.config.Workload.TermsPerWorker)
		g.Go(func() error {
			if err := r.runWorker(gctx, mode, engine, h, workerTerms, requestMetrics); err != nil {
				mu.Lock()
				failures = multierror.Append(failures, errors.WithMessagef(err, "worker %d", i))
				mu.Unlock()
			}
			return nil
		})
	}
	g.Go(func() error {
		// Every worker resolves its handle once ctx is done, so collecting must not be cancelled along with them
		var err error
		report, err = s.CollectAndReport(context.WithoutCancel(ctx))
		return err
	})
	err = g.Wait()

	if ctx.Err() != nil {
		logging.Warn("Run was interrupted, the report only covers the samples collected before it stopped")
	}

	if failures != nil {
		logging.WithError(failures).Warnf("%d of %d workers failed", len(failures.Errors), len(handles))
	}

	var renderErr *sampler.ErrRender
	if err != nil && !errors.As(err, &renderErr) {
		return nil, err
	}

	if r.config.Output.WriteSummary {
		path := filepath.Join(outputDir, SummaryFileName)
		if err := r.writeSummary(report, path); err != nil {
			return report, err
		}
		logging.Infof("Run summary written to %s", path)
	}
	return report, err
}

// runWorker sends the terms to the backend and resolves the handle. The handle is finished if the worker ran out of
// terms or its context ended, which covers both its own deadline and cancellation of the run. Any other error,
// including a single request exceeding the request timeout, abandons it.
func (r *Runner) runWorker(ctx context.Context, mode workload.Mode, engine backend.Backend, h *sampler.Handle, terms []string, observer workload.Observer) error {
	defer h.Abandon()

	workerCtx := ctx
	if r.config.Workload.WorkerTimeout > 0 {
		var cancel context.CancelFunc
		workerCtx, cancel = context.WithTimeout(ctx, r.config.Workload.WorkerTimeout)
		defer cancel()
	}

	err := workload.Run(workerCtx, mode, engine, h, terms, observer)
	if err != nil && workerCtx.Err() == nil {
		return err
	}
	h.Finish()
	return nil
}

func (r *Runner) prep(ctx context.Context, engine backend.Backend) error {
	path := r.config.Prep.DocumentsFile.String()
	if path == "" {
		logging.Infof("No documents file configured, skipping prep of %s", engine.Name())
		return nil
	}
	documents, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if !json.Valid(documents) {
		return errors.Errorf("%s does not contain valid json", path)
	}
	logging.Infof("Loading documents from %s into %s", path, engine.Name())
	return engine.Prep(ctx, documents)
}

// Summary is the content of run-summary.json.
type Summary struct {
	RunId       string          `json:"runId"`
	Backend     string          `json:"backend"`
	Index       string          `json:"index"`
	Mode        string          `json:"mode"`
	Concurrency int             `json:"concurrency"`
	Report      *sampler.Report `json:"report"`
}

func (r *Runner) writeSummary(report *sampler.Report, path string) error {
	data, err := json.MarshalIndent(Summary{
		RunId:       r.id,
		Backend:     r.config.Backend.Kind,
		Index:       r.config.Backend.Index,
		Mode:        r.config.Workload.Mode,
		Concurrency: r.config.Workload.Concurrency,
		Report:      report,
	}, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WithMessage(err, "writing run summary")
	}
	return nil
}
