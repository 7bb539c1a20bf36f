// Package metrics exposes live Prometheus metrics for the queries issued during a run.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/armadaproject/searchbench/internal/common/logging"
	"github.com/armadaproject/searchbench/internal/searchbench/backend"
)

const searchbenchMetricsPrefix = "searchbench_"

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// RequestMetrics counts and times the searches made against a single backend.
type RequestMetrics struct {
	backend   string
	requests  *prometheus.CounterVec
	statuses  *prometheus.CounterVec
	latencies *prometheus.HistogramVec
}

// NewRequestMetrics creates the request metrics for the named backend and registers them with reg.
func NewRequestMetrics(reg prometheus.Registerer, backendName string) (*RequestMetrics, error) {
	m := &RequestMetrics{
		backend: backendName,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: searchbenchMetricsPrefix + "requests_total",
				Help: "Number of searches made, by outcome",
			},
			[]string{"backend", "outcome"},
		),
		statuses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: searchbenchMetricsPrefix + "responses_total",
				Help: "Number of search responses, by HTTP status code",
			},
			[]string{"backend", "code"},
		),
		latencies: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    searchbenchMetricsPrefix + "request_duration_seconds",
				Help:    "Latency of searches, by outcome",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"backend", "outcome"},
		),
	}
	for _, c := range []prometheus.Collector{m.requests, m.statuses, m.latencies} {
		if err := reg.Register(c); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return m, nil
}

// Observe records a single completed search.
func (m *RequestMetrics) Observe(status int, latency time.Duration) {
	outcome := outcomeError
	if backend.IsSuccess(status) {
		outcome = outcomeSuccess
	}
	m.requests.WithLabelValues(m.backend, outcome).Inc()
	m.statuses.WithLabelValues(m.backend, strconv.Itoa(status)).Inc()
	m.latencies.WithLabelValues(m.backend, outcome).Observe(latency.Seconds())
}

// Serve exposes the metrics gathered by gatherer on /metrics until ctx is cancelled.
func Serve(ctx context.Context, port uint16, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.WithError(err).Warn("metrics server did not shut down cleanly")
		}
	}()

	logging.Infof("serving metrics on %s/metrics", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}
	return nil
}
