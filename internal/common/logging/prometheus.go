package logging

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var (
	logMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "searchbench",
		Name:      "log_messages",
		Help:      "Total number of log lines logged by level",
	}, []string{"level"})
	registerLogMessages sync.Once
)

// PrometheusHook implements zerolog.Hook
type PrometheusHook struct {
	counters map[zerolog.Level]prometheus.Counter
}

// NewPrometheusHook creates and registers Prometheus counters for each log level.
func NewPrometheusHook() *PrometheusHook {
	registerLogMessages.Do(func() {
		prometheus.MustRegister(logMessages)
	})

	counters := make(map[zerolog.Level]prometheus.Counter)
	for _, level := range []zerolog.Level{
		zerolog.DebugLevel,
		zerolog.InfoLevel,
		zerolog.WarnLevel,
		zerolog.ErrorLevel,
	} {
		counters[level] = logMessages.WithLabelValues(level.String())
	}
	return &PrometheusHook{counters: counters}
}

func (h *PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if counter, ok := h.counters[level]; ok {
		counter.Inc()
	}
}
