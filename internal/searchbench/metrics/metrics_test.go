package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewRequestMetrics(reg, "lnx")
	require.NoError(t, err)

	m.Observe(http.StatusOK, 10*time.Millisecond)
	m.Observe(http.StatusOK, 20*time.Millisecond)
	m.Observe(http.StatusInternalServerError, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("lnx", outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("lnx", outcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.statuses.WithLabelValues("lnx", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statuses.WithLabelValues("lnx", "500")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.latencies))
}

func TestNewRequestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRequestMetrics(reg, "lnx")
	require.NoError(t, err)

	_, err = NewRequestMetrics(reg, "lnx")
	assert.Error(t, err)
}
