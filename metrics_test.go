package qrdetect

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/qrdetect/engine"
)

func TestMetricsRecordOutcomes(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	stub := &stubEngine{dets: []engine.Detection{referenceDetection(), referenceDetection()}}
	d, err := NewBuilder().WithEngine(stub).WithMetrics(reg).Build()
	require.NoError(t, err)
	require.NotNil(t, d.metrics)

	ctx := context.Background()
	_, err = d.Detect(ctx, make([]byte, 4), 1, 1)
	require.NoError(t, err)
	_, err = d.Detect(ctx, nil, 1, 1)
	require.Error(t, err)
	_, err = d.Detect(ctx, make([]byte, 3), 1, 1)
	require.Error(t, err)
	_, err = d.Detect(ctx, []byte{}, 0, 0)
	require.NoError(t, err)

	stub.err = errors.New("boom")
	_, err = d.Detect(ctx, make([]byte, 4), 1, 1)
	require.Error(t, err)

	m := d.metrics
	assert.InDelta(t, 1, promtestutil.ToFloat64(m.requests.WithLabelValues(statusOK)), 0)
	assert.InDelta(t, 1, promtestutil.ToFloat64(m.requests.WithLabelValues(statusEmpty)), 0)
	assert.InDelta(t, 2, promtestutil.ToFloat64(m.requests.WithLabelValues(statusInvalidInput)), 0)
	assert.InDelta(t, 1, promtestutil.ToFloat64(m.requests.WithLabelValues(statusDecodeFailure)), 0)
	assert.InDelta(t, 1, promtestutil.ToFloat64(m.rejections.WithLabelValues("missing_or_wrong_type")), 0)
	assert.InDelta(t, 1, promtestutil.ToFloat64(m.rejections.WithLabelValues("buffer_size_mismatch")), 0)

	expected := `
# HELP qrdetect_detect_requests_total Total number of detect calls
# TYPE qrdetect_detect_requests_total counter
qrdetect_detect_requests_total{status="decode_failure"} 1
qrdetect_detect_requests_total{status="empty"} 1
qrdetect_detect_requests_total{status="invalid_input"} 2
qrdetect_detect_requests_total{status="ok"} 1
`
	require.NoError(t, promtestutil.GatherAndCompare(reg, strings.NewReader(expected), "qrdetect_detect_requests_total"))

	count, err := promtestutil.GatherAndCount(reg, "qrdetect_detect_duration_seconds", "qrdetect_symbols_detected")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetricsSharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	m1, err := NewMetrics(reg, "shared")
	require.NoError(t, err)
	m2, err := NewMetrics(reg, "shared")
	require.NoError(t, err)
	assert.Same(t, m1.requests, m2.requests)

	m1.requests.WithLabelValues(statusOK).Inc()
	m2.requests.WithLabelValues(statusOK).Inc()
	assert.InDelta(t, 2, promtestutil.ToFloat64(m1.requests.WithLabelValues(statusOK)), 0)

	other, err := NewMetrics(reg, "other")
	require.NoError(t, err)
	assert.NotSame(t, m1.requests, other.requests)
}

func TestMetricsCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, err := NewBuilder().
		WithEngine(&stubEngine{}).
		WithMetrics(reg).
		WithMetricsNamespace("scanner").
		Build()
	require.NoError(t, err)

	_, err = d.Detect(context.Background(), make([]byte, 4), 1, 1)
	require.NoError(t, err)

	count, err := promtestutil.GatherAndCount(reg, "scanner_detect_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.observe(time.Now(), nil, nil) })
}
