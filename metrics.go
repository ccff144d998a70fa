package qrdetect

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded in the status label.
const (
	statusOK            = "ok"
	statusEmpty         = "empty"
	statusInvalidInput  = "invalid_input"
	statusDecodeFailure = "decode_failure"
)

// Metrics holds the Prometheus collectors a Detector reports to. A nil
// *Metrics records nothing.
type Metrics struct {
	requests   *prometheus.CounterVec
	duration   prometheus.Histogram
	symbols    prometheus.Histogram
	rejections *prometheus.CounterVec
}

// NewMetrics creates the detector collectors under namespace and registers
// them with reg. Collectors already registered by another Detector with the
// same namespace are shared.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detect_requests_total",
				Help:      "Total number of detect calls",
			},
			[]string{"status"}, // status: ok, empty, invalid_input, decode_failure
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "detect_duration_seconds",
				Help:      "Detect call duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		symbols: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "symbols_detected",
				Help:      "Number of symbols returned per successful detect call",
				Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
			},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "input_rejections_total",
				Help:      "Total number of rejected inputs by kind",
			},
			[]string{"kind"},
		),
	}

	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.symbols, err = register(reg, m.symbols); err != nil {
		return nil, err
	}
	if m.rejections, err = register(reg, m.rejections); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(start time.Time, symbols []Symbol, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())

	var inv *InvalidInputError
	switch {
	case errors.As(err, &inv):
		m.requests.WithLabelValues(statusInvalidInput).Inc()
		m.rejections.WithLabelValues(inv.Kind.String()).Inc()
	case err != nil:
		m.requests.WithLabelValues(statusDecodeFailure).Inc()
	case len(symbols) == 0:
		m.requests.WithLabelValues(statusEmpty).Inc()
		m.symbols.Observe(0)
	default:
		m.requests.WithLabelValues(statusOK).Inc()
		m.symbols.Observe(float64(len(symbols)))
	}
}
