package qrdetect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MeKo-Tech/qrdetect/engine"
	"github.com/MeKo-Tech/qrdetect/internal/config"
)

// Detector validates pixel buffers, runs them through an Engine and maps
// the result to Symbols. It is immutable and safe for concurrent use.
// The zero value scans with the default gozxing engine and no metrics.
type Detector struct {
	engine  engine.Engine
	logger  *slog.Logger
	metrics *Metrics
}

// Builder constructs a Detector with fluent configuration.
type Builder struct {
	eng       engine.Engine
	opts      engine.Options
	logger    *slog.Logger
	reg       prometheus.Registerer
	namespace string
}

// NewBuilder creates a builder for a Detector on the default engine.
func NewBuilder() *Builder {
	return &Builder{
		opts:      engine.DefaultOptions(),
		namespace: config.DefaultNamespace,
	}
}

// WithEngine replaces the default gozxing engine. Engine options are
// ignored when a custom engine is set.
func (b *Builder) WithEngine(e engine.Engine) *Builder {
	b.eng = e
	return b
}

// WithEngineOptions sets the options for the default engine.
func (b *Builder) WithEngineOptions(opts engine.Options) *Builder {
	b.opts = opts
	return b
}

// WithLogger sets the logger. A nil logger means slog.Default().
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithMetrics enables Prometheus metrics on reg.
func (b *Builder) WithMetrics(reg prometheus.Registerer) *Builder {
	b.reg = reg
	return b
}

// WithMetricsNamespace overrides the metric name prefix.
func (b *Builder) WithMetricsNamespace(ns string) *Builder {
	if ns != "" {
		b.namespace = ns
	}
	return b
}

// Build validates the configuration and returns the Detector.
func (b *Builder) Build() (*Detector, error) {
	d := &Detector{engine: b.eng, logger: b.logger}

	if d.engine == nil {
		if err := config.ValidateCharacterSet(b.opts.CharacterSet); err != nil {
			return nil, fmt.Errorf("engine options: %w", err)
		}
		d.engine = engine.NewZXing(b.opts)
	}

	if b.reg != nil {
		m, err := NewMetrics(b.reg, b.namespace)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		d.metrics = m
	}
	return d, nil
}

// New returns a Detector on the default engine with opts.
func New(opts engine.Options) (*Detector, error) {
	return NewBuilder().WithEngineOptions(opts).Build()
}

// Detect scans an RGBA buffer of width*height*4 bytes and returns the
// symbols found, in engine order. No symbols is an empty, non-nil slice.
//
// Invalid input fails with *InvalidInputError before the engine runs. An
// engine failure is returned as *DecodeError. No partial result is ever
// returned alongside an error.
func (d *Detector) Detect(ctx context.Context, data []byte, width, height int) ([]Symbol, error) {
	start := time.Now()
	img, err := Validate(data, width, height)
	if err != nil {
		return d.finish(start, width, height, nil, err)
	}
	return d.scan(ctx, start, img)
}

// DetectImage is Detect for an already decoded image.
func (d *Detector) DetectImage(ctx context.Context, img image.Image) ([]Symbol, error) {
	start := time.Now()
	vimg, err := validateImage(img)
	if err != nil {
		var w, h int
		if !isNilImage(img) {
			w, h = img.Bounds().Dx(), img.Bounds().Dy()
		}
		return d.finish(start, w, h, nil, err)
	}
	return d.scan(ctx, start, vimg)
}

func (d *Detector) scan(ctx context.Context, start time.Time, img engine.Image) ([]Symbol, error) {
	if img.Empty() {
		return d.finish(start, img.Width, img.Height, []Symbol{}, nil)
	}
	eng := d.engine
	if eng == nil {
		eng = defaultDetector().engine
	}
	raw, err := eng.Scan(ctx, img)
	if err != nil {
		return d.finish(start, img.Width, img.Height, nil, &DecodeError{Err: err})
	}
	return d.finish(start, img.Width, img.Height, mapDetections(raw), nil)
}

func (d *Detector) finish(start time.Time, width, height int, symbols []Symbol, err error) ([]Symbol, error) {
	d.metrics.observe(start, symbols, err)
	log := d.log()

	var inv *InvalidInputError
	switch {
	case errors.As(err, &inv):
		log.Warn("Rejected detect input", "kind", inv.Kind.String(), "field", inv.Field, "error", err)
		return nil, err
	case err != nil:
		log.Warn("Symbol detection failed", "width", width, "height", height, "error", err)
		return nil, err
	}
	log.Debug("Symbol detection completed",
		"width", width,
		"height", height,
		"symbols", len(symbols),
		"duration", time.Since(start))
	return symbols, nil
}

func (d *Detector) log() *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return slog.Default()
}

