package engine

import "context"

// Raw codes emitted by engines. They follow zbar's numbering so that the
// public enums can carry them through without translation tables.
const (
	TypePartial = 1
	TypeQRCode  = 64

	OrientUnknown = -1
	OrientUp      = 0
	OrientRight   = 1
	OrientDown    = 2
	OrientLeft    = 3
)

// BytesPerPixel is the stride of one RGBA pixel.
const BytesPerPixel = 4

// Image is a validated RGBA pixel buffer, row-major, 4 bytes per pixel.
// Pix is owned by the caller and must be treated as read-only.
type Image struct {
	Pix    []byte
	Width  int
	Height int
}

// Empty reports whether the image has no pixels.
func (im Image) Empty() bool { return im.Width == 0 || im.Height == 0 }

// Point is an integer point in image coordinates.
type Point struct {
	X int
	Y int
}

// Detection is one raw symbol reported by an engine.
type Detection struct {
	TypeCode        int
	Data            []byte
	OrientationCode int
	Points          []Point  // bounding polygon in the engine's winding order
	Quality         *float64 // nil if the engine has no quality metric
}

// Engine is a pluggable symbol decoder.
//
// Implementations must be deterministic for identical input and must not
// retain or modify img.Pix after Scan returns. An empty result with a nil
// error means no symbols were found.
type Engine interface {
	Scan(ctx context.Context, img Image) ([]Detection, error)
}

// ScanFunc adapts an ordinary function to the Engine interface.
type ScanFunc func(ctx context.Context, img Image) ([]Detection, error)

// Scan calls f(ctx, img).
func (f ScanFunc) Scan(ctx context.Context, img Image) ([]Detection, error) {
	return f(ctx, img)
}

// Options controls the default engine.
type Options struct {
	// Multi searches for every symbol in the image instead of stopping at the first.
	Multi bool

	// TryHarder enables a more exhaustive finder-pattern search.
	TryHarder bool

	// AlsoInverted retries on the inverted image when nothing was found.
	AlsoInverted bool

	// CharacterSet overrides the fallback character set for byte-mode segments.
	CharacterSet string
}

// DefaultOptions returns the options used by the package-level detector.
func DefaultOptions() Options {
	return Options{Multi: true}
}
