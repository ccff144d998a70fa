package qrdetect

import (
	"context"
	"image"
	"sync"

	"github.com/MeKo-Tech/qrdetect/engine"
)

// defaultDetector is built once on first use. The default engine holds no
// mutable state, so sharing it between callers is safe.
var defaultDetector = sync.OnceValue(func() *Detector {
	return &Detector{engine: engine.NewZXing(engine.DefaultOptions())}
})

// Detect scans an RGBA buffer with the default detector. See
// (*Detector).Detect.
func Detect(data []byte, width, height int) ([]Symbol, error) {
	return defaultDetector().Detect(context.Background(), data, width, height)
}

// DetectImage scans a decoded image with the default detector.
func DetectImage(img image.Image) ([]Symbol, error) {
	return defaultDetector().DetectImage(context.Background(), img)
}
