package engine

import "github.com/MeKo-Tech/qrdetect/internal/version"

const (
	// ZXingModule is the module path of the default engine's decoder.
	ZXingModule = "github.com/makiuchi-d/gozxing"

	zxingPinned = "v0.1.1"
)

// Version reports the linked gozxing version.
func Version() string {
	return version.Dependency(ZXingModule, zxingPinned)
}
