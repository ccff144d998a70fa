package qrdetect

import (
	"sync"

	"github.com/MeKo-Tech/qrdetect/engine"
	"github.com/MeKo-Tech/qrdetect/internal/version"
)

// VersionInfo identifies the linked decoder engine and this library.
type VersionInfo struct {
	Engine       string `json:"engine"`
	EngineModule string `json:"engine_module"`
	Library      string `json:"library"`
}

var versions = sync.OnceValue(func() VersionInfo {
	lib, _, _ := version.Info()
	return VersionInfo{
		Engine:       engine.Version(),
		EngineModule: engine.ZXingModule,
		Library:      lib,
	}
})

// Versions reports the engine and library versions. The value is computed
// once and never changes.
func Versions() VersionInfo {
	return versions()
}
