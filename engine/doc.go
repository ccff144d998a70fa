// Package engine defines the boundary between qrdetect and the component that
// turns pixels into symbol detections.
//
// An Engine receives a validated RGBA Image and returns raw Detections with
// zbar-compatible type and orientation codes. The package ships one
// implementation, ZXing, built on github.com/makiuchi-d/gozxing. Tests and
// callers with their own decoder can supply any Engine, for example a
// ScanFunc.
package engine
