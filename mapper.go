package qrdetect

import (
	"github.com/MeKo-Tech/qrdetect/engine"
)

// mapDetections converts raw engine output into Symbols, keeping the
// engine's order. Partial detections are engine bookkeeping and are
// dropped; every other type code, named or not, is kept.
func mapDetections(raw []engine.Detection) []Symbol {
	out := make([]Symbol, 0, len(raw))
	for _, d := range raw {
		if d.TypeCode == engine.TypePartial {
			continue
		}
		out = append(out, mapDetection(d))
	}
	return out
}

// mapDetection copies everything out of d so the Symbol shares no memory
// with the engine.
func mapDetection(d engine.Detection) Symbol {
	s := Symbol{
		Type:        SymbolType(d.TypeCode),
		Data:        append([]byte{}, d.Data...),
		Orientation: orientationFromCode(d.OrientationCode),
		Locations:   make([]SymbolLocation, len(d.Points)),
	}
	for i, p := range d.Points {
		s.Locations[i] = SymbolLocation{X: p.X, Y: p.Y}
	}
	if d.Quality != nil {
		q := *d.Quality
		s.Quality = &q
	}
	return s
}
