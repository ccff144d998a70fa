package qrdetect

import (
	"fmt"

	"github.com/MeKo-Tech/qrdetect/engine"
)

// Orientation is the rotation needed to read a symbol. Values match zbar's
// zbar_orientation_t and must not change.
type Orientation int

const (
	OrientationUnknown Orientation = engine.OrientUnknown // unable to determine orientation
	OrientationUp      Orientation = engine.OrientUp      // upright, read left to right
	OrientationRight   Orientation = engine.OrientRight   // sideways, read top to bottom
	OrientationDown    Orientation = engine.OrientDown    // upside-down, read right to left
	OrientationLeft    Orientation = engine.OrientLeft    // sideways, read bottom to top
)

// orientationFromCode maps a raw engine code; anything outside the defined
// range becomes OrientationUnknown.
func orientationFromCode(code int) Orientation {
	if code < int(OrientationUp) || code > int(OrientationLeft) {
		return OrientationUnknown
	}
	return Orientation(code)
}

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case OrientationUp:
		return "up"
	case OrientationRight:
		return "right"
	case OrientationDown:
		return "down"
	case OrientationLeft:
		return "left"
	default:
		return "unknown"
	}
}

// SymbolType identifies a symbol family. Values match zbar's
// zbar_symbol_type_t. The set is open: codes without a name below are
// carried through unchanged.
type SymbolType int

const (
	SymbolNone       SymbolType = 0 // no symbol decoded
	SymbolPartial    SymbolType = 1 // intermediate status
	SymbolEAN2       SymbolType = 2 // GS1 2-digit add-on
	SymbolEAN5       SymbolType = 5 // GS1 5-digit add-on
	SymbolEAN8       SymbolType = 8
	SymbolUPCE       SymbolType = 9
	SymbolISBN10     SymbolType = 10 // ISBN-10, from EAN-13
	SymbolUPCA       SymbolType = 12
	SymbolEAN13      SymbolType = 13
	SymbolISBN13     SymbolType = 14 // ISBN-13, from EAN-13
	SymbolComposite  SymbolType = 15 // EAN/UPC composite
	SymbolI25        SymbolType = 25 // Interleaved 2 of 5
	SymbolDataBar    SymbolType = 34 // GS1 DataBar (RSS)
	SymbolDataBarExp SymbolType = 35 // GS1 DataBar Expanded
	SymbolCodabar    SymbolType = 38
	SymbolCode39     SymbolType = 39
	SymbolPDF417     SymbolType = 57
	SymbolQRCode     SymbolType = 64
	SymbolSQCode     SymbolType = 80
	SymbolCode93     SymbolType = 93
	SymbolCode128    SymbolType = 128
)

var symbolTypeNames = map[SymbolType]string{
	SymbolNone:       "NONE",
	SymbolPartial:    "PARTIAL",
	SymbolEAN2:       "EAN-2",
	SymbolEAN5:       "EAN-5",
	SymbolEAN8:       "EAN-8",
	SymbolUPCE:       "UPC-E",
	SymbolISBN10:     "ISBN-10",
	SymbolUPCA:       "UPC-A",
	SymbolEAN13:      "EAN-13",
	SymbolISBN13:     "ISBN-13",
	SymbolComposite:  "COMPOSITE",
	SymbolI25:        "I2/5",
	SymbolDataBar:    "DataBar",
	SymbolDataBarExp: "DataBar-Exp",
	SymbolCodabar:    "Codabar",
	SymbolCode39:     "CODE-39",
	SymbolPDF417:     "PDF417",
	SymbolQRCode:     "QR-Code",
	SymbolSQCode:     "SQ-Code",
	SymbolCode93:     "CODE-93",
	SymbolCode128:    "CODE-128",
}

// Known reports whether t is one of the named symbol types.
func (t SymbolType) Known() bool {
	_, ok := symbolTypeNames[t]
	return ok
}

// String returns the zbar name of the type, or SymbolType(N) for
// unnamed codes.
func (t SymbolType) String() string {
	if name, ok := symbolTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SymbolType(%d)", int(t))
}

// SymbolLocation is one corner of a symbol's bounding polygon.
type SymbolLocation struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Symbol is a decoded symbol found in an image.
type Symbol struct {
	Type        SymbolType       `json:"type"`
	Data        []byte           `json:"data"`
	Orientation Orientation      `json:"orientation"`
	Locations   []SymbolLocation `json:"locations"`
	// Quality is nil when the engine does not report one.
	Quality *float64 `json:"quality,omitempty"`
}
