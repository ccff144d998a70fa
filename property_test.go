package qrdetect

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/MeKo-Tech/qrdetect/engine"
)

// genDetection generates a raw detection with arbitrary codes, including
// ones outside the named ranges.
func genDetection() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(-5, 300),
		gen.IntRange(-10, 10),
		gen.AlphaString(),
		gen.Bool(),
	).Map(func(vals []interface{}) engine.Detection {
		typeCode, ok := vals[0].(int)
		if !ok {
			panic("expected int")
		}
		orient, ok := vals[1].(int)
		if !ok {
			panic("expected int")
		}
		data, ok := vals[2].(string)
		if !ok {
			panic("expected string")
		}
		withQuality, ok := vals[3].(bool)
		if !ok {
			panic("expected bool")
		}
		d := engine.Detection{
			TypeCode:        typeCode,
			Data:            []byte(data),
			OrientationCode: orient,
			Points:          []engine.Point{{X: 0, Y: 0}, {X: 0, Y: len(data)}, {X: len(data), Y: len(data)}, {X: len(data), Y: 0}},
		}
		if withQuality {
			q := float64(len(data))
			d.Quality = &q
		}
		return d
	})
}

func TestValidateLengthRule(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("buffer is accepted iff len == w*h*4", prop.ForAll(
		func(w, h, delta int) bool {
			n := w*h*4 + delta
			if n < 0 {
				n = 0
			}
			_, err := Validate(make([]byte, n), w, h)
			if n == w*h*4 {
				return err == nil
			}
			return errors.Is(err, ErrBufferSizeMismatch)
		},
		gen.IntRange(0, 64),
		gen.IntRange(0, 64),
		gen.IntRange(-8, 8),
	))

	properties.Property("negative dimensions are MissingOrWrongType", prop.ForAll(
		func(w, h int) bool {
			_, err := Validate([]byte{}, w, h)
			if w >= 0 && h >= 0 {
				return err == nil || errors.Is(err, ErrBufferSizeMismatch)
			}
			return errors.Is(err, ErrMissingOrWrongType)
		},
		gen.IntRange(-100, 100),
		gen.IntRange(-100, 100),
	))

	properties.TestingRun(t)
}

func TestMapperProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("order is preserved and only partials are dropped", prop.ForAll(
		func(raw []engine.Detection) bool {
			got := mapDetections(raw)
			i := 0
			for _, d := range raw {
				if d.TypeCode == engine.TypePartial {
					continue
				}
				if i >= len(got) || string(got[i].Data) != string(d.Data) || int(got[i].Type) != d.TypeCode {
					return false
				}
				i++
			}
			return i == len(got)
		},
		gen.SliceOfN(12, genDetection()),
	))

	properties.Property("orientation is always one of the five values", prop.ForAll(
		func(raw []engine.Detection) bool {
			for _, s := range mapDetections(raw) {
				if s.Orientation < OrientationUnknown || s.Orientation > OrientationLeft {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(12, genDetection()),
	))

	properties.Property("quality presence is carried through", prop.ForAll(
		func(d engine.Detection) bool {
			if d.TypeCode == engine.TypePartial {
				return true
			}
			s := mapDetections([]engine.Detection{d})[0]
			if d.Quality == nil {
				return s.Quality == nil
			}
			return s.Quality != nil && *s.Quality == *d.Quality
		},
		genDetection(),
	))

	properties.TestingRun(t)
}

func TestDetectDeterminism(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeated calls give identical output", prop.ForAll(
		func(raw []engine.Detection, w, h int) bool {
			d := &Detector{engine: engine.ScanFunc(func(context.Context, engine.Image) ([]engine.Detection, error) {
				return raw, nil
			})}
			data := make([]byte, w*h*4)
			first, err1 := d.Detect(context.Background(), data, w, h)
			second, err2 := d.Detect(context.Background(), data, w, h)
			if err1 != nil || err2 != nil || len(first) != len(second) {
				return false
			}
			for i := range first {
				a, b := first[i], second[i]
				if a.Type != b.Type || string(a.Data) != string(b.Data) || a.Orientation != b.Orientation || len(a.Locations) != len(b.Locations) {
					return false
				}
				for j := range a.Locations {
					if a.Locations[j] != b.Locations[j] {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(6, genDetection()),
		gen.IntRange(1, 16),
		gen.IntRange(1, 16),
	))

	properties.TestingRun(t)
}
