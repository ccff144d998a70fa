package qrdetect

import (
	"image"
	"math"
	"reflect"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/qrdetect/engine"
)

// Validate checks that data is an RGBA buffer of exactly width*height*4
// bytes and returns it as an engine.Image. It never reads pixel contents.
//
// A nil buffer or a negative dimension fails with MissingOrWrongType; a
// length that disagrees with the dimensions fails with BufferSizeMismatch.
// A zero-sized image with an empty, non-nil buffer is valid.
func Validate(data []byte, width, height int) (engine.Image, error) {
	if data == nil {
		return engine.Image{}, missingData()
	}
	if width < 0 {
		return engine.Image{}, notANumber("width", width)
	}
	if height < 0 {
		return engine.Image{}, notANumber("height", height)
	}

	want, ok := bufferLen(width, height)
	if !ok {
		return engine.Image{}, &InvalidInputError{
			Kind:    BufferSizeMismatch,
			Field:   "data",
			Message: "dimensions exceed the addressable buffer size",
			Got:     len(data),
			Want:    -1,
		}
	}
	if len(data) != want {
		return engine.Image{}, &InvalidInputError{
			Kind:    BufferSizeMismatch,
			Field:   "data",
			Message: "buffer length does not match width*height*4",
			Got:     len(data),
			Want:    want,
		}
	}
	return engine.Image{Pix: data, Width: width, Height: height}, nil
}

// bufferLen returns width*height*4, or false on overflow.
func bufferLen(width, height int) (int, bool) {
	if width == 0 || height == 0 {
		return 0, true
	}
	if width > math.MaxInt/engine.BytesPerPixel/height {
		return 0, false
	}
	return width * height * engine.BytesPerPixel, true
}

// validateImage accepts an already decoded image. *image.RGBA and
// *image.NRGBA are used in place when their rows are contiguous; any other
// image is converted to NRGBA first.
func validateImage(img image.Image) (engine.Image, error) {
	if isNilImage(img) {
		return engine.Image{}, missingData()
	}
	switch m := img.(type) {
	case *image.RGBA:
		return validatePix(m.Pix, m.Stride, m.Rect)
	case *image.NRGBA:
		return validatePix(m.Pix, m.Stride, m.Rect)
	default:
		n := imaging.Clone(img)
		return validatePix(n.Pix, n.Stride, n.Rect)
	}
}

// isNilImage reports whether img is nil or holds a nil pointer of any
// image type.
func isNilImage(img image.Image) bool {
	if img == nil {
		return true
	}
	v := reflect.ValueOf(img)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func validatePix(pix []byte, stride int, rect image.Rectangle) (engine.Image, error) {
	if pix == nil {
		return engine.Image{}, missingData()
	}
	w, h := rect.Dx(), rect.Dy()
	row := w * engine.BytesPerPixel
	if stride == row || h <= 1 {
		n := row * h
		if n > len(pix) {
			return Validate(pix, w, h)
		}
		return Validate(pix[:n], w, h)
	}

	// Sub-image of a wider buffer: gather rows.
	if stride < row || (h-1)*stride+row > len(pix) {
		return Validate(pix, w, h)
	}
	packed := make([]byte, row*h)
	for y := 0; y < h; y++ {
		copy(packed[y*row:(y+1)*row], pix[y*stride:y*stride+row])
	}
	return Validate(packed, w, h)
}
