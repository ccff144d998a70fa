package qrdetect

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every *InvalidInputError.
	ErrInvalidInput = errors.New("qrdetect: invalid input")

	// ErrMissingOrWrongType matches input that is absent or of the wrong kind.
	ErrMissingOrWrongType = errors.New("qrdetect: missing or wrong type")

	// ErrBufferSizeMismatch matches a pixel buffer whose length disagrees with its dimensions.
	ErrBufferSizeMismatch = errors.New("qrdetect: buffer size mismatch")

	// ErrDecodeFailure matches every *DecodeError.
	ErrDecodeFailure = errors.New("qrdetect: decode failure")
)

// Message classes for rejected input.
const (
	msgExpectedImageData = "expected image data (byte buffer or typed array)"
	msgExpectedNumber    = "a number was expected"
)

// InvalidInputKind classifies why input was rejected.
type InvalidInputKind int

const (
	// MissingOrWrongType: data absent or not a byte buffer, or a dimension
	// that is not a usable number.
	MissingOrWrongType InvalidInputKind = iota + 1
	// BufferSizeMismatch: len(data) != width*height*4.
	BufferSizeMismatch
)

func (k InvalidInputKind) String() string {
	switch k {
	case MissingOrWrongType:
		return "missing_or_wrong_type"
	case BufferSizeMismatch:
		return "buffer_size_mismatch"
	default:
		return fmt.Sprintf("InvalidInputKind(%d)", int(k))
	}
}

// InvalidInputError is returned when input fails validation. The engine is
// never called for rejected input.
type InvalidInputError struct {
	Kind    InvalidInputKind
	Field   string // "data", "width" or "height"
	Message string
	Got     int // offending value: length for data, the dimension otherwise
	Want    int // expected buffer length, BufferSizeMismatch only
}

func (e *InvalidInputError) Error() string {
	switch {
	case e.Kind == BufferSizeMismatch && e.Want < 0:
		return fmt.Sprintf("invalid input %s: %s: got %d bytes", e.Field, e.Message, e.Got)
	case e.Kind == BufferSizeMismatch:
		return fmt.Sprintf("invalid input %s: %s: got %d bytes, want %d", e.Field, e.Message, e.Got, e.Want)
	default:
		return fmt.Sprintf("invalid input %s: %s", e.Field, e.Message)
	}
}

// Is matches ErrInvalidInput and the sentinel for the error's kind.
func (e *InvalidInputError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return true
	case ErrMissingOrWrongType:
		return e.Kind == MissingOrWrongType
	case ErrBufferSizeMismatch:
		return e.Kind == BufferSizeMismatch
	}
	return false
}

// DecodeError reports that the engine failed on validated input. Retrying
// with the same input fails the same way.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failure: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches ErrDecodeFailure.
func (e *DecodeError) Is(target error) bool { return target == ErrDecodeFailure }

func missingData() error {
	return &InvalidInputError{Kind: MissingOrWrongType, Field: "data", Message: msgExpectedImageData}
}

func notANumber(field string, got int) error {
	return &InvalidInputError{Kind: MissingOrWrongType, Field: field, Message: msgExpectedNumber, Got: got}
}
