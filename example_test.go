package qrdetect_test

import (
	"context"
	"fmt"
	"image"

	"github.com/MeKo-Tech/qrdetect"
	"github.com/MeKo-Tech/qrdetect/engine"
)

func ExampleDetect() {
	// A blank 64x64 image: valid input, no symbols.
	pix := make([]byte, 64*64*4)
	symbols, err := qrdetect.Detect(pix, 64, 64)
	fmt.Println(len(symbols), err)
	// Output: 0 <nil>
}

func ExampleDetect_invalidInput() {
	_, err := qrdetect.Detect(make([]byte, 10), 2, 2)
	fmt.Println(err)
	// Output: invalid input data: buffer length does not match width*height*4: got 10 bytes, want 16
}

func ExampleNewBuilder() {
	stub := engine.ScanFunc(func(context.Context, engine.Image) ([]engine.Detection, error) {
		return []engine.Detection{{
			TypeCode:        engine.TypeQRCode,
			Data:            []byte("hello"),
			OrientationCode: engine.OrientRight,
			Points:          []engine.Point{{X: 0, Y: 0}, {X: 0, Y: 9}, {X: 9, Y: 9}, {X: 9, Y: 0}},
		}}, nil
	})

	d, err := qrdetect.NewBuilder().WithEngine(stub).Build()
	if err != nil {
		panic(err)
	}
	symbols, err := d.DetectImage(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if err != nil {
		panic(err)
	}
	for _, s := range symbols {
		fmt.Println(s.Type, s.Orientation, string(s.Data), s.Locations, s.Quality == nil)
	}
	// Output: QR-Code right hello [{0 0} {0 9} {9 9} {9 0}] true
}
