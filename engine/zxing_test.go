package engine

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/qrdetect/internal/testutil"
)

const zbarURL = "https://github.com/mchehab/zbar"

// cornerTolerance allows for finder-centre estimation error, in pixels.
const cornerTolerance = 2

func toImage(img image.Image) Image {
	pix, w, h := testutil.RGBABytes(img)
	return Image{Pix: pix, Width: w, Height: h}
}

func TestZXingRoundTrip(t *testing.T) {
	fx := testutil.GenerateQR(t, zbarURL, 4)

	dets, err := NewZXing(DefaultOptions()).Scan(context.Background(), toImage(fx.Image))
	require.NoError(t, err)
	require.Len(t, dets, 1)

	d := dets[0]
	assert.Equal(t, TypeQRCode, d.TypeCode)
	assert.Equal(t, []byte(zbarURL), d.Data)
	assert.Equal(t, OrientUp, d.OrientationCode)
	require.NotNil(t, d.Quality)
	assert.InDelta(t, 1.0, *d.Quality, 1e-9)

	require.Len(t, d.Points, 4)
	for i, want := range fx.Corners {
		assert.InDelta(t, want.X, d.Points[i].X, cornerTolerance, "corner %d x", i)
		assert.InDelta(t, want.Y, d.Points[i].Y, cornerTolerance, "corner %d y", i)
	}
}

func TestZXingSingleMode(t *testing.T) {
	fx := testutil.GenerateQR(t, "single", 3)

	dets, err := NewZXing(Options{}).Scan(context.Background(), toImage(fx.Image))
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, []byte("single"), dets[0].Data)
}

func TestZXingOrientation(t *testing.T) {
	fx := testutil.GenerateQR(t, zbarURL, 4)
	z := NewZXing(DefaultOptions())

	tests := []struct {
		degrees int
		want    int
	}{
		{0, OrientUp},
		{90, OrientLeft},
		{180, OrientDown},
		{270, OrientRight},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("rotate_%d", tt.degrees), func(t *testing.T) {
			rotated := testutil.Rotate(fx.Image, tt.degrees)
			dets, err := z.Scan(context.Background(), toImage(rotated))
			require.NoError(t, err)
			require.Len(t, dets, 1, "rotation %d", tt.degrees)
			assert.Equal(t, tt.want, dets[0].OrientationCode, "rotation %d", tt.degrees)
			assert.Equal(t, []byte(zbarURL), dets[0].Data)
		})
	}
}

func TestZXingRotatedCornersKeepWinding(t *testing.T) {
	fx := testutil.GenerateQR(t, zbarURL, 4)
	side := fx.Image.Bounds().Dx()

	// Counter-clockwise by 90 degrees maps (x, y) to (y, side-x).
	dets, err := NewZXing(DefaultOptions()).Scan(context.Background(), toImage(testutil.Rotate(fx.Image, 90)))
	require.NoError(t, err)
	require.Len(t, dets, 1)
	require.Len(t, dets[0].Points, 4)

	for i, c := range fx.Corners {
		want := image.Pt(c.Y, side-c.X)
		assert.InDelta(t, want.X, dets[0].Points[i].X, cornerTolerance, "corner %d x", i)
		assert.InDelta(t, want.Y, dets[0].Points[i].Y, cornerTolerance, "corner %d y", i)
	}
}

func TestZXingMultipleSymbols(t *testing.T) {
	a := testutil.GenerateQR(t, "first symbol", 4)
	b := testutil.GenerateQR(t, "second symbol", 4)
	canvas := testutil.Compose(40, a.Image, b.Image)

	dets, err := NewZXing(DefaultOptions()).Scan(context.Background(), toImage(canvas))
	require.NoError(t, err)

	var got []string
	for _, d := range dets {
		got = append(got, string(d.Data))
	}
	assert.ElementsMatch(t, []string{"first symbol", "second symbol"}, got)
}

func TestZXingInverted(t *testing.T) {
	fx := testutil.GenerateQR(t, zbarURL, 4)
	inverted := toImage(testutil.Invert(fx.Image))

	dets, err := NewZXing(Options{Multi: true, AlsoInverted: true}).Scan(context.Background(), inverted)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, []byte(zbarURL), dets[0].Data)
}

func TestZXingNoSymbols(t *testing.T) {
	z := NewZXing(Options{Multi: true, TryHarder: true, AlsoInverted: true})

	tests := map[string]image.Image{
		"text":  testutil.GenerateTextImage(testutil.DefaultTextImageConfig()),
		"white": testutil.CreateSolidImage(64, 64, color.White),
		"black": testutil.CreateSolidImage(64, 64, color.Black),
		"tiny":  testutil.CreateSolidImage(minSymbolSide-1, 40, color.White),
	}
	for name, img := range tests {
		t.Run(name, func(t *testing.T) {
			dets, err := z.Scan(context.Background(), toImage(img))
			require.NoError(t, err)
			assert.Empty(t, dets)
		})
	}
}

func TestZXingEmptyImage(t *testing.T) {
	dets, err := NewZXing(DefaultOptions()).Scan(context.Background(), Image{Pix: []byte{}})
	require.NoError(t, err)
	assert.Empty(t, dets)
}

func TestZXingCancelledContext(t *testing.T) {
	fx := testutil.GenerateQR(t, zbarURL, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewZXing(DefaultOptions()).Scan(ctx, toImage(fx.Image))
	require.ErrorIs(t, err, context.Canceled)
}

func TestZXingDeterministic(t *testing.T) {
	img := toImage(testutil.GenerateQR(t, zbarURL, 4).Image)
	z := NewZXing(DefaultOptions())

	first, err := z.Scan(context.Background(), img)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := z.Scan(context.Background(), img)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestZXingDoesNotModifyInput(t *testing.T) {
	img := toImage(testutil.GenerateQR(t, zbarURL, 4).Image)
	orig := append([]byte(nil), img.Pix...)

	_, err := NewZXing(DefaultOptions()).Scan(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, orig, img.Pix)
}

func TestNewZXingHints(t *testing.T) {
	z := NewZXing(Options{TryHarder: true, CharacterSet: "ISO-8859-1"})
	assert.Len(t, z.hints, 2)
	assert.Equal(t, Options{TryHarder: true, CharacterSet: "ISO-8859-1"}, z.Options())

	assert.Empty(t, NewZXing(DefaultOptions()).hints)
}

func TestScanFunc(t *testing.T) {
	want := []Detection{{TypeCode: TypeQRCode, Data: []byte("x")}}
	var e Engine = ScanFunc(func(_ context.Context, img Image) ([]Detection, error) {
		assert.Equal(t, 2, img.Width)
		return want, nil
	})
	got, err := e.Scan(context.Background(), Image{Width: 2, Height: 1, Pix: make([]byte, 8)})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
