package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/require"
)

// QuietZone is the border go-qrcode draws around every symbol, in modules.
const QuietZone = 4

// QRFixture is a generated QR code with its known geometry.
type QRFixture struct {
	Content    string
	Version    int
	Dimension  int // modules per side, without quiet zone
	ModuleSize int // pixels per module
	Image      *image.NRGBA
	// Corners of the symbol in image coordinates, top-left, bottom-left,
	// bottom-right, top-right.
	Corners [4]image.Point
}

// GenerateQR renders content as an upright QR code with moduleSize pixels
// per module and a standard quiet zone.
func GenerateQR(t *testing.T, content string, moduleSize int) QRFixture {
	t.Helper()

	fx, err := NewQR(content, moduleSize)
	require.NoError(t, err, "Failed to generate QR fixture for %q", content)
	return fx
}

// NewQR is GenerateQR for callers without a *testing.T.
func NewQR(content string, moduleSize int) (QRFixture, error) {
	if moduleSize < 1 {
		return QRFixture{}, fmt.Errorf("module size must be positive, got %d", moduleSize)
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return QRFixture{}, fmt.Errorf("failed to encode QR content %q: %w", content, err)
	}

	img := Rotate(q.Image(-moduleSize), 0)
	dim := 17 + 4*q.VersionNumber
	lo := QuietZone * moduleSize
	hi := lo + dim*moduleSize
	if got := img.Rect.Dx(); got != 2*lo+dim*moduleSize {
		return QRFixture{}, fmt.Errorf("unexpected go-qrcode image size %d for version %d", got, q.VersionNumber)
	}

	return QRFixture{
		Content:    content,
		Version:    q.VersionNumber,
		Dimension:  dim,
		ModuleSize: moduleSize,
		Image:      img,
		Corners: [4]image.Point{
			{X: lo, Y: lo},
			{X: lo, Y: hi},
			{X: hi, Y: hi},
			{X: hi, Y: lo},
		},
	}, nil
}

// Compose places each image side by side, left to right with gap pixels
// between them, on a white canvas.
func Compose(gap int, imgs ...image.Image) *image.RGBA {
	w, h := gap, 0
	for _, img := range imgs {
		w += img.Bounds().Dx() + gap
		h = max(h, img.Bounds().Dy())
	}
	canvas := CreateSolidImage(w, h+2*gap, color.White)

	x := gap
	for _, img := range imgs {
		b := img.Bounds()
		draw.Draw(canvas, image.Rect(x, gap, x+b.Dx(), gap+b.Dy()), img, b.Min, draw.Src)
		x += b.Dx() + gap
	}
	return canvas
}
