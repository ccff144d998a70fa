package engine

import (
	"github.com/MeKo-Tech/qrdetect/internal/mempool"
)

// greyPlane converts RGBA pixels to an 8-bit luminance plane using
// 0.21 R + 0.72 G + 0.07 B. Alpha is ignored.
//
// The returned slice comes from mempool and must be released with
// mempool.PutBytes once nothing references it.
func greyPlane(img Image) []byte {
	n := img.Width * img.Height
	grey := mempool.GetBytes(n)
	pix := img.Pix
	for i, o := 0, 0; i < n; i, o = i+1, o+BytesPerPixel {
		r := uint32(pix[o])
		g := uint32(pix[o+1])
		b := uint32(pix[o+2])
		grey[i] = uint8((21*r + 72*g + 7*b) / 100)
	}
	return grey
}
