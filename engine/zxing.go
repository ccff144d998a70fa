package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/common"
	multidetector "github.com/makiuchi-d/gozxing/multi/qrcode/detector"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
	qrdetector "github.com/makiuchi-d/gozxing/qrcode/detector"

	"github.com/MeKo-Tech/qrdetect/internal/mempool"
)

// minSymbolSide is the side of a version 1 QR code in modules. Anything
// smaller cannot hold a symbol at one pixel per module.
const minSymbolSide = 21

// ZXing is the default Engine, backed by gozxing's QR detector and decoder.
// It holds no mutable state and is safe for concurrent use.
type ZXing struct {
	opts  Options
	hints map[gozxing.DecodeHintType]interface{}
}

// NewZXing returns a gozxing-backed engine.
func NewZXing(opts Options) *ZXing {
	hints := make(map[gozxing.DecodeHintType]interface{})
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if opts.CharacterSet != "" {
		hints[gozxing.DecodeHintType_CHARACTER_SET] = opts.CharacterSet
	}
	return &ZXing{opts: opts, hints: hints}
}

// Options returns the options the engine was built with.
func (z *ZXing) Options() Options { return z.opts }

// Scan implements Engine.
func (z *ZXing) Scan(ctx context.Context, img Image) ([]Detection, error) {
	if img.Width < minSymbolSide || img.Height < minSymbolSide {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grey := greyPlane(img)
	defer mempool.PutBytes(grey)

	src, err := gozxing.NewPlanarYUVLuminanceSource(grey, img.Width, img.Height, 0, 0, img.Width, img.Height, false)
	if err != nil {
		return nil, fmt.Errorf("luminance source: %w", err)
	}

	dets, err := z.scanSource(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(dets) == 0 && z.opts.AlsoInverted {
		return z.scanSource(ctx, gozxing.NewInvertedLuminanceSource(src))
	}
	return dets, nil
}

func (z *ZXing) scanSource(ctx context.Context, src gozxing.LuminanceSource) ([]Detection, error) {
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(src))
	if err != nil {
		return nil, fmt.Errorf("binary bitmap: %w", err)
	}
	matrix, err := bitmap.GetBlackMatrix()
	if err != nil {
		if isReaderException(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("binarize: %w", err)
	}

	if z.opts.Multi {
		found, err := multidetector.NewMultiDetector(matrix).DetectMulti(z.hints)
		if err != nil && !isReaderException(err) {
			return nil, fmt.Errorf("detect: %w", err)
		}
		dets, err := z.decodeAll(ctx, found)
		if err != nil || len(dets) > 0 {
			return dets, err
		}
		// The multi finder discards some lone symbols the single finder accepts.
	}

	found, err := qrdetector.NewDetector(matrix).Detect(z.hints)
	if err != nil {
		if isReaderException(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("detect: %w", err)
	}
	return z.decodeAll(ctx, []*common.DetectorResult{found})
}

// decodeAll decodes detector results in order. Symbols that fail error
// correction are skipped; other failures abort the scan.
func (z *ZXing) decodeAll(ctx context.Context, found []*common.DetectorResult) ([]Detection, error) {
	if len(found) == 0 {
		return nil, nil
	}
	dec := decoder.NewDecoder()
	out := make([]Detection, 0, len(found))
	for _, dr := range found {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := dec.Decode(dr.GetBits(), z.hints)
		if err != nil {
			if isReaderException(err) {
				continue
			}
			return nil, fmt.Errorf("decode: %w", err)
		}

		points := append([]gozxing.ResultPoint(nil), dr.GetPoints()...)
		if md, ok := res.GetOther().(*decoder.QRCodeDecoderMetaData); ok {
			md.ApplyMirroredCorrection(points)
		}
		f, ok := finderFromPoints(points)
		if !ok {
			continue
		}

		quality := 1.0
		out = append(out, Detection{
			TypeCode:        TypeQRCode,
			Data:            []byte(res.GetText()),
			OrientationCode: orientation(f.topLeft, f.topRight),
			Points:          f.corners(dr.GetBits().GetWidth()),
			Quality:         &quality,
		})
	}
	return out, nil
}

func isReaderException(err error) bool {
	var re gozxing.ReaderException
	return errors.As(err, &re)
}
