package engine

import (
	"math"

	"github.com/makiuchi-d/gozxing"
	qrdetector "github.com/makiuchi-d/gozxing/qrcode/detector"
)

// finder holds the detector's pattern centres with the symbol's true
// top-right, i.e. after mirrored correction.
type finder struct {
	bottomLeft gozxing.ResultPoint
	topLeft    gozxing.ResultPoint
	topRight   gozxing.ResultPoint
	alignment  *qrdetector.AlignmentPattern
}

// finderFromPoints unpacks detector points ordered [bottomLeft, topLeft,
// topRight, alignment?].
func finderFromPoints(points []gozxing.ResultPoint) (finder, bool) {
	if len(points) < 3 {
		return finder{}, false
	}
	f := finder{bottomLeft: points[0], topLeft: points[1], topRight: points[2]}
	if len(points) > 3 {
		f.alignment, _ = points[3].(*qrdetector.AlignmentPattern)
	}
	return f, true
}

// corners projects the outer corners of a dimension×dimension module grid
// into image space through the detector's sampling transform. Order:
// top-left, bottom-left, bottom-right, top-right. With mirrored-corrected
// points the transform is transposed, so the labels stay correct.
func (f finder) corners(dimension int) []Point {
	t := qrdetector.Detector_createTransform(f.topLeft, f.topRight, f.bottomLeft, f.alignment, dimension)
	d := float64(dimension)
	xy := []float64{0, 0, 0, d, d, d, d, 0}
	t.TransformPoints(xy)

	pts := make([]Point, 4)
	for i := range pts {
		pts[i] = Point{X: round(xy[2*i]), Y: round(xy[2*i+1])}
	}
	return pts
}

// orientation classifies the direction of the symbol's top edge.
func orientation(topLeft, topRight gozxing.ResultPoint) int {
	dx := topRight.GetX() - topLeft.GetX()
	dy := topRight.GetY() - topLeft.GetY()
	switch {
	case dx == 0 && dy == 0:
		return OrientUnknown
	case math.Abs(dx) >= math.Abs(dy):
		if dx > 0 {
			return OrientUp
		}
		return OrientDown
	case dy > 0:
		return OrientRight
	default:
		return OrientLeft
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
