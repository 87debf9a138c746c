package feature

import (
	"math"

	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
)

// Projection maps MC2 coordinates onto the client screen. The factors keep the image
// proportions, the longer side of the box decides the scale.
type Projection struct {
	bbox    geo.BoundingBox
	xFactor float64
	yFactor float64
}

func NewProjection(bbox geo.BoundingBox, screenX, screenY uint32) Projection {
	p := Projection{bbox: bbox}
	if screenX < 2 || screenY < 2 || bbox.Width() == 0 || bbox.Height() == 0 {
		return p
	}
	w := float64(screenX - 1)
	h := float64(screenY - 1)
	lonDiff := float64(bbox.Width())
	height := float64(bbox.Height())
	width := lonDiff * bbox.CosLat()

	p.xFactor = w / lonDiff
	p.yFactor = h / height

	factor := height / width * w / h
	if factor < 1 {
		// wider than high
		p.yFactor *= factor
	} else {
		p.xFactor /= factor
	}
	return p
}

// Point returns the pixel of c. Pixels left of or above the screen are negative.
func (p Projection) Point(c geo.Coordinate) (int, int) {
	x := float64(int32(c.Lon-p.bbox.MinLon)) * p.xFactor
	y := float64(int64(p.bbox.MaxLat)-int64(c.Lat)) * p.yFactor
	return int(math.Round(x)), int(math.Round(y))
}
