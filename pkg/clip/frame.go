package clip

import (
	"math"

	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
)

// frame unwraps longitudes around a bounding box so the clippers can work on plain
// int64 planes. x is the longitude offset from MinLon, points outside the box are
// placed on their nearest side.
type frame struct {
	bbox  geo.BoundingBox
	width int64
}

type point struct {
	x, y int64
}

func newFrame(bbox geo.BoundingBox) frame {
	return frame{bbox: bbox, width: int64(bbox.Width())}
}

func (f frame) toLocal(c geo.Coordinate) point {
	y := int64(c.Lat)
	if f.bbox.Contains(f.bbox.MinLat, c.Lon) {
		return point{x: int64(uint32(c.Lon - f.bbox.MinLon)), y: y}
	}
	left := int64(uint32(f.bbox.MinLon - c.Lon))
	right := int64(uint32(c.Lon - f.bbox.MaxLon))
	if left < right {
		return point{x: -left, y: y}
	}
	return point{x: f.width + right, y: y}
}

func (f frame) toCoordinate(p point) geo.Coordinate {
	return geo.NewCoordinate(int32(p.y), f.bbox.MinLon+int32(p.x))
}

func (f frame) toLocalAll(coords []geo.Coordinate) []point {
	res := make([]point, len(coords))
	for i, c := range coords {
		res[i] = f.toLocal(c)
	}
	return res
}

func (f frame) toCoordinates(points []point) []geo.Coordinate {
	res := make([]geo.Coordinate, len(points))
	for i, p := range points {
		res[i] = f.toCoordinate(p)
	}
	return res
}

func (f frame) minX() int64 { return 0 }
func (f frame) maxX() int64 { return f.width }
func (f frame) minY() int64 { return int64(f.bbox.MinLat) }
func (f frame) maxY() int64 { return int64(f.bbox.MaxLat) }

func (f frame) inside(p point) bool {
	return p.x >= f.minX() && p.x <= f.maxX() && p.y >= f.minY() && p.y <= f.maxY()
}

func (f frame) outcode(p point) uint8 {
	var code uint8
	if p.x < f.minX() {
		code |= geo.OUTCODE_LEFT
	} else if p.x > f.maxX() {
		code |= geo.OUTCODE_RIGHT
	}
	if p.y < f.minY() {
		code |= geo.OUTCODE_BOTTOM
	} else if p.y > f.maxY() {
		code |= geo.OUTCODE_TOP
	}
	return code
}

// boundaryIntersection is where a-b crosses the given box side. The caller guarantees a and b
// lie on different sides of it.
func (f frame) boundaryIntersection(a, b point, boundary uint8) point {
	switch boundary {
	case geo.OUTCODE_LEFT, geo.OUTCODE_RIGHT:
		x := f.minX()
		if boundary == geo.OUTCODE_RIGHT {
			x = f.maxX()
		}
		t := float64(x-a.x) / float64(b.x-a.x)
		return point{x: x, y: a.y + int64(math.Round(t*float64(b.y-a.y)))}
	default:
		y := f.minY()
		if boundary == geo.OUTCODE_TOP {
			y = f.maxY()
		}
		t := float64(y-a.y) / float64(b.y-a.y)
		return point{x: a.x + int64(math.Round(t*float64(b.x-a.x))), y: y}
	}
}

// clipSegment is Liang-Barsky. Returns the parameters of the visible part of a-b.
func (f frame) clipSegment(a, b point) (float64, float64, bool) {
	dx := float64(b.x - a.x)
	dy := float64(b.y - a.y)
	t0, t1 := 0.0, 1.0

	ps := [4]float64{-dx, dx, -dy, dy}
	qs := [4]float64{
		float64(a.x - f.minX()),
		float64(f.maxX() - a.x),
		float64(a.y - f.minY()),
		float64(f.maxY() - a.y),
	}
	for i := 0; i < 4; i++ {
		p, q := ps[i], qs[i]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return t0, t1, true
}

func (f frame) clampInside(p point) point {
	p.x = min(max(p.x, f.minX()), f.maxX())
	p.y = min(max(p.y, f.minY()), f.maxY())
	return p
}

func lerp(a, b point, t float64) point {
	return point{
		x: a.x + int64(math.Round(t*float64(b.x-a.x))),
		y: a.y + int64(math.Round(t*float64(b.y-a.y))),
	}
}
