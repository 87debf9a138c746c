package filter

import (
	"math"

	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
)

// MaxOffset is the offset of the last coordinate of a polygon. Offsets are a fraction
// of the polygon length scaled to 0..MaxOffset.
const MaxOffset = 0xFFFF

// PolygonArea returns the signed area in square meters. Counter clockwise rings are positive.
func PolygonArea(coords []geo.Coordinate) float64 {
	n := len(coords)
	if n < 3 {
		return 0
	}
	cosLat := geo.BoundingBoxFromCoordinates(coords).CosLat()
	origin := coords[0]

	var sum float64
	for i := 0; i < n; i++ {
		a := coords[i]
		b := coords[(i+1)%n]
		ax := float64(int32(a.Lon-origin.Lon)) * cosLat
		ay := float64(int64(a.Lat) - int64(origin.Lat))
		bx := float64(int32(b.Lon-origin.Lon)) * cosLat
		by := float64(int64(b.Lat) - int64(origin.Lat))
		sum += ax*by - bx*ay
	}
	return sum / 2 * geo.SQ_MC2_TO_M
}

// PolyLength returns the length in meters along the coordinates.
func PolyLength(coords []geo.Coordinate) float64 {
	length := 0.0
	for i := 1; i < len(coords); i++ {
		length += geo.Distance(coords[i-1], coords[i])
	}
	return length
}

// PolygonCentroid returns the area centroid of a ring. Degenerate rings fall back to the
// center of their bounding box.
func PolygonCentroid(coords []geo.Coordinate) geo.Coordinate {
	n := len(coords)
	if n == 0 {
		return geo.InvalidCoordinate
	}
	bb := geo.BoundingBoxFromCoordinates(coords)
	if n < 3 {
		return bb.Center()
	}
	origin := coords[0]

	var area, cx, cy float64
	for i := 0; i < n; i++ {
		a := coords[i]
		b := coords[(i+1)%n]
		ax := float64(int32(a.Lon - origin.Lon))
		ay := float64(int64(a.Lat) - int64(origin.Lat))
		bx := float64(int32(b.Lon - origin.Lon))
		by := float64(int64(b.Lat) - int64(origin.Lat))
		cross := ax*by - bx*ay
		area += cross
		cx += (ax + bx) * cross
		cy += (ay + by) * cross
	}
	if area == 0 {
		return bb.Center()
	}
	cx /= 3 * area
	cy /= 3 * area
	return geo.NewCoordinate(int32(int64(origin.Lat)+int64(math.Round(cy))),
		origin.Lon+int32(int64(math.Round(cx))))
}

// CoordinateAtOffset returns the coordinate at offset along the polyline together with the
// index of the coordinate ending the segment it lies on.
func CoordinateAtOffset(coords []geo.Coordinate, offset uint16) (geo.Coordinate, int) {
	n := len(coords)
	if n == 0 {
		return geo.InvalidCoordinate, 0
	}
	if n == 1 || offset == 0 {
		return coords[0], 1
	}
	if offset == MaxOffset {
		return coords[n-1], n - 1
	}

	length := PolyLength(coords)
	where := length * float64(offset) / MaxOffset
	if where < 1e-6 {
		return coords[0], 1
	}

	total := 0.0
	lastDist := 0.0
	seg := 0
	for total < where && seg < n-1 {
		seg++
		lastDist = geo.Distance(coords[seg-1], coords[seg])
		total += lastDist
	}
	if seg == 0 {
		seg = 1
	}
	after := coords[seg]
	prev := coords[seg-1]
	if lastDist == 0 {
		return after, seg
	}
	relative := (total - where) / lastDist
	lat := float64(after.Lat) - float64(int64(after.Lat)-int64(prev.Lat))*relative
	lon := float64(after.Lon) - float64(int32(after.Lon-prev.Lon))*relative
	return geo.NewCoordinate(int32(math.Round(lat)), int32(int64(math.Round(lon)))), seg
}

// SegmentAtOffset returns the index of the coordinate ending the segment at offset.
func SegmentAtOffset(coords []geo.Coordinate, offset uint16) int {
	_, seg := CoordinateAtOffset(coords, offset)
	return seg
}

// AngleAtOffset returns the direction in degrees, clockwise from north, of the segment
// at offset.
func AngleAtOffset(coords []geo.Coordinate, offset uint16) float64 {
	if len(coords) < 2 {
		return 0
	}
	seg := SegmentAtOffset(coords, offset)
	if seg >= len(coords) {
		seg = len(coords) - 1
	}
	for s := seg; s < len(coords); s++ {
		if angle, ok := geo.AngleFromNorth(coords[s-1], coords[s]); ok {
			return angle * 180 / math.Pi
		}
	}
	return 0
}
