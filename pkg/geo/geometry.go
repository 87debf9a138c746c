package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

func CosLat(lat int32) float64 {
	return math.Cos(float64(lat) * MC2_TO_RAD)
}

func cosMeanLat(lat1, lat2 int32) float64 {
	return math.Cos(float64(lat1/2+lat2/2) * MC2_TO_RAD)
}

// SquareP2PDistanceLinear is the squared distance in meters using a flat projection
// at the mean latitude of the two points.
func SquareP2PDistanceLinear(lat1, lon1, lat2, lon2 int32) float64 {
	return SquareP2PDistanceMC2(lat1, lon1, lat2, lon2) * SQ_MC2_TO_M
}

// SquareP2PDistanceMC2 is SquareP2PDistanceLinear in squared MC2 units.
func SquareP2PDistanceMC2(lat1, lon1, lat2, lon2 int32) float64 {
	dLat := float64(int64(lat1) - int64(lat2))
	dLon := float64(int32(lon1-lon2)) * cosMeanLat(lat1, lat2)
	return dLat*dLat + dLon*dLon
}

func Distance(a, b Coordinate) float64 {
	return math.Sqrt(SquareP2PDistanceLinear(a.Lat, a.Lon, b.Lat, b.Lon))
}

// CrossDistance returns the squared perpendicular distance (MC2²) from k to the line through a and b.
func CrossDistance(k, a, b Coordinate) float64 {
	x1, y1 := float64(0), float64(a.Lat)
	x2 := float64(int32(b.Lon - a.Lon))
	y2 := float64(b.Lat)
	x3 := float64(int32(k.Lon - a.Lon))
	y3 := float64(k.Lat)

	cosLat := cosMeanLat(a.Lat, b.Lat)
	if x1 == x2 {
		d := cosLat * math.Abs(x3-x1)
		return d * d
	}
	lineCoeff := (y2 - y1) / (cosLat * (x2 - x1))
	top := lineCoeff*cosLat*(x3-x1) - (y3 - y1)
	return top * top / (lineCoeff*lineCoeff + 1)
}

// ClosestDistVectorToPoint is the squared distance (MC2²) from p to the segment a-b,
// longitudes scaled by cosLat.
func ClosestDistVectorToPoint(a, b, p Coordinate, cosLat float64) float64 {
	vx := float64(int32(b.Lon-a.Lon)) * cosLat
	vy := float64(int64(b.Lat) - int64(a.Lat))
	wx := float64(int32(p.Lon-a.Lon)) * cosLat
	wy := float64(int64(p.Lat) - int64(a.Lat))

	vv := vx*vx + vy*vy
	if vv == 0 {
		return wx*wx + wy*wy
	}
	t := (wx*vx + wy*vy) / vv
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	dx := wx - t*vx
	dy := wy - t*vy
	return dx*dx + dy*dy
}

// AngleFromNorth returns the clockwise angle in radians from north of the vector a->b.
// ok is false for a zero length vector.
func AngleFromNorth(a, b Coordinate) (float64, bool) {
	dx := float64(int32(b.Lon-a.Lon)) * cosMeanLat(a.Lat, b.Lat)
	dy := float64(int64(b.Lat) - int64(a.Lat))
	if dx == 0 && dy == 0 {
		return 0, false
	}
	angle := math.Atan2(dx, dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle, true
}

func crossProduct(h, t, q Coordinate) int64 {
	return int64(int32(t.Lon-h.Lon))*(int64(q.Lat)-int64(h.Lat)) -
		int64(int32(q.Lon-h.Lon))*(int64(t.Lat)-int64(h.Lat))
}

func isPointOnSegment(p, a, b Coordinate) bool {
	if crossProduct(a, b, p) != 0 {
		return false
	}
	return BoundingBoxFromCoordinates([]Coordinate{a, b}).ContainsCoordinate(p)
}

func windingNumber(p Coordinate, ring []Coordinate) (wn int) {
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		if isPointOnSegment(p, a, b) {
			wn = 1
			return
		}
		if a.Lat <= p.Lat {
			if b.Lat > p.Lat && crossProduct(a, b, p) > 0 {
				wn++
			}
		} else if b.Lat <= p.Lat && crossProduct(a, b, p) < 0 {
			wn--
		}
	}
	return
}

// IsPointInPolygon reports whether p lies inside (or on the edge of) the ring. The ring
// may or may not repeat its first coordinate.
func IsPointInPolygon(p Coordinate, ring []Coordinate) bool {
	if len(ring) < 3 {
		return false
	}
	return windingNumber(p, ring) != 0
}

func (c Coordinate) S2Point() s2.Point {
	lat, lon := c.Degrees()
	return s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
}

// SphericalArea returns the area in square meters of a closed ring on the sphere.
func SphericalArea(ring []Coordinate) float64 {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n < 3 {
		return 0
	}
	points := make([]s2.Point, 0, n)
	for i := 0; i < n; i++ {
		p := ring[i].S2Point()
		if len(points) > 0 && points[len(points)-1] == p {
			continue
		}
		points = append(points, p)
	}
	if len(points) < 3 {
		return 0
	}
	loop := s2.LoopFromPoints(points)
	loop.Normalize()
	return loop.Area() * EARTH_RADIUS * EARTH_RADIUS
}
