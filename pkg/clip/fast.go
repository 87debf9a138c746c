package clip

import "github.com/lintang-b-s/osm-featuremap/pkg/geo"

var boundaries = [4]uint8{geo.OUTCODE_LEFT, geo.OUTCODE_RIGHT, geo.OUTCODE_TOP, geo.OUTCODE_BOTTOM}

// ClosedFast clips a closed ring against bbox with Sutherland-Hodgman. The result is always a
// single ring, concave input may give a ring running along the box edges.
func ClosedFast(bbox geo.BoundingBox, vertices []geo.Coordinate) ([]geo.Coordinate, bool) {
	if len(vertices) < 3 {
		return nil, false
	}
	f := newFrame(bbox)
	points := f.toLocalAll(vertices)
	codes := make([]uint8, len(points))
	for i, p := range points {
		codes[i] = f.outcode(p)
	}

	for _, b := range boundaries {
		var ok bool
		points, codes, ok = f.clipToBoundary(b, points, codes)
		if !ok {
			return nil, false
		}
	}
	return Normalize(f.toCoordinates(points), true)
}

// clipToBoundary is one stage of the Sutherland-Hodgman pipeline.
func (f frame) clipToBoundary(boundary uint8, points []point, codes []uint8) ([]point, []uint8, bool) {
	if len(points) < 3 {
		return nil, nil, false
	}
	resPoints := make([]point, 0, len(points)+4)
	resCodes := make([]uint8, 0, len(points)+4)

	n := len(points)
	prev := n - 1
	prevInside := codes[prev]&boundary == 0
	for cur := 0; cur < n; cur++ {
		curInside := codes[cur]&boundary == 0
		switch {
		case prevInside && curInside:
			resPoints = append(resPoints, points[cur])
			resCodes = append(resCodes, codes[cur])
		case prevInside && !curInside:
			p := f.boundaryIntersection(points[prev], points[cur], boundary)
			resPoints = append(resPoints, p)
			resCodes = append(resCodes, f.outcode(p))
		case !prevInside && curInside:
			p := f.boundaryIntersection(points[prev], points[cur], boundary)
			resPoints = append(resPoints, p, points[cur])
			resCodes = append(resCodes, f.outcode(p), codes[cur])
		}
		prev = cur
		prevInside = curInside
	}
	return resPoints, resCodes, len(resPoints) > 2
}
