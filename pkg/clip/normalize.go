package clip

import "github.com/lintang-b-s/osm-featuremap/pkg/geo"

// Normalize removes consecutive duplicates and, for closed rings, a closing coordinate equal to
// the first one. Fails when fewer than 3 (closed) or 2 (open) coordinates remain.
func Normalize(ring []geo.Coordinate, closed bool) ([]geo.Coordinate, bool) {
	res := make([]geo.Coordinate, 0, len(ring))
	for _, c := range ring {
		if len(res) > 0 && res[len(res)-1] == c {
			continue
		}
		res = append(res, c)
	}
	if closed {
		for len(res) > 1 && res[len(res)-1] == res[0] {
			res = res[:len(res)-1]
		}
		return res, len(res) >= 3
	}
	return res, len(res) >= 2
}

// Closed clips a closed ring with the general clipper when concave is set, otherwise with
// ClosedFast.
func Closed(bbox geo.BoundingBox, ring []geo.Coordinate, concave bool) ([][]geo.Coordinate, bool) {
	if concave {
		return ClosedGeneral(bbox, ring)
	}
	res, ok := ClosedFast(bbox, ring)
	if !ok {
		return nil, false
	}
	return [][]geo.Coordinate{res}, true
}
