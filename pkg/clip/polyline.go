package clip

import "github.com/lintang-b-s/osm-featuremap/pkg/geo"

// OpenPolyline splits an open line into the runs lying inside bbox. Each run starts or ends on
// the box edge where the line crosses it. Runs shorter than 2 coordinates are dropped.
func OpenPolyline(bbox geo.BoundingBox, vertices []geo.Coordinate) [][]geo.Coordinate {
	if len(vertices) == 0 {
		return nil
	}
	f := newFrame(bbox)
	points := f.toLocalAll(vertices)

	var runs [][]point
	prevInside := f.inside(points[0])
	if prevInside {
		runs = append(runs, []point{points[0]})
	}

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		curInside := f.inside(cur)

		switch {
		case prevInside && curInside:
			runs[len(runs)-1] = append(runs[len(runs)-1], cur)
		case prevInside && !curInside:
			_, t1, ok := f.clipSegment(prev, cur)
			if !ok {
				t1 = 0
			}
			runs[len(runs)-1] = append(runs[len(runs)-1], f.clampInside(lerp(prev, cur, t1)))
		case !prevInside && curInside:
			t0, _, ok := f.clipSegment(prev, cur)
			if !ok {
				t0 = 1
			}
			runs = append(runs, []point{f.clampInside(lerp(prev, cur, t0)), cur})
		default:
			// both outside, the segment may still cut through the box
			t0, t1, ok := f.clipSegment(prev, cur)
			if ok && t0 < t1 {
				runs = append(runs, []point{
					f.clampInside(lerp(prev, cur, t0)),
					f.clampInside(lerp(prev, cur, t1)),
				})
			}
		}
		prevInside = curInside
	}

	res := make([][]geo.Coordinate, 0, len(runs))
	for _, r := range runs {
		if c, ok := Normalize(f.toCoordinates(r), false); ok {
			res = append(res, c)
		}
	}
	return res
}
