package clip

import "github.com/lintang-b-s/osm-featuremap/pkg/geo"

// Greiner-Hormann clipping of an arbitrary ring against the box. The vertex lists are
// arena backed, next/prev/neighbor are indices into nodes.

type node struct {
	p         point
	next      int
	prev      int
	intersect bool
	entry     bool
	visited   bool
	neighbor  int
	alpha     float64
}

type ghLists struct {
	nodes []node
	// the original vertices of each list in order
	subject []int
	clip    []int
}

func (l *ghLists) add(p point) int {
	l.nodes = append(l.nodes, node{p: p, neighbor: -1})
	return len(l.nodes) - 1
}

func (l *ghLists) link(ring []int) {
	n := len(ring)
	for i, idx := range ring {
		l.nodes[idx].next = ring[(i+1)%n]
		l.nodes[idx].prev = ring[(i+n-1)%n]
	}
}

// insertBetween puts the intersection node k between a and b (original neighbours), keeping the
// intersections sorted by alpha.
func (l *ghLists) insertBetween(k, a, b int) {
	cur := l.nodes[a].next
	for cur != b && l.nodes[cur].alpha < l.nodes[k].alpha {
		cur = l.nodes[cur].next
	}
	prev := l.nodes[cur].prev
	l.nodes[k].next = cur
	l.nodes[k].prev = prev
	l.nodes[prev].next = k
	l.nodes[cur].prev = k
}

// segmentIntersection returns the alphas along a-b and c-d. degenerate is set when the
// crossing hits an endpoint.
func segmentIntersection(a, b, c, d point) (float64, float64, bool, bool) {
	rx, ry := float64(b.x-a.x), float64(b.y-a.y)
	sx, sy := float64(d.x-c.x), float64(d.y-c.y)
	denom := rx*sy - ry*sx
	if denom == 0 {
		return 0, 0, false, false
	}
	qx, qy := float64(c.x-a.x), float64(c.y-a.y)
	t := (qx*sy - qy*sx) / denom
	u := (qx*ry - qy*rx) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, 0, false, false
	}
	if t == 0 || t == 1 || u == 0 || u == 1 {
		return t, u, true, true
	}
	return t, u, true, false
}

func pointInRing(p point, ring []point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.y > p.y) != (b.y > p.y) {
			x := float64(a.x) + float64(p.y-a.y)*float64(b.x-a.x)/float64(b.y-a.y)
			if float64(p.x) < x {
				inside = !inside
			}
		}
	}
	return inside
}

// perturb moves vertices lying on a box side line one unit outwards.
func (f frame) perturb(points []point) []point {
	res := make([]point, len(points))
	for i, p := range points {
		if p.y == f.maxY() {
			p.y++
		}
		if p.y == f.minY() {
			p.y--
		}
		if p.x == f.minX() {
			p.x--
		}
		if p.x == f.maxX() {
			p.x++
		}
		res[i] = p
	}
	return res
}

func (f frame) corners() []point {
	return []point{
		{x: f.minX(), y: f.maxY()},
		{x: f.maxX(), y: f.maxY()},
		{x: f.maxX(), y: f.minY()},
		{x: f.minX(), y: f.minY()},
	}
}

// ClosedGeneral clips a closed ring against bbox and may return several rings when a concave
// ring leaves and re-enters the box. Configurations where the ring passes exactly through a box
// corner fall back to ClosedFast.
func ClosedGeneral(bbox geo.BoundingBox, vertices []geo.Coordinate) ([][]geo.Coordinate, bool) {
	ring, ok := Normalize(vertices, true)
	if !ok {
		return nil, false
	}
	f := newFrame(bbox)
	local := f.toLocalAll(ring)

	allInside := true
	for _, p := range local {
		if !f.inside(p) {
			allInside = false
			break
		}
	}
	if allInside {
		return [][]geo.Coordinate{ring}, true
	}

	subj := f.perturb(local)
	corners := f.corners()

	l := &ghLists{}
	for _, p := range subj {
		l.subject = append(l.subject, l.add(p))
	}
	for _, p := range corners {
		l.clip = append(l.clip, l.add(p))
	}
	l.link(l.subject)
	l.link(l.clip)

	nbrIntersections := 0
	ns, nc := len(l.subject), len(l.clip)
	for i := 0; i < ns; i++ {
		sa, sb := l.subject[i], l.subject[(i+1)%ns]
		for j := 0; j < nc; j++ {
			ca, cb := l.clip[j], l.clip[(j+1)%nc]
			t, u, hit, degenerate := segmentIntersection(l.nodes[sa].p, l.nodes[sb].p,
				l.nodes[ca].p, l.nodes[cb].p)
			if !hit {
				continue
			}
			if degenerate {
				return fallback(bbox, ring)
			}
			p := lerp(l.nodes[sa].p, l.nodes[sb].p, t)
			// the box side is exact, snap rounding noise onto it
			if j%2 == 0 {
				p.y = l.nodes[ca].p.y
			} else {
				p.x = l.nodes[ca].p.x
			}

			si := l.add(p)
			ci := l.add(p)
			l.nodes[si].intersect, l.nodes[ci].intersect = true, true
			l.nodes[si].alpha, l.nodes[ci].alpha = t, u
			l.nodes[si].neighbor, l.nodes[ci].neighbor = ci, si
			l.insertBetween(si, sa, sb)
			l.insertBetween(ci, ca, cb)
			nbrIntersections++
		}
	}

	if nbrIntersections == 0 {
		if pointInRing(corners[0], subj) {
			// the box lies inside the ring
			return [][]geo.Coordinate{f.toCoordinates(corners)}, true
		}
		return nil, false
	}
	if nbrIntersections%2 != 0 {
		return fallback(bbox, ring)
	}

	l.markEntries(l.subject[0], !f.inside(subj[0]))
	l.markEntries(l.clip[0], !pointInRing(corners[0], subj))

	var res [][]geo.Coordinate
	for _, r := range l.trace() {
		if c, ok := Normalize(f.toCoordinates(r), true); ok {
			res = append(res, c)
		}
	}
	return res, len(res) > 0
}

func fallback(bbox geo.BoundingBox, ring []geo.Coordinate) ([][]geo.Coordinate, bool) {
	res, ok := ClosedFast(bbox, ring)
	if !ok {
		return nil, false
	}
	return [][]geo.Coordinate{res}, true
}

// markEntries walks a list from start and flags every intersection as entry or exit.
// entering is the flag of the first intersection found.
func (l *ghLists) markEntries(start int, entering bool) {
	cur := start
	for {
		if l.nodes[cur].intersect {
			l.nodes[cur].entry = entering
			entering = !entering
		}
		cur = l.nodes[cur].next
		if cur == start {
			return
		}
	}
}

func (l *ghLists) trace() [][]point {
	var res [][]point
	start := l.subject[0]
	for {
		first := l.nextUnvisited(start)
		if first < 0 {
			return res
		}
		var ring []point
		cur := first
		ring = append(ring, l.nodes[cur].p)
		for guard := 0; guard < len(l.nodes)*2; guard++ {
			l.nodes[cur].visited = true
			l.nodes[l.nodes[cur].neighbor].visited = true
			forward := l.nodes[cur].entry
			for {
				if forward {
					cur = l.nodes[cur].next
				} else {
					cur = l.nodes[cur].prev
				}
				ring = append(ring, l.nodes[cur].p)
				if l.nodes[cur].intersect {
					break
				}
			}
			cur = l.nodes[cur].neighbor
			if l.nodes[cur].visited {
				break
			}
		}
		res = append(res, ring)
	}
}

func (l *ghLists) nextUnvisited(start int) int {
	cur := start
	for {
		if l.nodes[cur].intersect && !l.nodes[cur].visited {
			return cur
		}
		cur = l.nodes[cur].next
		if cur == start {
			return -1
		}
	}
}
