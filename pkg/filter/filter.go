package filter

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"golang.org/x/exp/slices"
)

// identity returns the indices start..end. Polygons too short to filter are handed back as is.
func identity(start, end int) []int {
	if end < start {
		return []int{}
	}
	res := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		res = append(res, i)
	}
	return res
}

func bounds(n, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end < 0 || end >= n {
		end = n - 1
	}
	return start, end
}

func maxCrossDistance(coords []geo.Coordinate, a, b int) float64 {
	maxDist := 0.0
	for k := a + 1; k < b; k++ {
		p := geo.CrossDistance(coords[k], coords[a], coords[b])
		if p > maxDist {
			maxDist = p
		}
	}
	return maxDist
}

// bestIndexBetween picks the k in (a, b) that minimizes the summed cross distance of
// the two halves a..k and k..b. Defaults to b.
func bestIndexBetween(coords []geo.Coordinate, a, b int) int {
	bestIndex := b
	minTotal := -1.0
	for k := a + 1; k < b; k++ {
		current := 0.0
		for i := a + 1; i < k; i++ {
			current += geo.CrossDistance(coords[i], coords[a], coords[k])
		}
		for i := k + 1; i < b; i++ {
			current += geo.CrossDistance(coords[i], coords[k], coords[b])
		}
		if minTotal < 0 || current < minTotal {
			minTotal = current
			bestIndex = k
		}
	}
	return bestIndex
}

// OpenPolygon walks coords[start..end] greedily and keeps an anchor whenever the next run
// would have a point further than maxLatDist meters from its chord, or a chord longer than
// maxWayDist meters. maxWayDist <= 0 disables the chord length check. end < 0 means the
// last coordinate.
//
// Fewer than 3 coordinates are returned unfiltered together with false.
func OpenPolygon(coords []geo.Coordinate, maxLatDist, maxWayDist float64, minimizeError bool,
	start, end int) ([]int, bool) {
	n := len(coords)
	start, end = bounds(n, start, end)
	if n < 3 {
		return identity(start, end), false
	}

	maxSqMC2Dist := maxLatDist * maxLatDist * geo.SQ_M_TO_SQ_MC2
	maxSqWayDist := maxWayDist * maxWayDist

	withinWay := func(a, b int) bool {
		if maxWayDist <= 0 {
			return true
		}
		return geo.SquareP2PDistanceLinear(coords[a].Lat, coords[a].Lon,
			coords[b].Lat, coords[b].Lon) <= maxSqWayDist
	}

	res := []int{start}
	prev := start
	for prev < end {
		cur := prev + 1
		for cur <= end && maxCrossDistance(coords, prev, cur) <= maxSqMC2Dist && withinWay(prev, cur) {
			cur++
		}

		next := cur - 1
		if minimizeError {
			if cur <= end {
				next = bestIndexBetween(coords, prev, cur)
			} else {
				next = end
			}
		}
		if next <= prev {
			// the neighbour itself is already too far away
			next = prev + 1
		}
		prev = next
		res = append(res, prev)
	}

	if res[len(res)-1] != end {
		res = append(res, end)
	}
	return res, true
}

func douglasPeucker(results []int, coords []geo.Coordinate, startIndex, lastIndex int,
	epsilonSquared float64) []int {
	if lastIndex <= startIndex+1 {
		return append(results, startIndex)
	}

	maxDist := 0.0
	worstIndex := 0
	for i := startIndex + 1; i < lastIndex; i++ {
		dist := geo.ClosestDistVectorToPoint(coords[startIndex], coords[lastIndex], coords[i],
			geo.CosLat(coords[i].Lat))
		if dist > maxDist {
			worstIndex = i
			maxDist = dist
		}
	}

	if maxDist > epsilonSquared {
		results = douglasPeucker(results, coords, startIndex, worstIndex, epsilonSquared)
		return douglasPeucker(results, coords, worstIndex, lastIndex, epsilonSquared)
	}
	return append(results, startIndex)
}

// DouglasPeucker simplifies coords[start..end] with an epsilon in meters. The first and last
// index are always kept. An epsilon of 0 keeps everything. Less than 3 coordinates in or out
// returns false.
func DouglasPeucker(coords []geo.Coordinate, epsilon float64, start, end int) ([]int, bool) {
	n := len(coords)
	start, end = bounds(n, start, end)
	if n < 3 {
		return identity(start, end), false
	}
	if epsilon == 0 {
		return identity(start, end), true
	}

	eps := float64(uint64(epsilon * geo.METER_TO_MC2))
	res := douglasPeucker(make([]int, 0, 16), coords, start, end, eps*eps)
	res = append(res, end)
	return res, len(res) >= 3
}

// Union merges the must-keep indices into a kept index list. Both inputs may be unsorted;
// the result is sorted without duplicates.
func Union(kept, mustKeep []int) []int {
	if len(mustKeep) == 0 {
		return kept
	}
	res := make([]int, 0, len(kept)+len(mustKeep))
	res = append(res, kept...)
	res = append(res, mustKeep...)
	slices.Sort(res)
	return slices.Compact(res)
}

// SelfTouch returns the indices in polys[poly] of coordinates that occur more than once in
// the whole gfx, i.e. where the outline touches itself or another polygon.
func SelfTouch(polys [][]geo.Coordinate, poly int) []int {
	if poly < 0 || poly >= len(polys) {
		return nil
	}
	if len(polys) == 1 && len(polys[0]) <= 2 {
		return nil
	}

	counts := make(map[geo.Coordinate]int)
	for _, p := range polys {
		for _, c := range p {
			counts[c]++
		}
	}

	var res []int
	for i, c := range polys[poly] {
		if counts[c] >= 2 {
			res = append(res, i)
		}
	}
	return res
}
