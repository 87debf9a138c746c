package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
)

// Filter distances in meters for the country overview polygons, coarse to fine.
var LegacyCountryLevels = []float64{25000, 15000, 10000, 5000, 2500, 1000, 500}

// NbrTileLevels is the number of map gfx filter levels of a filtered country map. Level 0 keeps
// every coordinate.
const NbrTileLevels = 16

var ErrCorruptStacks = errors.New("corrupt filter stacks")

// FiltDistanceForMapGfx returns the filter distance in meters for a map gfx level.
// Level 0 or anything above 15 means no filtering.
func FiltDistanceForMapGfx(level int) int {
	if level < 1 || level > 15 {
		return 0
	}
	l := float64(level)
	return int(l * l * 0.8 * math.Pow(1.6, 0.89*l))
}

// TileLevelDistances returns the filter distance of every map gfx level, indexed by level.
func TileLevelDistances() []float64 {
	res := make([]float64, NbrTileLevels)
	for l := range res {
		res[l] = float64(FiltDistanceForMapGfx(l))
	}
	return res
}

// Stacks is the precomputed level x polygon -> kept index table of one gfx. Immutable
// once built, shared across requests.
type Stacks struct {
	Levels [][][]int `msgpack:"l"`
}

func NewStacks(nbrLevels, nbrPolygons int) *Stacks {
	levels := make([][][]int, nbrLevels)
	for i := range levels {
		levels[i] = make([][]int, nbrPolygons)
	}
	return &Stacks{Levels: levels}
}

func (s *Stacks) NbrLevels() int {
	if s == nil {
		return 0
	}
	return len(s.Levels)
}

// Get returns the kept indices of poly at level. The slice must not be modified.
func (s *Stacks) Get(level, poly int) ([]int, bool) {
	if s == nil || level < 0 || level >= len(s.Levels) {
		return nil, false
	}
	if poly < 0 || poly >= len(s.Levels[level]) {
		return nil, false
	}
	return s.Levels[level][poly], true
}

// Validate checks every index list against the polygon sizes. A stack that does not fit the
// gfx it was built for is rejected.
func (s *Stacks) Validate(polySizes []int) error {
	for l, level := range s.Levels {
		if len(level) != len(polySizes) {
			return fmt.Errorf("%w: level %d has %d polygons, gfx has %d", ErrCorruptStacks,
				l, len(level), len(polySizes))
		}
		for p, idx := range level {
			prev := -1
			for _, i := range idx {
				if i <= prev || i >= polySizes[p] {
					return fmt.Errorf("%w: level %d polygon %d index %d", ErrCorruptStacks, l, p, i)
				}
				prev = i
			}
		}
	}
	return nil
}

// BuildStacks runs the open polygon filter on every polygon for every distance and unions the
// self touching coordinates back in. When a filter fails the whole polygon is stored.
func BuildStacks(polys [][]geo.Coordinate, distances []float64) *Stacks {
	s := NewStacks(len(distances), len(polys))
	for p := range polys {
		touch := SelfTouch(polys, p)
		for l, d := range distances {
			s.Levels[l][p] = buildLevel(polys[p], touch, d)
		}
	}
	return s
}

// BuildPolygonLevels is BuildStacks for a single polygon, used by the map build workers.
func BuildPolygonLevels(polys [][]geo.Coordinate, poly int, distances []float64) [][]int {
	touch := SelfTouch(polys, poly)
	res := make([][]int, len(distances))
	for l, d := range distances {
		res[l] = buildLevel(polys[poly], touch, d)
	}
	return res
}

func buildLevel(coords []geo.Coordinate, touch []int, dist float64) []int {
	if dist <= 0 {
		return identity(0, len(coords)-1)
	}
	kept, ok := OpenPolygon(coords, dist, 0, true, 0, -1)
	if !ok {
		return identity(0, len(coords)-1)
	}
	return Union(kept, touch)
}
