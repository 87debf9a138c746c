package filter

import (
	"math"
	"testing"

	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = 100000 // ~930 m

func staircase() []geo.Coordinate {
	return []geo.Coordinate{
		geo.NewCoordinate(0, 0),
		geo.NewCoordinate(0, step),
		geo.NewCoordinate(0, 2*step),
		geo.NewCoordinate(0, 3*step),
		geo.NewCoordinate(step, 3*step),
		geo.NewCoordinate(2*step, 3*step),
		geo.NewCoordinate(3*step, 3*step),
		geo.NewCoordinate(3*step, 4*step),
		geo.NewCoordinate(3*step, 5*step),
	}
}

func arc(n int, radius float64) []geo.Coordinate {
	center := geo.CoordinateFromDegrees(45, 10)
	r := radius * geo.METER_TO_MC2
	cosLat := geo.CosLat(center.Lat)
	res := make([]geo.Coordinate, n)
	for i := 0; i < n; i++ {
		a := math.Pi * float64(i) / float64(n-1)
		res[i] = geo.NewCoordinate(center.Lat+int32(r*math.Sin(a)), center.Lon+int32(r*math.Cos(a)/cosLat))
	}
	return res
}

func wave() []geo.Coordinate {
	res := make([]geo.Coordinate, 0, 200)
	for i := 0; i < 200; i++ {
		x := float64(i) / 10
		res = append(res, geo.NewCoordinate(int32(3*step*math.Sin(x)+step*math.Sin(3.3*x)), int32(i*step/4)))
	}
	return res
}

func pick(coords []geo.Coordinate, idx []int) []geo.Coordinate {
	res := make([]geo.Coordinate, len(idx))
	for i, k := range idx {
		res[i] = coords[k]
	}
	return res
}

func TestOpenPolygon(t *testing.T) {
	t.Run("keeps the corners of a staircase", func(t *testing.T) {
		idx, ok := OpenPolygon(staircase(), 50, 0, false, 0, -1)
		require.True(t, ok)
		assert.Equal(t, []int{0, 3, 6, 8}, idx)
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		coords := staircase()
		idx, ok := OpenPolygon(coords, 50, 0, false, 0, -1)
		require.True(t, ok)

		filtered := pick(coords, idx)
		again, ok := OpenPolygon(filtered, 50, 0, false, 0, -1)
		require.True(t, ok)
		assert.Equal(t, identity(0, len(filtered)-1), again)
	})

	t.Run("way distance keeps long straight runs split", func(t *testing.T) {
		idx, ok := OpenPolygon(staircase(), 50, 2000, false, 0, -1)
		require.True(t, ok)
		for i := 1; i < len(idx); i++ {
			assert.LessOrEqual(t, idx[i]-idx[i-1], 2)
		}
	})

	t.Run("minimize error still keeps first and last", func(t *testing.T) {
		coords := wave()
		idx, ok := OpenPolygon(coords, 100, 0, true, 0, -1)
		require.True(t, ok)
		assert.Equal(t, 0, idx[0])
		assert.Equal(t, len(coords)-1, idx[len(idx)-1])
		assert.IsIncreasing(t, idx)
	})

	t.Run("sub range", func(t *testing.T) {
		idx, ok := OpenPolygon(staircase(), 50, 0, false, 4, 8)
		require.True(t, ok)
		assert.Equal(t, []int{4, 6, 8}, idx)
	})
}

func TestDouglasPeucker(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		coords := wave()
		for _, eps := range []float64{50, 200, 1000} {
			idx, ok := DouglasPeucker(coords, eps, 0, -1)
			require.True(t, ok)
			require.Less(t, len(idx), len(coords))

			filtered := pick(coords, idx)
			again, ok := DouglasPeucker(filtered, eps, 0, -1)
			require.True(t, ok)
			assert.Equal(t, identity(0, len(filtered)-1), again, "eps %v", eps)
		}
	})

	t.Run("epsilon zero keeps everything", func(t *testing.T) {
		coords := staircase()
		idx, ok := DouglasPeucker(coords, 0, 0, -1)
		assert.True(t, ok)
		assert.Equal(t, identity(0, len(coords)-1), idx)
	})

	t.Run("straight line collapses", func(t *testing.T) {
		coords := staircase()[:4]
		idx, ok := DouglasPeucker(coords, 10, 0, -1)
		assert.False(t, ok)
		assert.Equal(t, []int{0, 3}, idx)
	})
}

func TestFilterMonotonicity(t *testing.T) {
	coords := arc(60, 10000)
	dists := []float64{1, 5, 20, 100, 500, 2000}

	prevOpen := math.MaxInt
	prevDP := math.MaxInt
	for _, d := range dists {
		open, _ := OpenPolygon(coords, d, 0, false, 0, -1)
		dp, _ := DouglasPeucker(coords, d, 0, -1)
		assert.LessOrEqual(t, len(open), prevOpen, "open filter at %v m", d)
		assert.LessOrEqual(t, len(dp), prevDP, "douglas peucker at %v m", d)
		prevOpen = len(open)
		prevDP = len(dp)
	}
}

func TestTwoCoordinatesNeverFiltered(t *testing.T) {
	coords := []geo.Coordinate{geo.NewCoordinate(0, 0), geo.NewCoordinate(step, step)}

	idx, ok := OpenPolygon(coords, 1000, 0, true, 0, -1)
	assert.False(t, ok)
	assert.Equal(t, []int{0, 1}, idx)

	idx, ok = DouglasPeucker(coords, 1000, 0, -1)
	assert.False(t, ok)
	assert.Equal(t, []int{0, 1}, idx)
}

func TestSelfTouch(t *testing.T) {
	line := staircase()[:4]
	other := []geo.Coordinate{line[2], geo.NewCoordinate(-step, 2*step), geo.NewCoordinate(-step, 3*step)}
	polys := [][]geo.Coordinate{line, other}

	assert.Equal(t, []int{2}, SelfTouch(polys, 0))
	assert.Equal(t, []int{0}, SelfTouch(polys, 1))
	assert.Nil(t, SelfTouch(polys, 5))

	stacks := BuildStacks(polys, []float64{5000, 10})
	require.Equal(t, 2, stacks.NbrLevels())
	level0, ok := stacks.Get(0, 0)
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 3}, level0)

	require.NoError(t, stacks.Validate([]int{len(line), len(other)}))
	assert.ErrorIs(t, stacks.Validate([]int{2, len(other)}), ErrCorruptStacks)

	_, ok = stacks.Get(2, 0)
	assert.False(t, ok)
}

func TestUnion(t *testing.T) {
	assert.Equal(t, []int{0, 2, 3, 5, 9}, Union([]int{0, 3, 9}, []int{5, 2, 3}))
	assert.Equal(t, []int{0, 9}, Union([]int{0, 9}, nil))
}

func TestFiltDistanceForMapGfx(t *testing.T) {
	assert.Equal(t, 0, FiltDistanceForMapGfx(0))
	assert.Equal(t, 0, FiltDistanceForMapGfx(16))

	prev := 0
	for l := 1; l <= 15; l++ {
		d := FiltDistanceForMapGfx(l)
		assert.Greater(t, d, prev)
		prev = d
	}
	dists := TileLevelDistances()
	assert.Len(t, dists, NbrTileLevels)
	assert.Zero(t, dists[0])
	assert.IsIncreasing(t, dists)
}

func TestMeasurements(t *testing.T) {
	square := []geo.Coordinate{
		geo.CoordinateFromDegrees(0, 0),
		geo.CoordinateFromDegrees(0, 0.01),
		geo.CoordinateFromDegrees(0.01, 0.01),
		geo.CoordinateFromDegrees(0.01, 0),
	}

	t.Run("area sign follows winding", func(t *testing.T) {
		area := PolygonArea(square)
		assert.Greater(t, area, 0.0)
		assert.InEpsilon(t, geo.SphericalArea(square), area, 0.01)

		reversed := []geo.Coordinate{square[3], square[2], square[1], square[0]}
		assert.InEpsilon(t, -area, PolygonArea(reversed), 1e-9)
	})

	t.Run("centroid", func(t *testing.T) {
		c := PolygonCentroid(square)
		want := geo.CoordinateFromDegrees(0.005, 0.005)
		assert.InDelta(t, want.Lat, c.Lat, 2)
		assert.InDelta(t, want.Lon, c.Lon, 2)
	})

	t.Run("centroid of a degenerate ring", func(t *testing.T) {
		line := staircase()[:3]
		assert.Equal(t, geo.BoundingBoxFromCoordinates(line).Center(), PolygonCentroid(line))
	})

	t.Run("coordinate at offset", func(t *testing.T) {
		line := staircase()[:3]
		c, seg := CoordinateAtOffset(line, 0)
		assert.Equal(t, line[0], c)
		assert.Equal(t, 1, seg)

		c, seg = CoordinateAtOffset(line, MaxOffset)
		assert.Equal(t, line[2], c)
		assert.Equal(t, 2, seg)

		c, seg = CoordinateAtOffset(line, MaxOffset/4)
		assert.Equal(t, 1, seg)
		assert.InDelta(t, step/2, c.Lon, 5)
		assert.Equal(t, int32(0), c.Lat)

		c, seg = CoordinateAtOffset(line, 3*(MaxOffset/4))
		assert.Equal(t, 2, seg)
		assert.InDelta(t, 3*step/2, c.Lon, 5)
	})

	t.Run("angle at offset", func(t *testing.T) {
		stairs := staircase()
		assert.InDelta(t, 90, AngleAtOffset(stairs[:4], MaxOffset/2), 1e-6)
		assert.InDelta(t, 0, AngleAtOffset(stairs[3:7], MaxOffset/2), 1e-6)
	})

	t.Run("length", func(t *testing.T) {
		assert.InDelta(t, 3*step*geo.MC2_TO_M, PolyLength(staircase()[:4]), 1e-3)
	})
}
