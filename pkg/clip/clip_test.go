package clip

import (
	"math"
	"testing"

	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(lat, lon int32) geo.Coordinate {
	return geo.NewCoordinate(lat, lon)
}

var box = geo.NewBoundingBox(0, 0, 1000, 1000)

// two prongs hanging into the box from above
func prongs() []geo.Coordinate {
	return []geo.Coordinate{
		c(1500, 100), c(1500, 900), c(200, 900), c(200, 700),
		c(1200, 700), c(1200, 300), c(200, 300), c(200, 100),
	}
}

func star(center geo.Coordinate, n int, inner, outer float64, rot float64) []geo.Coordinate {
	res := make([]geo.Coordinate, 0, 2*n)
	for i := 0; i < 2*n; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := rot + math.Pi*float64(i)/float64(n)
		res = append(res, c(center.Lat+int32(r*math.Sin(a)), center.Lon+int32(r*math.Cos(a))))
	}
	return res
}

func assertContained(t *testing.T, bbox geo.BoundingBox, rings ...[]geo.Coordinate) {
	t.Helper()
	for _, r := range rings {
		for _, p := range r {
			assert.True(t, bbox.ContainsCoordinate(p), "%v outside %v", p, bbox)
		}
	}
}

func TestClosedFast(t *testing.T) {
	t.Run("corner overlap", func(t *testing.T) {
		ring := []geo.Coordinate{c(-500, -500), c(-500, 500), c(500, 500), c(500, -500)}
		res, ok := ClosedFast(box, ring)
		require.True(t, ok)
		assert.ElementsMatch(t, []geo.Coordinate{c(0, 0), c(0, 500), c(500, 500), c(500, 0)}, res)
	})

	t.Run("inside is unchanged", func(t *testing.T) {
		ring := []geo.Coordinate{c(100, 100), c(100, 900), c(900, 900), c(500, 500), c(900, 100)}
		res, ok := ClosedFast(box, ring)
		require.True(t, ok)
		assert.Equal(t, ring, res)

		again, ok := ClosedFast(box, res)
		require.True(t, ok)
		assert.Equal(t, res, again)
	})

	t.Run("concave gives a single ring", func(t *testing.T) {
		res, ok := ClosedFast(box, prongs())
		require.True(t, ok)
		assertContained(t, box, res)
	})

	t.Run("outside", func(t *testing.T) {
		ring := []geo.Coordinate{c(2000, 2000), c(2000, 3000), c(3000, 3000)}
		_, ok := ClosedFast(box, ring)
		assert.False(t, ok)
	})

	t.Run("two coordinates are degenerate", func(t *testing.T) {
		_, ok := ClosedFast(box, []geo.Coordinate{c(100, 100), c(200, 200)})
		assert.False(t, ok)
	})

	t.Run("box over the antimeridian", func(t *testing.T) {
		west := geo.CoordinateFromDegrees(10, 179.5)
		east := geo.CoordinateFromDegrees(11, -179.5)
		bbox := geo.BoundingBoxFromCoordinates([]geo.Coordinate{west, east})
		ring := []geo.Coordinate{
			geo.CoordinateFromDegrees(10.2, 179),
			geo.CoordinateFromDegrees(10.2, -179),
			geo.CoordinateFromDegrees(10.8, -179),
			geo.CoordinateFromDegrees(10.8, 179),
		}
		res, ok := ClosedFast(bbox, ring)
		require.True(t, ok)
		assert.Len(t, res, 4)
		assertContained(t, bbox, res)
	})
}

func TestClosedGeneral(t *testing.T) {
	t.Run("concave gives one ring per prong", func(t *testing.T) {
		res, ok := ClosedGeneral(box, prongs())
		require.True(t, ok)
		require.Len(t, res, 2)
		assert.ElementsMatch(t, []geo.Coordinate{c(1000, 900), c(200, 900), c(200, 700), c(1000, 700)}, res[0])
		assert.ElementsMatch(t, []geo.Coordinate{c(1000, 300), c(200, 300), c(200, 100), c(1000, 100)}, res[1])
	})

	t.Run("inside is unchanged", func(t *testing.T) {
		ring := []geo.Coordinate{c(100, 100), c(100, 900), c(900, 900), c(500, 500), c(900, 100), c(100, 100)}
		res, ok := ClosedGeneral(box, ring)
		require.True(t, ok)
		require.Len(t, res, 1)
		assert.Equal(t, ring[:5], res[0])
	})

	t.Run("box inside the ring", func(t *testing.T) {
		ring := []geo.Coordinate{c(-100, -100), c(-100, 1100), c(1100, 1100), c(1100, -100)}
		res, ok := ClosedGeneral(box, ring)
		require.True(t, ok)
		require.Len(t, res, 1)
		assert.ElementsMatch(t, []geo.Coordinate{c(0, 0), c(0, 1000), c(1000, 1000), c(1000, 0)}, res[0])
	})

	t.Run("disjoint", func(t *testing.T) {
		ring := []geo.Coordinate{c(2000, 2000), c(2000, 3000), c(3000, 3000)}
		_, ok := ClosedGeneral(box, ring)
		assert.False(t, ok)
	})

	t.Run("through a corner falls back", func(t *testing.T) {
		ring := []geo.Coordinate{c(-500, 500), c(500, -500), c(1500, 500), c(500, 1500)}
		res, ok := ClosedGeneral(box, ring)
		require.True(t, ok)
		assertContained(t, box, res...)
	})
}

func TestClipContainment(t *testing.T) {
	center := c(500, 500)
	for i, rot := range []float64{0, 0.3, 0.7, 1.1} {
		ring := star(center, 7, 300, 900, rot)

		fast, ok := ClosedFast(box, ring)
		require.True(t, ok, "star %d", i)
		assertContained(t, box, fast)

		general, ok := ClosedGeneral(box, ring)
		require.True(t, ok, "star %d", i)
		assertContained(t, box, general...)
	}
}

func TestOpenPolyline(t *testing.T) {
	tests := []struct {
		name string
		line []geo.Coordinate
		want [][]geo.Coordinate
	}{
		{
			name: "crossing straight through",
			line: []geo.Coordinate{c(500, -500), c(500, 1500)},
			want: [][]geo.Coordinate{{c(500, 0), c(500, 1000)}},
		},
		{
			name: "leaves and comes back",
			line: []geo.Coordinate{c(500, 100), c(500, 1500), c(800, 1500), c(800, 500)},
			want: [][]geo.Coordinate{
				{c(500, 100), c(500, 1000)},
				{c(800, 1000), c(800, 500)},
			},
		},
		{
			name: "two coordinates inside stay an open line",
			line: []geo.Coordinate{c(100, 100), c(200, 200)},
			want: [][]geo.Coordinate{{c(100, 100), c(200, 200)}},
		},
		{
			name: "outside",
			line: []geo.Coordinate{c(2000, 0), c(2000, 1000)},
			want: [][]geo.Coordinate{},
		},
		{
			name: "single coordinate",
			line: []geo.Coordinate{c(100, 100)},
			want: [][]geo.Coordinate{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OpenPolyline(box, tt.line))
		})
	}
}

func TestNormalize(t *testing.T) {
	ring := []geo.Coordinate{c(0, 0), c(0, 0), c(0, 10), c(10, 10), c(10, 10), c(0, 0)}

	res, ok := Normalize(ring, true)
	assert.True(t, ok)
	assert.Equal(t, []geo.Coordinate{c(0, 0), c(0, 10), c(10, 10)}, res)

	res, ok = Normalize(ring, false)
	assert.True(t, ok)
	assert.Equal(t, []geo.Coordinate{c(0, 0), c(0, 10), c(10, 10), c(0, 0)}, res)

	_, ok = Normalize([]geo.Coordinate{c(0, 0), c(0, 10), c(0, 0)}, true)
	assert.False(t, ok)

	_, ok = Normalize([]geo.Coordinate{c(0, 0), c(0, 0)}, false)
	assert.False(t, ok)
}
