package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func yogyaRing() []Coordinate {
	polygon := [][]float64{
		{-7.8236786093625454, 110.32093322132368},
		{-7.829740180582352, 110.35293804508764},
		{-7.826476268571158, 110.4094171458476},
		{-7.7821777971150485, 110.4098878050206},
		{-7.7821777971150485, 110.43012614945958},
		{-7.763058061783706, 110.43012614945958},
		{-7.742538353844481, 110.34211288410864},
	}
	ring := make([]Coordinate, len(polygon))
	for i, p := range polygon {
		ring[i] = CoordinateFromDegrees(p[0], p[1])
	}
	return ring
}

func TestIsPointInsidePolygon(t *testing.T) {
	ring := yogyaRing()

	t.Run("point inside bounding box", func(t *testing.T) {
		bb := BoundingBoxFromCoordinates(ring)
		assert.True(t, bb.ContainsCoordinate(CoordinateFromDegrees(-7.786841015007818, 110.35482068177964)))
	})

	t.Run("point outside bounding box", func(t *testing.T) {
		bb := BoundingBoxFromCoordinates(ring)
		assert.False(t, bb.ContainsCoordinate(CoordinateFromDegrees(-7.709038594647804, 110.5904486305967)))
	})

	t.Run("point inside polygon", func(t *testing.T) {
		assert.True(t, IsPointInPolygon(CoordinateFromDegrees(-7.786841015007818, 110.35482068177964), ring))
	})

	t.Run("point outside polygon", func(t *testing.T) {
		assert.False(t, IsPointInPolygon(CoordinateFromDegrees(-7.709038594647804, 110.5904486305967), ring))
	})
}

func TestBoundingBoxWrap(t *testing.T) {
	west := CoordinateFromDegrees(10, 179.5)
	east := CoordinateFromDegrees(11, -179.5)

	bb := BoundingBoxFromCoordinates([]Coordinate{west, east})
	assert.Equal(t, west.Lon, bb.MinLon)
	assert.Equal(t, east.Lon, bb.MaxLon)
	assert.InDelta(t, 1.0, float64(bb.Width())*MC2_TO_DEG, 1e-6)

	assert.True(t, bb.ContainsCoordinate(CoordinateFromDegrees(10.5, 180)))
	assert.False(t, bb.ContainsCoordinate(CoordinateFromDegrees(10.5, 0)))

	other := NewBoundingBox(west.Lat, CoordinateFromDegrees(0, 179.9).Lon, east.Lat, CoordinateFromDegrees(0, -179.9).Lon)
	assert.True(t, other.Inside(bb))
	assert.False(t, bb.Inside(other))
	assert.True(t, bb.Overlaps(other))
}

func TestOutcode(t *testing.T) {
	bb := NewBoundingBox(0, 0, 1000, 1000)
	tests := []struct {
		name     string
		lat, lon int32
		want     uint8
	}{
		{"inside", 500, 500, 0},
		{"left", 500, -10, OUTCODE_LEFT},
		{"right", 500, 1010, OUTCODE_RIGHT},
		{"bottom left", -5, -5, OUTCODE_BOTTOM | OUTCODE_LEFT},
		{"top right", 2000, 2000, OUTCODE_TOP | OUTCODE_RIGHT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bb.Outcode(tt.lat, tt.lon))
		})
	}
}

func TestDistances(t *testing.T) {
	a := CoordinateFromDegrees(0, 0)
	b := CoordinateFromDegrees(0, 1)
	// one degree of longitude at the equator
	assert.InDelta(t, 111319.49, Distance(a, b), 1)

	angle, ok := AngleFromNorth(a, b)
	assert.True(t, ok)
	assert.InDelta(t, math.Pi/2, angle, 1e-9)

	_, ok = AngleFromNorth(a, a)
	assert.False(t, ok)

	mid := CoordinateFromDegrees(0.001, 0.5)
	assert.InDelta(t, ClosestDistVectorToPoint(a, b, mid, 1), CrossDistance(mid, a, b), 1)
}

func TestSphericalArea(t *testing.T) {
	ring := []Coordinate{
		CoordinateFromDegrees(0, 0),
		CoordinateFromDegrees(0, 0.01),
		CoordinateFromDegrees(0.01, 0.01),
		CoordinateFromDegrees(0.01, 0),
	}
	side := 0.01 * math.Pi / 180 * EARTH_RADIUS
	assert.InEpsilon(t, side*side, SphericalArea(ring), 0.01)
}
