package feature

import (
	"math"

	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
)

const (
	// largest delta per axis written into a 16 bit polygon
	MAX_COORD_DIFF = 0x7ffe
	// average segment length in meters above which a polygon is written with 32 bit deltas
	COORDS_16_MAX_SEGMENT_LENGTH = 650
)

// UseCoords16 decides the delta width of a polygon from its length and coordinate count.
func UseCoords16(lengthMeters float64, nbrCoords int) bool {
	if nbrCoords == 0 {
		return true
	}
	return !(lengthMeters/float64(nbrCoords) > COORDS_16_MAX_SEGMENT_LENGTH)
}

// Diagnostics are the counters of one assembly, logged by the caller.
type Diagnostics struct {
	Splits   int `json:"splits"`
	Coords   int `json:"coords"`
	Polygons int `json:"polygons"`
}

// Builder appends coordinates to the polygons of one feature at a time. It carries the
// Cohen-Sutherland outcodes of the last three coordinates so an open line can be thinned
// against the include box while it is being streamed in, and the previous pixel when only
// one coordinate per pixel is wanted.
//
// A Builder belongs to one request and is not safe for concurrent use.
type Builder struct {
	includeBox geo.BoundingBox
	proj       Projection
	screenX    uint32
	screenY    uint32
	force16    bool

	onePerPixel  bool
	prevPixelX   int
	prevPixelY   int
	typePerPixel map[uint32][]Type

	prevCode uint8
	currCode uint8
	nextCode uint8
	curr     geo.Coordinate

	start     geo.Coordinate
	prevAdded geo.Coordinate
	feature   *Feature

	diag Diagnostics
}

// NewBuilder. view is the requested box, includeBox the view grown by the margin. force16
// makes every clipped polygon use 16 bit deltas.
func NewBuilder(view, includeBox geo.BoundingBox, screenX, screenY uint32, force16 bool) *Builder {
	return &Builder{
		includeBox:   includeBox,
		proj:         NewProjection(view, screenX, screenY),
		screenX:      screenX,
		screenY:      screenY,
		force16:      force16,
		typePerPixel: make(map[uint32][]Type),
	}
}

func (b *Builder) IncludeBox() geo.BoundingBox {
	return b.includeBox
}

// SetOnePerPixel switches the pixel thinning on or off, the assembler sets it per pass.
func (b *Builder) SetOnePerPixel(on bool) {
	b.onePerPixel = on
}

func (b *Builder) OnePerPixel() bool {
	return b.onePerPixel
}

func (b *Builder) Diagnostics() Diagnostics {
	return b.diag
}

// BeginPolygon starts a new polygon in f with first as its first coordinate.
func (b *Builder) BeginPolygon(f *Feature, coords16 bool, approxSize int, first geo.Coordinate) {
	b.feature = f
	b.start = first
	b.prevAdded = first
	if b.onePerPixel {
		b.prevPixelX, b.prevPixelY = b.proj.Point(first)
	}
	f.AddNewPolygon(coords16, approxSize)
	f.AddCoordinateToLast(first)
	b.diag.Polygons++
	b.diag.Coords++
}

// AddCoordinate appends (lat, lon) to the current polygon. 16 bit polygons get extra points
// along the segment so that no delta is larger than MAX_COORD_DIFF.
func (b *Builder) AddCoordinate(lat, lon int32) {
	p := b.feature.LastPolygon()
	if p.Coords16 {
		latDiff := int64(lat) - int64(b.prevAdded.Lat)
		lonDiff := int64(int32(lon - b.prevAdded.Lon))
		at := b.prevAdded
		for latDiff > MAX_COORD_DIFF || latDiff < -MAX_COORD_DIFF ||
			lonDiff > MAX_COORD_DIFF || lonDiff < -MAX_COORD_DIFF {
			var tmpLat, tmpLon int64
			if abs64(latDiff) > abs64(lonDiff) {
				tmpLat = MAX_COORD_DIFF
				if latDiff < 0 {
					tmpLat = -MAX_COORD_DIFF
				}
				tmpLon = int64(math.Round(float64(tmpLat) * float64(lonDiff) / float64(latDiff)))
			} else {
				tmpLon = MAX_COORD_DIFF
				if lonDiff < 0 {
					tmpLon = -MAX_COORD_DIFF
				}
				tmpLat = int64(math.Round(float64(tmpLon) * float64(latDiff) / float64(lonDiff)))
			}
			at = geo.NewCoordinate(at.Lat+int32(tmpLat), at.Lon+int32(tmpLon))
			p.Coords = append(p.Coords, at)
			b.diag.Splits++
			b.diag.Coords++
			latDiff -= tmpLat
			lonDiff -= tmpLon
		}
	}
	p.Coords = append(p.Coords, geo.NewCoordinate(lat, lon))
	b.prevAdded = geo.NewCoordinate(lat, lon)
	b.diag.Coords++
}

// ClosePolygon marks the current polygon closed and adds the closing coordinate.
func (b *Builder) ClosePolygon() {
	b.feature.LastPolygon().Closed = true
	b.AddClosedCoordinate()
}

// AddClippedFirstCoordinate is BeginPolygon with the configured delta policy applied.
func (b *Builder) AddClippedFirstCoordinate(f *Feature, c geo.Coordinate, approxSize int, coords16 bool) {
	if b.force16 {
		coords16 = true
	}
	b.BeginPolygon(f, coords16, approxSize, c)
}

// AddClippedCoordinate adds c unless it ends up on the same pixel as the previous one.
func (b *Builder) AddClippedCoordinate(c geo.Coordinate) {
	x, y := 0, 0
	if b.onePerPixel {
		x, y = b.proj.Point(c)
		if x == b.prevPixelX && y == b.prevPixelY {
			return
		}
	}
	b.AddCoordinate(c.Lat, c.Lon)
	b.prevPixelX, b.prevPixelY = x, y
}

// AddFirstCoordinate starts a streamed open line. next is the second coordinate, it is
// held back until the coordinate after it is known.
func (b *Builder) AddFirstCoordinate(f *Feature, first, next geo.Coordinate, approxSize int, coords16 bool) {
	b.prevCode = b.includeBox.Outcode(first.Lat, first.Lon)
	b.currCode = b.includeBox.Outcode(next.Lat, next.Lon)
	b.nextCode = 0

	b.AddClippedFirstCoordinate(f, first, approxSize, coords16)
	b.curr = next
}

// AddPreviousCoordinate decides on the held back coordinate now that next is known, then
// holds back next.
func (b *Builder) AddPreviousCoordinate(next geo.Coordinate) {
	b.nextCode = b.includeBox.Outcode(next.Lat, next.Lon)
	if b.includeCoordinate() {
		b.AddClippedCoordinate(b.curr)
		b.prevCode = b.currCode
		b.currCode = b.nextCode
	}
	b.curr = next
}

// AddFinalCoordinate flushes the held back coordinate, using itself as its successor.
func (b *Builder) AddFinalCoordinate() {
	b.AddPreviousCoordinate(b.curr)
}

// AddClosedCoordinate repeats the first coordinate of the polygon.
func (b *Builder) AddClosedCoordinate() {
	b.AddClippedCoordinate(b.start)
}

// includeCoordinate drops a coordinate only when it and both neighbours lie outside the
// same side of the include box.
func (b *Builder) includeCoordinate() bool {
	return b.prevCode&b.currCode&b.nextCode == 0
}

// ManyFeaturesOnPixel reports whether a single coordinate feature lands on a pixel that
// already has a feature of the same type. The first feature on a pixel claims it.
func (b *Builder) ManyFeaturesOnPixel(f *Feature) bool {
	if !b.onePerPixel || len(f.Polygons) != 1 || len(f.Polygons[0].Coords) != 1 {
		return false
	}
	x, y := b.proj.Point(f.Polygons[0].Coords[0])
	if x < 0 || y < 0 || uint32(x) >= b.screenX || uint32(y) >= b.screenY {
		return false
	}
	pixelIdx := uint32(x) + uint32(y)*b.screenX
	for _, t := range b.typePerPixel[pixelIdx] {
		if t == f.Type {
			return true
		}
	}
	b.typePerPixel[pixelIdx] = append(b.typePerPixel[pixelIdx], f.Type)
	return false
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
