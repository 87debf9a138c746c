package geo

import "math"

type Coordinate struct {
	Lat int32 `msgpack:"a"`
	Lon int32 `msgpack:"o"`
}

var InvalidCoordinate = Coordinate{Lat: math.MaxInt32, Lon: math.MaxInt32}

func NewCoordinate(lat, lon int32) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// CoordinateFromDegrees converts WGS84 degrees to MC2. Longitude 180 wraps to -180.
func CoordinateFromDegrees(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: int32(int64(math.Round(lat * DEG_TO_MC2))),
		Lon: int32(int64(math.Round(lon * DEG_TO_MC2))),
	}
}

func (c Coordinate) Degrees() (float64, float64) {
	return float64(c.Lat) * MC2_TO_DEG, float64(c.Lon) * MC2_TO_DEG
}

func (c Coordinate) IsValid() bool {
	return c.Lat != math.MaxInt32
}

// BoundingBox in MC2. Longitude may wrap, MinLon > MaxLon is a box crossing the antimeridian.
type BoundingBox struct {
	MinLat int32 `msgpack:"a"`
	MaxLat int32 `msgpack:"b"`
	MinLon int32 `msgpack:"c"`
	MaxLon int32 `msgpack:"d"`
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon int32) BoundingBox {
	return BoundingBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLon: minLon,
		MaxLon: maxLon,
	}
}

// EmptyBoundingBox returns a box that becomes valid on the first Update.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{
		MinLat: math.MaxInt32,
		MaxLat: math.MinInt32,
		MinLon: math.MaxInt32,
		MaxLon: math.MinInt32,
	}
}

func BoundingBoxFromCoordinates(coords []Coordinate) BoundingBox {
	bb := EmptyBoundingBox()
	for _, c := range coords {
		bb.Update(c.Lat, c.Lon)
	}
	return bb
}

func (bb *BoundingBox) IsValid() bool {
	return bb.MinLat <= bb.MaxLat
}

// Update grows the box to contain (lat, lon). Longitudes are compared by signed difference
// so a box growing over the antimeridian keeps a small width.
func (bb *BoundingBox) Update(lat, lon int32) {
	if !bb.IsValid() {
		bb.MinLat, bb.MaxLat = lat, lat
		bb.MinLon, bb.MaxLon = lon, lon
		return
	}
	if lat < bb.MinLat {
		bb.MinLat = lat
	}
	if lat > bb.MaxLat {
		bb.MaxLat = lat
	}
	if bb.lonInside(lon) {
		return
	}
	if int32(lon-bb.MinLon) < 0 {
		bb.MinLon = lon
	}
	if int32(lon-bb.MaxLon) > 0 {
		bb.MaxLon = lon
	}
}

func (bb *BoundingBox) UpdateBox(other BoundingBox) {
	if !other.IsValid() {
		return
	}
	bb.Update(other.MinLat, other.MinLon)
	bb.Update(other.MaxLat, other.MaxLon)
}

func (bb BoundingBox) Width() uint32 {
	return uint32(bb.MaxLon - bb.MinLon)
}

func (bb BoundingBox) Height() uint32 {
	return uint32(int64(bb.MaxLat) - int64(bb.MinLat))
}

func (bb BoundingBox) lonInside(lon int32) bool {
	return uint32(lon-bb.MinLon) <= bb.Width()
}

func (bb BoundingBox) Contains(lat, lon int32) bool {
	if lat < bb.MinLat || lat > bb.MaxLat {
		return false
	}
	return bb.lonInside(lon)
}

func (bb BoundingBox) ContainsCoordinate(c Coordinate) bool {
	return bb.Contains(c.Lat, c.Lon)
}

func (bb BoundingBox) Overlaps(other BoundingBox) bool {
	if other.MinLat > bb.MaxLat || other.MaxLat < bb.MinLat {
		return false
	}
	return bb.lonInside(other.MinLon) || other.lonInside(bb.MinLon)
}

// Inside reports whether bb lies completely inside other.
func (bb BoundingBox) Inside(other BoundingBox) bool {
	if bb.MinLat < other.MinLat || bb.MaxLat > other.MaxLat {
		return false
	}
	if !other.lonInside(bb.MinLon) {
		return false
	}
	return uint64(uint32(bb.MinLon-other.MinLon))+uint64(bb.Width()) <= uint64(other.Width())
}

// Extend grows the box by d on every side.
func (bb BoundingBox) Extend(d int32) BoundingBox {
	return BoundingBox{
		MinLat: clampLat(int64(bb.MinLat) - int64(d)),
		MaxLat: clampLat(int64(bb.MaxLat) + int64(d)),
		MinLon: bb.MinLon - d,
		MaxLon: bb.MaxLon + d,
	}
}

func clampLat(v int64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

func (bb BoundingBox) Center() Coordinate {
	return Coordinate{
		Lat: int32((int64(bb.MinLat) + int64(bb.MaxLat)) / 2),
		Lon: bb.MinLon + int32(bb.Width()/2),
	}
}

func (bb BoundingBox) CosLat() float64 {
	return CosLat(bb.Center().Lat)
}

// Outcode returns the Cohen-Sutherland bits of (lat, lon) relative to the box.
func (bb BoundingBox) Outcode(lat, lon int32) uint8 {
	var code uint8
	if lat < bb.MinLat {
		code |= OUTCODE_BOTTOM
	} else if lat > bb.MaxLat {
		code |= OUTCODE_TOP
	}
	if !bb.lonInside(lon) {
		// nearest side wins
		if uint32(bb.MinLon-lon) < uint32(lon-bb.MaxLon) {
			code |= OUTCODE_LEFT
		} else {
			code |= OUTCODE_RIGHT
		}
	}
	return code
}
