package mapstore

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/filter"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
)

const (
	ITEMID_MASK = 0x7ffffff
	// set on a route node id when the coordinates run from node 1 to node 0
	NODE1_BIT = 0x80000000
	// route node ids with this prefix carry a transportation state instead of an item
	TRANSPORTATION_PREFIX = 0xf0000000
)

const InvalidWaspID uint32 = 0xffffffff

func ZoomLevel(id uint32) uint32 {
	return (id >> 27) & 0x1f
}

func MakeItemID(zoom, index uint32) uint32 {
	return (zoom&0x1f)<<27 | (index & ITEMID_MASK)
}

// IsTransportationNode reports whether a route node id is a transportation change.
func IsTransportationNode(nodeID uint32) bool {
	return nodeID&0xf0000000 == TRANSPORTATION_PREFIX
}

func TransportationState(nodeID uint32) uint8 {
	return uint8(nodeID & 0xff)
}

func TransportationNode(state uint8) uint32 {
	return TRANSPORTATION_PREFIX | uint32(state)
}

func IsNode0(nodeID uint32) bool {
	return nodeID&NODE1_BIT == 0
}

// Polygon of a gfx data. The closing coordinate is not repeated.
type Polygon struct {
	Coords []geo.Coordinate `msgpack:"c"`
	Closed bool             `msgpack:"cl"`
}

// GfxData is the geometry of one item, or the country polygon of a country map. Read only
// after the map is built.
type GfxData struct {
	Polygons []Polygon `msgpack:"p"`
	// country overview filter levels, meters from filter.LegacyCountryLevels
	Stacks *filter.Stacks `msgpack:"s,omitempty"`
	// map gfx filter levels, indexed by filter level
	TileStacks *filter.Stacks `msgpack:"t,omitempty"`

	bbox   geo.BoundingBox
	length []float64
}

func NewGfxData(polys ...Polygon) *GfxData {
	g := &GfxData{Polygons: polys}
	g.Prepare()
	return g
}

// Prepare computes the derived bounding box and lengths. Called after decoding.
func (g *GfxData) Prepare() {
	g.bbox = geo.EmptyBoundingBox()
	g.length = make([]float64, len(g.Polygons))
	for i, p := range g.Polygons {
		for _, c := range p.Coords {
			g.bbox.Update(c.Lat, c.Lon)
		}
		g.length[i] = g.polyLength(i)
	}
}

func (g *GfxData) polyLength(poly int) float64 {
	p := g.Polygons[poly]
	l := filter.PolyLength(p.Coords)
	if p.Closed && len(p.Coords) > 2 {
		l += geo.Distance(p.Coords[len(p.Coords)-1], p.Coords[0])
	}
	return l
}

func (g *GfxData) NbrPolygons() int {
	return len(g.Polygons)
}

func (g *GfxData) NbrCoordinates(poly int) int {
	return len(g.Polygons[poly].Coords)
}

func (g *GfxData) TotalNbrCoordinates() int {
	n := 0
	for _, p := range g.Polygons {
		n += len(p.Coords)
	}
	return n
}

func (g *GfxData) Coords(poly int) []geo.Coordinate {
	return g.Polygons[poly].Coords
}

func (g *GfxData) Coord(poly, i int) geo.Coordinate {
	return g.Polygons[poly].Coords[i]
}

// Closed is the closed flag of the gfx, taken from the first polygon.
func (g *GfxData) Closed() bool {
	return len(g.Polygons) > 0 && g.Polygons[0].Closed
}

func (g *GfxData) PolygonClosed(poly int) bool {
	return g.Polygons[poly].Closed
}

func (g *GfxData) BBox() geo.BoundingBox {
	if g.length == nil {
		g.Prepare()
	}
	return g.bbox
}

func (g *GfxData) PolygonBBox(poly int) geo.BoundingBox {
	return geo.BoundingBoxFromCoordinates(g.Polygons[poly].Coords)
}

// Length of poly in meters, closing segment included for closed polygons.
func (g *GfxData) Length(poly int) float64 {
	if g.length == nil {
		g.Prepare()
	}
	return g.length[poly]
}

func (g *GfxData) TotalLength() float64 {
	l := 0.0
	for i := range g.Polygons {
		l += g.Length(i)
	}
	return l
}

// PolygonArea is the signed area of poly in square meters.
func (g *GfxData) PolygonArea(poly int) float64 {
	return filter.PolygonArea(g.Polygons[poly].Coords)
}

func (g *GfxData) PolygonCentroid(poly int) geo.Coordinate {
	return filter.PolygonCentroid(g.Polygons[poly].Coords)
}

// CoordinateAt returns the coordinate at offset along the first polygon and the index of
// the coordinate following it.
func (g *GfxData) CoordinateAt(offset uint16) (geo.Coordinate, int) {
	return filter.CoordinateAtOffset(g.Polygons[0].Coords, offset)
}

// Angle is the direction in degrees clockwise from north of the first polygon at offset.
func (g *GfxData) Angle(offset uint16) float64 {
	return filter.AngleAtOffset(g.Polygons[0].Coords, offset)
}

// PolySizes lists the coordinate count of each polygon, used to validate the stacks.
func (g *GfxData) PolySizes() []int {
	res := make([]int, len(g.Polygons))
	for i, p := range g.Polygons {
		res[i] = len(p.Coords)
	}
	return res
}

// RoadAttrs are read from street segments and streets.
type RoadAttrs struct {
	RoadClass     uint8            `msgpack:"rc"`
	DisplayClass  RoadDisplayClass `msgpack:"dc"`
	Ramp          bool             `msgpack:"ra"`
	Roundabout    bool             `msgpack:"ro"`
	MultiDig      bool             `msgpack:"md"`
	Level0        int8             `msgpack:"l0"`
	Level1        int8             `msgpack:"l1"`
	SpeedLimitPos uint8            `msgpack:"sp"`
	SpeedLimitNeg uint8            `msgpack:"sn"`
	EntryRestr0   uint8            `msgpack:"e0"`
	EntryRestr1   uint8            `msgpack:"e1"`
	PartOfStreet  bool             `msgpack:"ps"`
	// road class of every polygon of a street item
	PolygonRoadClass []uint8 `msgpack:"pr,omitempty"`
}

type POIAttrs struct {
	Type         POIType  `msgpack:"t"`
	DisplayClass uint8    `msgpack:"dc"`
	ImageName    string   `msgpack:"im,omitempty"`
	Categories   []uint16 `msgpack:"ca,omitempty"`
	WaspID       uint32   `msgpack:"w"`
	CountryCode  uint32   `msgpack:"cc"`
	// the poi may only be shown with its own image
	NeedsImage bool           `msgpack:"ni,omitempty"`
	Coord      geo.Coordinate `msgpack:"co"`
}

type AreaAttrs struct {
	DisplayClass  AreaDisplayClass `msgpack:"dc"`
	ParkType      uint8            `msgpack:"pt"`
	CartoType     CartoType        `msgpack:"ct"`
	ParkingGarage bool             `msgpack:"pg,omitempty"`
}

// Item is one map item. Exactly the attribute pointer matching Kind is set, items without
// attributes of their own leave all of them nil.
type Item struct {
	ID    uint32            `msgpack:"i"`
	Kind  Kind              `msgpack:"k"`
	Gfx   *GfxData          `msgpack:"g,omitempty"`
	Names map[string]string `msgpack:"n,omitempty"`
	Road  *RoadAttrs        `msgpack:"r,omitempty"`
	POI   *POIAttrs         `msgpack:"p,omitempty"`
	Area  *AreaAttrs        `msgpack:"a,omitempty"`
}

func (it *Item) Zoom() uint32 {
	return ZoomLevel(it.ID)
}

// Name returns the name in lang, falling back to the given languages in order.
func (it *Item) Name(lang string, fallback ...string) string {
	if n, ok := it.Names[lang]; ok {
		return n
	}
	for _, l := range fallback {
		if n, ok := it.Names[l]; ok {
			return n
		}
	}
	return ""
}

func (it *Item) RoadClass() uint8 {
	if it.Road == nil {
		return FourthClassRoad
	}
	return it.Road.RoadClass
}

func (it *Item) PolygonRoadClass(poly int) uint8 {
	if it.Road == nil || poly >= len(it.Road.PolygonRoadClass) {
		return it.RoadClass()
	}
	return it.Road.PolygonRoadClass[poly]
}

func (it *Item) AreaDisplayClass() AreaDisplayClass {
	if it.Area == nil {
		return AreaDisplayNone
	}
	return it.Area.DisplayClass
}

func (it *Item) POIType() POIType {
	if it.POI == nil {
		return POIUnknown
	}
	return it.POI.Type
}

// Coordinate is the first coordinate of the gfx, or the stored poi coordinate.
func (it *Item) Coordinate() geo.Coordinate {
	if it.Gfx != nil && it.Gfx.NbrPolygons() > 0 && it.Gfx.NbrCoordinates(0) > 0 {
		return it.Gfx.Coord(0, 0)
	}
	if it.POI != nil {
		return it.POI.Coord
	}
	return geo.InvalidCoordinate
}
