package mapstore

import (
	"context"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"golang.org/x/exp/slices"
)

// COUNTRY_MAP_BIT marks the ids of country overview maps.
const COUNTRY_MAP_BIT = 0x80000000

func IsCountryMapID(id uint32) bool {
	return id&COUNTRY_MAP_BIT != 0
}

// Map is the read only view of one map the feature extraction works on.
type Map interface {
	ID() uint32
	IsCountryMap() bool
	IsUnderviewMap() bool
	CountryCode() uint32
	NativeLanguages() []string
	DriveOnRightSide() bool
	// Gfx is the country polygon of a country map, nil otherwise.
	Gfx() *GfxData
	GfxFiltered() bool
	CountryName(lang string) string
	Copyright() string
	Item(id uint32) *Item
	ItemsWithZoom(zoom uint32) []*Item
	IDsWithinBBox(bbox geo.BoundingBox, kinds ...Kind) []uint32
	CityRanks() map[uint32]uint8
}

// Provider hands out loaded maps. Returns pkg.ErrMapNotFound for unknown ids.
type Provider interface {
	Map(ctx context.Context, id uint32) (Map, error)
}

// Header is the metadata of a map.
type Header struct {
	ID               uint32            `msgpack:"id"`
	Name             string            `msgpack:"n"`
	CountryCode      uint32            `msgpack:"cc"`
	NativeLanguages  []string          `msgpack:"nl,omitempty"`
	DriveOnRightSide bool              `msgpack:"dr"`
	CountryNames     map[string]string `msgpack:"cn,omitempty"`
	// every gfx of the map carries tile stacks
	GfxFiltered bool   `msgpack:"f"`
	Copyright   string `msgpack:"cp,omitempty"`
	// display class of the city centres by wasp id
	CityRanks map[uint32]uint8 `msgpack:"cr,omitempty"`
}

// indexEntry is one bounding box of an item in the r-tree. Items crossing the antimeridian
// get two entries.
type indexEntry struct {
	id   uint32
	kind Kind
	rect rtreego.Rect
}

func (e *indexEntry) Bounds() rtreego.Rect {
	return e.rect
}

// MemoryMap keeps all items of a map in memory with an r-tree over the item bounding boxes.
type MemoryMap struct {
	header Header
	gfx    *GfxData
	items  map[uint32]*Item
	byZoom [NBR_GFX_ZOOMLEVELS][]*Item
	rtree  *rtreego.Rtree
}

func NewMemoryMap(header Header, gfx *GfxData) *MemoryMap {
	return &MemoryMap{
		header: header,
		gfx:    gfx,
		items:  make(map[uint32]*Item),
		rtree:  rtreego.NewTree(2, 25, 50),
	}
}

// minimum side of an index rectangle, rtreego does not take empty rects
const minRectSide = 1.0

func rectFor(minLat, maxLat, minLon, maxLon float64) rtreego.Rect {
	lengths := []float64{math.Max(maxLon-minLon, minRectSide), math.Max(maxLat-minLat, minRectSide)}
	rect, _ := rtreego.NewRect(rtreego.Point{minLon, minLat}, lengths)
	return rect
}

// rects splits a box over the antimeridian into two.
func rects(bb geo.BoundingBox) []rtreego.Rect {
	minLat, maxLat := float64(bb.MinLat), float64(bb.MaxLat)
	if bb.MinLon <= bb.MaxLon {
		return []rtreego.Rect{rectFor(minLat, maxLat, float64(bb.MinLon), float64(bb.MaxLon))}
	}
	return []rtreego.Rect{
		rectFor(minLat, maxLat, float64(bb.MinLon), math.MaxInt32),
		rectFor(minLat, maxLat, math.MinInt32, float64(bb.MaxLon)),
	}
}

// AddItem stores item and indexes its bounding box. Items must not be modified afterwards.
func (m *MemoryMap) AddItem(item *Item) {
	if item.Gfx != nil {
		item.Gfx.Prepare()
	}
	m.items[item.ID] = item
	zoom := item.Zoom()
	if zoom < NBR_GFX_ZOOMLEVELS {
		m.byZoom[zoom] = append(m.byZoom[zoom], item)
	}

	bbox := geo.EmptyBoundingBox()
	if item.Gfx != nil {
		bbox = item.Gfx.BBox()
	} else if c := item.Coordinate(); c.IsValid() {
		bbox.Update(c.Lat, c.Lon)
	}
	if !bbox.IsValid() {
		return
	}
	for _, r := range rects(bbox) {
		m.rtree.Insert(&indexEntry{id: item.ID, kind: item.Kind, rect: r})
	}
}

func (m *MemoryMap) Header() Header {
	return m.header
}

func (m *MemoryMap) ID() uint32 {
	return m.header.ID
}

func (m *MemoryMap) IsCountryMap() bool {
	return IsCountryMapID(m.header.ID)
}

// IsUnderviewMap reports the detailed maps below the country overview.
func (m *MemoryMap) IsUnderviewMap() bool {
	return !m.IsCountryMap()
}

func (m *MemoryMap) CountryCode() uint32 {
	return m.header.CountryCode
}

func (m *MemoryMap) NativeLanguages() []string {
	return m.header.NativeLanguages
}

func (m *MemoryMap) DriveOnRightSide() bool {
	return m.header.DriveOnRightSide
}

func (m *MemoryMap) Gfx() *GfxData {
	return m.gfx
}

func (m *MemoryMap) GfxFiltered() bool {
	return m.header.GfxFiltered
}

// CountryName returns the country name in lang, then in english.
func (m *MemoryMap) CountryName(lang string) string {
	if n, ok := m.header.CountryNames[lang]; ok {
		return n
	}
	return m.header.CountryNames["en"]
}

func (m *MemoryMap) Copyright() string {
	return m.header.Copyright
}

func (m *MemoryMap) CityRanks() map[uint32]uint8 {
	return m.header.CityRanks
}

func (m *MemoryMap) SetCityRanks(ranks map[uint32]uint8) {
	m.header.CityRanks = ranks
}

func (m *MemoryMap) Item(id uint32) *Item {
	return m.items[id]
}

func (m *MemoryMap) ItemsWithZoom(zoom uint32) []*Item {
	if zoom >= NBR_GFX_ZOOMLEVELS {
		return nil
	}
	return m.byZoom[zoom]
}

// Items returns every item ordered by id.
func (m *MemoryMap) Items() []*Item {
	res := make([]*Item, 0, len(m.items))
	for _, it := range m.items {
		res = append(res, it)
	}
	slices.SortFunc(res, func(a, b *Item) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return res
}

func (m *MemoryMap) NbrItems() int {
	return len(m.items)
}

// IDsWithinBBox returns the sorted ids of the items of the given kinds whose bounding box
// overlaps bbox. No kinds means every kind.
func (m *MemoryMap) IDsWithinBBox(bbox geo.BoundingBox, kinds ...Kind) []uint32 {
	if !bbox.IsValid() {
		return nil
	}
	seen := make(map[uint32]struct{})
	var res []uint32
	for _, r := range rects(bbox) {
		for _, s := range m.rtree.SearchIntersect(r) {
			e := s.(*indexEntry)
			if len(kinds) > 0 && !slices.Contains(kinds, e.kind) {
				continue
			}
			if _, ok := seen[e.id]; ok {
				continue
			}
			seen[e.id] = struct{}{}
			res = append(res, e.id)
		}
	}
	slices.Sort(res)
	return res
}
