package assembler

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
)

// extra room on top of the encoded map size
const EXTRA_LENGTH = 200

// Strategy is the server wide way of extracting features.
type Strategy struct {
	// Tile selects the country polygon filter level from the tile scale instead of the
	// fixed per scale level table.
	Tile bool
	// ConcaveClipper clips closed polygons with the general clipper. The include box then
	// has no margin.
	ConcaveClipper bool
	// HighEnd asks for a finer country polygon, tile strategy only.
	HighEnd bool
}

// RouteRequest is an already computed route, as item node ids in driving order.
type RouteRequest struct {
	// NodeIDs carry NODE1_BIT when the item is driven from node 1 to node 0. Ids with the
	// transportation prefix are changes of transportation.
	NodeIDs     []uint32
	StartOffset uint16
	EndOffset   uint16

	IgnoreStartOffset bool
	IgnoreEndOffset   bool
}

// Request for one feature map.
type Request struct {
	MapID     uint32
	BBox      geo.BoundingBox
	ScreenX   uint32
	ScreenY   uint32
	MinScale  uint32
	MaxScale  uint32
	FiltScale uint32
	Language  string

	ShowMap         bool
	ShowRoute       bool
	ShowPOI         bool
	ShowCityCentres bool

	IncludeCountryPolygon bool
	DrawOverviewContents  bool
	UseStreets            bool
	NavigatorCrossingMap  bool

	OnePerPixelMap   bool
	OnePerPixelRoute bool

	// nil includes every type
	IncludedTypes    map[feature.Type]bool
	IncludedPOITypes map[mapstore.POIType]bool

	// BufSize is the reply buffer the caller already has, the reply grows past it when needed.
	BufSize int

	Route *RouteRequest
}

func (r *Request) includeFeatureType(t feature.Type) bool {
	if r.IncludedTypes == nil {
		return true
	}
	return r.IncludedTypes[t]
}

func (r *Request) includePOIType(t mapstore.POIType) bool {
	if r.IncludedPOITypes == nil {
		return true
	}
	return r.IncludedPOITypes[t]
}

func (r *Request) hasRoute() bool {
	return r.Route != nil && len(r.Route.NodeIDs) > 0
}

type Status uint8

const (
	StatusOK Status = iota
	StatusMapNotFound
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusMapNotFound:
		return "MAPNOTFOUND"
	}
	return "UNKNOWN"
}

type Diagnostics struct {
	feature.Diagnostics
	Features int `json:"features"`
	Size     int `json:"size"`
}

// Reply of Generate. Buf holds the encoded Map.
type Reply struct {
	MapID       uint32
	Status      Status
	Copyright   string
	Map         *feature.Map
	Buf         []byte
	Diagnostics Diagnostics
}
