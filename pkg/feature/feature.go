package feature

import "github.com/lintang-b-s/osm-featuremap/pkg/geo"

// RoadParams is the per polygon trailer of street features.
type RoadParams struct {
	SpeedLimitPos uint8 `json:"speed_limit_pos"`
	SpeedLimitNeg uint8 `json:"speed_limit_neg"`
	MultiDig      bool  `json:"multi_dig"`
	Ramp          bool  `json:"ramp"`
	Roundabout    bool  `json:"roundabout"`
	Level0        int8  `json:"level0"`
	Level1        int8  `json:"level1"`
	EntryRestr0   uint8 `json:"entry_restr0"`
	EntryRestr1   uint8 `json:"entry_restr1"`
}

type POIInfo struct {
	Type       uint8    `json:"type"`
	ExtraInfo  uint8    `json:"extra_info"`
	ImageName  string   `json:"image_name,omitempty"`
	Categories []uint16 `json:"categories,omitempty"`
}

// Polygon keeps absolute coordinates, the deltas only exist on the wire.
type Polygon struct {
	Closed   bool             `json:"closed"`
	Coords16 bool             `json:"coords16"`
	Coords   []geo.Coordinate `json:"coords"`
	Area     uint32           `json:"area,omitempty"`
	Road     *RoadParams      `json:"road,omitempty"`
}

func (p *Polygon) NbrCoordinates() int {
	return len(p.Coords)
}

func (p *Polygon) Last() geo.Coordinate {
	return p.Coords[len(p.Coords)-1]
}

type Feature struct {
	Type        Type       `json:"type"`
	Scale       uint32     `json:"scale"`
	Name        string     `json:"name,omitempty"`
	Basename    string     `json:"basename,omitempty"`
	CountryCode uint32     `json:"country_code"`
	Polygons    []*Polygon `json:"polygons"`
	POI         *POIInfo   `json:"poi,omitempty"`
}

func NewFeature(t Type) *Feature {
	return &Feature{
		Type:  t,
		Scale: INVALID_SCALE_LEVEL,
	}
}

func NewNamedFeature(t Type, name string) *Feature {
	f := NewFeature(t)
	f.Name = name
	return f
}

// NewPointFeature is a feature with one single coordinate polygon, used for route origin,
// destination and park car markers.
func NewPointFeature(t Type, c geo.Coordinate) *Feature {
	f := NewFeature(t)
	f.AddNewPolygon(true, 1)
	f.AddCoordinateToLast(c)
	return f
}

func (f *Feature) NbrPolygons() int {
	return len(f.Polygons)
}

func (f *Feature) AddNewPolygon(coords16 bool, approxNbrCoords int) *Polygon {
	if approxNbrCoords < 1 {
		approxNbrCoords = 1
	}
	p := &Polygon{
		Coords16: coords16,
		Coords:   make([]geo.Coordinate, 0, approxNbrCoords),
	}
	f.Polygons = append(f.Polygons, p)
	return p
}

func (f *Feature) LastPolygon() *Polygon {
	if len(f.Polygons) == 0 {
		return nil
	}
	return f.Polygons[len(f.Polygons)-1]
}

// AddCoordinateToLast appends c to the last polygon as is. No delta splitting is done here,
// callers building 16 bit polygons go through the Builder.
func (f *Feature) AddCoordinateToLast(c geo.Coordinate) {
	p := f.LastPolygon()
	if p == nil {
		p = f.AddNewPolygon(true, 1)
	}
	p.Coords = append(p.Coords, c)
}

// RemoveLastPolygon drops a polygon that ended up degenerate.
func (f *Feature) RemoveLastPolygon() {
	if len(f.Polygons) > 0 {
		f.Polygons = f.Polygons[:len(f.Polygons)-1]
	}
}

func (f *Feature) NbrCoordinates() int {
	n := 0
	for _, p := range f.Polygons {
		n += len(p.Coords)
	}
	return n
}
