package feature

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/osm-featuremap/pkg/databuffer"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
)

var (
	ErrDeltaOverflow = errors.New("coordinate delta does not fit 16 bits")
	ErrCorruptMap    = errors.New("corrupt feature map")
)

const (
	headerSize      = 4 + 4 + 4*4 + 4 + 1 + 1 + 1 + 4
	roadTrailerSize = 7
)

// Map is the feature map of one request. Features keep their append order, clients refer to
// route features by position.
type Map struct {
	ScreenX            uint32          `json:"screen_x"`
	ScreenY            uint32          `json:"screen_y"`
	BBox               geo.BoundingBox `json:"bbox"`
	Scale              uint32          `json:"scale"`
	TransportationType uint8           `json:"transportation_type"`
	DrivingOnRight     bool            `json:"driving_on_right"`
	StartingAngle      uint8           `json:"starting_angle"`
	Features           []*Feature      `json:"features"`
}

func NewMap() *Map {
	return &Map{
		Scale:          INVALID_SCALE_LEVEL,
		DrivingOnRight: true,
	}
}

func (m *Map) AddFeature(f *Feature) {
	m.Features = append(m.Features, f)
}

func (m *Map) NbrFeatures() int {
	return len(m.Features)
}

// CountByType is used by the describe endpoint.
func (m *Map) CountByType() map[string]int {
	res := make(map[string]int)
	for _, f := range m.Features {
		res[f.Type.String()]++
	}
	return res
}

// Size returns the number of bytes Save writes.
func (m *Map) Size() int {
	size := headerSize
	for _, f := range m.Features {
		size += featureSize(f)
	}
	return size
}

func featureSize(f *Feature) int {
	size := 2 + 2 + len(f.Name) + 2 + len(f.Basename) + 4 + 4 + 4
	for _, p := range f.Polygons {
		size += 1 + 1 + 4 + 4
		if n := len(p.Coords); n > 0 {
			size += 8
			if p.Coords16 {
				size += (n - 1) * 4
			} else {
				size += (n - 1) * 8
			}
		}
		if f.Type.IsRoad() {
			size += roadTrailerSize
		}
	}
	if f.Type == POI {
		size += 1 + 1 + 2 + 2
		if f.POI != nil {
			size += len(f.POI.ImageName) + 2*len(f.POI.Categories)
		}
	}
	return size
}

func (m *Map) Save(buf *databuffer.DataBuffer) error {
	buf.Grow(m.Size())
	buf.WriteUint32(m.ScreenX)
	buf.WriteUint32(m.ScreenY)
	buf.WriteInt32(m.BBox.MinLat)
	buf.WriteInt32(m.BBox.MinLon)
	buf.WriteInt32(m.BBox.MaxLat)
	buf.WriteInt32(m.BBox.MaxLon)
	buf.WriteUint32(m.Scale)
	buf.WriteUint8(m.TransportationType)
	buf.WriteBool(m.DrivingOnRight)
	buf.WriteUint8(m.StartingAngle)
	buf.WriteUint32(uint32(len(m.Features)))

	for i, f := range m.Features {
		if err := saveFeature(buf, f); err != nil {
			return fmt.Errorf("feature %d (%s): %w", i, f.Type, err)
		}
	}
	return nil
}

func saveFeature(buf *databuffer.DataBuffer, f *Feature) error {
	buf.WriteUint16(uint16(f.Type))
	buf.WriteString(f.Name)
	buf.WriteString(f.Basename)
	buf.WriteUint32(f.CountryCode)
	buf.WriteUint32(f.Scale)
	buf.WriteUint32(uint32(len(f.Polygons)))

	for _, p := range f.Polygons {
		if err := savePolygon(buf, p); err != nil {
			return err
		}
		if f.Type.IsRoad() {
			saveRoad(buf, p.Road)
		}
	}

	if f.Type == POI {
		poi := f.POI
		if poi == nil {
			poi = &POIInfo{ExtraInfo: math.MaxUint8}
		}
		buf.WriteUint8(poi.Type)
		buf.WriteUint8(poi.ExtraInfo)
		buf.WriteString(poi.ImageName)
		buf.WriteUint16(uint16(len(poi.Categories)))
		for _, c := range poi.Categories {
			buf.WriteUint16(c)
		}
	}
	return nil
}

func savePolygon(buf *databuffer.DataBuffer, p *Polygon) error {
	buf.WriteBool(p.Closed)
	buf.WriteBool(p.Coords16)
	buf.WriteUint32(uint32(len(p.Coords)))
	if len(p.Coords) > 0 {
		first := p.Coords[0]
		buf.WriteInt32(first.Lat)
		buf.WriteInt32(first.Lon)
		prev := first
		for _, c := range p.Coords[1:] {
			latDiff := c.Lat - prev.Lat
			lonDiff := c.Lon - prev.Lon
			if p.Coords16 {
				if !fits16(latDiff) || !fits16(lonDiff) {
					return fmt.Errorf("%w: (%d, %d)", ErrDeltaOverflow, latDiff, lonDiff)
				}
				buf.WriteInt16(int16(latDiff))
				buf.WriteInt16(int16(lonDiff))
			} else {
				buf.WriteInt32(latDiff)
				buf.WriteInt32(lonDiff)
			}
			prev = c
		}
	}
	buf.WriteUint32(p.Area)
	return nil
}

func fits16(d int32) bool {
	return d >= math.MinInt16 && d <= math.MaxInt16
}

func saveRoad(buf *databuffer.DataBuffer, r *RoadParams) {
	if r == nil {
		r = &RoadParams{}
	}
	var flags uint8
	if r.MultiDig {
		flags |= 0x01
	}
	if r.Ramp {
		flags |= 0x02
	}
	if r.Roundabout {
		flags |= 0x04
	}
	buf.WriteUint8(r.SpeedLimitPos)
	buf.WriteUint8(r.SpeedLimitNeg)
	buf.WriteUint8(flags)
	buf.WriteInt8(r.Level0)
	buf.WriteInt8(r.Level1)
	buf.WriteUint8(r.EntryRestr0)
	buf.WriteUint8(r.EntryRestr1)
}

// Load reads a map written by Save.
func Load(buf *databuffer.DataBuffer) (*Map, error) {
	m := NewMap()
	m.ScreenX = buf.ReadUint32()
	m.ScreenY = buf.ReadUint32()
	m.BBox.MinLat = buf.ReadInt32()
	m.BBox.MinLon = buf.ReadInt32()
	m.BBox.MaxLat = buf.ReadInt32()
	m.BBox.MaxLon = buf.ReadInt32()
	m.Scale = buf.ReadUint32()
	m.TransportationType = buf.ReadUint8()
	m.DrivingOnRight = buf.ReadBool()
	m.StartingAngle = buf.ReadUint8()
	nbrFeatures := buf.ReadUint32()
	if err := buf.Err(); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorruptMap, err)
	}

	for i := uint32(0); i < nbrFeatures; i++ {
		f, err := loadFeature(buf)
		if err != nil {
			return nil, fmt.Errorf("%w: feature %d: %v", ErrCorruptMap, i, err)
		}
		m.Features = append(m.Features, f)
	}
	return m, nil
}

func loadFeature(buf *databuffer.DataBuffer) (*Feature, error) {
	f := NewFeature(Type(buf.ReadUint16()))
	f.Name = buf.ReadString()
	f.Basename = buf.ReadString()
	f.CountryCode = buf.ReadUint32()
	f.Scale = buf.ReadUint32()
	nbrPolygons := buf.ReadUint32()
	if err := buf.Err(); err != nil {
		return nil, err
	}

	for i := uint32(0); i < nbrPolygons; i++ {
		p := &Polygon{
			Closed:   buf.ReadBool(),
			Coords16: buf.ReadBool(),
		}
		n := buf.ReadUint32()
		if err := buf.Err(); err != nil {
			return nil, err
		}
		if int(n) > buf.Remaining() {
			return nil, fmt.Errorf("polygon %d claims %d coordinates", i, n)
		}
		if n > 0 {
			p.Coords = make([]geo.Coordinate, 0, n)
			prev := geo.NewCoordinate(buf.ReadInt32(), buf.ReadInt32())
			p.Coords = append(p.Coords, prev)
			for j := uint32(1); j < n; j++ {
				var latDiff, lonDiff int32
				if p.Coords16 {
					latDiff = int32(buf.ReadInt16())
					lonDiff = int32(buf.ReadInt16())
				} else {
					latDiff = buf.ReadInt32()
					lonDiff = buf.ReadInt32()
				}
				prev = geo.NewCoordinate(prev.Lat+latDiff, prev.Lon+lonDiff)
				p.Coords = append(p.Coords, prev)
			}
		}
		p.Area = buf.ReadUint32()
		if f.Type.IsRoad() {
			p.Road = loadRoad(buf)
		}
		if err := buf.Err(); err != nil {
			return nil, err
		}
		f.Polygons = append(f.Polygons, p)
	}

	if f.Type == POI {
		poi := &POIInfo{
			Type:      buf.ReadUint8(),
			ExtraInfo: buf.ReadUint8(),
			ImageName: buf.ReadString(),
		}
		nbrCategories := int(buf.ReadUint16())
		for i := 0; i < nbrCategories && buf.Err() == nil; i++ {
			poi.Categories = append(poi.Categories, buf.ReadUint16())
		}
		f.POI = poi
	}
	return f, buf.Err()
}

func loadRoad(buf *databuffer.DataBuffer) *RoadParams {
	r := &RoadParams{
		SpeedLimitPos: buf.ReadUint8(),
		SpeedLimitNeg: buf.ReadUint8(),
	}
	flags := buf.ReadUint8()
	r.MultiDig = flags&0x01 != 0
	r.Ramp = flags&0x02 != 0
	r.Roundabout = flags&0x04 != 0
	r.Level0 = buf.ReadInt8()
	r.Level1 = buf.ReadInt8()
	r.EntryRestr0 = buf.ReadUint8()
	r.EntryRestr1 = buf.ReadUint8()
	return r
}
