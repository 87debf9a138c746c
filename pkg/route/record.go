package route

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/databuffer"
)

// RecordSize is the wire size of every record.
const RecordSize = 12

// Point types written in the leading u16 of a record. The meta types have the high bit set.
const (
	TypeEPT           uint16 = 0x0000
	TypeSPT           uint16 = 0x0001
	TypeTPT           uint16 = 0x03fe
	TypeOrigin        uint16 = 0x8000
	TypeScale         uint16 = 0x8001
	TypeMini          uint16 = 0x8002
	TypeMicro         uint16 = 0x8003
	TypeMeta          uint16 = 0x8005
	TypeTimeDistLeft  uint16 = 0x8006
	TypeLandmark      uint16 = 0x8007
	TypeLaneInfo      uint16 = 0x8008
	TypeLaneData      uint16 = 0x8009
	TypeSignPost      uint16 = 0x800a
	metaTypeBit       uint16 = 0x8000
	turnCodeMask      uint16 = 0x03ff
	maxExitCount      uint8  = 31
	truncatedEPTFlags uint8  = 0xff
)

// Turn codes of waypoints the encoder itself looks at.
const (
	TurnFinally          uint16 = 0x0007
	TurnStartWithUTurn   uint16 = 0x0012
	noNameIndex          uint16 = 0xffff
	MetaAdditionalText   uint8  = 0x1
	MetaAdditionalSound  uint8  = 0x2
	MetaAdditionalTrack  uint8  = 0x3
	MetaSegmentedEndNear uint8  = 0x4
	MetaReportPoint      uint8  = 0x5
)

// Record is one 12 byte route datum.
type Record interface {
	Type() uint16
	write(buf *databuffer.DataBuffer)
}

func IsMeta(r Record) bool {
	return r.Type()&metaTypeBit != 0
}

// point is the part shared by waypoints and trackpoints. Lon and Lat are meters from the
// current origin.
type point struct {
	Lon       int16
	Lat       int16
	Flags     uint8
	Speed     uint8
	Meters    uint16
	NameIndex uint16
}

// setDistance fills in the meters to the next waypoint or trackpoint, once it is known.
func (p *point) setDistance(meters float64) {
	switch {
	case meters <= 0:
		p.Meters = 0
	case meters >= 0xffff:
		p.Meters = 0xffff
	default:
		p.Meters = uint16(meters)
	}
}

// WPT is a waypoint, a turn the driver is told about. SPT and EPT are waypoints too.
type WPT struct {
	point
	Action    uint16
	ExitCount uint8
	Crossing  uint8
}

func (w *WPT) Type() uint16 {
	return w.Action & turnCodeMask
}

// Truncating reports the EPT that marks where the coordinates stop.
func (w *WPT) Truncating() bool {
	return w.Action == TypeEPT && w.Flags == truncatedEPTFlags
}

func (w *WPT) write(buf *databuffer.DataBuffer) {
	exit := min(w.ExitCount, maxExitCount)
	buf.WriteUint16(w.Action&turnCodeMask | uint16(exit)<<10)
	if w.Flags == truncatedEPTFlags {
		buf.WriteUint8(truncatedEPTFlags)
	} else {
		buf.WriteUint8(w.Flags&0x0f | w.Crossing<<4)
	}
	writePoint(buf, &w.point)
}

func writePoint(buf *databuffer.DataBuffer, p *point) {
	buf.WriteUint8(p.Speed)
	buf.WriteInt16(p.Lon)
	buf.WriteInt16(p.Lat)
	buf.WriteUint16(p.Meters)
	buf.WriteUint16(p.NameIndex)
}

// TPT is a trackpoint, a coordinate where the speed or the road attributes change.
type TPT struct {
	point
}

func (t *TPT) Type() uint16 { return TypeTPT }

func (t *TPT) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeTPT)
	buf.WriteUint8(t.Flags)
	writePoint(buf, &t.point)
}

// Origin starts a new minimap. NextOrigo is the relative index of the next origin.
type Origin struct {
	NextOrigo int16
	Lon       int32
	Lat       int32
}

func (o *Origin) Type() uint16 { return TypeOrigin }

func (o *Origin) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeOrigin)
	buf.WriteInt16(o.NextOrigo)
	buf.WriteInt32(o.Lon)
	buf.WriteInt32(o.Lat)
}

// Scale follows every Origin. The longitude scale is IntegerPart + RestPart/65536 meters per
// radian, RefLon and RefLat the last coordinate on the previous minimap.
type Scale struct {
	RefLon      uint16
	RefLat      uint16
	RestPart    uint16
	IntegerPart uint32
}

func (s *Scale) Type() uint16 { return TypeScale }

func (s *Scale) value() float64 {
	return float64(s.IntegerPart) + float64(s.RestPart)/65536
}

func (s *Scale) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeScale)
	buf.WriteUint16(s.RefLon)
	buf.WriteUint16(s.RefLat)
	buf.WriteUint16(s.RestPart)
	buf.WriteUint32(s.IntegerPart)
}

// Mini holds two coordinates of the current minimap.
type Mini struct {
	Lon1, Lat1     int16
	Lon2, Lat2     int16
	Speed1, Speed2 uint8
}

func (m *Mini) Type() uint16 { return TypeMini }

func (m *Mini) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeMini)
	buf.WriteInt16(m.Lon1)
	buf.WriteInt16(m.Lat1)
	buf.WriteInt16(m.Lon2)
	buf.WriteInt16(m.Lat2)
	buf.WriteUint8(m.Speed1)
	buf.WriteUint8(m.Speed2)
}

// Micro holds up to five coordinates as deltas from the previous one. A 0,0 delta is unused.
type Micro struct {
	Deltas [5][2]int8
}

func (m *Micro) Type() uint16 { return TypeMicro }

func (m *Micro) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeMicro)
	for _, d := range m.Deltas {
		buf.WriteInt8(d[0])
		buf.WriteInt8(d[1])
	}
}

type Meta struct {
	Kind       uint8
	Flags      uint8
	A, B, C, D uint16
}

func (m *Meta) Type() uint16 { return TypeMeta }

func (m *Meta) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeMeta)
	buf.WriteUint8(m.Kind)
	buf.WriteUint8(m.Flags)
	buf.WriteUint16(m.A)
	buf.WriteUint16(m.B)
	buf.WriteUint16(m.C)
	buf.WriteUint16(m.D)
}

// TimeDistLeft follows every waypoint and trackpoint.
type TimeDistLeft struct {
	TimeLeft uint32
	DistLeft uint32
	Speed    uint8
}

func (t *TimeDistLeft) Type() uint16 { return TypeTimeDistLeft }

func (t *TimeDistLeft) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeTimeDistLeft)
	buf.WriteUint32(t.TimeLeft)
	buf.WriteUint32(t.DistLeft)
	buf.WriteUint8(t.Speed)
	buf.WriteUint8(0)
}

type LandmarkRecord struct {
	Detour   bool
	Start    bool
	Stop     bool
	Side     uint8
	Location uint8
	LMType   uint8
	Distance int32
	StrNbr   uint16
	// RouteID pairs the start and the stop record of one landmark
	RouteID uint16
	// ServerID is the landmark id of the map, not written
	ServerID uint32
}

func (l *LandmarkRecord) Type() uint16 { return TypeLandmark }

func (l *LandmarkRecord) bits() uint8 {
	var b uint8
	if l.Detour {
		b |= 0x80
	}
	if l.Start {
		b |= 0x40
	}
	if l.Stop {
		b |= 0x20
	}
	b |= (l.Side & 0x3) << 3
	b |= l.Location & 0x7
	return b
}

func (l *LandmarkRecord) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeLandmark)
	buf.WriteUint8(l.bits())
	buf.WriteUint8(l.LMType)
	buf.WriteInt32(l.Distance)
	buf.WriteUint16(l.StrNbr)
	buf.WriteUint16(l.RouteID)
}

// LaneInfo carries the first four lanes of a lane group, LaneData records the rest.
type LaneInfo struct {
	Stop     bool
	Reminder bool
	NbrLanes uint8
	Lanes    [4]uint8
	Distance int32
}

func (l *LaneInfo) Type() uint16 { return TypeLaneInfo }

func (l *LaneInfo) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeLaneInfo)
	var flags uint8
	if l.Stop {
		flags |= 0x1
	}
	if l.Reminder {
		flags |= 0x2
	}
	buf.WriteUint8(flags)
	buf.WriteUint8(l.NbrLanes)
	buf.WriteBytes(l.Lanes[:])
	buf.WriteInt32(l.Distance)
}

type LaneData struct {
	Lanes [10]uint8
}

func (l *LaneData) Type() uint16 { return TypeLaneData }

func (l *LaneData) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeLaneData)
	buf.WriteBytes(l.Lanes[:])
}

type SignPostRecord struct {
	StrNbr     uint16
	TextColor  uint8
	BackColor  uint8
	FrontColor uint8
	Distance   int32
}

func (s *SignPostRecord) Type() uint16 { return TypeSignPost }

func (s *SignPostRecord) write(buf *databuffer.DataBuffer) {
	buf.WriteUint16(TypeSignPost)
	buf.WriteUint16(s.StrNbr)
	buf.WriteUint8(s.TextColor)
	buf.WriteUint8(s.BackColor)
	buf.WriteUint8(s.FrontColor)
	buf.WriteUint8(0)
	buf.WriteInt32(s.Distance)
}
