package route

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
)

// Attribute flags of a coordinate, the low nibble of the WPT and TPT flags byte.
const (
	AttrHighway     uint8 = 0x01
	AttrLeftTraffic uint8 = 0x02
)

// Lane directions, the low bits of a lane byte.
const (
	LaneNoDirection uint8 = 0x00
	LaneUTurnLeft   uint8 = 0x01
	LaneSharpLeft   uint8 = 0x02
	LaneLeft        uint8 = 0x03
	LaneHalfLeft    uint8 = 0x04
	LaneAhead       uint8 = 0x05
	LaneHalfRight   uint8 = 0x06
	LaneRight       uint8 = 0x07
	LaneSharpRight  uint8 = 0x08
	LaneUTurnRight  uint8 = 0x09

	lanePreferredBit uint8 = 0x80
	laneNotCarBit    uint8 = 0x40
)

// Element is one step of a computed route: the coordinates driven from the previous turn up
// to and including the turn itself. The first coordinate of element i is the turn of element
// i-1.
type Element struct {
	Coords []geo.Coordinate
	// Speeds and Attributes are per coordinate, a missing entry repeats the last one.
	Speeds     []uint8
	Attributes []uint8

	Turn      uint16
	ExitCount uint8
	Crossing  uint8
	// NameChange marks a turn that only changes the road name, it is sent as a trackpoint.
	NameChange bool

	// Dist in meters and Time in seconds of the element.
	Dist uint32
	Time uint32
	// Text is the string table index of the road name.
	Text uint16

	Landmarks []Landmark
	Lanes     []LaneGroup
	SignPosts []SignPost
}

func (e *Element) speed(j int) uint8 {
	if len(e.Speeds) == 0 {
		return 0
	}
	return e.Speeds[min(j, len(e.Speeds)-1)]
}

func (e *Element) attribute(j int) uint8 {
	if len(e.Attributes) == 0 {
		return 0
	}
	return e.Attributes[min(j, len(e.Attributes)-1)]
}

type Landmark struct {
	// ID identifies the landmark on the map, a landmark spanning several elements has a start
	// and a stop with the same ID.
	ID       uint32
	Detour   bool
	Start    bool
	Stop     bool
	Side     uint8
	Type     uint8
	Location uint8
	Distance int32
	Text     string
}

type Lane struct {
	Direction uint8
	Preferred bool
	NotCar    bool
}

func (l Lane) byte() uint8 {
	b := l.Direction & 0x3f
	if l.Preferred {
		b |= lanePreferredBit
	}
	if l.NotCar {
		b |= laneNotCarBit
	}
	return b
}

// LaneGroup is the lanes of the road at Distance meters before the turn.
type LaneGroup struct {
	Lanes       []Lane
	StopOfLanes bool
	Distance    int32
}

type SignPost struct {
	Text       string
	Exit       bool
	TextColor  uint8
	BackColor  uint8
	FrontColor uint8
	Distance   int32
}

// StringTable holds the strings the records refer to by index. Equal strings share an index.
type StringTable struct {
	strs  []string
	index map[string]uint16
}

func NewStringTable(strs ...string) *StringTable {
	t := &StringTable{index: make(map[string]uint16)}
	for _, s := range strs {
		t.Add(s)
	}
	return t
}

func (t *StringTable) Add(s string) uint16 {
	if i, ok := t.index[s]; ok {
		return i
	}
	i := uint16(len(t.strs))
	t.strs = append(t.strs, s)
	t.index[s] = i
	return i
}

func (t *StringTable) Strings() []string {
	return t.strs
}

func (t *StringTable) Len() int {
	return len(t.strs)
}

// size is the bytes of the strings with their terminators.
func (t *StringTable) size() int {
	n := 0
	for _, s := range t.strs {
		n += len(s) + 1
	}
	return n
}
