package route

import (
	"math"
	"testing"

	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	turnStartAt uint16 = 0x0006
	turnAhead   uint16 = 0x0002
	turnLeft    uint16 = 0x0003
	turnRight   uint16 = 0x0004
)

// eastbound builds a route along latitude 59 with nbrElements elements of steps coordinate
// steps each, stepMeters apart.
func eastbound(nbrElements, steps int, stepMeters float64) ([]Element, *StringTable) {
	strs := NewStringTable("Start", "Kungsgatan", "Vasagatan")
	stepDeg := stepMeters / (geo.EARTH_RADIUS * math.Cos(59*math.Pi/180)) * 180 / math.Pi
	coord := func(k int) geo.Coordinate {
		return geo.CoordinateFromDegrees(59, 18+float64(k)*stepDeg)
	}

	list := []Element{{
		Coords: []geo.Coordinate{coord(0)},
		Turn:   turnStartAt,
		Speeds: []uint8{80},
	}}
	for i := 1; i < nbrElements; i++ {
		el := Element{
			Turn:   []uint16{turnAhead, turnLeft, turnRight}[i%3],
			Speeds: []uint8{80},
			Dist:   uint32(float64(steps) * stepMeters),
			Time:   10,
			Text:   uint16(1 + i%2),
		}
		for k := 0; k <= steps; k++ {
			el.Coords = append(el.Coords, coord((i-1)*steps+k))
		}
		list = append(list, el)
	}
	return list, strs
}

func testEncoder() *Encoder {
	return NewEncoder(zap.NewNop())
}

func recordsOf[T Record](records []Record) []T {
	var res []T
	for _, r := range records {
		if t, ok := r.(T); ok {
			res = append(res, t)
		}
	}
	return res
}

func TestEncodeShortRoute(t *testing.T) {
	list, strs := eastbound(1, 4, 20)
	_, err := testEncoder().Encode(list, strs, DefaultOptions())
	assert.ErrorIs(t, err, ErrRouteTooShort)

	list, strs = eastbound(3, 4, 20)
	list[1].Coords = nil
	_, err = testEncoder().Encode(list, strs, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoCoordinates)
}

func TestEncodeSmallRoute(t *testing.T) {
	list, strs := eastbound(3, 4, 20)
	opts := DefaultOptions()
	opts.Protocol = 5

	res, err := testEncoder().Encode(list, strs, opts)
	require.NoError(t, err)
	recs := res.Records
	require.Greater(t, len(recs), 6)

	spt, ok := recs[0].(*WPT)
	require.True(t, ok)
	assert.Equal(t, TypeSPT, spt.Action)
	assert.IsType(t, &Origin{}, recs[1])
	assert.IsType(t, &Scale{}, recs[2])

	last, ok := recs[len(recs)-1].(*WPT)
	require.True(t, ok)
	assert.Equal(t, TypeEPT, last.Action)
	assert.Equal(t, uint8(0), last.Flags)
	trunc, ok := recs[len(recs)-2].(*WPT)
	require.True(t, ok)
	assert.True(t, trunc.Truncating())
	assert.False(t, res.Truncated)

	var turns []uint16
	for k, r := range recs {
		w, ok := r.(*WPT)
		if !ok || w.Action == TypeEPT || w.Action == TypeSPT {
			continue
		}
		turns = append(turns, w.Action)
		require.Less(t, k+1, len(recs))
		assert.IsType(t, &TimeDistLeft{}, recs[k+1])
	}
	assert.Equal(t, []uint16{list[1].Turn, list[2].Turn}, turns)

	assert.NotEmpty(t, recordsOf[*Mini](recs))
	assert.Empty(t, recordsOf[*Micro](recs))
	assert.InDelta(t, 140, float64(res.TotalDist), 1)
	assert.Equal(t, uint32(20), res.TotalTime)
	assert.Len(t, res.Bytes(), RecordSize*len(recs))
}

func TestEncodeWaypointDistances(t *testing.T) {
	list, strs := eastbound(3, 4, 20)
	opts := DefaultOptions()
	opts.Protocol = 5

	res, err := testEncoder().Encode(list, strs, opts)
	require.NoError(t, err)

	// the coordinates between the waypoints go through minis and a trackpoint, the meters of
	// every point reach the next one
	var meters float64
	for _, r := range res.Records {
		switch p := r.(type) {
		case *WPT:
			if p.Action != TypeSPT && !p.Truncating() && p.Action != TypeEPT {
				meters += float64(p.Meters)
			}
		case *TPT:
			meters += float64(p.Meters)
		}
	}
	assert.InDelta(t, float64(res.TotalDist), meters, 4)
}

func TestEncodeMicroPoints(t *testing.T) {
	tests := []struct {
		name      string
		protocol  uint8
		wantMicro bool
	}{
		{name: "protocol 0x0a packs micro points", protocol: 0x0a, wantMicro: true},
		{name: "older protocols only get minis", protocol: 0x09, wantMicro: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, strs := eastbound(3, 8, 20)
			opts := DefaultOptions()
			opts.Protocol = tt.protocol

			res, err := testEncoder().Encode(list, strs, opts)
			require.NoError(t, err)
			micros := recordsOf[*Micro](res.Records)
			if !tt.wantMicro {
				assert.Empty(t, micros)
				assert.NotEmpty(t, recordsOf[*Mini](res.Records))
				return
			}
			require.NotEmpty(t, micros)
			for _, d := range micros[0].Deltas {
				assert.NotEqual(t, [2]int8{0, 0}, d)
			}
		})
	}
}

func TestEncodeOriginChain(t *testing.T) {
	// 30 km, more than two minimaps
	list, strs := eastbound(7, 50, 100)
	res, err := testEncoder().Encode(list, strs, DefaultOptions())
	require.NoError(t, err)

	var origins []int
	for k, r := range res.Records {
		if _, ok := r.(*Origin); ok {
			origins = append(origins, k)
			require.Less(t, k+1, len(res.Records))
			assert.IsType(t, &Scale{}, res.Records[k+1])
		}
	}
	require.GreaterOrEqual(t, len(origins), 3)
	for n, k := range origins {
		o := res.Records[k].(*Origin)
		if n+1 < len(origins) {
			assert.Equal(t, int16(origins[n+1]-k), o.NextOrigo)
		} else {
			assert.Equal(t, int16(-k), o.NextOrigo)
		}
	}

	for _, p := range recordsOf[*WPT](res.Records) {
		assert.Less(t, math.Abs(float64(p.Lon)), maxMinimapDist+4)
		assert.Less(t, math.Abs(float64(p.Lat)), maxMinimapDist+4)
	}
}

func TestEncodeTruncation(t *testing.T) {
	// 2000 coordinates need about 1000 minis, more than the 8192 bytes given to coordinates
	list, strs := eastbound(41, 50, 20)
	opts := DefaultOptions()
	opts.Protocol = 5
	opts.MaxBufferLength = 2000

	res, err := testEncoder().Encode(list, strs, opts)
	require.NoError(t, err)
	require.True(t, res.Truncated)
	require.Greater(t, res.TruncatedWPTNbr, 0)
	require.Less(t, res.TruncatedWPTNbr, len(list)-1)

	truncAt := -1
	for k, r := range res.Records {
		if w, ok := r.(*WPT); ok && w.Truncating() {
			assert.Equal(t, -1, truncAt, "one truncating EPT")
			truncAt = k
		}
	}
	require.Greater(t, truncAt, 0)
	for _, r := range res.Records[truncAt+1:] {
		assert.NotContains(t, []uint16{TypeMini, TypeMicro, TypeTPT}, r.Type())
	}

	// the distance driven up to one of the coordinates, rounded
	var prefixes []int
	var dist float64
	lastMc2 := lastCoord(&list[0])
	for i := 1; i < len(list); i++ {
		for _, c := range list[i].Coords[:len(list[i].Coords)-1] {
			dist += geo.Distance(c, lastMc2)
			prefixes = append(prefixes, int(math.RoundToEven(dist)))
			lastMc2 = c
		}
	}
	assert.Contains(t, prefixes, res.TruncatedDist)
	assert.Less(t, res.TruncatedDist, int(res.TotalDist))

	recs := res.Records
	end, ok := recs[len(recs)-1].(*WPT)
	require.True(t, ok)
	assert.Same(t, res.TruncEndElem, end)
	assert.Equal(t, list[res.TruncatedWPTNbr+1].Turn, end.Action)
	assert.Equal(t, list[res.TruncatedWPTNbr].Text, end.NameIndex)
	ept, ok := recs[len(recs)-2].(*WPT)
	require.True(t, ok)
	assert.Equal(t, TypeEPT, ept.Action)
	assert.Equal(t, uint8(0), ept.Flags)

	// every waypoint is still sent
	nbrWPT := 0
	for _, w := range recordsOf[*WPT](recs[:len(recs)-1]) {
		if w.Action != TypeEPT && w.Action != TypeSPT {
			nbrWPT++
		}
	}
	assert.Equal(t, len(list)-1, nbrWPT)
	assert.Len(t, res.Bytes(), RecordSize*len(recs))
}

func TestEncodeWithoutCoordinates(t *testing.T) {
	list, strs := eastbound(4, 10, 20)
	opts := DefaultOptions()
	opts.Coordinates = false

	res, err := testEncoder().Encode(list, strs, opts)
	require.NoError(t, err)
	assert.False(t, res.Truncated)
	assert.Empty(t, recordsOf[*Mini](res.Records))
	assert.Empty(t, recordsOf[*Micro](res.Records))
	assert.Empty(t, recordsOf[*TPT](res.Records))
	assert.Len(t, recordsOf[*TimeDistLeft](res.Records), 3)
}

func TestEncodePerturbsLastWaypoint(t *testing.T) {
	list, strs := eastbound(3, 4, 20)
	// the last element only has its turn, the end point is on the last waypoint
	last := &list[2]
	last.Coords = last.Coords[:2]
	opts := DefaultOptions()
	opts.Protocol = 5

	res, err := testEncoder().Encode(list, strs, opts)
	require.NoError(t, err)

	var lastWPT, ept *WPT
	for _, w := range recordsOf[*WPT](res.Records) {
		switch {
		case w.Truncating():
			ept = w
		case w.Action != TypeEPT && w.Action != TypeSPT:
			lastWPT = w
		}
	}
	require.NotNil(t, lastWPT)
	require.NotNil(t, ept)
	assert.Equal(t, ept.Lon+8, lastWPT.Lon)
	assert.Equal(t, ept.Lat+8, lastWPT.Lat)
}

func TestEncodeDisturbanceText(t *testing.T) {
	list, strs := eastbound(3, 4, 20)
	opts := DefaultOptions()
	opts.DisturbanceText = "Route avoids a traffic jam"

	res, err := testEncoder().Encode(list, strs, opts)
	require.NoError(t, err)
	meta, ok := res.Records[1].(*Meta)
	require.True(t, ok)
	assert.Equal(t, MetaAdditionalText, meta.Kind)
	assert.Equal(t, opts.DisturbanceText, res.Strings.Strings()[meta.A])
	assert.IsType(t, &Origin{}, res.Records[2])
}

func TestEncodeLandmarksLanesAndSignPosts(t *testing.T) {
	list, strs := eastbound(4, 6, 20)
	list[1].Landmarks = []Landmark{{ID: 77, Start: true, Text: "Along the river", Distance: 40}}
	list[2].Landmarks = []Landmark{{ID: 77, Stop: true, Text: "Along the river", Distance: 20}}
	list[2].Lanes = []LaneGroup{
		{Lanes: []Lane{{Direction: LaneAhead}}, Distance: 300},
		{
			Lanes: []Lane{
				{Direction: LaneLeft, Preferred: true}, {Direction: LaneAhead}, {Direction: LaneAhead},
				{Direction: LaneAhead}, {Direction: LaneRight}, {Direction: LaneRight, NotCar: true},
			},
			Distance: 100,
		},
	}
	list[2].SignPosts = []SignPost{
		{Text: "Uppsala", Exit: true, TextColor: 1},
		{Text: "Arlanda"},
		{Text: "Sollentuna"},
	}

	res, err := testEncoder().Encode(list, strs, DefaultOptions())
	require.NoError(t, err)

	lms := recordsOf[*LandmarkRecord](res.Records)
	require.Len(t, lms, 2)
	assert.True(t, lms[0].Start)
	assert.True(t, lms[1].Stop)
	assert.Equal(t, lms[0].RouteID, lms[1].RouteID)
	assert.Equal(t, "Along the river", res.Strings.Strings()[lms[0].StrNbr])

	infos := recordsOf[*LaneInfo](res.Records)
	require.Len(t, infos, 1)
	assert.Equal(t, uint8(6), infos[0].NbrLanes)
	assert.Equal(t, LaneLeft|lanePreferredBit, infos[0].Lanes[0])
	assert.Equal(t, int32(100), infos[0].Distance)
	datas := recordsOf[*LaneData](res.Records)
	require.Len(t, datas, 1)
	assert.Equal(t, LaneRight, datas[0].Lanes[0])
	assert.Equal(t, LaneRight|laneNotCarBit, datas[0].Lanes[1])

	sps := recordsOf[*SignPostRecord](res.Records)
	require.Len(t, sps, 2)
	assert.Equal(t, "Exit Uppsala", res.Strings.Strings()[sps[0].StrNbr])
	assert.Equal(t, "Arlanda", res.Strings.Strings()[sps[1].StrNbr])

	opts := DefaultOptions()
	opts.RequestVersion = 1
	res, err = testEncoder().Encode(list, strs, opts)
	require.NoError(t, err)
	assert.Empty(t, recordsOf[*LaneInfo](res.Records))
	assert.Empty(t, recordsOf[*SignPostRecord](res.Records))
}

func TestMoveAfterWaypoint(t *testing.T) {
	wpt := &WPT{Action: turnLeft}
	wptTDP := &TimeDistLeft{TimeLeft: 30}
	tpt := &TPT{}
	tdp := &TimeDistLeft{TimeLeft: 20}
	lm := &LandmarkRecord{RouteID: 1}
	sp := &SignPostRecord{StrNbr: 2}
	ept := &WPT{Action: TypeEPT}
	records := []Record{wpt, wptTDP, &Mini{}, tpt, tdp, lm, sp, ept}

	got := fixup(records)
	assert.Equal(t, []Record{wpt, wptTDP, lm, sp, &Mini{}, tpt, tdp, ept}, got)
}

func TestSpreadTime(t *testing.T) {
	// ordered from the end: a trackpoint 100 m before the end at speed 10, the waypoint 300 m
	// before the end at speed 20
	tdps := []*TimeDistLeft{
		{TimeLeft: 0, DistLeft: 100, Speed: 10},
		{TimeLeft: 40, DistLeft: 300, Speed: 20},
	}
	spreadTime(tdps, 0, 0)
	assert.Equal(t, uint32(20), tdps[0].TimeLeft)
	assert.Equal(t, uint32(40), tdps[1].TimeLeft)
}

func TestRecordBytes(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want []byte
	}{
		{
			name: "waypoint clamps the exit count and packs the crossing",
			rec: &WPT{
				Action: turnRight, ExitCount: 40, Crossing: 3,
				point: point{Flags: 0x13, Speed: 50, Lon: -2, Lat: 300, Meters: 1000, NameIndex: 7},
			},
			want: []byte{0x7c, 0x04, 0x33, 0x32, 0xff, 0xfe, 0x01, 0x2c, 0x03, 0xe8, 0x00, 0x07},
		},
		{
			name: "truncating end point",
			rec:  &WPT{Action: TypeEPT, point: point{Flags: 0xff, NameIndex: 0xffff}},
			want: []byte{0x00, 0x00, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0xff},
		},
		{
			name: "origin",
			rec:  &Origin{NextOrigo: -5, Lon: 1, Lat: -1},
			want: []byte{0x80, 0x00, 0xff, 0xfb, 0x00, 0x00, 0x00, 0x01, 0xff, 0xff, 0xff, 0xff},
		},
		{
			name: "scale",
			rec:  &Scale{RefLon: 1, RefLat: 2, RestPart: 0x8000, IntegerPart: 3283000},
			want: []byte{0x80, 0x01, 0x00, 0x01, 0x00, 0x02, 0x80, 0x00, 0x00, 0x32, 0x18, 0x38},
		},
		{
			name: "time and distance left",
			rec:  &TimeDistLeft{TimeLeft: 256, DistLeft: 2, Speed: 9},
			want: []byte{0x80, 0x06, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x02, 0x09, 0x00},
		},
		{
			name: "landmark bits",
			rec: &LandmarkRecord{Detour: true, Stop: true, Side: 2, Location: 5, LMType: 4,
				Distance: -1, StrNbr: 3, RouteID: 9},
			want: []byte{0x80, 0x07, 0xb5, 0x04, 0xff, 0xff, 0xff, 0xff, 0x00, 0x03, 0x00, 0x09},
		},
		{
			name: "micro",
			rec:  &Micro{Deltas: [5][2]int8{{1, -1}, {2, 0}}},
			want: []byte{0x80, 0x03, 0x01, 0xff, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &Result{Records: []Record{tt.rec}}
			got := res.Bytes()
			assert.Len(t, got, RecordSize)
			assert.Equal(t, tt.want, got)
		})
	}
}
