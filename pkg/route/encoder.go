package route

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/lintang-b-s/osm-featuremap/pkg/databuffer"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"go.uber.org/zap"
)

const (
	// a minimap covers coordinates within maxMinimapDist meters of its origin
	maxMinimapDist = 14000.0
	// room for coordinates when the buffer is too small for the estimated waypoints
	minCoordBytes = 8192
	// the client keeps at most this many records
	maxClientRecords = 1499
	// bytes of the route header in the reply
	routeHeaderSize = 22

	maxMicroDelta      = 127
	maxMicroPoints     = 5
	maxSignPosts       = 2
	lanesFirstRecord   = 4
	lanesPerDataRecord = 10
)

// Versions from which micro points, the truncated end element and lanes are sent.
const (
	microProtocol        uint8 = 0x0a
	truncEndElemProtocol uint8 = 0x05
	laneRequestVersion   uint8 = 2
)

var (
	ErrRouteTooShort = errors.New("route has fewer than two elements")
	ErrRouteTooBig   = errors.New("route does not fit the buffer")
	ErrNoCoordinates = errors.New("route element without coordinates")
)

// Options of one encoding.
type Options struct {
	// Protocol is the client protocol version.
	Protocol uint8
	// RequestVersion 2 and later gets lanes and signposts.
	RequestVersion  uint8
	MaxBufferLength int
	// Coordinates sends the coordinates between the waypoints until the budget runs out.
	Coordinates bool
	// TimeBeforeTrunc stops the coordinates after this many seconds of route, 0 never does.
	TimeBeforeTrunc uint32
	// DisturbanceText is sent in a meta record when the route avoids a disturbance.
	DisturbanceText string
	// ExitPrefix goes before the text of exit signposts.
	ExitPrefix string
}

func DefaultOptions() Options {
	return Options{
		Protocol:        microProtocol,
		RequestVersion:  laneRequestVersion,
		MaxBufferLength: 32768,
		Coordinates:     true,
		ExitPrefix:      "Exit ",
	}
}

// headerSize is the reply header of the protocol version.
func headerSize(protocol uint8) int {
	switch {
	case protocol == 0:
		return 11
	case protocol == 1:
		return 19
	case protocol >= 5:
		return 13
	default:
		return 35
	}
}

type Result struct {
	Records []Record
	Strings *StringTable
	// Truncated is set when the coordinates stop before the end of the route.
	Truncated       bool
	TruncatedDist   int
	TruncatedWPTNbr int
	// Dist2NextWPTFromTrunc is the meters from the truncation to the next waypoint.
	Dist2NextWPTFromTrunc uint32
	// TruncEndElem is the waypoint after the truncation, sent after the EPT.
	TruncEndElem *WPT
	TotalDist    uint32
	TotalTime    uint32
}

// Bytes writes the records.
func (r *Result) Bytes() []byte {
	buf := databuffer.New(len(r.Records) * RecordSize)
	for _, rec := range r.Records {
		rec.write(buf)
	}
	return buf.Bytes()
}

type Encoder struct {
	log *zap.Logger
}

func NewEncoder(log *zap.Logger) *Encoder {
	return &Encoder{log: log}
}

type historyPoint struct {
	x, y  float64
	speed uint8
	dist  float64
}

// lastAdded is the last coordinate written on the current minimap.
type lastAdded struct {
	x, y  int16
	speed uint8
	valid bool
}

// encoding is the state of one Encode call.
type encoding struct {
	log  *zap.Logger
	opts Options
	list []Element
	strs *StringTable

	records        []Record
	addCoordinates bool
	totSize        int
	maxSize        int

	scaleX, scaleY float64
	origoX, origoY float64
	xDiff, yDiff   float64

	history              []historyPoint
	last                 lastAdded
	lastPoint            *point
	distLastWptTptToCurr float64

	activeLM   map[uint32]*LandmarkRecord
	landmarkID uint16
}

// Encode turns list into route records. The strings of the elements are in strs, landmark and
// signpost texts are added to it. The first element only holds the start position.
func (e *Encoder) Encode(list []Element, strs *StringTable, opts Options) (*Result, error) {
	if len(list) < 2 {
		return nil, ErrRouteTooShort
	}
	for i := range list {
		if len(list[i].Coords) == 0 {
			return nil, ErrNoCoordinates
		}
	}
	if strs == nil {
		strs = NewStringTable()
	}
	if opts.TimeBeforeTrunc == 0 {
		opts.TimeBeforeTrunc = math.MaxUint32
	}
	enc := &encoding{
		log:            e.log,
		opts:           opts,
		list:           list,
		strs:           strs,
		addCoordinates: opts.Coordinates,
		scaleY:         geo.EARTH_RADIUS,
		activeLM:       make(map[uint32]*LandmarkRecord),
	}
	res, err := enc.encode()
	if err != nil {
		return nil, err
	}
	e.log.Debug("route encoded", zap.Int("elements", len(list)), zap.Int("records", len(res.Records)),
		zap.Bool("truncated", res.Truncated), zap.Uint32("totalDist", res.TotalDist))
	return res, nil
}

func radians(c geo.Coordinate) (float64, float64) {
	return float64(c.Lat) * geo.MC2_TO_RAD, float64(c.Lon) * geo.MC2_TO_RAD
}

func lastCoord(el *Element) geo.Coordinate {
	return el.Coords[len(el.Coords)-1]
}

// toInt16 truncates towards zero and wraps like a C cast.
func toInt16(f float64) int16 {
	return int16(int64(f))
}

func tooFar(x, y float64) bool {
	return math.Abs(x) >= maxMinimapDist || math.Abs(y) >= maxMinimapDist
}

// estimate is the first pass over the route: the totals, where new minimaps start and the
// space the waypoints will need.
type estimate struct {
	distLeft          float64
	totalTime         uint32
	timeSoFar         []uint32
	needNewOrigoScale []bool
	estDatumSize      int
	allStringsSize    int
}

func (enc *encoding) estimate() estimate {
	est := estimate{
		timeSoFar:         make([]uint32, len(enc.list)),
		needNewOrigoScale: make([]bool, len(enc.list)),
	}
	disturbance := 0
	if enc.opts.DisturbanceText != "" {
		disturbance = 1
		enc.strs.Add(enc.opts.DisturbanceText)
	}

	start := lastCoord(&enc.list[0])
	radLat, radLon := radians(start)
	scaleX := math.Cos(radLat) * enc.scaleY
	origoX, origoY := radLon*scaleX, radLat*enc.scaleY
	lastMc2 := start

	est.totalTime = enc.list[0].Time
	est.timeSoFar[0] = enc.list[0].Time
	nbrLandmarks, nbrNameChanges, nbrReminders, landmarkStrings, signPostStrings := 0, 0, 0, 0, 0
	active := make(map[uint32]bool)
	for i := 1; i < len(enc.list); i++ {
		el := &enc.list[i]
		est.totalTime += el.Time
		est.timeSoFar[i] = est.totalTime
		if el.NameChange {
			nbrNameChanges++
		}
		for j := 0; j < len(el.Coords)-1; j++ {
			c := el.Coords[j]
			radLat, radLon = radians(c)
			est.distLeft += geo.Distance(c, lastMc2)
			x, y := radLon*scaleX-origoX, radLat*enc.scaleY-origoY
			if enc.addCoordinates && tooFar(x, y) {
				scaleX = math.Cos(radLat) * enc.scaleY
				origoX, origoY = radLon*scaleX, radLat*enc.scaleY
				nbrReminders += len(active)
				est.needNewOrigoScale[i] = true
			}
			lastMc2 = c
		}

		nbrLandmarks += len(el.Landmarks)
		for _, lm := range el.Landmarks {
			landmarkStrings += len(lm.Text) + 1
			switch {
			case lm.Start && !lm.Stop && !active[lm.ID]:
				active[lm.ID] = true
			case lm.Stop && active[lm.ID]:
				delete(active, lm.ID)
			}
		}
		if enc.opts.RequestVersion >= laneRequestVersion {
			for _, sp := range el.SignPosts {
				signPostStrings += len(sp.Text) + 1
			}
		}
	}

	nbrNewOrigoScale := 0
	for _, b := range est.needNewOrigoScale {
		if b {
			nbrNewOrigoScale++
		}
	}
	// SPT, EPT pair, first origin and scale and a waypoint that may be pending
	est.estDatumSize = RecordSize*nbrLandmarks + RecordSize*disturbance +
		RecordSize*2*((len(enc.list)-nbrNameChanges-1)+nbrNewOrigoScale*2+1+1+1) +
		RecordSize*nbrReminders
	est.allStringsSize = enc.strs.size() + landmarkStrings + signPostStrings
	return est
}

func (enc *encoding) encode() (*Result, error) {
	est := enc.estimate()
	distLeft := est.distLeft
	res := &Result{
		Strings:   enc.strs,
		TotalDist: uint32(math.Round(distLeft)),
		TotalTime: est.totalTime,
	}

	enc.maxSize = enc.opts.MaxBufferLength - routeHeaderSize - headerSize(enc.opts.Protocol) -
		est.allStringsSize - est.estDatumSize
	if enc.maxSize < minCoordBytes {
		enc.log.Warn("not enough space for the route", zap.Int("estimate", est.estDatumSize),
			zap.Int("maxBufferLength", enc.opts.MaxBufferLength))
		enc.maxSize = min(minCoordBytes, maxClientRecords*RecordSize-est.estDatumSize)
		if enc.maxSize < RecordSize*50 {
			return nil, ErrRouteTooBig
		}
	}

	first := &enc.list[0]
	spt := &WPT{Action: TypeSPT}
	if first.Turn == TurnStartWithUTurn {
		spt.Flags = 0x01
	}
	enc.push(spt)
	if enc.opts.DisturbanceText != "" {
		enc.records = append(enc.records, &Meta{Kind: MetaAdditionalText, A: enc.strs.Add(enc.opts.DisturbanceText)})
	}

	start := lastCoord(first)
	radLat, radLon := radians(start)
	enc.scaleX = math.Cos(radLat) * enc.scaleY
	enc.origoX, enc.origoY = radLon*enc.scaleX, radLat*enc.scaleY
	enc.push(&Origin{Lon: int32(math.RoundToEven(enc.origoX)), Lat: int32(math.RoundToEven(enc.origoY))})
	intPart, rest := splitScale(enc.scaleX)
	enc.push(&Scale{IntegerPart: intPart, RestPart: rest})

	lastMc2 := start
	lastRadLat, lastRadLon := radLat, radLon
	currentSpeed := enc.list[1].speed(0)
	lastAttribute := enc.list[1].attribute(0)
	var (
		dist                 float64
		currentTime          uint32
		nameChangeTrackpoint bool
		lastWP               *WPT
		lastXDiff, lastYDiff float64
	)

	for i := 1; i < len(enc.list); i++ {
		el := &enc.list[i]
		pre := &enc.list[i-1]
		for j := 0; j < len(el.Coords)-1; j++ {
			c := el.Coords[j]
			radLat, radLon = radians(c)
			d := geo.Distance(c, lastMc2)
			dist += d
			enc.distLastWptTptToCurr += d
			distLeft -= d

			lastXDiff, lastYDiff = enc.xDiff, enc.yDiff
			enc.xDiff = radLon*enc.scaleX - enc.origoX
			enc.yDiff = radLat*enc.scaleY - enc.origoY
			if toInt16(lastXDiff) == toInt16(enc.xDiff) && toInt16(lastYDiff) == toInt16(enc.yDiff) {
				// two coordinates in a row may not be equal
				enc.xDiff += 2
				enc.yDiff += 2
			}

			var addElem []Record
			addedCoordinate := false
			attr := el.attribute(j)
			speed := el.speed(j)

			if enc.addCoordinates && tooFar(enc.xDiff, enc.yDiff) {
				enc.coordCache(nil, attr, pre.Text, true)
				addElem = enc.addNewOrigoScale(addElem, radLat, radLon, lastRadLat, lastRadLon)
				enc.last = lastAdded{}
				if tooFar(enc.xDiff, enc.yDiff) {
					enc.log.Error("more than one origin needed between two coordinates",
						zap.Int("element", i), zap.Int("coordinate", j))
				}
				for _, lm := range enc.activeLandmarks() {
					reminder := *lm
					reminder.Start = false
					reminder.Stop = false
					addElem = append(addElem, &reminder)
				}
				addElem = enc.addLanesAndSignPosts(addElem, el, true)
			}

			switch {
			case j == 0 && !nameChangeTrackpoint:
				addedCoordinate = true
				enc.coordCache(nil, attr, pre.Text, true)
				if !enc.addCoordinates && tooFar(enc.xDiff, enc.yDiff) {
					// the waypoint coordinates stay valid without the coordinates in between
					addElem = enc.addNewOrigoScale(addElem, radLat, radLon, lastRadLat, lastRadLon)
				}
				lastAttribute = attr
				currentSpeed = speed
				wpt := &WPT{
					point: point{
						Lon:       toInt16(enc.xDiff),
						Lat:       toInt16(enc.yDiff),
						Flags:     attr,
						Speed:     speed,
						NameIndex: pre.Text,
					},
					Action:    el.Turn,
					ExitCount: el.ExitCount,
					Crossing:  el.Crossing,
				}
				wpt.setDistance(float64(el.Dist))
				enc.last = lastAdded{x: wpt.Lon, y: wpt.Lat, speed: speed, valid: true}
				enc.startPoint(&wpt.point)
				addElem = append(addElem, wpt)
				enc.totSize += RecordSize
				// the waypoints are sent even when truncated, they are in the estimate
				enc.maxSize += RecordSize
				if est.needNewOrigoScale[i] {
					enc.maxSize += 2 * RecordSize
				}
				addElem = append(addElem, &TimeDistLeft{
					TimeLeft: est.totalTime - est.timeSoFar[i-1],
					DistLeft: uint32(math.RoundToEven(distLeft)),
					Speed:    speed,
				})
				enc.totSize += RecordSize
				enc.maxSize += RecordSize

				if el.NameChange {
					nameChangeTrackpoint = true
					lastWP = wpt
				}
				if !pre.NameChange {
					addElem = enc.addLandmarks(addElem, el)
					if enc.addCoordinates {
						addElem = enc.addLanesAndSignPosts(addElem, el, false)
					}
				} else {
					enc.skipLandmarks(el)
				}

			case enc.addCoordinates && (speed != currentSpeed || lastAttribute != attr ||
				(nameChangeTrackpoint && j == 0)):
				addedCoordinate = true
				if nameChangeTrackpoint && lastWP != nil && !el.NameChange {
					nameChangeTrackpoint = false
					lastWP.Action = el.Turn
					lastWP.ExitCount = el.ExitCount
				}
				enc.coordCache(nil, attr, pre.Text, true)
				lastAttribute = attr
				currentSpeed = speed
				tpt := &TPT{point: point{
					Lon:       toInt16(enc.xDiff),
					Lat:       toInt16(enc.yDiff),
					Flags:     attr,
					Speed:     currentSpeed,
					NameIndex: pre.Text,
				}}
				enc.last = lastAdded{x: tpt.Lon, y: tpt.Lat, speed: currentSpeed, valid: true}
				enc.startPoint(&tpt.point)
				addElem = append(addElem, tpt)
				enc.totSize += RecordSize
				addElem = append(addElem, &TimeDistLeft{
					TimeLeft: est.totalTime - est.timeSoFar[i-1],
					DistLeft: uint32(math.RoundToEven(distLeft)),
					Speed:    currentSpeed,
				})
				enc.totSize += RecordSize
				if j == 0 {
					// moved to the waypoint before by the backward pass
					addElem = enc.addLandmarks(addElem, el)
					addElem = enc.addLanesAndSignPosts(addElem, el, false)
				}

			case !enc.addCoordinates && nameChangeTrackpoint && j == 0:
				if lastWP != nil && !el.NameChange {
					nameChangeTrackpoint = false
					lastWP.Action = el.Turn
				}
				enc.skipLandmarks(el)
			}

			enc.records = append(enc.records, addElem...)
			if enc.addCoordinates && !addedCoordinate {
				enc.coordCache(&historyPoint{
					x:     float64(toInt16(enc.xDiff)),
					y:     float64(toInt16(enc.yDiff)),
					speed: speed,
					dist:  enc.distLastWptTptToCurr,
				}, attr, pre.Text, false)
			}

			if enc.addCoordinates && (enc.totSize >= enc.maxSize || currentTime >= enc.opts.TimeBeforeTrunc) {
				enc.addCoordinates = false
				enc.history = nil
				res.Truncated = true
				res.TruncatedDist = int(math.RoundToEven(dist))
				res.TruncatedWPTNbr = i
				enc.addEPT(truncatedEPTFlags)
				if enc.opts.Protocol >= truncEndElemProtocol && i+1 < len(enc.list) {
					res.TruncEndElem, res.Dist2NextWPTFromTrunc = enc.truncEndElem(i, j)
				}
			}

			lastRadLat, lastRadLon = radLat, radLon
			lastMc2 = c
		}
		currentTime += el.Time
	}

	if !enc.addCoordinates && tooFar(enc.xDiff, enc.yDiff) {
		enc.records = enc.addNewOrigoScale(enc.records, radLat, radLon, lastRadLat, lastRadLon)
	}
	if !res.Truncated {
		enc.addEPT(truncatedEPTFlags)
	}
	enc.addEPT(0)

	enc.records = fixup(enc.records)
	perturbLastWPT(enc.records)
	if res.TruncEndElem != nil {
		enc.records = append(enc.records, res.TruncEndElem)
	}
	res.Records = enc.records
	return res, nil
}

func (enc *encoding) push(r Record) {
	enc.records = append(enc.records, r)
	enc.totSize += RecordSize
}

// startPoint gives the previous waypoint or trackpoint its distance and makes p the last one.
func (enc *encoding) startPoint(p *point) {
	if enc.lastPoint != nil {
		enc.lastPoint.setDistance(enc.distLastWptTptToCurr)
	}
	enc.lastPoint = p
	enc.distLastWptTptToCurr = 0
}

func (enc *encoding) addEPT(flags uint8) {
	ept := &WPT{
		Action: TypeEPT,
		point: point{
			Lon:       toInt16(enc.xDiff),
			Lat:       toInt16(enc.yDiff),
			Flags:     flags,
			NameIndex: noNameIndex,
		},
	}
	enc.startPoint(&ept.point)
	enc.push(ept)
	enc.maxSize += RecordSize
}

// truncEndElem is the waypoint following the truncation at coordinate j of element i.
func (enc *encoding) truncEndElem(i, j int) (*WPT, uint32) {
	el := &enc.list[i]
	next := &enc.list[i+1]
	var d float64
	for k := j; k < len(el.Coords)-1; k++ {
		d += geo.Distance(el.Coords[k], el.Coords[k+1])
	}
	wpt := &WPT{
		point: point{
			Flags:     next.attribute(0),
			Speed:     next.speed(0),
			NameIndex: el.Text,
		},
		Action:    next.Turn,
		ExitCount: next.ExitCount,
		Crossing:  next.Crossing,
	}
	return wpt, uint32(math.RoundToEven(d))
}

func splitScale(scale float64) (uint32, uint16) {
	intPart := int64(scale)
	return uint32(intPart), uint16((scale - float64(intPart)) * 65536)
}

// addNewOrigoScale starts a minimap at the current coordinate.
func (enc *encoding) addNewOrigoScale(addElem []Record, radLat, radLon, lastRadLat, lastRadLon float64) []Record {
	enc.scaleX = math.Cos(radLat) * enc.scaleY
	enc.origoX = radLon * enc.scaleX
	enc.origoY = radLat * enc.scaleY

	intPart, rest := splitScale(enc.scaleX)
	addElem = append(addElem,
		&Origin{Lon: int32(math.RoundToEven(enc.origoX)), Lat: int32(math.RoundToEven(enc.origoY))},
		&Scale{
			IntegerPart: intPart,
			RestPart:    rest,
			RefLon:      uint16(int64(lastRadLon*enc.scaleX - enc.origoX)),
			RefLat:      uint16(int64(lastRadLat*enc.scaleY - enc.origoY)),
		})
	enc.totSize += 2 * RecordSize

	enc.xDiff = radLon*enc.scaleX - enc.origoX
	enc.yDiff = radLat*enc.scaleY - enc.origoY
	return addElem
}

// coordCache collects the coordinates between waypoints and packs them in micro and mini
// records. forceClean empties the history, a single coordinate left becomes a trackpoint.
func (enc *encoding) coordCache(p *historyPoint, flag uint8, nameIndex uint16, forceClean bool) {
	if p != nil {
		enc.history = append(enc.history, *p)
	}
	if len(enc.history) == 0 {
		return
	}

	nbrUFit := 0
	if enc.last.valid && enc.opts.Protocol >= microProtocol {
		lastX, lastY := float64(enc.last.x), float64(enc.last.y)
		for _, h := range enc.history {
			if math.Abs(lastX-h.x) >= maxMicroDelta || math.Abs(lastY-h.y) >= maxMicroDelta ||
				(lastX == h.x && lastY == h.y) || h.speed != enc.last.speed {
				break
			}
			lastX, lastY = h.x, h.y
			nbrUFit++
		}
	}

	if nbrUFit > 2 && (len(enc.history) >= maxMicroPoints || len(enc.history) > nbrUFit || forceClean) {
		n := min(nbrUFit, maxMicroPoints)
		micro := &Micro{}
		lastX, lastY := float64(enc.last.x), float64(enc.last.y)
		for k := 0; k < n; k++ {
			h := enc.history[k]
			micro.Deltas[k] = [2]int8{int8(h.x - lastX), int8(h.y - lastY)}
			lastX, lastY = h.x, h.y
		}
		enc.push(micro)
		enc.last.x, enc.last.y = int16(lastX), int16(lastY)
		enc.history = enc.history[n:]
	}

	for (nbrUFit < len(enc.history) || forceClean) && len(enc.history) >= 2 {
		h0, h1 := enc.history[0], enc.history[1]
		enc.push(&Mini{
			Lon1: int16(h0.x), Lat1: int16(h0.y),
			Lon2: int16(h1.x), Lat2: int16(h1.y),
			Speed1: h0.speed, Speed2: h1.speed,
		})
		enc.last = lastAdded{x: int16(h1.x), y: int16(h1.y), speed: h1.speed, valid: true}
		enc.history = enc.history[2:]
	}

	if forceClean && len(enc.history) >= 1 {
		h := enc.history[0]
		tpt := &TPT{point: point{
			Lon:       int16(h.x),
			Lat:       int16(h.y),
			Flags:     flag,
			Speed:     h.speed,
			NameIndex: nameIndex,
		}}
		if enc.lastPoint != nil {
			enc.lastPoint.setDistance(h.dist)
		}
		enc.lastPoint = &tpt.point
		enc.distLastWptTptToCurr -= h.dist
		enc.push(tpt)
		enc.last = lastAdded{x: tpt.Lon, y: tpt.Lat, speed: h.speed, valid: true}
		enc.history = enc.history[1:]
	}
}

// activeLandmarks are the started landmarks not yet stopped, in route id order.
func (enc *encoding) activeLandmarks() []*LandmarkRecord {
	res := make([]*LandmarkRecord, 0, len(enc.activeLM))
	for _, lm := range enc.activeLM {
		res = append(res, lm)
	}
	slices.SortFunc(res, func(a, b *LandmarkRecord) int {
		return cmp.Compare(a.RouteID, b.RouteID)
	})
	return res
}

func (enc *encoding) addLandmarks(addElem []Record, el *Element) []Record {
	for _, lm := range el.Landmarks {
		active, isActive := enc.activeLM[lm.ID]
		var routeID uint16
		if !lm.Start && lm.Stop && isActive {
			routeID = active.RouteID
		} else {
			routeID = enc.landmarkID
			enc.landmarkID++
		}
		rec := &LandmarkRecord{
			Detour:   lm.Detour,
			Start:    lm.Start,
			Stop:     lm.Stop,
			Side:     lm.Side,
			Location: lm.Location,
			LMType:   lm.Type,
			Distance: lm.Distance,
			StrNbr:   enc.strs.Add(lm.Text),
			RouteID:  routeID,
			ServerID: lm.ID,
		}
		switch {
		case lm.Start && !lm.Stop && !isActive:
			enc.activeLM[lm.ID] = rec
		case lm.Stop && isActive:
			delete(enc.activeLM, lm.ID)
		}
		addElem = append(addElem, rec)
		enc.totSize += RecordSize
		enc.maxSize += RecordSize
	}
	return addElem
}

// skipLandmarks gives back the estimated space of landmarks that are not sent.
func (enc *encoding) skipLandmarks(el *Element) {
	for _, lm := range el.Landmarks {
		enc.maxSize += len(lm.Text) + 1 + RecordSize
	}
}

func (enc *encoding) addLanesAndSignPosts(addElem []Record, el *Element, reminder bool) []Record {
	if enc.opts.RequestVersion < laneRequestVersion {
		return addElem
	}
	if len(el.Lanes) > 0 && el.Turn != TurnFinally {
		// only the lanes closest to the turn
		g := el.Lanes[len(el.Lanes)-1]
		info := &LaneInfo{
			Stop:     g.StopOfLanes,
			Reminder: reminder,
			NbrLanes: uint8(min(len(g.Lanes), math.MaxUint8)),
			Distance: g.Distance,
		}
		for k := 0; k < len(g.Lanes) && k < lanesFirstRecord; k++ {
			info.Lanes[k] = g.Lanes[k].byte()
		}
		addElem = append(addElem, info)
		enc.totSize += RecordSize
		for k := lanesFirstRecord; k < len(g.Lanes); k += lanesPerDataRecord {
			data := &LaneData{}
			for l := 0; l < lanesPerDataRecord && k+l < len(g.Lanes); l++ {
				data.Lanes[l] = g.Lanes[k+l].byte()
			}
			addElem = append(addElem, data)
			enc.totSize += RecordSize
		}
	}

	for k, sp := range el.SignPosts {
		if k >= maxSignPosts {
			break
		}
		text := sp.Text
		if sp.Exit {
			text = enc.opts.ExitPrefix + text
		}
		addElem = append(addElem, &SignPostRecord{
			StrNbr:     enc.strs.Add(text),
			TextColor:  sp.TextColor,
			BackColor:  sp.BackColor,
			FrontColor: sp.FrontColor,
			Distance:   sp.Distance,
		})
		enc.totSize += RecordSize
	}
	return addElem
}
