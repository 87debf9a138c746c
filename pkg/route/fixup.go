package route

import (
	"math"
)

// fixup walks the records from the end. It chains the origins, moves the landmarks, lanes and
// signposts following a trackpoint to the waypoint before it and spreads the time left over
// the TimeDistLeft records between two waypoints by their distance and speed.
func fixup(records []Record) []Record {
	nextOrigo := 0
	var tdps []*TimeDistLeft
	var lastETA, lastDTG uint32

	for k := len(records) - 1; k >= 0; k-- {
		switch r := records[k].(type) {
		case *Origin:
			r.NextOrigo = int16(nextOrigo - k)
			nextOrigo = k

		case *TimeDistLeft:
			tdps = append(tdps, r)
			if k == 0 || k+1 >= len(records) {
				continue
			}
			if _, ok := records[k-1].(*TPT); !ok {
				continue
			}
			if _, ok := records[k+1].(*LandmarkRecord); !ok {
				continue
			}
			wp := k
			for wp > 0 {
				if _, ok := records[wp].(*WPT); ok {
					break
				}
				wp--
			}
			if _, ok := records[wp].(*WPT); !ok {
				continue
			}
			var moved int
			records, moved = moveAfterWaypoint(records, k+1, wp+2)
			// the trackpoint and this record moved up by moved
			k += moved

		case *WPT:
			switch {
			case len(tdps) > 1:
				spreadTime(tdps, lastETA, lastDTG)
				fallthrough
			case len(tdps) == 1:
				lastETA = tdps[len(tdps)-1].TimeLeft
				lastDTG = tdps[len(tdps)-1].DistLeft
				tdps = tdps[:0]
			}
		}
	}
	return records
}

// moveAfterWaypoint moves the run of landmark, then lane info, lane data and signpost records
// starting at from to to, keeping their order.
func moveAfterWaypoint(records []Record, from, to int) ([]Record, int) {
	n := 0
	for _, match := range []func(Record) bool{
		isRecord[*LandmarkRecord], isRecord[*LaneInfo], isRecord[*LaneData], isRecord[*SignPostRecord],
	} {
		for from+n < len(records) && match(records[from+n]) {
			r := records[from+n]
			copy(records[to+n+1:from+n+1], records[to+n:from+n])
			records[to+n] = r
			n++
		}
	}
	return records, n
}

func isRecord[T Record](r Record) bool {
	_, ok := r.(T)
	return ok
}

// spreadTime sets the time left of tdps, ordered from the end of the route, so that the time
// between two of them is proportional to distance over speed.
func spreadTime(tdps []*TimeDistLeft, lastETA, lastDTG uint32) {
	speed := func(t *TimeDistLeft) float64 {
		return math.Max(float64(t.Speed), 1)
	}
	var totalFactor float64
	distSoFar := lastDTG
	for _, t := range tdps {
		dist := t.DistLeft - distSoFar
		totalFactor += float64(dist) / speed(t)
		distSoFar += dist
	}
	if totalFactor == 0 {
		return
	}
	totalTime := tdps[len(tdps)-1].TimeLeft - lastETA

	var timeUsed uint32
	distSoFar = lastDTG
	for _, t := range tdps {
		dist := t.DistLeft - distSoFar
		distSoFar += dist
		timeUsed += uint32(math.RoundToEven(float64(dist) / speed(t) / totalFactor * float64(totalTime)))
		t.TimeLeft = lastETA + timeUsed
	}
}

// perturbLastWPT moves the last waypoint 8 units when it is on the position of the end point.
func perturbLastWPT(records []Record) {
	lastWPT, lastEPT := -1, -1
	for k := len(records) - 1; k >= 0; k-- {
		w, ok := records[k].(*WPT)
		if !ok {
			continue
		}
		if w.Action == TypeEPT {
			lastEPT = k
			continue
		}
		lastWPT = k
		break
	}
	if lastWPT < 0 || lastEPT < 0 {
		return
	}

	var origin *Origin
	var scale *Scale
	var wptLat, wptLon float64
	for k := 0; k <= lastEPT; k++ {
		switch r := records[k].(type) {
		case *Origin:
			origin = r
		case *Scale:
			scale = r
		case *WPT:
			if (k != lastWPT && k != lastEPT) || origin == nil || scale == nil {
				continue
			}
			lat := float64(origin.Lat) + float64(r.Lat)
			lon := float64(origin.Lon) + float64(r.Lon)/scale.value()
			if k == lastWPT {
				wptLat, wptLon = lat, lon
				continue
			}
			if lat == wptLat && lon == wptLon {
				w := records[lastWPT].(*WPT)
				w.Lat += 8
				w.Lon += 8
			}
		}
	}
}
