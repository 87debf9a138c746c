package assembler

import (
	"math"

	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
	"go.uber.org/zap"
)

// routeNodes drops the duplicated node of a route on a single segment. A route that starts
// walking or biking has the transportation node first.
func routeNodes(ids []uint32) []uint32 {
	nodes := append([]uint32{}, ids...)
	x := 0
	if nodes[0] == mapstore.TransportationNode(mapstore.TransportWalk) ||
		nodes[0] == mapstore.TransportationNode(mapstore.TransportBike) {
		x = 1
	}
	if len(nodes) == 2+x && nodes[x] == nodes[x+1] {
		nodes = nodes[:len(nodes)-1]
	}
	return nodes
}

func itemID(nodeID uint32) uint32 {
	return nodeID &^ mapstore.NODE1_BIT
}

// createRoute adds the route items within the view as ROUTE features. Route items outside the
// view become EMPTY features so that clients can still number the route features.
func (s *session) createRoute() {
	route := s.req.Route
	nodes := routeNodes(route.NodeIDs)

	nbrAdded := 0
	firstFeature := true
	for i, nodeID := range nodes {
		if mapstore.IsTransportationNode(nodeID) {
			s.transportationChange(nodes, i, firstFeature)
			continue
		}

		item := s.m.Item(itemID(nodeID))
		if item == nil || item.Gfx == nil || item.Gfx.NbrPolygons() == 0 {
			s.log.Debug("route node without item", zap.Uint32("nodeID", nodeID))
			continue
		}
		gfx := item.Gfx

		includeOrigin := firstFeature && !route.IgnoreStartOffset
		includeDestination := i == len(nodes)-1 && !route.IgnoreEndOffset
		firstFeature = false

		if !gfx.BBox().Overlaps(s.view) {
			if s.req.includeFeatureType(feature.EMPTY) {
				if includeOrigin {
					s.fmap.AddFeature(feature.NewFeature(feature.EMPTY))
				}
				if includeDestination {
					s.fmap.AddFeature(feature.NewFeature(feature.EMPTY))
				}
				s.fmap.AddFeature(feature.NewFeature(feature.EMPTY))
			}
			continue
		}

		forward := mapstore.IsNode0(nodeID)
		coords := gfx.Coords(0)
		partial := len(coords) >= 2

		var routeFeature, destFeature *feature.Feature
		if includeOrigin && partial {
			routeFeature = feature.NewFeature(feature.ROUTE)
			start, startIdx := gfx.CoordinateAt(route.StartOffset)
			s.streamLine(routeFeature, fromOffset(coords, start, startIdx, forward))

			s.fmap.AddFeature(feature.NewPointFeature(feature.ROUTE_ORIGIN, start))

			angle := gfx.Angle(route.StartOffset)
			if !forward {
				angle = float64(int(math.Round(angle+180)) % 360)
			}
			s.fmap.StartingAngle = uint8(uint32(angle * 256 / 360))
		}

		if includeDestination && partial {
			end, stopIdx := gfx.CoordinateAt(route.EndOffset)
			var line []geo.Coordinate
			if routeFeature == nil {
				line = toOffset(coords, end, stopIdx, forward)
			} else {
				// route on one segment
				start, startIdx := gfx.CoordinateAt(route.StartOffset)
				line = betweenOffsets(coords, start, startIdx, end, stopIdx, forward)
			}
			routeFeature = feature.NewFeature(feature.ROUTE)
			s.streamLine(routeFeature, line)
			destFeature = feature.NewPointFeature(feature.ROUTE_DESTINATION, end)
		}

		if routeFeature == nil {
			opt := defaultItemFeature(nil)
			opt.typ = feature.ROUTE
			opt.forward = forward
			routeFeature = s.featureFromItem(item, opt)
		}

		if routeFeature != nil {
			s.fmap.AddFeature(routeFeature)
			nbrAdded++
		} else {
			s.log.Debug("failed to add route feature", zap.Uint32("nodeID", nodeID))
		}
		if destFeature != nil {
			s.fmap.AddFeature(destFeature)
		}
	}

	s.log.Debug("route features added", zap.Int("nodes", len(nodes)), zap.Int("added", nbrAdded))
}

// transportationChange handles a node that is a change of transportation. Before the first
// route feature it sets the transportation of the map, a later change to walking leaves the
// car where the previous item ends.
func (s *session) transportationChange(nodes []uint32, i int, firstFeature bool) {
	state := mapstore.TransportationState(nodes[i])
	if firstFeature {
		s.fmap.TransportationType = state
		s.fmap.DrivingOnRight = s.m.DriveOnRightSide()
		return
	}
	if state != mapstore.TransportWalk {
		s.log.Warn("strange transportation state", zap.Uint8("state", state))
		return
	}
	if i == 0 || mapstore.IsTransportationNode(nodes[i-1]) {
		return
	}

	prevNodeID := nodes[i-1]
	prevItem := s.m.Item(itemID(prevNodeID))
	if prevItem == nil || prevItem.Gfx == nil || prevItem.Gfx.NbrPolygons() == 0 ||
		prevItem.Gfx.NbrCoordinates(0) == 0 {
		return
	}
	coordIdx := 0
	if mapstore.IsNode0(prevNodeID) {
		coordIdx = prevItem.Gfx.NbrCoordinates(0) - 1
	}
	parkCar := feature.NewPointFeature(feature.PARK_CAR, prevItem.Gfx.Coord(0, coordIdx))
	parkCar.Name = s.itemName(prevItem)
	s.fmap.AddFeature(parkCar)
}

// fromOffset is the part of the first route item after the start offset. idx is the index
// ending the segment start lies on.
func fromOffset(coords []geo.Coordinate, start geo.Coordinate, idx int, forward bool) []geo.Coordinate {
	line := []geo.Coordinate{start}
	if forward {
		return append(line, coords[idx:]...)
	}
	for i := idx - 1; i >= 0; i-- {
		line = append(line, coords[i])
	}
	return line
}

// toOffset is the part of the last route item up to the end offset.
func toOffset(coords []geo.Coordinate, end geo.Coordinate, idx int, forward bool) []geo.Coordinate {
	var line []geo.Coordinate
	if forward {
		line = append(line, coords[:idx]...)
	} else {
		for i := len(coords) - 1; i >= idx; i-- {
			line = append(line, coords[i])
		}
	}
	return append(line, end)
}

// betweenOffsets is the part of a single item route between the two offsets.
func betweenOffsets(coords []geo.Coordinate, start geo.Coordinate, startIdx int, end geo.Coordinate,
	stopIdx int, forward bool) []geo.Coordinate {
	line := []geo.Coordinate{start}
	if forward {
		for i := startIdx; i < stopIdx; i++ {
			line = append(line, coords[i])
		}
	} else {
		for i := startIdx - 1; i >= stopIdx; i-- {
			line = append(line, coords[i])
		}
	}
	return append(line, end)
}
