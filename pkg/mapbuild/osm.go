package mapbuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/k0kubun/go-ansi"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/schollz/progressbar/v3"
)

type OSMWay struct {
	ID     int64
	Coords []geo.Coordinate
	Closed bool
	TagMap map[string]string
}

type OSMNode struct {
	ID     int64
	Coord  geo.Coordinate
	TagMap map[string]string
}

// OsmRelation is a country boundary relation with the coordinates of its outer ways.
type OsmRelation struct {
	ID     int64
	TagMap map[string]string
	Outer  [][]geo.Coordinate
	ways   []int64
}

// Extract is everything the map build reads from an osm file.
type Extract struct {
	Ways      []OSMWay
	Nodes     []OSMNode
	Countries []OsmRelation
}

type rawWay struct {
	id      int64
	nodeIDs []osm.NodeID
	tagMap  map[string]string
}

func newProgressBar(steps int) *progressbar.ProgressBar {
	return progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/2]Parsing osm objects..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func isCountryBoundary(tags osm.Tags) bool {
	return tags.Find("boundary") == "administrative" && tags.Find("admin_level") == "2"
}

// ParseOSM reads an osm pbf file in three passes: country relations, ways, nodes.
func ParseOSM(ctx context.Context, mapfile string) (*Extract, error) {
	f, err := os.Open(mapfile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bar := newProgressBar(4)
	bar.Add(1)

	ex := &Extract{}
	boundaryWays := make(map[int64]bool)

	scanner := osmpbf.New(ctx, f, 1)
	scanner.SkipNodes = true
	scanner.SkipWays = true
	for scanner.Scan() {
		rel, ok := scanner.Object().(*osm.Relation)
		if !ok || !isCountryBoundary(rel.Tags) {
			continue
		}
		wayIDs := []int64{}
		for _, m := range rel.Members {
			if m.Type == osm.TypeWay && (m.Role == "outer" || m.Role == "") {
				boundaryWays[m.Ref] = true
				wayIDs = append(wayIDs, m.Ref)
			}
		}
		ex.Countries = append(ex.Countries, OsmRelation{
			ID:     int64(rel.ID),
			TagMap: rel.Tags.Map(),
			ways:   wayIDs,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan relations: %w", err)
	}
	scanner.Close()
	bar.Add(1)

	// process osm ways
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	wayNodes := make(map[osm.NodeID]geo.Coordinate)
	var ways []rawWay
	boundaryWayMap := make(map[int64]rawWay)

	scanner = osmpbf.New(ctx, f, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		tags := w.TagMap()
		nodeIDs := w.Nodes.NodeIDs()

		if boundaryWays[int64(w.ID)] {
			boundaryWayMap[int64(w.ID)] = rawWay{id: int64(w.ID), nodeIDs: nodeIDs, tagMap: tags}
			for _, id := range nodeIDs {
				wayNodes[id] = geo.InvalidCoordinate
			}
		}

		closed := len(nodeIDs) > 3 && nodeIDs[0] == nodeIDs[len(nodeIDs)-1]
		if _, ok := WayKind(tags, closed); !ok {
			continue
		}
		for _, id := range nodeIDs {
			wayNodes[id] = geo.InvalidCoordinate
		}
		ways = append(ways, rawWay{id: int64(w.ID), nodeIDs: nodeIDs, tagMap: tags})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ways: %w", err)
	}
	scanner.Close()
	bar.Add(1)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	scanner = osmpbf.New(ctx, f, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true
	defer scanner.Close()
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		c := geo.CoordinateFromDegrees(node.Lat, node.Lon)
		if _, ok := wayNodes[node.ID]; ok {
			wayNodes[node.ID] = c
		}
		tags := node.TagMap()
		if tags["name"] == "" {
			continue
		}
		if _, ok := POIAttrs(tags); ok {
			ex.Nodes = append(ex.Nodes, OSMNode{ID: int64(node.ID), Coord: c, TagMap: tags})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan nodes: %w", err)
	}

	resolve := func(ids []osm.NodeID) ([]geo.Coordinate, bool) {
		coords := make([]geo.Coordinate, 0, len(ids))
		for _, id := range ids {
			c, ok := wayNodes[id]
			if !ok || !c.IsValid() {
				// node outside the extract
				return nil, false
			}
			coords = append(coords, c)
		}
		return coords, true
	}

	for _, w := range ways {
		coords, ok := resolve(w.nodeIDs)
		if !ok || len(coords) < 2 {
			continue
		}
		closed := len(coords) > 3 && coords[0] == coords[len(coords)-1]
		if closed {
			coords = coords[:len(coords)-1]
		}
		ex.Ways = append(ex.Ways, OSMWay{ID: w.id, Coords: coords, Closed: closed, TagMap: w.tagMap})
	}

	for i, rel := range ex.Countries {
		var parts [][]geo.Coordinate
		for _, id := range rel.ways {
			bw, ok := boundaryWayMap[id]
			if !ok {
				continue
			}
			if coords, ok := resolve(bw.nodeIDs); ok {
				parts = append(parts, coords)
			}
		}
		ex.Countries[i].Outer = parts
	}
	bar.Add(1)
	return ex, nil
}

// CountryCode reads the ISO 3166 numeric code of a country relation.
func (r OsmRelation) CountryCode() uint32 {
	v, err := strconv.ParseUint(r.TagMap["ISO3166-1:numeric"], 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}
