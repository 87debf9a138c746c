package assembler

import (
	"math"

	"github.com/lintang-b-s/osm-featuremap/pkg/classify"
	"github.com/lintang-b-s/osm-featuremap/pkg/clip"
	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/filter"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
)

// itemFeature describes how featureFromItem turns an item into a feature.
type itemFeature struct {
	settings *classify.FilterSettings
	// feature.NBR_GFXFEATURES derives the type from the item
	typ     feature.Type
	forward bool
	// a valid coord makes a single coordinate feature instead of using the gfx
	coord     geo.Coordinate
	extraInfo uint8
	imageName string
}

func defaultItemFeature(settings *classify.FilterSettings) itemFeature {
	return itemFeature{
		settings:  settings,
		typ:       feature.NBR_GFXFEATURES,
		forward:   true,
		coord:     geo.InvalidCoordinate,
		extraInfo: classify.NoExtraInfo,
	}
}

func (s *session) filterSettings(item *mapstore.Item) *classify.FilterSettings {
	fs, ok := classify.FilterSettingsFor(item.Kind, s.req.FiltScale)
	if !ok {
		return nil
	}
	return &fs
}

// featureFromItem returns nil when the item has no feature type, the type is not requested
// or a single pixel feature of the same type is already on its pixel.
func (s *session) featureFromItem(item *mapstore.Item, opt itemFeature) *feature.Feature {
	t := opt.typ
	if t == feature.NBR_GFXFEATURES {
		t = classify.FeatureTypeForItem(item, opt.settings)
	}
	if t == feature.NBR_GFXFEATURES || !s.req.includeFeatureType(t) {
		return nil
	}

	f := feature.NewNamedFeature(t, s.itemName(item))
	f.CountryCode = s.m.CountryCode()

	if opt.coord.IsValid() {
		f.AddNewPolygon(true, 1)
		f.AddCoordinateToLast(opt.coord)
	} else if item.Gfx != nil {
		for j := 0; j < item.Gfx.NbrPolygons(); j++ {
			if item.Kind == mapstore.KindStreet {
				// the polygons of a street have road classes of their own
				if !s.included(classify.ToDrawStreetPolygon(item.PolygonRoadClass(j))) {
					continue
				}
			}
			s.addGfx(f, item.Gfx, opt.settings, j, opt.forward)
		}
		if s.b.ManyFeaturesOnPixel(f) {
			return nil
		}
	}

	switch {
	case t == feature.POI && item.Kind == mapstore.KindPOI:
		f.POI = &feature.POIInfo{
			Type:      uint8(item.POIType()),
			ExtraInfo: opt.extraInfo,
			ImageName: opt.imageName,
		}
		if item.POI != nil {
			f.POI.Categories = item.POI.Categories
		}
	case item.Kind == mapstore.KindStreetSegment && item.Road != nil && t.IsRoad():
		r := item.Road
		for _, p := range f.Polygons {
			p.Road = &feature.RoadParams{
				SpeedLimitPos: r.SpeedLimitPos,
				SpeedLimitNeg: r.SpeedLimitNeg,
				MultiDig:      r.MultiDig,
				Ramp:          r.Ramp,
				Roundabout:    r.Roundabout,
				Level0:        r.Level0,
				Level1:        r.Level1,
				EntryRestr0:   r.EntryRestr0,
				EntryRestr1:   r.EntryRestr1,
			}
		}
	}
	return f
}

// addGfx filters polygon poly of gfx according to settings and adds it to f.
func (s *session) addGfx(f *feature.Feature, gfx *mapstore.GfxData, settings *classify.FilterSettings,
	poly int, forward bool) bool {
	if settings == nil {
		return s.addFilteredGfx(f, gfx, poly, nil, forward)
	}

	coords := gfx.Coords(poly)
	switch settings.Type {
	case classify.OpenPolygonFilter, classify.ClosedPolygonFilter:
		kept, ok := filter.OpenPolygon(coords, settings.MaxLatDist, settings.MaxWayDist, false, 0, -1)
		if !ok {
			return false
		}
		return s.addFilteredGfx(f, gfx, poly, filter.Union(kept, selfTouch(gfx, poly)), forward)

	case classify.SymbolFilter:
		// middle of the bounding box
		bb := gfx.BBox()
		f.AddNewPolygon(true, 1)
		f.AddCoordinateToLast(geo.NewCoordinate(bb.MinLat+bb.MaxLat/2-bb.MinLat/2,
			bb.MinLon+bb.MaxLon/2-bb.MinLon/2))
		return true

	case classify.DouglasPeuckerFilter:
		kept, ok := filter.DouglasPeucker(coords, settings.MaxLatDist, 0, -1)
		if !ok {
			return false
		}
		return s.addFilteredGfx(f, gfx, poly, filter.Union(kept, selfTouch(gfx, poly)), forward)
	}
	return s.addFilteredGfx(f, gfx, poly, nil, forward)
}

func selfTouch(gfx *mapstore.GfxData, poly int) []int {
	polys := make([][]geo.Coordinate, gfx.NbrPolygons())
	for i := range polys {
		polys[i] = gfx.Coords(i)
	}
	return filter.SelfTouch(polys, poly)
}

func allIndices(n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = i
	}
	return res
}

// addFilteredGfx adds the coordinates of poly listed in stack, every coordinate when stack is
// nil. Closed polygons not inside the include box are clipped, open ones are streamed through
// the outcode thinning of the builder.
func (s *session) addFilteredGfx(f *feature.Feature, gfx *mapstore.GfxData, poly int, stack []int,
	forward bool) bool {
	n := gfx.NbrCoordinates(poly)
	if n == 0 {
		return false
	}
	idx := stack
	if idx == nil {
		idx = allIndices(n)
	}
	if len(idx) == 0 {
		return false
	}
	coords16 := feature.UseCoords16(gfx.Length(poly), n)
	includeBox := s.b.IncludeBox()

	if gfx.PolygonClosed(poly) {
		firstNew := f.NbrPolygons()

		var rings [][]geo.Coordinate
		if !gfx.BBox().Inside(includeBox) {
			vertices := make([]geo.Coordinate, len(idx))
			for i, k := range idx {
				vertices[i] = gfx.Coord(poly, k)
			}
			var ok bool
			rings, ok = clip.Closed(includeBox, vertices, s.strategy.ConcaveClipper)
			if !ok {
				return false
			}
		} else {
			ring := make([]geo.Coordinate, len(idx))
			for i, k := range idx {
				ring[i] = gfx.Coord(poly, k)
			}
			rings = [][]geo.Coordinate{ring}
		}

		for _, ring := range rings {
			if !forward {
				ring = reversed(ring)
			}
			s.b.AddClippedFirstCoordinate(f, ring[0], len(ring), coords16)
			for _, c := range ring[1:] {
				s.b.AddClippedCoordinate(c)
			}
			s.b.ClosePolygon()
		}

		area := uint32(math.Min(math.Abs(gfx.PolygonArea(poly)), math.MaxUint32))
		for j := firstNew; j < f.NbrPolygons(); j++ {
			f.Polygons[j].Area = area
		}
		return f.NbrPolygons() > firstNew
	}

	if !forward {
		idx = reversed(idx)
	}
	approx := len(idx)
	if stack == nil {
		approx = min(approx, 256)
	}
	first := gfx.Coord(poly, idx[0])
	next := first
	if len(idx) > 1 {
		next = gfx.Coord(poly, idx[1])
	}
	s.b.AddFirstCoordinate(f, first, next, approx, coords16)
	for _, k := range idx[min(2, len(idx)):] {
		s.b.AddPreviousCoordinate(gfx.Coord(poly, k))
	}
	if len(idx) > 1 {
		s.b.AddFinalCoordinate()
	}
	return true
}

// streamLine adds an open line with the outcode thinning, used for the partial route items.
func (s *session) streamLine(f *feature.Feature, coords []geo.Coordinate) {
	line := make([]geo.Coordinate, 0, len(coords))
	for _, c := range coords {
		if len(line) > 0 && line[len(line)-1] == c {
			continue
		}
		line = append(line, c)
	}
	if len(line) == 0 {
		return
	}
	coords16 := feature.UseCoords16(filter.PolyLength(line), len(line))
	next := line[0]
	if len(line) > 1 {
		next = line[1]
	}
	s.b.AddFirstCoordinate(f, line[0], next, len(line), coords16)
	for _, c := range line[min(2, len(line)):] {
		s.b.AddPreviousCoordinate(c)
	}
	if len(line) > 1 {
		s.b.AddFinalCoordinate()
	}
}

func reversed[T any](s []T) []T {
	res := make([]T, len(s))
	for i, v := range s {
		res[len(s)-1-i] = v
	}
	return res
}

// addCentroid gives large areas a single coordinate polygon at the centroid for the label.
func addCentroid(f *feature.Feature, item *mapstore.Item) {
	if !classify.IsLargeAreaType(f.Type) || item.Gfx == nil || item.Gfx.NbrPolygons() == 0 ||
		!item.Gfx.Closed() || f.NbrPolygons() == 0 {
		return
	}
	f.AddNewPolygon(true, 1)
	f.AddCoordinateToLast(item.Gfx.PolygonCentroid(0))
}
