package assembler

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/classify"
	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/filter"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
	"go.uber.org/zap"
)

const (
	maxNbrSkipPolys    = 5
	minNbrCountryPolys = 10
	// above this tile scale small islands are left out of the country polygon
	smallPolyTileScale = 4500
)

// createCountry adds the LAND feature and the borders when the country polygon is requested,
// then the large water and forest stored on the country map.
func (s *session) createCountry() {
	gfx := s.m.Gfx()
	if s.req.includeFeatureType(feature.LAND) && s.req.IncludeCountryPolygon && gfx != nil {
		land := s.landFeature()
		nbrToSend := nbrCountryPolysToSend(gfx, s.req.MaxScale)
		for i := 0; i < gfx.NbrPolygons() && i < nbrToSend; i++ {
			s.addCountryPolygon(land, gfx, i)
		}
		if nbrToSend >= 1 && gfx.NbrPolygons() >= 1 {
			land.AddNewPolygon(true, 1)
			land.AddCoordinateToLast(gfx.PolygonCentroid(0))
		}
		s.fmap.AddFeature(land)

		nbrBorders := s.addBorders()
		s.log.Debug("country polygon added",
			zap.Uint32("mapID", s.m.ID()),
			zap.String("name", land.Name),
			zap.Int("polygons", land.NbrPolygons()),
			zap.Int("borders", nbrBorders))
	}

	req := classify.Request{
		View:                 s.view,
		ScreenX:              int(s.req.ScreenX),
		ScreenY:              int(s.req.ScreenY),
		CountryMap:           true,
		AlwaysFromCountryMap: true,
	}
	for _, item := range s.m.ItemsWithZoom(mapstore.COUNTRY_WATER_ZOOM) {
		if item == nil || item.Gfx == nil {
			continue
		}
		level := classify.ToDrawItem(item, req, geo.InvalidCoordinate, classify.NoExtraInfo)
		if !s.included(level) {
			continue
		}
		f := s.featureFromItem(item, defaultItemFeature(s.filterSettings(item)))
		if f == nil {
			continue
		}
		f.Scale = level
		s.fmap.AddFeature(f)
	}
}

func (s *session) landFeature() *feature.Feature {
	lang := s.req.Language
	if native := s.m.NativeLanguages(); lang == "" && len(native) > 0 {
		lang = native[0]
	}
	english := s.m.CountryName("en")
	name := s.m.CountryName(lang)
	if name == "" {
		name = english
	}

	land := feature.NewNamedFeature(feature.LAND, name)
	// the country is always visible
	land.Scale = feature.CONTINENT_LEVEL
	land.Basename = english
	land.CountryCode = s.m.CountryCode()
	return land
}

// nbrCountryPolysToSend counts the polygons of the country to send. The polygons are sorted
// on coordinate count, up to 5 short ones are accepted on the way so that larger polygons with
// fewer coordinates still make it. Short polygons at the end are not sent, but at least 10
// polygons are.
func nbrCountryPolysToSend(gfx *mapstore.GfxData, maxScale uint32) int {
	minPolyLength := 35000.0
	if maxScale <= feature.COUNTY_LEVEL {
		minPolyLength = 70000
	}

	var skipPolys [maxNbrSkipPolys]int
	for i := range skipPolys {
		skipPolys[i] = -1
	}

	nbrPolygons, nbrSkip := 0, 0
	for nbrPolygons < gfx.NbrPolygons() {
		if gfx.Length(nbrPolygons) < minPolyLength {
			skipPolys[nbrSkip] = nbrPolygons
			nbrSkip++
			if nbrSkip >= maxNbrSkipPolys {
				nbrPolygons++
				break
			}
		}
		nbrPolygons++
	}

	// drop the skipped polygons that ended up last
	for n := maxNbrSkipPolys; n > 0; n-- {
		skip := skipPolys[n-1]
		if skip < 0 {
			// unused slot
			continue
		}
		if skip < nbrPolygons-1 {
			break
		}
		if skip == nbrPolygons-1 {
			nbrPolygons--
		}
	}

	return min(max(nbrPolygons, minNbrCountryPolys), gfx.NbrPolygons())
}

// addCountryPolygon adds polygon poly of the country gfx at the detail the request asks for.
func (s *session) addCountryPolygon(f *feature.Feature, gfx *mapstore.GfxData, poly int) bool {
	if s.strategy.Tile {
		return s.addTileCountryPolygon(f, gfx, poly)
	}

	level, ok := classify.CountryFilterLevel(s.req.FiltScale)
	if !ok || gfx.Stacks == nil {
		return s.addGfx(f, gfx, nil, poly, true)
	}
	stack, ok := gfx.Stacks.Get(level, poly)
	if !ok {
		s.log.Debug("country polygon without stack", zap.Int("level", level), zap.Int("poly", poly))
		return false
	}
	return s.addFilteredGfx(f, gfx, poly, stack, true)
}

func (s *session) tileFilterLevel() (int, float64) {
	tileScale := classify.TileScale(float64(s.view.Height()) * geo.MC2_TO_M)
	return classify.CoPolFilterLevel(tileScale, s.strategy.HighEnd), tileScale
}

func (s *session) addTileCountryPolygon(f *feature.Feature, gfx *mapstore.GfxData, poly int) bool {
	level, tileScale := s.tileFilterLevel()
	if poly != 0 && tileScale > smallPolyTileScale &&
		gfx.Length(poly) < 2*float64(filter.FiltDistanceForMapGfx(level)) {
		return false
	}
	stack, ok := gfx.TileStacks.Get(level, poly)
	if !ok || len(stack) < 3 {
		return false
	}
	return s.addFilteredGfx(f, gfx, poly, stack, true)
}

// addBorders adds the border items of a country map as BORDER features. Only maps with filtered
// gfx have border items.
func (s *session) addBorders() int {
	if !s.m.IsCountryMap() || !s.m.GfxFiltered() || !s.req.includeFeatureType(feature.BORDER) {
		return 0
	}
	nbrBorders := 0
	for z := uint32(0); z < mapstore.NBR_GFX_ZOOMLEVELS; z++ {
		for _, item := range s.m.ItemsWithZoom(z) {
			if item == nil || item.Gfx == nil || item.Kind != mapstore.KindBorder {
				continue
			}
			border := feature.NewFeature(feature.BORDER)
			border.Scale = feature.CONTINENT_LEVEL
			border.CountryCode = s.m.CountryCode()
			for j := 0; j < item.Gfx.NbrPolygons(); j++ {
				s.addBorderPolygon(border, item.Gfx, j)
			}
			if border.NbrPolygons() == 0 {
				continue
			}
			s.fmap.AddFeature(border)
			nbrBorders++
		}
	}
	return nbrBorders
}

func (s *session) addBorderPolygon(f *feature.Feature, gfx *mapstore.GfxData, poly int) {
	if !s.strategy.Tile {
		s.addGfx(f, gfx, nil, poly, true)
		return
	}
	level, _ := s.tileFilterLevel()
	stack, ok := gfx.TileStacks.Get(level, poly)
	if !ok || len(stack) < 2 {
		return
	}
	s.addFilteredGfx(f, gfx, poly, stack, true)
}
