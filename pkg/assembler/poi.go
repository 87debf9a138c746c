package assembler

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/classify"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
	"go.uber.org/zap"
)

func (s *session) classifyRequest() classify.Request {
	return classify.Request{
		View:       s.view,
		ScreenX:    int(s.req.ScreenX),
		ScreenY:    int(s.req.ScreenY),
		CountryMap: s.m.IsCountryMap(),
		UseStreets: s.req.UseStreets,
	}
}

// createUnderview adds the items whose bounding box overlaps the view. Pois are left to
// createPOIs and borders to the country pass.
func (s *session) createUnderview() {
	req := s.classifyRequest()
	nbrAdded := 0
	for _, id := range s.m.IDsWithinBBox(s.view) {
		item := s.m.Item(id)
		if item == nil || item.Gfx == nil || item.Kind == mapstore.KindBorder {
			continue
		}
		if item.Zoom() == mapstore.POI_ZOOM {
			continue
		}
		level := classify.ToDrawItem(item, req, geo.InvalidCoordinate, classify.NoExtraInfo)
		if !s.included(level) {
			continue
		}

		f := s.featureFromItem(item, defaultItemFeature(s.filterSettings(item)))
		if f == nil || f.NbrPolygons() == 0 {
			continue
		}
		addCentroid(f, item)
		f.Scale = level
		s.fmap.AddFeature(f)
		nbrAdded++
	}
	s.log.Debug("underview features added", zap.Uint32("mapID", s.m.ID()), zap.Int("features", nbrAdded))
}

// createPOIs adds the pois within the view as single coordinate features.
func (s *session) createPOIs() {
	req := s.classifyRequest()
	nbrAdded := 0
	for _, id := range s.m.IDsWithinBBox(s.view, mapstore.KindPOI) {
		item := s.m.Item(id)
		if item == nil || item.Zoom() != mapstore.POI_ZOOM {
			continue
		}
		t := item.POIType()
		if !s.req.includePOIType(t) || !classify.CheckPOI(item) {
			continue
		}
		if t == mapstore.CityCentre && s.req.ShowCityCentres {
			// added by createCityCentres
			continue
		}

		coord := item.Coordinate()
		extra, image := classify.POIExtraInfo(item)
		level := classify.ToDrawItem(item, req, coord, extra)
		if classify.IsTurkishHospital(item) {
			extra = 1
		}
		if !s.included(level) {
			continue
		}
		if classify.NeedsOwnImage(t) && image == "" {
			continue
		}

		opt := defaultItemFeature(nil)
		opt.coord = coord
		opt.extraInfo = extra
		opt.imageName = image
		f := s.featureFromItem(item, opt)
		if f == nil {
			continue
		}
		f.Scale = level
		s.fmap.AddFeature(f)
		nbrAdded++
	}
	s.log.Debug("poi features added", zap.Uint32("mapID", s.m.ID()), zap.Int("features", nbrAdded))
}

// cityCentreExtraInfo is the display class of the rank table, else the one of the item.
func (s *session) cityCentreExtraInfo(item *mapstore.Item, ranks classify.RankTable) uint8 {
	if item.POI == nil {
		return classify.NoExtraInfo
	}
	if item.POI.WaspID != mapstore.InvalidWaspID {
		if dc, ok := ranks.DisplayClass(item.POI.WaspID); ok {
			return classify.AdjustPOIInfoForCountry(dc, s.m.CountryCode())
		}
	}
	extra, _ := classify.POIExtraInfo(item)
	return extra
}

// createCityCentres adds the city centres of underview maps, the larger ones of a country map
// live at zoom 1.
func (s *session) createCityCentres() {
	if !s.m.IsUnderviewMap() && !s.req.DrawOverviewContents {
		return
	}
	if !s.req.includePOIType(mapstore.CityCentre) {
		return
	}

	zooms := []uint32{mapstore.POI_ZOOM}
	if s.m.IsCountryMap() {
		zooms = append(zooms, mapstore.COUNTRY_WATER_ZOOM)
	}
	req := s.classifyRequest()
	ranks := classify.RankTable(s.m.CityRanks())

	nbrAdded := 0
	for _, z := range zooms {
		for _, item := range s.m.ItemsWithZoom(z) {
			if item == nil || item.Kind != mapstore.KindPOI || item.POIType() != mapstore.CityCentre {
				continue
			}
			coord := item.Coordinate()
			if !coord.IsValid() {
				continue
			}
			extra := s.cityCentreExtraInfo(item, ranks)
			level := classify.ToDrawItem(item, req, coord, extra)
			if !s.included(level) {
				continue
			}

			opt := defaultItemFeature(nil)
			opt.coord = coord
			opt.extraInfo = extra
			f := s.featureFromItem(item, opt)
			if f == nil {
				continue
			}
			f.Scale = level
			s.fmap.AddFeature(f)
			nbrAdded++
		}
	}
	s.log.Debug("city centres added", zap.Uint32("mapID", s.m.ID()), zap.Int("features", nbrAdded))
}
