package classify

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/filter"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
)

type FilterType uint8

const (
	NoFilter FilterType = iota
	OpenPolygonFilter
	ClosedPolygonFilter
	SymbolFilter
	DouglasPeuckerFilter
)

// FilterSettings says how the coordinates of one item are reduced before they are added to a
// feature. Distances are in meters.
type FilterSettings struct {
	Type       FilterType
	MaxLatDist float64
	MaxWayDist float64
	// BUAs drawn as a symbol use the square 3d symbol instead of the small city symbol
	Square3D bool
}

// FilterSettingsFor returns the settings for kind at scale. ok is false when the item is added
// unfiltered.
func FilterSettingsFor(kind mapstore.Kind, scale uint32) (FilterSettings, bool) {
	if kind != mapstore.KindForest && kind != mapstore.KindWater {
		return FilterSettings{}, false
	}
	switch scale {
	case feature.CONTINENT_LEVEL:
		return FilterSettings{Type: DouglasPeuckerFilter, MaxLatDist: 1500}, true
	case feature.COUNTRY_LEVEL:
		return FilterSettings{Type: DouglasPeuckerFilter, MaxLatDist: 750}, true
	case feature.COUNTY_LEVEL:
		return FilterSettings{Type: DouglasPeuckerFilter, MaxLatDist: 375}, true
	}
	return FilterSettings{}, false
}

// CountryFilterLevel maps the filter scale level to a legacy country filter level. ok is false
// when the level is finer than the stacks hold, the whole polygon is then added.
func CountryFilterLevel(scale uint32) (int, bool) {
	if scale >= uint32(len(filter.LegacyCountryLevels)) {
		return 0, false
	}
	return int(scale), true
}

// TileScale is the meters per pixel of the requested view, the height of the view divided by
// the 200 pixels of a tile.
func TileScale(viewHeightMeters float64) float64 {
	return viewHeightMeters / 200
}

// CoPolFilterLevel picks the map gfx filter level of the country polygon for a tile scale.
func CoPolFilterLevel(tileScale float64, highEnd bool) int {
	var level int
	switch {
	case tileScale < 12:
		level = 2
	case tileScale < 30:
		level = 4
	case tileScale < 100:
		level = 6
	case tileScale < 300:
		level = 7
	case tileScale < 800:
		level = 8
	case tileScale < 1600:
		level = 9
	case tileScale < 5000:
		level = 11
	default:
		level = 14
	}
	if highEnd {
		level = HighEndShift(level)
	}
	return level
}

// HighEndShift gives devices with more memory a finer country polygon.
func HighEndShift(level int) int {
	if level <= 1 {
		return level
	}
	if level >= 4 && level < 14 {
		return level - 2
	}
	return level - 1
}

// FeatureTypeForItem returns the feature type an item is drawn as. settings may be nil.
// NBR_GFXFEATURES means the item is not drawn at all.
func FeatureTypeForItem(item *mapstore.Item, settings *FilterSettings) feature.Type {
	switch item.Kind {
	case mapstore.KindBuiltUpArea:
		if item.AreaDisplayClass() == mapstore.BuaOnIsland {
			return feature.BUA_ON_ISLAND
		}
		if settings != nil && settings.Type == SymbolFilter {
			if settings.Square3D {
				return feature.BUILTUP_AREA_SQUARE
			}
			return feature.BUILTUP_AREA_SMALL
		}
		return feature.BUILTUP_AREA

	case mapstore.KindStreetSegment:
		if item.Road != nil && item.Road.DisplayClass == mapstore.PartOfWalkway {
			return feature.WALKWAY
		}
		return streetType(item.RoadClass())

	case mapstore.KindStreet:
		switch item.Zoom() {
		case 1:
			return feature.STREET_MAIN
		case 2:
			return feature.STREET_FIRST
		case 3:
			return feature.STREET_SECOND
		case 4:
			return feature.STREET_THIRD
		}
		return feature.STREET_FOURTH

	case mapstore.KindWater:
		if item.Gfx == nil || !item.Gfx.Closed() {
			return feature.WATER_LINE
		}
		switch item.AreaDisplayClass() {
		case mapstore.WaterInCityPark, mapstore.WaterInCartographic,
			mapstore.WaterInBuilding, mapstore.WaterOnIsland:
			return feature.WATER_IN_PARK
		}
		return feature.WATER

	case mapstore.KindPark:
		if item.Area != nil && item.Area.ParkType == mapstore.NationalPark {
			return feature.NATIONALPARK
		}
		return feature.PARK

	case mapstore.KindIsland:
		switch item.AreaDisplayClass() {
		case mapstore.IslandInBua:
			return feature.ISLAND_IN_BUA
		case mapstore.IIWIPOutsideParkOutsideBua:
			return feature.ISLAND_IN_WATER_IN_PARK_ISLAND
		case mapstore.IIWIPOutsideParkInsideBua:
			return feature.ISLAND_IN_WATER_IN_PARK_BUA
		case mapstore.IIWIPInsidePark:
			return feature.ISLAND_IN_WATER_IN_PARK
		}
		return feature.ISLAND

	case mapstore.KindCartographic:
		var ct mapstore.CartoType
		if item.Area != nil {
			ct = item.Area.CartoType
		}
		switch ct {
		case mapstore.GolfGround, mapstore.RecreationalAreaGround, mapstore.RestAreaGround,
			mapstore.ZooGround, mapstore.CemeteryGround, mapstore.AmusementParkGround:
			return feature.CARTOGRAPHIC_GREEN_AREA
		case mapstore.MilitaryServiceBranch:
			return feature.NBR_GFXFEATURES
		}
		return feature.CARTOGRAPHIC_GROUND

	case mapstore.KindIndividualBuilding:
		if item.Area != nil && item.Area.ParkingGarage {
			return feature.BUILDING
		}
		return feature.INDIVIDUALBUILDING

	case mapstore.KindForest:
		return feature.FOREST
	case mapstore.KindBuilding:
		return feature.BUILDING
	case mapstore.KindAirport:
		return feature.AIRPORTGROUND
	case mapstore.KindAircraftRoad:
		return feature.AIRCRAFTROAD
	case mapstore.KindPedestrianArea:
		return feature.PEDESTRIANAREA
	case mapstore.KindFerry:
		return feature.FERRY
	case mapstore.KindRailway:
		return feature.RAILWAY
	case mapstore.KindBorder:
		return feature.BORDER
	case mapstore.KindPOI:
		return feature.POI
	}
	return feature.NBR_GFXFEATURES
}

func streetType(roadClass uint8) feature.Type {
	switch roadClass {
	case mapstore.MainRoad:
		return feature.STREET_MAIN
	case mapstore.FirstClassRoad:
		return feature.STREET_FIRST
	case mapstore.SecondClassRoad:
		return feature.STREET_SECOND
	case mapstore.ThirdClassRoad:
		return feature.STREET_THIRD
	}
	return feature.STREET_FOURTH
}

// IsLargeAreaType reports the area types that get a centroid coordinate for label placement.
func IsLargeAreaType(t feature.Type) bool {
	switch t {
	case feature.WATER, feature.PARK, feature.NATIONALPARK, feature.FOREST, feature.ISLAND,
		feature.BUILTUP_AREA, feature.AIRPORTGROUND, feature.CARTOGRAPHIC_GREEN_AREA:
		return true
	}
	return false
}
