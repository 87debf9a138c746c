// Package classify decides whether an item is drawn and at which scale level.
package classify

import (
	"math"

	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
)

const NotIncluded = feature.INVALID_SCALE_LEVEL

// upper scale (1:x) of every scale level
var maxScale = [feature.NBR_SCALE_LEVELS]uint32{
	400000000, // continent
	500000000, // country
	5000000,   // county
	30000,     // small county
	7000,      // municipal
	1000,      // city
	300,       // small city
	50,        // district
	24,        // block
	10,        // part of block
	2,         // detailed street
}

var scaleNames = [feature.NBR_SCALE_LEVELS]string{
	"CONTINENT", "COUNTRY", "COUNTY", "SMALL_COUNTY", "MUNICIPAL", "CITY", "SMALL_CITY",
	"DISTRICT", "BLOCK", "PART_OF_BLOCK", "DETAILED_STREET",
}

func ScaleLevelName(level uint32) string {
	if level < feature.NBR_SCALE_LEVELS {
		return scaleNames[level]
	}
	return "INVALID"
}

// shops are only drawn when their extra info carries the custom poi bit
const SPECIAL_CUSTOM_POI_MASK = 0x80

// views wider than this only get main roads
const mainRoadOnlyViewWidth = 400000 * geo.METER_TO_MC2

// ScaleLevel buckets an area in MC2² drawn on a w x h screen. A larger footprint per pixel
// gives a coarser level.
func ScaleLevel(area float64, w, h int, factor uint32) uint32 {
	if w <= 0 || h <= 0 {
		return feature.DETAILED_STREET_LEVEL
	}
	scale := area*float64(factor)*5*geo.SQ_MC2_TO_M/float64(w*h) + 1
	curScale := uint32(math.MaxUint32)
	if scale < math.MaxUint32 {
		curScale = uint32(scale)
	}

	level := uint32(0)
	for level < feature.NBR_SCALE_LEVELS-1 && maxScale[level] > curScale {
		level++
	}
	return level
}

func bboxArea(bb geo.BoundingBox) float64 {
	if !bb.IsValid() {
		return 0
	}
	return float64(bb.Height()) * float64(bb.Width()) * bb.CosLat()
}

// Included reports whether level is inside the requested [minScale, maxScale] window.
func Included(level, minScale, maxScale uint32) bool {
	return level != NotIncluded && level >= minScale && level <= maxScale
}

// Request is what ToDrawItem needs to know about the view besides the item.
type Request struct {
	View                 geo.BoundingBox
	ScreenX              int
	ScreenY              int
	CountryMap           bool
	UseStreets           bool
	AlwaysFromCountryMap bool
}

// ToDrawItem returns the scale level of item, or NotIncluded. coord is the position used
// for pois, extraPOIInfo their display class byte (0xff when there is none).
func ToDrawItem(item *mapstore.Item, req Request, coord geo.Coordinate, extraPOIInfo uint8) uint32 {
	if item == nil || (item.Gfx == nil && item.Kind != mapstore.KindPOI) {
		return NotIncluded
	}

	bbox := geo.EmptyBoundingBox()
	if item.Kind != mapstore.KindPOI {
		bbox = item.Gfx.BBox()
		if !req.View.Overlaps(bbox) {
			return NotIncluded
		}
	} else if !req.View.ContainsCoordinate(coord) {
		return NotIncluded
	}

	if req.CountryMap && req.AlwaysFromCountryMap {
		switch {
		case item.Kind == mapstore.KindWater && FeatureTypeForItem(item, nil) != feature.WATER_LINE:
			return feature.CONTINENT_LEVEL
		case item.Kind == mapstore.KindForest:
			return feature.COUNTY_LEVEL
		default:
			return NotIncluded
		}
	}

	area := bboxArea(bbox)
	switch item.Kind {
	case mapstore.KindBuiltUpArea:
		return ScaleLevel(area, req.ScreenX, req.ScreenY, 400)

	case mapstore.KindStreetSegment:
		if req.UseStreets && item.Road != nil && item.Road.PartOfStreet {
			return NotIncluded
		}
		if float64(req.View.Width())*req.View.CosLat() > mainRoadOnlyViewWidth &&
			item.RoadClass() != mapstore.MainRoad {
			return NotIncluded
		}
		return streetSegmentLevel(item.RoadClass())

	case mapstore.KindStreet:
		if req.CountryMap {
			return feature.COUNTY_LEVEL
		}
		if req.UseStreets {
			switch item.Zoom() {
			case 1:
				return feature.COUNTY_LEVEL
			case 2:
				return feature.SMALL_COUNTY_LEVEL
			case 3:
				return feature.MUNICIPAL_LEVEL
			case 4:
				return feature.CITY_LEVEL
			default:
				return feature.DISTRICT_LEVEL
			}
		}
		return NotIncluded

	case mapstore.KindFerry:
		return feature.SMALL_COUNTY_LEVEL
	case mapstore.KindRailway:
		return feature.COUNTRY_LEVEL
	case mapstore.KindCartographic:
		return feature.CITY_LEVEL
	case mapstore.KindBuilding, mapstore.KindIndividualBuilding:
		return feature.DISTRICT_LEVEL
	case mapstore.KindAircraftRoad:
		return ScaleLevel(area, req.ScreenX, req.ScreenY, 300)

	case mapstore.KindWater:
		if req.CountryMap && !req.AlwaysFromCountryMap {
			// already added from the country map pass
			return NotIncluded
		}
		if FeatureTypeForItem(item, nil) != feature.WATER_LINE {
			return feature.CONTINENT_LEVEL
		}
		return ScaleLevel(area, req.ScreenX, req.ScreenY, 300)

	case mapstore.KindIsland:
		// early, so that streets are not drawn in the water
		return ScaleLevel(area, req.ScreenX, req.ScreenY, 1000)
	case mapstore.KindPark:
		return ScaleLevel(area, req.ScreenX, req.ScreenY, 500)
	case mapstore.KindForest:
		return feature.COUNTY_LEVEL
	case mapstore.KindPOI:
		return poiLevel(item.POIType(), area, req, extraPOIInfo)
	case mapstore.KindAirport:
		return ScaleLevel(area, req.ScreenX, req.ScreenY, 400)
	}
	return NotIncluded
}

func streetSegmentLevel(roadClass uint8) uint32 {
	switch roadClass {
	case mapstore.MainRoad, mapstore.FirstClassRoad:
		return feature.SMALL_COUNTY_LEVEL
	case mapstore.SecondClassRoad:
		return feature.MUNICIPAL_LEVEL
	case mapstore.ThirdClassRoad:
		return feature.CITY_LEVEL
	default:
		return feature.SMALL_CITY_LEVEL
	}
}

func poiLevel(t mapstore.POIType, area float64, req Request, extraPOIInfo uint8) uint32 {
	switch t {
	case mapstore.Airport:
		return ScaleLevel(area, req.ScreenX, req.ScreenY, 400)
	case mapstore.FerryTerminal:
		return feature.MUNICIPAL_LEVEL
	case mapstore.PublicSportAirport, mapstore.Marina, mapstore.TollRoad:
		return feature.CITY_LEVEL
	case mapstore.RailwayStation:
		return feature.SMALL_COUNTY_LEVEL
	case mapstore.AmusementPark, mapstore.SkiResort, mapstore.GolfCourse, mapstore.Hospital:
		return feature.SMALL_CITY_LEVEL
	case mapstore.CityCentre:
		switch {
		case extraPOIInfo <= 4:
			return feature.COUNTRY_LEVEL
		case extraPOIInfo <= 6:
			return feature.COUNTY_LEVEL
		case extraPOIInfo <= 8:
			return feature.SMALL_COUNTY_LEVEL
		case extraPOIInfo <= 11:
			return feature.MUNICIPAL_LEVEL
		default:
			return feature.CITY_LEVEL
		}
	case mapstore.SubwayStation, mapstore.BusStation, mapstore.Library:
		return feature.DISTRICT_LEVEL
	case mapstore.Museum, mapstore.University, mapstore.Theatre, mapstore.TouristAttraction,
		mapstore.TouristOffice, mapstore.TramStation:
		return feature.BLOCK_LEVEL
	case mapstore.PostOffice, mapstore.RentACarFacility, mapstore.ParkingGarage,
		mapstore.OpenParkingArea, mapstore.ParkAndRide, mapstore.PetrolStation, mapstore.WLAN,
		mapstore.Casino, mapstore.Cinema, mapstore.HistoricalMonument,
		mapstore.CommuterRailStation, mapstore.Restaurant, mapstore.Hotel, mapstore.Cafe:
		return feature.PART_OF_BLOCK_LEVEL
	case mapstore.Shop:
		if extraPOIInfo != 0xff && extraPOIInfo&SPECIAL_CUSTOM_POI_MASK != 0 {
			return feature.PART_OF_BLOCK_LEVEL
		}
	}
	return NotIncluded
}

// ToDrawStreetPolygon is the scale level of one polygon of a street item.
func ToDrawStreetPolygon(roadClass uint8) uint32 {
	switch roadClass {
	case mapstore.MainRoad:
		return feature.COUNTRY_LEVEL
	case mapstore.FirstClassRoad:
		return feature.COUNTY_LEVEL
	case mapstore.SecondClassRoad:
		return feature.SMALL_COUNTY_LEVEL
	case mapstore.ThirdClassRoad:
		return feature.CITY_LEVEL
	default:
		return feature.DISTRICT_LEVEL
	}
}
