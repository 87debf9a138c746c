package feature

import (
	"fmt"
	"math"
)

// Type is the feature type tag, written as u16 on the wire.
type Type uint16

const (
	STREET_MAIN Type = iota
	STREET_FIRST
	STREET_SECOND
	STREET_THIRD
	STREET_FOURTH
	BUILTUP_AREA
	PARK
	FOREST
	BUILDING
	WATER
	ISLAND
	PEDESTRIANAREA
	AIRCRAFTROAD
	LAND
	BUILTUP_AREA_SQUARE
	BUILTUP_AREA_SMALL
	WATER_LINE
	FERRY
	RAILWAY
	INDIVIDUALBUILDING
	NATIONALPARK
	OCEAN
	BORDER
	AIRPORTGROUND
	CARTOGRAPHIC_GREEN_AREA
	CARTOGRAPHIC_GROUND
)

const (
	ROUTE              Type = 100
	ROUTE_CONTINUATION Type = 101
	PARK_CAR           Type = 102
	EMPTY              Type = 150
	SYMBOL             Type = 151
	TRAFFIC_INFO       Type = 152
	ROUTE_ORIGIN       Type = 237
	ROUTE_DESTINATION  Type = 238
	POI                Type = 254
)

const (
	EVENT Type = 256 + iota
	WALKWAY
	WATER_IN_PARK
	ISLAND_IN_BUA
	ISLAND_IN_WATER_IN_PARK
	ISLAND_IN_WATER_IN_PARK_BUA
	ISLAND_IN_WATER_IN_PARK_ISLAND
	BUA_ON_ISLAND
)

// NBR_GFXFEATURES stands for "no type given, derive it from the item".
const NBR_GFXFEATURES Type = 0xffff

var typeNames = map[Type]string{
	STREET_MAIN:                    "STREET_MAIN",
	STREET_FIRST:                   "STREET_FIRST",
	STREET_SECOND:                  "STREET_SECOND",
	STREET_THIRD:                   "STREET_THIRD",
	STREET_FOURTH:                  "STREET_FOURTH",
	BUILTUP_AREA:                   "BUILTUP_AREA",
	PARK:                           "PARK",
	FOREST:                         "FOREST",
	BUILDING:                       "BUILDING",
	WATER:                          "WATER",
	ISLAND:                         "ISLAND",
	PEDESTRIANAREA:                 "PEDESTRIANAREA",
	AIRCRAFTROAD:                   "AIRCRAFTROAD",
	LAND:                           "LAND",
	BUILTUP_AREA_SQUARE:            "BUILTUP_AREA_SQUARE",
	BUILTUP_AREA_SMALL:             "BUILTUP_AREA_SMALL",
	WATER_LINE:                     "WATER_LINE",
	FERRY:                          "FERRY",
	RAILWAY:                        "RAILWAY",
	INDIVIDUALBUILDING:             "INDIVIDUALBUILDING",
	NATIONALPARK:                   "NATIONALPARK",
	OCEAN:                          "OCEAN",
	BORDER:                         "BORDER",
	AIRPORTGROUND:                  "AIRPORTGROUND",
	CARTOGRAPHIC_GREEN_AREA:        "CARTOGRAPHIC_GREEN_AREA",
	CARTOGRAPHIC_GROUND:            "CARTOGRAPHIC_GROUND",
	ROUTE:                          "ROUTE",
	ROUTE_CONTINUATION:             "ROUTE_CONTINUATION",
	PARK_CAR:                       "PARK_CAR",
	EMPTY:                          "EMPTY",
	SYMBOL:                         "SYMBOL",
	TRAFFIC_INFO:                   "TRAFFIC_INFO",
	ROUTE_ORIGIN:                   "ROUTE_ORIGIN",
	ROUTE_DESTINATION:              "ROUTE_DESTINATION",
	POI:                            "POI",
	EVENT:                          "EVENT",
	WALKWAY:                        "WALKWAY",
	WATER_IN_PARK:                  "WATER_IN_PARK",
	ISLAND_IN_BUA:                  "ISLAND_IN_BUA",
	ISLAND_IN_WATER_IN_PARK:        "ISLAND_IN_WATER_IN_PARK",
	ISLAND_IN_WATER_IN_PARK_BUA:    "ISLAND_IN_WATER_IN_PARK_BUA",
	ISLAND_IN_WATER_IN_PARK_ISLAND: "ISLAND_IN_WATER_IN_PARK_ISLAND",
	BUA_ON_ISLAND:                  "BUA_ON_ISLAND",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE_%d", uint16(t))
}

// IsRoad reports whether polygons of this type carry the road trailer.
func (t Type) IsRoad() bool {
	return t <= STREET_FOURTH || t == WALKWAY
}

// Scale levels, coarse to fine.
const (
	CONTINENT_LEVEL uint32 = iota
	COUNTRY_LEVEL
	COUNTY_LEVEL
	SMALL_COUNTY_LEVEL
	MUNICIPAL_LEVEL
	CITY_LEVEL
	SMALL_CITY_LEVEL
	DISTRICT_LEVEL
	BLOCK_LEVEL
	PART_OF_BLOCK_LEVEL
	DETAILED_STREET_LEVEL

	NBR_SCALE_LEVELS = 11
)

const TRAFFIC_INFO_LEVEL = CITY_LEVEL

// INVALID_SCALE_LEVEL marks an item that is not drawn at all.
const INVALID_SCALE_LEVEL uint32 = math.MaxUint32
