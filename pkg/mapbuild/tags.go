package mapbuild

import (
	"strconv"
	"strings"

	"github.com/lintang-b-s/osm-featuremap/pkg/classify"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
)

var roadClasses = map[string]uint8{
	"motorway":       mapstore.MainRoad,
	"trunk":          mapstore.MainRoad,
	"primary":        mapstore.FirstClassRoad,
	"secondary":      mapstore.SecondClassRoad,
	"tertiary":       mapstore.ThirdClassRoad,
	"motorway_link":  mapstore.MainRoad,
	"trunk_link":     mapstore.MainRoad,
	"primary_link":   mapstore.FirstClassRoad,
	"secondary_link": mapstore.SecondClassRoad,
	"tertiary_link":  mapstore.ThirdClassRoad,
	"unclassified":   mapstore.FourthClassRoad,
	"residential":    mapstore.FourthClassRoad,
	"living_street":  mapstore.FourthClassRoad,
	"service":        mapstore.FourthClassRoad,
	"road":           mapstore.FourthClassRoad,
}

var walkways = map[string]bool{
	"footway":    true,
	"pedestrian": true,
	"path":       true,
	"cycleway":   true,
	"steps":      true,
}

var cartoTypes = map[string]mapstore.CartoType{
	"leisure=golf_course":       mapstore.GolfGround,
	"leisure=recreation_ground": mapstore.RecreationalAreaGround,
	"highway=rest_area":         mapstore.RestAreaGround,
	"tourism=zoo":               mapstore.ZooGround,
	"landuse=cemetery":          mapstore.CemeteryGround,
	"amenity=grave_yard":        mapstore.CemeteryGround,
	"tourism=theme_park":        mapstore.AmusementParkGround,
	"landuse=military":          mapstore.MilitaryServiceBranch,
	"landuse=grass":             mapstore.CartoOther,
	"leisure=pitch":             mapstore.CartoOther,
}

// WayKind classifies an osm way. ok is false for ways that are not drawn.
func WayKind(tags map[string]string, closed bool) (mapstore.Kind, bool) {
	if hw, ok := tags["highway"]; ok {
		if hw == "pedestrian" && closed && tags["area"] == "yes" {
			return mapstore.KindPedestrianArea, true
		}
		if _, ok := roadClasses[hw]; ok || walkways[hw] {
			return mapstore.KindStreetSegment, true
		}
	}
	if tags["route"] == "ferry" {
		return mapstore.KindFerry, true
	}
	if tags["railway"] == "rail" {
		return mapstore.KindRailway, true
	}
	switch tags["aeroway"] {
	case "runway", "taxiway":
		return mapstore.KindAircraftRoad, true
	case "aerodrome":
		if closed {
			return mapstore.KindAirport, true
		}
	}
	if _, ok := tags["waterway"]; ok && !closed {
		return mapstore.KindWater, true
	}
	if !closed {
		return 0, false
	}

	switch {
	case tags["natural"] == "water", tags["landuse"] == "reservoir", tags["landuse"] == "basin":
		return mapstore.KindWater, true
	case tags["place"] == "island", tags["place"] == "islet":
		return mapstore.KindIsland, true
	case tags["landuse"] == "forest", tags["natural"] == "wood":
		return mapstore.KindForest, true
	case tags["leisure"] == "park", tags["leisure"] == "nature_reserve", tags["boundary"] == "national_park":
		return mapstore.KindPark, true
	case tags["landuse"] == "residential":
		return mapstore.KindBuiltUpArea, true
	case tags["landuse"] == "industrial", tags["landuse"] == "commercial", tags["landuse"] == "retail":
		return mapstore.KindBuilding, true
	}
	if b, ok := tags["building"]; ok && b != "no" {
		return mapstore.KindIndividualBuilding, true
	}
	if _, ok := cartoType(tags); ok {
		return mapstore.KindCartographic, true
	}
	return 0, false
}

func cartoType(tags map[string]string) (mapstore.CartoType, bool) {
	for _, k := range []string{"leisure", "highway", "tourism", "landuse", "amenity"} {
		if v, ok := tags[k]; ok {
			if ct, ok := cartoTypes[k+"="+v]; ok {
				return ct, true
			}
		}
	}
	return mapstore.CartoOther, false
}

func parseSpeed(s string) uint8 {
	s = strings.TrimSpace(strings.TrimSuffix(s, "km/h"))
	mph := strings.HasSuffix(s, "mph")
	s = strings.TrimSpace(strings.TrimSuffix(s, "mph"))
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0
	}
	if mph {
		v = v * 1609 / 1000
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// RoadAttrs reads the road attributes of a highway way.
func RoadAttrs(tags map[string]string) *mapstore.RoadAttrs {
	hw := tags["highway"]
	rc, ok := roadClasses[hw]
	if !ok {
		rc = mapstore.FourthClassRoad
	}
	ra := &mapstore.RoadAttrs{
		RoadClass:  rc,
		Ramp:       strings.HasSuffix(hw, "_link"),
		Roundabout: tags["junction"] == "roundabout",
		MultiDig:   tags["dual_carriageway"] == "yes",
	}
	if walkways[hw] {
		ra.DisplayClass = mapstore.PartOfWalkway
	}
	if tags["access"] == "no" {
		ra.EntryRestr0, ra.EntryRestr1 = mapstore.NoWay, mapstore.NoWay
	} else if tags["access"] == "destination" {
		ra.EntryRestr0, ra.EntryRestr1 = mapstore.NoThroughfare, mapstore.NoThroughfare
	}
	switch tags["oneway"] {
	case "yes", "1", "true":
		ra.EntryRestr1 = mapstore.NoWay
	case "-1":
		ra.EntryRestr0 = mapstore.NoWay
	}
	if l, err := strconv.Atoi(tags["layer"]); err == nil && l >= -8 && l <= 7 {
		ra.Level0, ra.Level1 = int8(l), int8(l)
	}
	speed := parseSpeed(tags["maxspeed"])
	ra.SpeedLimitPos, ra.SpeedLimitNeg = speed, speed
	if v, ok := tags["maxspeed:forward"]; ok {
		ra.SpeedLimitPos = parseSpeed(v)
	}
	if v, ok := tags["maxspeed:backward"]; ok {
		ra.SpeedLimitNeg = parseSpeed(v)
	}
	return ra
}

// AreaAttrs reads the area attributes of park, cartographic and building ways.
func AreaAttrs(kind mapstore.Kind, tags map[string]string) *mapstore.AreaAttrs {
	switch kind {
	case mapstore.KindPark:
		aa := &mapstore.AreaAttrs{ParkType: mapstore.CityPark}
		if tags["boundary"] == "national_park" || tags["leisure"] == "nature_reserve" {
			aa.ParkType = mapstore.NationalPark
		}
		return aa
	case mapstore.KindCartographic:
		ct, _ := cartoType(tags)
		return &mapstore.AreaAttrs{CartoType: ct}
	case mapstore.KindIndividualBuilding:
		return &mapstore.AreaAttrs{ParkingGarage: tags["building"] == "parking" ||
			tags["parking"] == "multi-storey"}
	case mapstore.KindWater, mapstore.KindIsland, mapstore.KindBuiltUpArea:
		return &mapstore.AreaAttrs{}
	}
	return nil
}

var poiTypes = map[string]mapstore.POIType{
	"aeroway=aerodrome":        mapstore.Airport,
	"amenity=ferry_terminal":   mapstore.FerryTerminal,
	"aeroway=airstrip":         mapstore.PublicSportAirport,
	"leisure=marina":           mapstore.Marina,
	"barrier=toll_booth":       mapstore.TollRoad,
	"railway=station":          mapstore.RailwayStation,
	"railway=halt":             mapstore.CommuterRailStation,
	"railway=tram_stop":        mapstore.TramStation,
	"station=subway":           mapstore.SubwayStation,
	"tourism=theme_park":       mapstore.AmusementPark,
	"landuse=winter_sports":    mapstore.SkiResort,
	"leisure=golf_course":      mapstore.GolfCourse,
	"amenity=hospital":         mapstore.Hospital,
	"amenity=bus_station":      mapstore.BusStation,
	"amenity=library":          mapstore.Library,
	"tourism=museum":           mapstore.Museum,
	"amenity=university":       mapstore.University,
	"amenity=theatre":          mapstore.Theatre,
	"tourism=attraction":       mapstore.TouristAttraction,
	"tourism=information":      mapstore.TouristOffice,
	"amenity=post_office":      mapstore.PostOffice,
	"amenity=car_rental":       mapstore.RentACarFacility,
	"amenity=parking":          mapstore.OpenParkingArea,
	"park_ride=yes":            mapstore.ParkAndRide,
	"amenity=fuel":             mapstore.PetrolStation,
	"internet_access=wlan":     mapstore.WLAN,
	"amenity=casino":           mapstore.Casino,
	"amenity=cinema":           mapstore.Cinema,
	"historic=monument":        mapstore.HistoricalMonument,
	"amenity=restaurant":       mapstore.Restaurant,
	"tourism=hotel":            mapstore.Hotel,
	"amenity=cafe":             mapstore.Cafe,
	"amenity=bank":             mapstore.Bank,
	"amenity=atm":              mapstore.ATM,
	"amenity=police":           mapstore.PoliceStation,
	"amenity=school":           mapstore.School,
	"amenity=townhall":         mapstore.CityHall,
	"office=company":           mapstore.Company,
	"shop=supermarket":         mapstore.GroceryStore,
	"amenity=nightclub":        mapstore.Nightlife,
	"craft=winery":             mapstore.Winery,
	"amenity=parking_entrance": mapstore.ParkingGarage,
}

// poi tag keys in the order they are looked at
var poiKeys = []string{"place", "aeroway", "railway", "station", "amenity", "tourism", "leisure",
	"historic", "barrier", "landuse", "office", "craft", "park_ride", "internet_access", "shop"}

// POIAttrs classifies a poi node. ok is false for nodes that are not pois.
func POIAttrs(tags map[string]string) (*mapstore.POIAttrs, bool) {
	pa := &mapstore.POIAttrs{DisplayClass: classify.NoExtraInfo, WaspID: mapstore.InvalidWaspID}
	for _, k := range poiKeys {
		v, ok := tags[k]
		if !ok {
			continue
		}
		switch {
		case k == "place":
			switch v {
			case "city", "town", "village", "hamlet":
				pop, _ := strconv.ParseUint(strings.ReplaceAll(tags["population"], ",", ""), 10, 32)
				pa.Type = mapstore.CityCentre
				pa.DisplayClass = classify.CityCentreDisplayClass(uint32(pop))
				return pa, true
			}
		case k == "shop":
			pa.Type = mapstore.Shop
			if tags["brand"] != "" {
				pa.DisplayClass = classify.SPECIAL_CUSTOM_POI_MASK
			}
			return pa, true
		default:
			if t, ok := poiTypes[k+"="+v]; ok {
				if t == mapstore.OpenParkingArea && tags["parking"] == "multi-storey" {
					t = mapstore.ParkingGarage
				}
				pa.Type = t
				pa.NeedsImage = classify.NeedsOwnImage(t)
				return pa, true
			}
		}
	}
	return nil, false
}

// Names collects the name tags. The plain name is stored under every native language.
func Names(tags map[string]string, nativeLangs []string) map[string]string {
	res := make(map[string]string)
	for k, v := range tags {
		if lang, ok := strings.CutPrefix(k, "name:"); ok && lang != "" {
			res[lang] = v
		}
	}
	if n, ok := tags["name"]; ok {
		for _, l := range nativeLangs {
			if _, ok := res[l]; !ok {
				res[l] = n
			}
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// ZoomFor is the zoom level an item is stored with.
func ZoomFor(kind mapstore.Kind, roadClass uint8) uint32 {
	switch kind {
	case mapstore.KindStreetSegment:
		return 2 + uint32(roadClass)
	case mapstore.KindWater, mapstore.KindForest, mapstore.KindPark, mapstore.KindIsland:
		return 8
	case mapstore.KindBuiltUpArea, mapstore.KindAirport, mapstore.KindRailway, mapstore.KindFerry:
		return 9
	case mapstore.KindIndividualBuilding, mapstore.KindBuilding, mapstore.KindPedestrianArea:
		return 12
	case mapstore.KindPOI:
		return mapstore.POI_ZOOM
	}
	return 10
}
