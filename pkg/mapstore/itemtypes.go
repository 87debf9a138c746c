package mapstore

// Kind is the item variant. Only the kinds the feature extraction reads exist here.
type Kind uint8

const (
	KindStreetSegment Kind = iota
	KindStreet
	KindWater
	KindPark
	KindForest
	KindBuilding
	KindIndividualBuilding
	KindIsland
	KindBuiltUpArea
	KindAirport
	KindAircraftRoad
	KindCartographic
	KindPedestrianArea
	KindFerry
	KindRailway
	KindPOI
	KindBorder
)

var kindNames = [...]string{
	"streetSegment", "street", "water", "park", "forest", "building", "individualBuilding",
	"island", "builtUpArea", "airport", "aircraftRoad", "cartographic", "pedestrianArea",
	"ferry", "railway", "poi", "border",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Road classes, main road first.
const (
	MainRoad uint8 = iota
	FirstClassRoad
	SecondClassRoad
	ThirdClassRoad
	FourthClassRoad
)

type RoadDisplayClass uint8

const (
	RoadDisplayNone RoadDisplayClass = iota
	PartOfWalkway
	RoadForAuthorities
	EtaParkingGarage
	EtaParkingPlace
	EtaUnstructTrafficSquare
)

// AreaDisplayClass is the draw display class of water, island and built up area items.
type AreaDisplayClass uint8

const (
	AreaDisplayNone AreaDisplayClass = iota
	WaterInCityPark
	WaterInCartographic
	WaterInBuilding
	WaterOnIsland
	IslandInBua
	IIWIPOutsideParkOutsideBua
	IIWIPOutsideParkInsideBua
	IIWIPInsidePark
	BuaOnIsland
)

const (
	CityPark     uint8 = 0
	NationalPark uint8 = 1
)

type CartoType uint8

const (
	CartoOther CartoType = iota
	GolfGround
	RecreationalAreaGround
	RestAreaGround
	ZooGround
	CemeteryGround
	AmusementParkGround
	MilitaryServiceBranch
)

type POIType uint8

const (
	POIUnknown POIType = iota
	Airport
	FerryTerminal
	PublicSportAirport
	Marina
	TollRoad
	RailwayStation
	AmusementPark
	SkiResort
	GolfCourse
	Hospital
	CityCentre
	SubwayStation
	BusStation
	Library
	Museum
	University
	Theatre
	TouristAttraction
	TouristOffice
	TramStation
	PostOffice
	RentACarFacility
	ParkingGarage
	OpenParkingArea
	ParkAndRide
	PetrolStation
	WLAN
	Casino
	Cinema
	HistoricalMonument
	CommuterRailStation
	Restaurant
	Hotel
	Cafe
	Shop
	Bank
	ATM
	PoliceStation
	School
	CityHall
	Company
	GroceryStore
	Nightlife
	Winery
)

// Transportation states carried by route node ids that are not items.
const (
	TransportUndefined uint8 = iota
	TransportDrive
	TransportWalk
	TransportBike
	TransportBus
)

// Zoom levels with a fixed meaning.
const (
	COUNTRY_WATER_ZOOM = 1
	POI_ZOOM           = 14
	NBR_GFX_ZOOMLEVELS = 15
)

// Entry restrictions of a road end.
const (
	NoRestrictions uint8 = iota
	NoThroughfare
	NoEntry
	NoWay
)
