package classify

import "github.com/lintang-b-s/osm-featuremap/pkg/mapstore"

// ISO 3166 numeric codes of the countries with special poi handling.
const (
	CountrySweden  uint32 = 752
	CountryDenmark uint32 = 208
	CountryNorway  uint32 = 578
	CountryFinland uint32 = 246
	CountryTurkey  uint32 = 792
)

const NoExtraInfo uint8 = 0xff

// RankTable holds the display class of city centres by wasp id.
type RankTable map[uint32]uint8

func (t RankTable) DisplayClass(waspID uint32) (uint8, bool) {
	if t == nil || waspID == 0 || waspID == mapstore.InvalidWaspID {
		return 0, false
	}
	dc, ok := t[waspID]
	return dc, ok
}

// CityCentreDisplayClass ranks a city centre by population, 2 is a capital sized city and 12
// a hamlet.
func CityCentreDisplayClass(population uint32) uint8 {
	switch {
	case population >= 1000000:
		return 2
	case population >= 500000:
		return 4
	case population >= 200000:
		return 5
	case population >= 100000:
		return 6
	case population >= 50000:
		return 7
	case population >= 20000:
		return 8
	case population >= 10000:
		return 9
	case population >= 5000:
		return 10
	case population >= 1000:
		return 11
	}
	return 12
}

// AdjustPOIInfoForCountry boosts city centres in countries with few big cities.
func AdjustPOIInfoForCountry(extra uint8, country uint32) uint8 {
	switch country {
	case CountrySweden, CountryDenmark, CountryNorway, CountryFinland:
		switch extra {
		case 7:
			return 5
		case 8:
			return 7
		}
	}
	return extra
}

// POIExtraInfo returns the extra info byte and the image of a poi.
func POIExtraInfo(item *mapstore.Item) (uint8, string) {
	if item.POI == nil {
		return NoExtraInfo, ""
	}
	return item.POI.DisplayClass, item.POI.ImageName
}

// CheckPOI drops pois that may only be drawn with an image of their own and have none.
func CheckPOI(item *mapstore.Item) bool {
	if item.POI == nil {
		return false
	}
	return !item.POI.NeedsImage || item.POI.ImageName != ""
}

// NeedsOwnImage reports the poi types that are left out when the client has no image for them.
func NeedsOwnImage(t mapstore.POIType) bool {
	return t == mapstore.PostOffice || t == mapstore.Cafe
}

// IsTurkishHospital gets the extra info 1 after classification.
func IsTurkishHospital(item *mapstore.Item) bool {
	return item.POIType() == mapstore.Hospital && item.POI.CountryCode == CountryTurkey
}
