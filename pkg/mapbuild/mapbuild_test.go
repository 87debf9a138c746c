package mapbuild

import (
	"testing"

	"github.com/lintang-b-s/osm-featuremap/pkg/classify"
	"github.com/lintang-b-s/osm-featuremap/pkg/filter"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func deg(lat, lon float64) geo.Coordinate {
	return geo.CoordinateFromDegrees(lat, lon)
}

func TestWayKind(t *testing.T) {
	tests := []struct {
		name   string
		tags   map[string]string
		closed bool
		want   mapstore.Kind
		ok     bool
	}{
		{"motorway", map[string]string{"highway": "motorway"}, false, mapstore.KindStreetSegment, true},
		{"footway", map[string]string{"highway": "footway"}, false, mapstore.KindStreetSegment, true},
		{"pedestrian area", map[string]string{"highway": "pedestrian", "area": "yes"}, true, mapstore.KindPedestrianArea, true},
		{"bus stop", map[string]string{"highway": "bus_stop"}, false, 0, false},
		{"river", map[string]string{"waterway": "river"}, false, mapstore.KindWater, true},
		{"lake", map[string]string{"natural": "water"}, true, mapstore.KindWater, true},
		{"open lake outline", map[string]string{"natural": "water"}, false, 0, false},
		{"forest", map[string]string{"landuse": "forest"}, true, mapstore.KindForest, true},
		{"house", map[string]string{"building": "yes"}, true, mapstore.KindIndividualBuilding, true},
		{"golf", map[string]string{"leisure": "golf_course"}, true, mapstore.KindCartographic, true},
		{"runway", map[string]string{"aeroway": "runway"}, false, mapstore.KindAircraftRoad, true},
		{"ferry", map[string]string{"route": "ferry"}, false, mapstore.KindFerry, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := WayKind(tt.tags, tt.closed)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, kind)
			}
		})
	}
}

func TestRoadAttrs(t *testing.T) {
	ra := RoadAttrs(map[string]string{
		"highway":  "primary_link",
		"oneway":   "yes",
		"maxspeed": "50",
		"layer":    "1",
		"junction": "roundabout",
	})
	assert.Equal(t, mapstore.FirstClassRoad, ra.RoadClass)
	assert.True(t, ra.Ramp)
	assert.True(t, ra.Roundabout)
	assert.Equal(t, mapstore.NoRestrictions, ra.EntryRestr0)
	assert.Equal(t, mapstore.NoWay, ra.EntryRestr1)
	assert.Equal(t, uint8(50), ra.SpeedLimitPos)
	assert.Equal(t, int8(1), ra.Level0)

	assert.Equal(t, uint8(96), parseSpeed("60 mph"))
	assert.Equal(t, mapstore.PartOfWalkway, RoadAttrs(map[string]string{"highway": "path"}).DisplayClass)
}

func TestPOIAttrs(t *testing.T) {
	pa, ok := POIAttrs(map[string]string{"amenity": "post_office", "name": "Posten"})
	require.True(t, ok)
	assert.Equal(t, mapstore.PostOffice, pa.Type)
	assert.True(t, pa.NeedsImage)

	pa, ok = POIAttrs(map[string]string{"place": "city", "population": "1,200,000"})
	require.True(t, ok)
	assert.Equal(t, mapstore.CityCentre, pa.Type)
	assert.Equal(t, uint8(2), pa.DisplayClass)

	pa, ok = POIAttrs(map[string]string{"shop": "clothes", "brand": "H&M"})
	require.True(t, ok)
	assert.Equal(t, uint8(classify.SPECIAL_CUSTOM_POI_MASK), pa.DisplayClass)

	_, ok = POIAttrs(map[string]string{"name": "nothing"})
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	names := Names(map[string]string{"name": "Stockholm", "name:fi": "Tukholma"}, []string{"sv", "en"})
	assert.Equal(t, map[string]string{"sv": "Stockholm", "en": "Stockholm", "fi": "Tukholma"}, names)
	assert.Nil(t, Names(map[string]string{"highway": "path"}, []string{"en"}))
}

func TestJoinRings(t *testing.T) {
	a, b, c, d := deg(0, 0), deg(0, 1), deg(1, 1), deg(1, 0)
	rings := JoinRings([][]geo.Coordinate{
		{a, b},
		{d, c, b}, // reversed
		{d, a},
		{deg(5, 5), deg(6, 6)}, // never closes
	})
	require.Len(t, rings, 1)
	assert.Equal(t, []geo.Coordinate{a, b, c, d}, rings[0])
}

func square(lat, lon, size float64) []geo.Coordinate {
	return []geo.Coordinate{deg(lat, lon), deg(lat, lon+size), deg(lat+size, lon+size), deg(lat+size, lon)}
}

func testExtract() *Extract {
	main := square(59, 17, 2)
	island := square(57, 18, 0.3)
	return &Extract{
		Countries: []OsmRelation{{
			ID:     1,
			TagMap: map[string]string{"name": "Sverige", "name:en": "Sweden", "ISO3166-1:numeric": "752"},
			Outer: [][]geo.Coordinate{
				{main[0], main[1], main[2]},
				{main[2], main[3], main[0]},
				append(island, island[0]),
			},
		}},
		Ways: []OSMWay{
			{ID: 10, TagMap: map[string]string{"highway": "motorway", "name": "E4"},
				Coords: []geo.Coordinate{deg(59.5, 17.5), deg(59.6, 17.6)}},
			{ID: 11, TagMap: map[string]string{"natural": "water", "name": "Mälaren"}, Closed: true,
				Coords: square(59.3, 17.2, 0.2)},
			{ID: 12, TagMap: map[string]string{"natural": "water"}, Closed: true,
				Coords: square(59.3, 17.6, 0.001)},
		},
		Nodes: []OSMNode{
			{ID: 100, Coord: deg(59.33, 18.07),
				TagMap: map[string]string{"place": "city", "name": "Stockholm", "population": "980000"}},
			{ID: 101, Coord: deg(59.34, 18.06), TagMap: map[string]string{"amenity": "cafe", "name": "Kafé"}},
		},
	}
}

func TestBuild(t *testing.T) {
	b := NewBuilder(Options{MapID: 7, NativeLanguages: []string{"sv"}, Workers: 2}, zap.NewNop())
	detail, country, err := b.Build(testExtract())
	require.NoError(t, err)

	assert.Equal(t, uint32(7), detail.ID())
	assert.False(t, detail.IsCountryMap())
	assert.True(t, country.IsCountryMap())
	assert.True(t, country.GfxFiltered())
	assert.Equal(t, uint32(752), country.CountryCode())
	assert.Equal(t, "Sweden", country.CountryName("en"))
	assert.Equal(t, "Sverige", country.CountryName("sv"))
	assert.Equal(t, "Sweden", country.CountryName("de"))

	gfx := country.Gfx()
	require.Equal(t, 2, gfx.NbrPolygons())
	// largest ring first
	assert.GreaterOrEqual(t, gfx.NbrCoordinates(0), gfx.NbrCoordinates(1))
	require.NoError(t, gfx.Stacks.Validate(gfx.PolySizes()))
	require.NoError(t, gfx.TileStacks.Validate(gfx.PolySizes()))
	assert.Equal(t, len(filter.LegacyCountryLevels), gfx.Stacks.NbrLevels())
	assert.Equal(t, filter.NbrTileLevels, gfx.TileStacks.NbrLevels())

	kinds := map[mapstore.Kind]int{}
	for _, it := range country.Items() {
		kinds[it.Kind]++
		if it.Kind == mapstore.KindBorder {
			assert.NotNil(t, it.Gfx.TileStacks)
		}
	}
	assert.Equal(t, 3, kinds[mapstore.KindBorder])
	assert.Equal(t, 1, kinds[mapstore.KindWater], "only the large lake")
	assert.Equal(t, 1, kinds[mapstore.KindStreet])
	assert.Len(t, country.ItemsWithZoom(mapstore.COUNTRY_WATER_ZOOM), 5)

	pois := detail.ItemsWithZoom(mapstore.POI_ZOOM)
	require.Len(t, pois, 2)
	ranks := classify.RankTable(detail.CityRanks())
	dc, ok := ranks.DisplayClass(100)
	require.True(t, ok)
	assert.Equal(t, uint8(4), dc)

	ids := detail.IDsWithinBBox(geo.BoundingBoxFromCoordinates(square(59.3, 18.0, 0.1)), mapstore.KindPOI)
	assert.Len(t, ids, 2)
}

func TestBuildWithoutCountry(t *testing.T) {
	_, _, err := NewBuilder(Options{}, zap.NewNop()).Build(&Extract{})
	assert.ErrorIs(t, err, ErrNoCountry)
}
