package mapstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/osm-featuremap/pkg"
	"github.com/lintang-b-s/osm-featuremap/pkg/filter"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/kvdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func c(lat, lon int32) geo.Coordinate {
	return geo.NewCoordinate(lat, lon)
}

func testMap() *MemoryMap {
	ring := []geo.Coordinate{c(0, 0), c(0, 5000), c(5000, 5000), c(5000, 0)}
	country := NewGfxData(Polygon{Coords: ring, Closed: true})
	country.Stacks = filter.BuildStacks([][]geo.Coordinate{ring}, filter.LegacyCountryLevels)

	m := NewMemoryMap(Header{
		ID:           COUNTRY_MAP_BIT | 3,
		CountryCode:  752,
		CountryNames: map[string]string{"en": "Sweden", "sv": "Sverige"},
		CityRanks:    map[uint32]uint8{9: 5},
	}, country)

	m.AddItem(&Item{
		ID:   MakeItemID(3, 1),
		Kind: KindStreetSegment,
		Gfx:  NewGfxData(Polygon{Coords: []geo.Coordinate{c(100, 100), c(200, 300)}}),
		Road: &RoadAttrs{RoadClass: SecondClassRoad, SpeedLimitPos: 50},
		Names: map[string]string{"sv": "Kungsgatan"},
	})
	m.AddItem(&Item{
		ID:   MakeItemID(POI_ZOOM, 2),
		Kind: KindPOI,
		POI:  &POIAttrs{Type: Hotel, Coord: c(4000, 4000), WaspID: InvalidWaspID},
	})
	// crosses the antimeridian
	m.AddItem(&Item{
		ID:   MakeItemID(8, 3),
		Kind: KindWater,
		Gfx: NewGfxData(Polygon{Coords: []geo.Coordinate{
			c(100, math32Max-100), c(100, math32Min+100), c(300, math32Min+100),
		}, Closed: true}),
	})
	return m
}

const (
	math32Max = 2147483647
	math32Min = -2147483648
)

func TestItemIDs(t *testing.T) {
	id := MakeItemID(5, 1234)
	assert.Equal(t, uint32(5), ZoomLevel(id))
	assert.Equal(t, uint32(1234), id&ITEMID_MASK)

	node := TransportationNode(TransportWalk)
	assert.True(t, IsTransportationNode(node))
	assert.Equal(t, TransportWalk, TransportationState(node))
	assert.False(t, IsTransportationNode(id|NODE1_BIT))
	assert.False(t, IsNode0(id|NODE1_BIT))
}

func TestMemoryMap(t *testing.T) {
	m := testMap()
	assert.True(t, m.IsCountryMap())
	assert.Equal(t, "Sverige", m.CountryName("sv"))
	assert.Equal(t, "Sweden", m.CountryName("fi"))
	assert.Len(t, m.ItemsWithZoom(3), 1)
	assert.Nil(t, m.ItemsWithZoom(40))

	t.Run("bbox query", func(t *testing.T) {
		ids := m.IDsWithinBBox(geo.NewBoundingBox(0, 0, 5000, 5000))
		assert.Equal(t, []uint32{MakeItemID(3, 1), MakeItemID(POI_ZOOM, 2)}, ids)

		ids = m.IDsWithinBBox(geo.NewBoundingBox(0, 0, 5000, 5000), KindPOI)
		assert.Equal(t, []uint32{MakeItemID(POI_ZOOM, 2)}, ids)
	})

	t.Run("antimeridian", func(t *testing.T) {
		east := m.IDsWithinBBox(geo.NewBoundingBox(0, math32Max-1000, 1000, math32Max))
		assert.Equal(t, []uint32{MakeItemID(8, 3)}, east)
		west := m.IDsWithinBBox(geo.NewBoundingBox(0, math32Min, 1000, math32Min+1000))
		assert.Equal(t, []uint32{MakeItemID(8, 3)}, west)
	})

	t.Run("invalid box", func(t *testing.T) {
		assert.Empty(t, m.IDsWithinBBox(geo.EmptyBoundingBox()))
	})
}

func TestBoltStore(t *testing.T) {
	db, err := kvdb.Open(filepath.Join(t.TempDir(), "maps.db"), false)
	require.NoError(t, err)
	defer db.Close()

	store := NewBoltStore(db, zap.NewNop())
	m := testMap()
	require.NoError(t, store.Save(m))

	ids, err := store.StoredMapIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint32{m.ID()}, ids)

	loaded, err := store.Load(m.ID())
	require.NoError(t, err)
	assert.Equal(t, m.Header(), loaded.Header())
	assert.Equal(t, m.Gfx().Polygons, loaded.Gfx().Polygons)
	assert.Equal(t, m.Gfx().Stacks, loaded.Gfx().Stacks)
	require.Equal(t, m.NbrItems(), loaded.NbrItems())

	street := loaded.Item(MakeItemID(3, 1))
	require.NotNil(t, street)
	assert.Equal(t, "Kungsgatan", street.Name("en", "sv"))
	assert.Equal(t, uint8(50), street.Road.SpeedLimitPos)
	assert.Equal(t, m.Item(street.ID).Gfx.BBox(), street.Gfx.BBox())

	hotel := loaded.Item(MakeItemID(POI_ZOOM, 2))
	require.NotNil(t, hotel)
	assert.Equal(t, c(4000, 4000), hotel.Coordinate())

	assert.Equal(t, m.IDsWithinBBox(geo.NewBoundingBox(0, 0, 5000, 5000)),
		loaded.IDsWithinBBox(geo.NewBoundingBox(0, 0, 5000, 5000)))

	t.Run("provider", func(t *testing.T) {
		n, err := store.LoadAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		got, err := store.Map(context.Background(), m.ID())
		require.NoError(t, err)
		assert.Equal(t, m.ID(), got.ID())

		_, err = store.Map(context.Background(), 99)
		assert.ErrorIs(t, pkg.ErrorCode(err), pkg.ErrMapNotFound)
	})

	t.Run("corrupt stacks are rejected", func(t *testing.T) {
		bad := testMap()
		bad.header.ID = 4
		bad.gfx.Stacks.Levels[0][0] = []int{0, 17}
		require.NoError(t, store.Save(bad))

		_, err := store.Load(4)
		assert.ErrorIs(t, err, filter.ErrCorruptStacks)
	})
}

func TestStaticProvider(t *testing.T) {
	m := testMap()
	p := StaticProvider{m.ID(): m}
	got, err := p.Map(context.Background(), m.ID())
	require.NoError(t, err)
	assert.Same(t, m, got.(*MemoryMap))

	_, err = p.Map(context.Background(), 1)
	assert.Equal(t, pkg.ErrMapNotFound, pkg.ErrorCode(err))
}
