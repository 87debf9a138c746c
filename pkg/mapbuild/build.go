// Package mapbuild turns an osm extract into a detail map and a country overview map.
package mapbuild

import (
	"errors"
	"runtime"
	"sort"

	"github.com/lintang-b-s/osm-featuremap/pkg/concurrent"
	"github.com/lintang-b-s/osm-featuremap/pkg/filter"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
	"go.uber.org/zap"
)

var ErrNoCountry = errors.New("extract has no country boundary")

type Options struct {
	MapID            uint32
	CountryCode      uint32
	NativeLanguages  []string
	DriveOnRightSide bool
	Copyright        string
	Workers          int
	// water and forest larger than this (m²) are drawn from the country map
	CountryAreaMin float64
}

func (o *Options) setDefaults() {
	if len(o.NativeLanguages) == 0 {
		o.NativeLanguages = []string{"en"}
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.CountryAreaMin <= 0 {
		o.CountryAreaMin = 20e6
	}
}

type Builder struct {
	opts Options
	log  *zap.Logger
}

func NewBuilder(opts Options, log *zap.Logger) *Builder {
	opts.setDefaults()
	return &Builder{opts: opts, log: log}
}

// Build returns the detail map and the country map of ex.
func (b *Builder) Build(ex *Extract) (*mapstore.MemoryMap, *mapstore.MemoryMap, error) {
	if len(ex.Countries) == 0 {
		return nil, nil, ErrNoCountry
	}
	country := ex.Countries[0]
	countryCode := b.opts.CountryCode
	if cc := country.CountryCode(); cc != 0 {
		countryCode = cc
	}

	header := mapstore.Header{
		ID:               b.opts.MapID &^ mapstore.COUNTRY_MAP_BIT,
		Name:             country.TagMap["name"],
		CountryCode:      countryCode,
		NativeLanguages:  b.opts.NativeLanguages,
		DriveOnRightSide: b.opts.DriveOnRightSide,
		CountryNames:     countryNames(country.TagMap, b.opts.NativeLanguages),
		Copyright:        b.opts.Copyright,
	}
	detail := mapstore.NewMemoryMap(header, nil)

	rings := JoinRings(country.Outer)
	countryGfx := b.countryGfx(rings)
	coHeader := header
	coHeader.ID = header.ID | mapstore.COUNTRY_MAP_BIT
	coHeader.GfxFiltered = true
	countryMap := mapstore.NewMemoryMap(coHeader, countryGfx)

	var nextIndex [2][mapstore.NBR_GFX_ZOOMLEVELS]uint32
	add := func(m *mapstore.MemoryMap, slot int, item *mapstore.Item, zoom uint32) {
		item.ID = mapstore.MakeItemID(zoom, nextIndex[slot][zoom])
		nextIndex[slot][zoom]++
		m.AddItem(item)
	}

	var borders []*mapstore.Item
	for _, part := range country.Outer {
		if len(part) < 2 {
			continue
		}
		border := &mapstore.Item{
			Kind: mapstore.KindBorder,
			Gfx:  mapstore.NewGfxData(mapstore.Polygon{Coords: part}),
		}
		borders = append(borders, border)
	}
	b.buildTileStacks(borders)
	for _, border := range borders {
		add(countryMap, 1, border, 1)
	}

	for _, w := range ex.Ways {
		kind, ok := WayKind(w.TagMap, w.Closed)
		if !ok {
			continue
		}
		item := &mapstore.Item{
			Kind:  kind,
			Gfx:   mapstore.NewGfxData(mapstore.Polygon{Coords: w.Coords, Closed: w.Closed}),
			Names: Names(w.TagMap, b.opts.NativeLanguages),
			Area:  AreaAttrs(kind, w.TagMap),
		}
		var roadClass uint8
		if kind == mapstore.KindStreetSegment {
			item.Road = RoadAttrs(w.TagMap)
			roadClass = item.Road.RoadClass
		}
		add(detail, 0, item, ZoomFor(kind, roadClass))

		switch {
		case (kind == mapstore.KindWater || kind == mapstore.KindForest) && w.Closed &&
			geo.SphericalArea(w.Coords) > b.opts.CountryAreaMin:
			large := *item
			add(countryMap, 1, &large, mapstore.COUNTRY_WATER_ZOOM)
		case kind == mapstore.KindStreetSegment && roadClass == mapstore.MainRoad &&
			item.Road.DisplayClass == mapstore.RoadDisplayNone:
			road := *item.Road
			road.PolygonRoadClass = []uint8{roadClass}
			add(countryMap, 1, &mapstore.Item{
				Kind:  mapstore.KindStreet,
				Gfx:   item.Gfx,
				Names: item.Names,
				Road:  &road,
			}, 1)
		}
	}

	ranks := make(map[uint32]uint8)
	for _, n := range ex.Nodes {
		pa, ok := POIAttrs(n.TagMap)
		if !ok {
			continue
		}
		pa.Coord = n.Coord
		pa.CountryCode = countryCode
		if pa.Type == mapstore.CityCentre {
			pa.WaspID = uint32(n.ID)
			ranks[pa.WaspID] = pa.DisplayClass
		}
		add(detail, 0, &mapstore.Item{
			Kind:  mapstore.KindPOI,
			Names: Names(n.TagMap, b.opts.NativeLanguages),
			POI:   pa,
		}, mapstore.POI_ZOOM)
	}
	detail.SetCityRanks(ranks)
	countryMap.SetCityRanks(ranks)

	b.log.Info("maps built",
		zap.Uint32("mapID", detail.ID()),
		zap.Int("items", detail.NbrItems()),
		zap.Int("countryItems", countryMap.NbrItems()),
		zap.Int("countryPolygons", countryGfx.NbrPolygons()))
	return detail, countryMap, nil
}

func countryNames(tags map[string]string, nativeLangs []string) map[string]string {
	names := Names(tags, nativeLangs)
	if names == nil {
		names = make(map[string]string)
	}
	if _, ok := names["en"]; !ok {
		if n := tags["int_name"]; n != "" {
			names["en"] = n
		} else if n := tags["name"]; n != "" {
			names["en"] = n
		}
	}
	return names
}

type polygonLevels struct {
	poly   int
	legacy [][]int
	tile   [][]int
}

// countryGfx orders the country rings by coordinate count, largest first, and computes
// both stack tables.
func (b *Builder) countryGfx(rings [][]geo.Coordinate) *mapstore.GfxData {
	sort.SliceStable(rings, func(i, j int) bool { return len(rings[i]) > len(rings[j]) })

	polys := make([]mapstore.Polygon, len(rings))
	jobs := make([]int, len(rings))
	for i, r := range rings {
		polys[i] = mapstore.Polygon{Coords: r, Closed: true}
		jobs[i] = i
	}
	gfx := mapstore.NewGfxData(polys...)
	gfx.Stacks = filter.NewStacks(len(filter.LegacyCountryLevels), len(rings))
	tileDists := filter.TileLevelDistances()
	gfx.TileStacks = filter.NewStacks(len(tileDists), len(rings))
	if len(rings) == 0 {
		return gfx
	}

	ff := concurrent.NewFanInFanOut[int, polygonLevels](len(jobs))
	ff.GeneratePipeline(jobs)
	outs := ff.FanOut(b.opts.Workers, func(poly int) polygonLevels {
		return polygonLevels{
			poly:   poly,
			legacy: filter.BuildPolygonLevels(rings, poly, filter.LegacyCountryLevels),
			tile:   filter.BuildPolygonLevels(rings, poly, tileDists),
		}
	})
	ff.FanIn(func(res <-chan polygonLevels) error {
		for pl := range res {
			for l := range pl.legacy {
				gfx.Stacks.Levels[l][pl.poly] = pl.legacy[l]
			}
			for l := range pl.tile {
				gfx.TileStacks.Levels[l][pl.poly] = pl.tile[l]
			}
		}
		return nil
	}, outs...)
	return gfx
}

// buildTileStacks filters the gfx of items in the background, one job per item.
func (b *Builder) buildTileStacks(items []*mapstore.Item) {
	dists := filter.TileLevelDistances()
	bw := concurrent.NewBackgroundWorker[*mapstore.Item, struct{}](b.opts.Workers, len(items),
		func(item *mapstore.Item) struct{} {
			polys := make([][]geo.Coordinate, item.Gfx.NbrPolygons())
			for i := range polys {
				polys[i] = item.Gfx.Coords(i)
			}
			item.Gfx.TileStacks = filter.BuildStacks(polys, dists)
			return struct{}{}
		})
	bw.Start()
	for _, it := range items {
		bw.TriggerProcessing(it)
	}
	bw.Close()
}
