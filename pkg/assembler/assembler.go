package assembler

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/osm-featuremap/pkg"
	"github.com/lintang-b-s/osm-featuremap/pkg/databuffer"
	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
	"go.uber.org/zap"
)

// Assembler builds feature maps from the maps of a provider. Safe for concurrent use, all per
// request state lives in a session.
type Assembler struct {
	log      *zap.Logger
	provider mapstore.Provider
	strategy Strategy
}

func New(provider mapstore.Provider, strategy Strategy, log *zap.Logger) *Assembler {
	return &Assembler{
		log:      log,
		provider: provider,
		strategy: strategy,
	}
}

func (a *Assembler) Strategy() Strategy {
	return a.strategy
}

// session is one Generate call.
type session struct {
	log      *zap.Logger
	strategy Strategy
	m        mapstore.Map
	req      *Request
	view     geo.BoundingBox
	b        *feature.Builder
	fmap     *feature.Map
	// native languages then english, the name fallback order
	langs []string
}

func validate(req *Request) error {
	if req.ScreenX == 0 || req.ScreenY == 0 {
		return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "screen size %dx%d", req.ScreenX, req.ScreenY)
	}
	if !req.BBox.IsValid() {
		return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "invalid bounding box %+v", req.BBox)
	}
	if req.MinScale > req.MaxScale {
		return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "min scale %d above max scale %d",
			req.MinScale, req.MaxScale)
	}
	return nil
}

// Generate assembles and encodes the feature map of req. A map that is not loaded gives
// StatusMapNotFound and an empty map, not an error.
func (a *Assembler) Generate(ctx context.Context, req *Request) (*Reply, error) {
	start := time.Now()
	if err := validate(req); err != nil {
		return nil, err
	}

	reply := &Reply{MapID: req.MapID, Status: StatusOK}
	m, err := a.provider.Map(ctx, req.MapID)
	if err != nil {
		if errors.Is(pkg.ErrorCode(err), pkg.ErrMapNotFound) {
			a.log.Warn("map not found", zap.Uint32("mapID", req.MapID))
			reply.Status = StatusMapNotFound
			reply.Map = feature.NewMap()
			return reply, nil
		}
		return nil, err
	}
	reply.Copyright = m.Copyright()

	s := a.newSession(m, req)
	fmap := s.fmap

	if req.ShowMap {
		s.b.SetOnePerPixel(req.OnePerPixelMap)
		s.createMap()
	}
	if req.ShowRoute && req.hasRoute() {
		s.b.SetOnePerPixel(req.OnePerPixelRoute)
		s.createRoute()
	}
	if req.ShowPOI {
		s.b.SetOnePerPixel(false)
		s.createPOIs()
	}
	if req.ShowCityCentres {
		s.b.SetOnePerPixel(false)
		s.createCityCentres()
	}

	size := fmap.Size() + EXTRA_LENGTH
	if req.BufSize > size {
		size = req.BufSize
	}
	buf := databuffer.New(size)
	if err := fmap.Save(buf); err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrInternalServerError, "save feature map of map %d", req.MapID)
	}

	reply.Map = fmap
	reply.Buf = buf.Bytes()
	reply.Diagnostics = Diagnostics{
		Diagnostics: s.b.Diagnostics(),
		Features:    fmap.NbrFeatures(),
		Size:        buf.Len(),
	}

	a.log.Debug("feature map generated",
		zap.Uint32("mapID", req.MapID),
		zap.Int("features", reply.Diagnostics.Features),
		zap.Int("coords", reply.Diagnostics.Coords),
		zap.Int("splits", reply.Diagnostics.Splits),
		zap.Int("size", reply.Diagnostics.Size),
		zap.Duration("elapsed", time.Since(start)))
	return reply, nil
}

func (a *Assembler) newSession(m mapstore.Map, req *Request) *session {
	view := req.BBox

	// about 10 pixels, so that lines leaving the screen are not cut at the edge
	var extraDist int32
	if !a.strategy.ConcaveClipper && !a.strategy.Tile {
		extraDist = int32(view.Height()/req.ScreenY) * 10
	}
	includeBox := view.Extend(extraDist)

	fmap := feature.NewMap()
	fmap.BBox = view
	fmap.ScreenX = req.ScreenX
	fmap.ScreenY = req.ScreenY
	fmap.Scale = req.MaxScale

	langs := append([]string{}, m.NativeLanguages()...)
	langs = append(langs, "en")

	return &session{
		log:      a.log,
		strategy: a.strategy,
		m:        m,
		req:      req,
		view:     view,
		b:        feature.NewBuilder(view, includeBox, req.ScreenX, req.ScreenY, false),
		fmap:     fmap,
		langs:    langs,
	}
}

func (s *session) included(level uint32) bool {
	return level >= s.req.MinScale && level <= s.req.MaxScale
}

// itemName is the name in the requested language, falling back to the native languages of
// the map and then english. Crossing maps carry no names.
func (s *session) itemName(item *mapstore.Item) string {
	if s.req.NavigatorCrossingMap || len(item.Names) == 0 {
		return ""
	}
	return item.Name(s.req.Language, s.langs...)
}

// createMap is the map part: the country polygon and its items on country maps, and the items
// within the view on ordinary maps.
func (s *session) createMap() {
	before := s.fmap.NbrFeatures()
	if s.m.IsCountryMap() {
		s.createCountry()
	}
	if s.m.IsUnderviewMap() || s.req.DrawOverviewContents {
		s.createUnderview()
	}
	s.log.Debug("map features added",
		zap.Uint32("mapID", s.m.ID()),
		zap.Int("features", s.fmap.NbrFeatures()-before))
}
