package controllers

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/osm-featuremap/pkg/assembler"
	"github.com/lintang-b-s/osm-featuremap/pkg/compress"
	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	helper "github.com/lintang-b-s/osm-featuremap/pkg/http/http-router/router-helper"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
	"go.uber.org/zap"
)

type featureMapAPI struct {
	responder
	service FeatureMapService
}

func NewFeatureMapAPI(service FeatureMapService, log *zap.Logger) *featureMapAPI {
	return &featureMapAPI{
		responder: newResponder(log),
		service:   service,
	}
}

func (api *featureMapAPI) Routes(group *helper.RouteGroup) {
	group.POST("/featuremap", api.featureMap)
	group.POST("/featuremap/describe", api.describe)
}

type bboxRequest struct {
	MinLat int32 `json:"min_lat"`
	MinLon int32 `json:"min_lon"`
	MaxLat int32 `json:"max_lat" validate:"gtefield=MinLat"`
	MaxLon int32 `json:"max_lon"`
}

type routeRequest struct {
	NodeIDs           []uint32 `json:"node_ids" validate:"required,min=1"`
	StartOffset       uint16   `json:"start_offset"`
	EndOffset         uint16   `json:"end_offset"`
	IgnoreStartOffset bool     `json:"ignore_start_offset"`
	IgnoreEndOffset   bool     `json:"ignore_end_offset"`
}

// featureMapRequest model info
//
//	@Description	request body of a feature map. Coordinates are MC2.
type featureMapRequest struct {
	MapID     uint32      `json:"map_id"`
	BBox      bboxRequest `json:"bbox"`
	ScreenX   uint32      `json:"screen_x" validate:"required,min=1,max=8192"`
	ScreenY   uint32      `json:"screen_y" validate:"required,min=1,max=8192"`
	MinScale  uint32      `json:"min_scale"`
	MaxScale  uint32      `json:"max_scale" validate:"gtefield=MinScale"`
	FiltScale uint32      `json:"filt_scale"`
	Language  string      `json:"language" validate:"omitempty,min=2,max=3"`

	ShowMap         bool `json:"show_map"`
	ShowRoute       bool `json:"show_route"`
	ShowPOI         bool `json:"show_poi"`
	ShowCityCentres bool `json:"show_city_centres"`

	IncludeCountryPolygon bool `json:"include_country_polygon"`
	DrawOverviewContents  bool `json:"draw_overview_contents"`
	UseStreets            bool `json:"use_streets"`
	NavigatorCrossingMap  bool `json:"navigator_crossing_map"`
	OnePerPixelMap        bool `json:"one_per_pixel_map"`
	OnePerPixelRoute      bool `json:"one_per_pixel_route"`

	// empty includes every type
	IncludedTypes    []uint16 `json:"included_types"`
	IncludedPOITypes []uint16 `json:"included_poi_types" validate:"dive,max=255"`
	BufSize          int      `json:"buf_size" validate:"min=0,max=16777216"`

	Route *routeRequest `json:"route,omitempty"`
}

func (req *featureMapRequest) toRequest() *assembler.Request {
	r := &assembler.Request{
		MapID:                 req.MapID,
		BBox:                  geo.NewBoundingBox(req.BBox.MinLat, req.BBox.MinLon, req.BBox.MaxLat, req.BBox.MaxLon),
		ScreenX:               req.ScreenX,
		ScreenY:               req.ScreenY,
		MinScale:              req.MinScale,
		MaxScale:              req.MaxScale,
		FiltScale:             req.FiltScale,
		Language:              req.Language,
		ShowMap:               req.ShowMap,
		ShowRoute:             req.ShowRoute,
		ShowPOI:               req.ShowPOI,
		ShowCityCentres:       req.ShowCityCentres,
		IncludeCountryPolygon: req.IncludeCountryPolygon,
		DrawOverviewContents:  req.DrawOverviewContents,
		UseStreets:            req.UseStreets,
		NavigatorCrossingMap:  req.NavigatorCrossingMap,
		OnePerPixelMap:        req.OnePerPixelMap,
		OnePerPixelRoute:      req.OnePerPixelRoute,
		BufSize:               req.BufSize,
	}
	if len(req.IncludedTypes) > 0 {
		r.IncludedTypes = make(map[feature.Type]bool, len(req.IncludedTypes))
		for _, t := range req.IncludedTypes {
			r.IncludedTypes[feature.Type(t)] = true
		}
	}
	if len(req.IncludedPOITypes) > 0 {
		r.IncludedPOITypes = make(map[mapstore.POIType]bool, len(req.IncludedPOITypes))
		for _, t := range req.IncludedPOITypes {
			r.IncludedPOITypes[mapstore.POIType(t)] = true
		}
	}
	if req.Route != nil {
		r.Route = &assembler.RouteRequest{
			NodeIDs:           req.Route.NodeIDs,
			StartOffset:       req.Route.StartOffset,
			EndOffset:         req.Route.EndOffset,
			IgnoreStartOffset: req.Route.IgnoreStartOffset,
			IgnoreEndOffset:   req.Route.IgnoreEndOffset,
		}
	}
	return r
}

func (api *featureMapAPI) generate(w http.ResponseWriter, r *http.Request) (*assembler.Reply, bool) {
	var request featureMapRequest
	if err := api.readJSON(r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return nil, false
	}

	reply, err := api.service.Generate(r.Context(), request.toRequest())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return nil, false
	}
	return reply, true
}

// featureMap godoc
// @Summary		encoded feature map of a bounding box.
// @Description	the body is the binary feature map, zstd compressed when the client accepts it.
// @Tags			featuremap
// @ID featuremap
// @Param			body	body	featureMapRequest	true
// @Accept			application/json
// @Produce		application/octet-stream
// @Router			/api/featuremap [post]
// @Success		200
// @Failure		400	{object}	errorResponse
// @Failure		500	{object}	errorResponse
func (api *featureMapAPI) featureMap(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reply, ok := api.generate(w, r)
	if !ok {
		return
	}

	body := reply.Buf
	h := w.Header()
	h.Set("Content-Type", "application/octet-stream")
	h.Set("X-Map-ID", strconv.FormatUint(uint64(reply.MapID), 10))
	h.Set("X-Map-Status", reply.Status.String())
	h.Set("X-Map-Features", strconv.Itoa(reply.Diagnostics.Features))
	if reply.Copyright != "" {
		h.Set("X-Map-Copyright", reply.Copyright)
	}
	h.Add("Vary", "Accept-Encoding")
	if acceptsZstd(r) {
		body = compress.Zstd(body)
		h.Set("Content-Encoding", "zstd")
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		api.log.Error("failed to write feature map", zap.Error(err))
	}
}

// describeResponse model info
//
//	@Description	summary of a feature map.
type describeResponse struct {
	MapID       uint32                `json:"map_id"`
	Status      string                `json:"status"`
	Copyright   string                `json:"copyright,omitempty"`
	Diagnostics assembler.Diagnostics `json:"diagnostics"`
	Counts      map[string]int        `json:"counts"`
	Map         *feature.Map          `json:"map,omitempty"`
}

// describe godoc
// @Summary		summary of the feature map of a bounding box.
// @Description	feature counts by type and builder diagnostics. ?features=true adds the features.
// @Tags			featuremap
// @ID featuremap-describe
// @Param			body	body	featureMapRequest	true
// @Accept			application/json
// @Produce		application/json
// @Router			/api/featuremap/describe [post]
// @Success		200	{object}	describeResponse
// @Failure		400	{object}	errorResponse
// @Failure		500	{object}	errorResponse
func (api *featureMapAPI) describe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reply, ok := api.generate(w, r)
	if !ok {
		return
	}

	res := describeResponse{
		MapID:       reply.MapID,
		Status:      reply.Status.String(),
		Copyright:   reply.Copyright,
		Diagnostics: reply.Diagnostics,
		Counts:      map[string]int{},
	}
	if reply.Map != nil {
		res.Counts = reply.Map.CountByType()
		if withFeatures, _ := strconv.ParseBool(r.URL.Query().Get("features")); withFeatures {
			res.Map = reply.Map
		}
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": res}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
