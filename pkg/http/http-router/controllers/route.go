package controllers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	helper "github.com/lintang-b-s/osm-featuremap/pkg/http/http-router/router-helper"
	"github.com/lintang-b-s/osm-featuremap/pkg/route"
	"go.uber.org/zap"
)

type routeAPI struct {
	responder
	service RouteService
}

func NewRouteAPI(service RouteService, log *zap.Logger) *routeAPI {
	return &routeAPI{
		responder: newResponder(log),
		service:   service,
	}
}

func (api *routeAPI) Routes(group *helper.RouteGroup) {
	group.POST("/route/encode", api.encode)
}

type coordRequest struct {
	Lat int32 `json:"lat"`
	Lon int32 `json:"lon"`
}

type landmarkRequest struct {
	ID       uint32 `json:"id"`
	Detour   bool   `json:"detour"`
	Start    bool   `json:"start"`
	Stop     bool   `json:"stop"`
	Side     uint8  `json:"side" validate:"max=3"`
	Type     uint8  `json:"type"`
	Location uint8  `json:"location" validate:"max=7"`
	Distance int32  `json:"distance"`
	Text     string `json:"text"`
}

type laneRequest struct {
	Direction uint8 `json:"direction" validate:"max=9"`
	Preferred bool  `json:"preferred"`
	NotCar    bool  `json:"not_car"`
}

type laneGroupRequest struct {
	Lanes       []laneRequest `json:"lanes" validate:"required,max=255,dive"`
	StopOfLanes bool          `json:"stop_of_lanes"`
	Distance    int32         `json:"distance"`
}

type signPostRequest struct {
	Text       string `json:"text" validate:"required"`
	Exit       bool   `json:"exit"`
	TextColor  uint8  `json:"text_color"`
	BackColor  uint8  `json:"back_color"`
	FrontColor uint8  `json:"front_color"`
	Distance   int32  `json:"distance"`
}

type elementRequest struct {
	Coords     []coordRequest `json:"coords" validate:"required,min=1"`
	Speeds     []int          `json:"speeds" validate:"dive,min=0,max=255"`
	Attributes []int          `json:"attributes" validate:"dive,min=0,max=15"`

	Turn       uint16 `json:"turn" validate:"max=1023"`
	ExitCount  uint8  `json:"exit_count"`
	Crossing   uint8  `json:"crossing" validate:"max=15"`
	NameChange bool   `json:"name_change"`
	Dist       uint32 `json:"dist"`
	Time       uint32 `json:"time"`
	Text       string `json:"text"`

	Landmarks []landmarkRequest  `json:"landmarks" validate:"dive"`
	Lanes     []laneGroupRequest `json:"lanes" validate:"dive"`
	SignPosts []signPostRequest  `json:"signposts" validate:"dive"`
}

// routeEncodeRequest model info
//
//	@Description	request body of a route encoding. Coordinates are MC2.
type routeEncodeRequest struct {
	Protocol        *uint8  `json:"protocol"`
	RequestVersion  *uint8  `json:"request_version"`
	MaxBufferLength int     `json:"max_buffer_length" validate:"min=0"`
	Coordinates     *bool   `json:"coordinates"`
	TimeBeforeTrunc uint32  `json:"time_before_trunc"`
	DisturbanceText string  `json:"disturbance_text"`
	ExitPrefix      *string `json:"exit_prefix"`

	Strings  []string         `json:"strings"`
	Elements []elementRequest `json:"elements" validate:"required,dive"`
}

func (req *routeEncodeRequest) options() route.Options {
	opts := route.DefaultOptions()
	if req.Protocol != nil {
		opts.Protocol = *req.Protocol
	}
	if req.RequestVersion != nil {
		opts.RequestVersion = *req.RequestVersion
	}
	if req.Coordinates != nil {
		opts.Coordinates = *req.Coordinates
	}
	if req.ExitPrefix != nil {
		opts.ExitPrefix = *req.ExitPrefix
	}
	opts.MaxBufferLength = req.MaxBufferLength
	opts.TimeBeforeTrunc = req.TimeBeforeTrunc
	opts.DisturbanceText = req.DisturbanceText
	return opts
}

func bytesOf(vals []int) []uint8 {
	res := make([]uint8, len(vals))
	for i, v := range vals {
		res[i] = uint8(v)
	}
	return res
}

func (req *routeEncodeRequest) elements(strs *route.StringTable) []route.Element {
	list := make([]route.Element, 0, len(req.Elements))
	for _, e := range req.Elements {
		el := route.Element{
			Coords:     make([]geo.Coordinate, len(e.Coords)),
			Speeds:     bytesOf(e.Speeds),
			Attributes: bytesOf(e.Attributes),
			Turn:       e.Turn,
			ExitCount:  e.ExitCount,
			Crossing:   e.Crossing,
			NameChange: e.NameChange,
			Dist:       e.Dist,
			Time:       e.Time,
			Text:       strs.Add(e.Text),
		}
		for i, c := range e.Coords {
			el.Coords[i] = geo.NewCoordinate(c.Lat, c.Lon)
		}
		for _, lm := range e.Landmarks {
			el.Landmarks = append(el.Landmarks, route.Landmark{
				ID:       lm.ID,
				Detour:   lm.Detour,
				Start:    lm.Start,
				Stop:     lm.Stop,
				Side:     lm.Side,
				Type:     lm.Type,
				Location: lm.Location,
				Distance: lm.Distance,
				Text:     lm.Text,
			})
		}
		for _, lg := range e.Lanes {
			g := route.LaneGroup{StopOfLanes: lg.StopOfLanes, Distance: lg.Distance}
			for _, l := range lg.Lanes {
				g.Lanes = append(g.Lanes, route.Lane{Direction: l.Direction, Preferred: l.Preferred, NotCar: l.NotCar})
			}
			el.Lanes = append(el.Lanes, g)
		}
		for _, sp := range e.SignPosts {
			el.SignPosts = append(el.SignPosts, route.SignPost{
				Text:       sp.Text,
				Exit:       sp.Exit,
				TextColor:  sp.TextColor,
				BackColor:  sp.BackColor,
				FrontColor: sp.FrontColor,
				Distance:   sp.Distance,
			})
		}
		list = append(list, el)
	}
	return list
}

// routeEncodeResponse model info
//
//	@Description	the route records, 12 bytes each, base64 encoded.
type routeEncodeResponse struct {
	Records               []byte   `json:"records"`
	NbrRecords            int      `json:"nbr_records"`
	Strings               []string `json:"strings"`
	Truncated             bool     `json:"truncated"`
	TruncatedDist         int      `json:"truncated_dist,omitempty"`
	TruncatedWPTNbr       int      `json:"truncated_wpt_nbr,omitempty"`
	Dist2NextWPTFromTrunc uint32   `json:"dist_to_next_wpt_from_trunc,omitempty"`
	TotalDist             uint32   `json:"total_dist"`
	TotalTime             uint32   `json:"total_time"`
}

// encode godoc
// @Summary		encodes a computed route into navigator route records.
// @Description	encodes a computed route into navigator route records.
// @Tags			route
// @ID route-encode
// @Param			body	body	routeEncodeRequest	true
// @Accept			application/json
// @Produce		application/json
// @Router			/api/route/encode [post]
// @Success		200	{object}	routeEncodeResponse
// @Failure		400	{object}	errorResponse
// @Failure		500	{object}	errorResponse
func (api *routeAPI) encode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request routeEncodeRequest
	if err := api.readJSON(r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	strs := route.NewStringTable(request.Strings...)
	res, err := api.service.Encode(request.elements(strs), strs, request.options())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	body := routeEncodeResponse{
		Records:               res.Bytes(),
		NbrRecords:            len(res.Records),
		Strings:               res.Strings.Strings(),
		Truncated:             res.Truncated,
		TruncatedDist:         res.TruncatedDist,
		TruncatedWPTNbr:       res.TruncatedWPTNbr,
		Dist2NextWPTFromTrunc: res.Dist2NextWPTFromTrunc,
		TotalDist:             res.TotalDist,
		TotalTime:             res.TotalTime,
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": body}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
