package usecases

import (
	"errors"

	"github.com/lintang-b-s/osm-featuremap/pkg"
	"github.com/lintang-b-s/osm-featuremap/pkg/route"
	"go.uber.org/zap"
)

type RouteService struct {
	log     *zap.Logger
	encoder RouteEncoder
	// caps the buffer a client may ask for
	maxBufferLength int
}

func NewRouteService(log *zap.Logger, encoder RouteEncoder, maxBufferLength int) *RouteService {
	return &RouteService{
		log:             log,
		encoder:         encoder,
		maxBufferLength: maxBufferLength,
	}
}

func (s *RouteService) Encode(list []route.Element, strs *route.StringTable, opts route.Options) (*route.Result, error) {
	if opts.MaxBufferLength <= 0 || opts.MaxBufferLength > s.maxBufferLength {
		opts.MaxBufferLength = s.maxBufferLength
	}
	res, err := s.encoder.Encode(list, strs, opts)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, route.ErrRouteTooShort), errors.Is(err, route.ErrNoCoordinates),
		errors.Is(err, route.ErrRouteTooBig):
		return nil, pkg.WrapErrorf(err, pkg.ErrBadParamInput, "encode route")
	default:
		return nil, pkg.WrapErrorf(err, pkg.ErrInternalServerError, "encode route")
	}
}
