package di

import (
	"context"

	"github.com/lintang-b-s/osm-featuremap/pkg/assembler"
	"github.com/lintang-b-s/osm-featuremap/pkg/di/config"
	featuremapHttp "github.com/lintang-b-s/osm-featuremap/pkg/http"
	"github.com/lintang-b-s/osm-featuremap/pkg/http/http-router/controllers"
	"github.com/lintang-b-s/osm-featuremap/pkg/http/usecases"
	"github.com/lintang-b-s/osm-featuremap/pkg/route"

	"go.uber.org/zap"
)

func NewFeatureMapService(log *zap.Logger, asm *assembler.Assembler,
	cfg *config.Config) (controllers.FeatureMapService, func(), error) {
	s, err := usecases.NewFeatureMapService(log, asm, usecases.CacheConfig{
		MaxCostBytes: cfg.CacheMaxCostMB << 20,
		TTL:          cfg.CacheTTL,
	})
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

func NewRouteService(log *zap.Logger, encoder *route.Encoder, cfg *config.Config) controllers.RouteService {
	return usecases.NewRouteService(log, encoder, cfg.RouteMaxBufferLength)
}

func NewFeatureMapAPIServer(ctx context.Context, log *zap.Logger,
	featureMapService controllers.FeatureMapService,
	routeService controllers.RouteService) (*featuremapHttp.Server, error) {
	api := featuremapHttp.NewServer(log)

	apiService, err := api.Use(
		ctx, log, featureMapService, routeService,
	)
	if err != nil {
		return nil, err
	}

	return apiService, nil
}
