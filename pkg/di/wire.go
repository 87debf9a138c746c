//go:build wireinject

//go:generate wire
package di

import (
	assembler_di "github.com/lintang-b-s/osm-featuremap/pkg/di/assembler"
	"github.com/lintang-b-s/osm-featuremap/pkg/di/config"
	shortcontext "github.com/lintang-b-s/osm-featuremap/pkg/di/context"
	kv_di "github.com/lintang-b-s/osm-featuremap/pkg/di/kv"
	logger_di "github.com/lintang-b-s/osm-featuremap/pkg/di/logger"
	route_di "github.com/lintang-b-s/osm-featuremap/pkg/di/route"
	store_di "github.com/lintang-b-s/osm-featuremap/pkg/di/store"
	featuremapHttp "github.com/lintang-b-s/osm-featuremap/pkg/http"

	"github.com/google/wire"
)

var defaultSet = wire.NewSet(
	shortcontext.New,
	config.New,
	logger_di.New,
	kv_di.New,
	store_di.New,
	assembler_di.New,
	route_di.New,
)

var featureMapSet = wire.NewSet(
	defaultSet,
	NewFeatureMapService,
	NewRouteService,
	NewFeatureMapAPIServer,
)

func InitializeFeatureMapService() (*featuremapHttp.Server, func(), error) {

	panic(wire.Build(featureMapSet))
}

