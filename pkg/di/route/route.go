package route_di

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/route"

	"go.uber.org/zap"
)

func New(log *zap.Logger) *route.Encoder {
	return route.NewEncoder(log.Named("route"))
}
