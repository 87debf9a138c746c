package assembler_di

import (
	"github.com/lintang-b-s/osm-featuremap/pkg/assembler"
	"github.com/lintang-b-s/osm-featuremap/pkg/di/config"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"

	"go.uber.org/zap"
)

func New(provider mapstore.Provider, cfg *config.Config, log *zap.Logger) *assembler.Assembler {
	return assembler.New(provider, assembler.Strategy{
		Tile:           cfg.TileStrategy,
		ConcaveClipper: cfg.ConcaveClipper,
		HighEnd:        cfg.HighEnd,
	}, log)
}
