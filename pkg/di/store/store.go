package store_di

import (
	"context"

	"github.com/lintang-b-s/osm-featuremap/pkg/di/config"
	"github.com/lintang-b-s/osm-featuremap/pkg/kvdb"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"

	"go.uber.org/zap"
)

func New(ctx context.Context, cfg *config.Config, db *kvdb.KVDB, log *zap.Logger) (mapstore.Provider, error) {
	store := mapstore.NewBoltStore(db, log)
	if !cfg.LoadAll {
		return store, nil
	}

	n, err := store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("maps loaded", zap.Int("maps", n))
	return store, nil
}
