package kv_di

import (
	"context"

	"github.com/lintang-b-s/osm-featuremap/pkg/di/config"
	"github.com/lintang-b-s/osm-featuremap/pkg/kvdb"
)

func New(ctx context.Context, cfg *config.Config) (*kvdb.KVDB, error) {
	db, err := kvdb.Open(cfg.DBPath, false)
	if err != nil {
		return nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		cleanup()
	}()

	return db, nil
}
