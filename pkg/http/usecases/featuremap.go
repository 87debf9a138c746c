package usecases

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/lintang-b-s/osm-featuremap/pkg"
	"github.com/lintang-b-s/osm-featuremap/pkg/assembler"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

type CacheConfig struct {
	MaxCostBytes int64
	TTL          time.Duration
}

// FeatureMapService generates feature maps and keeps the encoded replies in a cache keyed by
// the request.
type FeatureMapService struct {
	log       *zap.Logger
	assembler Assembler
	cache     *ristretto.Cache[string, *assembler.Reply]
	ttl       time.Duration
}

func NewFeatureMapService(log *zap.Logger, asm Assembler, cfg CacheConfig) (*FeatureMapService, error) {
	s := &FeatureMapService{
		log:       log,
		assembler: asm,
		ttl:       cfg.TTL,
	}
	if cfg.MaxCostBytes <= 0 {
		return s, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *assembler.Reply]{
		NumCounters: 1e5,
		MaxCost:     cfg.MaxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrInternalServerError, "create feature map cache")
	}
	s.cache = cache
	return s, nil
}

func requestKey(req *assembler.Request) (string, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(req); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *FeatureMapService) Generate(ctx context.Context, req *assembler.Request) (*assembler.Reply, error) {
	if s.cache == nil {
		return s.assembler.Generate(ctx, req)
	}
	key, err := requestKey(req)
	if err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrInternalServerError, "feature map cache key")
	}
	if reply, ok := s.cache.Get(key); ok {
		return reply, nil
	}

	reply, err := s.assembler.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	// a map that is loaded later must not stay not found
	if reply.Status == assembler.StatusOK {
		s.cache.SetWithTTL(key, reply, int64(len(reply.Buf))+1, s.ttl)
	}
	return reply, nil
}

// Wait blocks until the cache has applied every pending set.
func (s *FeatureMapService) Wait() {
	if s.cache != nil {
		s.cache.Wait()
	}
}

func (s *FeatureMapService) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}
