package mapstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/lintang-b-s/osm-featuremap/pkg"
	"github.com/lintang-b-s/osm-featuremap/pkg/compress"
	"github.com/lintang-b-s/osm-featuremap/pkg/filter"
	"github.com/lintang-b-s/osm-featuremap/pkg/kvdb"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	mapBucketPrefix   = "map:"
	itemsBucketPrefix = "items:"
	itemBatchSize     = 1000
)

var (
	headerKey = []byte("header")
	gfxKey    = []byte("gfx")
)

// stored form of a gfx, the stacks as varint index lists
type gfxRecord struct {
	Polygons   []Polygon  `msgpack:"p"`
	Stacks     [][][]byte `msgpack:"s,omitempty"`
	TileStacks [][][]byte `msgpack:"t,omitempty"`
}

type itemRecord struct {
	Item *Item      `msgpack:"i"`
	Gfx  *gfxRecord `msgpack:"g,omitempty"`
}

func encodeStacks(s *filter.Stacks) [][][]byte {
	if s == nil {
		return nil
	}
	res := make([][][]byte, len(s.Levels))
	for l, level := range s.Levels {
		res[l] = make([][]byte, len(level))
		for p, idx := range level {
			res[l][p] = compress.EncodeIndexList(idx)
		}
	}
	return res
}

func decodeStacks(levels [][][]byte) (*filter.Stacks, error) {
	if levels == nil {
		return nil, nil
	}
	s := &filter.Stacks{Levels: make([][][]int, len(levels))}
	for l, level := range levels {
		s.Levels[l] = make([][]int, len(level))
		for p, buf := range level {
			idx, err := compress.DecodeIndexList(buf)
			if err != nil {
				return nil, fmt.Errorf("%w: level %d polygon %d: %v", filter.ErrCorruptStacks, l, p, err)
			}
			s.Levels[l][p] = idx
		}
	}
	return s, nil
}

func toGfxRecord(g *GfxData) *gfxRecord {
	if g == nil {
		return nil
	}
	return &gfxRecord{
		Polygons:   g.Polygons,
		Stacks:     encodeStacks(g.Stacks),
		TileStacks: encodeStacks(g.TileStacks),
	}
}

func fromGfxRecord(r *gfxRecord) (*GfxData, error) {
	if r == nil {
		return nil, nil
	}
	g := NewGfxData(r.Polygons...)
	var err error
	if g.Stacks, err = decodeStacks(r.Stacks); err != nil {
		return nil, err
	}
	if g.TileStacks, err = decodeStacks(r.TileStacks); err != nil {
		return nil, err
	}
	sizes := g.PolySizes()
	if g.Stacks != nil {
		if err := g.Stacks.Validate(sizes); err != nil {
			return nil, err
		}
	}
	if g.TileStacks != nil {
		if err := g.TileStacks.Validate(sizes); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func marshal(v any) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, err
	}
	return compress.Zstd(b), nil
}

func unmarshal(buf []byte, v any) error {
	b, err := compress.Unzstd(buf)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(b, v)
}

// BoltStore persists maps in bbolt and keeps the loaded ones in memory. Each map uses a
// "map:<id>" bucket for header and country gfx and an "items:<id>" bucket keyed by item id.
type BoltStore struct {
	db  *kvdb.KVDB
	log *zap.Logger

	mu     sync.RWMutex
	loaded map[uint32]*MemoryMap
}

func NewBoltStore(db *kvdb.KVDB, log *zap.Logger) *BoltStore {
	return &BoltStore{
		db:     db,
		log:    log,
		loaded: make(map[uint32]*MemoryMap),
	}
}

func mapBucket(id uint32) string {
	return mapBucketPrefix + strconv.FormatUint(uint64(id), 10)
}

func itemsBucket(id uint32) string {
	return itemsBucketPrefix + strconv.FormatUint(uint64(id), 10)
}

// Save writes m, replacing a stored map with the same id.
func (s *BoltStore) Save(m *MemoryMap) error {
	id := m.ID()
	if err := s.db.DeleteBucket(itemsBucket(id)); err != nil {
		return err
	}

	header, err := marshal(m.Header())
	if err != nil {
		return fmt.Errorf("encode header of map %d: %w", id, err)
	}
	gfx, err := marshal(toGfxRecord(m.Gfx()))
	if err != nil {
		return fmt.Errorf("encode gfx of map %d: %w", id, err)
	}
	err = s.db.SaveBatch(mapBucket(id), []kvdb.Entry{
		{Key: headerKey, Value: header},
		{Key: gfxKey, Value: gfx},
	})
	if err != nil {
		return err
	}

	batch := make([]kvdb.Entry, 0, itemBatchSize)
	for _, item := range m.Items() {
		it := *item
		it.Gfx = nil
		val, err := marshal(itemRecord{Item: &it, Gfx: toGfxRecord(item.Gfx)})
		if err != nil {
			return fmt.Errorf("encode item %d of map %d: %w", item.ID, id, err)
		}
		batch = append(batch, kvdb.Entry{Key: kvdb.Uint32Key(item.ID), Value: val})
		if len(batch) == itemBatchSize {
			if err := s.db.SaveBatch(itemsBucket(id), batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return s.db.SaveBatch(itemsBucket(id), batch)
	}
	return nil
}

// Load reads map id from the db. A map whose filter stacks do not match its polygons is
// rejected with filter.ErrCorruptStacks.
func (s *BoltStore) Load(id uint32) (*MemoryMap, error) {
	buf, err := s.db.Get(mapBucket(id), headerKey)
	if errors.Is(err, kvdb.ErrorsBucketNotExists) || errors.Is(err, kvdb.ErrorsKeyNotExists) {
		return nil, pkg.WrapErrorf(err, pkg.ErrMapNotFound, "map %d", id)
	} else if err != nil {
		return nil, err
	}
	var header Header
	if err := unmarshal(buf, &header); err != nil {
		return nil, fmt.Errorf("decode header of map %d: %w", id, err)
	}

	buf, err = s.db.Get(mapBucket(id), gfxKey)
	if err != nil {
		return nil, err
	}
	var rec *gfxRecord
	if err := unmarshal(buf, &rec); err != nil {
		return nil, fmt.Errorf("decode gfx of map %d: %w", id, err)
	}
	gfx, err := fromGfxRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("country gfx of map %d: %w", id, err)
	}

	m := NewMemoryMap(header, gfx)
	err = s.db.ForEach(itemsBucket(id), func(k, v []byte) error {
		var ir itemRecord
		if err := unmarshal(v, &ir); err != nil {
			return fmt.Errorf("decode item %s: %w", k, err)
		}
		if ir.Item == nil {
			return fmt.Errorf("item %s has no body", k)
		}
		gfx, err := fromGfxRecord(ir.Gfx)
		if err != nil {
			return fmt.Errorf("item %s: %w", k, err)
		}
		ir.Item.Gfx = gfx
		m.AddItem(ir.Item)
		return nil
	})
	if err != nil && !errors.Is(err, kvdb.ErrorsBucketNotExists) {
		return nil, fmt.Errorf("items of map %d: %w", id, err)
	}
	return m, nil
}

// StoredMapIDs lists the ids of the maps in the db.
func (s *BoltStore) StoredMapIDs() ([]uint32, error) {
	buckets, err := s.db.Buckets()
	if err != nil {
		return nil, err
	}
	var ids []uint32
	for _, b := range buckets {
		if !strings.HasPrefix(b, mapBucketPrefix) {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(b, mapBucketPrefix), 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint32(id))
	}
	return ids, nil
}

// LoadAll loads every stored map concurrently. Maps that fail to load are logged and left
// out, the error of the first failure is returned together with the loaded count.
func (s *BoltStore) LoadAll(ctx context.Context) (int, error) {
	ids, err := s.StoredMapIDs()
	if err != nil {
		return 0, err
	}
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			m, err := s.Load(id)
			if err != nil {
				s.log.Error("load map", zap.Uint32("mapID", id), zap.Error(err))
				return err
			}
			s.mu.Lock()
			s.loaded[id] = m
			s.mu.Unlock()
			s.log.Info("map loaded", zap.Uint32("mapID", id), zap.Int("items", m.NbrItems()))
			return nil
		})
	}
	err = g.Wait()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loaded), err
}

// Map returns a loaded map, or loads it from the db on first use.
func (s *BoltStore) Map(ctx context.Context, id uint32) (Map, error) {
	s.mu.RLock()
	m, ok := s.loaded[id]
	s.mu.RUnlock()
	if ok {
		return m, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.loaded[id]; ok {
		return prev, nil
	}
	s.loaded[id] = m
	return m, nil
}

// StaticProvider serves a fixed set of in memory maps.
type StaticProvider map[uint32]Map

func (p StaticProvider) Map(_ context.Context, id uint32) (Map, error) {
	m, ok := p[id]
	if !ok {
		return nil, pkg.WrapErrorf(nil, pkg.ErrMapNotFound, "map %d", id)
	}
	return m, nil
}
