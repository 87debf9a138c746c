package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/lintang-b-s/osm-featuremap/pkg"
	"github.com/lintang-b-s/osm-featuremap/pkg/assembler"
	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/geo"
	"github.com/lintang-b-s/osm-featuremap/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingAssembler struct {
	calls  int
	status assembler.Status
}

func (a *countingAssembler) Generate(_ context.Context, req *assembler.Request) (*assembler.Reply, error) {
	a.calls++
	return &assembler.Reply{MapID: req.MapID, Status: a.status, Buf: []byte{1, 2, 3}}, nil
}

func testRequest(mapID uint32) *assembler.Request {
	return &assembler.Request{
		MapID:         mapID,
		BBox:          geo.NewBoundingBox(0, 0, 100, 100),
		ScreenX:       100,
		ScreenY:       100,
		MaxScale:      14,
		ShowMap:       true,
		IncludedTypes: map[feature.Type]bool{feature.STREET_MAIN: true, feature.WATER: true, feature.PARK: true},
	}
}

func TestFeatureMapServiceCache(t *testing.T) {
	tests := []struct {
		name      string
		cfg       CacheConfig
		status    assembler.Status
		wantCalls int
	}{
		{"cached", CacheConfig{MaxCostBytes: 1 << 20, TTL: time.Minute}, assembler.StatusOK, 1},
		{"cache disabled", CacheConfig{}, assembler.StatusOK, 2},
		{"not found is not cached", CacheConfig{MaxCostBytes: 1 << 20, TTL: time.Minute}, assembler.StatusMapNotFound, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm := &countingAssembler{status: tt.status}
			s, err := NewFeatureMapService(zap.NewNop(), asm, tt.cfg)
			require.NoError(t, err)
			defer s.Close()

			_, err = s.Generate(context.Background(), testRequest(1))
			require.NoError(t, err)
			s.Wait()
			reply, err := s.Generate(context.Background(), testRequest(1))
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, asm.calls)
			assert.Equal(t, []byte{1, 2, 3}, reply.Buf)
		})
	}
}

func TestFeatureMapServiceKeyedByRequest(t *testing.T) {
	asm := &countingAssembler{}
	s, err := NewFeatureMapService(zap.NewNop(), asm, CacheConfig{MaxCostBytes: 1 << 20, TTL: time.Minute})
	require.NoError(t, err)
	defer s.Close()

	for _, id := range []uint32{1, 2, 1, 2} {
		reply, err := s.Generate(context.Background(), testRequest(id))
		require.NoError(t, err)
		assert.Equal(t, id, reply.MapID)
		s.Wait()
	}
	assert.Equal(t, 2, asm.calls)
}

func TestRequestKeyIsStable(t *testing.T) {
	a, err := requestKey(testRequest(3))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		b, err := requestKey(testRequest(3))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestRouteServiceErrors(t *testing.T) {
	s := NewRouteService(zap.NewNop(), route.NewEncoder(zap.NewNop()), 32768)

	_, err := s.Encode([]route.Element{{Coords: []geo.Coordinate{{Lat: 1, Lon: 1}}}}, route.NewStringTable(), route.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, pkg.ErrorCode(err), pkg.ErrBadParamInput)
	assert.ErrorIs(t, err, route.ErrRouteTooShort)

	_, err = s.Encode([]route.Element{{Coords: []geo.Coordinate{{Lat: 1, Lon: 1}}}, {}}, route.NewStringTable(), route.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, route.ErrNoCoordinates)
}
