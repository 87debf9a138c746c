package http_router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lintang-b-s/osm-featuremap/pkg"
	"github.com/lintang-b-s/osm-featuremap/pkg/assembler"
	"github.com/lintang-b-s/osm-featuremap/pkg/compress"
	"github.com/lintang-b-s/osm-featuremap/pkg/feature"
	"github.com/lintang-b-s/osm-featuremap/pkg/http/usecases"
	"github.com/lintang-b-s/osm-featuremap/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFeatureMapService struct {
	reply *assembler.Reply
	err   error
	panic bool
	got   *assembler.Request
}

func (f *fakeFeatureMapService) Generate(_ context.Context, req *assembler.Request) (*assembler.Reply, error) {
	if f.panic {
		panic("boom")
	}
	f.got = req
	return f.reply, f.err
}

func okReply() *assembler.Reply {
	m := feature.NewMap()
	m.AddFeature(feature.NewNamedFeature(feature.STREET_MAIN, "Main street"))
	m.AddFeature(feature.NewNamedFeature(feature.STREET_MAIN, "Second street"))
	return &assembler.Reply{
		MapID:       7,
		Status:      assembler.StatusOK,
		Copyright:   "OSM",
		Map:         m,
		Buf:         []byte{1, 2, 3, 4, 5, 6, 7, 8},
		Diagnostics: assembler.Diagnostics{Features: 2, Size: 8},
	}
}

const featureMapBody = `{"map_id":7,"bbox":{"min_lat":100,"min_lon":100,"max_lat":200,"max_lon":200},
	"screen_x":320,"screen_y":240,"min_scale":0,"max_scale":14,"show_map":true,"included_types":[1,2]}`

func newTestHandler(fm *fakeFeatureMapService) http.Handler {
	log := zap.NewNop()
	rs := usecases.NewRouteService(log, route.NewEncoder(log), 32768)
	return NewAPI(log).Handler(fm, rs)
}

func post(t *testing.T, h http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHeartbeat(t *testing.T) {
	h := newTestHandler(&fakeFeatureMapService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "osm-featuremap", rec.Header().Get("X-Service"))
}

func TestSwaggerDoc(t *testing.T) {
	h := newTestHandler(&fakeFeatureMapService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/featuremap/describe")
	assert.Contains(t, rec.Body.String(), "/api/route/encode")
}

func TestFeatureMap(t *testing.T) {
	t.Run("binary reply", func(t *testing.T) {
		fm := &fakeFeatureMapService{reply: okReply()}
		rec := post(t, newTestHandler(fm), "/api/featuremap", featureMapBody, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, "OK", rec.Header().Get("X-Map-Status"))
		assert.Equal(t, "7", rec.Header().Get("X-Map-ID"))
		assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, rec.Body.Bytes())

		require.NotNil(t, fm.got)
		assert.Equal(t, uint32(320), fm.got.ScreenX)
		assert.Equal(t, int32(200), fm.got.BBox.MaxLat)
		assert.Len(t, fm.got.IncludedTypes, 2)
		assert.Nil(t, fm.got.IncludedPOITypes)
		assert.Nil(t, fm.got.Route)
	})

	t.Run("zstd", func(t *testing.T) {
		fm := &fakeFeatureMapService{reply: okReply()}
		rec := post(t, newTestHandler(fm), "/api/featuremap", featureMapBody,
			map[string]string{"Accept-Encoding": "gzip, zstd"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "zstd", rec.Header().Get("Content-Encoding"))
		body, err := compress.Unzstd(rec.Body.Bytes())
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, body)
	})

	t.Run("map not found", func(t *testing.T) {
		fm := &fakeFeatureMapService{reply: &assembler.Reply{MapID: 7, Status: assembler.StatusMapNotFound, Map: feature.NewMap()}}
		rec := post(t, newTestHandler(fm), "/api/featuremap", featureMapBody, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "MAPNOTFOUND", rec.Header().Get("X-Map-Status"))
		assert.Empty(t, rec.Body.Bytes())
	})
}

func TestFeatureMapErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		err         error
		wantStatus  int
	}{
		{
			name:       "missing screen size",
			body:       `{"map_id":7,"bbox":{"min_lat":1,"max_lat":2}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "max scale below min scale",
			body:       `{"screen_x":10,"screen_y":10,"min_scale":5,"max_scale":2}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"screen_x":10,"screen_y":10,"zoom":3}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "not json",
			body:        `screen_x=10`,
			contentType: "application/x-www-form-urlencoded",
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:       "bad param from service",
			body:       featureMapBody,
			err:        pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "invalid bounding box"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "internal error from service",
			body:       featureMapBody,
			err:        pkg.WrapErrorf(io.ErrUnexpectedEOF, pkg.ErrInternalServerError, "load map"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := &fakeFeatureMapService{reply: okReply(), err: tt.err}
			headers := map[string]string{}
			if tt.contentType != "" {
				headers["Content-Type"] = tt.contentType
			}
			rec := post(t, newTestHandler(fm), "/api/featuremap", tt.body, headers)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	rec := post(t, newTestHandler(&fakeFeatureMapService{panic: true}), "/api/featuremap", featureMapBody, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestDescribe(t *testing.T) {
	fm := &fakeFeatureMapService{reply: okReply()}
	h := newTestHandler(fm)

	var res struct {
		Data struct {
			MapID     uint32          `json:"map_id"`
			Status    string          `json:"status"`
			Copyright string          `json:"copyright"`
			Counts    map[string]int  `json:"counts"`
			Map       json.RawMessage `json:"map"`
		} `json:"data"`
	}

	rec := post(t, h, "/api/featuremap/describe", featureMapBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, uint32(7), res.Data.MapID)
	assert.Equal(t, "OK", res.Data.Status)
	assert.Equal(t, "OSM", res.Data.Copyright)
	assert.Equal(t, map[string]int{feature.STREET_MAIN.String(): 2}, res.Data.Counts)
	assert.Empty(t, res.Data.Map)

	rec = post(t, h, "/api/featuremap/describe?features=true", featureMapBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, string(res.Data.Map), "Second street")
}

// about 100 m apart going east at 59 degrees north
const routeBody = `{"strings":["E4"],"elements":[
	{"coords":[{"lat":703897414,"lon":214748364},{"lat":703897414,"lon":214769194}],"speeds":[80],"turn":1,"text":"E4"},
	{"coords":[{"lat":703897414,"lon":214769194},{"lat":703897414,"lon":214790024}],"speeds":[80],"turn":3,"dist":100,"time":5,"text":"E4"},
	{"coords":[{"lat":703897414,"lon":214790024},{"lat":703897414,"lon":214810854}],"speeds":[80],"turn":7,"dist":100,"time":5,"text":"Main street"}
]}`

func TestRouteEncode(t *testing.T) {
	h := newTestHandler(&fakeFeatureMapService{})

	t.Run("encodes", func(t *testing.T) {
		rec := post(t, h, "/api/route/encode", routeBody, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res struct {
			Data struct {
				Records    []byte   `json:"records"`
				NbrRecords int      `json:"nbr_records"`
				Strings    []string `json:"strings"`
				Truncated  bool     `json:"truncated"`
				TotalTime  uint32   `json:"total_time"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Positive(t, res.Data.NbrRecords)
		assert.Len(t, res.Data.Records, res.Data.NbrRecords*route.RecordSize)
		assert.Equal(t, []string{"E4", "Main street"}, res.Data.Strings)
		assert.False(t, res.Data.Truncated)
		assert.Equal(t, uint32(10), res.Data.TotalTime)
	})

	t.Run("too short", func(t *testing.T) {
		body := `{"elements":[{"coords":[{"lat":1,"lon":1}],"turn":7}]}`
		rec := post(t, h, "/api/route/encode", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("speed out of range", func(t *testing.T) {
		body := `{"elements":[{"coords":[{"lat":1,"lon":1}],"speeds":[300]},{"coords":[{"lat":1,"lon":2}]}]}`
		rec := post(t, h, "/api/route/encode", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
