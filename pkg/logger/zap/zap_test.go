package zap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lintang-b-s/osm-featuremap/pkg/logger/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Configuration
		wantErr bool
	}{
		{
			name: "info to stdout",
			cfg:  config.Configuration{Level: config.INFO_LEVEL, TimeFormat: time.RFC3339Nano},
		},
		{
			name:    "level out of range",
			cfg:     config.Configuration{Level: 9, TimeFormat: time.RFC3339},
			wantErr: true,
		},
		{
			name:    "no time format",
			cfg:     config.Configuration{Level: config.DEBUG_LEVEL},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewWithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "featuremap.log")
	log, err := New(config.Configuration{
		Level:      config.DEBUG_LEVEL,
		TimeFormat: time.RFC3339,
		File:       file,
		MaxSizeMB:  1,
	})
	require.NoError(t, err)

	log.Info("map loaded")
	_ = log.Sync()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "map loaded")
}
