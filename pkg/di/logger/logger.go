package logger_di

import (
	"time"

	"github.com/lintang-b-s/osm-featuremap/pkg/logger/config"
	myZap "github.com/lintang-b-s/osm-featuremap/pkg/logger/zap"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func New() (*zap.Logger, func(), error) {
	viper.SetDefault("LOG_LEVEL", config.INFO_LEVEL)
	viper.SetDefault("LOG_TIME_FORMAT", time.RFC3339Nano)
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("LOG_MAX_SIZE_MB", 100)
	viper.SetDefault("LOG_MAX_BACKUPS", 5)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 28)

	cfg := config.Configuration{
		Level:      viper.GetInt("LOG_LEVEL"),
		TimeFormat: viper.GetString("LOG_TIME_FORMAT"),
		File:       viper.GetString("LOG_FILE"),
		MaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
		MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
		MaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
		Compress:   true,
	}

	err := cfg.Validate()
	if err != nil {
		return nil, nil, err
	}

	log, err := myZap.New(cfg)

	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = log.Sync()
	}

	return log, cleanup, nil
}
