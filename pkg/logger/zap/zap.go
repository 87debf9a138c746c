package zap

import (
	"os"

	"github.com/lintang-b-s/osm-featuremap/pkg/logger/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var levels = [...]zapcore.Level{
	config.DEBUG_LEVEL: zapcore.DebugLevel,
	config.INFO_LEVEL:  zapcore.InfoLevel,
	config.WARN_LEVEL:  zapcore.WarnLevel,
	config.ERROR_LEVEL: zapcore.ErrorLevel,
	config.FATAL_LEVEL: zapcore.FatalLevel,
}

// New builds a logger writing json to stdout, and to a rotated file when cfg.File is set.
func New(cfg config.Configuration) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := zap.NewAtomicLevelAt(levels[cfg.Level])

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	encCfg.TimeKey = "time"

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), level),
	}
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotated), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
