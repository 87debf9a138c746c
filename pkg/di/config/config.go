package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBPath string
	// LoadAll loads every stored map at startup instead of on first use.
	LoadAll bool

	TileStrategy   bool
	ConcaveClipper bool
	HighEnd        bool

	CacheMaxCostMB int64
	CacheTTL       time.Duration

	RouteMaxBufferLength int
}

// New reads .env into the environment, then config.yaml when there is one. Environment
// variables win over the file.
func New() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("DB_PATH", "featuremap.db")
	viper.SetDefault("LOAD_ALL_MAPS", true)
	viper.SetDefault("TILE_STRATEGY", false)
	viper.SetDefault("CONCAVE_CLIPPER", false)
	viper.SetDefault("HIGH_END", false)
	viper.SetDefault("CACHE_MAX_COST_MB", 256)
	viper.SetDefault("CACHE_TTL", "10m")
	viper.SetDefault("ROUTE_MAX_BUFFER_LENGTH", 32768)

	if err := viper.ReadInConfig(); err != nil {
		var typeErr viper.ConfigFileNotFoundError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
	}

	return &Config{
		DBPath:               viper.GetString("DB_PATH"),
		LoadAll:              viper.GetBool("LOAD_ALL_MAPS"),
		TileStrategy:         viper.GetBool("TILE_STRATEGY"),
		ConcaveClipper:       viper.GetBool("CONCAVE_CLIPPER"),
		HighEnd:              viper.GetBool("HIGH_END"),
		CacheMaxCostMB:       viper.GetInt64("CACHE_MAX_COST_MB"),
		CacheTTL:             viper.GetDuration("CACHE_TTL"),
		RouteMaxBufferLength: viper.GetInt("ROUTE_MAX_BUFFER_LENGTH"),
	}, nil
}
