package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lintang-b-s/osm-featuremap/pkg/kvdb"
	"github.com/lintang-b-s/osm-featuremap/pkg/logger/config"
	myZap "github.com/lintang-b-s/osm-featuremap/pkg/logger/zap"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapbuild"
	"github.com/lintang-b-s/osm-featuremap/pkg/mapstore"
	"go.uber.org/zap"
)

var (
	mapFile     = flag.String("f", "sweden.osm.pbf", "openstreetmap pbf file of one country")
	dbPath      = flag.String("db", "featuremap.db", "bolt db the maps are saved in")
	mapID       = flag.Uint("id", 1, "id of the detail map, the country map gets the country bit")
	countryCode = flag.Uint("cc", 0, "country code when the boundary relation has none")
	languages   = flag.String("lang", "en", "comma separated native languages, name fallback order")
	driveLeft   = flag.Bool("left", false, "traffic drives on the left side")
	copyright   = flag.String("copyright", "© OpenStreetMap contributors", "copyright of the maps")
	workers     = flag.Int("workers", 0, "filter workers, 0 is one per cpu")
	verbose     = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := config.INFO_LEVEL
	if *verbose {
		level = config.DEBUG_LEVEL
	}
	logger, err := myZap.New(config.Configuration{Level: level, TimeFormat: time.RFC3339})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	ex, err := mapbuild.ParseOSM(ctx, *mapFile)
	if err != nil {
		logger.Fatal("parse osm", zap.String("file", *mapFile), zap.Error(err))
	}
	logger.Info("osm parsed",
		zap.Int("ways", len(ex.Ways)),
		zap.Int("nodes", len(ex.Nodes)),
		zap.Int("countries", len(ex.Countries)),
		zap.Duration("elapsed", time.Since(start)))

	builder := mapbuild.NewBuilder(mapbuild.Options{
		MapID:            uint32(*mapID),
		CountryCode:      uint32(*countryCode),
		NativeLanguages:  strings.Split(*languages, ","),
		DriveOnRightSide: !*driveLeft,
		Copyright:        *copyright,
		Workers:          *workers,
	}, logger)
	detail, country, err := builder.Build(ex)
	if err != nil {
		logger.Fatal("build maps", zap.Error(err))
	}

	db, err := kvdb.Open(*dbPath, false)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	store := mapstore.NewBoltStore(db, logger)
	for _, m := range []*mapstore.MemoryMap{detail, country} {
		if err := store.Save(m); err != nil {
			logger.Fatal("save map", zap.Uint32("mapID", m.ID()), zap.Error(err))
		}
		logger.Info("map saved", zap.Uint32("mapID", m.ID()), zap.Int("items", m.NbrItems()))
	}
	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
}
