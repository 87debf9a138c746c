package main

import (
	"log"

	"github.com/lintang-b-s/osm-featuremap/pkg/di"
)

//	@title			osm-featuremap API
//	@version		1.0
//	@description	feature maps and route records for navigator clients.
//	@host			localhost:6060
//	@BasePath		/
func main() {
	server, cleanup, err := di.InitializeFeatureMapService()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if err := server.Wait(); err != nil {
		server.Log.Error(err.Error())
	}
}
