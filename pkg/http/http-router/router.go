package http_router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	_ "github.com/lintang-b-s/osm-featuremap/pkg/http/docs"
	"github.com/lintang-b-s/osm-featuremap/pkg/http/http-router/controllers"
	router_helper "github.com/lintang-b-s/osm-featuremap/pkg/http/http-router/router-helper"
	http_server "github.com/lintang-b-s/osm-featuremap/pkg/http/server"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

// Handler builds the router with its middleware chain.
func (api *API) Handler(
	featureMapService controllers.FeatureMapService,
	routeService controllers.RouteService,
) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Map-ID", "X-Map-Status", "X-Map-Features", "X-Map-Copyright"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	group := router_helper.NewRouteGroup(router, "/api")

	controllers.NewFeatureMapAPI(featureMapService, api.log).Routes(group)
	controllers.NewRouteAPI(routeService, api.log).Routes(group)

	router.Handler(http.MethodGet, "/swagger/*any", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return alice.New(corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log), Labels).Then(router)
}

func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	featureMapService controllers.FeatureMapService,
	routeService controllers.RouteService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(featureMapService, routeService), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
