package http_server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

type Config struct {
	Port    int
	Timeout time.Duration
}

// New returns a server whose requests carry ctx and that shuts down when ctx is done.
func New(ctx context.Context, handler http.Handler, config Config) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           http.TimeoutHandler(handler, config.Timeout, "request timed out"),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return srv
}
