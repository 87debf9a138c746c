package shortcontext

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New is cancelled on SIGINT or SIGTERM, the cleanups of the other providers wait on it.
func New() (context.Context, func()) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx, stop
}
