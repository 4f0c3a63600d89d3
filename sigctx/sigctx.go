// Package sigctx provides a root context that is canceled on SIGINT or
// SIGTERM, so that a long sync in progress can be interrupted cleanly.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context canceled by the first SIGINT or SIGTERM. A second
// signal kills the process via the default handler.
func New() context.Context {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}
