package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Group runs background jobs detached from the caller's cancellation and
// lets a shutting-down host wait for them.
type Group struct {
	wg sync.WaitGroup
}

// Dispatch executes handler in a new goroutine. The context passed to
// handler keeps the caller's logger but not its deadline or cancellation.
// Panics and returned errors are logged and reported to Sentry when it
// is configured.
func (g *Group) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger := ctxlog.From(newCtx)
				logger.Error("panic in async handler",
					"recover", r,
					"stack", string(stack))
				sentry.CaptureException(fmt.Errorf("panic in async handler: %v", r))
			}
		}()

		if err := handler(newCtx); err != nil {
			logger := ctxlog.From(newCtx)
			logger.Error("error in async handler", "error", err)
			sentry.CaptureException(err)
		}
	}()
}

// Wait blocks until every dispatched job returned or ctx is done
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newBackgroundContext returns context.Background() carrying the ctxlog logger of ctx
func newBackgroundContext(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
