package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/utils/errs"
)

// Dispatch executes a handler asynchronously, bound to the lifetime of ctx
//
// Parameters:
//   - ctx: Lifetime context. Its logger is carried over and its cancellation is
//     propagated, so the owner can stop the handler by cancelling ctx.
//   - name: Task name attached to log records
//   - handler: Function to execute asynchronously
//
// Behavior:
//   - Executes handler in a new goroutine
//   - Recovers from panics and logs them with the stack
//   - Routes errors returned by handler to errs.Handle
//   - Closes the returned channel when handler has returned
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) <-chan struct{} {
	done := make(chan struct{})
	taskCtx := ctxlog.With(ctx, ctxlog.From(ctx).With("task", name))

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger := ctxlog.From(taskCtx)
				logger.Error("panic in async handler",
					"recover", r,
					"stack", string(stack))
			}
		}()

		if err := handler(taskCtx); err != nil {
			errs.Handle(taskCtx, goerr.Wrap(err, "async handler failed", goerr.V("task", name)))
		}
	}()

	return done
}
