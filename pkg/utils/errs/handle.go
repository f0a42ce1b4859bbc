package errs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle routes an error that is not surfaced to the caller into the diagnostic sink.
// The error is logged with its goerr values and, when Sentry is initialized, captured
// there as well. A nil error is ignored.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	attrs := []any{slog.String("error", err.Error())}
	for k, v := range goerr.Values(err) {
		attrs = append(attrs, slog.Any(k, v))
	}

	level := slog.LevelError
	if errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	logger.Log(ctx, level, "error handled", attrs...)

	if level < slog.LevelError {
		return
	}

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub = hub.Clone()
	if values := goerr.Values(err); len(values) > 0 {
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetContext("goerr", sentry.Context(values))
		})
	}
	evID := hub.CaptureException(err)
	if evID != nil {
		logger.Debug("error sent to sentry", "event_id", *evID)
	}
}
