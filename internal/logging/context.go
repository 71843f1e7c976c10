package logging

import (
	"context"
	"log/slog"
)

type runIDKey struct{}

// WithRunID stores the identifier of one captionburn invocation on ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the identifier stored by WithRunID, or "".
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// WithContext tags logger with the run ID carried by ctx, if any.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id := RunID(ctx); id != "" {
		return logger.With(String(FieldRunID, id))
	}
	return logger
}
