// Package logger provides the structured, levelled logger for the storefront,
// built on log/slog.
//
// The key extension over plain slog is WithCtx: middleware stores a
// per-request logger (pre-tagged with the request id) in the context, and
// WithCtx returns it, so every log line from a handler is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("payment verified", "order_id", order.ID)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/dlatelier/storefront/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	// Fan out to MongoDB when a log sink is configured. Connection failures
	// fall back to stdout-only logging.
	if uri := config.LogMongoURI(); uri != "" {
		if mh, err := NewMongoHandler(uri, "storefront", "logs"); err == nil {
			handler = NewMultiHandler(handler, mh)
		}
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by the Logger middleware,
// or the base logger if none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a *slog.Logger into ctx. Called by the Logger middleware;
// not usually needed in application code.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level on the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level on the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level on the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level on the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
