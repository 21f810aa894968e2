// Package logging provides zerolog construction and context plumbing for the
// engine and CLI. Loggers travel through context.Context so library code can
// log without holding a logger field, and every CLI invocation carries a
// trace id for correlating batch diagnostics.
package logging

import (
	"context"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level to emit ("debug", "info", "warn", "error").
	// Invalid values fall back to "info".
	Level string

	// Format selects the output encoding: "console" for human-readable
	// output, "json" for structured logs. Defaults to "console".
	Format string

	// Output is the destination writer. Defaults to os.Stderr.
	Output io.Writer
}

// New constructs a zerolog.Logger from the given config.
func New(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none is present. Library code should prefer this over package globals.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// traceIDKey is the context key for the per-invocation trace id.
type traceIDKey struct{}

// ContextWithTraceID stores a trace id in the context.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace id stored in ctx, or "" if unset.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetOrGenerateTraceID returns the trace id from ctx, generating a new ULID
// when none has been set yet.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}

// NewTraceID generates a fresh ULID trace id.
func NewTraceID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // trace ids are not security sensitive
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
