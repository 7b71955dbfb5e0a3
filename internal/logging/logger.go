// Package logging defines the structured-logging contract used across the
// server. The concrete implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware structured logger. The variadic args are
// alternating key–value pairs:
//
//	log.Info(ctx, "session sweep finished", "removed", n)
type Logger interface {
	// Debug logs fine-grained diagnostic detail.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given pairs.
	With(args ...any) Logger
}
