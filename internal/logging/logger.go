// Package logging abstracts structured logging behind a small interface so
// the server can run on zap while tests plug in a quiet slog handler.
package logging

import "context"

// Logger is the structured logger the server components depend on. The
// variadic args are alternating key-value pairs:
//
//	log.Info(ctx, "queue drained", "processed", n)
type Logger interface {
	// Info logs routine operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but recoverable conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs on
	// every record.
	With(args ...any) Logger
}
