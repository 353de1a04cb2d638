// Package logging is the structured logger every server component takes.
// The only implementation wraps log/slog; tests use a silent one.
package logging

import "context"

// Logger logs key/value pairs at four levels:
//
//	log.Info(ctx, "reconciled", "entity", "part", "local_id", "P1", "created", false)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given pairs on every record.
	With(args ...any) Logger
}
