package pg

import "context"

// logger is the minimal structured logging surface the migration runner
// needs. Compatible with slog so goose output routes through application
// logging instead of stdout/stderr.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
