package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithGeneration tags log lines with the resolution run they belong to.
func WithGeneration(ctx context.Context, generation uint64) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Uint64("generation", generation).Logger()
	return WithContext(ctx, childLogger)
}

// WithFlatIndex tags log lines with the pane slot being resolved.
func WithFlatIndex(ctx context.Context, index int, paneID string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Int("flat_index", index).Str("pane_id", paneID).Logger()
	return WithContext(ctx, childLogger)
}
