// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// contextKey is the private type for context keys in this package.
type contextKey string

// runIDKey is the context key for pipeline run ids.
const runIDKey contextKey = "run_id"

// NewRunID creates a new unique run id.
// Returns the first 8 characters of a UUID for readability in log output.
func NewRunID() string {
	return uuid.New().String()[:8]
}

// ContextWithRunID returns a new context carrying the given run id.
//
//	ctx = logging.ContextWithRunID(ctx, logging.NewRunID())
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// ContextWithNewRunID returns a context carrying a freshly generated run id.
func ContextWithNewRunID(ctx context.Context) context.Context {
	return ContextWithRunID(ctx, NewRunID())
}

// RunIDFromContext retrieves the run id from context.
// Returns empty string if not present.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns a logger with the run id from the context automatically added.
// This is the recommended way to log inside pipeline stages.
//
//	logging.Ctx(ctx).Info().Int("rows", n).Msg("ratings loaded")
//	// Output: {"level":"info","run_id":"abc12345","rows":100836,...}
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := Logger()
	if id := RunIDFromContext(ctx); id != "" {
		logger = logger.With().Str("run_id", id).Logger()
	}
	return &logger
}

// WithComponent creates a child logger with a component field.
// Use this to create stage-specific loggers.
//
//	alsLogger := logging.WithComponent("als")
//	alsLogger.Debug().Int("iteration", i).Msg("sweep complete")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
