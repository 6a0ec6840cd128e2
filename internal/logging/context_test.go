// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRunID(t *testing.T) {
	t.Parallel()

	id := NewRunID()
	if len(id) != 8 {
		t.Errorf("NewRunID() length = %d, want 8", len(id))
	}

	other := NewRunID()
	if id == other {
		t.Errorf("NewRunID() returned duplicate id %q", id)
	}
}

func TestContextWithRunID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if got := RunIDFromContext(ctx); got != "" {
		t.Errorf("RunIDFromContext(empty) = %q, want empty", got)
	}

	ctx = ContextWithRunID(ctx, "abc12345")
	if got := RunIDFromContext(ctx); got != "abc12345" {
		t.Errorf("RunIDFromContext() = %q, want %q", got, "abc12345")
	}
}

func TestContextWithNewRunID(t *testing.T) {
	t.Parallel()

	ctx := ContextWithNewRunID(context.Background())
	if got := RunIDFromContext(ctx); len(got) != 8 {
		t.Errorf("RunIDFromContext() = %q, want 8-char id", got)
	}
}

func TestCtxAttachesRunID(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf).With().Timestamp().Logger())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	ctx := ContextWithRunID(context.Background(), "run00001")
	Ctx(ctx).Info().Msg("stage complete")

	output := buf.String()
	if !strings.Contains(output, `"run_id":"run00001"`) {
		t.Errorf("expected run_id field in output: %s", output)
	}
	if !strings.Contains(output, "stage complete") {
		t.Errorf("expected message in output: %s", output)
	}
}

func TestCtxWithoutRunID(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf).With().Timestamp().Logger())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	Ctx(context.Background()).Info().Msg("no run id")

	output := buf.String()
	if strings.Contains(output, "run_id") {
		t.Errorf("expected no run_id field in output: %s", output)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf).With().Timestamp().Logger())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	logger := WithComponent("als")
	logger.Info().Msg("training")

	output := buf.String()
	if !strings.Contains(output, `"component":"als"`) {
		t.Errorf("expected component field in output: %s", output)
	}
}
