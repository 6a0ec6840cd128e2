// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package dataset

import (
	"context"
	"runtime"
	"testing"

	"github.com/reelrank/reelrank/internal/config"
)

// newTestSession opens an in-memory session sized for tests.
func newTestSession(t *testing.T) *Session {
	t.Helper()

	s, err := Open(config.SessionConfig{
		Threads:    2,
		MaxMemory:  "512MB",
		Partitions: 4,
	})
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close session: %v", err)
		}
	})
	return s
}

func TestOpenSession(t *testing.T) {
	s := newTestSession(t)

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if s.Threads() != 2 {
		t.Errorf("Threads() = %d, want 2", s.Threads())
	}
	if s.Partitions() != 4 {
		t.Errorf("Partitions() = %d, want 4", s.Partitions())
	}
}

func TestOpenSessionDefaultThreads(t *testing.T) {
	s, err := Open(config.SessionConfig{
		Threads:    0,
		MaxMemory:  "512MB",
		Partitions: 8,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	if s.Threads() != runtime.NumCPU() {
		t.Errorf("Threads() = %d, want runtime.NumCPU() = %d", s.Threads(), runtime.NumCPU())
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	s, err := Open(config.SessionConfig{
		Threads:    1,
		MaxMemory:  "256MB",
		Partitions: 2,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestSessionQueryAfterClose(t *testing.T) {
	s, err := Open(config.SessionConfig{
		Threads:    1,
		MaxMemory:  "256MB",
		Partitions: 2,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping() after Close() succeeded, want error")
	}
}
