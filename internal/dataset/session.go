// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/reelrank/reelrank/internal/config"
	"github.com/reelrank/reelrank/internal/logging"
)

// Session wraps the in-memory DuckDB connection used for CSV ingestion and
// ad-hoc queries. One session serves the whole pipeline run.
type Session struct {
	conn       *sql.DB
	threads    int
	partitions int

	// closeOnce makes Close idempotent: the early-exit path for missing
	// inputs closes the session before the deferred Close fires again.
	closeOnce sync.Once
	closeErr  error
}

// Open creates the analytical session. Threads <= 0 means use all local
// cores. The connection is verified with a ping before it is returned.
func Open(cfg config.SessionConfig) (*Session, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Disable auto-install/auto-load to prevent hangs in restricted
	// network environments. Nothing the pipeline runs needs an extension.
	connStr := fmt.Sprintf(":memory:?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	s := &Session{
		conn:       conn,
		threads:    numThreads,
		partitions: cfg.Partitions,
	}
	s.configureConnectionPool()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to verify session: %w", err)
	}

	logging.Debug().
		Int("threads", numThreads).
		Str("max_memory", cfg.MaxMemory).
		Int("partitions", cfg.Partitions).
		Msg("Analytical session opened")

	return s, nil
}

// configureConnectionPool sets connection pool parameters.
func (s *Session) configureConnectionPool() {
	s.conn.SetMaxOpenConns(s.threads)
	s.conn.SetMaxIdleConns(2)
	s.conn.SetConnMaxLifetime(time.Hour)
	s.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Ping checks that the session connection is alive.
func (s *Session) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("session connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Close releases the session. It is safe to call multiple times; only the
// first call closes the connection.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.conn != nil {
			s.closeErr = s.conn.Close()
		}
		logging.Debug().Msg("Analytical session closed")
	})
	return s.closeErr
}

// Conn exposes the underlying connection for ad-hoc queries.
func (s *Session) Conn() *sql.DB {
	return s.conn
}

// Threads returns the effective DuckDB thread count.
func (s *Session) Threads() int {
	return s.threads
}

// Partitions returns the configured training worker fan-out.
func (s *Session) Partitions() int {
	return s.partitions
}
