// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

/*
Package dataset provides the analytical session and data access for the
pipeline: CSV ingestion through embedded DuckDB, typed projection into
rating and movie records, and the seeded train/test split.

# Session

A Session wraps one process-wide DuckDB handle. It is opened once at
startup, configured for the local machine (thread count, memory cap), and
closed exactly once on every exit path:

	session, err := dataset.Open(cfg.Session)
	if err != nil {
	    return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
	    if err := session.Close(); err != nil {
	        logging.Warn().Err(err).Msg("Failed to close session")
	    }
	}()

# Loading

CSV files are read with DuckDB's read_csv using header-based column naming
and content-based type inference, then projected to the columns the
pipeline uses. Extra columns (rating timestamps, movie genres) are dropped
at projection time:

	ratings, err := session.LoadRatings(ctx, cfg.Data.RatingsPath)
	movies, err := session.LoadMovies(ctx, cfg.Data.MoviesPath)

Input existence is checked up front with CheckInputs so a missing file is
reported with remediation guidance before any work starts.

# Splitting

Split assigns each rating independently to train or test with probability
TrainFraction, using a seeded generator. The subsets are disjoint, their
union is the input, and the assignment is reproducible for a fixed seed
and input order. Realized sizes vary around the expected fractions, which
callers must tolerate.
*/
package dataset
