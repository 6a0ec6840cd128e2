// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/reelrank/reelrank/internal/logging"
)

// ErrMissingInput marks input files that are absent at startup. Callers
// treat it as a handled fatal condition: report and exit rather than crash.
var ErrMissingInput = errors.New("input file not found")

// CheckInputs verifies that every given path exists and is a regular file.
// The returned error names all missing paths and how to obtain the data.
func CheckInputs(paths ...string) error {
	var missing []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s. Download the MovieLens dataset (e.g. ml-latest-small) and place ratings.csv and movies.csv at the configured paths",
		ErrMissingInput, strings.Join(missing, ", "))
}

// LoadRatings reads the ratings CSV and projects it to (userId, movieId,
// rating). Column types come from DuckDB's content-based inference; the
// timestamp column, if present, is dropped by the projection. Rows are not
// validated beyond the type casts.
func (s *Session) LoadRatings(ctx context.Context, path string) ([]Rating, error) {
	query := fmt.Sprintf(`
		SELECT CAST(userId AS BIGINT),
		       CAST(movieId AS BIGINT),
		       CAST(rating AS DOUBLE)
		FROM read_csv(%s, header = true)`, quoteLiteral(path))

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings from %s: %w", path, err)
	}
	defer closeWithLog(rows, "ratings rows")

	var ratings []Rating
	for rows.Next() {
		var (
			userID  int64
			movieID int64
			rating  float64
		)
		if err := rows.Scan(&userID, &movieID, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		ratings = append(ratings, Rating{UserID: int(userID), MovieID: int(movieID), Rating: rating})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	logging.Ctx(ctx).Debug().Str("path", path).Int("rows", len(ratings)).Msg("Ratings loaded")
	return ratings, nil
}

// LoadMovies reads the movies CSV and projects it to (movieId, title).
// The genres column, if present, is dropped by the projection.
func (s *Session) LoadMovies(ctx context.Context, path string) ([]Movie, error) {
	query := fmt.Sprintf(`
		SELECT CAST(movieId AS BIGINT),
		       CAST(title AS VARCHAR)
		FROM read_csv(%s, header = true)`, quoteLiteral(path))

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read movies from %s: %w", path, err)
	}
	defer closeWithLog(rows, "movies rows")

	var movies []Movie
	for rows.Next() {
		var (
			movieID int64
			title   string
		)
		if err := rows.Scan(&movieID, &title); err != nil {
			return nil, fmt.Errorf("failed to scan movie row: %w", err)
		}
		movies = append(movies, Movie{MovieID: int(movieID), Title: title})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	logging.Ctx(ctx).Debug().Str("path", path).Int("rows", len(movies)).Msg("Movies loaded")
	return movies, nil
}

// quoteLiteral renders s as a single-quoted SQL string literal. Paths come
// from configuration, not user input; quoting keeps them safe to inline in
// read_csv calls.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
