// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import (
	"database/sql"

	"github.com/reelrank/reelrank/internal/dataset"
)

// JoinTitles left-joins movie titles onto recommendation rows. Every
// input row appears in the output in its original position; rows whose
// movie is missing from the catalog keep an invalid Title. The input
// slice is not modified.
func JoinTitles(rows []Row, movies []dataset.Movie) []Row {
	titles := make(map[int]string, len(movies))
	for _, m := range movies {
		titles[m.MovieID] = m.Title
	}

	out := make([]Row, len(rows))
	copy(out, rows)
	for i := range out {
		if title, ok := titles[out[i].MovieID]; ok {
			out[i].Title = sql.NullString{String: title, Valid: true}
		} else {
			out[i].Title = sql.NullString{}
		}
	}
	return out
}
