// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package dataset

// Rating is one observed user/movie interaction. A user may rate many
// movies and a movie may be rated by many users; no uniqueness is enforced
// on load.
type Rating struct {
	UserID  int
	MovieID int
	Rating  float64
}

// Movie is one row of the movie dimension table, used to attach titles to
// recommendation output.
type Movie struct {
	MovieID int
	Title   string
}

// FirstDistinctUser returns the first distinct user id in encounter order,
// used to pick the demonstration user for the single-user recommendation
// preview. Returns false when the slice is empty.
func FirstDistinctUser(ratings []Rating) (int, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	return ratings[0].UserID, true
}
