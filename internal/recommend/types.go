// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import "database/sql"

// ScoredItem is one recommended movie with its predicted rating.
type ScoredItem struct {
	// MovieID is the recommended movie.
	MovieID int `json:"movie_id"`

	// Score is the model's predicted rating for the movie. Scores are on
	// the rating scale of the training data, not normalized to [0, 1].
	Score float64 `json:"score"`
}

// UserRecommendations holds one user's top-N movies in descending score
// order. Ties are broken by ascending movie ID so output is stable.
type UserRecommendations struct {
	// UserID is the user the recommendations are for.
	UserID int `json:"user_id"`

	// Items is the ranked recommendation list, best first.
	Items []ScoredItem `json:"items"`
}

// Row is one flattened recommendation: a single (user, movie) pair with
// its predicted rating, suitable for tabular output.
type Row struct {
	// UserID is the user the recommendation is for.
	UserID int `json:"user_id"`

	// MovieID is the recommended movie.
	MovieID int `json:"movie_id"`

	// Title is the movie title. Invalid when the movie has no catalog
	// entry; the row is kept either way.
	Title sql.NullString `json:"title"`

	// PredictedRating is the model's score for the pair.
	PredictedRating float64 `json:"predicted_rating"`
}
