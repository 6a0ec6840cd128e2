// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

// Flatten explodes nested recommendation lists into one Row per
// (user, movie) pair. A user with k recommended movies contributes
// exactly k rows; a user with an empty list contributes none. Order is
// preserved on both levels: users in input order, each user's movies in
// their ranked order. Title is left invalid for JoinTitles to fill.
func Flatten(recs []UserRecommendations) []Row {
	total := 0
	for _, r := range recs {
		total += len(r.Items)
	}

	rows := make([]Row, 0, total)
	for _, r := range recs {
		for _, item := range r.Items {
			rows = append(rows, Row{
				UserID:          r.UserID,
				MovieID:         item.MovieID,
				PredictedRating: item.Score,
			})
		}
	}
	return rows
}
