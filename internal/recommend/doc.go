// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package recommend defines the recommendation output shapes and the
// tabular transforms applied to them before reporting.
//
// A trained model emits one UserRecommendations per user, holding that
// user's top-scored movies in rank order. Flatten explodes the nested
// lists into one Row per (user, movie) pair, and JoinTitles enriches
// rows with titles from the movie catalog via a left join: a row whose
// movie has no catalog entry keeps an invalid Title rather than being
// dropped.
//
//	rows := recommend.JoinTitles(recommend.Flatten(recs), movies)
//
// Both transforms are pure and order-preserving: users appear in their
// input order and each user's movies stay in descending score order.
package recommend
