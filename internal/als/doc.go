// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

/*
Package als implements alternating least squares matrix factorization for
explicit feedback, the training core of the pipeline.

The model factorizes the observed user/movie rating matrix into low-rank
user and item factor matrices. Ratings are the regression target and only
observed cells contribute to the loss; an absent rating is missing data,
not a zero. The objective per user u (and symmetrically per item) is

	sum_{i in R(u)} (r_ui - x_u' * y_i)^2 + lambda * |R(u)| * ||x_u||^2

with the regularization scaled by the user's rating count (the weighted-
lambda scheme). Each half-step solves an independent normal-equation
system per user or item via Cholesky decomposition; the systems are
distributed over a bounded worker pool.

# Training

	model, err := als.Train(ctx, train, als.Config{
	    Rank:           10,
	    Regularization: 0.1,
	    MaxIterations:  10,
	    Nonnegative:    true,
	    Workers:        8,
	    Seed:           42,
	})

A fitted Model is immutable and safe for concurrent use. Users and movies
absent from the training set are unknown to the model: predictions for
them are dropped rather than guessed (cold-start drop).

# Tuning

Search fits one candidate per point of a hyperparameter grid on an
internal train/validation split, scores each by validation RMSE, then
refits the winning combination on the full input:

	result, err := als.Search(ctx, train, als.DefaultGrid(), als.SearchOptions{
	    TrainRatio:  0.8,
	    Parallelism: 2,
	    Seed:        42,
	})
	model := result.BestModel

# Evaluation

EvaluateRMSE scores a fitted model against held-out ratings, dropping
cold-start rows first. Evaluating a test set with no scorable rows is an
explicit error, never a silent NaN.
*/
package als
