// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package main is the entry point for the Reelrank pipeline.
//
// Reelrank trains an ALS collaborative-filtering model on MovieLens-style
// rating data and prints top-N movie recommendations. One invocation runs
// the full batch pipeline:
//
//  1. Configuration: load settings from defaults, optional YAML file, and
//     environment variables (Koanf v2)
//  2. Session: open an in-memory DuckDB session for CSV ingestion
//  3. Load: read ratings.csv and movies.csv with typed projections
//  4. Split: seeded train/test split of the ratings
//  5. Train: hyperparameter grid search (or a direct fit when tuning is
//     disabled)
//  6. Evaluate: RMSE on the held-out test set
//  7. Save: persist the winning model and its metadata sidecar
//  8. Recommend: top-5 movies per user plus a top-10 list for a sample
//     user, both joined with titles and printed as tables
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (RATINGS_PATH, TUNING_RANKS, LOG_LEVEL, ...)
//   - Config file (reelrank.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults matching the MovieLens small dataset layout
//
// # Input Data
//
// The pipeline expects the MovieLens CSV layout:
//
//	data/ratings.csv  (columns: userId,movieId,rating,timestamp)
//	data/movies.csv   (columns: movieId,title,genres)
//
// Missing input files abort the run with a remediation message and exit
// code 1 before any processing starts.
//
// # Output
//
// The recommendation report (row counts, best hyperparameters, RMSE, and
// recommendation tables) goes to stdout. Structured logs go to stderr so
// the report stays pipeable.
//
// # Example Usage
//
//	export RATINGS_PATH=data/ratings.csv
//	export MOVIES_PATH=data/movies.csv
//	export LOG_LEVEL=info
//	./reelrank
//
// Disable tuning for a quick single fit:
//
//	TUNING_ENABLED=false ALS_RANK=10 ./reelrank
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reelrank/reelrank/internal/als"
	"github.com/reelrank/reelrank/internal/config"
	"github.com/reelrank/reelrank/internal/dataset"
	"github.com/reelrank/reelrank/internal/logging"
	"github.com/reelrank/reelrank/internal/recommend"
	"github.com/reelrank/reelrank/internal/report"
	"github.com/reelrank/reelrank/internal/storage"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx := logging.ContextWithNewRunID(context.Background())
	logging.Ctx(ctx).Info().
		Str("ratings_path", cfg.Data.RatingsPath).
		Str("movies_path", cfg.Data.MoviesPath).
		Str("model_dir", cfg.Data.ModelDir).
		Bool("tuning_enabled", cfg.Tuning.Enabled).
		Msg("Configuration loaded")

	if err := run(ctx, cfg); err != nil {
		logging.Fatal().Err(err).Msg("Pipeline failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	session, err := dataset.Open(cfg.Session)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to close session")
		}
	}()

	// Input files are checked up front so the failure mode is a clear
	// remediation message, not a mid-pipeline read error.
	if err := dataset.CheckInputs(cfg.Data.RatingsPath, cfg.Data.MoviesPath); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		_ = session.Close()
		os.Exit(1)
	}

	ratings, err := session.LoadRatings(ctx, cfg.Data.RatingsPath)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}
	movies, err := session.LoadMovies(ctx, cfg.Data.MoviesPath)
	if err != nil {
		return fmt.Errorf("load movies: %w", err)
	}
	fmt.Println("Total ratings:", len(ratings))
	fmt.Println("Total movies:", len(movies))

	train, test := dataset.Split(ratings, cfg.Split.TrainFraction, cfg.Split.Seed)
	fmt.Println("Train count:", len(train), "Test count:", len(test))

	model, err := fitModel(ctx, cfg, train)
	if err != nil {
		return err
	}

	rmse, evaluated, err := als.EvaluateRMSE(model, test)
	if err != nil {
		return fmt.Errorf("evaluate model: %w", err)
	}
	logging.Ctx(ctx).Info().
		Int("evaluated", evaluated).
		Float64("rmse", rmse).
		Msg("Evaluation complete")
	fmt.Println(report.RMSELine(rmse))

	saveModel(ctx, cfg, model, len(train), rmse)

	fmt.Println("Generating top-5 recommendations for a sample of users (with titles)...")
	allRecs, err := model.RecommendForAllUsers(ctx, cfg.Recommend.TopNAllUsers)
	if err != nil {
		return fmt.Errorf("recommend for all users: %w", err)
	}
	rows := recommend.JoinTitles(recommend.Flatten(allRecs), movies)
	fmt.Print(report.RecommendationsTable(rows, cfg.Recommend.PreviewRows, cfg.Recommend.TruncateWidth))

	userID, ok := dataset.FirstDistinctUser(ratings)
	if !ok {
		return nil
	}
	fmt.Println("Sample user id for demonstration:", userID)

	userRecs, err := model.RecommendForUsers(ctx, []int{userID}, cfg.Recommend.TopNUser)
	if err != nil {
		return fmt.Errorf("recommend for user %d: %w", userID, err)
	}
	userRows := recommend.JoinTitles(recommend.Flatten(userRecs), movies)
	fmt.Printf("Top recommendations for user %d:\n", userID)
	fmt.Print(report.RecommendationsTable(userRows, cfg.Recommend.PreviewRows, cfg.Recommend.TruncateWidth))

	return nil
}

// fitModel trains via grid search when tuning is enabled, otherwise runs
// a direct fit with the configured ALS hyperparameters.
func fitModel(ctx context.Context, cfg *config.Config, train []dataset.Rating) (*als.Model, error) {
	if cfg.Tuning.Enabled {
		fmt.Println("Training ALS model with hyperparameter tuning (this may take a while)...")
		result, err := als.Search(ctx, train, als.Grid{
			Ranks:         cfg.Tuning.Ranks,
			RegParams:     cfg.Tuning.RegParams,
			MaxIterations: cfg.Tuning.MaxIterations,
		}, als.SearchOptions{
			TrainRatio:  cfg.Tuning.TrainRatio,
			Parallelism: cfg.Tuning.Parallelism,
			Seed:        cfg.Tuning.Seed,
			Workers:     cfg.Session.Partitions,
			Nonnegative: cfg.ALS.Nonnegative,
		})
		if err != nil {
			return nil, fmt.Errorf("hyperparameter search: %w", err)
		}
		fmt.Println("Best model params:")
		fmt.Println("  rank =", result.BestRank)
		fmt.Println("  regParam =", result.BestRegParam)
		fmt.Println("  maxIter =", result.BestMaxIter)
		return result.BestModel, nil
	}

	fmt.Println("Training ALS model...")
	model, err := als.Train(ctx, train, als.Config{
		Rank:           cfg.ALS.Rank,
		Regularization: cfg.ALS.Regularization,
		MaxIterations:  cfg.ALS.MaxIterations,
		Nonnegative:    cfg.ALS.Nonnegative,
		Workers:        cfg.Session.Partitions,
		Seed:           cfg.ALS.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}
	return model, nil
}

// saveModel persists the fitted model. Persistence failures are warnings:
// the in-memory model still serves the rest of the run.
func saveModel(ctx context.Context, cfg *config.Config, model *als.Model, trainingRows int, rmse float64) {
	store, err := storage.NewStore(cfg.Data.ModelDir)
	if err == nil {
		err = store.Save(ctx, model.State(), storage.Metadata{
			TrainingRows: trainingRows,
			TestRMSE:     rmse,
		})
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("model_dir", cfg.Data.ModelDir).Msg("Could not save model")
		fmt.Println("Warning: could not save model:", err)
		return
	}
	fmt.Println("Model saved to", cfg.Data.ModelDir)
}
