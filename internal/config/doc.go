// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

/*
Package config provides centralized configuration management for Reelrank.

The package loads, merges and validates every setting a pipeline run needs.
Values come from three layered sources with clear precedence:

 1. Built-in defaults (the standard MovieLens run)
 2. An optional YAML config file (reelrank.yaml)
 3. Environment variables

# Configuration Structure

Settings are organized into logical groups:

  - DataConfig: input CSV paths and the model output directory
  - SessionConfig: DuckDB threads, memory cap, training partitions
  - SplitConfig: train/test fraction and seed
  - ALSConfig: direct-fit hyperparameters (rank, regularization, iterations)
  - TuningConfig: grid-search ranges, validation ratio, parallelism
  - RecommendConfig: top-N sizes and console preview shape
  - LoggingConfig: level, format, caller info

# Environment Variables

Every setting has an environment override; each name is also accepted
with a REELRANK_ prefix (REELRANK_RATINGS_PATH and RATINGS_PATH are
equivalent). The most common:

	RATINGS_PATH          ratings CSV path (default: data/ratings.csv)
	MOVIES_PATH           movies CSV path (default: data/movies.csv)
	MODEL_DIR             model output directory
	SESSION_THREADS       DuckDB threads, 0 = all cores
	SESSION_PARTITIONS    training worker fan-out (default: 8)
	SPLIT_TRAIN_FRACTION  train share of the split (default: 0.8)
	SPLIT_SEED            split seed (default: 42)
	TUNING_ENABLED        grid search on/off (default: true)
	TUNING_RANKS          comma-separated, e.g. "8,12,16"
	TUNING_REG_PARAMS     comma-separated, e.g. "0.05,0.1,0.2"
	LOG_LEVEL             trace..error (default: warn)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	session, err := dataset.Open(cfg.Session)

Grid fields accept comma-separated strings from the environment and native
sequences from YAML. Validation runs as part of Load(); a returned error
always names the offending field.
*/
package config
