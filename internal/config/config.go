// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package config

// Config holds all pipeline configuration loaded from defaults, an optional
// YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values matching the standard MovieLens run
//  2. Config File: Optional YAML file (reelrank.yaml) for persistent settings
//  3. Environment Variables: Override any setting
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Session   SessionConfig   `koanf:"session"`
	Split     SplitConfig     `koanf:"split"`
	ALS       ALSConfig       `koanf:"als"`
	Tuning    TuningConfig    `koanf:"tuning"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig holds the input and output paths of a pipeline run.
//
// Environment Variables:
//   - RATINGS_PATH: ratings CSV (default: data/ratings.csv)
//   - MOVIES_PATH: movies CSV (default: data/movies.csv)
//   - MODEL_DIR: directory the trained model is saved to
type DataConfig struct {
	RatingsPath string `koanf:"ratings_path" validate:"required"`
	MoviesPath  string `koanf:"movies_path"  validate:"required"`
	ModelDir    string `koanf:"model_dir"    validate:"required"`
}

// SessionConfig holds the analytical session settings. The session is the
// process-wide DuckDB handle used for CSV ingestion and ad-hoc queries.
type SessionConfig struct {
	// Threads is the DuckDB thread count. 0 means use runtime.NumCPU().
	Threads int `koanf:"threads" validate:"gte=0"`

	// MaxMemory caps DuckDB memory usage, e.g. "2GB" or "512MB".
	MaxMemory string `koanf:"max_memory" validate:"required,bytesize"`

	// Partitions controls the worker fan-out of the training sweeps.
	Partitions int `koanf:"partitions" validate:"gt=0"`
}

// SplitConfig holds the train/test split settings.
type SplitConfig struct {
	// TrainFraction is the expected share of rows assigned to the
	// training subset. The split is Bernoulli per row, so realized
	// fractions vary around this value.
	TrainFraction float64 `koanf:"train_fraction" validate:"gt=0,lt=1"`

	// Seed makes the split reproducible for a fixed input ordering.
	Seed int64 `koanf:"seed"`
}

// ALSConfig holds the direct-fit hyperparameters, used when tuning is
// disabled.
type ALSConfig struct {
	Rank           int     `koanf:"rank"           validate:"gt=0"`
	Regularization float64 `koanf:"regularization" validate:"gte=0"`
	MaxIterations  int     `koanf:"max_iterations" validate:"gt=0"`
	Nonnegative    bool    `koanf:"nonnegative"`
	Seed           int64   `koanf:"seed"`
}

// TuningConfig holds the hyperparameter grid search settings. When Enabled,
// the pipeline fits one model per grid combination on an internal
// train/validation split and keeps the combination with the lowest RMSE.
type TuningConfig struct {
	Enabled       bool      `koanf:"enabled"`
	Ranks         []int     `koanf:"ranks"          validate:"min=1,dive,gt=0"`
	RegParams     []float64 `koanf:"reg_params"     validate:"min=1,dive,gte=0"`
	MaxIterations []int     `koanf:"max_iterations" validate:"min=1,dive,gt=0"`

	// TrainRatio is the share of the training subset used for fitting;
	// the remainder scores each candidate.
	TrainRatio float64 `koanf:"train_ratio" validate:"gt=0,lt=1"`

	// Parallelism bounds the number of grid candidates fitted concurrently.
	Parallelism int   `koanf:"parallelism" validate:"gt=0"`
	Seed        int64 `koanf:"seed"`
}

// RecommendConfig holds the recommendation output settings.
type RecommendConfig struct {
	// TopNAllUsers is the list length generated for every known user.
	TopNAllUsers int `koanf:"top_n_all_users" validate:"gt=0"`

	// TopNUser is the list length generated for the demonstration user.
	TopNUser int `koanf:"top_n_user" validate:"gt=0"`

	// PreviewRows caps the all-users table printed to stdout.
	PreviewRows int `koanf:"preview_rows" validate:"gt=0"`

	// TruncateWidth is the maximum printed cell width.
	TruncateWidth int `koanf:"truncate_width" validate:"gt=0"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: warn)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"  validate:"required,oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"required,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. These match the
// standard MovieLens run: an 80/20 split with seed 42, an 18-combination
// grid searched two candidates at a time, top-5 lists for all users and a
// top-10 list for the demonstration user.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			RatingsPath: "data/ratings.csv",
			MoviesPath:  "data/movies.csv",
			ModelDir:    "models/als_movie_model",
		},
		Session: SessionConfig{
			Threads:    0, // 0 = use runtime.NumCPU()
			MaxMemory:  "2GB",
			Partitions: 8,
		},
		Split: SplitConfig{
			TrainFraction: 0.8,
			Seed:          42,
		},
		ALS: ALSConfig{
			Rank:           10,
			Regularization: 0.1,
			MaxIterations:  10,
			Nonnegative:    true,
			Seed:           42,
		},
		Tuning: TuningConfig{
			Enabled:       true,
			Ranks:         []int{8, 12, 16},
			RegParams:     []float64{0.05, 0.1, 0.2},
			MaxIterations: []int{8, 12},
			TrainRatio:    0.8,
			Parallelism:   2,
			Seed:          42,
		},
		Recommend: RecommendConfig{
			TopNAllUsers:  5,
			TopNUser:      10,
			PreviewRows:   20,
			TruncateWidth: 50,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
			Caller: false,
		},
	}
}
