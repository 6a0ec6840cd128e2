// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"reelrank.yaml",
	"reelrank.yml",
	"/etc/reelrank/reelrank.yaml",
	"/etc/reelrank/reelrank.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config
// file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in values for every setting
//  2. Config File: Optional YAML config file (if one exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults. The returned Config has been
// validated; a non-nil error means the pipeline must not run.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Grid values arrive from env as comma-separated strings; convert them
	// to typed slices before unmarshaling.
	if err := processGridFields(k); err != nil {
		return nil, fmt.Errorf("failed to process grid fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// intGridPaths and floatGridPaths define which config paths are parsed as
// comma-separated numeric slices when they arrive as strings.
var (
	intGridPaths   = []string{"tuning.ranks", "tuning.max_iterations"}
	floatGridPaths = []string{"tuning.reg_params"}
)

// processGridFields converts comma-separated string values to typed slices
// for the tuning grid fields. Env vars come in as strings, but the config
// expects []int and []float64.
func processGridFields(k *koanf.Koanf) error {
	for _, path := range intGridPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue // already a slice (defaults or YAML)
		}
		parts := splitCommaList(strVal)
		vals := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return fmt.Errorf("invalid integer %q in %s: %w", p, path, err)
			}
			vals = append(vals, n)
		}
		if err := k.Set(path, vals); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}

	for _, path := range floatGridPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := splitCommaList(strVal)
		vals := make([]float64, 0, len(parts))
		for _, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q in %s: %w", p, path, err)
			}
			vals = append(vals, f)
		}
		if err := k.Set(path, vals); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}

	return nil
}

// splitCommaList splits a comma-separated string, trimming whitespace and
// dropping empty elements.
func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envTransformFunc transforms environment variable names to koanf config
// paths. Every variable is also accepted with a REELRANK_ prefix, so the
// pipeline can coexist with other tools in the same environment. Unmapped
// variables are skipped so unrelated environment variables cannot pollute
// the configuration.
//
// Examples:
//   - RATINGS_PATH -> data.ratings_path
//   - REELRANK_RATINGS_PATH -> data.ratings_path
//   - SESSION_THREADS -> session.threads
//   - TUNING_RANKS -> tuning.ranks
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, "reelrank_")

	envMappings := map[string]string{
		// Data paths
		"ratings_path": "data.ratings_path",
		"movies_path":  "data.movies_path",
		"model_dir":    "data.model_dir",

		// Session mappings
		"session_threads":    "session.threads",
		"session_max_memory": "session.max_memory",
		"session_partitions": "session.partitions",

		// Split mappings
		"split_train_fraction": "split.train_fraction",
		"split_seed":           "split.seed",

		// Direct-fit ALS mappings
		"als_rank":           "als.rank",
		"als_regularization": "als.regularization",
		"als_reg_param":      "als.regularization",
		"als_max_iterations": "als.max_iterations",
		"als_max_iter":       "als.max_iterations",
		"als_nonnegative":    "als.nonnegative",
		"als_seed":           "als.seed",

		// Tuning mappings
		"tuning_enabled":        "tuning.enabled",
		"tuning_ranks":          "tuning.ranks",
		"tuning_reg_params":     "tuning.reg_params",
		"tuning_max_iterations": "tuning.max_iterations",
		"tuning_train_ratio":    "tuning.train_ratio",
		"tuning_parallelism":    "tuning.parallelism",
		"tuning_seed":           "tuning.seed",

		// Recommendation output mappings
		"top_n_all_users": "recommend.top_n_all_users",
		"top_n_user":      "recommend.top_n_user",
		"preview_rows":    "recommend.preview_rows",
		"truncate_width":  "recommend.truncate_width",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them.
	return ""
}
