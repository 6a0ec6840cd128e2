// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps the validator library in a thread-safe singleton with
// custom validators and human-readable error messages. Its primary consumer
// is the configuration loader, which validates the fully merged Config
// before the pipeline runs.
//
// # Quick Start
//
//	type SessionConfig struct {
//	    Threads   int    `validate:"gte=0"`
//	    MaxMemory string `validate:"required,bytesize"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    return fmt.Errorf("invalid configuration: %w", verr)
//	}
//
// # Custom Validators
//
//   - bytesize: a memory size string such as "2GB", "512MB" or "1.5GiB"
//
// Built-in validators cover the rest: required, gt/gte/lt/lte bounds, min
// and max lengths, oneof sets, and dive for per-element slice validation.
package validation
