// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package config

import (
	"fmt"

	"github.com/reelrank/reelrank/internal/validation"
)

// Validate checks that the merged configuration is complete and usable.
// Field-level constraints are declared as validate struct tags; the checks
// below cover what tags cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("invalid configuration: %w", verr)
	}

	return c.validateRecommend()
}

// validateRecommend checks the recommendation output settings.
func (c *Config) validateRecommend() error {
	// Cells narrower than 4 characters cannot hold the "..." marker that
	// truncation appends.
	if c.Recommend.TruncateWidth < 4 {
		return fmt.Errorf("TRUNCATE_WIDTH must be at least 4, got %d", c.Recommend.TruncateWidth)
	}
	return nil
}
