// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package dataset

import (
	"math/rand"
)

// Split partitions ratings into train and test subsets with a per-row
// Bernoulli draw: each rating lands in train with probability
// trainFraction. The split is deterministic for a fixed seed and input
// order, the subsets are disjoint, their union is exactly the input, and
// relative order is preserved within each subset.
//
// Realized sizes are proportional in expectation only; callers must not
// assume an exact row count. Small inputs can produce an empty test
// subset, which downstream evaluation reports as an explicit error.
func Split(ratings []Rating, trainFraction float64, seed int64) (train, test []Rating) {
	rng := rand.New(rand.NewSource(seed))

	expected := int(float64(len(ratings)) * trainFraction)
	train = make([]Rating, 0, expected+1)
	test = make([]Rating, 0, len(ratings)-expected+1)

	for _, r := range ratings {
		if rng.Float64() < trainFraction {
			train = append(train, r)
		} else {
			test = append(test, r)
		}
	}
	return train, test
}
