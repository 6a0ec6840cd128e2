// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package als

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/reelrank/reelrank/internal/dataset"
	"github.com/reelrank/reelrank/internal/logging"
)

// ErrEmptyTrainingSet is returned by Train when the input holds no ratings.
var ErrEmptyTrainingSet = errors.New("training set is empty")

// Config holds the ALS hyperparameters.
type Config struct {
	// Rank is the number of latent factors.
	Rank int

	// Regularization is the base lambda. During training it is scaled by
	// each row's rating count (weighted-lambda), so the effective strength
	// adapts to user and item activity.
	Regularization float64

	// MaxIterations is the number of full alternating sweeps. Each sweep
	// updates all user factors, then all item factors.
	MaxIterations int

	// Nonnegative constrains all factors to be >= 0 by projecting each
	// least-squares solution onto the nonnegative orthant.
	Nonnegative bool

	// Workers bounds the goroutines used per half-step.
	Workers int

	// Seed drives factor initialization. The same seed, config, and
	// training data always produce the same model.
	Seed int64
}

// DefaultConfig returns the direct-fit hyperparameters.
func DefaultConfig() Config {
	return Config{
		Rank:           10,
		Regularization: 0.1,
		MaxIterations:  10,
		Nonnegative:    true,
		Workers:        4,
		Seed:           42,
	}
}

// withDefaults fills zero or nonsensical fields. Regularization zero is a
// legal choice (unregularized fit), only negative values are replaced.
func (cfg Config) withDefaults() Config {
	if cfg.Rank <= 0 {
		cfg.Rank = 10
	}
	if cfg.Regularization < 0 {
		cfg.Regularization = 0.1
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return cfg
}

// Model is a fitted ALS factorization. It is immutable after Train and
// safe for concurrent use.
type Model struct {
	cfg Config

	userFactors [][]float64
	itemFactors [][]float64

	userIndex   map[int]int
	itemIndex   map[int]int
	indexToUser []int
	indexToItem []int
}

// ratedEntry is one observed cell of the rating matrix, seen from one
// side: the dense index of the counterpart row and the rating value.
type ratedEntry struct {
	index  int
	rating float64
}

// Config returns the hyperparameters the model was fitted with.
func (m *Model) Config() Config { return m.cfg }

// Users returns the number of distinct users seen during training.
func (m *Model) Users() int { return len(m.indexToUser) }

// Items returns the number of distinct movies seen during training.
func (m *Model) Items() int { return len(m.indexToItem) }

// Rank returns the number of latent factors.
func (m *Model) Rank() int { return m.cfg.Rank }

// Train fits an ALS model to the given ratings. It returns
// ErrEmptyTrainingSet when ratings is empty, and the context error when
// cancelled between half-steps.
func Train(ctx context.Context, ratings []dataset.Rating, cfg Config) (*Model, error) {
	cfg = cfg.withDefaults()

	if len(ratings) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := &Model{
		cfg:       cfg,
		userIndex: make(map[int]int),
		itemIndex: make(map[int]int),
	}

	// Dense indices in first-encounter order keep training deterministic
	// for a given input ordering.
	for _, r := range ratings {
		if _, ok := m.userIndex[r.UserID]; !ok {
			m.userIndex[r.UserID] = len(m.indexToUser)
			m.indexToUser = append(m.indexToUser, r.UserID)
		}
		if _, ok := m.itemIndex[r.MovieID]; !ok {
			m.itemIndex[r.MovieID] = len(m.indexToItem)
			m.indexToItem = append(m.indexToItem, r.MovieID)
		}
	}

	numUsers := len(m.indexToUser)
	numItems := len(m.indexToItem)

	userItems := make([][]ratedEntry, numUsers)
	itemUsers := make([][]ratedEntry, numItems)
	for _, r := range ratings {
		u := m.userIndex[r.UserID]
		i := m.itemIndex[r.MovieID]
		userItems[u] = append(userItems[u], ratedEntry{index: i, rating: r.Rating})
		itemUsers[i] = append(itemUsers[i], ratedEntry{index: u, rating: r.Rating})
	}

	m.userFactors = initFactors(numUsers, cfg.Rank, cfg.Seed)
	m.itemFactors = initFactors(numItems, cfg.Rank, cfg.Seed+1)

	logging.Ctx(ctx).Debug().
		Int("users", numUsers).
		Int("items", numItems).
		Int("ratings", len(ratings)).
		Int("rank", cfg.Rank).
		Float64("regularization", cfg.Regularization).
		Int("max_iterations", cfg.MaxIterations).
		Bool("nonnegative", cfg.Nonnegative).
		Msg("training ALS model")

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training cancelled at iteration %d: %w", iter, err)
		}
		solveHalfStep(m.userFactors, m.itemFactors, userItems, cfg)

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training cancelled at iteration %d: %w", iter, err)
		}
		solveHalfStep(m.itemFactors, m.userFactors, itemUsers, cfg)
	}

	return m, nil
}

// initFactors seeds a factor matrix with small positive values. Positive
// starting points keep the nonnegative projection from zeroing whole rows
// on the first sweep.
func initFactors(rows, rank int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	scale := 1.0 / math.Sqrt(float64(rank))

	factors := make([][]float64, rows)
	for r := range factors {
		row := make([]float64, rank)
		for f := range row {
			row[f] = rng.Float64() * scale
		}
		factors[r] = row
	}
	return factors
}

// solveHalfStep recomputes every row of target from the fixed counterpart
// factors. Row r solves the normal equations over its observed ratings:
//
//	(C' C + lambda * n_r * I) x = C' ratings_r
//
// where C stacks the counterpart factor rows rated by r and n_r is r's
// rating count. Rows are independent, so the work is chunked across a
// bounded pool of goroutines.
func solveHalfStep(target, fixed [][]float64, observed [][]ratedEntry, cfg Config) {
	numRows := len(target)
	workers := cfg.Workers
	if workers > numRows {
		workers = numRows
	}

	chunkSize := (numRows + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > numRows {
			end = numRows
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for r := start; r < end; r++ {
				solveRow(target, fixed, observed[r], r, cfg)
			}
		}(start, end)
	}
	wg.Wait()
}

// solveRow assembles and solves one row's normal-equation system.
func solveRow(target, fixed [][]float64, entries []ratedEntry, row int, cfg Config) {
	if len(entries) == 0 {
		return
	}
	rank := cfg.Rank

	a := make([][]float64, rank)
	for f := range a {
		a[f] = make([]float64, rank)
	}
	b := make([]float64, rank)

	// Accumulate C'C into the upper triangle and C'r alongside.
	for _, e := range entries {
		v := fixed[e.index]
		for f1 := 0; f1 < rank; f1++ {
			vf1 := v[f1]
			for f2 := f1; f2 < rank; f2++ {
				a[f1][f2] += vf1 * v[f2]
			}
			b[f1] += e.rating * vf1
		}
	}

	// Mirror the lower triangle and add the count-scaled ridge.
	lambda := cfg.Regularization * float64(len(entries))
	for f1 := 0; f1 < rank; f1++ {
		for f2 := 0; f2 < f1; f2++ {
			a[f1][f2] = a[f2][f1]
		}
		a[f1][f1] += lambda
	}

	x := solveLinearSystem(a, b)
	if cfg.Nonnegative {
		for f := range x {
			if x[f] < 0 {
				x[f] = 0
			}
		}
	}
	target[row] = x
}

// solveLinearSystem solves Ax = b for a symmetric positive definite A via
// Cholesky decomposition with forward and back substitution. Non-positive
// pivots are floored to keep the factorization alive on near-singular
// systems.
func solveLinearSystem(a [][]float64, b []float64) []float64 {
	n := len(b)

	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
	}

	// A = L L'
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i][j]
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}
			if i == j {
				if sum <= 0 {
					sum = 1e-10
				}
				l[i][j] = math.Sqrt(sum)
			} else {
				if l[j][j] != 0 {
					l[i][j] = sum / l[j][j]
				}
			}
		}
	}

	// Ly = b
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= l[i][k] * y[k]
		}
		if l[i][i] != 0 {
			y[i] = sum / l[i][i]
		}
	}

	// L'x = y
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k < n; k++ {
			sum -= l[k][i] * x[k]
		}
		if l[i][i] != 0 {
			x[i] = sum / l[i][i]
		}
	}

	return x
}
