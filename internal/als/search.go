// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package als

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reelrank/reelrank/internal/dataset"
	"github.com/reelrank/reelrank/internal/logging"
)

// Grid is the hyperparameter search space. Every combination of the
// three dimensions is tried.
type Grid struct {
	Ranks         []int
	RegParams     []float64
	MaxIterations []int
}

// DefaultGrid returns the standard tuning grid: 18 combinations.
func DefaultGrid() Grid {
	return Grid{
		Ranks:         []int{8, 12, 16},
		RegParams:     []float64{0.05, 0.1, 0.2},
		MaxIterations: []int{8, 12},
	}
}

// Size returns the number of combinations in the grid.
func (g Grid) Size() int {
	return len(g.Ranks) * len(g.RegParams) * len(g.MaxIterations)
}

// combinations expands the grid into trial configs in deterministic
// order: rank outermost, then regularization, then iterations. Trial
// index therefore identifies a combination across runs.
func (g Grid) combinations(opts SearchOptions) []Config {
	combos := make([]Config, 0, g.Size())
	for _, rank := range g.Ranks {
		for _, reg := range g.RegParams {
			for _, iters := range g.MaxIterations {
				combos = append(combos, Config{
					Rank:           rank,
					Regularization: reg,
					MaxIterations:  iters,
					Nonnegative:    opts.Nonnegative,
					Workers:        opts.Workers,
					Seed:           opts.Seed,
				})
			}
		}
	}
	return combos
}

// SearchOptions controls how the grid is evaluated.
type SearchOptions struct {
	// TrainRatio is the fraction of the input used to fit each trial;
	// the remainder becomes the shared validation set.
	TrainRatio float64

	// Parallelism bounds how many trials fit concurrently. Each trial
	// additionally uses Workers goroutines internally, so total
	// parallelism is roughly the product.
	Parallelism int

	// Seed drives the train/validation split and every trial's factor
	// initialization, so trials differ only in their hyperparameters.
	Seed int64

	// Workers is passed through to each trial's Config.
	Workers int

	// Nonnegative is passed through to each trial's Config.
	Nonnegative bool
}

func (opts SearchOptions) withDefaults() SearchOptions {
	if opts.TrainRatio <= 0 || opts.TrainRatio >= 1 {
		opts.TrainRatio = 0.8
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 2
	}
	return opts
}

// Trial records the outcome of one grid point. Exactly one of RMSE and
// Err is meaningful.
type Trial struct {
	Rank          int
	RegParam      float64
	MaxIterations int
	RMSE          float64
	Err           error
}

// SearchResult is the outcome of a grid search.
type SearchResult struct {
	// BestModel is the winning combination refitted on the full input.
	BestModel *Model

	BestRank     int
	BestRegParam float64
	BestMaxIter  int

	// BestRMSE is the winning trial's validation RMSE. The refitted
	// BestModel saw the validation rows too, so this is a selection
	// score, not an estimate of BestModel's held-out error.
	BestRMSE float64

	// Trials holds every grid point's outcome in grid order.
	Trials []Trial
}

// Search fits one model per grid combination on a shared train/validation
// split, scores each by validation RMSE, then refits the best combination
// on the full input. Trials run concurrently, bounded by Parallelism.
//
// A trial that fails is recorded in its Trial and skipped for selection;
// Search fails only when every trial fails, or when the context is
// cancelled. Ties on RMSE keep the earliest combination in grid order.
func Search(ctx context.Context, ratings []dataset.Rating, grid Grid, opts SearchOptions) (*SearchResult, error) {
	opts = opts.withDefaults()

	if len(ratings) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	combos := grid.combinations(opts)
	if len(combos) == 0 {
		return nil, errors.New("hyperparameter grid is empty")
	}

	subTrain, validation := dataset.Split(ratings, opts.TrainRatio, opts.Seed)
	if len(subTrain) == 0 || len(validation) == 0 {
		return nil, fmt.Errorf("tuning split produced an empty subset: %d train, %d validation rows from %d input",
			len(subTrain), len(validation), len(ratings))
	}

	logging.Ctx(ctx).Info().
		Int("trials", len(combos)).
		Int("parallelism", opts.Parallelism).
		Int("train_rows", len(subTrain)).
		Int("validation_rows", len(validation)).
		Msg("starting hyperparameter search")

	trials := make([]Trial, len(combos))
	sem := make(chan struct{}, opts.Parallelism)
	var wg sync.WaitGroup

	for idx, combo := range combos {
		wg.Add(1)
		go func(idx int, combo Config) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			trials[idx] = runTrial(ctx, subTrain, validation, combo)
		}(idx, combo)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bestIdx := -1
	var firstErr error
	for i, t := range trials {
		if t.Err != nil {
			if firstErr == nil {
				firstErr = t.Err
			}
			continue
		}
		if bestIdx < 0 || t.RMSE < trials[bestIdx].RMSE {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, fmt.Errorf("all %d trials failed: %w", len(trials), firstErr)
	}

	best := combos[bestIdx]
	logging.Ctx(ctx).Info().
		Int("rank", best.Rank).
		Float64("reg_param", best.Regularization).
		Int("max_iterations", best.MaxIterations).
		Float64("validation_rmse", trials[bestIdx].RMSE).
		Msg("search complete, refitting best model on full training set")

	model, err := Train(ctx, ratings, best)
	if err != nil {
		return nil, fmt.Errorf("refit best model: %w", err)
	}

	return &SearchResult{
		BestModel:    model,
		BestRank:     best.Rank,
		BestRegParam: best.Regularization,
		BestMaxIter:  best.MaxIterations,
		BestRMSE:     trials[bestIdx].RMSE,
		Trials:       trials,
	}, nil
}

func runTrial(ctx context.Context, subTrain, validation []dataset.Rating, cfg Config) Trial {
	t := Trial{
		Rank:          cfg.Rank,
		RegParam:      cfg.Regularization,
		MaxIterations: cfg.MaxIterations,
	}

	model, err := Train(ctx, subTrain, cfg)
	if err != nil {
		t.Err = err
		return t
	}

	rmse, evaluated, err := EvaluateRMSE(model, validation)
	if err != nil {
		t.Err = err
		return t
	}
	t.RMSE = rmse

	logging.Ctx(ctx).Debug().
		Int("rank", t.Rank).
		Float64("reg_param", t.RegParam).
		Int("max_iterations", t.MaxIterations).
		Float64("rmse", rmse).
		Int("evaluated", evaluated).
		Msg("trial complete")
	return t
}
