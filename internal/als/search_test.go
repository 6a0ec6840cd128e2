// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package als

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reelrank/reelrank/internal/dataset"
)

func testGrid() Grid {
	return Grid{
		Ranks:         []int{2, 4},
		RegParams:     []float64{0.05, 0.1},
		MaxIterations: []int{5},
	}
}

func testSearchOptions() SearchOptions {
	return SearchOptions{
		TrainRatio:  0.8,
		Parallelism: 2,
		Seed:        1,
		Workers:     2,
		Nonnegative: true,
	}
}

func TestDefaultGrid(t *testing.T) {
	g := DefaultGrid()
	if got := g.Size(); got != 18 {
		t.Errorf("DefaultGrid().Size() = %d, want 18", got)
	}
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want int
	}{
		{"empty", Grid{}, 0},
		{"single point", Grid{Ranks: []int{8}, RegParams: []float64{0.1}, MaxIterations: []int{10}}, 1},
		{"one empty dimension", Grid{Ranks: []int{8, 12}, MaxIterations: []int{10}}, 0},
		{"full", testGrid(), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grid.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGridCombinationsOrder(t *testing.T) {
	combos := testGrid().combinations(testSearchOptions())
	if len(combos) != 4 {
		t.Fatalf("len(combos) = %d, want 4", len(combos))
	}

	// Rank is the outermost dimension, regularization next.
	want := []struct {
		rank int
		reg  float64
	}{
		{2, 0.05}, {2, 0.1}, {4, 0.05}, {4, 0.1},
	}
	for i, w := range want {
		if combos[i].Rank != w.rank || combos[i].Regularization != w.reg {
			t.Errorf("combos[%d] = (rank %d, reg %v), want (rank %d, reg %v)",
				i, combos[i].Rank, combos[i].Regularization, w.rank, w.reg)
		}
	}
	for i, c := range combos {
		if !c.Nonnegative || c.Workers != 2 || c.Seed != 1 {
			t.Errorf("combos[%d] did not inherit search options: %+v", i, c)
		}
	}
}

func TestSearchOptionsDefaults(t *testing.T) {
	opts := SearchOptions{}.withDefaults()
	if opts.TrainRatio != 0.8 {
		t.Errorf("TrainRatio = %v, want 0.8", opts.TrainRatio)
	}
	if opts.Parallelism != 2 {
		t.Errorf("Parallelism = %d, want 2", opts.Parallelism)
	}

	opts = SearchOptions{TrainRatio: 1.5, Parallelism: -1}.withDefaults()
	if opts.TrainRatio != 0.8 || opts.Parallelism != 2 {
		t.Errorf("out-of-range options not defaulted: %+v", opts)
	}
}

func TestSearchSelectsBestTrial(t *testing.T) {
	result, err := Search(context.Background(), blockRatings(), testGrid(), testSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if result.BestModel == nil {
		t.Fatal("BestModel = nil")
	}
	if len(result.Trials) != 4 {
		t.Fatalf("len(Trials) = %d, want 4", len(result.Trials))
	}

	for i, trial := range result.Trials {
		if trial.Err != nil {
			t.Fatalf("Trials[%d] failed: %v", i, trial.Err)
		}
		if trial.RMSE < 0 {
			t.Errorf("Trials[%d].RMSE = %v, want >= 0", i, trial.RMSE)
		}
	}

	// BestRMSE must be the minimum across trials and the Best* params
	// must belong to a trial achieving it.
	minRMSE := result.Trials[0].RMSE
	for _, trial := range result.Trials[1:] {
		if trial.RMSE < minRMSE {
			minRMSE = trial.RMSE
		}
	}
	if result.BestRMSE != minRMSE {
		t.Errorf("BestRMSE = %v, want minimum %v", result.BestRMSE, minRMSE)
	}

	found := false
	for _, trial := range result.Trials {
		if trial.RMSE == result.BestRMSE &&
			trial.Rank == result.BestRank &&
			trial.RegParam == result.BestRegParam &&
			trial.MaxIterations == result.BestMaxIter {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Best params (rank %d, reg %v, iters %d) do not match any winning trial",
			result.BestRank, result.BestRegParam, result.BestMaxIter)
	}

	// Clean block structure should be easy to fit.
	if result.BestRMSE > 1.5 {
		t.Errorf("BestRMSE = %v, want <= 1.5 on separable data", result.BestRMSE)
	}

	// The refitted model uses the winning hyperparameters.
	cfg := result.BestModel.Config()
	if cfg.Rank != result.BestRank || cfg.Regularization != result.BestRegParam || cfg.MaxIterations != result.BestMaxIter {
		t.Errorf("BestModel config = %+v, want best params (rank %d, reg %v, iters %d)",
			cfg, result.BestRank, result.BestRegParam, result.BestMaxIter)
	}
}

func TestSearchDeterministic(t *testing.T) {
	r1, err := Search(context.Background(), blockRatings(), testGrid(), testSearchOptions())
	if err != nil {
		t.Fatalf("first Search: %v", err)
	}
	r2, err := Search(context.Background(), blockRatings(), testGrid(), testSearchOptions())
	if err != nil {
		t.Fatalf("second Search: %v", err)
	}

	if r1.BestRank != r2.BestRank || r1.BestRegParam != r2.BestRegParam || r1.BestMaxIter != r2.BestMaxIter {
		t.Errorf("best params differ across runs: (%d, %v, %d) vs (%d, %v, %d)",
			r1.BestRank, r1.BestRegParam, r1.BestMaxIter,
			r2.BestRank, r2.BestRegParam, r2.BestMaxIter)
	}
	if r1.BestRMSE != r2.BestRMSE {
		t.Errorf("BestRMSE differs across runs: %v vs %v", r1.BestRMSE, r2.BestRMSE)
	}
	for i := range r1.Trials {
		if r1.Trials[i].RMSE != r2.Trials[i].RMSE {
			t.Errorf("Trials[%d].RMSE differs across runs: %v vs %v",
				i, r1.Trials[i].RMSE, r2.Trials[i].RMSE)
		}
	}
}

func TestSearchEmptyRatings(t *testing.T) {
	_, err := Search(context.Background(), nil, testGrid(), testSearchOptions())
	if !errors.Is(err, ErrEmptyTrainingSet) {
		t.Fatalf("Search(nil) error = %v, want ErrEmptyTrainingSet", err)
	}
}

func TestSearchEmptyGrid(t *testing.T) {
	_, err := Search(context.Background(), sampleRatings(), Grid{}, testSearchOptions())
	if err == nil || !strings.Contains(err.Error(), "grid is empty") {
		t.Fatalf("Search with empty grid error = %v, want grid-is-empty error", err)
	}
}

func TestSearchAllTrialsFail(t *testing.T) {
	// Every rating has a unique user and movie, so every validation row
	// is cold start for every trial.
	ratings := make([]dataset.Rating, 30)
	for i := range ratings {
		ratings[i] = dataset.Rating{UserID: i + 1, MovieID: 1000 + i, Rating: 3.0}
	}

	opts := testSearchOptions()
	opts.TrainRatio = 0.5

	_, err := Search(context.Background(), ratings, testGrid(), opts)
	if err == nil {
		t.Fatal("Search error = nil, want all-trials-failed error")
	}
	if !errors.Is(err, ErrNoPredictions) {
		t.Errorf("error = %v, want wrapped ErrNoPredictions", err)
	}
	if !strings.Contains(err.Error(), "trials failed") {
		t.Errorf("error = %v, want mention of failed trials", err)
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, blockRatings(), testGrid(), testSearchOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Search with cancelled context error = %v, want context.Canceled", err)
	}
}
