// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package als

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/reelrank/reelrank/internal/dataset"
	"github.com/reelrank/reelrank/internal/recommend"
)

// Prediction pairs an observed rating with the model's estimate for the
// same (user, movie) cell.
type Prediction struct {
	UserID    int
	MovieID   int
	Actual    float64
	Predicted float64
}

// PredictOne returns the predicted rating for a (user, movie) pair. The
// second return is false when either side was not seen during training.
func (m *Model) PredictOne(userID, movieID int) (float64, bool) {
	u, ok := m.userIndex[userID]
	if !ok {
		return 0, false
	}
	i, ok := m.itemIndex[movieID]
	if !ok {
		return 0, false
	}
	return floats.Dot(m.userFactors[u], m.itemFactors[i]), true
}

// Transform predicts a rating for every row of the input whose user and
// movie are both known to the model. Cold-start rows are dropped and
// counted rather than given placeholder predictions. Output order
// follows input order.
func (m *Model) Transform(ratings []dataset.Rating) ([]Prediction, int) {
	preds := make([]Prediction, 0, len(ratings))
	dropped := 0

	for _, r := range ratings {
		p, ok := m.PredictOne(r.UserID, r.MovieID)
		if !ok {
			dropped++
			continue
		}
		preds = append(preds, Prediction{
			UserID:    r.UserID,
			MovieID:   r.MovieID,
			Actual:    r.Rating,
			Predicted: p,
		})
	}
	return preds, dropped
}

// RecommendForAllUsers returns the top n movies per trained user, in
// training encounter order of users. Scoring all user/movie pairs is the
// heaviest read path, so users are chunked across the model's configured
// worker count.
func (m *Model) RecommendForAllUsers(ctx context.Context, n int) ([]recommend.UserRecommendations, error) {
	indices := make([]int, len(m.indexToUser))
	for i := range indices {
		indices[i] = i
	}
	return m.recommendForIndices(ctx, indices, n)
}

// RecommendForUsers returns the top n movies for the requested users, in
// request order. Users unknown to the model are skipped, mirroring the
// cold-start handling in Transform.
func (m *Model) RecommendForUsers(ctx context.Context, userIDs []int, n int) ([]recommend.UserRecommendations, error) {
	indices := make([]int, 0, len(userIDs))
	for _, id := range userIDs {
		if u, ok := m.userIndex[id]; ok {
			indices = append(indices, u)
		}
	}
	return m.recommendForIndices(ctx, indices, n)
}

func (m *Model) recommendForIndices(ctx context.Context, indices []int, n int) ([]recommend.UserRecommendations, error) {
	if n <= 0 {
		return nil, fmt.Errorf("recommendation count must be positive, got %d", n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]recommend.UserRecommendations, len(indices))

	numJobs := len(indices)
	workers := m.cfg.Workers
	if workers > numJobs {
		workers = numJobs
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (numJobs + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > numJobs {
			end = numJobs
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for pos := start; pos < end; pos++ {
				if ctx.Err() != nil {
					return
				}
				out[pos] = m.topNForUser(indices[pos], n)
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// topNForUser scores every movie for one user and keeps the n best.
func (m *Model) topNForUser(userIdx, n int) recommend.UserRecommendations {
	uf := m.userFactors[userIdx]

	scored := make([]recommend.ScoredItem, len(m.itemFactors))
	for i, itf := range m.itemFactors {
		scored[i] = recommend.ScoredItem{
			MovieID: m.indexToItem[i],
			Score:   floats.Dot(uf, itf),
		}
	}

	sort.Slice(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].MovieID < scored[b].MovieID
	})

	if n < len(scored) {
		scored = scored[:n]
	}
	return recommend.UserRecommendations{
		UserID: m.indexToUser[userIdx],
		Items:  scored,
	}
}
