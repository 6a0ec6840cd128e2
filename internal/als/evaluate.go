// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package als

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/reelrank/reelrank/internal/dataset"
)

// ErrNoPredictions is returned by EvaluateRMSE when no test row survives
// the cold-start drop, which would otherwise yield a meaningless NaN.
var ErrNoPredictions = errors.New("no predictions to evaluate")

// EvaluateRMSE scores a fitted model against held-out ratings. Rows whose
// user or movie was unseen during training are dropped before scoring;
// evaluated reports how many rows remained. An empty survivor set is an
// error, not a NaN.
func EvaluateRMSE(m *Model, test []dataset.Rating) (rmse float64, evaluated int, err error) {
	preds, dropped := m.Transform(test)
	if len(preds) == 0 {
		return 0, 0, fmt.Errorf("%w: all %d test rows were cold-start", ErrNoPredictions, dropped)
	}

	sq := make([]float64, len(preds))
	for i, p := range preds {
		d := p.Predicted - p.Actual
		sq[i] = d * d
	}
	return math.Sqrt(stat.Mean(sq, nil)), len(preds), nil
}
