// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package als

import "fmt"

// ModelState is the serializable snapshot of a fitted Model, the shape
// written to and read from disk by the storage layer.
type ModelState struct {
	Rank           int
	Regularization float64
	MaxIterations  int
	Nonnegative    bool
	Workers        int
	Seed           int64

	UserFactors [][]float64
	ItemFactors [][]float64
	IndexToUser []int
	IndexToItem []int
}

// State snapshots the model for persistence. Factor matrices are deep
// copied so the snapshot stays valid independently of the model.
func (m *Model) State() *ModelState {
	return &ModelState{
		Rank:           m.cfg.Rank,
		Regularization: m.cfg.Regularization,
		MaxIterations:  m.cfg.MaxIterations,
		Nonnegative:    m.cfg.Nonnegative,
		Workers:        m.cfg.Workers,
		Seed:           m.cfg.Seed,
		UserFactors:    copyMatrix(m.userFactors),
		ItemFactors:    copyMatrix(m.itemFactors),
		IndexToUser:    append([]int(nil), m.indexToUser...),
		IndexToItem:    append([]int(nil), m.indexToItem...),
	}
}

// FromState reconstructs a Model from a snapshot, rebuilding the ID
// lookup maps. The snapshot's slices are adopted, not copied; the caller
// must not reuse them. Shape inconsistencies are reported as errors so a
// corrupted or truncated snapshot fails loudly instead of mispredicting.
func FromState(st *ModelState) (*Model, error) {
	if st == nil {
		return nil, fmt.Errorf("model state is nil")
	}
	if st.Rank <= 0 {
		return nil, fmt.Errorf("invalid model state: rank %d", st.Rank)
	}
	if len(st.UserFactors) != len(st.IndexToUser) {
		return nil, fmt.Errorf("invalid model state: %d user factor rows for %d users",
			len(st.UserFactors), len(st.IndexToUser))
	}
	if len(st.ItemFactors) != len(st.IndexToItem) {
		return nil, fmt.Errorf("invalid model state: %d item factor rows for %d movies",
			len(st.ItemFactors), len(st.IndexToItem))
	}
	for i, row := range st.UserFactors {
		if len(row) != st.Rank {
			return nil, fmt.Errorf("invalid model state: user factor row %d has %d factors, want %d",
				i, len(row), st.Rank)
		}
	}
	for i, row := range st.ItemFactors {
		if len(row) != st.Rank {
			return nil, fmt.Errorf("invalid model state: item factor row %d has %d factors, want %d",
				i, len(row), st.Rank)
		}
	}

	m := &Model{
		cfg: Config{
			Rank:           st.Rank,
			Regularization: st.Regularization,
			MaxIterations:  st.MaxIterations,
			Nonnegative:    st.Nonnegative,
			Workers:        st.Workers,
			Seed:           st.Seed,
		}.withDefaults(),
		userFactors: st.UserFactors,
		itemFactors: st.ItemFactors,
		indexToUser: st.IndexToUser,
		indexToItem: st.IndexToItem,
		userIndex:   make(map[int]int, len(st.IndexToUser)),
		itemIndex:   make(map[int]int, len(st.IndexToItem)),
	}
	for i, id := range st.IndexToUser {
		m.userIndex[id] = i
	}
	for i, id := range st.IndexToItem {
		m.itemIndex[id] = i
	}
	return m, nil
}

func copyMatrix(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
