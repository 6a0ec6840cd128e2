// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package storage persists fitted models to disk.
//
// A model is stored as a single gob-encoded file wrapping gzip-compressed
// model state, with a SHA-256 checksum computed over the uncompressed
// bytes so corruption is caught at load time rather than surfacing as
// silently wrong predictions. A metadata.json sidecar duplicates the
// run's vital statistics for humans and external tooling; the copy
// embedded in the model file remains authoritative.
//
// The store holds exactly one model. Saving overwrites the previous one.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/reelrank/reelrank/internal/als"
)

const (
	modelFileName    = "als.gob.gz"
	metadataFileName = "metadata.json"
)

// ErrModelNotFound is returned by Load when no model has been saved yet.
var ErrModelNotFound = errors.New("no saved model found")

// Metadata describes a stored model. Save stamps every field except
// TrainingRows and TestRMSE, which the caller provides.
type Metadata struct {
	// ID uniquely identifies this save, so external tooling can tell
	// whether the model file changed between two looks at the sidecar.
	ID string `json:"id"`

	// SavedAt is when the model was written.
	SavedAt time.Time `json:"saved_at"`

	// Rank, RegParam, MaxIterations and Nonnegative are the winning
	// hyperparameters, copied from the model state.
	Rank          int     `json:"rank"`
	RegParam      float64 `json:"reg_param"`
	MaxIterations int     `json:"max_iterations"`
	Nonnegative   bool    `json:"nonnegative"`

	// Users and Items count the distinct IDs the model can score.
	Users int `json:"users"`
	Items int `json:"items"`

	// TrainingRows is the number of ratings the model was fitted on.
	TrainingRows int `json:"training_rows"`

	// TestRMSE is the held-out evaluation score recorded at save time.
	TestRMSE float64 `json:"test_rmse"`

	// Checksum is the SHA-256 of the uncompressed model state.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model state size.
	SizeBytes int64 `json:"size_bytes"`
}

// storedFile is the on-disk format of the model file.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store manages the model directory.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates the model directory if needed and returns a store
// rooted there.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create model directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// ModelPath returns the path of the model file.
func (s *Store) ModelPath() string {
	return filepath.Join(s.dir, modelFileName)
}

// MetadataPath returns the path of the metadata sidecar.
func (s *Store) MetadataPath() string {
	return filepath.Join(s.dir, metadataFileName)
}

// Save writes the model state and its metadata sidecar, replacing any
// previously saved model.
func (s *Store) Save(ctx context.Context, state *als.ModelState, meta Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return fmt.Errorf("encode model state: %w", err)
	}
	raw := buf.Bytes()

	hash := sha256.Sum256(raw)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return fmt.Errorf("compress model state: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta.ID = uuid.New().String()
	meta.SavedAt = time.Now()
	meta.SizeBytes = int64(compressed.Len())
	meta.Rank = state.Rank
	meta.RegParam = state.Regularization
	meta.MaxIterations = state.MaxIterations
	meta.Nonnegative = state.Nonnegative
	meta.Users = len(state.IndexToUser)
	meta.Items = len(state.IndexToItem)

	f, err := os.Create(s.ModelPath())
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sf := storedFile{
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}

	if err := s.writeMetadataSidecar(meta); err != nil {
		return err
	}
	return nil
}

func (s *Store) writeMetadataSidecar(meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(s.MetadataPath(), append(data, '\n'), 0o640); err != nil {
		return fmt.Errorf("write metadata sidecar: %w", err)
	}
	return nil
}

// Load reads the saved model, verifies its checksum, and reconstructs a
// usable Model. It returns ErrModelNotFound when nothing has been saved.
func (s *Store) Load(ctx context.Context) (*als.Model, Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, Metadata{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.ModelPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Metadata{}, fmt.Errorf("%w at %s", ErrModelNotFound, s.ModelPath())
		}
		return nil, Metadata{}, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, Metadata{}, fmt.Errorf("read model file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("decompress model state: %w", err)
	}
	defer func() { _ = gzr.Close() }()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("read decompressed state: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, Metadata{}, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var state als.ModelState
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&state); err != nil {
		return nil, Metadata{}, fmt.Errorf("decode model state: %w", err)
	}

	model, err := als.FromState(&state)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("restore model: %w", err)
	}
	return model, sf.Metadata, nil
}
