// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/storage"
)

// ScanStateRepository implements storage.ScanStateRepository for BadgerDB.
type ScanStateRepository struct {
	backend *Backend
}

var _ storage.ScanStateRepository = (*ScanStateRepository)(nil)

// NewScanStateRepository creates a new ScanStateRepository.
func NewScanStateRepository(backend *Backend) *ScanStateRepository {
	return &ScanStateRepository{
		backend: backend,
	}
}

// SaveScanState persists the builder checkpoint, stamping UpdatedAt.
func (r *ScanStateRepository) SaveScanState(ctx context.Context, state *core.ScanState) error {
	state.UpdatedAt = time.Now().UTC()
	return r.backend.Put([]byte(scanStateKey), storage.MarshalScanState(state))
}

// LoadScanState retrieves the builder checkpoint.
// Returns nil, nil if no checkpoint exists.
func (r *ScanStateRepository) LoadScanState(ctx context.Context) (*core.ScanState, error) {
	var state *core.ScanState
	err := r.backend.Get([]byte(scanStateKey), func(val []byte) (err error) {
		state, err = storage.UnmarshalScanState(val)
		return err
	})
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return state, nil
}
