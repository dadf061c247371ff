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

import "github.com/poiesic/filescout/storage"

// Stores bundles the repositories that share one Badger database.
type Stores struct {
	Backend   *Backend
	Clicks    storage.ClickRepository
	ScanState storage.ScanStateRepository
}

// OpenStores opens the database at dir and builds its repositories.
// Caller must Close the returned Stores.
func OpenStores(dir string) (*Stores, error) {
	backend, err := OpenBackend(dir, false)
	if err != nil {
		return nil, err
	}
	return newStores(backend), nil
}

// NewMemoryStores creates in-memory repositories for testing.
// Caller must Close the returned Stores.
func NewMemoryStores() (*Stores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newStores(backend), nil
}

func newStores(backend *Backend) *Stores {
	return &Stores{
		Backend:   backend,
		Clicks:    NewClickRepository(backend),
		ScanState: NewScanStateRepository(backend),
	}
}

// Close closes the underlying database.
func (s *Stores) Close() error {
	return s.Backend.Close()
}
