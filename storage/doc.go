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


// Package storage provides the persistence abstraction layer for filescout.
//
// This package defines repository interfaces that decouple on-disk state
// from the search engine. Two backends implement them:
//
//   - storage/linefile: the index cache, a newline-delimited list of
//     absolute paths rewritten atomically on every rescan
//   - storage/badger: the click-history table and the index builder's
//     scan checkpoint, stored as mus-encoded values in BadgerDB
//
// # Architecture
//
//   - IndexCache: Line-list persistence of the full index
//   - ClickRepository: Path to click-count records
//   - ScanStateRepository: Checkpoint for the rescan schedule
//
// # Usage
//
//	stores, err := badger.OpenStores("/path/to/cache/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stores.Close()
//
//	cache := linefile.NewIndexCache("/path/to/cache/index.cache")
//
// # Failure Model
//
// Persistence failures are never fatal to the engine. Callers log them and
// keep the in-memory state authoritative for the session; RetryWithBackoff
// is provided for writes that are worth a second attempt.
//
// # Context Support
//
// All operations accept a context.Context. Pass context.Background() for
// operations without specific timeout requirements.
package storage
