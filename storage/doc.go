// Copyright 2026 Arbor Labs
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


// Package storage provides the storage abstraction layer for arbor.
//
// This package defines repository interfaces that decouple storage
// implementation from pipeline logic, so different storage backends
// (BadgerDB, in-memory, etc.) can be used interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - DocumentRepository: Documents and their chunks
//   - EmbeddingRepository: Stored vectors and the nearest-neighbor primitive
//   - HubRepository: Suggested hubs and their curation state
//   - JourneyRepository: Suggested journeys and their curation state
//   - RunRepository: Pipeline run audit records
//
// Pipeline stages depend on these interfaces only; the badger subpackage is
// the production implementation.
//
// # Usage
//
// Create the full repository set over one database:
//
//	repos, err := badger.NewRepositories("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repos.Close()
//
// Use in tests with in-memory storage:
//
//	repos, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repos.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
