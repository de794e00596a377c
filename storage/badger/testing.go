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


package badger

// Repositories bundles one backend's repository set.
type Repositories struct {
	Backend   *Backend
	Documents *DocumentRepository
	Embedding *EmbeddingRepository
	Hubs      *HubRepository
	Journeys  *JourneyRepository
	Runs      *RunRepository
}

// Close releases every repository and then the backend.
func (r *Repositories) Close() error {
	r.Documents.Close()
	r.Embedding.Close()
	r.Hubs.Close()
	r.Journeys.Close()
	r.Runs.Close()
	return r.Backend.Close()
}

// NewRepositories opens a backend at path and creates the full repository
// set over it. With inMemory true the path is ignored; this is the testing
// configuration.
func NewRepositories(path string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	docs, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embs, err := NewEmbeddingRepository(backend)
	if err != nil {
		docs.Close()
		backend.Close()
		return nil, err
	}

	hubs, err := NewHubRepository(backend)
	if err != nil {
		embs.Close()
		docs.Close()
		backend.Close()
		return nil, err
	}

	journeys, err := NewJourneyRepository(backend)
	if err != nil {
		hubs.Close()
		embs.Close()
		docs.Close()
		backend.Close()
		return nil, err
	}

	runs, err := NewRunRepository(backend)
	if err != nil {
		journeys.Close()
		hubs.Close()
		embs.Close()
		docs.Close()
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Backend:   backend,
		Documents: docs,
		Embedding: embs,
		Hubs:      hubs,
		Journeys:  journeys,
		Runs:      runs,
	}, nil
}

// NewMemoryRepositories creates an in-memory repository set for testing.
// Caller must Close the result when done.
func NewMemoryRepositories() (*Repositories, error) {
	return NewRepositories("", true)
}
