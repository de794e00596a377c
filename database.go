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


package arbor

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/arborlabs/arbor/ai"
	"github.com/arborlabs/arbor/ai/openai"
	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/discovery"
	"github.com/arborlabs/arbor/ingestion"
	"github.com/arborlabs/arbor/search"
	"github.com/arborlabs/arbor/storage"
	"github.com/arborlabs/arbor/storage/badger"
)

// Database bundles the storage repositories and the AI provider behind one
// handle, with factories for the pipeline stages built on them.
type Database struct {
	repos    *badger.Repositories
	provider ai.AIProvider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider supplies a pre-built AI provider, bypassing the default
// OpenAI-compatible one. Useful for testing.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens the storage at filePath and wires up the AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	repos, err := badger.NewRepositories(filePath, false)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repos.Close()
			return nil, err
		}
	}

	return &Database{
		repos:    repos,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.repos.Close(); err != nil {
		db.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.repos.Documents
}

func (db *Database) EmbeddingRepository() storage.EmbeddingRepository {
	return db.repos.Embedding
}

func (db *Database) HubRepository() storage.HubRepository {
	return db.repos.Hubs
}

func (db *Database) JourneyRepository() storage.JourneyRepository {
	return db.repos.Journeys
}

func (db *Database) RunRepository() storage.RunRepository {
	return db.repos.Runs
}

func (db *Database) NewIngestor(opts ...ingestion.IngestorOption) (*ingestion.Ingestor, error) {
	return ingestion.NewIngestor(db.repos.Documents, opts...)
}

func (db *Database) NewEmbedder(opts ...ingestion.Option) (*ingestion.Embedder, error) {
	return ingestion.NewEmbedder(db.repos.Documents, db.repos.Embedding, db.provider.Embedder(), opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.repos.Documents, db.repos.Embedding, db.provider, opts...)
}

func (db *Database) NewClusterer(opts ...discovery.ClustererOption) (*discovery.Clusterer, error) {
	return discovery.NewClusterer(db.repos.Documents, db.repos.Embedding, db.repos.Hubs, db.repos.Runs, opts...)
}

func (db *Database) NewSynthesizer(opts ...discovery.SynthesizerOption) (*discovery.Synthesizer, error) {
	return discovery.NewSynthesizer(db.repos.Embedding, db.repos.Hubs, db.repos.Journeys, db.repos.Runs, opts...)
}

// JourneyNode is one stop on a journey's reading path.
type JourneyNode struct {
	Id      core.ID
	Title   string
	Snippet string
}

// JourneyWithNodes is a journey joined with its node documents in path
// order. Nodes whose documents have been deleted are omitted.
type JourneyWithNodes struct {
	Journey *core.SuggestedJourney
	Nodes   []JourneyNode
}

const nodeSnippetRuneLimit = 200

// GetJourneyWithNodes loads a journey and resolves its node documents.
func (db *Database) GetJourneyWithNodes(ctx context.Context, id core.ID) (*JourneyWithNodes, error) {
	journey, err := db.repos.Journeys.GetJourney(ctx, id)
	if err != nil {
		return nil, err
	}

	docs, err := db.repos.Documents.GetDocuments(ctx, journey.NodeDocIds...)
	if err != nil {
		return nil, fmt.Errorf("loading journey documents: %w", err)
	}
	byId := make(map[core.ID]*core.Document, len(docs))
	for _, doc := range docs {
		byId[doc.Id] = doc
	}

	nodes := make([]JourneyNode, 0, len(journey.NodeDocIds))
	for _, docId := range journey.NodeDocIds {
		doc, ok := byId[docId]
		if !ok {
			db.logger.Warn("journey references missing document",
				"journey", journey.Id,
				"document", docId)
			continue
		}
		content := doc.Content
		if utf8.RuneCountInString(content) > nodeSnippetRuneLimit {
			content = string([]rune(content)[:nodeSnippetRuneLimit]) + "..."
		}
		nodes = append(nodes, JourneyNode{Id: doc.Id, Title: doc.Title, Snippet: content})
	}

	return &JourneyWithNodes{Journey: journey, Nodes: nodes}, nil
}
