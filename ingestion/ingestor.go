package ingestion

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arborlabs/arbor/chunk"
	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage"
)

// Ingestor adds documents to storage with content-hash deduplication.
// Content is normalized and chunked once at ingestion; documents enter the
// embedding lifecycle in the pending state.
type Ingestor struct {
	documents storage.DocumentRepository
	chunkCfg  chunk.Config
	logger    *slog.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithChunkConfig sets the chunking configuration for ingested documents.
// Default is chunk.DefaultConfig().
func WithChunkConfig(cfg chunk.Config) IngestorOption {
	return func(i *Ingestor) {
		i.chunkCfg = cfg
	}
}

// WithIngestorLogger sets a custom logger.
// Default is slog.Default().
func WithIngestorLogger(logger *slog.Logger) IngestorOption {
	return func(i *Ingestor) {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
	}
}

// NewIngestor creates a new document ingestor.
func NewIngestor(documents storage.DocumentRepository, opts ...IngestorOption) (*Ingestor, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}

	i := &Ingestor{
		documents: documents,
		chunkCfg:  chunk.DefaultConfig(),
		logger:    slog.Default().With("component", "ingestor"),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

// IngestRequest holds the inputs for ingesting one document.
type IngestRequest struct {
	Title      string
	Content    string
	Tier       core.Tier // Default: core.TierSapling
	SourceType string    // Default: "upload"
	SourceURL  string
}

// IngestResult reports the outcome of one ingestion.
type IngestResult struct {
	DocumentId    core.ID
	Status        core.EmbeddingStatus
	ChunksCreated int
	Duplicate     bool
}

// Ingest adds a document unless its content is already stored. Deduplication
// is by content hash of the normalized text: re-ingesting identical content
// returns the existing document's ID with status complete and zero chunks
// created, and does not touch its embedding state.
//
// Chunking failures after the document is stored are logged but do not fail
// the ingestion; the document stays pending and can be re-chunked later.
func (i *Ingestor) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	normalized := chunk.Normalize(req.Content)
	hash := core.ContentHash(normalized)

	existing, err := i.documents.FindDocumentByHash(ctx, hash)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		i.logger.Debug("duplicate content, returning existing document",
			"id", existing.Id, "hash", hash)
		// No work left for this call, so the reported status is complete
		// regardless of where the existing document is in its lifecycle.
		return &IngestResult{
			DocumentId: existing.Id,
			Status:     core.EmbeddingComplete,
			Duplicate:  true,
		}, nil
	}

	tier := req.Tier
	if tier == 0 {
		tier = core.TierSapling
	}
	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = "upload"
	}

	doc := &core.Document{
		Title:           req.Title,
		Content:         normalized,
		ContentHash:     hash,
		Tier:            tier,
		SourceType:      sourceType,
		SourceURL:       req.SourceURL,
		EmbeddingStatus: core.EmbeddingPending,
	}

	added, err := i.documents.AddDocument(ctx, doc)
	if err != nil {
		// A racing ingest of the same content wins the unique hash; resolve
		// to its document.
		if errors.Is(err, storage.ErrDuplicateKey) {
			winner, findErr := i.documents.FindDocumentByHash(ctx, hash)
			if findErr != nil {
				return nil, findErr
			}
			return &IngestResult{
				DocumentId: winner.Id,
				Status:     core.EmbeddingComplete,
				Duplicate:  true,
			}, nil
		}
		return nil, err
	}

	chunks := chunk.Split(added.Id, normalized, i.chunkCfg)
	refs := make([]*core.Chunk, len(chunks))
	for idx := range chunks {
		refs[idx] = &chunks[idx]
	}

	stored, err := i.documents.AddChunks(ctx, refs...)
	if err != nil {
		i.logger.Error("failed to store chunks", "document", added.Id, "err", err)
		return &IngestResult{
			DocumentId: added.Id,
			Status:     added.EmbeddingStatus,
		}, nil
	}

	i.logger.Info("ingested document",
		"id", added.Id, "chunks", len(stored), "tier", tier.String())

	return &IngestResult{
		DocumentId:    added.Id,
		Status:        added.EmbeddingStatus,
		ChunksCreated: len(stored),
	}, nil
}
