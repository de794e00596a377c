package storage

import (
	"context"

	"github.com/arborlabs/arbor/core"
)

// DocumentFilter narrows ListDocuments results. Zero-valued fields do not
// filter. Archived is a three-state filter: nil means both.
type DocumentFilter struct {
	Tiers    []core.Tier
	Statuses []core.EmbeddingStatus
	Archived *bool
	Limit    int
	Offset   int
}

// Repository provides common storage operations shared across all
// repositories. Implementations must be thread-safe and support concurrent
// access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing documents and their
// chunks.
type DocumentRepository interface {
	Repository
	// AddDocument adds a document to storage.
	// For a document with ID=0, generates a new ID from sequence.
	// Sets CreatedAt/UpdatedAt timestamps if not already set.
	// Returns ErrDuplicateKey if a document with the same content hash
	// already exists.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// FindDocumentByHash finds a document by its content hash.
	// Returns ErrNotFound if no matching document exists.
	FindDocumentByHash(ctx context.Context, hash string) (*core.Document, error)

	// UpdateDocument updates an existing document's mutable fields (title,
	// tier, archival, embedding status and error). Content and hash are
	// immutable. Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// DeleteDocument removes a document along with its chunks and
	// embeddings. Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.ID) error

	// ListDocuments retrieves documents matching the filter, ordered by
	// creation time ascending (ties by ID).
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]*core.Document, error)

	// GetPendingDocuments retrieves up to limit non-archived documents with
	// embedding status pending, ordered by creation time ascending.
	GetPendingDocuments(ctx context.Context, limit int) ([]*core.Document, error)

	// AddChunks adds chunks to storage. For chunks with ID=0, generates new
	// IDs from sequence. Returns the chunks with generated IDs populated.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetDocumentChunks retrieves all chunks of a document, ordered by
	// chunk index.
	GetDocumentChunks(ctx context.Context, documentId core.ID) ([]*core.Chunk, error)

	// Stats summarizes the document corpus.
	Stats(ctx context.Context) (*core.PipelineStats, error)
}

// EmbeddingRepository provides operations for managing stored vectors and
// the nearest-neighbor query primitive.
type EmbeddingRepository interface {
	Repository
	// PutEmbedding stores an embedding, replacing any existing embedding
	// for the same (document, chunk) pair.
	PutEmbedding(ctx context.Context, emb *core.Embedding) error

	// GetDocumentEmbedding retrieves the document-level embedding of a
	// document. Returns ErrNotFound if none is stored.
	GetDocumentEmbedding(ctx context.Context, documentId core.ID) (*core.Embedding, error)

	// GetDocumentEmbeddings retrieves the document-level embeddings of the
	// given documents. Returns only those that exist.
	GetDocumentEmbeddings(ctx context.Context, ids ...core.ID) ([]*core.Embedding, error)

	// ListDocumentEmbeddings retrieves every stored document-level
	// embedding, ordered by document ID ascending.
	ListDocumentEmbeddings(ctx context.Context) ([]*core.Embedding, error)

	// GetChunkEmbeddings retrieves all chunk-level embeddings of a
	// document.
	GetChunkEmbeddings(ctx context.Context, documentId core.ID) ([]*core.Embedding, error)

	// DeleteDocumentEmbeddings removes all embeddings of a document,
	// chunk-level and document-level.
	DeleteDocumentEmbeddings(ctx context.Context, documentId core.ID) error

	// NearestDocuments finds documents whose document-level embeddings are
	// similar to the given vector. Returns matches with similarity >=
	// matchThreshold, up to matchCount results, ordered by similarity
	// (highest first). Archived documents are excluded.
	NearestDocuments(ctx context.Context, vector []float32, matchCount int, matchThreshold float32) ([]*core.DocumentMatch, error)
}

// HubRepository provides operations for managing suggested hubs.
type HubRepository interface {
	Repository
	// AddHub adds a hub to storage. For a hub with ID=0, generates a new ID
	// from sequence. Sets ComputedAt/UpdatedAt timestamps if not set.
	AddHub(ctx context.Context, hub *core.SuggestedHub) (*core.SuggestedHub, error)

	// GetHub retrieves a single hub by ID.
	// Returns ErrNotFound if the hub doesn't exist.
	GetHub(ctx context.Context, id core.ID) (*core.SuggestedHub, error)

	// ListHubs retrieves hubs, newest first. With statuses given, only hubs
	// in one of those curation states are returned.
	ListHubs(ctx context.Context, statuses ...core.CurationStatus) ([]*core.SuggestedHub, error)

	// UpdateHubStatus sets a hub's curation status and, when titleOverride
	// is non-empty, its title override. Returns ErrNotFound if the hub
	// doesn't exist.
	UpdateHubStatus(ctx context.Context, id core.ID, status core.CurationStatus, titleOverride string) (*core.SuggestedHub, error)
}

// JourneyRepository provides operations for managing suggested journeys.
type JourneyRepository interface {
	Repository
	// AddJourney adds a journey to storage. For a journey with ID=0,
	// generates a new ID from sequence. Sets timestamps if not set.
	AddJourney(ctx context.Context, journey *core.SuggestedJourney) (*core.SuggestedJourney, error)

	// GetJourney retrieves a single journey by ID.
	// Returns ErrNotFound if the journey doesn't exist.
	GetJourney(ctx context.Context, id core.ID) (*core.SuggestedJourney, error)

	// ListJourneys retrieves journeys, newest first. With statuses given,
	// only journeys in one of those curation states are returned.
	ListJourneys(ctx context.Context, statuses ...core.CurationStatus) ([]*core.SuggestedJourney, error)

	// ListHubJourneys retrieves the journeys synthesized from a hub.
	ListHubJourneys(ctx context.Context, hubId core.ID) ([]*core.SuggestedJourney, error)

	// UpdateJourneyStatus sets a journey's curation status and, when
	// titleOverride is non-empty, its title override. Returns ErrNotFound
	// if the journey doesn't exist.
	UpdateJourneyStatus(ctx context.Context, id core.ID, status core.CurationStatus, titleOverride string) (*core.SuggestedJourney, error)
}

// RunRepository provides operations for pipeline run audit records.
type RunRepository interface {
	Repository
	// StartRun creates a run record for the given stage with status
	// running and StartedAt set to now.
	StartRun(ctx context.Context, stage core.RunStage) (*core.PipelineRun, error)

	// UpdateRun replaces a run record, typically to mark completion.
	// Returns ErrNotFound if the run doesn't exist.
	UpdateRun(ctx context.Context, run *core.PipelineRun) (*core.PipelineRun, error)

	// GetRun retrieves a single run by ID.
	// Returns ErrNotFound if the run doesn't exist.
	GetRun(ctx context.Context, id core.ID) (*core.PipelineRun, error)

	// ListRuns retrieves up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*core.PipelineRun, error)
}
