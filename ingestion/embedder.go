package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/arborlabs/arbor/ai"
	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage"
	"github.com/panjf2000/ants/v2"
)

// docEmbeddingRuneLimit caps the text used for the document-level embedding.
// Longer documents are represented by their chunk embeddings; the document
// vector only needs enough text to place the document as a whole.
const docEmbeddingRuneLimit = 10000

// Embedder drives documents through the embedding lifecycle:
// pending -> processing -> complete, or processing -> error on failure.
// Batch work is spread over a worker pool.
type Embedder struct {
	documents   storage.DocumentRepository
	embeddings  storage.EmbeddingRepository
	embedder    ai.Embedder
	pool        *ants.Pool
	model       string
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures an Embedder.
type Option func(*Embedder) error

// WithPoolSize sets the worker pool size for batch embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Embedder) error {
		if size < 1 {
			size = 1
		}

		if e.pool != nil {
			e.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithModelName sets the model label recorded on stored embeddings.
func WithModelName(model string) Option {
	return func(e *Embedder) error {
		e.model = model
		return nil
	}
}

// WithRetryPolicy sets the retry behavior for embedding service calls.
// Default is 3 attempts with a 500ms base delay.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(e *Embedder) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		e.maxAttempts = maxAttempts
		e.baseDelay = baseDelay
		return nil
	}
}

// NewEmbedder creates a new embedding worker.
func NewEmbedder(
	documents storage.DocumentRepository,
	embeddings storage.EmbeddingRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Embedder, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embeddings == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Embedder{
		documents:   documents,
		embeddings:  embeddings,
		embedder:    embedder,
		pool:        pool,
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
		logger:      slog.Default().With("component", "embedder"),
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}

	return e, nil
}

// Release releases the worker pool.
// The embedder should not be used after calling Release.
func (e *Embedder) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// EmbedDocument embeds a single document: every chunk in index order, then
// one document-level vector. Partial progress is kept on failure so a retry
// only re-embeds what is missing.
func (e *Embedder) EmbedDocument(ctx context.Context, id core.ID) error {
	doc, err := e.documents.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if doc.EmbeddingStatus == core.EmbeddingComplete {
		e.logger.Debug("document already embedded", "id", id)
		return nil
	}

	doc.EmbeddingStatus = core.EmbeddingProcessing
	doc.EmbeddingError = ""
	if doc, err = e.documents.UpdateDocument(ctx, doc); err != nil {
		return err
	}

	if embedErr := e.embed(ctx, doc); embedErr != nil {
		doc.EmbeddingStatus = core.EmbeddingError
		doc.EmbeddingError = embedErr.Error()
		if _, err := e.documents.UpdateDocument(ctx, doc); err != nil {
			e.logger.Error("failed to record embedding error", "id", id, "err", err)
		}
		return embedErr
	}

	doc.EmbeddingStatus = core.EmbeddingComplete
	doc.EmbeddingError = ""
	_, err = e.documents.UpdateDocument(ctx, doc)
	return err
}

func (e *Embedder) embed(ctx context.Context, doc *core.Document) error {
	chunks, err := e.documents.GetDocumentChunks(ctx, doc.Id)
	if err != nil {
		return err
	}

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}

		var vectors [][]float32
		err = RetryWithBackoff(ctx, func() error {
			var embedErr error
			vectors, embedErr = e.embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, e.maxAttempts, e.baseDelay)
		if err != nil {
			return fmt.Errorf("chunk embedding failed: %w", err)
		}

		if len(vectors) != len(chunks) {
			return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(chunks), len(vectors))
		}

		for i, c := range chunks {
			emb := &core.Embedding{
				DocumentId: doc.Id,
				ChunkId:    c.Id,
				Vector:     vectors[i],
				Model:      e.model,
			}
			if err := e.embeddings.PutEmbedding(ctx, emb); err != nil {
				return fmt.Errorf("storing embedding for chunk %d: %w", c.Index, err)
			}
		}
	}

	text := doc.Content
	if runes := []rune(text); len(runes) > docEmbeddingRuneLimit {
		text = string(runes[:docEmbeddingRuneLimit])
	}

	var vector []float32
	err = RetryWithBackoff(ctx, func() error {
		var embedErr error
		vector, embedErr = e.embedder.EmbedText(ctx, text)
		return embedErr
	}, e.maxAttempts, e.baseDelay)
	if err != nil {
		return fmt.Errorf("document embedding failed: %w", err)
	}

	return e.embeddings.PutEmbedding(ctx, &core.Embedding{
		DocumentId: doc.Id,
		Vector:     vector,
		Model:      e.model,
	})
}

// BatchError records a per-document failure during a batch run.
type BatchError struct {
	Id      core.ID
	Message string
}

// BatchResult reports the outcome of one batch embedding run.
type BatchResult struct {
	Processed int
	Errors    []BatchError
}

// EmbedPending embeds up to limit pending documents concurrently. Per-document
// failures are collected in the result, not returned as an error; documents
// that failed carry their message in EmbeddingError and can be retried.
func (e *Embedder) EmbedPending(ctx context.Context, limit int) (*BatchResult, error) {
	docs, err := e.documents.GetPendingDocuments(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}
	if len(docs) == 0 {
		return result, nil
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, doc := range docs {
		id := doc.Id
		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()

			if err := e.EmbedDocument(ctx, id); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, BatchError{Id: id, Message: err.Error()})
				mu.Unlock()
				return
			}

			mu.Lock()
			result.Processed++
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Errors = append(result.Errors, BatchError{Id: id, Message: submitErr.Error()})
			mu.Unlock()
		}
	}

	wg.Wait()

	e.logger.Info("batch embedding finished",
		"processed", result.Processed, "errors", len(result.Errors))

	return result, nil
}
