package badger

import (
	"context"
	"time"

	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage"
	"github.com/dgraph-io/badger/v4"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend  *Backend
	idSeq    *badger.Sequence
	chunkSeq *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	chunkSeq, err := backend.GetSequence(chunkIDSeq)
	if err != nil {
		idSeq.Release()
		return nil, err
	}

	return &DocumentRepository{
		backend:  backend,
		idSeq:    idSeq,
		chunkSeq: chunkSeq,
	}, nil
}

// Close releases the ID sequences.
func (r *DocumentRepository) Close() error {
	if err := r.idSeq.Release(); err != nil {
		r.chunkSeq.Release()
		return err
	}
	return r.chunkSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocument adds a document to storage, enforcing content-hash uniqueness.
func (r *DocumentRepository) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// The content hash is the dedup key, reject duplicates here so
		// racing ingests resolve to a single stored document.
		hashKey := makeDocumentHashKey(doc.ContentHash)
		if _, err := tx.Get(hashKey); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		doc.Id = core.ID(nextID)

		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = time.Now().UTC()
		}
		doc.UpdatedAt = doc.CreatedAt

		key := makeDocumentKey(doc.Id)
		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}

		if err := tx.Set(hashKey, storage.MarshalID(doc.Id)); err != nil {
			return err
		}

		dateKey := makeDocumentDateKey(doc.CreatedAt, doc.Id)
		if err := tx.Set(dateKey, storage.MarshalID(doc.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return doc, err
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetDocuments retrieves multiple documents by their IDs.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, err
}

// FindDocumentByHash finds a document by its content hash.
func (r *DocumentRepository) FindDocumentByHash(ctx context.Context, hash string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentHashKey(hash))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// UpdateDocument updates an existing document's mutable fields. Content,
// content hash and creation time stay as stored.
func (r *DocumentRepository) UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.Id)

		old, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		doc.Content = old.Content
		doc.ContentHash = old.ContentHash
		doc.CreatedAt = old.CreatedAt
		doc.UpdatedAt = time.Now().UTC()

		if err := core.ValidateDocument(doc); err != nil {
			return err
		}

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return doc, err
}

// DeleteDocument removes a document, its indexes, its chunks and all of its
// embeddings.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)

		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeDocumentHashKey(doc.ContentHash)); err != nil {
			return err
		}
		if err := tx.Delete(makeDocumentDateKey(doc.CreatedAt, doc.Id)); err != nil {
			return err
		}

		if err := deleteByPrefix(tx, makeDocChunksPrefix(id)); err != nil {
			return err
		}
		if err := deleteByPrefix(tx, makeChunkEmbeddingsPrefix(id)); err != nil {
			return err
		}
		if err := tx.Delete(makeDocEmbeddingKey(id)); err != nil {
			return err
		}

		if err := tx.Delete(key); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// ListDocuments retrieves documents matching the filter, ordered by creation
// time ascending, ties by ID.
func (r *DocumentRepository) ListDocuments(ctx context.Context, filter storage.DocumentFilter) ([]*core.Document, error) {
	var results []*core.Document
	skipped := 0

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if filter.Limit > 0 && len(results) >= filter.Limit {
				break
			}

			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			doc, err := readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc == nil || !matchesFilter(doc, filter) {
				continue
			}

			if skipped < filter.Offset {
				skipped++
				continue
			}
			results = append(results, doc)
		}
		return nil
	}, false)

	return results, err
}

// GetPendingDocuments retrieves up to limit non-archived pending documents,
// oldest first.
func (r *DocumentRepository) GetPendingDocuments(ctx context.Context, limit int) ([]*core.Document, error) {
	archived := false
	return r.ListDocuments(ctx, storage.DocumentFilter{
		Statuses: []core.EmbeddingStatus{core.EmbeddingPending},
		Archived: &archived,
		Limit:    limit,
	})
}

// AddChunks adds chunks to storage.
func (r *DocumentRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}

			nextID, err := r.chunkSeq.Next()
			if err != nil {
				return err
			}
			if nextID == 0 {
				nextID, err = r.chunkSeq.Next()
				if err != nil {
					return err
				}
			}
			chunk.Id = core.ID(nextID)

			key := makeChunkKey(chunk.DocumentId, chunk.Index)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// GetDocumentChunks retrieves all chunks of a document ordered by index.
func (r *DocumentRepository) GetDocumentChunks(ctx context.Context, documentId core.ID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocChunksPrefix(documentId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, chunk)
		}
		return nil
	}, false)
	return results, err
}

// Stats summarizes the document corpus.
func (r *DocumentRepository) Stats(ctx context.Context) (*core.PipelineStats, error) {
	stats := &core.PipelineStats{
		ByTier:   make(map[string]int),
		ByStatus: make(map[string]int),
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			}); err != nil {
				return err
			}

			stats.TotalDocuments++
			stats.ByTier[doc.Tier.String()]++
			stats.ByStatus[doc.EmbeddingStatus.String()]++
			if doc.EmbeddingStatus == core.EmbeddingPending && !doc.Archived {
				stats.PendingEmbedding++
			}
		}
		return nil
	}, false)

	return stats, err
}

// Helper functions

// readDocument reads a document from the transaction. Returns nil without
// error when the key does not exist.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}

// deleteByPrefix removes every key under the prefix within the transaction.
func deleteByPrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// matchesFilter reports whether a document passes the list filter.
func matchesFilter(doc *core.Document, filter storage.DocumentFilter) bool {
	if len(filter.Tiers) > 0 {
		found := false
		for _, t := range filter.Tiers {
			if doc.Tier == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, s := range filter.Statuses {
			if doc.EmbeddingStatus == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Archived != nil && doc.Archived != *filter.Archived {
		return false
	}
	return true
}
