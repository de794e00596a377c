package badger

import (
	"context"
	"time"

	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage"
	"github.com/dgraph-io/badger/v4"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	return &EmbeddingRepository{backend: backend}, nil
}

// Close releases repository resources. The backend itself is closed by its
// owner.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EmbeddingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutEmbedding stores an embedding, replacing any previous one for the same
// (document, chunk) pair. Vectors are normalized to unit length so the
// nearest-neighbor scan can use dot products.
func (r *EmbeddingRepository) PutEmbedding(ctx context.Context, emb *core.Embedding) error {
	if err := core.ValidateEmbedding(emb); err != nil {
		return err
	}

	emb.Vector = core.NormalizeVector(emb.Vector)
	if emb.CreatedAt.IsZero() {
		emb.CreatedAt = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		var key []byte
		if emb.DocumentLevel() {
			key = makeDocEmbeddingKey(emb.DocumentId)
		} else {
			key = makeChunkEmbeddingKey(emb.DocumentId, emb.ChunkId)
		}
		if err := tx.Set(key, storage.MarshalEmbedding(emb)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocumentEmbedding retrieves the document-level embedding of a document.
func (r *EmbeddingRepository) GetDocumentEmbedding(ctx context.Context, documentId core.ID) (*core.Embedding, error) {
	var result *core.Embedding
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEmbedding(tx, makeDocEmbeddingKey(documentId))
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

// GetDocumentEmbeddings retrieves the document-level embeddings of the given
// documents, skipping those without one.
func (r *EmbeddingRepository) GetDocumentEmbeddings(ctx context.Context, ids ...core.ID) ([]*core.Embedding, error) {
	var results []*core.Embedding
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			emb, err := readEmbedding(tx, makeDocEmbeddingKey(id))
			if err != nil {
				return err
			}
			if emb != nil {
				results = append(results, emb)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListDocumentEmbeddings retrieves every document-level embedding, ordered
// by document ID ascending.
func (r *EmbeddingRepository) ListDocumentEmbeddings(ctx context.Context) ([]*core.Embedding, error) {
	var results []*core.Embedding
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(docEmbeddingPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var emb *core.Embedding
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				emb, err = storage.UnmarshalEmbedding(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, emb)
		}
		return nil
	}, false)
	return results, err
}

// GetChunkEmbeddings retrieves all chunk-level embeddings of a document.
func (r *EmbeddingRepository) GetChunkEmbeddings(ctx context.Context, documentId core.ID) ([]*core.Embedding, error) {
	var results []*core.Embedding
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkEmbeddingsPrefix(documentId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var emb *core.Embedding
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				emb, err = storage.UnmarshalEmbedding(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, emb)
		}
		return nil
	}, false)
	return results, err
}

// DeleteDocumentEmbeddings removes all embeddings of a document.
func (r *EmbeddingRepository) DeleteDocumentEmbeddings(ctx context.Context, documentId core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteByPrefix(tx, makeChunkEmbeddingsPrefix(documentId)); err != nil {
			return err
		}
		if err := tx.Delete(makeDocEmbeddingKey(documentId)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// NearestDocuments delegates to the backend.
func (r *EmbeddingRepository) NearestDocuments(ctx context.Context, vector []float32, matchCount int, matchThreshold float32) ([]*core.DocumentMatch, error) {
	return r.backend.NearestDocuments(ctx, vector, matchCount, matchThreshold)
}

// readEmbedding reads an embedding from the transaction. Returns nil without
// error when the key does not exist.
func readEmbedding(tx *badger.Txn, key []byte) (*core.Embedding, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var emb *core.Embedding
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		emb, unmarshalErr = storage.UnmarshalEmbedding(val)
		return unmarshalErr
	})
	return emb, err
}
