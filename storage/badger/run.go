package badger

import (
	"bytes"
	"context"
	"math"
	"time"

	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage"
	"github.com/dgraph-io/badger/v4"
)

// RunRepository implements storage.RunRepository for BadgerDB.
type RunRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.RunRepository = (*RunRepository)(nil)

// NewRunRepository creates a new RunRepository.
func NewRunRepository(backend *Backend) (*RunRepository, error) {
	idSeq, err := backend.GetSequence(runIDSeq)
	if err != nil {
		return nil, err
	}

	return &RunRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *RunRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *RunRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// StartRun creates a running audit record for the given stage.
func (r *RunRepository) StartRun(ctx context.Context, stage core.RunStage) (*core.PipelineRun, error) {
	if stage != core.StageCluster && stage != core.StageSynthesize {
		return nil, core.ErrInvalidRunStage
	}

	run := &core.PipelineRun{
		Stage:     stage,
		Status:    core.RunRunning,
		StartedAt: time.Now().UTC(),
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
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
		run.Id = core.ID(nextID)

		if err := tx.Set(makeRunKey(run.Id), storage.MarshalRun(run)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return run, err
}

// UpdateRun replaces a stored run record.
func (r *RunRepository) UpdateRun(ctx context.Context, run *core.PipelineRun) (*core.PipelineRun, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunKey(run.Id)

		old, err := readRun(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if err := tx.Set(key, storage.MarshalRun(run)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return run, err
}

// GetRun retrieves a single run by ID.
func (r *RunRepository) GetRun(ctx context.Context, id core.ID) (*core.PipelineRun, error) {
	var result *core.PipelineRun
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRun(tx, makeRunKey(id))
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

// ListRuns retrieves up to limit runs, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*core.PipelineRun, error) {
	var results []*core.PipelineRun
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(runPrefix + ":")
		startKey := makeRunKey(core.ID(math.MaxUint64))

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var run *core.PipelineRun
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				run, err = storage.UnmarshalRun(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, run)
		}
		return nil
	}, false)
	return results, err
}

// readRun reads a run from the transaction. Returns nil without error when
// the key does not exist.
func readRun(tx *badger.Txn, key []byte) (*core.PipelineRun, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var run *core.PipelineRun
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		run, unmarshalErr = storage.UnmarshalRun(val)
		return unmarshalErr
	})
	return run, err
}
