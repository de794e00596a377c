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

// HubRepository implements storage.HubRepository for BadgerDB.
type HubRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.HubRepository = (*HubRepository)(nil)

// NewHubRepository creates a new HubRepository.
func NewHubRepository(backend *Backend) (*HubRepository, error) {
	idSeq, err := backend.GetSequence(hubIDSeq)
	if err != nil {
		return nil, err
	}

	return &HubRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *HubRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *HubRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddHub adds a hub to storage.
func (r *HubRepository) AddHub(ctx context.Context, hub *core.SuggestedHub) (*core.SuggestedHub, error) {
	if err := core.ValidateHub(hub); err != nil {
		return nil, err
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
		hub.Id = core.ID(nextID)

		if hub.ComputedAt.IsZero() {
			hub.ComputedAt = time.Now().UTC()
		}
		hub.UpdatedAt = hub.ComputedAt

		key := makeHubKey(hub.Id)
		if err := tx.Set(key, storage.MarshalHub(hub)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return hub, err
}

// GetHub retrieves a single hub by ID.
func (r *HubRepository) GetHub(ctx context.Context, id core.ID) (*core.SuggestedHub, error) {
	var result *core.SuggestedHub
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readHub(tx, makeHubKey(id))
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

// ListHubs retrieves hubs newest first, optionally filtered by curation
// status.
func (r *HubRepository) ListHubs(ctx context.Context, statuses ...core.CurationStatus) ([]*core.SuggestedHub, error) {
	var results []*core.SuggestedHub
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(hubPrefix + ":")
		startKey := makeHubKey(core.ID(math.MaxUint64))

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var hub *core.SuggestedHub
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				hub, err = storage.UnmarshalHub(val)
				return err
			}); err != nil {
				return err
			}

			if len(statuses) > 0 && !statusIn(hub.Status, statuses) {
				continue
			}
			results = append(results, hub)
		}
		return nil
	}, false)
	return results, err
}

// UpdateHubStatus sets a hub's curation status, and its title override when
// one is given.
func (r *HubRepository) UpdateHubStatus(ctx context.Context, id core.ID, status core.CurationStatus, titleOverride string) (*core.SuggestedHub, error) {
	if err := core.ValidateCurationStatus(status); err != nil {
		return nil, err
	}

	var result *core.SuggestedHub
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeHubKey(id)
		hub, err := readHub(tx, key)
		if err != nil {
			return err
		}
		if hub == nil {
			return storage.ErrNotFound
		}

		hub.Status = status
		if titleOverride != "" {
			hub.TitleOverride = titleOverride
		}
		hub.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalHub(hub)); err != nil {
			return err
		}
		result = hub
		return tx.Commit()
	}, true)

	return result, err
}

// readHub reads a hub from the transaction. Returns nil without error when
// the key does not exist.
func readHub(tx *badger.Txn, key []byte) (*core.SuggestedHub, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var hub *core.SuggestedHub
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		hub, unmarshalErr = storage.UnmarshalHub(val)
		return unmarshalErr
	})
	return hub, err
}

// statusIn reports whether a status is in the set.
func statusIn(status core.CurationStatus, set []core.CurationStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
