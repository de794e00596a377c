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

// JourneyRepository implements storage.JourneyRepository for BadgerDB.
type JourneyRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.JourneyRepository = (*JourneyRepository)(nil)

// NewJourneyRepository creates a new JourneyRepository.
func NewJourneyRepository(backend *Backend) (*JourneyRepository, error) {
	idSeq, err := backend.GetSequence(journeyIDSeq)
	if err != nil {
		return nil, err
	}

	return &JourneyRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *JourneyRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *JourneyRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddJourney adds a journey to storage and indexes it under its hub.
func (r *JourneyRepository) AddJourney(ctx context.Context, journey *core.SuggestedJourney) (*core.SuggestedJourney, error) {
	if err := core.ValidateJourney(journey); err != nil {
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
		journey.Id = core.ID(nextID)

		if journey.ComputedAt.IsZero() {
			journey.ComputedAt = time.Now().UTC()
		}
		journey.UpdatedAt = journey.ComputedAt

		key := makeJourneyKey(journey.Id)
		if err := tx.Set(key, storage.MarshalJourney(journey)); err != nil {
			return err
		}

		hubKey := makeHubJourneyKey(journey.HubId, journey.Id)
		if err := tx.Set(hubKey, storage.MarshalID(journey.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return journey, err
}

// GetJourney retrieves a single journey by ID.
func (r *JourneyRepository) GetJourney(ctx context.Context, id core.ID) (*core.SuggestedJourney, error) {
	var result *core.SuggestedJourney
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readJourney(tx, makeJourneyKey(id))
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

// ListJourneys retrieves journeys newest first, optionally filtered by
// curation status.
func (r *JourneyRepository) ListJourneys(ctx context.Context, statuses ...core.CurationStatus) ([]*core.SuggestedJourney, error) {
	var results []*core.SuggestedJourney
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(journeyPrefix + ":")
		startKey := makeJourneyKey(core.ID(math.MaxUint64))

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var journey *core.SuggestedJourney
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				journey, err = storage.UnmarshalJourney(val)
				return err
			}); err != nil {
				return err
			}

			if len(statuses) > 0 && !statusIn(journey.Status, statuses) {
				continue
			}
			results = append(results, journey)
		}
		return nil
	}, false)
	return results, err
}

// ListHubJourneys retrieves the journeys synthesized from a hub, oldest
// first.
func (r *JourneyRepository) ListHubJourneys(ctx context.Context, hubId core.ID) ([]*core.SuggestedJourney, error) {
	var results []*core.SuggestedJourney
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeHubJourneysPrefix(hubId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			journey, err := readJourney(tx, makeJourneyKey(id))
			if err != nil {
				return err
			}
			if journey != nil {
				results = append(results, journey)
			}
		}
		return nil
	}, false)
	return results, err
}

// UpdateJourneyStatus sets a journey's curation status, and its title
// override when one is given.
func (r *JourneyRepository) UpdateJourneyStatus(ctx context.Context, id core.ID, status core.CurationStatus, titleOverride string) (*core.SuggestedJourney, error) {
	if err := core.ValidateCurationStatus(status); err != nil {
		return nil, err
	}

	var result *core.SuggestedJourney
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJourneyKey(id)
		journey, err := readJourney(tx, key)
		if err != nil {
			return err
		}
		if journey == nil {
			return storage.ErrNotFound
		}

		journey.Status = status
		if titleOverride != "" {
			journey.TitleOverride = titleOverride
		}
		journey.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalJourney(journey)); err != nil {
			return err
		}
		result = journey
		return tx.Commit()
	}, true)

	return result, err
}

// readJourney reads a journey from the transaction. Returns nil without
// error when the key does not exist.
func readJourney(tx *badger.Txn, key []byte) (*core.SuggestedJourney, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var journey *core.SuggestedJourney
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		journey, unmarshalErr = storage.UnmarshalJourney(val)
		return unmarshalErr
	})
	return journey, err
}
