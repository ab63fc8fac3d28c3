package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sellarium/catagraph/core"
	"github.com/sellarium/catagraph/storage"
)

// GraphRepository implements storage.GraphRepository for BadgerDB.
type GraphRepository struct {
	backend *Backend
}

var _ storage.GraphRepository = (*GraphRepository)(nil)

// NewGraphRepository creates a new GraphRepository.
func NewGraphRepository(backend *Backend) (*GraphRepository, error) {
	return &GraphRepository{
		backend: backend,
	}, nil
}

// Close releases resources. GraphRepository has no resources to release.
func (r *GraphRepository) Close() error {
	return nil
}

// GetEntity retrieves an entity document by merchant and slug.
func (r *GraphRepository) GetEntity(ctx context.Context, merchant, slug string) (*core.Entity, error) {
	var result *core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEntity(tx, makeEntityKey(merchant, slug))
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

// GetEntities retrieves all entity documents for a merchant, ordered by slug.
func (r *GraphRepository) GetEntities(ctx context.Context, merchant string) ([]*core.Entity, error) {
	var results []*core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEntityScanPrefix(merchant)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entity *core.Entity
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entity, err = storage.UnmarshalEntity(val)
				return err
			})
			if err != nil {
				return err
			}
			if entity != nil {
				results = append(results, entity)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetLink retrieves the link document for a product.
func (r *GraphRepository) GetLink(ctx context.Context, merchant, productID string) (*core.Link, error) {
	var result *core.Link
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeLinkKey(merchant, productID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalLink(val)
			return err
		})
	}, false)
	return result, err
}

// ApplyBatch commits a graph batch atomically. Entity ops merge with the
// stored document unless flagged Overwrite; link ops replace wholesale.
// Documents whose serialized bytes are unchanged are skipped, so the
// returned count reflects actual mutations.
func (r *GraphRepository) ApplyBatch(ctx context.Context, batch *storage.GraphBatch) (int, error) {
	if batch == nil || len(batch.Ops) == 0 {
		return 0, storage.ErrEmptyBatch
	}
	if batch.Merchant == "" {
		return 0, core.ErrEmptyMerchant
	}

	written := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, op := range batch.Ops {
			var wrote bool
			var err error
			switch {
			case op.Entity != nil:
				wrote, err = applyEntityOp(tx, batch.Merchant, op, now)
			case op.Link != nil:
				wrote, err = applyLinkOp(tx, batch.Merchant, op.Link, now)
			default:
				err = fmt.Errorf("%w: op has neither entity nor link", storage.ErrTransactionFailed)
			}
			if err != nil {
				return err
			}
			if wrote {
				written++
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return written, nil
}

// applyEntityOp upserts one entity document within a transaction.
func applyEntityOp(tx *badger.Txn, merchant string, op storage.GraphOp, now time.Time) (bool, error) {
	entity := op.Entity
	entity.Merchant = merchant
	if err := core.ValidateEntity(entity); err != nil {
		return false, err
	}

	key := makeEntityKey(merchant, entity.Slug)
	item, err := tx.Get(key)
	if err != nil && err != badger.ErrKeyNotFound {
		return false, err
	}

	doc := entity
	if err == nil && !op.Overwrite {
		var storedBytes []byte
		if valErr := item.Value(func(val []byte) error {
			storedBytes = append(storedBytes, val...)
			return nil
		}); valErr != nil {
			return false, valErr
		}

		stored, decErr := storage.UnmarshalEntity(storedBytes)
		if decErr != nil {
			// Stored shape is incompatible with a merge. Callers decide
			// whether to retry this op as a plain overwrite.
			return false, &storage.MergeConflictError{
				Merchant: merchant,
				Slug:     entity.Slug,
				Err:      decErr,
			}
		}

		doc = core.MergeEntity(stored, entity)
		doc.InsertedAt = stored.InsertedAt
		doc.UpdatedAt = now

		// Skip the write when the merge changed nothing. UpdatedAt is
		// pinned to the stored value for the comparison so a timestamp
		// alone never counts as a change.
		probe := *doc
		probe.UpdatedAt = stored.UpdatedAt
		if core.ContentHash(storage.MarshalEntity(&probe)) == core.ContentHash(storedBytes) {
			return false, nil
		}
	} else {
		doc.InsertedAt = now
		doc.UpdatedAt = now
	}

	if err := tx.Set(key, storage.MarshalEntity(doc)); err != nil {
		return false, err
	}
	return true, nil
}

// applyLinkOp replaces one link document within a transaction.
func applyLinkOp(tx *badger.Txn, merchant string, link *core.Link, now time.Time) (bool, error) {
	link.Merchant = merchant
	if err := core.ValidateLink(link); err != nil {
		return false, err
	}

	key := makeLinkKey(merchant, link.ProductID)
	item, err := tx.Get(key)
	if err != nil && err != badger.ErrKeyNotFound {
		return false, err
	}

	doc := *link
	doc.UpdatedAt = now

	if err == nil {
		var storedBytes []byte
		if valErr := item.Value(func(val []byte) error {
			storedBytes = append(storedBytes, val...)
			return nil
		}); valErr != nil {
			return false, valErr
		}
		// Compare with the stored timestamp so idempotent re-indexes are
		// detected as no-ops.
		if stored, decErr := storage.UnmarshalLink(storedBytes); decErr == nil {
			probe := doc
			probe.UpdatedAt = stored.UpdatedAt
			if core.ContentHash(storage.MarshalLink(&probe)) == core.ContentHash(storedBytes) {
				return false, nil
			}
		}
	}

	if err := tx.Set(key, storage.MarshalLink(&doc)); err != nil {
		return false, err
	}
	return true, nil
}

// readEntity reads an entity from the transaction. Returns nil, nil when
// the key does not exist.
func readEntity(tx *badger.Txn, key []byte) (*core.Entity, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entity *core.Entity
	err = item.Value(func(val []byte) error {
		var err error
		entity, err = storage.UnmarshalEntity(val)
		return err
	})
	return entity, err
}
