package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/sellarium/catagraph/core"
	"github.com/sellarium/catagraph/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	return &CatalogRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CatalogRepository has no resources to release.
func (r *CatalogRepository) Close() error {
	return nil
}

// AddProducts stores product documents for a merchant, keyed by product id.
func (r *CatalogRepository) AddProducts(ctx context.Context, merchant string, products ...*core.Product) error {
	if merchant == "" {
		return core.ErrEmptyMerchant
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, product := range products {
			if product.ID == "" {
				return core.ErrEmptyProductID
			}
			key := makeProductKey(merchant, product.ID)
			if err := tx.Set(key, storage.MarshalProduct(product)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetProduct retrieves a single product by id.
func (r *CatalogRepository) GetProduct(ctx context.Context, merchant, id string) (*core.Product, error) {
	var result *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeProductKey(merchant, id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalProduct(val)
			return err
		})
	}, false)
	return result, err
}

// GetProducts retrieves up to limit products for a merchant, ordered by id.
func (r *CatalogRepository) GetProducts(ctx context.Context, merchant string, limit int) ([]*core.Product, error) {
	var results []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeProductScanPrefix(merchant)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			var product *core.Product
			err := iter.Item().Value(func(val []byte) error {
				var err error
				product, err = storage.UnmarshalProduct(val)
				return err
			})
			if err != nil {
				return err
			}
			if product != nil {
				results = append(results, product)
			}
		}
		return nil
	}, false)
	return results, err
}
