package storage

import (
	"context"

	"github.com/sellarium/catagraph/core"
)

// GraphOp is one operation in a graph batch: exactly one of Entity or Link
// is set. Entity ops merge into the stored document (per core merge rules)
// unless Overwrite is set; Link ops always replace the stored document.
type GraphOp struct {
	Entity *core.Entity
	Link   *core.Link

	// Overwrite disables merge semantics for an entity op. Set by callers
	// retrying after ErrMergeConflict.
	Overwrite bool
}

// GraphBatch is an atomically committed set of graph operations for one
// merchant. All ops commit or none do.
type GraphBatch struct {
	Merchant string
	Ops      []GraphOp
}

// CatalogRepository provides read access to per-merchant product documents,
// plus a load path for seeding. The indexing pipeline only reads.
// Implementations must be thread-safe.
type CatalogRepository interface {
	// AddProducts stores product documents for a merchant, keyed by product id.
	// Existing documents with the same id are replaced.
	AddProducts(ctx context.Context, merchant string, products ...*core.Product) error

	// GetProduct retrieves a single product by id.
	// Returns ErrNotFound if the product doesn't exist.
	GetProduct(ctx context.Context, merchant, id string) (*core.Product, error)

	// GetProducts retrieves up to limit products for a merchant, ordered by id.
	// A limit <= 0 means no limit.
	GetProducts(ctx context.Context, merchant string, limit int) ([]*core.Product, error)

	// Close releases resources held by the repository.
	Close() error
}

// GraphRepository persists the entity graph: entity documents keyed by
// merchant + slug and link documents keyed by merchant + product id.
// Implementations must be thread-safe; concurrent batches touching the same
// slug must converge via the core merge rules.
type GraphRepository interface {
	// GetEntity retrieves an entity document.
	// Returns ErrNotFound if no entity exists for the slug.
	GetEntity(ctx context.Context, merchant, slug string) (*core.Entity, error)

	// GetEntities retrieves all entity documents for a merchant, ordered by slug.
	GetEntities(ctx context.Context, merchant string) ([]*core.Entity, error)

	// GetLink retrieves the link document for a product.
	// Returns ErrNotFound if the product has never been indexed.
	GetLink(ctx context.Context, merchant, productID string) (*core.Link, error)

	// ApplyBatch commits a batch atomically. Entity ops merge with stored
	// documents (or overwrite when flagged); link ops replace. Returns the
	// number of ops that changed stored bytes — unchanged documents are
	// skipped, which is what makes re-indexing observable as a no-op.
	// Returns ErrMergeConflict (wrapped) when a stored entity cannot be
	// merged; the batch is not committed in that case.
	ApplyBatch(ctx context.Context, batch *GraphBatch) (written int, err error)

	// Close releases resources held by the repository.
	Close() error
}
