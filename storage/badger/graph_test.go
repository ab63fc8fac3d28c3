package badger

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellarium/catagraph/core"
	"github.com/sellarium/catagraph/storage"
)

func entityOp(slug, productID string) storage.GraphOp {
	return storage.GraphOp{Entity: &core.Entity{
		Merchant:   "m1",
		Slug:       slug,
		Name:       slug,
		Type:       "ingredient",
		Status:     core.EntityStatusLLM,
		Confidence: 0.9,
		Examples:   []string{productID},
	}}
}

func linkOp(productID string, slugs ...string) storage.GraphOp {
	return storage.GraphOp{Link: &core.Link{
		Merchant:  "m1",
		ProductID: productID,
		Slugs:     slugs,
	}}
}

func TestApplyBatch_CreatesEntitiesAndLink(t *testing.T) {
	_, graphRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	batch := &storage.GraphBatch{
		Merchant: "m1",
		Ops: []storage.GraphOp{
			entityOp("niacinamide", "p1"),
			entityOp("zinc-pca", "p1"),
			linkOp("p1", "niacinamide", "zinc-pca"),
		},
	}

	written, err := graphRepo.ApplyBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	entity, err := graphRepo.GetEntity(ctx, "m1", "niacinamide")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, entity.Examples)
	assert.False(t, entity.InsertedAt.IsZero())

	link, err := graphRepo.GetLink(ctx, "m1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"niacinamide", "zinc-pca"}, link.Slugs)
}

func TestApplyBatch_IdempotentReindex(t *testing.T) {
	_, graphRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	makeBatch := func() *storage.GraphBatch {
		return &storage.GraphBatch{
			Merchant: "m1",
			Ops: []storage.GraphOp{
				entityOp("niacinamide", "p1"),
				linkOp("p1", "niacinamide"),
			},
		}
	}

	written, err := graphRepo.ApplyBatch(ctx, makeBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	// Same input again: nothing changes, so nothing is written.
	written, err = graphRepo.ApplyBatch(ctx, makeBatch())
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}

func TestApplyBatch_MergesExamples(t *testing.T) {
	_, graphRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m1",
		Ops:      []storage.GraphOp{entityOp("niacinamide", "p1")},
	})
	require.NoError(t, err)

	written, err := graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m1",
		Ops:      []storage.GraphOp{entityOp("niacinamide", "p2")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	entity, err := graphRepo.GetEntity(ctx, "m1", "niacinamide")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, entity.Examples)
}

func TestApplyBatch_OverwriteReplacesDocument(t *testing.T) {
	_, graphRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m1",
		Ops:      []storage.GraphOp{entityOp("niacinamide", "p1")},
	})
	require.NoError(t, err)

	op := entityOp("niacinamide", "p2")
	op.Overwrite = true
	written, err := graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m1",
		Ops:      []storage.GraphOp{op},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	entity, err := graphRepo.GetEntity(ctx, "m1", "niacinamide")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, entity.Examples, "overwrite skips the set union")
}

func TestApplyBatch_MergeConflictNamesSlug(t *testing.T) {
	_, graphRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m1",
		Ops: []storage.GraphOp{
			entityOp("niacinamide", "p1"),
			entityOp("glycerin", "p1"),
		},
	})
	require.NoError(t, err)

	// Clobber one stored document so its bytes no longer decode.
	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeEntityKey("m1", "niacinamide"), []byte("not a document")); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	batch := &storage.GraphBatch{
		Merchant: "m1",
		Ops: []storage.GraphOp{
			entityOp("niacinamide", "p2"),
			entityOp("glycerin", "p2"),
		},
	}
	_, err = graphRepo.ApplyBatch(ctx, batch)
	require.ErrorIs(t, err, storage.ErrMergeConflict)

	var conflict *storage.MergeConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "niacinamide", conflict.Slug)
	assert.Equal(t, "m1", conflict.Merchant)

	// Retrying with just the conflicting op flagged commits, and the
	// sibling op still merges.
	batch.Ops[0].Overwrite = true
	written, err := graphRepo.ApplyBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	niacinamide, err := graphRepo.GetEntity(ctx, "m1", "niacinamide")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, niacinamide.Examples)

	glycerin, err := graphRepo.GetEntity(ctx, "m1", "glycerin")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, glycerin.Examples)
}

func TestApplyBatch_LinkReplacedWholesale(t *testing.T) {
	_, graphRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m1",
		Ops:      []storage.GraphOp{linkOp("p1", "niacinamide", "zinc-pca")},
	})
	require.NoError(t, err)

	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m1",
		Ops:      []storage.GraphOp{linkOp("p1", "glycerin")},
	})
	require.NoError(t, err)

	link, err := graphRepo.GetLink(ctx, "m1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"glycerin"}, link.Slugs, "old slugs do not survive a re-index")
}

func TestApplyBatch_Validation(t *testing.T) {
	_, graphRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{Merchant: "m1"})
	assert.ErrorIs(t, err, storage.ErrEmptyBatch)

	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Ops: []storage.GraphOp{entityOp("niacinamide", "p1")},
	})
	assert.ErrorIs(t, err, core.ErrEmptyMerchant)

	bad := entityOp("", "p1")
	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m1",
		Ops:      []storage.GraphOp{bad},
	})
	assert.ErrorIs(t, err, core.ErrInvalidEntity)
}

func TestGetEntity_NotFound(t *testing.T) {
	_, graphRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = graphRepo.GetEntity(context.Background(), "m1", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = graphRepo.GetLink(context.Background(), "m1", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetEntities_OrderedBySlug(t *testing.T) {
	_, graphRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m1",
		Ops: []storage.GraphOp{
			entityOp("zinc-pca", "p1"),
			entityOp("glycerin", "p1"),
			entityOp("niacinamide", "p1"),
		},
	})
	require.NoError(t, err)

	// A second merchant's entities must not leak into the scan.
	_, err = graphRepo.ApplyBatch(ctx, &storage.GraphBatch{
		Merchant: "m2",
		Ops:      []storage.GraphOp{entityOp("retinol", "p9")},
	})
	require.NoError(t, err)

	entities, err := graphRepo.GetEntities(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, entities, 3)
	assert.Equal(t, "glycerin", entities[0].Slug)
	assert.Equal(t, "niacinamide", entities[1].Slug)
	assert.Equal(t, "zinc-pca", entities[2].Slug)
}
