package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellarium/catagraph/core"
)

func TestEntityRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	entity := &core.Entity{
		Merchant:   "m1",
		Slug:       "niacinamide",
		Name:       "Niacinamide",
		Type:       "ingredient",
		Synonyms:   []string{"nicotinamide", "vitamin b3"},
		Fact:       "A form of vitamin B3 used in skincare.",
		Cautions:   "May flush at high doses.",
		Status:     core.EntityStatusLLM,
		Confidence: 0.9,
		Examples:   []string{"p1", "p2"},
		InsertedAt: now,
		UpdatedAt:  now,
	}

	decoded, err := UnmarshalEntity(MarshalEntity(entity))
	require.NoError(t, err)
	assert.Equal(t, entity, decoded)
}

func TestLinkRoundTrip(t *testing.T) {
	link := &core.Link{
		Merchant:  "m1",
		ProductID: "p1",
		Slugs:     []string{"niacinamide", "zinc-pca"},
		Evidence: map[string][]string{
			"niacinamide": {"Ingredients: Niacinamide"},
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalLink(MarshalLink(link))
	require.NoError(t, err)
	assert.Equal(t, link, decoded)
}

func TestProductRoundTrip(t *testing.T) {
	product := &core.Product{
		ID:          "p1",
		Title:       "Night Serum",
		Description: "<p>Ingredients: Niacinamide, Zinc PCA</p>",
		Tags:        []string{"skincare"},
		Specs:       map[string]string{"volume": "30 ml"},
	}

	decoded, err := UnmarshalProduct(MarshalProduct(product))
	require.NoError(t, err)
	assert.Equal(t, product, decoded)
}

func TestMarshalEntity_Deterministic(t *testing.T) {
	// Stable bytes for identical documents are what make content-hash
	// no-op detection work; map fields must not introduce ordering noise.
	link := &core.Link{
		Merchant:  "m1",
		ProductID: "p1",
		Slugs:     []string{"a", "b"},
		Evidence: map[string][]string{
			"a": {"snippet one"},
			"b": {"snippet two"},
			"c": {"snippet three"},
		},
	}

	first := MarshalLink(link)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MarshalLink(link))
	}
}

func TestUnmarshalEntity_Garbage(t *testing.T) {
	_, err := UnmarshalEntity([]byte{0xff, 0xff, 0xff, 0xff})
	assert.Error(t, err)
}
