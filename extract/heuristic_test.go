package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellarium/catagraph/core"
)

func TestHeuristicBaseline_IngredientList(t *testing.T) {
	product := &core.Product{
		ID:          "p1",
		Title:       "Night Serum",
		Description: "Ingredients: Niacinamide, Zinc PCA, Glycerin.",
	}

	ex := HeuristicBaseline(product)
	require.Len(t, ex.Entities, 3)
	assert.Equal(t, "Niacinamide", ex.Entities[0].Name)
	assert.Equal(t, "ingredient", ex.Entities[0].Type)
	assert.Equal(t, "Glycerin", ex.Entities[2].Name)
}

func TestHeuristicBaseline_MaterialsAndComponents(t *testing.T) {
	product := &core.Product{
		ID:          "p2",
		Description: "Materials: organic cotton; recycled polyester. Components: zipper, lining",
	}

	ex := HeuristicBaseline(product)
	require.Len(t, ex.Entities, 4)
	assert.Equal(t, "material", ex.Entities[0].Type)
	assert.Equal(t, "component", ex.Entities[2].Type)
}

func TestHeuristicBaseline_NumericSpecs(t *testing.T) {
	product := &core.Product{
		ID:    "p3",
		Specs: map[string]string{"capacity": "500 mAh", "color": "black"},
	}

	ex := HeuristicBaseline(product)
	require.Len(t, ex.Specs, 2)
	for _, s := range ex.Specs {
		if s.Name == "capacity" {
			assert.True(t, s.Numeric)
			assert.Equal(t, 500.0, s.Number)
			assert.Equal(t, "mah", s.Unit)
		}
		if s.Name == "color" {
			assert.False(t, s.Numeric)
		}
	}
}

func TestHeuristicBaseline_NoMarkers(t *testing.T) {
	product := &core.Product{
		ID:          "p4",
		Title:       "Gift Card",
		Description: "The perfect present for any occasion.",
	}

	ex := HeuristicBaseline(product)
	assert.Empty(t, ex.Entities)
	assert.Empty(t, ex.Specs)
	assert.Equal(t, "p4", ex.ProductID)
}

func TestHeuristicBaseline_DeduplicatesBySlug(t *testing.T) {
	product := &core.Product{
		ID:          "p5",
		Description: "Ingredients: Niacinamide, niacinamide, NIACINAMIDE",
	}

	ex := HeuristicBaseline(product)
	assert.Len(t, ex.Entities, 1)
}
