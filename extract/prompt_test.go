package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellarium/catagraph/core"
)

func promptTestProduct() *core.NormalizedProduct {
	return &core.NormalizedProduct{
		ID:          "p1",
		Title:       "Night Serum",
		Description: "Ingredients: Niacinamide, Zinc PCA",
		Tags:        []string{"skincare", "serum"},
		Specs: map[string]string{
			"volume":  "30 ml",
			"texture": "gel",
			"ph":      "5.5",
		},
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	product := promptTestProduct()
	first := BuildPrompt(product)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildPrompt(product), "map iteration order must not leak into the prompt")
	}
}

func TestBuildPrompt_EmbedsProductFields(t *testing.T) {
	prompt := BuildPrompt(promptTestProduct())

	assert.Contains(t, prompt, "id: p1")
	assert.Contains(t, prompt, "title: Night Serum")
	assert.Contains(t, prompt, "tags: skincare, serum")
	assert.Contains(t, prompt, "volume: 30 ml")
	assert.Contains(t, prompt, "ingredient", "allowed entity types are listed")
}

func TestSchemaFor(t *testing.T) {
	assert.Empty(t, SchemaFor(SchemaNone))
	assert.Contains(t, SchemaFor(SchemaMinimal), "synonyms")
	assert.NotContains(t, SchemaFor(SchemaTiny), "synonyms")
	assert.Contains(t, SchemaFor(SchemaTiny), "required")
}
