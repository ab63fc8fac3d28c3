package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify_Basic(t *testing.T) {
	assert.Equal(t, "vitamin-c", Slugify("Vitamin C"))
	assert.Equal(t, "zinc-pca", Slugify("Zinc PCA"))
	assert.Equal(t, "100-cotton", Slugify("100% Cotton"))
}

func TestSlugify_CollapsesVariants(t *testing.T) {
	// Different casings and punctuation of the same concept must land on
	// the same slug, since the slug is the entity's identity.
	variants := []string{"Vitamin C", "vitamin-c ", "VITAMIN  C", "vitamin_c", "Vitamin C."}
	for _, v := range variants {
		assert.Equal(t, "vitamin-c", Slugify(v), "variant %q", v)
	}
}

func TestSlugify_ASCIIFolding(t *testing.T) {
	assert.Equal(t, "creme-brulee", Slugify("Crème Brûlée"))
	assert.Equal(t, "jalapeno", Slugify("Jalapeño"))
}

func TestSlugify_Empty(t *testing.T) {
	assert.Equal(t, "", Slugify(""))
	assert.Equal(t, "", Slugify("  ---  "))
}

func TestSlugify_CapsLength(t *testing.T) {
	slug := Slugify(strings.Repeat("a", 200))
	assert.Len(t, slug, MaxSlugLen)
}
