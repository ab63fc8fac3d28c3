package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testEntity(slug string) *Entity {
	now := time.Now().UTC()
	return &Entity{
		Merchant:   "m1",
		Slug:       slug,
		Name:       "Niacinamide",
		Type:       "ingredient",
		Status:     EntityStatusLLM,
		Confidence: 0.9,
		Examples:   []string{"p1"},
		InsertedAt: now,
		UpdatedAt:  now,
	}
}

func TestMergeEntity_AdditiveExamples(t *testing.T) {
	stored := testEntity("niacinamide")
	incoming := testEntity("niacinamide")
	incoming.Examples = []string{"p2"}

	merged := MergeEntity(stored, incoming)
	assert.Equal(t, []string{"p1", "p2"}, merged.Examples)

	// Merging the same incoming again does not grow the set.
	again := MergeEntity(merged, incoming)
	assert.Equal(t, []string{"p1", "p2"}, again.Examples)
}

func TestMergeEntity_OrderIndependentConvergence(t *testing.T) {
	a := testEntity("niacinamide")
	a.Examples = []string{"p1"}
	a.Synonyms = []string{"vitamin b3"}

	b := testEntity("niacinamide")
	b.Examples = []string{"p2"}
	b.Synonyms = []string{"nicotinamide"}

	base := testEntity("niacinamide")
	base.Examples = nil
	base.Synonyms = nil

	ab := MergeEntity(MergeEntity(base, a), b)
	ba := MergeEntity(MergeEntity(base, b), a)

	assert.Equal(t, ab.Examples, ba.Examples)
	assert.Equal(t, ab.Synonyms, ba.Synonyms)
}

func TestMergeEntity_LastWriteWinsScalars(t *testing.T) {
	stored := testEntity("niacinamide")
	stored.Fact = "old fact"

	incoming := testEntity("niacinamide")
	incoming.Fact = "new fact"

	merged := MergeEntity(stored, incoming)
	assert.Equal(t, "new fact", merged.Fact)

	// Empty incoming scalars do not blank stored values.
	incoming.Fact = ""
	merged = MergeEntity(merged, incoming)
	assert.Equal(t, "new fact", merged.Fact)
}

func TestMergeEntity_StubNeverDemotesLLM(t *testing.T) {
	stored := testEntity("niacinamide")
	stored.Status = EntityStatusLLM
	stored.Confidence = 0.9

	incoming := testEntity("niacinamide")
	incoming.Status = EntityStatusStub
	incoming.Confidence = 0.3

	merged := MergeEntity(stored, incoming)
	assert.Equal(t, EntityStatusLLM, merged.Status)
	assert.Equal(t, 0.9, merged.Confidence, "confidence keeps the max")
}

func TestMergeEntity_PreservesIdentity(t *testing.T) {
	stored := testEntity("niacinamide")
	inserted := stored.InsertedAt

	incoming := testEntity("niacinamide")
	incoming.InsertedAt = incoming.InsertedAt.Add(time.Hour)
	incoming.UpdatedAt = incoming.UpdatedAt.Add(time.Hour)

	merged := MergeEntity(stored, incoming)
	assert.Equal(t, "m1", merged.Merchant)
	assert.Equal(t, "niacinamide", merged.Slug)
	assert.Equal(t, inserted, merged.InsertedAt)
	assert.Equal(t, incoming.UpdatedAt, merged.UpdatedAt)
}

func TestMergeEntity_SynonymCap(t *testing.T) {
	stored := testEntity("niacinamide")
	incoming := testEntity("niacinamide")
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n"} {
		incoming.Synonyms = append(incoming.Synonyms, s)
	}

	merged := MergeEntity(stored, incoming)
	assert.Len(t, merged.Synonyms, MaxSynonyms)
}
