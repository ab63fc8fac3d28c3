package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Limits applied to persisted documents. Oversized inputs are truncated or
// sliced by the extraction validator before they reach storage.
const (
	MaxSlugLen         = 80
	MaxSynonyms        = 12
	MaxFactLen         = 400
	MaxCautionLen      = 300
	MaxEvidencePerSlug = 2
	MaxEvidenceLen     = 240
)

// ContentHash generates a deterministic 64-bit hash of a byte slice using
// BLAKE2b. Used to detect no-op writes: a document whose serialized form
// hashes identically to the stored one does not need to be written again.
func ContentHash(data []byte) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// EntityStatus records how an entity was derived.
type EntityStatus string

const (
	// EntityStatusLLM marks entities extracted by the language model.
	EntityStatusLLM EntityStatus = "llm"
	// EntityStatusStub marks entities produced without a model call.
	EntityStatusStub EntityStatus = "stub"
)

// Product is a catalog record read by the indexing pipeline. The pipeline
// never mutates products; they are owned by the catalog side.
type Product struct {
	ID          string
	Title       string
	Description string // may contain markup
	Tags        []string
	Specs       map[string]string
}

// NormalizedProduct is the per-attempt view of a product: markup stripped,
// description capped, tags sliced. Never persisted; recomputed with a
// smaller description cap on each cascade escalation tier.
type NormalizedProduct struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Specs       map[string]string
}

// Entity is a named concept (ingredient, spec, feature) shared across all
// products of a merchant that reference it. Keyed by merchant + slug.
// Entities are created on first sighting and merged on every subsequent one.
type Entity struct {
	Merchant   string
	Slug       string
	Name       string
	Type       string
	Synonyms   []string
	Fact       string
	Cautions   string
	Status     EntityStatus
	Confidence float64
	Examples   []string // product ids referencing this entity; additive set
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Link associates one product with the entity slugs extracted from it.
// A link is replaced wholesale on each re-index: it represents what the
// product currently extracts to, not a history.
type Link struct {
	Merchant  string
	ProductID string
	Slugs     []string
	Evidence  map[string][]string // slug -> snippets, capped per slug
	UpdatedAt time.Time
}
