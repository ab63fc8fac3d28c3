package extract

import "time"

// FailReason classifies why one cascade tier failed.
type FailReason string

const (
	// FailTimeout means the generation call exceeded its per-attempt bound.
	FailTimeout FailReason = "timeout"
	// FailInvalidJSON means no parse or repair of the response succeeded.
	FailInvalidJSON FailReason = "invalid_json"
	// FailSchemaInvalid means the response parsed but failed validation.
	FailSchemaInvalid FailReason = "schema_invalid"
	// FailError covers transport and other unexpected failures.
	FailError FailReason = "error"
)

// Entity is one named concept in a canonical extraction.
type Entity struct {
	Name     string
	Type     string
	Synonyms []string
	Fact     string
	Cautions string
	Evidence []string
}

// Spec is one key/value specification in a canonical extraction. Numeric
// coercion of the value is attempted during validation; Number/Numeric
// record the outcome without discarding the original text.
type Spec struct {
	Name    string
	Value   string
	Number  float64
	Numeric bool
	Unit    string
}

// Extraction is the canonical result shape every cascade tier and the
// heuristic baseline reduce to.
type Extraction struct {
	ProductID string
	Entities  []Entity
	Specs     []Spec
	Flags     []string
}

// TierFailure records why one cascade tier did not produce a result, so
// operators can distinguish "model is slow" from "model can't follow
// instructions" from "product text was empty".
type TierFailure struct {
	Tier    string
	Reason  FailReason
	Elapsed time.Duration
	Detail  string
}

// Result is the outcome of one cascade run. Extraction is nil when every
// tier and salvage failed; the caller then falls back to the heuristic
// baseline, which cannot fail.
type Result struct {
	Extraction *Extraction
	Tier       string
	Salvaged   bool
	Failures   []TierFailure
	Elapsed    time.Duration
}

// OK reports whether the cascade produced a validated extraction.
func (r *Result) OK() bool {
	return r != nil && r.Extraction != nil
}
