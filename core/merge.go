// Copyright 2025 Sellarium Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"slices"
	"sort"
)

// MergeStrategy declares how one entity field combines with the stored value
// when the same slug is written again.
type MergeStrategy int

const (
	// MergeOverwrite replaces the stored value when the incoming value is
	// non-empty (last write wins).
	MergeOverwrite MergeStrategy = iota
	// MergeAdditiveSet unions the incoming values into the stored set.
	// Either write order converges to the same final state.
	MergeAdditiveSet
	// MergeMax keeps the larger of the two values.
	MergeMax
)

// entityMergeRule binds one field to its strategy. The strategy is declared
// once here; MergeEntity applies the table instead of per-field conditionals
// at call sites.
type entityMergeRule struct {
	field    string
	strategy MergeStrategy
	apply    func(dst, src *Entity)
}

var entityMergePlan = []entityMergeRule{
	{"name", MergeOverwrite, func(dst, src *Entity) {
		if src.Name != "" {
			dst.Name = src.Name
		}
	}},
	{"type", MergeOverwrite, func(dst, src *Entity) {
		if src.Type != "" {
			dst.Type = src.Type
		}
	}},
	{"fact", MergeOverwrite, func(dst, src *Entity) {
		if src.Fact != "" {
			dst.Fact = src.Fact
		}
	}},
	{"cautions", MergeOverwrite, func(dst, src *Entity) {
		if src.Cautions != "" {
			dst.Cautions = src.Cautions
		}
	}},
	{"status", MergeOverwrite, func(dst, src *Entity) {
		// A stub never demotes an llm-derived entity.
		if src.Status == EntityStatusLLM || dst.Status == "" {
			dst.Status = src.Status
		}
	}},
	{"confidence", MergeMax, func(dst, src *Entity) {
		if src.Confidence > dst.Confidence {
			dst.Confidence = src.Confidence
		}
	}},
	{"synonyms", MergeAdditiveSet, func(dst, src *Entity) {
		dst.Synonyms = unionSorted(dst.Synonyms, src.Synonyms, MaxSynonyms)
	}},
	{"examples", MergeAdditiveSet, func(dst, src *Entity) {
		dst.Examples = unionSorted(dst.Examples, src.Examples, 0)
	}},
}

// MergeEntity combines an incoming entity into the stored one and returns the
// result. The stored entity's identity fields (merchant, slug, InsertedAt)
// are preserved; everything else follows the merge plan.
func MergeEntity(stored, incoming *Entity) *Entity {
	merged := *stored
	for _, rule := range entityMergePlan {
		rule.apply(&merged, incoming)
	}
	merged.UpdatedAt = incoming.UpdatedAt
	return &merged
}

// unionSorted returns the sorted union of two string sets. A limit of 0
// means unbounded.
func unionSorted(a, b []string, limit int) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	for _, s := range b {
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
