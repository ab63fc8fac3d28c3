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


package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Caps applied during validation. Anything over a length cap is truncated
// with an ellipsis marker rather than dropped; anything over a count cap is
// dropped from the tail.
const (
	MaxEntities         = 64
	MaxEntitySynonyms   = 8
	MaxEvidenceSnippets = 2
	MaxEvidenceLen      = 240
	MaxFactLen          = 240
	MaxCautionsLen      = 160
	MaxSpecs            = 32
	MaxFlags            = 16
	MaxFlagLen          = 160
)

var numericValuePattern = regexp.MustCompile(`^([+-]?\d+(?:[.,]\d+)?)\s*(\S*)$`)

// Validate coerces a recovered JSON document into the canonical extraction
// shape, enforcing field caps and dropping malformed members. The document
// as a whole is rejected (ErrSchemaInvalid) only when it is not an object
// or carries an "entities" key that is not an array; every violated field
// is named in the one returned error. An empty entities array is a valid
// result, not a failure. The product id in the output is always the one
// from the request context, never the model's echo.
func Validate(doc any, productID string) (*Extraction, error) {
	var violations []string

	root, ok := doc.(map[string]any)
	if !ok {
		violations = append(violations, "top-level value is not an object")
	}

	var entityList []any
	if raw, present := root["entities"]; present && raw != nil {
		entityList, ok = raw.([]any)
		if !ok {
			violations = append(violations, "entities is not an array")
		}
	}

	if len(violations) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSchemaInvalid, strings.Join(violations, "; "))
	}

	ex := &Extraction{ProductID: productID}

	for _, item := range entityList {
		if ent, ok := validateEntity(item); ok {
			ex.Entities = append(ex.Entities, ent)
			if len(ex.Entities) >= MaxEntities {
				break
			}
		}
	}

	if list, ok := root["specs"].([]any); ok {
		for _, item := range list {
			if spec, ok := validateSpec(item); ok {
				ex.Specs = append(ex.Specs, spec)
				if len(ex.Specs) >= MaxSpecs {
					break
				}
			}
		}
	}

	if list, ok := root["flags"].([]any); ok {
		for _, item := range list {
			flag := strings.TrimSpace(asString(item))
			if flag == "" {
				continue
			}
			ex.Flags = append(ex.Flags, truncateRunes(flag, MaxFlagLen))
			if len(ex.Flags) >= MaxFlags {
				break
			}
		}
	}

	return ex, nil
}

// validateEntity coerces one member of the entities array. Members that are
// not objects or lack a name or type are dropped, not fatal.
func validateEntity(item any) (Entity, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Entity{}, false
	}

	name := strings.TrimSpace(asString(obj["name"]))
	typ := strings.ToLower(strings.TrimSpace(asString(obj["type"])))
	if name == "" || typ == "" {
		return Entity{}, false
	}

	ent := Entity{
		Name:     name,
		Type:     typ,
		Fact:     truncateRunes(strings.TrimSpace(asString(obj["fact"])), MaxFactLen),
		Cautions: truncateRunes(strings.TrimSpace(asString(obj["cautions"])), MaxCautionsLen),
	}

	if list, ok := obj["synonyms"].([]any); ok {
		for _, s := range list {
			syn := strings.TrimSpace(asString(s))
			if syn == "" || strings.EqualFold(syn, name) {
				continue
			}
			ent.Synonyms = append(ent.Synonyms, syn)
			if len(ent.Synonyms) >= MaxEntitySynonyms {
				break
			}
		}
	}

	if list, ok := obj["evidence"].([]any); ok {
		for _, s := range list {
			ev := strings.TrimSpace(asString(s))
			if ev == "" {
				continue
			}
			ent.Evidence = append(ent.Evidence, truncateRunes(ev, MaxEvidenceLen))
			if len(ent.Evidence) >= MaxEvidenceSnippets {
				break
			}
		}
	}

	return ent, true
}

// validateSpec coerces one member of the specs array, attempting numeric
// interpretation of the value without discarding the original text.
func validateSpec(item any) (Spec, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Spec{}, false
	}

	name := strings.TrimSpace(asString(obj["name"]))
	if name == "" {
		return Spec{}, false
	}

	spec := Spec{
		Name: name,
		Unit: strings.TrimSpace(asString(obj["unit"])),
	}

	switch v := obj["value"].(type) {
	case float64:
		spec.Value = strconv.FormatFloat(v, 'f', -1, 64)
		spec.Number = v
		spec.Numeric = true
	default:
		spec.Value = strings.TrimSpace(asString(v))
		if m := numericValuePattern.FindStringSubmatch(spec.Value); m != nil {
			if n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
				spec.Number = n
				spec.Numeric = true
				if spec.Unit == "" {
					spec.Unit = m[2]
				}
			}
		}
	}
	if spec.Value == "" {
		return Spec{}, false
	}

	return spec, true
}

// asString renders scalar JSON values as text; objects and arrays yield "".
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
