package extract

import (
	"regexp"

	"github.com/sellarium/catagraph/core"
)

// MaxSalvagedEntities bounds how many pairs a salvage scan may yield.
const MaxSalvagedEntities = 24

var salvagePairPattern = regexp.MustCompile(`"name"\s*:\s*"([^"]{1,120})"\s*,\s*"type"\s*:\s*"([^"]{1,60})"`)

// Salvage scans raw model output for adjacent name/type string pairs and
// builds a partial extraction from them. It runs only after every repair
// attempt failed, typically on responses truncated mid-array. Pairs are
// deduplicated by slug; facts, synonyms and specs are unrecoverable at this
// point and stay empty. Returns nil when nothing was found.
func Salvage(raw, productID string) *Extraction {
	matches := salvagePairPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	entities := make([]Entity, 0, len(matches))
	for _, m := range matches {
		name, typ := m[1], m[2]
		slug := core.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		entities = append(entities, Entity{Name: name, Type: typ})
		if len(entities) >= MaxSalvagedEntities {
			break
		}
	}
	if len(entities) == 0 {
		return nil
	}

	return &Extraction{ProductID: productID, Entities: entities}
}
