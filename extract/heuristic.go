package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sellarium/catagraph/core"
)

var (
	// Labeled lists like "Ingredients: niacinamide, zinc PCA, glycerin."
	labeledListPattern = regexp.MustCompile(`(?i)\b(ingredients?|materials?|components?|contains)\s*:\s*([^.\n<]{3,400})`)

	// Numeric spec mentions like "500 mg" or "1.5 L".
	numericSpecPattern = regexp.MustCompile(`([+-]?\d+(?:[.,]\d+)?)\s*(mg|g|kg|ml|l|oz|lb|cm|mm|m|in|ft|w|v|mah|hz|ghz|mhz|gb|tb|%)\b`)

	listItemSplitter = regexp.MustCompile(`[,;•|]+`)
)

var labelTypes = map[string]string{
	"ingredient":  "ingredient",
	"ingredients": "ingredient",
	"material":    "material",
	"materials":   "material",
	"component":   "component",
	"components":  "component",
	"contains":    "ingredient",
}

// HeuristicBaseline extracts entities from labeled lists and numeric spec
// mentions in the raw product text. It is the floor of the pipeline: it
// cannot fail, only return an empty extraction, so every product gets at
// least a deterministic pass even when no model is reachable.
func HeuristicBaseline(product *core.Product) *Extraction {
	ex := &Extraction{ProductID: product.ID}
	text := product.Title + "\n" + product.Description

	seen := make(map[string]bool)
	for _, m := range labeledListPattern.FindAllStringSubmatch(text, -1) {
		typ := labelTypes[strings.ToLower(m[1])]
		for _, item := range listItemSplitter.Split(m[2], -1) {
			name := strings.TrimSpace(markupPattern.ReplaceAllString(item, " "))
			name = strings.TrimRight(name, ".")
			if name == "" || len([]rune(name)) > 60 {
				continue
			}
			slug := core.Slugify(name)
			if slug == "" || seen[slug] {
				continue
			}
			seen[slug] = true
			ex.Entities = append(ex.Entities, Entity{Name: name, Type: typ})
			if len(ex.Entities) >= MaxEntities {
				break
			}
		}
	}

	for k, v := range product.Specs {
		name := strings.TrimSpace(k)
		value := strings.TrimSpace(v)
		if name == "" || value == "" {
			continue
		}
		spec := Spec{Name: name, Value: value}
		if m := numericSpecPattern.FindStringSubmatch(strings.ToLower(value)); m != nil {
			if n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
				spec.Number = n
				spec.Numeric = true
				spec.Unit = m[2]
			}
		}
		ex.Specs = append(ex.Specs, spec)
		if len(ex.Specs) >= MaxSpecs {
			break
		}
	}

	return ex
}
