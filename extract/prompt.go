package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sellarium/catagraph/ai"
	"github.com/sellarium/catagraph/core"
)

// SchemaLevel selects how much output structure a cascade tier demands.
type SchemaLevel int

const (
	// SchemaNone sends the full prompt without a schema descriptor.
	SchemaNone SchemaLevel = iota
	// SchemaMinimal sends a reduced schema covering entities and specs.
	SchemaMinimal
	// SchemaTiny sends a name+type-only schema, no facts or cautions.
	SchemaTiny
)

// StrictFormatHint is the corrective system instruction attached on
// escalation tiers after a malformed first response.
const StrictFormatHint = "Output raw JSON only. Use double quotes for all keys and string values. " +
	"No comments, no trailing commas, no markdown fences, no text outside the JSON object."

const minimalResponseSchema = `{
  "type": "object",
  "properties": {
    "product": {"type": "object", "properties": {"id": {"type": "string"}}},
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "type": {"type": "string"},
          "synonyms": {"type": "array", "items": {"type": "string"}},
          "fact": {"type": "string"},
          "cautions": {"type": "string"}
        },
        "required": ["name", "type"]
      }
    },
    "specs": {"type": "array"},
    "flags": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["entities"]
}`

const tinyResponseSchema = `{
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "type": {"type": "string"}
        },
        "required": ["name", "type"]
      }
    }
  },
  "required": ["entities"]
}`

const extractionPromptTemplate = `Extract the named entities (ingredients, materials, specs, features) from the product record below and return them as JSON.

Output ONLY a valid JSON object. Do not include any preamble, explanation, or markdown fencing. Start your response with the opening brace { and end with the closing brace }.

The object must have these keys:
- "product": {"id": "<the product id>"}
- "entities": array of {"name", "type", "synonyms", "fact", "cautions"}
- "specs": array of {"name", "value", "unit"}
- "flags": array of plain strings (warnings or notable attributes)

Rules:
- The "type" field must be one of: %s.
- Include only entities explicitly present in the product text. Do not hallucinate.
- "fact" is one short sentence about the entity; "cautions" notes any warning attached to it. Omit or leave empty when the text says nothing.
- If no entities can be identified, return "entities": [].

Product record:
%s`

// SchemaFor returns the schema descriptor text for a level, or "" for
// SchemaNone.
func SchemaFor(level SchemaLevel) string {
	switch level {
	case SchemaMinimal:
		return minimalResponseSchema
	case SchemaTiny:
		return tinyResponseSchema
	default:
		return ""
	}
}

// BuildPrompt renders the extraction prompt for one normalized product.
// Deterministic given identical inputs: map fields are emitted in sorted
// key order.
func BuildPrompt(product *core.NormalizedProduct) string {
	return fmt.Sprintf(extractionPromptTemplate,
		strings.Join(ai.EntityTypes, ", "),
		renderProduct(product))
}

// renderProduct flattens the normalized product into prompt text.
func renderProduct(p *core.NormalizedProduct) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\n", p.ID)
	fmt.Fprintf(&b, "title: %s\n", p.Title)
	fmt.Fprintf(&b, "description: %s\n", p.Description)
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(p.Tags, ", "))
	}
	if len(p.Specs) > 0 {
		keys := make([]string, 0, len(p.Specs))
		for k := range p.Specs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("specs:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", k, p.Specs[k])
		}
	}
	return b.String()
}
