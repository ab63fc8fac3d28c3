package extract

import (
	"regexp"
	"strings"

	"github.com/sellarium/catagraph/core"
)

const (
	// DefaultDescriptionCap is the description character budget of the
	// first cascade tier. Escalation tiers shrink it.
	DefaultDescriptionCap = 900

	// MaxTags is the number of tags kept on a normalized product.
	MaxTags = 16

	ellipsis = "…"
)

var (
	markupPattern     = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize strips markup from a product and bounds its text for one
// extraction attempt. descriptionCap is the rune budget for the plain-text
// description; values <= 0 fall back to DefaultDescriptionCap. Pure
// function: the input product is never mutated.
func Normalize(product *core.Product, descriptionCap int) *core.NormalizedProduct {
	if descriptionCap <= 0 {
		descriptionCap = DefaultDescriptionCap
	}

	description := markupPattern.ReplaceAllString(product.Description, " ")
	description = whitespacePattern.ReplaceAllString(description, " ")
	description = strings.TrimSpace(description)
	description = truncateRunes(description, descriptionCap)

	tags := product.Tags
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}

	return &core.NormalizedProduct{
		ID:          product.ID,
		Title:       strings.TrimSpace(product.Title),
		Description: description,
		Tags:        tags,
		Specs:       product.Specs,
	}
}

// truncateRunes cuts s at max runes, appending an ellipsis marker when
// anything was cut.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + ellipsis
}
