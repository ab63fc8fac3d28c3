package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify derives the stable identity string for an entity name: lowercase,
// ASCII-folded, hyphenated, capped at MaxSlugLen. Two extractions naming
// slightly different casings or punctuation of the same concept collapse
// onto one slug.
func Slugify(name string) string {
	// Decompose so diacritics become combining marks, then drop the marks.
	folded := norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphens
	for _, r := range folded {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > MaxSlugLen {
		slug = strings.Trim(slug[:MaxSlugLen], "-")
	}
	return slug
}
