package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeySeparator joins slugs in catalog cache keys.
const KeySeparator = ":"

// NormalizeSlug lower-cases s, strips accents and collapses whitespace into dashes,
// so "Escola Online" and "escola-online" address the same entry.
func NormalizeSlug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), "-")
}

// Key builds a cache key from a slug path (course, module, lesson).
func Key(slugs ...string) string {
	parts := make([]string, len(slugs))
	for i, s := range slugs {
		parts[i] = NormalizeSlug(s)
	}
	return strings.Join(parts, KeySeparator)
}
