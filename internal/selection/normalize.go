package selection

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds s for loose item-name comparison: compatibility
// decomposition, combining marks and any remaining non-ASCII runes dropped,
// lowercased and trimmed. "  Matemáticas " becomes "matematicas".
//
// Normalize is idempotent: the output is trimmed lowercase ASCII, which every
// step maps to itself.
func Normalize(s string) string {
	// transform.Chain keeps internal buffers, so it is built per call.
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(strings.ToLower(folded))
}
