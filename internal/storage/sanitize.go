// internal/storage/sanitize.go
package storage

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// SanitizeFilename strips diacritics and replaces every non-alphanumeric
// character with an underscore, collapsing runs. "Fiche d'évaluation" becomes
// "Fiche_d_evaluation". An empty or fully-stripped name yields "document".
func SanitizeFilename(name string) string {
	flat, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		flat = name
	}

	var b strings.Builder
	lastUnderscore := true
	for _, r := range flat {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "document"
	}
	return out
}
