// Package normalize maps transcripts to a Latin-script canonical form
// for downstream keyword matching.
package normalize

import (
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// Text romanizes Devanagari-script input; Latin-script input passes
// through unchanged. It never fails: any input it cannot handle is
// returned as-is, so callers may use the result unconditionally.
// Idempotent: already-Latin text is a no-op.
func Text(text string) string {
	if text == "" {
		return text
	}
	if !containsDevanagari(text) {
		return text
	}
	out := unidecode.Unidecode(text)
	if out == "" {
		return text
	}
	return out
}

func containsDevanagari(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Devanagari, r) {
			return true
		}
	}
	return false
}
