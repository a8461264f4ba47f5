// Package scoring holds the lexical similarity pipeline: normalisation,
// TF-IDF vectorisation and the two similarity measures.
package scoring

import (
	"strings"
	"unicode"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

// Normalize keeps letters and spaces only, drops stopwords (case-insensitive)
// and rejoins the surviving tokens with single spaces. Casing is preserved.
// Characters that are neither letters nor ' ' are removed without leaving a
// separator, so "data\nscience" becomes one token.
func Normalize(text string, stopwords domain.StopwordSet) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == ' ' || unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, token := range tokens {
		if stopwords.Contains(token) {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}
