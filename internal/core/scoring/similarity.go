package scoring

import (
	"math"
	"strings"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

// CosineSimilarity is dot(a,b)/(|a||b|) clamped to [0,1]. Zero-norm vectors
// and vectors of different length score 0.
func CosineSimilarity(a, b domain.TermVector) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	normA := vectorNorm(a)
	normB := vectorNorm(b)
	if normA == 0 || normB == 0 {
		return 0
	}

	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	sim := dot / (normA * normB)
	if math.IsNaN(sim) || sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// SetOverlap returns the share of text1's distinct words that also occur in
// text2: |set1 ∩ set2| / max(|set1|, 1). It is not symmetric.
func SetOverlap(text1, text2 string) float64 {
	set1 := wordSet(text1)
	set2 := wordSet(text2)

	shared := 0
	for word := range set1 {
		if _, ok := set2[word]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(set1), 1))
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(text)
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

func vectorNorm(vec domain.TermVector) float64 {
	sum := 0.0
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(sum)
}
