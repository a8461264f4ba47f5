package scoring

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

// VectorizerOptions controls tokenisation before terms are counted.
type VectorizerOptions struct {
	// Lowercase folds tokens before counting. Off by default: "Python" and
	// "python" are distinct terms.
	Lowercase bool
	// MinTokenLength drops shorter tokens (in runes). Values below 1 mean 1.
	MinTokenLength int
}

// Vectorizer builds smoothed-IDF, L2-normalised TF-IDF vectors.
type Vectorizer struct {
	opts VectorizerOptions
}

// NewVectorizer returns a Vectorizer; a MinTokenLength below 1 is raised to 1.
func NewVectorizer(opts VectorizerOptions) *Vectorizer {
	if opts.MinTokenLength < 1 {
		opts.MinTokenLength = 1
	}
	return &Vectorizer{opts: opts}
}

// Space is a vocabulary fitted on one corpus. Vectors from different spaces
// are not comparable.
type Space struct {
	Vocabulary map[string]int
	Terms      []string
	IDF        []float64
	Matrix     []domain.TermVector

	opts VectorizerOptions
}

// Fit derives the vocabulary and IDF weights from corpus and returns the
// N x |vocabulary| weight matrix.
func (v *Vectorizer) Fit(corpus []string) (*Space, error) {
	if len(corpus) == 0 {
		return nil, domain.WrapError(domain.ErrEmptyVocabulary, "fit vectorizer", errors.New("empty corpus"))
	}

	counts := make([]map[string]int, len(corpus))
	docFreq := make(map[string]int)
	for i, doc := range corpus {
		counts[i] = termCounts(tokenize(doc, v.opts))
		for term := range counts[i] {
			docFreq[term]++
		}
	}
	if len(docFreq) == 0 {
		return nil, domain.WrapError(domain.ErrEmptyVocabulary, "fit vectorizer", errors.New("corpus has no tokens"))
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	space := &Space{
		Vocabulary: vocabulary,
		Terms:      terms,
		IDF:        idf,
		Matrix:     make([]domain.TermVector, len(corpus)),
		opts:       v.opts,
	}
	for i := range corpus {
		space.Matrix[i] = space.weigh(counts[i])
	}
	return space, nil
}

// Transform projects doc onto the fitted vocabulary. Unknown terms are ignored.
func (s *Space) Transform(doc string) domain.TermVector {
	return s.weigh(termCounts(tokenize(doc, s.opts)))
}

func (s *Space) weigh(counts map[string]int) domain.TermVector {
	vec := make(domain.TermVector, len(s.Terms))
	for term, count := range counts {
		idx, ok := s.Vocabulary[term]
		if !ok {
			continue
		}
		vec[idx] = float64(count) * s.IDF[idx]
	}
	normalizeL2(vec)
	return vec
}

func normalizeL2(vec domain.TermVector) {
	norm := vectorNorm(vec)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}

func tokenize(doc string, opts VectorizerOptions) []string {
	fields := strings.Fields(doc)
	out := fields[:0]
	for _, f := range fields {
		if opts.Lowercase {
			f = strings.ToLower(f)
		}
		if utf8.RuneCountInString(f) < opts.MinTokenLength {
			continue
		}
		out = append(out, f)
	}
	return out
}

func termCounts(tokens []string) map[string]int {
	out := make(map[string]int, len(tokens))
	for _, token := range tokens {
		out[token]++
	}
	return out
}
