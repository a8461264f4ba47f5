package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

func newRankUC(extractor *textExtractorFake) *RankUseCase {
	if extractor == nil {
		extractor = &textExtractorFake{}
	}
	return NewRankUseCase(&stopwordsFake{}, nil, extractor, nil)
}

func TestRankIdenticalTextIsGood(t *testing.T) {
	text := "Senior Go developer with Kubernetes and AWS experience"
	res, err := newRankUC(nil).Rank(context.Background(), text, text)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if math.Abs(res.Percentage-100) > 1e-6 {
		t.Fatalf("expected ~100, got %f", res.Percentage)
	}
	if res.Category != domain.CategoryGood || res.Display != "100.00%" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRankDisjointVocabularyIsBad(t *testing.T) {
	res, err := newRankUC(nil).Rank(context.Background(), "apple banana", "car truck")
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if res.Percentage != 0 || res.Category != domain.CategoryBad || res.Display != "0.00%" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRankPythonDeveloperExample(t *testing.T) {
	res, err := newRankUC(nil).Rank(context.Background(),
		"Experienced Python developer with data analysis skills",
		"Looking for Python developer with strong data analysis background",
	)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	// Four shared terms with idf 1, two and three unshared terms with idf ln(1.5)+1.
	if math.Abs(res.Percentage-45.0268) > 1e-3 {
		t.Fatalf("expected 45.03, got %f", res.Percentage)
	}
	if res.Category != domain.CategoryAverage || res.Display != "45.03%" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRankEmptyInputIsInsufficientText(t *testing.T) {
	stop := &stopwordsFake{}
	uc := NewRankUseCase(stop, nil, &textExtractorFake{}, nil)

	for _, tc := range [][2]string{{"", "valid job description"}, {"resume", "  \n\t"}} {
		_, err := uc.Rank(context.Background(), tc[0], tc[1])
		if !domain.IsKind(err, domain.ErrInsufficientText) {
			t.Fatalf("Rank(%q, %q) expected ErrInsufficientText, got %v", tc[0], tc[1], err)
		}
	}
	if stop.calls != 0 {
		t.Fatalf("empty input must short-circuit before normalization")
	}
}

func TestRankAllStopwordsIsEmptyVocabulary(t *testing.T) {
	_, err := newRankUC(nil).Rank(context.Background(), "the and of", "with for 2024!")
	if !domain.IsKind(err, domain.ErrEmptyVocabulary) {
		t.Fatalf("expected ErrEmptyVocabulary, got %v", err)
	}
	if domain.IsKind(err, domain.ErrInsufficientText) {
		t.Fatalf("empty vocabulary must stay distinct from insufficient text")
	}
}

func TestRankStopwordFailure(t *testing.T) {
	uc := NewRankUseCase(&stopwordsFake{err: errors.New("offline")}, nil, &textExtractorFake{}, nil)
	if _, err := uc.Rank(context.Background(), "go", "go"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRankDocumentReturnsExtractedText(t *testing.T) {
	extractor := &textExtractorFake{texts: map[string]string{"bytes": "Go developer Kubernetes"}}
	res, err := newRankUC(extractor).RankDocument(context.Background(), "Go developer", domain.Upload{Filename: "cv.pdf", Data: []byte("bytes")})
	if err != nil {
		t.Fatalf("RankDocument() error = %v", err)
	}
	if res.ResumeText != "Go developer Kubernetes" {
		t.Fatalf("expected extracted text in result, got %q", res.ResumeText)
	}
	if len(extractor.calls) != 1 || extractor.calls[0] != domain.FormatPDF {
		t.Fatalf("unexpected extractor calls %v", extractor.calls)
	}
}

func TestRankDocumentRejectsUnsupportedBeforeExtraction(t *testing.T) {
	extractor := &textExtractorFake{}
	_, err := newRankUC(extractor).RankDocument(context.Background(), "Go developer", domain.Upload{Filename: "cv.txt", Data: []byte("x")})
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if len(extractor.calls) != 0 {
		t.Fatalf("extractor must not run for unsupported formats")
	}
}

func TestRankDocumentEmptyExtractionIsInsufficientText(t *testing.T) {
	extractor := &textExtractorFake{texts: map[string]string{}}
	_, err := newRankUC(extractor).RankDocument(context.Background(), "Go developer", domain.Upload{Filename: "scan.pdf", Data: []byte("image-only")})
	if !domain.IsKind(err, domain.ErrInsufficientText) {
		t.Fatalf("expected ErrInsufficientText, got %v", err)
	}
}

func TestRankDocumentRequiresJobDescription(t *testing.T) {
	extractor := &textExtractorFake{}
	_, err := newRankUC(extractor).RankDocument(context.Background(), " ", domain.Upload{Filename: "cv.pdf", Data: []byte("x")})
	if !domain.IsKind(err, domain.ErrInsufficientText) {
		t.Fatalf("expected ErrInsufficientText, got %v", err)
	}
	if len(extractor.calls) != 0 {
		t.Fatalf("extractor must not run without a job description")
	}
}
