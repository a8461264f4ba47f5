package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
	"github.com/kirillkom/resume-ranker/internal/core/ports"
	"github.com/kirillkom/resume-ranker/internal/core/scoring"
)

// CompareUseCase reports how much of the first resume's vocabulary appears in
// the second. The score is directional and is not banded.
type CompareUseCase struct {
	stopwords ports.StopwordProvider
	extractor ports.TextExtractor
	logger    *slog.Logger
}

func NewCompareUseCase(stopwords ports.StopwordProvider, extractor ports.TextExtractor, logger *slog.Logger) *CompareUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompareUseCase{
		stopwords: stopwords,
		extractor: extractor,
		logger:    logger,
	}
}

// Compare never fails on empty text: an empty first text scores 0.
func (uc *CompareUseCase) Compare(ctx context.Context, text1, text2 string) (*domain.CompareResult, error) {
	stopwords, err := uc.stopwords.Stopwords(ctx)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	overlap := scoring.SetOverlap(scoring.Normalize(text1, stopwords), scoring.Normalize(text2, stopwords))
	percentage := domain.ToPercentage(overlap)

	uc.logger.Debug("compare_completed", "percentage", percentage)
	return &domain.CompareResult{
		Percentage: percentage,
		Display:    domain.FormatPercentage(percentage),
	}, nil
}

func (uc *CompareUseCase) CompareDocuments(ctx context.Context, first, second domain.Upload) (*domain.CompareResult, error) {
	if first.Filename == second.Filename {
		return nil, domain.WrapError(domain.ErrDuplicateDocument, "compare documents", errors.New("both uploads are named "+first.Filename))
	}
	formats, err := detectFormats(first, second)
	if err != nil {
		return nil, err
	}

	doc1, err := extractDocument(ctx, uc.extractor, first, formats[0])
	if err != nil {
		return nil, err
	}
	doc2, err := extractDocument(ctx, uc.extractor, second, formats[1])
	if err != nil {
		return nil, err
	}
	return uc.Compare(ctx, doc1.RawText, doc2.RawText)
}
