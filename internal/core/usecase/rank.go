package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
	"github.com/kirillkom/resume-ranker/internal/core/ports"
	"github.com/kirillkom/resume-ranker/internal/core/scoring"
)

// RankUseCase scores a resume against a job description with TF-IDF cosine
// similarity and bands the result.
type RankUseCase struct {
	stopwords  ports.StopwordProvider
	vectorizer *scoring.Vectorizer
	extractor  ports.TextExtractor
	logger     *slog.Logger
}

func NewRankUseCase(
	stopwords ports.StopwordProvider,
	vectorizer *scoring.Vectorizer,
	extractor ports.TextExtractor,
	logger *slog.Logger,
) *RankUseCase {
	if vectorizer == nil {
		vectorizer = scoring.NewVectorizer(scoring.VectorizerOptions{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RankUseCase{
		stopwords:  stopwords,
		vectorizer: vectorizer,
		extractor:  extractor,
		logger:     logger,
	}
}

func (uc *RankUseCase) Rank(ctx context.Context, resumeText, jobDescription string) (*domain.RankResult, error) {
	if err := requireText("rank", "resume", resumeText); err != nil {
		return nil, err
	}
	if err := requireText("rank", "job description", jobDescription); err != nil {
		return nil, err
	}

	stopwords, err := uc.stopwords.Stopwords(ctx)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	resume := scoring.Normalize(resumeText, stopwords)
	job := scoring.Normalize(jobDescription, stopwords)

	space, err := uc.vectorizer.Fit([]string{resume, job})
	if err != nil {
		return nil, fmt.Errorf("vectorize corpus: %w", err)
	}
	similarity := scoring.CosineSimilarity(space.Matrix[0], space.Transform(job))

	percentage := domain.ToPercentage(similarity)
	category, err := domain.Band(percentage)
	if err != nil {
		return nil, fmt.Errorf("band score: %w", err)
	}

	uc.logger.Debug("rank_completed",
		"vocabulary", len(space.Terms),
		"percentage", percentage,
		"category", category,
	)
	return &domain.RankResult{
		Percentage: percentage,
		Display:    domain.FormatPercentage(percentage),
		Category:   category,
	}, nil
}

// RankDocument extracts the resume upload and ranks it. The extracted text is
// returned with the result.
func (uc *RankUseCase) RankDocument(ctx context.Context, jobDescription string, resume domain.Upload) (*domain.RankResult, error) {
	if err := requireText("rank document", "job description", jobDescription); err != nil {
		return nil, err
	}
	formats, err := detectFormats(resume)
	if err != nil {
		return nil, err
	}
	doc, err := extractDocument(ctx, uc.extractor, resume, formats[0])
	if err != nil {
		return nil, err
	}

	result, err := uc.Rank(ctx, doc.RawText, jobDescription)
	if err != nil {
		return nil, err
	}
	result.ResumeText = doc.RawText
	return result, nil
}
