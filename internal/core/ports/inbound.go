package ports

import (
	"context"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

// ResumeRanker is the inbound contract for the resume-vs-job workflow.
type ResumeRanker interface {
	Rank(ctx context.Context, resumeText, jobDescription string) (*domain.RankResult, error)
	RankDocument(ctx context.Context, jobDescription string, resume domain.Upload) (*domain.RankResult, error)
}

// ResumeComparer is the inbound contract for the resume-vs-resume workflow.
type ResumeComparer interface {
	Compare(ctx context.Context, text1, text2 string) (*domain.CompareResult, error)
	CompareDocuments(ctx context.Context, first, second domain.Upload) (*domain.CompareResult, error)
}
