package usecase

import (
	"context"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

var testStopwords = domain.NewStopwordSet([]string{
	"a", "an", "the", "and", "or", "of", "to", "in", "for", "with", "is", "i", "am", "my",
})

type stopwordsFake struct {
	err   error
	calls int
}

func (f *stopwordsFake) Stopwords(context.Context) (domain.StopwordSet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return testStopwords, nil
}

type textExtractorFake struct {
	texts map[string]string
	err   error
	calls []domain.FileFormat
}

func (f *textExtractorFake) Extract(_ context.Context, format domain.FileFormat, data []byte) (string, error) {
	f.calls = append(f.calls, format)
	if f.err != nil {
		return "", f.err
	}
	return f.texts[string(data)], nil
}
