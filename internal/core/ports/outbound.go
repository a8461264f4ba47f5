package ports

import (
	"context"
	"io"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

// TextExtractor extracts plain text from an uploaded document. It returns an
// empty string, not an error, when the document holds no text.
type TextExtractor interface {
	Extract(ctx context.Context, format domain.FileFormat, data []byte) (string, error)
}

// StopwordProvider exposes the process-wide stopword set.
type StopwordProvider interface {
	Stopwords(ctx context.Context) (domain.StopwordSet, error)
}

// ObjectStorage stores local resources such as the downloaded stopword list.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
