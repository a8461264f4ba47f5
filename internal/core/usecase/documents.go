package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
	"github.com/kirillkom/resume-ranker/internal/core/ports"
)

// detectFormats resolves every upload's format before any extraction runs.
func detectFormats(uploads ...domain.Upload) ([]domain.FileFormat, error) {
	formats := make([]domain.FileFormat, len(uploads))
	for i, upload := range uploads {
		format, err := domain.DetectFormat(upload.Filename)
		if err != nil {
			return nil, err
		}
		formats[i] = format
	}
	return formats, nil
}

func extractDocument(
	ctx context.Context,
	extractor ports.TextExtractor,
	upload domain.Upload,
	format domain.FileFormat,
) (domain.Document, error) {
	if len(upload.Data) == 0 {
		return domain.Document{}, domain.WrapError(domain.ErrInsufficientText, "extract document", fmt.Errorf("file %q is empty", upload.Filename))
	}

	text, err := extractor.Extract(ctx, format, upload.Data)
	if err != nil {
		return domain.Document{}, fmt.Errorf("extract text from %q: %w", upload.Filename, err)
	}

	doc := domain.Document{SourceName: upload.Filename, RawText: text}
	if doc.IsEmpty() {
		return domain.Document{}, domain.WrapError(domain.ErrInsufficientText, "extract document", fmt.Errorf("no text extracted from %q", upload.Filename))
	}
	return doc, nil
}

func requireText(operation, name, text string) error {
	if (domain.Document{RawText: text}).IsEmpty() {
		return domain.WrapError(domain.ErrInsufficientText, operation, errors.New(name+" has no text"))
	}
	return nil
}
