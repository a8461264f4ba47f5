// Package extractor dispatches uploads to the extractor of their format.
package extractor

import (
	"context"
	"fmt"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
	"github.com/kirillkom/resume-ranker/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/resume-ranker/internal/infrastructure/extractor/pdf"
)

type formatExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

type Dispatcher struct {
	pdf  formatExtractor
	docx formatExtractor
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		pdf:  pdf.NewExtractor(),
		docx: docx.NewExtractor(),
	}
}

func (d *Dispatcher) Extract(ctx context.Context, format domain.FileFormat, data []byte) (string, error) {
	switch format {
	case domain.FormatPDF:
		return d.pdf.Extract(ctx, data)
	case domain.FormatDOCX:
		return d.docx.Extract(ctx, data)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract text", fmt.Errorf("no extractor for %s", format))
	}
}
