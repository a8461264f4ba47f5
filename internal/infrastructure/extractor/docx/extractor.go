package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

const (
	documentPart = "word/document.xml"
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	maxPartBytes = 64 << 20
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the body paragraphs of the document joined by newlines.
// Paragraphs nested in tables or text boxes are not part of the body
// paragraph list.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrInsufficientText, "extract docx", err)
	}

	var part *zip.File
	for _, f := range archive.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", domain.WrapError(domain.ErrInsufficientText, "extract docx", errors.New("missing "+documentPart))
	}

	rc, err := part.Open()
	if err != nil {
		return "", domain.WrapError(domain.ErrInsufficientText, "extract docx", err)
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(ctx, io.LimitReader(rc, maxPartBytes))
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

type paragraphHandler struct {
	// nestedDepth counts open tables and text boxes; their paragraphs
	// are not body paragraphs.
	nestedDepth int
	pPrDepth    int
	inPara      bool
	inText      bool
	current     strings.Builder
	paragraphs  []string
}

func (h *paragraphHandler) start(el xml.StartElement) {
	if el.Name.Space != wordNS {
		return
	}
	switch el.Name.Local {
	case "tbl", "txbxContent":
		h.nestedDepth++
	case "p":
		if h.nestedDepth == 0 {
			h.inPara = true
			h.current.Reset()
		}
	case "pPr":
		h.pPrDepth++
	case "t":
		h.inText = h.inPara && h.nestedDepth == 0
	case "tab":
		// w:pPr/w:tabs/w:tab defines a tab stop, not a tab character.
		if h.inPara && h.nestedDepth == 0 && h.pPrDepth == 0 {
			h.current.WriteByte('\t')
		}
	case "br", "cr":
		if h.inPara && h.nestedDepth == 0 {
			h.current.WriteByte('\n')
		}
	}
}

func (h *paragraphHandler) end(el xml.EndElement) {
	if el.Name.Space != wordNS {
		return
	}
	switch el.Name.Local {
	case "tbl", "txbxContent":
		h.nestedDepth--
	case "p":
		if h.inPara && h.nestedDepth == 0 {
			h.paragraphs = append(h.paragraphs, h.current.String())
			h.inPara = false
		}
	case "pPr":
		h.pPrDepth--
	case "t":
		h.inText = false
	}
}

func (h *paragraphHandler) charData(c xml.CharData) {
	if h.inText {
		h.current.Write(c)
	}
}

func readParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	handler := &paragraphHandler{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.WrapError(domain.ErrInsufficientText, "extract docx", fmt.Errorf("parse %s: %w", documentPart, err))
		}
		switch el := token.(type) {
		case xml.StartElement:
			handler.start(el)
		case xml.EndElement:
			handler.end(el)
		case xml.CharData:
			handler.charData(el)
		}
	}
	return handler.paragraphs, nil
}
