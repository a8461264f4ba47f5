package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileFormat is the closed set of document formats text can be extracted from.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatPDF
	FormatDOCX
)

func (f FileFormat) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// DetectFormat maps a filename extension onto a FileFormat.
func DetectFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(filename)), "."))
	switch ext {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return FormatUnknown, WrapError(ErrUnsupportedFormat, "detect format", fmt.Errorf("file %q has extension %q", filename, ext))
	}
}

// Upload is a file as received from the presentation layer.
type Upload struct {
	Filename string
	Data     []byte
}

// Document is the plain text extracted from an upload.
type Document struct {
	SourceName string `json:"source_name"`
	RawText    string `json:"raw_text"`
}

// IsEmpty reports whether the document carries no usable text.
func (d Document) IsEmpty() bool {
	return strings.TrimSpace(d.RawText) == ""
}

// StopwordSet holds lower-cased stopwords. It is read-only once built.
type StopwordSet map[string]struct{}

func NewStopwordSet(words []string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Contains matches case-insensitively.
func (s StopwordSet) Contains(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}
