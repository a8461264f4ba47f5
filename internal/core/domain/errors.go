package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientText  = errors.New("insufficient text")
	ErrEmptyVocabulary   = errors.New("empty vocabulary")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrScoreOutOfRange   = errors.New("score out of range")
	ErrDuplicateDocument = errors.New("duplicate document")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// KindOf returns the first semantic kind found in err's chain, or "internal".
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case IsKind(err, ErrInsufficientText):
		return "insufficient_text"
	case IsKind(err, ErrEmptyVocabulary):
		return "empty_vocabulary"
	case IsKind(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case IsKind(err, ErrScoreOutOfRange):
		return "score_out_of_range"
	case IsKind(err, ErrDuplicateDocument):
		return "duplicate_document"
	case IsKind(err, ErrInvalidInput):
		return "invalid_input"
	case IsKind(err, ErrTemporary):
		return "temporary"
	default:
		return "internal"
	}
}

// UserMessage is the warning shown instead of a score.
func UserMessage(err error) string {
	switch {
	case IsKind(err, ErrInsufficientText), IsKind(err, ErrEmptyVocabulary):
		return "Could not extract enough text from the document. Please upload a different file."
	case IsKind(err, ErrUnsupportedFormat):
		return "Unsupported file type. Please upload a PDF or DOCX document."
	case IsKind(err, ErrDuplicateDocument):
		return "You have uploaded the same file twice. Please upload different resumes."
	case IsKind(err, ErrInvalidInput):
		return "The request is missing required input."
	case IsKind(err, ErrTemporary):
		return "The service is temporarily unavailable. Please retry shortly."
	default:
		return "Scoring failed unexpectedly."
	}
}
