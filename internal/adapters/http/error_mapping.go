package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrInsufficientText), domain.IsKind(err, domain.ErrEmptyVocabulary):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrInvalidInput), domain.IsKind(err, domain.ErrDuplicateDocument):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError never exposes internal error text; the full error goes to the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	attrs := []any{
		"request_id", requestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", err,
	}
	if status >= 500 {
		slog.Error("request_failed", attrs...)
	} else {
		slog.Warn("request_rejected", attrs...)
	}

	message := domain.UserMessage(err)
	kind := domain.KindOf(err)
	if status == http.StatusRequestEntityTooLarge {
		message = "The uploaded file is too large."
		kind = "too_large"
	}
	writeJSON(w, status, map[string]string{
		"error": message,
		"kind":  kind,
	})
}
