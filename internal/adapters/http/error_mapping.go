package httpadapter

import (
	"net/http"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// mapErrorToHTTPStatus picks the status code for a pipeline failure. The
// taxonomy key and message in the envelope are the portable contract; the
// status code is a convenience layered on top.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidPath),
		domain.IsKind(err, domain.ErrUnsupportedFormat),
		domain.IsKind(err, domain.ErrExtractionFailed),
		domain.IsKind(err, domain.ErrNoExtractableText),
		domain.IsKind(err, domain.ErrInvalidTaskParams):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrBlobNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrAIUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
