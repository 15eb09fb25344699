package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared across the processing pipeline. Adapters
// translate them into HTTP statuses and envelope error keys without
// inspecting error strings.
var (
	ErrInvalidPath         = errors.New("invalid file path")
	ErrBlobNotFound        = errors.New("blob not found")
	ErrStoreUnavailable    = errors.New("blob store unavailable")
	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrExtractionFailed    = errors.New("text extraction failed")
	ErrNoExtractableText   = errors.New("no extractable text")
	ErrInvalidTaskParams   = errors.New("invalid task parameters")
	ErrAIUnavailable       = errors.New("completion service unavailable")
	ErrAIMalformedResponse = errors.New("malformed completion response")
	ErrUnauthorized        = errors.New("unauthorized")
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

// Envelope error keys. Every error the pipeline can produce maps onto one
// of these so clients branch on a stable vocabulary instead of messages.
const (
	TaxonomyAuthentication = "authentication_error"
	TaxonomyProcessing     = "processing_error"
	TaxonomyFileNotFound   = "file_not_found"
	TaxonomyAIProcessing   = "ai_processing_error"
	TaxonomyInternal       = "internal_error"
)

// TaxonomyKey maps an error to its envelope error key. Unrecognized errors
// fall through to the internal key.
func TaxonomyKey(err error) string {
	switch {
	case IsKind(err, ErrUnauthorized):
		return TaxonomyAuthentication
	case IsKind(err, ErrBlobNotFound):
		return TaxonomyFileNotFound
	case IsKind(err, ErrAIUnavailable), IsKind(err, ErrAIMalformedResponse):
		return TaxonomyAIProcessing
	case IsKind(err, ErrInvalidPath),
		IsKind(err, ErrUnsupportedFormat),
		IsKind(err, ErrExtractionFailed),
		IsKind(err, ErrNoExtractableText),
		IsKind(err, ErrInvalidTaskParams),
		IsKind(err, ErrStoreUnavailable):
		return TaxonomyProcessing
	default:
		return TaxonomyInternal
	}
}
