package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FileReference names one blob inside a storage container. BlobName keeps
// the remainder of the path verbatim, separators included, so nested blob
// layouts round-trip untouched.
type FileReference struct {
	Container string
	BlobName  string
}

// FileProperties is the metadata returned alongside fetched blob content.
type FileProperties struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
}

// ExtractedDocument is the plain text of a document after the length limit
// has been applied.
type ExtractedDocument struct {
	Text           string
	WasTruncated   bool
	OriginalLength int
	UsedLength     int
}

// ParseFileReference resolves a client-supplied file path into a
// FileReference. Two spellings are accepted: a full blob URL
// (scheme://host/container/blob...) and the short container/blob form.
// Both resolve to the same reference.
func ParseFileReference(raw string) (FileReference, error) {
	if strings.TrimSpace(raw) == "" {
		return FileReference{}, WrapError(ErrInvalidPath, "parse file reference", errors.New("file path is empty"))
	}

	if strings.Contains(raw, "://") {
		return parseFileURL(raw)
	}

	container, blob, found := strings.Cut(raw, "/")
	if !found || container == "" || blob == "" {
		return FileReference{}, WrapError(ErrInvalidPath, "parse file reference",
			fmt.Errorf("path %q must be container/blob or a full blob URL", raw))
	}
	return FileReference{Container: container, BlobName: blob}, nil
}

func parseFileURL(raw string) (FileReference, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return FileReference{}, WrapError(ErrInvalidPath, "parse file reference", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return FileReference{}, WrapError(ErrInvalidPath, "parse file reference",
			fmt.Errorf("unsupported URL scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return FileReference{}, WrapError(ErrInvalidPath, "parse file reference",
			fmt.Errorf("URL %q has no host", raw))
	}

	container, blob, found := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if !found || container == "" || blob == "" {
		return FileReference{}, WrapError(ErrInvalidPath, "parse file reference",
			fmt.Errorf("URL path %q must contain a container and blob name", u.Path))
	}
	return FileReference{Container: container, BlobName: blob}, nil
}

// LimitText caps text at maxChars characters with a hard cut. The cut may
// split a multi-byte character. A non-positive limit disables capping.
func LimitText(text string, maxChars int) ExtractedDocument {
	if maxChars <= 0 || len(text) <= maxChars {
		return ExtractedDocument{
			Text:           text,
			OriginalLength: len(text),
			UsedLength:     len(text),
		}
	}
	return ExtractedDocument{
		Text:           text[:maxChars],
		WasTruncated:   true,
		OriginalLength: len(text),
		UsedLength:     maxChars,
	}
}
