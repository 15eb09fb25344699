package extractor

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// Strategy extracts plain text from one document format.
type Strategy interface {
	Extract(ctx context.Context, content []byte) (string, error)
}

type format string

const (
	formatText format = "text"
	formatPDF  format = "pdf"
	formatDocx format = "docx"
	formatXLSX format = "xlsx"
	formatRTF  format = "rtf"
	formatHTML format = "html"
)

const supportedFormats = "pdf, docx, xlsx, rtf, html, plain text"

// Registry routes document content to the strategy for its format. Format
// detection checks the declared content type first, then the file
// extension, then magic bytes. Content with no recognizable format is
// still treated as plain text when it decodes as UTF-8.
type Registry struct {
	strategies map[format]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: map[format]Strategy{
		formatText: textStrategy{},
		formatPDF:  pdfStrategy{},
		formatDocx: docxStrategy{},
		formatXLSX: xlsxStrategy{},
		formatRTF:  rtfStrategy{},
		formatHTML: htmlStrategy{},
	}}
}

func (r *Registry) Extract(ctx context.Context, content []byte, props domain.FileProperties) (string, error) {
	f, ok := detectFormat(props.ContentType, props.Name, content)
	if !ok {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "detect format",
			fmt.Errorf("cannot handle %q (content type %q); supported formats: %s",
				props.Name, props.ContentType, supportedFormats))
	}
	return r.strategies[f].Extract(ctx, content)
}

// detectFormat resolves the strategy key for a blob. Content-type matching
// is ordered so the OOXML types win before the generic "xml" and "text"
// substrings do.
func detectFormat(contentType, filename string, content []byte) (format, bool) {
	ct := strings.ToLower(contentType)
	switch {
	case ct == "":
	case strings.Contains(ct, "pdf"):
		return formatPDF, true
	case strings.Contains(ct, "wordprocessingml"):
		return formatDocx, true
	case strings.Contains(ct, "spreadsheetml"):
		return formatXLSX, true
	case strings.Contains(ct, "rtf"):
		return formatRTF, true
	case strings.Contains(ct, "html"):
		return formatHTML, true
	case strings.Contains(ct, "text"), strings.Contains(ct, "json"), strings.Contains(ct, "xml"):
		return formatText, true
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return formatPDF, true
	case ".docx":
		return formatDocx, true
	case ".xlsx", ".xlsm":
		return formatXLSX, true
	case ".rtf":
		return formatRTF, true
	case ".htm", ".html":
		return formatHTML, true
	case ".txt", ".md", ".csv", ".json", ".xml":
		return formatText, true
	}

	switch {
	case bytes.HasPrefix(content, []byte("%PDF")):
		return formatPDF, true
	case bytes.HasPrefix(content, []byte(`{\rtf`)):
		return formatRTF, true
	}

	if utf8.Valid(content) {
		return formatText, true
	}
	return "", false
}
