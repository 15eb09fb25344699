package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// pdfStrategy extracts text page by page. Pages without text are skipped;
// a document where every page comes back empty is reported as having no
// extractable text, with the page count, so callers can tell a scanned
// PDF from a broken one.
type pdfStrategy struct{}

func (pdfStrategy) Extract(_ context.Context, content []byte) (text string, err error) {
	// The pdf reader panics on some malformed files instead of returning
	// an error.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = domain.WrapError(domain.ErrExtractionFailed, "parse pdf", fmt.Errorf("%v", rec))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "parse pdf", err)
	}

	total := reader.NumPage()
	if total == 0 {
		return "", domain.WrapError(domain.ErrNoExtractableText, "extract pdf text",
			fmt.Errorf("no extractable text found in PDF (0 pages)"))
	}

	var pages []string
	for n := 1; n <= total; n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			pages = append(pages, pageText)
		}
	}

	if len(pages) == 0 {
		return "", domain.WrapError(domain.ErrNoExtractableText, "extract pdf text",
			fmt.Errorf("no extractable text found in PDF (%d pages); the document may be scanned, image-based, or restrict text extraction", total))
	}
	return strings.Join(pages, "\n"), nil
}
