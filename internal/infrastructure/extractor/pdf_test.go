package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// buildPDF assembles a minimal single-font PDF with one page per entry in
// pageTexts. An empty entry produces a page with an empty content stream.
func buildPDF(t *testing.T, pageTexts []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	var offsets []int

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pageTexts)))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pageTexts {
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)
	return buf.Bytes()
}

func TestPDFStrategyExtractsText(t *testing.T) {
	doc := buildPDF(t, []string{"Hello World"})
	text, err := pdfStrategy{}.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !strings.Contains(text, "Hello World") {
		t.Fatalf("text = %q, want it to contain %q", text, "Hello World")
	}
}

func TestPDFStrategySkipsBlankPages(t *testing.T) {
	doc := buildPDF(t, []string{"", "Real content", ""})
	text, err := pdfStrategy{}.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !strings.Contains(text, "Real content") {
		t.Fatalf("text = %q", text)
	}
}

func TestPDFStrategyNoExtractableTextReportsPageCount(t *testing.T) {
	doc := buildPDF(t, []string{"", ""})
	_, err := pdfStrategy{}.Extract(context.Background(), doc)
	if !domain.IsKind(err, domain.ErrNoExtractableText) {
		t.Fatalf("Extract = %v, want ErrNoExtractableText", err)
	}
	if !strings.Contains(err.Error(), "(2 pages)") {
		t.Fatalf("error %q does not report the page count", err)
	}
	if domain.IsKind(err, domain.ErrExtractionFailed) {
		t.Fatal("textless PDF misreported as a parse failure")
	}
}

func TestPDFStrategyCorruptDocument(t *testing.T) {
	_, err := pdfStrategy{}.Extract(context.Background(), []byte("%PDF-1.4 nothing else"))
	if !domain.IsKind(err, domain.ErrExtractionFailed) {
		t.Fatalf("Extract = %v, want ErrExtractionFailed", err)
	}
	if domain.IsKind(err, domain.ErrNoExtractableText) {
		t.Fatal("parse failure misreported as textless document")
	}
}
