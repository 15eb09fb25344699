package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// docxStrategy walks word/document.xml inside the OOXML archive and joins
// the <w:t> runs, one line per paragraph.
type docxStrategy struct{}

func (docxStrategy) Extract(_ context.Context, content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "open docx archive", err)
	}

	doc, err := openZipEntry(zr, "word/document.xml")
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "open docx archive", err)
	}
	defer doc.Close()

	text, err := collectWordText(doc)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "parse docx document", err)
	}
	return text, nil
}

func openZipEntry(zr *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, errors.New(name + " entry is missing")
}

func collectWordText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
