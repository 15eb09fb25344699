package extractor

import (
	"context"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// textStrategy decodes plain text blobs. UTF-8 is tried first, then UTF-16
// when a byte order mark is present, then Latin-1 as the catch-all legacy
// encoding.
type textStrategy struct{}

func (textStrategy) Extract(_ context.Context, content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	if text, ok := decodeUTF16(content); ok {
		return text, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "decode text", err)
	}
	return string(decoded), nil
}

func decodeUTF16(content []byte) (string, bool) {
	if len(content) < 2 {
		return "", false
	}
	hasBOM := (content[0] == 0xFF && content[1] == 0xFE) || (content[0] == 0xFE && content[1] == 0xFF)
	if !hasBOM {
		return "", false
	}
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(content)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}
