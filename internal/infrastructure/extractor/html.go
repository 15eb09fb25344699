package extractor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// htmlStrategy keeps the text nodes of a page and drops markup along with
// script, style, and noscript bodies.
type htmlStrategy struct{}

func (htmlStrategy) Extract(_ context.Context, content []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(content))
	var parts []string
	skipUntil := ""

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return "", domain.WrapError(domain.ErrExtractionFailed, "tokenize html", err)
			}
			return strings.Join(parts, "\n"), nil
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				if skipUntil == "" {
					skipUntil = string(name)
				}
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if skipUntil != "" && string(name) == skipUntil {
				skipUntil = ""
			}
		case html.TextToken:
			if skipUntil != "" {
				continue
			}
			if text := strings.TrimSpace(string(tokenizer.Text())); text != "" {
				parts = append(parts, text)
			}
		}
	}
}
