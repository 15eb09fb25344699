package extractor

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// rtfStrategy strips RTF control words and groups, keeping visible text.
// Destination groups that never hold document text (font and color tables,
// stylesheets, embedded pictures) are dropped wholesale.
type rtfStrategy struct{}

func (rtfStrategy) Extract(_ context.Context, content []byte) (string, error) {
	if !bytes.HasPrefix(content, []byte(`{\rtf`)) {
		return "", domain.WrapError(domain.ErrExtractionFailed, "parse rtf", errors.New(`missing {\rtf header`))
	}
	return stripRTF(content), nil
}

func stripRTF(content []byte) string {
	var out strings.Builder
	n := len(content)
	depth := 0
	skipDepth := -1 // depth of the shallowest ignored group, -1 when not skipping

	i := 0
	for i < n {
		switch c := content[i]; c {
		case '{':
			depth++
			i++
			// {\* introduces an optional destination; drop the whole group.
			if skipDepth < 0 && i+1 < n && content[i] == '\\' && content[i+1] == '*' {
				skipDepth = depth
				i += 2
			}
		case '}':
			if skipDepth == depth {
				skipDepth = -1
			}
			depth--
			i++
		case '\\':
			i = consumeControl(content, i+1, depth, &skipDepth, &out)
		case '\r', '\n':
			i++
		default:
			if skipDepth < 0 {
				out.WriteByte(c)
			}
			i++
		}
	}
	return strings.TrimSpace(out.String())
}

// consumeControl handles the bytes after a backslash and returns the index
// of the next unread byte.
func consumeControl(content []byte, i, depth int, skipDepth *int, out *strings.Builder) int {
	n := len(content)
	if i >= n {
		return n
	}

	c := content[i]
	if !isASCIILetter(c) {
		switch c {
		case '\\', '{', '}':
			if *skipDepth < 0 {
				out.WriteByte(c)
			}
		case '~':
			if *skipDepth < 0 {
				out.WriteByte(' ')
			}
		case '\'':
			if i+2 < n {
				if b, err := strconv.ParseUint(string(content[i+1:i+3]), 16, 8); err == nil && *skipDepth < 0 {
					out.WriteRune(charmap.Windows1252.DecodeByte(byte(b)))
				}
				return i + 3
			}
			return n
		}
		return i + 1
	}

	word, param, next := readControlWord(content, i)
	if *skipDepth >= 0 {
		return next
	}
	switch word {
	case "par", "line":
		out.WriteByte('\n')
	case "tab":
		out.WriteByte('\t')
	case "u":
		// \uN is a signed 16-bit code point followed by one fallback
		// character for non-Unicode readers.
		if param < 0 {
			param += 65536
		}
		out.WriteRune(rune(param))
		if next < n && content[next] != '\\' && content[next] != '{' && content[next] != '}' {
			next++
		}
	case "fonttbl", "colortbl", "stylesheet", "info", "pict":
		*skipDepth = depth
	}
	return next
}

func readControlWord(content []byte, i int) (word string, param int, next int) {
	n := len(content)
	start := i
	for i < n && isASCIILetter(content[i]) {
		i++
	}
	word = string(content[start:i])

	numStart := i
	if i < n && content[i] == '-' {
		i++
	}
	for i < n && content[i] >= '0' && content[i] <= '9' {
		i++
	}
	if i > numStart {
		param, _ = strconv.Atoi(string(content[numStart:i]))
	}

	// A single space after the control word is a delimiter, not text.
	if i < n && content[i] == ' ' {
		i++
	}
	return word, param, i
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
