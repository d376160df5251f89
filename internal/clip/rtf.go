package clip

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

func isRTF(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "{\\rtf")
}

// rtf destinations whose contents are metadata, not document text.
var rtfSkipGroups = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"header":     true,
	"footer":     true,
}

// extractTextFromRTF keeps the visible text of an RTF payload: paragraph and
// line breaks become newlines, hex escapes are decoded, and metadata groups
// are dropped.
func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	out.Grow(len(rtf))

	data := []byte(rtf)
	depth := 0
	skipDepth := -1

	for i := 0; i < len(data); i++ {
		b := data[i]
		switch b {
		case '{':
			depth++
			continue
		case '}':
			if depth == skipDepth {
				skipDepth = -1
			}
			depth--
			continue
		case '\r', '\n':
			continue
		}
		skipping := skipDepth >= 0

		if b != '\\' {
			if !skipping {
				out.WriteByte(b)
			}
			continue
		}
		if i+1 >= len(data) {
			break
		}
		next := data[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			if !skipping {
				out.WriteByte(next)
			}
			i++
		case next == '\'' && i+3 < len(data):
			if v, err := strconv.ParseUint(string(data[i+2:i+4]), 16, 8); err == nil && !skipping {
				out.WriteRune(charmap.Windows1252.DecodeByte(byte(v)))
			}
			i += 3
		case next == '*':
			if skipDepth < 0 {
				skipDepth = depth
			}
			i++
		case next == '~':
			if !skipping {
				out.WriteByte(' ')
			}
			i++
		case next == '-' || next == '_':
			if !skipping {
				out.WriteByte('-')
			}
			i++
		case isLetter(next):
			j := i + 1
			for j < len(data) && isLetter(data[j]) {
				j++
			}
			word := string(data[i+1 : j])
			p := j
			for j < len(data) && (data[j] == '-' || isDigit(data[j])) {
				j++
			}
			param := string(data[p:j])
			if j < len(data) && data[j] == ' ' {
				j++
			}
			i = j - 1

			if rtfSkipGroups[word] && skipDepth < 0 {
				skipDepth = depth
			}
			if skipping {
				continue
			}
			switch word {
			case "par", "line":
				out.WriteByte('\n')
			case "tab":
				out.WriteByte('\t')
			case "u":
				// \uN is a UTF-16 unit, negative above 32767, followed by one
				// fallback character for readers without Unicode.
				if n, err := strconv.Atoi(param); err == nil {
					if n < 0 {
						n += 65536
					}
					out.WriteRune(rune(n))
					if i+1 < len(data) && data[i+1] != '\\' && data[i+1] != '{' && data[i+1] != '}' {
						i++
					}
				}
			}
		default:
			i++
		}
	}
	return strings.TrimSpace(out.String())
}

func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
