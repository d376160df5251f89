// Package clip turns clipboard contents into board clipboard items and
// converts pasted images to data URLs.
package clip

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"studyboard/internal/board"
)

// maxImageBytes bounds image files picked up from a pasted path.
const maxImageBytes = 16 << 20

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// ReadFunc fetches raw clipboard text.
type ReadFunc func() (string, error)

// ReadSystem reads the system clipboard. On macOS pbpaste is asked for plain
// text first so rich payloads are avoided when possible.
func ReadSystem() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

type Source struct {
	read ReadFunc
	html *htmlToText
}

func NewSource(read ReadFunc) *Source {
	if read == nil {
		read = ReadSystem
	}
	return &Source{read: read, html: newHTMLToText()}
}

func (s *Source) Read() ([]board.ClipboardItem, error) {
	text, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	return s.Items(text), nil
}

// Items classifies pasted text. An embedded data URL or a path to an image
// file yields an image item first; rich text is reduced to plain text.
func (s *Source) Items(text string) []board.ClipboardItem {
	text = normalizeNewlines(text)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if mediaType, data, err := DecodeDataURL(trimmed); err == nil {
		return []board.ClipboardItem{{Type: mediaType, Data: data}}
	}

	var items []board.ClipboardItem
	if item, ok := imageFromPath(trimmed); ok {
		items = append(items, item)
	}

	switch {
	case isRTF(trimmed):
		text = extractTextFromRTF(trimmed)
	case isHTML(trimmed):
		if md, err := s.html.Convert(trimmed); err == nil {
			text = md
		}
	}
	return append(items, board.ClipboardItem{Type: board.MIMETextPlain, Data: []byte(cleanText(text))})
}

func imageFromPath(text string) (board.ClipboardItem, bool) {
	if strings.ContainsAny(text, "\n") {
		return board.ClipboardItem{}, false
	}
	path := strings.Trim(text, `"'`)
	path = strings.TrimPrefix(path, "file://")
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !imageExts[strings.ToLower(filepath.Ext(path))] {
		return board.ClipboardItem{}, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxImageBytes {
		return board.ClipboardItem{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return board.ClipboardItem{}, false
	}
	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		// tiff sniffs as octet-stream. EncodeDataURL validates the bytes.
		mediaType = "image/" + strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	return board.ClipboardItem{Type: mediaType, Data: data}, true
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func cleanText(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			out.WriteRune(r)
		}
	}
	return out.String()
}
