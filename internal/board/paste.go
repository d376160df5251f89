package board

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const MIMETextPlain = "text/plain"

// ErrStalePaste is returned when a paste resolves after the board was cleared.
var ErrStalePaste = errors.New("board changed while the paste was converting")

// ClipboardItem is one MIME-typed payload from a paste.
type ClipboardItem struct {
	Type string
	Data []byte
}

func (i ClipboardItem) IsImage() bool {
	return strings.HasPrefix(i.Type, "image/")
}

func (i ClipboardItem) IsText() bool {
	return i.Type == MIMETextPlain
}

// ImageEncoder turns an image item into a data URL.
type ImageEncoder func(ClipboardItem) (string, error)

// Paste is a paste that has been accepted but not yet committed. It captures
// the drop point and the board epoch at the moment of the paste.
type Paste struct {
	Text  string
	Image *ClipboardItem
	At    Point
	Epoch int
}

func (p Paste) IsImage() bool { return p.Image != nil }

// SelectPaste picks what a paste should become: the first image item, or
// failing that the first text item with non-blank content.
func SelectPaste(items []ClipboardItem) (text string, image *ClipboardItem, ok bool) {
	for i := range items {
		if items[i].IsImage() {
			item := items[i]
			return "", &item, true
		}
	}
	for _, item := range items {
		if !item.IsText() {
			continue
		}
		if t := strings.TrimSpace(pasteText(item.Data)); t != "" {
			return t, nil, true
		}
	}
	return "", nil, false
}

// pasteText drops invalid UTF-8 and control characters other than newline
// and tab.
func pasteText(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.ToValidUTF8(string(data), ""))
}

// DropPoint places a new note so the last known pointer lands near its
// centre, or at the default drop point if the pointer was never seen.
func (c *Controller) DropPoint() Point {
	if !c.hasPointer {
		return c.board.geometry.DefaultDrop
	}
	return c.pointer.Sub(c.board.geometry.HalfNote())
}

// BeginPaste accepts a paste. ok is false when nothing in items can become a
// note.
func (c *Controller) BeginPaste(items []ClipboardItem) (Paste, bool) {
	text, image, ok := SelectPaste(items)
	if !ok {
		return Paste{}, false
	}
	return Paste{Text: text, Image: image, At: c.DropPoint(), Epoch: c.board.epoch}, true
}

// Resolve converts the paste into note content. Only image pastes can fail.
func (p Paste) Resolve(encode ImageEncoder) (content, imageURL string, err error) {
	if p.Image == nil {
		return p.Text, "", nil
	}
	if encode == nil {
		return "", "", errors.New("no image encoder configured")
	}
	url, err := encode(*p.Image)
	if err != nil {
		return "", "", fmt.Errorf("convert pasted %s: %w", p.Image.Type, err)
	}
	return ImagePlaceholder, url, nil
}

// CommitPaste appends the note for a resolved paste.
func (c *Controller) CommitPaste(p Paste, content, imageURL string) (Note, error) {
	if p.Epoch != c.board.epoch {
		return Note{}, ErrStalePaste
	}
	note := c.board.AddNote(content, imageURL, p.At)
	c.history.Record(Action{Type: ActionAddNote, Note: note, Index: c.board.Len() - 1})
	return note, nil
}

// PasteItems runs a whole paste synchronously. ok is false when the paste was
// ignored.
func (c *Controller) PasteItems(items []ClipboardItem, encode ImageEncoder) (Note, bool, error) {
	p, ok := c.BeginPaste(items)
	if !ok {
		return Note{}, false, nil
	}
	content, url, err := p.Resolve(encode)
	if err != nil {
		return Note{}, false, err
	}
	note, err := c.CommitPaste(p, content, url)
	if err != nil {
		return Note{}, false, err
	}
	return note, true, nil
}
