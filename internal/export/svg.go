// Package export renders a board to standalone files.
package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"studyboard/internal/board"
	"studyboard/internal/clip"
)

const (
	DefaultSVGName = "study-hub-board.svg"
	DefaultPNGName = "study-hub-board.png"
)

// Options describe the rendered board. Width and Height are in board units
// and Origin is the board point drawn at the top-left corner. ScaleX and
// ScaleY convert board units to output pixels and default to 1.
type Options struct {
	Theme  board.Theme
	Origin board.Point
	Width  int
	Height int
	ScaleX float64
	ScaleY float64
}

// project maps a board point to output pixels.
func (o Options) project(p board.Point) (float64, float64) {
	sx, sy := o.scale()
	return float64(p.X-o.Origin.X) * sx, float64(p.Y-o.Origin.Y) * sy
}

func (o Options) scale() (float64, float64) {
	sx, sy := o.ScaleX, o.ScaleY
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	return sx, sy
}

func (o Options) pixelSize() (float64, float64) {
	sx, sy := o.scale()
	return float64(o.Width) * sx, float64(o.Height) * sy
}

// attr escapes s for XML and drops what XML cannot carry at all: invalid
// UTF-8 and runes outside the Char production.
func attr(s string) string {
	return html.EscapeString(strings.Map(xmlChar, strings.ToValidUTF8(s, "")))
}

func xmlChar(r rune) rune {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return r
	case r < 0x20, r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF, r > 0x10FFFF:
		return -1
	}
	return r
}

func num(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

// SVG renders the board as a self-contained SVG document. A nil board or a
// board without a rendered size gives an empty result.
func SVG(b *board.Board, opts Options) []byte {
	if b == nil || opts.Width <= 0 || opts.Height <= 0 {
		return nil
	}
	sx, sy := opts.scale()
	width, height := opts.pixelSize()
	palette := b.Palette()
	geometry := b.Geometry()
	noteW, noteH := float64(geometry.NoteWidth)*sx, float64(geometry.NoteHeight)*sy

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">`, num(width), num(height))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, `  <rect width="100%%" height="100%%" fill="%s" />`, attr(palette.Canvas.For(opts.Theme)))
	sb.WriteString("\n")

	conns := b.Connections()
	var markers strings.Builder
	for _, c := range conns {
		if !c.Style.HasArrows() {
			continue
		}
		fmt.Fprintf(&markers, `    <marker id="%s" markerWidth="10" markerHeight="7" refX="8.5" refY="3.5" orient="auto-start-reverse" fill="%s"><polygon points="0 0, 10 3.5, 0 7" /></marker>`,
			attr(markerID(c)), attr(c.Color))
		markers.WriteString("\n")
	}
	if markers.Len() > 0 {
		sb.WriteString("  <defs>\n")
		sb.WriteString(markers.String())
		sb.WriteString("  </defs>\n")
	}

	if len(conns) > 0 {
		sb.WriteString("  <g>\n")
		for _, c := range conns {
			from, ok1 := b.Center(c.StartNoteID)
			to, ok2 := b.Center(c.EndNoteID)
			if !ok1 || !ok2 {
				continue
			}
			x1, y1 := opts.project(from)
			x2, y2 := opts.project(to)
			fmt.Fprintf(&sb, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2"`,
				num(x1), num(y1), num(x2), num(y2), attr(c.Color))
			if c.Style.ArrowStart() {
				fmt.Fprintf(&sb, ` marker-start="url(#%s)"`, attr(markerID(c)))
			}
			if c.Style.ArrowEnd() {
				fmt.Fprintf(&sb, ` marker-end="url(#%s)"`, attr(markerID(c)))
			}
			sb.WriteString(" />\n")
		}
		sb.WriteString("  </g>\n")
	}

	notes := b.Notes()
	if len(notes) > 0 {
		textColor := palette.Text.For(opts.Theme)
		sb.WriteString("  <g>\n")
		for _, n := range notes {
			swatch := palette.SwatchFor(n, opts.Theme)
			x, y := opts.project(n.Position())
			fmt.Fprintf(&sb, `    <foreignObject x="%s" y="%s" width="%s" height="%s">`,
				num(x), num(y), num(noteW), num(noteH))
			fmt.Fprintf(&sb, `<div xmlns="http://www.w3.org/1999/xhtml" style="width: %spx; height: %spx; border: 1px solid %s; background-color: %s; border-radius: 8px; padding: 8px; box-sizing: border-box; display: flex; align-items: center; justify-content: center; text-align: center; overflow: hidden;">`,
				num(noteW), num(noteH), attr(swatch.Border), attr(swatch.Background))
			sb.WriteString(noteBody(n, textColor))
			sb.WriteString("</div></foreignObject>\n")
		}
		sb.WriteString("  </g>\n")
	}

	sb.WriteString("</svg>\n")
	return []byte(sb.String())
}

func markerID(c board.Connection) string {
	return "arrowhead-" + c.ID
}

// noteBody is the inner XHTML of a note. An image that does not decode is
// left blank rather than failing the export.
func noteBody(n board.Note, textColor string) string {
	if n.IsImage() {
		if _, _, err := clip.DecodeDataURL(n.ImageURL); err != nil {
			return ""
		}
		return fmt.Sprintf(`<img src="%s" alt="%s" style="max-width: 100%%; max-height: 100%%; object-fit: contain; border-radius: 4px;" />`,
			attr(n.ImageURL), attr(n.Content))
	}
	return fmt.Sprintf(`<div style="font-size: 12px; white-space: pre-wrap; word-wrap: break-word; color: %s;">%s</div>`,
		attr(textColor), attr(n.Content))
}

// SaveSVG writes the export to path. An empty render is reported as
// ErrNothingToExport so callers do not leave empty files behind.
func SaveSVG(b *board.Board, opts Options, path string) error {
	data := SVG(b, opts)
	if len(data) == 0 {
		return ErrNothingToExport
	}
	return writeFile(path, data)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
