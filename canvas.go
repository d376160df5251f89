package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"studyboard/internal/board"
)

// cell is one terminal column. A wide rune occupies its cell and the next
// one, which is left as a continuation with ch == 0.
type cell struct {
	ch rune
	fg string
	bg string
}

// grid is one frame of the board in screen cells.
type grid struct {
	width  int
	height int
	cells  []cell
}

func newGrid(width, height int, bg string) *grid {
	g := &grid{width: width, height: height, cells: make([]cell, width*height)}
	for i := range g.cells {
		g.cells[i] = cell{ch: ' ', bg: bg}
	}
	return g
}

func (g *grid) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return nil
	}
	return &g.cells[y*g.width+x]
}

// release blanks the other half of a wide rune before (x, y) is overwritten.
func (g *grid) release(x, y int) {
	c := g.at(x, y)
	if c == nil {
		return
	}
	if c.ch == 0 {
		if prev := g.at(x-1, y); prev != nil {
			prev.ch = ' '
		}
	}
	if next := g.at(x+1, y); next != nil && next.ch == 0 {
		next.ch = ' '
	}
}

// set draws a glyph over whatever background is already there.
func (g *grid) set(x, y int, ch rune, fg string) {
	if c := g.at(x, y); c != nil {
		g.release(x, y)
		c.ch = ch
		c.fg = fg
	}
}

func (g *grid) paint(x, y int, ch rune, fg, bg string) {
	if c := g.at(x, y); c != nil {
		g.release(x, y)
		*c = cell{ch: ch, fg: fg, bg: bg}
	}
}

// write lays s out by display width. Zero-width runes are dropped and a wide
// rune cut by either edge of the grid becomes blanks.
func (g *grid) write(x, y int, s string, fg, bg string) {
	for _, r := range s {
		switch runewidth.RuneWidth(r) {
		case 0:
			continue
		case 2:
			if g.at(x, y) == nil || g.at(x+1, y) == nil {
				g.paint(x, y, ' ', fg, bg)
				g.paint(x+1, y, ' ', fg, bg)
				x += 2
				continue
			}
			g.paint(x, y, r, fg, bg)
			if next := g.at(x+2, y); next != nil && next.ch == 0 {
				next.ch = ' '
			}
			*g.at(x+1, y) = cell{fg: fg, bg: bg}
			x += 2
		default:
			g.paint(x, y, r, fg, bg)
			x++
		}
	}
}

// lines renders each row, grouping runs of identically colored cells into a
// single styled string.
func (g *grid) lines(styles *styleCache) []string {
	out := make([]string, g.height)
	var row, run strings.Builder
	for y := 0; y < g.height; y++ {
		row.Reset()
		run.Reset()
		cur := g.cells[y*g.width]
		for x := 0; x < g.width; x++ {
			c := g.cells[y*g.width+x]
			if c.ch == 0 {
				continue
			}
			if c.fg != cur.fg || c.bg != cur.bg {
				row.WriteString(styles.get(cur.fg, cur.bg).Render(run.String()))
				run.Reset()
				cur = c
			}
			run.WriteRune(c.ch)
		}
		if run.Len() > 0 {
			row.WriteString(styles.get(cur.fg, cur.bg).Render(run.String()))
		}
		out[y] = row.String()
	}
	return out
}

type styleKey struct {
	fg string
	bg string
}

type styleCache struct {
	styles map[styleKey]lipgloss.Style
}

func newStyleCache() *styleCache {
	return &styleCache{styles: make(map[styleKey]lipgloss.Style)}
}

func (c *styleCache) get(fg, bg string) lipgloss.Style {
	key := styleKey{fg: fg, bg: bg}
	if s, ok := c.styles[key]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	c.styles[key] = s
	return s
}

type boxChars struct {
	topLeft, topRight, bottomLeft, bottomRight, horizontal, vertical rune
}

var (
	roundBox = boxChars{'╭', '╮', '╰', '╯', '─', '│'}
	heavyBox = boxChars{'┏', '┓', '┗', '┛', '━', '┃'}
)

// renderBoard draws connections first and notes over them, in board order,
// so later notes cover earlier ones the same way hit testing sees them.
func (m model) renderBoard() []string {
	b := m.ctrl.Board()
	g := newGrid(m.width, m.boardHeight(), b.Palette().Canvas.For(m.theme))
	if g.width == 0 || g.height == 0 {
		return nil
	}
	for _, c := range b.Connections() {
		m.drawConnection(g, b, c)
	}
	source, connecting := m.ctrl.Connecting()
	for _, n := range b.Notes() {
		m.drawNote(g, b, n, connecting && n.ID == source)
	}
	return g.lines(m.styles)
}

func (m model) screenRect(r board.Rect) board.Rect {
	r.X -= m.panX
	r.Y -= m.panY
	return r
}

func (m model) drawConnection(g *grid, b *board.Board, c board.Connection) {
	start, ok1 := b.Note(c.StartNoteID)
	end, ok2 := b.Note(c.EndNoteID)
	if !ok1 || !ok2 {
		return
	}
	geo := b.Geometry()
	fromRect := m.screenRect(geo.NoteRect(start))
	toRect := m.screenRect(geo.NoteRect(end))
	fx, fy := m.toScreen(geo.Center(start))
	tx, ty := m.toScreen(geo.Center(end))

	pts := linePoints(board.Point{X: fx, Y: fy}, board.Point{X: tx, Y: ty})
	for i, p := range pts {
		var step board.Point
		switch {
		case i > 0:
			step = p.Sub(pts[i-1])
		case len(pts) > 1:
			step = pts[1].Sub(p)
		}
		g.set(p.X, p.Y, lineGlyph(step), c.Color)
	}

	// Arrow tips sit on the last cell outside the note they point at.
	if c.Style.ArrowEnd() {
		for i := len(pts) - 1; i >= 0; i-- {
			if toRect.Contains(pts[i]) {
				continue
			}
			if !fromRect.Contains(pts[i]) {
				g.set(pts[i].X, pts[i].Y, arrowGlyph(tx-fx, ty-fy), c.Color)
			}
			break
		}
	}
	if c.Style.ArrowStart() {
		for _, p := range pts {
			if fromRect.Contains(p) {
				continue
			}
			if !toRect.Contains(p) {
				g.set(p.X, p.Y, arrowGlyph(fx-tx, fy-ty), c.Color)
			}
			break
		}
	}
}

// linePoints walks the cells between a and b with Bresenham's algorithm.
func linePoints(a, b board.Point) []board.Point {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	pts := make([]board.Point, 0, max(dx, -dy)+1)
	err := dx + dy
	x, y := a.X, a.Y
	for {
		pts = append(pts, board.Point{X: x, Y: y})
		if x == b.X && y == b.Y {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func lineGlyph(step board.Point) rune {
	switch {
	case step.Y == 0:
		return '─'
	case step.X == 0:
		return '│'
	case (step.X > 0) == (step.Y > 0):
		return '╲'
	}
	return '╱'
}

// arrowGlyph points along (dx, dy). Cells are about twice as tall as they are
// wide, so vertical distance counts double.
func arrowGlyph(dx, dy int) rune {
	if abs(dx) >= 2*abs(dy) {
		if dx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if dy > 0 {
		return '▼'
	}
	return '▲'
}

func (m model) drawNote(g *grid, b *board.Board, n board.Note, source bool) {
	geo := b.Geometry()
	pal := b.Palette()
	swatch := pal.SwatchFor(n, m.theme)
	text := pal.Text.For(m.theme)

	box, border := roundBox, swatch.Border
	if source {
		box, border = heavyBox, m.ctrl.LineColor()
	}

	r := m.screenRect(geo.NoteRect(n))
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for y := r.Y; y <= bottom; y++ {
		for x := r.X; x <= right; x++ {
			ch, fg := ' ', text
			switch {
			case x == r.X && y == r.Y:
				ch, fg = box.topLeft, border
			case x == right && y == r.Y:
				ch, fg = box.topRight, border
			case x == r.X && y == bottom:
				ch, fg = box.bottomLeft, border
			case x == right && y == bottom:
				ch, fg = box.bottomRight, border
			case y == r.Y || y == bottom:
				ch, fg = box.horizontal, border
			case x == r.X || x == right:
				ch, fg = box.vertical, border
			}
			g.paint(x, y, ch, fg, swatch.Background)
		}
	}

	del := m.screenRect(geo.DeleteButton(n))
	g.write(del.X, del.Y, buttonLabel("[x]", del.W), border, swatch.Background)
	handle := m.screenRect(geo.Handle(n))
	g.write(handle.X, handle.Y+handle.H-1, buttonLabel("(o)", handle.W), border, swatch.Background)

	for i, line := range noteText(n, r.W-2, r.H-2) {
		g.write(r.X+1, r.Y+1+i, line, text, swatch.Background)
	}
}

func buttonLabel(label string, width int) string {
	runes := []rune(label)
	if width >= len(runes) {
		return label + strings.Repeat(" ", width-len(runes))
	}
	if width == 1 {
		return string(runes[1])
	}
	return string(runes[:max(width, 0)])
}

// noteText lays the content out inside the note, marking cut-off text with
// an ellipsis.
func noteText(n board.Note, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	content := n.Content
	if n.IsImage() {
		content = "▣ " + board.ImagePlaceholder
	}
	wrapped := wrap.String(wordwrap.String(content, width), width)
	lines := strings.Split(wrapped, "\n")
	if len(lines) > height {
		lines = lines[:height]
		last := strings.TrimRight(lines[height-1], " ")
		lines[height-1] = runewidth.Truncate(last, width-1, "") + "…"
	}
	return lines
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
