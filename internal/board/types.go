package board

// ImagePlaceholder is the content of notes created from a pasted image.
const ImagePlaceholder = "Image"

type ConnectionStyle string

const (
	StyleLine       ConnectionStyle = "line"
	StyleArrowStart ConnectionStyle = "arrow-start"
	StyleArrowEnd   ConnectionStyle = "arrow-end"
	StyleArrowBoth  ConnectionStyle = "arrow-both"
)

var connectionStyles = []ConnectionStyle{StyleLine, StyleArrowStart, StyleArrowEnd, StyleArrowBoth}

// Next cycles line -> arrow-start -> arrow-end -> arrow-both -> line.
func (s ConnectionStyle) Next() ConnectionStyle {
	for i, style := range connectionStyles {
		if style == s {
			return connectionStyles[(i+1)%len(connectionStyles)]
		}
	}
	return StyleLine
}

func (s ConnectionStyle) ArrowStart() bool {
	return s == StyleArrowStart || s == StyleArrowBoth
}

func (s ConnectionStyle) ArrowEnd() bool {
	return s == StyleArrowEnd || s == StyleArrowBoth
}

func (s ConnectionStyle) HasArrows() bool {
	return s.ArrowStart() || s.ArrowEnd()
}

type Note struct {
	ID       string
	Content  string
	Color    string
	ImageURL string
	X        int
	Y        int
}

func (n Note) IsImage() bool {
	return n.ImageURL != ""
}

func (n Note) Position() Point {
	return Point{X: n.X, Y: n.Y}
}

type Connection struct {
	ID          string
	StartNoteID string
	EndNoteID   string
	Color       string
	Style       ConnectionStyle
}

func (c Connection) Touches(noteID string) bool {
	return c.StartNoteID == noteID || c.EndNoteID == noteID
}

type Point struct {
	X, Y int
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) Union(o Rect) Rect {
	minX, minY := min(r.X, o.X), min(r.Y, o.Y)
	maxX, maxY := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
