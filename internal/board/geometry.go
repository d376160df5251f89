package board

// Geometry holds the note and hit-area sizes in board units.
type Geometry struct {
	NoteWidth     int
	NoteHeight    int
	ButtonWidth   int
	ButtonHeight  int
	LineTolerance int
	DefaultDrop   Point
}

// PixelGeometry matches a browser board: 96px square notes and a 20px drop
// offset when no pointer position is known.
func PixelGeometry() Geometry {
	return Geometry{
		NoteWidth:     96,
		NoteHeight:    96,
		ButtonWidth:   20,
		ButtonHeight:  20,
		LineTolerance: 4,
		DefaultDrop:   Point{X: 20, Y: 20},
	}
}

// CellGeometry is sized for terminal cells.
func CellGeometry() Geometry {
	return Geometry{
		NoteWidth:     16,
		NoteHeight:    6,
		ButtonWidth:   3,
		ButtonHeight:  1,
		LineTolerance: 1,
		DefaultDrop:   Point{X: 2, Y: 1},
	}
}

func (g Geometry) NoteRect(n Note) Rect {
	return Rect{X: n.X, Y: n.Y, W: g.NoteWidth, H: g.NoteHeight}
}

// DeleteButton is the top-right corner of the note.
func (g Geometry) DeleteButton(n Note) Rect {
	return Rect{X: n.X + g.NoteWidth - g.ButtonWidth, Y: n.Y, W: g.ButtonWidth, H: g.ButtonHeight}
}

// Handle is the connection handle centred on the bottom edge.
func (g Geometry) Handle(n Note) Rect {
	return Rect{
		X: n.X + (g.NoteWidth-g.ButtonWidth)/2,
		Y: n.Y + g.NoteHeight - g.ButtonHeight,
		W: g.ButtonWidth,
		H: g.ButtonHeight,
	}
}

func (g Geometry) Center(n Note) Point {
	return Point{X: n.X + g.NoteWidth/2, Y: n.Y + g.NoteHeight/2}
}

// HalfNote is the offset between a note's centre and its top-left corner.
func (g Geometry) HalfNote() Point {
	return Point{X: g.NoteWidth / 2, Y: g.NoteHeight / 2}
}
