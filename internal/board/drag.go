package board

type DragState int

const (
	DragIdle DragState = iota
	Dragging
)

// Drag tracks a single note being moved by the pointer.
type Drag struct {
	state  DragState
	noteID string
	offset Point
	origin Point
}

func (d *Drag) Active() bool     { return d.state == Dragging }
func (d *Drag) NoteID() string   { return d.noteID }

// Begin captures where inside the note the pointer went down.
func (d *Drag) Begin(n Note, at Point) {
	d.state = Dragging
	d.noteID = n.ID
	d.origin = n.Position()
	d.offset = at.Sub(d.origin)
}

// Target is the top-left the note should move to for a pointer at p.
func (d *Drag) Target(p Point) Point {
	return p.Sub(d.offset)
}

// End clears the drag state no matter where the pointer is.
func (d *Drag) End() (noteID string, origin Point, ok bool) {
	if d.state != Dragging {
		return "", Point{}, false
	}
	noteID, origin = d.noteID, d.origin
	*d = Drag{}
	return noteID, origin, true
}
