// Package board holds the in-memory notes board: notes, the connections
// between them, and the controllers that turn pointer and clipboard events
// into board mutations. Nothing here is persisted.
package board

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var (
	ErrNoteNotFound       = errors.New("note not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrSelfConnection     = errors.New("a connection needs two different notes")
)

type IDFunc func() string

type Option func(*Board)

func WithIDs(f IDFunc) Option {
	return func(b *Board) { b.newID = f }
}

func WithPalette(p Palette) Option {
	return func(b *Board) { b.palette = p }
}

func WithGeometry(g Geometry) Option {
	return func(b *Board) { b.geometry = g }
}

type Board struct {
	palette     Palette
	geometry    Geometry
	newID       IDFunc
	notes       []Note
	connections []Connection
	epoch       int
}

func New(opts ...Option) *Board {
	b := &Board{
		palette:     DefaultPalette(),
		geometry:    PixelGeometry(),
		newID:       uuid.NewString,
		notes:       make([]Note, 0),
		connections: make([]Connection, 0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Palette() Palette   { return b.palette }
func (b *Board) Geometry() Geometry { return b.geometry }

// Epoch changes every time the board is cleared.
func (b *Board) Epoch() int { return b.epoch }

func (b *Board) Len() int { return len(b.notes) }

func (b *Board) Empty() bool {
	return len(b.notes) == 0 && len(b.connections) == 0
}

func (b *Board) Notes() []Note {
	return append([]Note(nil), b.notes...)
}

func (b *Board) Connections() []Connection {
	return append([]Connection(nil), b.connections...)
}

func (b *Board) Note(id string) (Note, bool) {
	if i := b.noteIndex(id); i >= 0 {
		return b.notes[i], true
	}
	return Note{}, false
}

func (b *Board) Connection(id string) (Connection, bool) {
	for _, c := range b.connections {
		if c.ID == id {
			return c, true
		}
	}
	return Connection{}, false
}

func (b *Board) noteIndex(id string) int {
	for i, n := range b.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// NextColor is the palette entry the next note will get.
func (b *Board) NextColor() string {
	return b.palette.ForIndex(len(b.notes)).ID
}

func (b *Board) AddNote(content, imageURL string, at Point) Note {
	note := Note{
		ID:       b.newID(),
		Content:  content,
		Color:    b.NextColor(),
		ImageURL: imageURL,
		X:        at.X,
		Y:        at.Y,
	}
	b.notes = append(b.notes, note)
	return note
}

func (b *Board) insertNote(idx int, note Note) {
	if idx < 0 || idx > len(b.notes) {
		idx = len(b.notes)
	}
	b.notes = append(b.notes, Note{})
	copy(b.notes[idx+1:], b.notes[idx:])
	b.notes[idx] = note
}

// DeleteNote removes the note and every connection that references it. The
// removed note, its former index and the removed connections are returned so
// the deletion can be undone.
func (b *Board) DeleteNote(id string) (Note, int, []Connection, error) {
	idx := b.noteIndex(id)
	if idx < 0 {
		return Note{}, -1, nil, fmt.Errorf("delete note %s: %w", id, ErrNoteNotFound)
	}
	note := b.notes[idx]
	b.notes = append(b.notes[:idx], b.notes[idx+1:]...)

	var removed []Connection
	kept := make([]Connection, 0, len(b.connections))
	for _, c := range b.connections {
		if c.Touches(id) {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	b.connections = kept
	return note, idx, removed, nil
}

func (b *Board) SetNotePosition(id string, p Point) error {
	idx := b.noteIndex(id)
	if idx < 0 {
		return fmt.Errorf("move note %s: %w", id, ErrNoteNotFound)
	}
	b.notes[idx].X = p.X
	b.notes[idx].Y = p.Y
	return nil
}

func (b *Board) MoveNote(id string, dx, dy int) error {
	note, ok := b.Note(id)
	if !ok {
		return fmt.Errorf("move note %s: %w", id, ErrNoteNotFound)
	}
	return b.SetNotePosition(id, Point{X: note.X + dx, Y: note.Y + dy})
}

func (b *Board) AddConnection(startID, endID, color string, style ConnectionStyle) (Connection, error) {
	if startID == endID {
		return Connection{}, ErrSelfConnection
	}
	if b.noteIndex(startID) < 0 {
		return Connection{}, fmt.Errorf("connect from %s: %w", startID, ErrNoteNotFound)
	}
	if b.noteIndex(endID) < 0 {
		return Connection{}, fmt.Errorf("connect to %s: %w", endID, ErrNoteNotFound)
	}
	conn := Connection{
		ID:          b.newID(),
		StartNoteID: startID,
		EndNoteID:   endID,
		Color:       color,
		Style:       style,
	}
	b.connections = append(b.connections, conn)
	return conn, nil
}

func (b *Board) RemoveConnection(id string) (Connection, error) {
	for i, c := range b.connections {
		if c.ID == id {
			b.connections = append(b.connections[:i], b.connections[i+1:]...)
			return c, nil
		}
	}
	return Connection{}, fmt.Errorf("remove connection %s: %w", id, ErrConnectionNotFound)
}

// restoreConnection puts back a connection removed earlier, as long as both
// endpoints still exist.
func (b *Board) restoreConnection(c Connection) {
	if b.noteIndex(c.StartNoteID) < 0 || b.noteIndex(c.EndNoteID) < 0 {
		return
	}
	if _, ok := b.Connection(c.ID); ok {
		return
	}
	b.connections = append(b.connections, c)
}

// NoteAt returns the topmost note under p. Later notes are drawn on top.
func (b *Board) NoteAt(p Point) (Note, bool) {
	for i := len(b.notes) - 1; i >= 0; i-- {
		if b.geometry.NoteRect(b.notes[i]).Contains(p) {
			return b.notes[i], true
		}
	}
	return Note{}, false
}

// ConnectionAt returns the connection whose centre-to-centre segment passes
// within the line tolerance of p.
func (b *Board) ConnectionAt(p Point) (Connection, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i, c := range b.connections {
		from, ok1 := b.Center(c.StartNoteID)
		to, ok2 := b.Center(c.EndNoteID)
		if !ok1 || !ok2 {
			continue
		}
		d := distanceToSegment(p, from, to)
		if d <= float64(b.geometry.LineTolerance) && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Connection{}, false
	}
	return b.connections[best], true
}

func (b *Board) Center(id string) (Point, bool) {
	note, ok := b.Note(id)
	if !ok {
		return Point{}, false
	}
	return b.geometry.Center(note), true
}

// Bounds is the smallest rectangle covering every note.
func (b *Board) Bounds() (Rect, bool) {
	if len(b.notes) == 0 {
		return Rect{}, false
	}
	r := b.geometry.NoteRect(b.notes[0])
	for _, n := range b.notes[1:] {
		r = r.Union(b.geometry.NoteRect(n))
	}
	return r, true
}

// Clone copies the board so a snapshot can be handed to another goroutine.
func (b *Board) Clone() *Board {
	c := *b
	c.notes = b.Notes()
	c.connections = b.Connections()
	return &c
}

func (b *Board) Clear() {
	b.notes = b.notes[:0]
	b.connections = b.connections[:0]
	b.epoch++
}

func distanceToSegment(p, a, b Point) float64 {
	px, py := float64(p.X), float64(p.Y)
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
