package board

import "fmt"

type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

// PointerEvent is what a platform layer delivers: a press, move or release at
// a position already translated into board units.
type PointerEvent struct {
	Kind PointerKind
	Pos  Point
}

type Target int

const (
	TargetCanvas Target = iota
	TargetNote
	TargetDelete
	TargetHandle
	TargetLine
)

type Hit struct {
	Target       Target
	NoteID       string
	ConnectionID string
}

// HitTest resolves what is under p. Notes sit above lines; within a note the
// delete button and the handle take precedence over the body.
func (b *Board) HitTest(p Point) Hit {
	if note, ok := b.NoteAt(p); ok {
		switch {
		case b.geometry.DeleteButton(note).Contains(p):
			return Hit{Target: TargetDelete, NoteID: note.ID}
		case b.geometry.Handle(note).Contains(p):
			return Hit{Target: TargetHandle, NoteID: note.ID}
		}
		return Hit{Target: TargetNote, NoteID: note.ID}
	}
	if conn, ok := b.ConnectionAt(p); ok {
		return Hit{Target: TargetLine, ConnectionID: conn.ID}
	}
	return Hit{Target: TargetCanvas}
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeNoteDeleted
	OutcomeDragStarted
	OutcomeNoteMoved
	OutcomeDragEnded
	OutcomeConnectStarted
	OutcomeConnected
	OutcomeConnectCancelled
	OutcomeConnectionRemoved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoteDeleted:
		return "note deleted"
	case OutcomeDragStarted:
		return "drag started"
	case OutcomeNoteMoved:
		return "note moved"
	case OutcomeDragEnded:
		return "drag ended"
	case OutcomeConnectStarted:
		return "connecting"
	case OutcomeConnected:
		return "connected"
	case OutcomeConnectCancelled:
		return "connect cancelled"
	case OutcomeConnectionRemoved:
		return "connection removed"
	}
	return "none"
}

// Effect reports what a pointer event did to the board.
type Effect struct {
	Outcome      Outcome
	NoteID       string
	ConnectionID string
}

// Controller owns the board and every piece of interaction state around it.
type Controller struct {
	board      *Board
	history    History
	drag       Drag
	connect    Connect
	pointer    Point
	hasPointer bool
	lineColor  string
	lineStyle  ConnectionStyle
}

func NewController(b *Board) *Controller {
	return &Controller{
		board:     b,
		lineColor: b.palette.Line(0),
		lineStyle: StyleLine,
	}
}

func (c *Controller) Board() *Board { return c.board }

func (c *Controller) Dragging() (string, bool) {
	return c.drag.NoteID(), c.drag.Active()
}

func (c *Controller) Connecting() (string, bool) {
	return c.connect.Source()
}

func (c *Controller) Pointer() (Point, bool) {
	return c.pointer, c.hasPointer
}

func (c *Controller) LineColor() string          { return c.lineColor }
func (c *Controller) LineStyle() ConnectionStyle { return c.lineStyle }

func (c *Controller) SelectLineColor(i int) error {
	if i < 0 || i >= len(c.board.palette.Lines) {
		return fmt.Errorf("line color %d out of range", i+1)
	}
	c.lineColor = c.board.palette.Lines[i]
	return nil
}

func (c *Controller) CycleLineStyle() ConnectionStyle {
	c.lineStyle = c.lineStyle.Next()
	return c.lineStyle
}

func (c *Controller) HandlePointer(ev PointerEvent) Effect {
	switch ev.Kind {
	case PointerPress:
		c.track(ev.Pos)
		return c.press(ev.Pos)
	case PointerMove:
		c.track(ev.Pos)
		return c.move(ev.Pos)
	case PointerRelease:
		return c.release()
	}
	return Effect{}
}

func (c *Controller) track(p Point) {
	c.pointer = p
	c.hasPointer = true
}

func (c *Controller) press(p Point) Effect {
	hit := c.board.HitTest(p)
	switch hit.Target {
	case TargetDelete:
		if err := c.DeleteNote(hit.NoteID); err != nil {
			return Effect{}
		}
		return Effect{Outcome: OutcomeNoteDeleted, NoteID: hit.NoteID}

	case TargetHandle:
		c.connect.Start(hit.NoteID)
		return Effect{Outcome: OutcomeConnectStarted, NoteID: hit.NoteID}

	case TargetNote:
		if source, ok := c.connect.Complete(hit.NoteID); ok {
			conn, err := c.board.AddConnection(source, hit.NoteID, c.lineColor, c.lineStyle)
			if err != nil {
				return Effect{}
			}
			c.history.Record(Action{Type: ActionAddConnection, Connections: []Connection{conn}})
			return Effect{Outcome: OutcomeConnected, NoteID: hit.NoteID, ConnectionID: conn.ID}
		}
		note, _ := c.board.Note(hit.NoteID)
		c.drag.Begin(note, p)
		return Effect{Outcome: OutcomeDragStarted, NoteID: note.ID}

	case TargetLine:
		c.connect.Cancel()
		if err := c.RemoveConnection(hit.ConnectionID); err != nil {
			return Effect{}
		}
		return Effect{Outcome: OutcomeConnectionRemoved, ConnectionID: hit.ConnectionID}
	}

	if c.connect.Cancel() {
		return Effect{Outcome: OutcomeConnectCancelled}
	}
	return Effect{}
}

func (c *Controller) move(p Point) Effect {
	if !c.drag.Active() {
		return Effect{}
	}
	id := c.drag.NoteID()
	if err := c.board.SetNotePosition(id, c.drag.Target(p)); err != nil {
		c.drag.End()
		return Effect{}
	}
	return Effect{Outcome: OutcomeNoteMoved, NoteID: id}
}

func (c *Controller) release() Effect {
	id, origin, ok := c.drag.End()
	if !ok {
		return Effect{}
	}
	note, exists := c.board.Note(id)
	if exists && note.Position() != origin {
		c.history.Record(Action{Type: ActionMoveNote, Note: note, From: origin})
	}
	return Effect{Outcome: OutcomeDragEnded, NoteID: id}
}

// DeleteNote removes a note and its connections, cancelling any gesture that
// depends on it.
func (c *Controller) DeleteNote(id string) error {
	note, idx, removed, err := c.board.DeleteNote(id)
	if err != nil {
		return err
	}
	if source, ok := c.connect.Source(); ok && source == id {
		c.connect.Cancel()
	}
	if c.drag.Active() && c.drag.NoteID() == id {
		c.drag.End()
	}
	c.history.Record(Action{Type: ActionDeleteNote, Note: note, Index: idx, Connections: removed})
	return nil
}

func (c *Controller) RemoveConnection(id string) error {
	conn, err := c.board.RemoveConnection(id)
	if err != nil {
		return err
	}
	c.history.Record(Action{Type: ActionDeleteConnection, Connections: []Connection{conn}})
	return nil
}

func (c *Controller) CancelConnecting() bool {
	return c.connect.Cancel()
}

func (c *Controller) CanUndo() bool { return c.history.CanUndo() }
func (c *Controller) CanRedo() bool { return c.history.CanRedo() }

func (c *Controller) Undo() bool {
	c.settle()
	return c.history.Undo(c.board)
}

func (c *Controller) Redo() bool {
	c.settle()
	return c.history.Redo(c.board)
}

// Clear empties the board and forgets history and gestures. Pastes still in
// flight are dropped because the board epoch changes.
func (c *Controller) Clear() {
	c.settle()
	c.history.Reset()
	c.board.Clear()
}

func (c *Controller) settle() {
	c.drag.End()
	c.connect.Cancel()
}
