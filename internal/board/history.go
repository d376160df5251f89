package board

type ActionType int

const (
	ActionAddNote ActionType = iota
	ActionDeleteNote
	ActionMoveNote
	ActionAddConnection
	ActionDeleteConnection
)

// Action is one undoable board mutation. Note holds the note as it was after
// the action (before it, for deletes); From is the start of a move.
type Action struct {
	Type        ActionType
	Note        Note
	Index       int
	From        Point
	Connections []Connection
}

type History struct {
	undoStack []Action
	redoStack []Action
}

func (h *History) Record(a Action) {
	h.undoStack = append(h.undoStack, a)
	h.redoStack = h.redoStack[:0]
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

func (h *History) Reset() {
	h.undoStack = nil
	h.redoStack = nil
}

func (h *History) Undo(b *Board) bool {
	if len(h.undoStack) == 0 {
		return false
	}
	last := len(h.undoStack) - 1
	action := h.undoStack[last]
	h.undoStack = h.undoStack[:last]

	switch action.Type {
	case ActionAddNote:
		b.DeleteNote(action.Note.ID)
	case ActionDeleteNote:
		b.insertNote(action.Index, action.Note)
		for _, c := range action.Connections {
			b.restoreConnection(c)
		}
	case ActionMoveNote:
		b.SetNotePosition(action.Note.ID, action.From)
	case ActionAddConnection:
		for _, c := range action.Connections {
			b.RemoveConnection(c.ID)
		}
	case ActionDeleteConnection:
		for _, c := range action.Connections {
			b.restoreConnection(c)
		}
	}

	h.redoStack = append(h.redoStack, action)
	return true
}

func (h *History) Redo(b *Board) bool {
	if len(h.redoStack) == 0 {
		return false
	}
	last := len(h.redoStack) - 1
	action := h.redoStack[last]
	h.redoStack = h.redoStack[:last]

	switch action.Type {
	case ActionAddNote:
		b.insertNote(action.Index, action.Note)
	case ActionDeleteNote:
		b.DeleteNote(action.Note.ID)
	case ActionMoveNote:
		b.SetNotePosition(action.Note.ID, action.Note.Position())
	case ActionAddConnection:
		for _, c := range action.Connections {
			b.restoreConnection(c)
		}
	case ActionDeleteConnection:
		for _, c := range action.Connections {
			b.RemoveConnection(c.ID)
		}
	}

	h.undoStack = append(h.undoStack, action)
	return true
}
