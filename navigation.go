package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"studyboard/internal/board"
)

func (m *model) handlePan(key string) {
	speed := panStep
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		speed *= 2
	}
	switch key {
	case "left", "shift+left":
		m.pan(-speed, 0)
	case "right", "shift+right":
		m.pan(speed, 0)
	case "up", "shift+up":
		m.pan(0, -speed)
	case "down", "shift+down":
		m.pan(0, speed)
	}
}

func (m *model) pan(dx, dy int) {
	m.panX += dx
	m.panY += dy
}

// jumpToNotes pans so the top-left of the notes' bounding box sits one cell
// in from the corner.
func (m *model) jumpToNotes() bool {
	r, ok := m.ctrl.Board().Bounds()
	if !ok {
		return false
	}
	m.panX, m.panY = r.X-1, r.Y-1
	return true
}

// boardHeight is the number of rows the board gets; the rest is status line.
func (m model) boardHeight() int {
	return max(m.height-statusRows, 0)
}

func (m model) inBoard(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.boardHeight()
}

// toBoard maps a screen cell to board units.
func (m model) toBoard(x, y int) board.Point {
	return board.Point{X: x + m.panX, Y: y + m.panY}
}

func (m model) toScreen(p board.Point) (int, int) {
	return p.X - m.panX, p.Y - m.panY
}

// handleMouse turns terminal mouse reports into board pointer events. Only
// presses have to land on the board; moves and releases keep flowing while a
// drag is running so a note can be dropped outside the visible area.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.mode == ModeHelp {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}
	if m.mode != ModeNormal {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.pan(0, -wheelStep)
		return nil
	case tea.MouseButtonWheelDown:
		m.pan(0, wheelStep)
		return nil
	case tea.MouseButtonWheelLeft:
		m.pan(-wheelStep, 0)
		return nil
	case tea.MouseButtonWheelRight:
		m.pan(wheelStep, 0)
		return nil
	}

	_, dragging := m.ctrl.Dragging()
	ev := board.PointerEvent{Pos: m.toBoard(msg.X, msg.Y)}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.inBoard(msg.X, msg.Y) {
			return nil
		}
		ev.Kind = board.PointerPress
	case tea.MouseActionMotion:
		if !dragging && !m.inBoard(msg.X, msg.Y) {
			return nil
		}
		ev.Kind = board.PointerMove
	case tea.MouseActionRelease:
		ev.Kind = board.PointerRelease
	default:
		return nil
	}

	m.reportEffect(m.ctrl.HandlePointer(ev))
	return nil
}

func (m *model) reportEffect(eff board.Effect) {
	switch eff.Outcome {
	case board.OutcomeNone, board.OutcomeNoteMoved:
		return
	case board.OutcomeConnectStarted:
		m.setStatus("Connecting: click another note, esc to cancel")
	case board.OutcomeConnected:
		m.setStatus("Connected")
	case board.OutcomeConnectCancelled:
		m.setStatus("Connection cancelled")
	case board.OutcomeConnectionRemoved:
		m.setStatus("Connection removed")
	case board.OutcomeNoteDeleted:
		m.setStatus("Note deleted")
	case board.OutcomeDragStarted, board.OutcomeDragEnded:
		m.statusMessage = ""
	}
	m.logger.Debug("pointer", zap.Stringer("outcome", eff.Outcome), zap.String("note", eff.NoteID), zap.String("connection", eff.ConnectionID))
}
