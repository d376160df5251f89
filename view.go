package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var result strings.Builder
	if m.mode == ModeHelp {
		result.WriteString(m.help.View())
	} else {
		result.WriteString(strings.Join(m.renderBoard(), "\n"))
	}
	if m.boardHeight() > 0 {
		result.WriteString("\n")
	}
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) modeString() string {
	if _, ok := m.ctrl.Connecting(); ok && m.mode == ModeNormal {
		return "CONNECT"
	}
	if _, ok := m.ctrl.Dragging(); ok && m.mode == ModeNormal {
		return "DRAG"
	}
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeHelp:
		return "HELP"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) historyHint() string {
	switch undo, redo := m.ctrl.CanUndo(), m.ctrl.CanRedo(); {
	case undo && redo:
		return "u/ctrl+r"
	case undo:
		return "u to undo"
	case redo:
		return "ctrl+r to redo"
	}
	return ""
}

func (m model) statusLine() string {
	pal := m.ctrl.Board().Palette()
	bar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(pal.Canvas.For(m.theme))).
		Background(lipgloss.Color(pal.Canvas.For(m.theme.Toggle())))

	var status string
	switch m.mode {
	case ModeConfirm:
		switch m.confirmAction {
		case ConfirmQuit:
			status = "Quit? The board is not saved. (y/n)"
		case ConfirmNewBoard:
			status = "Clear the board? (y/n)"
		}
		status = fmt.Sprintf("Mode: %s | %s", m.modeString(), status)
	case ModeHelp:
		status = fmt.Sprintf("Mode: %s | ↑/↓ scroll | esc, q or ? to close", m.modeString())
	default:
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(m.ctrl.LineColor())).Render("■")
		status = fmt.Sprintf("Mode: %s | Notes: %d | Line: %s %s", m.modeString(), m.ctrl.Board().Len(), swatch, m.ctrl.LineStyle())
		if hint := m.historyHint(); hint != "" {
			status += " | " + hint
		}
		if m.pending > 0 {
			status += fmt.Sprintf(" | Converting %d image(s)", m.pending)
		}
		switch {
		case m.errorMessage != "":
			status += " | ERROR: " + m.errorMessage
		case m.statusMessage != "":
			status += " | " + m.statusMessage
		default:
			status += " | ? for help | q to quit"
		}
	}
	return bar.Width(m.width).Render(truncate.StringWithTail(status, uint(m.width), "…"))
}
