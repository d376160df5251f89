package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"studyboard/internal/board"
	"studyboard/internal/export"
)

// exportOptions describes the visible part of the board, so an export looks
// like what is on screen.
func (m model) exportOptions() export.Options {
	return export.Options{
		Theme:  m.theme,
		Origin: board.Point{X: m.panX, Y: m.panY},
		Width:  m.width,
		Height: m.boardHeight(),
		ScaleX: m.config.Export.CellWidth,
		ScaleY: m.config.Export.CellHeight,
	}
}

// The board is copied before the command runs; the UI keeps mutating the
// original while the file is written.
func (m *model) exportSVG() tea.Cmd {
	snapshot := m.ctrl.Board().Clone()
	opts := m.exportOptions()
	path := m.config.GetSavePath(m.config.Export.SVGName)
	m.setStatus("Exporting SVG...")
	return func() tea.Msg {
		return exportDoneMsg{format: "SVG", path: path, err: export.SaveSVG(snapshot, opts, path)}
	}
}

func (m *model) exportPNG() tea.Cmd {
	snapshot := m.ctrl.Board().Clone()
	opts := m.exportOptions()
	path := m.config.GetSavePath(m.config.Export.PNGName)
	m.setStatus("Exporting PNG...")
	return func() tea.Msg {
		return exportDoneMsg{format: "PNG", path: path, err: export.SavePNG(snapshot, opts, path)}
	}
}
