package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"studyboard/internal/board"
)

const helpMarkdown = `# studyboard

A scratch board of sticky notes. Nothing is saved when you quit; export what
you want to keep.

## Mouse

| Action | Effect |
| --- | --- |
| drag a note | move it |
| click **[x]** | delete the note and its lines |
| click **(o)** | start a line from that note |
| click another note | finish the line |
| click empty board | cancel the line |
| click a line | remove it |
| wheel | scroll the board |

## Keys

| Key | Effect |
| --- | --- |
| ctrl+v | paste text or an image from the clipboard |
| s | cycle line style: line, arrow at start, arrow at end, both |
| 1-6 | pick the line color |
| x / delete | delete the note under the pointer |
| esc | cancel the line being drawn |
| u / ctrl+r | undo / redo |
| arrows | pan (shift for faster) |
| home | jump to the notes |
| t | toggle light and dark theme |
| e / p | export SVG / PNG |
| n | new board |
| ? | this help |
| q | quit |

Pasting in the terminal (bracketed paste) also adds a note. A path to an
image file or a ` + "`data:image/...`" + ` URL becomes an image note.
`

func renderHelp(theme board.Theme, width int) string {
	style := "light"
	if theme == board.ThemeDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

func (m *model) openHelp() {
	m.mode = ModeHelp
	m.resizeHelp()
	m.help.GotoTop()
}

func (m *model) resizeHelp() {
	m.help.Width = m.width
	m.help.Height = m.boardHeight()
	if m.mode == ModeHelp {
		m.help.SetContent(renderHelp(m.theme, m.width))
	}
}

func (m *model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = ModeNormal
		return nil
	case "ctrl+c":
		return tea.Quit
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return cmd
}
