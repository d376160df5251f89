package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"studyboard/internal/board"
	"studyboard/internal/clip"
	"studyboard/internal/config"
)

func newModel(ctrl *board.Controller, src *clip.Source, cfg *config.Config, logger *zap.Logger) model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return model{
		ctrl:   ctrl,
		clip:   src,
		encode: clip.EncodeDataURL,
		config: cfg,
		logger: logger,
		theme:  cfg.ThemeValue(),
		mode:   ModeNormal,
		help:   viewport.New(0, 0),
		styles: newStyleCache(),
	}
}

func (m model) Init() tea.Cmd {
	return waitForConfig(m.updates)
}

func waitForConfig(updates <-chan config.Update) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return configUpdateMsg(u)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeHelp()
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case ModeHelp:
			return m, m.handleHelpKey(msg)
		case ModeConfirm:
			return m, m.handleConfirmKey(msg)
		}
		return m, m.handleKey(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.fail("paste", msg.err)
			return m, nil
		}
		return m, m.beginPaste(msg.items)

	case pasteResolvedMsg:
		m.pending--
		m.finishPaste(msg)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.fail("export "+msg.format, msg.err)
			return m, nil
		}
		m.logger.Info("exported board", zap.String("format", msg.format), zap.String("path", msg.path))
		m.setStatus(fmt.Sprintf("Exported %s to %s", msg.format, msg.path))
		return m, nil

	case configUpdateMsg:
		m.applyConfig(config.Update(msg))
		return m, waitForConfig(m.updates)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Paste {
		return m.beginPaste(m.clip.Items(string(msg.Runes)))
	}

	key := msg.String()
	switch key {
	case "ctrl+c":
		return tea.Quit
	case "q":
		if m.config.Confirmations && !m.ctrl.Board().Empty() {
			m.confirm(ConfirmQuit)
			return nil
		}
		return tea.Quit
	case "n":
		if m.ctrl.Board().Empty() {
			return nil
		}
		if m.config.Confirmations {
			m.confirm(ConfirmNewBoard)
			return nil
		}
		m.newBoard()
	case "ctrl+v":
		m.setStatus("Reading clipboard...")
		return readClipboard(m.clip)
	case "s":
		style := m.ctrl.CycleLineStyle()
		m.setStatus("Line style: " + string(style))
	case "1", "2", "3", "4", "5", "6":
		if err := m.ctrl.SelectLineColor(int(key[0] - '1')); err != nil {
			m.fail("line color", err)
			break
		}
		m.setStatus("Line color: " + m.ctrl.LineColor())
	case "x", "delete":
		m.deleteUnderPointer()
	case "esc":
		if m.ctrl.CancelConnecting() {
			m.setStatus("Connection cancelled")
		}
	case "u":
		if m.ctrl.Undo() {
			m.setStatus("Undone")
		} else {
			m.setStatus("Nothing to undo")
		}
	case "ctrl+r":
		if m.ctrl.Redo() {
			m.setStatus("Redone")
		} else {
			m.setStatus("Nothing to redo")
		}
	case "home":
		if m.jumpToNotes() {
			m.setStatus("Showing all notes")
		} else {
			m.setStatus("No notes")
		}
	case "left", "right", "up", "down", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handlePan(key)
	case "t":
		m.theme = m.theme.Toggle()
		m.setStatus("Theme: " + m.theme.String())
	case "e":
		return m.exportSVG()
	case "p":
		return m.exportPNG()
	case "?":
		m.openHelp()
	}
	return nil
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return tea.Quit
		case ConfirmNewBoard:
			m.newBoard()
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.setStatus("")
	}
	return nil
}

func (m *model) confirm(action ConfirmAction) {
	m.mode = ModeConfirm
	m.confirmAction = action
}

func (m *model) newBoard() {
	m.ctrl.Clear()
	m.panX, m.panY = 0, 0
	m.setStatus("New board")
}

func (m *model) deleteUnderPointer() {
	p, ok := m.ctrl.Pointer()
	if !ok {
		return
	}
	note, ok := m.ctrl.Board().NoteAt(p)
	if !ok {
		return
	}
	if err := m.ctrl.DeleteNote(note.ID); err != nil {
		m.fail("delete note", err)
		return
	}
	m.setStatus("Note deleted")
}

func (m *model) applyConfig(u config.Update) {
	if u.Err != nil {
		m.fail("reload config", u.Err)
		return
	}
	if m.overrides != nil {
		m.overrides(u.Config)
	}
	m.config = u.Config
	m.theme = u.Config.ThemeValue()
	m.logger.Info("config reloaded", zap.String("theme", m.theme.String()))
	m.setStatus("Config reloaded")
}

func (m *model) setStatus(msg string) {
	m.statusMessage = msg
	m.errorMessage = ""
}

func (m *model) fail(op string, err error) {
	m.logger.Warn(op+" failed", zap.Error(err))
	m.statusMessage = ""
	m.errorMessage = fmt.Sprintf("%s: %v", op, err)
}

// readClipboard runs the clipboard read off the UI loop; pbpaste can block.
func readClipboard(src *clip.Source) tea.Cmd {
	return func() tea.Msg {
		items, err := src.Read()
		return clipboardMsg{items: items, err: err}
	}
}

// beginPaste captures the drop point now. Text lands immediately; images are
// converted in a command and committed when the result comes back.
func (m *model) beginPaste(items []board.ClipboardItem) tea.Cmd {
	p, ok := m.ctrl.BeginPaste(items)
	if !ok {
		m.setStatus("Nothing to paste")
		return nil
	}
	if !p.IsImage() {
		content, url, _ := p.Resolve(nil)
		m.commitPaste(p, content, url)
		return nil
	}

	m.pending++
	m.setStatus("Converting image...")
	encode := m.encode
	return func() tea.Msg {
		content, url, err := p.Resolve(encode)
		return pasteResolvedMsg{paste: p, content: content, imageURL: url, err: err}
	}
}

func (m *model) finishPaste(msg pasteResolvedMsg) {
	if msg.err != nil {
		m.fail("paste image", msg.err)
		return
	}
	m.commitPaste(msg.paste, msg.content, msg.imageURL)
}

func (m *model) commitPaste(p board.Paste, content, url string) {
	note, err := m.ctrl.CommitPaste(p, content, url)
	if errors.Is(err, board.ErrStalePaste) {
		m.logger.Info("dropped paste for a cleared board")
		m.setStatus("Paste dropped: the board was cleared")
		return
	}
	if err != nil {
		m.fail("paste", err)
		return
	}
	m.logger.Debug("note added", zap.String("id", note.ID), zap.Bool("image", note.IsImage()))
	m.setStatus("Note added")
}
