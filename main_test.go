package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studyboard/internal/board"
	"studyboard/internal/clip"
	"studyboard/internal/config"
)

func seqIDs() board.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func newTestModel(t *testing.T, clipboard string) model {
	t.Helper()
	b := board.New(board.WithIDs(seqIDs()), board.WithGeometry(board.CellGeometry()))
	src := clip.NewSource(func() (string, error) { return clipboard, nil })
	cfg := config.Default()
	cfg.SaveDirectory = t.TempDir()
	m := newModel(board.NewController(b), src, cfg, zap.NewNop())
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := sendCmd(t, m, msg)
	return next
}

func sendCmd(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok, "Update returned %T", next)
	return nm, cmd
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pasted(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Paste: true}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func onlyNote(t *testing.T, m model) board.Note {
	t.Helper()
	notes := m.ctrl.Board().Notes()
	require.Len(t, notes, 1)
	return notes[0]
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	url, err := clip.EncodeDataURL(board.ClipboardItem{Type: "image/png", Data: buf.Bytes()})
	require.NoError(t, err)
	return url
}

func TestBracketedPasteDropsNoteUnderPointer(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, motion(30, 10))
	m = send(t, m, pasted("hello"))

	n := onlyNote(t, m)
	assert.Equal(t, "hello", n.Content)
	assert.Equal(t, board.Point{X: 22, Y: 7}, n.Position())
	assert.Equal(t, "Note added", m.statusMessage)
}

func TestPasteWithoutPointerUsesDefaultDrop(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, pasted("first"))
	assert.Equal(t, board.CellGeometry().DefaultDrop, onlyNote(t, m).Position())
}

func TestBlankPasteIsIgnored(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, pasted("   \n\t"))
	assert.Zero(t, m.ctrl.Board().Len())
	assert.Equal(t, "Nothing to paste", m.statusMessage)
}

func TestMouseDragMovesNoteAndUndoRestores(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, pasted("drag me"))
	start := onlyNote(t, m).Position()

	m = send(t, m, press(start.X+3, start.Y+2))
	_, dragging := m.ctrl.Dragging()
	require.True(t, dragging)
	assert.Equal(t, "DRAG", m.modeString())

	m = send(t, m, motion(25, 10))
	m = send(t, m, release(25, 10))
	assert.Equal(t, board.Point{X: 22, Y: 8}, onlyNote(t, m).Position())
	_, dragging = m.ctrl.Dragging()
	assert.False(t, dragging)

	m = send(t, m, keys("u"))
	assert.Equal(t, start, onlyNote(t, m).Position())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, board.Point{X: 22, Y: 8}, onlyNote(t, m).Position())
}

func TestReleaseOutsideBoardStillEndsDrag(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, pasted("edge"))

	m = send(t, m, press(5, 3))
	m = send(t, m, motion(5, 23))
	m = send(t, m, release(200, 200))
	_, dragging := m.ctrl.Dragging()
	assert.False(t, dragging)
	assert.Equal(t, board.Point{X: 2, Y: 21}, onlyNote(t, m).Position())
}

// twoNotes puts note a at (2,1) and note b at (40,10).
func twoNotes(t *testing.T) (model, board.Note, board.Note) {
	t.Helper()
	m := newTestModel(t, "")
	m = send(t, m, pasted("a"))
	m = send(t, m, motion(48, 13))
	m = send(t, m, pasted("b"))
	notes := m.ctrl.Board().Notes()
	require.Len(t, notes, 2)
	require.Equal(t, board.Point{X: 40, Y: 10}, notes[1].Position())
	return m, notes[0], notes[1]
}

func TestConnectNotesWithMouse(t *testing.T) {
	m, a, b := twoNotes(t)

	m = send(t, m, keys("s"))
	m = send(t, m, keys("2"))
	m = send(t, m, press(9, 6))
	source, ok := m.ctrl.Connecting()
	require.True(t, ok)
	assert.Equal(t, a.ID, source)
	assert.Equal(t, "CONNECT", m.modeString())
	m = send(t, m, release(9, 6))

	m = send(t, m, press(5, 3))
	_, ok = m.ctrl.Connecting()
	assert.True(t, ok, "a press on the source note keeps connecting")
	m = send(t, m, release(5, 3))

	m = send(t, m, press(45, 12))
	_, ok = m.ctrl.Connecting()
	assert.False(t, ok)

	conns := m.ctrl.Board().Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, a.ID, conns[0].StartNoteID)
	assert.Equal(t, b.ID, conns[0].EndNoteID)
	assert.Equal(t, board.StyleArrowStart, conns[0].Style)
	assert.Equal(t, "#ef4444", conns[0].Color)
	assert.Equal(t, "Connected", m.statusMessage)

	m = send(t, m, press(29, 8))
	assert.Empty(t, m.ctrl.Board().Connections())
	assert.Equal(t, "Connection removed", m.statusMessage)
}

func TestEscCancelsConnecting(t *testing.T) {
	m, _, _ := twoNotes(t)
	m = send(t, m, press(9, 6))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, ok := m.ctrl.Connecting()
	assert.False(t, ok)
	assert.Equal(t, "Connection cancelled", m.statusMessage)
}

func TestDeleteButtonAndKey(t *testing.T) {
	m, a, b := twoNotes(t)
	_, err := m.ctrl.Board().AddConnection(a.ID, b.ID, "#64748b", board.StyleLine)
	require.NoError(t, err)

	// [x] of note a sits on the top-right corner.
	m = send(t, m, press(16, 1))
	_, ok := m.ctrl.Board().Note(a.ID)
	assert.False(t, ok)
	assert.Empty(t, m.ctrl.Board().Connections())

	m = send(t, m, motion(45, 12))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Zero(t, m.ctrl.Board().Len())
}

func TestLineColorOutOfRangeIsReported(t *testing.T) {
	m := newTestModel(t, "")
	pal := board.DefaultPalette()
	pal.Lines = pal.Lines[:2]
	b := board.New(board.WithPalette(pal), board.WithGeometry(board.CellGeometry()))
	m.ctrl = board.NewController(b)

	m = send(t, m, keys("5"))
	assert.Contains(t, m.errorMessage, "line color")
	assert.Equal(t, pal.Lines[0], m.ctrl.LineColor())
}

func TestClipboardImagePasteIsConvertedInCommand(t *testing.T) {
	m := newTestModel(t, pngDataURL(t))

	m, cmd := sendCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlV})
	require.NotNil(t, cmd)
	m, cmd = sendCmd(t, m, cmd())
	require.NotNil(t, cmd, "image conversion runs as a command")
	assert.Equal(t, 1, m.pending)
	assert.Zero(t, m.ctrl.Board().Len())

	m = send(t, m, cmd())
	assert.Zero(t, m.pending)
	n := onlyNote(t, m)
	assert.True(t, n.IsImage())
	assert.Equal(t, board.ImagePlaceholder, n.Content)
	assert.True(t, strings.HasPrefix(n.ImageURL, "data:image/png;base64,"))
}

func TestImageConversionFailureIsShown(t *testing.T) {
	m := newTestModel(t, "data:image/png;base64,aGVsbG8=")

	m, cmd := sendCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlV})
	m, cmd = sendCmd(t, m, cmd())
	require.NotNil(t, cmd)
	m = send(t, m, cmd())

	assert.Zero(t, m.ctrl.Board().Len())
	assert.Zero(t, m.pending)
	assert.Contains(t, m.errorMessage, "paste image")
}

func TestClipboardReadErrorIsShown(t *testing.T) {
	m := newTestModel(t, "")
	m.clip = clip.NewSource(func() (string, error) { return "", errors.New("no display") })

	m, cmd := sendCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlV})
	m = send(t, m, cmd())
	assert.Contains(t, m.errorMessage, "no display")
}

func TestPasteResolvedAfterNewBoardIsDropped(t *testing.T) {
	m := newTestModel(t, pngDataURL(t))
	m = send(t, m, pasted("keep me busy"))

	m, cmd := sendCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlV})
	m, convert := sendCmd(t, m, cmd())
	require.NotNil(t, convert)

	m = send(t, m, keys("n"))
	require.Equal(t, ModeConfirm, m.mode)
	m = send(t, m, keys("y"))
	require.Zero(t, m.ctrl.Board().Len())

	m = send(t, m, convert())
	assert.Zero(t, m.ctrl.Board().Len())
	assert.Contains(t, m.statusMessage, "dropped")
}

func TestQuitConfirmation(t *testing.T) {
	m := newTestModel(t, "")
	_, cmd := sendCmd(t, m, keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = send(t, m, pasted("unsaved"))
	m, cmd = sendCmd(t, m, keys("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, ModeConfirm, m.mode)
	assert.Contains(t, m.View(), "Quit?")

	m = send(t, m, keys("n"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 1, m.ctrl.Board().Len())

	m.config.Confirmations = false
	_, cmd = sendCmd(t, m, keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestExportSVGWritesVisibleBoard(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, pasted("exported <note>"))

	m, cmd := sendCmd(t, m, keys("e"))
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, filepath.Join(m.config.SaveDirectory, "study-hub-board.svg"), done.path)

	data, err := os.ReadFile(done.path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `width="640" height="368"`)
	assert.Contains(t, string(data), "exported &lt;note&gt;")

	m = send(t, m, msg)
	assert.Contains(t, m.statusMessage, "Exported SVG")
}

func TestExportPNGWritesFile(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, pasted("png"))

	_, cmd := sendCmd(t, m, keys("p"))
	done := cmd().(exportDoneMsg)
	require.NoError(t, done.err)
	_, err := os.Stat(done.path)
	assert.NoError(t, err)
}

func TestExportFailureIsShown(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, exportDoneMsg{format: "PNG", path: "x.png", err: errors.New("disk full")})
	assert.Contains(t, m.errorMessage, "disk full")
}

func TestPanShiftsBoardCoordinates(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, panStep, m.panX)
	assert.Equal(t, panStep, m.panY)

	m = send(t, m, motion(10, 10))
	m = send(t, m, pasted("panned"))
	assert.Equal(t, board.Point{X: 6, Y: 11}, onlyNote(t, m).Position())

	m = send(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, panStep-wheelStep, m.panY)
}

func TestHomeJumpsToNotes(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, "No notes", m.statusMessage)

	b := m.ctrl.Board()
	b.AddNote("far", "", board.Point{X: 200, Y: 100})
	b.AddNote("farther", "", board.Point{X: 230, Y: 90})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 199, m.panX)
	assert.Equal(t, 89, m.panY)
	assert.Contains(t, strings.Join(m.renderBoard(), "\n"), "far")
}

func TestStatusLineShowsHistory(t *testing.T) {
	m := newTestModel(t, "")
	assert.Empty(t, m.historyHint())

	m = send(t, m, pasted("one"))
	assert.Equal(t, "u to undo", m.historyHint())
	m = send(t, m, keys("u"))
	assert.Equal(t, "ctrl+r to redo", m.historyHint())
	m = send(t, m, pasted("two"))
	m = send(t, m, keys("u"))
	assert.Equal(t, "ctrl+r to redo", m.historyHint())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "u to undo", m.historyHint())
	assert.Contains(t, m.statusLine(), "u to undo")
}

func TestPressOnStatusLineIsIgnored(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, pasted("note"))
	m = send(t, m, press(5, 23))
	_, dragging := m.ctrl.Dragging()
	assert.False(t, dragging)
}

func TestHelpOpensAndCloses(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, keys("?"))
	require.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "HELP")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeNormal, m.mode)
}

func TestThemeToggleAndConfigReload(t *testing.T) {
	m := newTestModel(t, "")
	m = send(t, m, keys("t"))
	assert.Equal(t, board.ThemeDark, m.theme)

	cfg := config.Default()
	m = send(t, m, configUpdateMsg{Config: cfg})
	assert.Equal(t, board.ThemeLight, m.theme)
	assert.Equal(t, "Config reloaded", m.statusMessage)

	m = send(t, m, configUpdateMsg{Err: errors.New("bad yaml")})
	assert.Contains(t, m.errorMessage, "bad yaml")
	assert.Same(t, cfg, m.config)
}

func TestConfigReloadKeepsFlagOverrides(t *testing.T) {
	m := newTestModel(t, "")
	m.overrides = func(c *config.Config) { c.Theme = "dark" }

	m = send(t, m, configUpdateMsg{Config: config.Default()})
	assert.Equal(t, board.ThemeDark, m.theme)
}

func TestWaitForConfigForwardsUpdates(t *testing.T) {
	assert.Nil(t, waitForConfig(nil))

	ch := make(chan config.Update, 1)
	ch <- config.Update{Err: errors.New("boom")}
	close(ch)

	cmd := waitForConfig(ch)
	msg, ok := cmd().(configUpdateMsg)
	require.True(t, ok)
	assert.EqualError(t, msg.Err, "boom")
	assert.Nil(t, cmd())
}

func TestViewRendersNotesAndStatus(t *testing.T) {
	m, _, _ := twoNotes(t)
	view := m.View()

	assert.Len(t, strings.Split(view, "\n"), 24)
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "(o)")
	assert.Contains(t, view, "Notes: 2")
	assert.Empty(t, newModel(m.ctrl, m.clip, m.config, nil).View())
}
