package main

import (
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"

	"studyboard/internal/board"
	"studyboard/internal/clip"
	"studyboard/internal/config"
)

type model struct {
	width         int
	height        int
	panX          int
	panY          int
	ctrl          *board.Controller
	clip          *clip.Source
	encode        board.ImageEncoder
	config        *config.Config
	overrides     func(*config.Config)
	updates       <-chan config.Update
	logger        *zap.Logger
	theme         board.Theme
	mode          Mode
	confirmAction ConfirmAction
	help          viewport.Model
	styles        *styleCache
	pending       int
	statusMessage string
	errorMessage  string
}

// clipboardMsg carries what the system clipboard held when ctrl+v was pressed.
type clipboardMsg struct {
	items []board.ClipboardItem
	err   error
}

// pasteResolvedMsg is an image paste whose conversion finished off the UI
// loop.
type pasteResolvedMsg struct {
	paste    board.Paste
	content  string
	imageURL string
	err      error
}

type exportDoneMsg struct {
	format string
	path   string
	err    error
}

type configUpdateMsg config.Update
