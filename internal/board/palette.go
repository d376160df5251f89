package board

import (
	"fmt"
	"strings"
)

type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	}
	return ThemeLight, fmt.Errorf("unknown theme %q", s)
}

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Swatch is a literal background/border pair, usable both on screen and in
// exported documents.
type Swatch struct {
	Background string
	Border     string
}

type NoteColor struct {
	ID    string
	Light Swatch
	Dark  Swatch
}

func (c NoteColor) Swatch(t Theme) Swatch {
	if t == ThemeDark {
		return c.Dark
	}
	return c.Light
}

type ThemeColors struct {
	Light string
	Dark  string
}

func (c ThemeColors) For(t Theme) string {
	if t == ThemeDark {
		return c.Dark
	}
	return c.Light
}

// Palette is the static color configuration handed to a Board.
type Palette struct {
	Notes  []NoteColor
	Lines  []string
	Canvas ThemeColors
	Text   ThemeColors
}

func DefaultPalette() Palette {
	return Palette{
		Notes: []NoteColor{
			{ID: "yellow", Light: Swatch{"#fef08a", "#fde047"}, Dark: Swatch{"#713f12", "#a16207"}},
			{ID: "blue", Light: Swatch{"#bfdbfe", "#93c5fd"}, Dark: Swatch{"#1e3a8a", "#1e40af"}},
			{ID: "green", Light: Swatch{"#bbf7d0", "#86efac"}, Dark: Swatch{"#14532d", "#166534"}},
			{ID: "pink", Light: Swatch{"#fbcfe8", "#f9a8d4"}, Dark: Swatch{"#831843", "#9d174d"}},
			{ID: "purple", Light: Swatch{"#e9d5ff", "#d8b4fe"}, Dark: Swatch{"#581c87", "#6b21a8"}},
		},
		Lines: []string{
			"#64748b",
			"#ef4444",
			"#22c55e",
			"#3b82f6",
			"#a855f7",
			"#ec4899",
		},
		Canvas: ThemeColors{Light: "#f1f5f9", Dark: "#0f172a"},
		Text:   ThemeColors{Light: "#1e293b", Dark: "#f1f5f9"},
	}
}

// ForIndex cycles through the note colors.
func (p Palette) ForIndex(i int) NoteColor {
	if len(p.Notes) == 0 {
		return NoteColor{}
	}
	if i < 0 {
		i = -i
	}
	return p.Notes[i%len(p.Notes)]
}

func (p Palette) NoteColor(id string) (NoteColor, bool) {
	for _, c := range p.Notes {
		if c.ID == id {
			return c, true
		}
	}
	return NoteColor{}, false
}

// SwatchFor resolves a note's color for the theme. Unknown color ids fall
// back to the first note color.
func (p Palette) SwatchFor(n Note, t Theme) Swatch {
	c, ok := p.NoteColor(n.Color)
	if !ok {
		c = p.ForIndex(0)
	}
	return c.Swatch(t)
}

// Line returns the connection color at i, or the first one when i is out of range.
func (p Palette) Line(i int) string {
	if len(p.Lines) == 0 {
		return "#000000"
	}
	if i < 0 || i >= len(p.Lines) {
		return p.Lines[0]
	}
	return p.Lines[i]
}
