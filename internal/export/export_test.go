package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyboard/internal/board"
	"studyboard/internal/clip"
)

func seqIDs() board.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func pixelOpts() Options {
	return Options{Theme: board.ThemeLight, Width: 800, Height: 600}
}

func requireWellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if err != nil {
			require.ErrorContains(t, err, "EOF")
			return
		}
	}
}

func imageURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(2, 2, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	url, err := clip.EncodeDataURL(board.ClipboardItem{Type: "image/png", Data: buf.Bytes()})
	require.NoError(t, err)
	return url
}

func TestSVGEmptyBoardHasOnlyBackground(t *testing.T) {
	doc := SVG(board.New(), pixelOpts())
	require.NotEmpty(t, doc)
	requireWellFormed(t, doc)

	s := string(doc)
	assert.Equal(t, 1, strings.Count(s, "<rect"))
	assert.Contains(t, s, `width="800" height="600"`)
	assert.Contains(t, s, `fill="#f1f5f9"`)
	assert.NotContains(t, s, "<line")
	assert.NotContains(t, s, "<foreignObject")
	assert.NotContains(t, s, "<marker")
}

func TestSVGEmptyResultWithoutSize(t *testing.T) {
	assert.Empty(t, SVG(nil, pixelOpts()))
	assert.Empty(t, SVG(board.New(), Options{Width: 0, Height: 600}))

	err := SaveSVG(board.New(), Options{}, filepath.Join(t.TempDir(), DefaultSVGName))
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestSVGCountsNotesLinesAndMarkers(t *testing.T) {
	b := board.New(board.WithIDs(seqIDs()))
	a := b.AddNote("alpha", "", board.Point{X: 0, Y: 0})
	c := b.AddNote("beta", "", board.Point{X: 300, Y: 0})
	d := b.AddNote("gamma", "", board.Point{X: 0, Y: 300})

	_, err := b.AddConnection(a.ID, c.ID, "#ef4444", board.StyleLine)
	require.NoError(t, err)
	_, err = b.AddConnection(c.ID, d.ID, "#22c55e", board.StyleArrowEnd)
	require.NoError(t, err)
	both, err := b.AddConnection(d.ID, a.ID, "#3b82f6", board.StyleArrowBoth)
	require.NoError(t, err)

	doc := SVG(b, pixelOpts())
	requireWellFormed(t, doc)
	s := string(doc)

	assert.Equal(t, 3, strings.Count(s, "<foreignObject"))
	assert.Equal(t, 3, strings.Count(s, "<line "))
	assert.Equal(t, 2, strings.Count(s, "<marker "))
	assert.Contains(t, s, fmt.Sprintf(`marker-start="url(#arrowhead-%s)" marker-end="url(#arrowhead-%s)"`, both.ID, both.ID))
	assert.Contains(t, s, `x1="48" y1="48" x2="348" y2="48"`)
}

func TestSVGEscapesTextAndUsesThemeColors(t *testing.T) {
	b := board.New(board.WithIDs(seqIDs()))
	b.AddNote(`<script>alert("x")</script> & more`, "", board.Point{X: 10, Y: 20})

	opts := pixelOpts()
	opts.Theme = board.ThemeDark
	doc := SVG(b, opts)
	requireWellFormed(t, doc)
	s := string(doc)

	assert.NotContains(t, s, "<script>")
	assert.Contains(t, s, "&lt;script&gt;")
	assert.Contains(t, s, "&amp; more")
	assert.Contains(t, s, `fill="#0f172a"`)
	yellow, _ := b.Palette().NoteColor("yellow")
	assert.Contains(t, s, "background-color: "+yellow.Dark.Background)
	assert.Contains(t, s, "border: 1px solid "+yellow.Dark.Border)
}

func TestSVGDropsCharactersXMLCannotCarry(t *testing.T) {
	b := board.New(board.WithIDs(seqIDs()))
	b.AddNote("form\ffeed", "", board.Point{X: 0, Y: 0})
	b.AddNote("bad\xffutf8", "", board.Point{X: 120, Y: 0})
	b.AddNote("vt\vtab\x00", "", board.Point{X: 240, Y: 0})
	b.AddNote("keep\ttab\nline", "", board.Point{X: 360, Y: 0})

	doc := SVG(b, pixelOpts())
	requireWellFormed(t, doc)
	s := string(doc)

	assert.Contains(t, s, "formfeed")
	assert.Contains(t, s, "badutf8")
	assert.Contains(t, s, "vttab<")
	assert.Contains(t, s, "keep\ttab\nline")
}

func TestSVGImageNotes(t *testing.T) {
	b := board.New(board.WithIDs(seqIDs()))
	url := imageURL(t)
	b.AddNote(board.ImagePlaceholder, url, board.Point{X: 0, Y: 0})
	b.AddNote(board.ImagePlaceholder, "data:image/png;base64,@@@", board.Point{X: 200, Y: 0})

	doc := SVG(b, pixelOpts())
	requireWellFormed(t, doc)
	s := string(doc)

	assert.Equal(t, 2, strings.Count(s, "<foreignObject"))
	assert.Equal(t, 1, strings.Count(s, "<img "))
	assert.Contains(t, s, url)
}

func TestSVGScalesCellsToPixels(t *testing.T) {
	b := board.New(board.WithIDs(seqIDs()), board.WithGeometry(board.CellGeometry()))
	b.AddNote("cell", "", board.Point{X: 2, Y: 3})

	s := string(SVG(b, Options{Width: 80, Height: 24, ScaleX: 8, ScaleY: 16}))
	assert.Contains(t, s, `width="640" height="384"`)
	assert.Contains(t, s, `<foreignObject x="16" y="48" width="128" height="96">`)
}

func TestSVGOriginShiftsScene(t *testing.T) {
	b := board.New(board.WithIDs(seqIDs()))
	b.AddNote("panned", "", board.Point{X: 150, Y: 120})

	s := string(SVG(b, Options{Width: 400, Height: 300, Origin: board.Point{X: 100, Y: 100}}))
	assert.Contains(t, s, `<foreignObject x="50" y="20" width="96" height="96">`)
}

func TestSavePNG(t *testing.T) {
	b := board.New(board.WithIDs(seqIDs()))
	a := b.AddNote("hello", "", board.Point{X: 10, Y: 10})
	c := b.AddNote(board.ImagePlaceholder, imageURL(t), board.Point{X: 200, Y: 150})
	b.AddNote(board.ImagePlaceholder, "data:image/png;base64,broken", board.Point{X: 400, Y: 10})
	_, err := b.AddConnection(a.ID, c.ID, "#a855f7", board.StyleArrowBoth)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", DefaultPNGName)
	require.NoError(t, SavePNG(b, Options{Width: 640, Height: 480}, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
}

func TestPNGNothingToExport(t *testing.T) {
	_, err := PNG(board.New(), Options{})
	assert.ErrorIs(t, err, ErrNothingToExport)

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, board.New(), Options{Width: 10, Height: 10}))
	assert.NotZero(t, buf.Len())
}

func TestEdgePoint(t *testing.T) {
	r := frect{x: 0, y: 0, w: 100, h: 50}
	x, y := edgePoint(r, 500, 25)
	assert.InDelta(t, 100, x, 0.001)
	assert.InDelta(t, 25, y, 0.001)

	x, y = edgePoint(r, 50, -500)
	assert.InDelta(t, 50, x, 0.001)
	assert.InDelta(t, 0, y, 0.001)
}
