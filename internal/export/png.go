package export

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"studyboard/internal/board"
	"studyboard/internal/clip"
)

var ErrNothingToExport = errors.New("nothing to export")

const (
	pngFontSize  = 12.0
	notePadding  = 8.0
	arrowSize    = 8.0
	arrowSpread  = 0.5
	cornerRadius = 8.0
)

// PNG rasterises the same scene as SVG.
func PNG(b *board.Board, opts Options) (image.Image, error) {
	if b == nil || opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrNothingToExport
	}
	sx, sy := opts.scale()
	width, height := opts.pixelSize()
	palette := b.Palette()
	geometry := b.Geometry()

	dc := gg.NewContext(int(math.Ceil(width)), int(math.Ceil(height)))
	dc.SetHexColor(palette.Canvas.For(opts.Theme))
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    pngFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	noteW, noteH := float64(geometry.NoteWidth)*sx, float64(geometry.NoteHeight)*sy

	// Connections first so notes cover them.
	for _, c := range b.Connections() {
		from, ok1 := b.Note(c.StartNoteID)
		to, ok2 := b.Note(c.EndNoteID)
		if !ok1 || !ok2 {
			continue
		}
		drawConnectionPNG(dc, c, rectOf(opts, from, noteW, noteH), rectOf(opts, to, noteW, noteH))
	}

	textColor := palette.Text.For(opts.Theme)
	for _, n := range b.Notes() {
		drawNotePNG(dc, n, rectOf(opts, n, noteW, noteH), palette.SwatchFor(n, opts.Theme), textColor)
	}
	return dc.Image(), nil
}

func EncodePNG(w io.Writer, b *board.Board, opts Options) error {
	img, err := PNG(b, opts)
	if err != nil {
		return err
	}
	return gg.NewContextForImage(img).EncodePNG(w)
}

func SavePNG(b *board.Board, opts Options, path string) error {
	img, err := PNG(b, opts)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type frect struct {
	x, y, w, h float64
}

func (r frect) center() (float64, float64) {
	return r.x + r.w/2, r.y + r.h/2
}

func rectOf(opts Options, n board.Note, w, h float64) frect {
	x, y := opts.project(n.Position())
	return frect{x: x, y: y, w: w, h: h}
}

// edgePoint is where the ray from r's centre towards (tx, ty) leaves r.
func edgePoint(r frect, tx, ty float64) (float64, float64) {
	cx, cy := r.center()
	dx, dy := tx-cx, ty-cy
	if dx == 0 && dy == 0 {
		return cx, cy
	}
	scale := math.Inf(1)
	if dx != 0 {
		scale = math.Min(scale, (r.w/2)/math.Abs(dx))
	}
	if dy != 0 {
		scale = math.Min(scale, (r.h/2)/math.Abs(dy))
	}
	return cx + dx*scale, cy + dy*scale
}

func drawConnectionPNG(dc *gg.Context, c board.Connection, from, to frect) {
	x1, y1 := from.center()
	x2, y2 := to.center()

	dc.SetHexColor(c.Color)
	dc.SetLineWidth(2)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()

	// Arrow tips go on the note borders; the centres are hidden under the notes.
	if c.Style.ArrowStart() {
		tx, ty := edgePoint(from, x2, y2)
		drawArrowPNG(dc, x2, y2, tx, ty)
	}
	if c.Style.ArrowEnd() {
		tx, ty := edgePoint(to, x1, y1)
		drawArrowPNG(dc, x1, y1, tx, ty)
	}
}

func drawArrowPNG(dc *gg.Context, fromX, fromY, tipX, tipY float64) {
	dx, dy := tipX-fromX, tipY-fromY
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	baseX1 := tipX - arrowSize*dx + arrowSize*dy*arrowSpread
	baseY1 := tipY - arrowSize*dy - arrowSize*dx*arrowSpread
	baseX2 := tipX - arrowSize*dx - arrowSize*dy*arrowSpread
	baseY2 := tipY - arrowSize*dy + arrowSize*dx*arrowSpread

	dc.MoveTo(tipX, tipY)
	dc.LineTo(baseX1, baseY1)
	dc.LineTo(baseX2, baseY2)
	dc.ClosePath()
	dc.Fill()
}

func drawNotePNG(dc *gg.Context, n board.Note, r frect, swatch board.Swatch, textColor string) {
	dc.DrawRoundedRectangle(r.x, r.y, r.w, r.h, cornerRadius)
	dc.SetHexColor(swatch.Background)
	dc.FillPreserve()
	dc.SetHexColor(swatch.Border)
	dc.SetLineWidth(1)
	dc.Stroke()

	inner := frect{x: r.x + notePadding, y: r.y + notePadding, w: r.w - 2*notePadding, h: r.h - 2*notePadding}
	if inner.w <= 0 || inner.h <= 0 {
		return
	}

	if n.IsImage() {
		img, err := clip.DecodeImage(n.ImageURL)
		if err != nil {
			return
		}
		if fitted := fitImage(img, int(inner.w), int(inner.h)); fitted != nil {
			fb := fitted.Bounds()
			ox := inner.x + (inner.w-float64(fb.Dx()))/2
			oy := inner.y + (inner.h-float64(fb.Dy()))/2
			dc.DrawImage(fitted, int(ox), int(oy))
		}
		return
	}

	dc.SetHexColor(textColor)
	cx, cy := r.center()
	dc.DrawStringWrapped(n.Content, cx, cy, 0.5, 0.5, inner.w, 1.2, gg.AlignCenter)
}

// fitImage scales img to fit inside w×h keeping its aspect ratio.
func fitImage(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || w <= 0 || h <= 0 {
		return nil
	}
	scale := math.Min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	dw := max(1, int(float64(b.Dx())*scale))
	dh := max(1, int(float64(b.Dy())*scale))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
