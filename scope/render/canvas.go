package render

import (
	"image/color"

	"voltscope/hal"

	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
)

// Canvas is the drawing surface the renderer needs.
type Canvas interface {
	Pixel(x, y int16, c color.RGBA)
	Line(x0, y0, x1, y1 int16, c color.RGBA)
	FillRect(x, y, w, h int16, c color.RGBA)
	// Text draws s with its top-left corner at x, y.
	Text(x, y int16, s string, c color.RGBA)
	Flush() error
}

// CharWidth is the advance of one glyph of the label font.
const (
	CharWidth  = 6
	textAscent = 6
)

// SurfaceCanvas draws on a HAL surface.
type SurfaceCanvas struct {
	s    hal.Surface
	font tinyfont.Fonter
}

func NewSurfaceCanvas(s hal.Surface) *SurfaceCanvas {
	return &SurfaceCanvas{s: s, font: &tinyfont.Org01}
}

func (c *SurfaceCanvas) Pixel(x, y int16, col color.RGBA) { c.s.SetPixel(x, y, col) }

func (c *SurfaceCanvas) Line(x0, y0, x1, y1 int16, col color.RGBA) {
	tinydraw.Line(c.s, x0, y0, x1, y1, col)
}

func (c *SurfaceCanvas) FillRect(x, y, w, h int16, col color.RGBA) {
	_ = c.s.FillRectangle(x, y, w, h, col)
}

func (c *SurfaceCanvas) Text(x, y int16, s string, col color.RGBA) {
	tinyfont.WriteLine(c.s, c.font, x, y+textAscent, s, col)
}

func (c *SurfaceCanvas) Flush() error { return c.s.Display() }
