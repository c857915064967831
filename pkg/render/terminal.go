package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the framebuffer into area using upper half blocks: the
// foreground is the top pixel and the background the bottom one.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, topY+1)),
				},
			})
		}
	}
}

func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Display is the part of a uv.Terminal the renderer presents through.
type Display interface {
	Draw(d uv.Drawable)
	Display() error
}

// TerminalRenderer presents framebuffers on a terminal, with optional
// overlays drawn on top of the scene.
type TerminalRenderer struct {
	out        Display
	cols, rows int
	overlays   []uv.Drawable
}

// NewTerminalRenderer creates a renderer for a cols x rows terminal.
func NewTerminalRenderer(out Display, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{out: out, cols: cols, rows: rows}
}

// Resize records a new terminal size.
func (t *TerminalRenderer) Resize(cols, rows int) {
	t.cols, t.rows = cols, rows
}

// FramebufferSize is the pixel size that fills the terminal.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// AddOverlay draws d over every presented frame, in the order added.
func (t *TerminalRenderer) AddOverlay(d uv.Drawable) {
	t.overlays = append(t.overlays, d)
}

// Present draws fb and the overlays and flushes the terminal.
func (t *TerminalRenderer) Present(fb *Framebuffer) error {
	t.out.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
		fb.Draw(scr, area)
		for _, o := range t.overlays {
			o.Draw(scr, area)
		}
	}))
	return t.out.Display()
}

// Color is shorthand for color.RGBA.
type Color = color.RGBA

var (
	ColorBlack  = color.RGBA{0, 0, 0, 255}
	ColorWhite  = color.RGBA{255, 255, 255, 255}
	ColorRed    = color.RGBA{255, 0, 0, 255}
	ColorGreen  = color.RGBA{0, 255, 0, 255}
	ColorYellow = color.RGBA{255, 255, 0, 255}
	ColorGray   = color.RGBA{128, 128, 128, 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
