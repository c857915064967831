// Package hud draws the status overlay on top of the rendered room.
package hud

import (
	"fmt"
	"image/color"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/taigrr/roomwalk/pkg/frame"
	"github.com/taigrr/roomwalk/pkg/math3d"
)

// Toast timing in seconds.
const (
	ToastHold = 1.5
	ToastFade = 1.0
	maxToasts = 3
)

var (
	bgBlack  = color.RGBA{0, 0, 0, 255}
	fgWhite  = color.RGBA{255, 255, 255, 255}
	fgGreen  = color.RGBA{80, 250, 120, 255}
	fgCyan   = color.RGBA{80, 220, 250, 255}
	fgYellow = color.RGBA{250, 220, 80, 255}
	fgRed    = color.RGBA{250, 70, 70, 255}
)

// Status is the per-frame state the overlay reports.
type Status struct {
	Position math3d.Vec3
	Heading  float64
	Blocked  bool
	Stats    frame.Stats
	ScreenOn bool
	Muted    bool
	// Captured is false until the user clicks into the view.
	Captured bool
}

type toast struct {
	text  string
	fade  *gween.Sequence
	alpha float32
}

// HUD is a uv.Drawable overlay. Visible hides everything except the
// capture hint and toasts.
type HUD struct {
	Visible bool
	Title   string

	status Status
	toasts []*toast

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// New creates a visible HUD.
func New(title string) *HUD {
	return &HUD{
		Visible: true,
		Title:   title,
		fpsTime: time.Now(),
	}
}

// UpdateFPS counts a frame finished at now.
func (h *HUD) UpdateFPS(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the last measured frame rate.
func (h *HUD) FPS() float64 {
	return h.fps
}

// SetStatus replaces the reported state.
func (h *HUD) SetStatus(s Status) {
	h.status = s
}

// Toast shows msg, holding it then fading it out. Only the newest few
// toasts are kept.
func (h *HUD) Toast(msg string) {
	seq := gween.NewSequence(
		gween.New(1, 1, ToastHold, ease.Linear),
		gween.New(1, 0, ToastFade, ease.OutQuad),
	)
	h.toasts = append(h.toasts, &toast{text: msg, fade: seq, alpha: 1})
	if n := len(h.toasts); n > maxToasts {
		h.toasts = h.toasts[n-maxToasts:]
	}
}

// Toasts returns the texts still on screen, oldest first.
func (h *HUD) Toasts() []string {
	out := make([]string, len(h.toasts))
	for i, t := range h.toasts {
		out[i] = t.text
	}
	return out
}

// Advance moves toast fades forward by dt seconds and drops finished ones.
func (h *HUD) Advance(dt float32) {
	kept := h.toasts[:0]
	for _, t := range h.toasts {
		v, _, done := t.fade.Update(dt)
		if done {
			continue
		}
		t.alpha = v
		kept = append(kept, t)
	}
	clear(h.toasts[len(kept):])
	h.toasts = kept
}

// Draw implements uv.Drawable.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle) {
	width, height := area.Dx(), area.Dy()
	if width <= 0 || height <= 0 {
		return
	}
	at := func(col, row int, s string, st uv.Style) {
		put(scr, area, col, row, s, st)
	}

	for i, t := range h.toasts {
		st := uv.Style{Fg: fade(fgWhite, bgBlack, t.alpha), Bg: bgBlack}
		at(1, 1+i, " "+t.text+" ", st)
	}

	if !h.status.Captured {
		msg := " click to look around, Esc to quit "
		at(max((width-len(msg))/2, 0), height-2, msg, uv.Style{Fg: fgYellow, Bg: bgBlack, Attrs: uv.AttrBold})
	}

	if !h.Visible {
		return
	}
	s := h.status

	// Top row: frame rate, title, world counts.
	at(0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), uv.Style{Fg: fgGreen, Bg: bgBlack})
	title := " " + h.Title + " "
	at(max((width-len(title))/2, 0), 0, title, uv.Style{Fg: fgWhite, Bg: bgBlack, Attrs: uv.AttrBold})
	counts := fmt.Sprintf(" %d boxes  %d loaded", s.Stats.Boxes, s.Stats.Loaded)
	if s.Stats.Pending > 0 {
		counts += fmt.Sprintf("  %d pending", s.Stats.Pending)
	}
	if s.Stats.Failed > 0 {
		counts += fmt.Sprintf("  %d failed", s.Stats.Failed)
	}
	counts += " "
	at(max(width-len(counts), 0), 0, counts, uv.Style{Fg: fgCyan, Bg: bgBlack, Attrs: uv.AttrBold})

	// Bottom row: pose, collision, peripheral toggles.
	p := s.Position
	pose := fmt.Sprintf(" x %6.1f  y %5.1f  z %6.1f  %3.0f deg ", p.X, p.Y, p.Z, s.Heading)
	at(0, height-1, pose, uv.Style{Fg: fgWhite, Bg: bgBlack})
	if s.Blocked {
		at(len(pose), height-1, " BLOCKED ", uv.Style{Fg: fgWhite, Bg: fgRed, Attrs: uv.AttrBold})
	}
	toggles := fmt.Sprintf(" %s screen  %s mute ", check(s.ScreenOn), check(s.Muted))
	at(max(width-len(toggles), 0), height-1, toggles, uv.Style{Fg: fgWhite, Bg: bgBlack})
}

func check(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// put writes single-width text starting at col, row inside area, clipped
// to it.
func put(scr uv.Screen, area uv.Rectangle, col, row int, s string, st uv.Style) {
	y := area.Min.Y + row
	if row < 0 || y >= area.Max.Y {
		return
	}
	x := area.Min.X + col
	for _, r := range s {
		if x >= area.Max.X {
			return
		}
		if x >= area.Min.X {
			scr.SetCell(x, y, &uv.Cell{Content: string(r), Width: 1, Style: st})
		}
		x++
	}
}

// fade blends fg toward bg as alpha goes from 1 to 0.
func fade(fg, bg color.RGBA, alpha float32) color.RGBA {
	a := max(0, min(1, alpha))
	mix := func(f, b uint8) uint8 {
		return uint8(float32(b) + (float32(f)-float32(b))*a + 0.5)
	}
	return color.RGBA{mix(fg.R, bg.R), mix(fg.G, bg.G), mix(fg.B, bg.B), 255}
}
