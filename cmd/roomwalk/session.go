package main

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/frame"
	"github.com/taigrr/roomwalk/pkg/hud"
	"github.com/taigrr/roomwalk/pkg/input"
	"github.com/taigrr/roomwalk/pkg/render"
)

// movementKeys are forwarded to the driver on press and release.
var movementKeys = []string{"w", "a", "s", "d"}

// actionKeys are forwarded on press only.
var actionKeys = []string{"p", "i", "m"}

// resizer is the part of the terminal a window resize touches.
type resizer interface {
	Erase()
	Resize(width, height int) error
}

// session owns the driver and everything drawn around it. All methods run
// on the frame loop goroutine.
type session struct {
	driver *frame.Driver
	hud    *hud.HUD
	scene  *render.SceneRenderer
	out    *render.TerminalRenderer
	term   resizer
	logger *log.Logger

	captured  bool
	haveMouse bool
	mouseX    int
	mouseY    int
	showBoxes bool
	lastTick  time.Time

	// releases is set once the terminal is known to report key releases.
	// Until then movement keys are held by latch and time out.
	releases bool
	latch    *input.Latch
	clock    func() time.Time
}

func newSession(d *frame.Driver, h *hud.HUD, sr *render.SceneRenderer, tr *render.TerminalRenderer, term resizer, logger *log.Logger) *session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &session{
		driver:   d,
		hud:      h,
		scene:    sr,
		out:      tr,
		term:     term,
		logger:   logger,
		lastTick: time.Now(),
		latch:    input.NewLatch(input.DefaultLatchInitial, input.DefaultLatchRepeat),
		clock:    time.Now,
	}
	sr.DebugBoxes = s.debugBoxes
	return s
}

func (s *session) debugBoxes() []bounds.AABB {
	if !s.showBoxes {
		return nil
	}
	return s.driver.Registry.Boxes()
}

// refreshHUD copies the driver state into the overlay. It runs just before
// each frame is presented so the overlay matches the frame.
func (s *session) refreshHUD() {
	st := s.driver.Stats()
	s.hud.SetStatus(hud.Status{
		Position: s.driver.Position(),
		Heading:  s.driver.Heading(),
		Blocked:  s.driver.Blocked(),
		Stats:    st,
		ScreenOn: s.driver.Screen.Visible,
		Muted:    s.driver.Muted(),
		Captured: s.captured,
	})
}

// tick runs one frame at now.
func (s *session) tick(now time.Time) {
	if !s.releases {
		for _, k := range s.latch.Expired(now) {
			s.driver.KeyUp(k)
		}
	}

	rep := s.driver.Tick()
	for _, name := range rep.Loaded {
		s.hud.Toast("loaded " + name)
	}
	for _, name := range rep.Failed {
		s.hud.Toast("failed to load " + name)
	}

	dt := now.Sub(s.lastTick).Seconds()
	s.lastTick = now
	s.hud.Advance(float32(min(dt, 0.1)))
	s.hud.UpdateFPS(now)
}

// handle applies one terminal event and reports whether to quit.
func (s *session) handle(ev uv.Event) (quit bool) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		s.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("ctrl+c"):
			return true
		case ev.MatchString("esc"):
			if !s.captured {
				return true
			}
			s.captured = false
			s.haveMouse = false
			return false
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			s.hud.Visible = !s.hud.Visible
			return false
		case ev.MatchString("b"):
			s.showBoxes = !s.showBoxes
			return false
		}
		for _, k := range movementKeys {
			if ev.MatchString(k) {
				s.driver.KeyDown(k)
				if !s.releases {
					s.latch.Press(k, s.clock())
				}
				return false
			}
		}
		if ev.IsRepeat {
			return false
		}
		for _, k := range actionKeys {
			if ev.MatchString(k) {
				s.action(s.driver.KeyDown(k))
				return false
			}
		}

	case uv.KeyboardEnhancementsEvent:
		if ev.SupportsKeyReleases() {
			s.trustReleases()
		}

	case uv.KeyReleaseEvent:
		s.trustReleases()
		for _, k := range movementKeys {
			if ev.MatchString(k) {
				s.driver.KeyUp(k)
			}
		}

	case uv.MouseClickEvent:
		s.captured = true
		s.mouseX, s.mouseY, s.haveMouse = ev.X, ev.Y, true

	case uv.MouseMotionEvent:
		if !s.captured {
			return false
		}
		if s.haveMouse {
			s.driver.MouseDelta(ev.X-s.mouseX, ev.Y-s.mouseY)
		}
		s.mouseX, s.mouseY, s.haveMouse = ev.X, ev.Y, true
	}
	return false
}

func (s *session) trustReleases() {
	if s.releases {
		return
	}
	s.releases = true
	s.latch.Reset()
	s.logger.Debug("terminal reports key releases")
}

func (s *session) action(a input.Action) {
	switch a {
	case input.ActionToggleScreen, input.ActionPlayScreen:
		if s.driver.Screen.Visible {
			s.hud.Toast("screen on")
		} else {
			s.hud.Toast("screen off")
		}
	case input.ActionToggleMute:
		if s.driver.Muted() {
			s.hud.Toast("muted")
		} else {
			s.hud.Toast("unmuted")
		}
	}
}

func (s *session) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.term.Erase()
	if err := s.term.Resize(width, height); err != nil {
		s.logger.Warn("resize failed", "err", err)
	}
	s.out.Resize(width, height)
	s.scene.Resize(s.out.FramebufferSize())
	s.logger.Debug("resized", "cols", width, "rows", height)
}

// hudPresenter refreshes the overlay before every presented frame.
type hudPresenter struct {
	*render.TerminalRenderer
	refresh func()
}

func (p hudPresenter) Present(fb *render.Framebuffer) error {
	p.refresh()
	return p.TerminalRenderer.Present(fb)
}
