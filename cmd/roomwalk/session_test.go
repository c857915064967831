package main

import (
	"strings"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/taigrr/roomwalk/pkg/frame"
	"github.com/taigrr/roomwalk/pkg/hud"
	"github.com/taigrr/roomwalk/pkg/input"
	"github.com/taigrr/roomwalk/pkg/math3d"
	"github.com/taigrr/roomwalk/pkg/render"
	"github.com/taigrr/roomwalk/pkg/scene"
)

type fakeTerm struct {
	screen   uv.ScreenBuffer
	displays int
	erased   int
	resized  [2]int
}

func (f *fakeTerm) Draw(d uv.Drawable) { d.Draw(f.screen, f.screen.Bounds()) }
func (f *fakeTerm) Display() error     { f.displays++; return nil }
func (f *fakeTerm) Erase()             { f.erased++ }
func (f *fakeTerm) Resize(w, h int) error {
	f.resized = [2]int{w, h}
	f.screen = uv.NewScreenBuffer(w, h)
	return nil
}

func newTestSession(t *testing.T) (*session, *fakeTerm) {
	t.Helper()
	layout, err := scene.DefaultLayout()
	if err != nil {
		t.Fatal(err)
	}
	term := &fakeTerm{screen: uv.NewScreenBuffer(80, 24)}
	tr := render.NewTerminalRenderer(term, 80, 24)
	overlay := hud.New("roomwalk")
	tr.AddOverlay(overlay)

	var s *session
	fbw, fbh := tr.FramebufferSize()
	sr := render.NewSceneRenderer(fbw, fbh, hudPresenter{
		TerminalRenderer: tr,
		refresh:          func() { s.refreshHUD() },
	})
	d := frame.New(layout, sr, 60, nil)
	s = newSession(d, overlay, sr, tr, term, nil)
	return s, term
}

func key(r rune) uv.KeyPressEvent {
	return uv.KeyPressEvent{Code: r, Text: string(r)}
}

func TestSessionWalks(t *testing.T) {
	s, term := newTestSession(t)
	start := s.driver.Position()

	s.handle(key('w'))
	s.tick(time.Now())
	if got := s.driver.Position(); got.Z >= start.Z {
		t.Errorf("z = %v, want less than %v after walking forward", got.Z, start.Z)
	}
	if term.displays != 1 {
		t.Errorf("displays = %d, want 1", term.displays)
	}

	s.handle(uv.KeyReleaseEvent{Code: 'w', Text: "w"})
	if s.driver.Input.Flags().Any() {
		t.Error("release did not clear the flag")
	}
}

func TestSessionPressOnlyTerminal(t *testing.T) {
	s, _ := newTestSession(t)
	t0 := time.Unix(1000, 0)
	now := t0
	s.clock = func() time.Time { return now }

	s.handle(key('w'))
	s.tick(t0.Add(100 * time.Millisecond))
	if !s.driver.Input.Flags().Forward {
		t.Fatal("forward released before the latch lapsed")
	}

	// auto-repeat keeps the key held past the initial window
	for now = t0.Add(500 * time.Millisecond); now.Before(t0.Add(time.Second)); now = now.Add(100 * time.Millisecond) {
		s.handle(uv.KeyPressEvent{Code: 'w', Text: "w", IsRepeat: true})
		s.tick(now)
	}
	if !s.driver.Input.Flags().Forward {
		t.Fatal("forward released while repeats were arriving")
	}

	s.handle(key('s'))
	s.tick(now.Add(input.DefaultLatchInitial))
	if s.driver.Input.Flags().Any() {
		t.Errorf("flags = %+v after the latch lapsed, want none held", s.driver.Input.Flags())
	}
}

func TestSessionTrustsReportedReleases(t *testing.T) {
	tests := []struct {
		name string
		ev   uv.Event
	}{
		{"enhancement reply", uv.KeyboardEnhancementsEvent{Flags: ansi.KittyDisambiguateEscapeCodes | ansi.KittyReportEventTypes}},
		{"release event", uv.KeyReleaseEvent{Code: 'd', Text: "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			t0 := time.Unix(1000, 0)
			s.clock = func() time.Time { return t0 }

			s.handle(tt.ev)
			s.handle(key('w'))
			s.tick(t0.Add(5 * time.Second))
			if !s.driver.Input.Flags().Forward {
				t.Error("held key timed out although the terminal reports releases")
			}
			s.handle(uv.KeyReleaseEvent{Code: 'w', Text: "w"})
			if s.driver.Input.Flags().Any() {
				t.Error("release did not clear the flag")
			}
		})
	}
}

func TestSessionEscape(t *testing.T) {
	s, _ := newTestSession(t)
	esc := uv.KeyPressEvent{Code: uv.KeyEscape}

	s.handle(uv.MouseClickEvent{X: 10, Y: 5})
	if !s.captured {
		t.Fatal("click did not capture the mouse")
	}
	if s.handle(esc) {
		t.Fatal("first escape quit while captured")
	}
	if s.captured {
		t.Error("escape did not release the mouse")
	}
	if !s.handle(esc) {
		t.Error("second escape did not quit")
	}
}

func TestSessionMouseLook(t *testing.T) {
	s, _ := newTestSession(t)

	// Motion before capture is ignored.
	s.handle(uv.MouseMotionEvent{X: 40, Y: 12})
	s.tick(time.Now())
	if yaw, _ := s.driver.Look.Angles(); yaw != 0 {
		t.Fatalf("yaw = %v before capture", yaw)
	}

	s.handle(uv.MouseClickEvent{X: 40, Y: 12})
	s.handle(uv.MouseMotionEvent{X: 45, Y: 12})
	s.tick(time.Now())
	if yaw, _ := s.driver.Look.Angles(); yaw >= 0 {
		t.Errorf("yaw = %v, moving right should turn right", yaw)
	}
}

func TestSessionActions(t *testing.T) {
	s, _ := newTestSession(t)

	s.handle(key('p'))
	if !s.driver.Screen.Visible {
		t.Error("p did not show the screen")
	}
	repeat := key('p')
	repeat.IsRepeat = true
	s.handle(repeat)
	if !s.driver.Screen.Visible {
		t.Error("a held p toggled the screen again")
	}
	s.handle(key('m'))
	if !s.driver.Muted() {
		t.Error("m did not mute")
	}
	toasts := strings.Join(s.hud.Toasts(), ",")
	if toasts != "screen on,muted" {
		t.Errorf("toasts = %q", toasts)
	}

	s.handle(key('b'))
	if len(s.debugBoxes()) != s.driver.Registry.Len() {
		t.Error("b did not show the collision boxes")
	}
	s.handle(key('?'))
	if s.hud.Visible {
		t.Error("? did not hide the HUD")
	}
}

func TestSessionResize(t *testing.T) {
	s, term := newTestSession(t)
	s.handle(uv.WindowSizeEvent{Width: 100, Height: 30})

	if term.erased != 1 || term.resized != [2]int{100, 30} {
		t.Errorf("erased=%d resized=%v", term.erased, term.resized)
	}
	if s.scene.FB.Width != 100 || s.scene.FB.Height != 60 {
		t.Errorf("framebuffer %dx%d, want 100x60", s.scene.FB.Width, s.scene.FB.Height)
	}

	s.handle(uv.WindowSizeEvent{})
	if term.erased != 1 {
		t.Error("zero size resize was applied")
	}
}

func TestSessionHUDMatchesFrame(t *testing.T) {
	s, term := newTestSession(t)
	s.driver.Teleport(math3d.V3(12.5, 20, -30))
	s.tick(time.Now())

	var b strings.Builder
	for x := range 80 {
		if c := term.screen.CellAt(x, 23); c != nil {
			b.WriteString(c.Content)
		}
	}
	if !strings.Contains(b.String(), "12.5") {
		t.Errorf("bottom row %q does not show the current position", b.String())
	}
}
