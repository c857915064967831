// roomwalk - walk through a furnished room in your terminal.
//
// Controls:
//
//	Click       - Capture the mouse for looking around
//	Mouse       - Look (while captured)
//	W/A/S/D     - Walk forward, left, back, right
//	P           - Toggle the TV screen
//	I           - Turn the TV screen on
//	M           - Toggle mute
//	B           - Show collision boxes
//	?           - Toggle HUD overlay
//	Esc         - Release the mouse; Esc again quits
package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/taigrr/roomwalk/pkg/assets"
	"github.com/taigrr/roomwalk/pkg/frame"
	"github.com/taigrr/roomwalk/pkg/hud"
	"github.com/taigrr/roomwalk/pkg/render"
	"github.com/taigrr/roomwalk/pkg/scene"
)

type options struct {
	layout  string
	assets  string
	logFile string
	fps     int
	debug   bool
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "roomwalk",
		Short: "Walk through a furnished room in your terminal",
		Long: `roomwalk renders a room with glTF furniture, an aquarium and a patrolling
dog, and lets you walk through it with the mouse and WASD.

Click to capture the mouse, W/A/S/D to walk, P/I to work the TV, M to
mute, B to show collision boxes, ? for the HUD, Esc to release and quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.layout, "layout", "", "scene layout YAML (default: built-in room)")
	pf.StringVar(&opts.assets, "assets", "assets", "directory model paths are relative to")
	pf.StringVar(&opts.logFile, "log", "", "write logs to this file")
	pf.BoolVar(&opts.debug, "debug", false, "log at debug level")
	pf.IntVar(&opts.fps, "fps", 60, "target frames per second")

	cmd.AddCommand(newSnapshotCmd(opts))
	return cmd
}

func newSnapshotCmd(opts *options) *cobra.Command {
	var (
		width, height int
		yaw, pitch    float64
		timeout       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "snapshot <out.png>",
		Short: "Render the room from the start pose to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return snapshot(ctx, opts, args[0], width, height, yaw, pitch)
		},
	}
	f := cmd.Flags()
	f.IntVar(&width, "width", 320, "image width in pixels")
	f.IntVar(&height, "height", 200, "image height in pixels")
	f.Float64Var(&yaw, "yaw", 0, "view yaw in degrees, 0 looks down -z")
	f.Float64Var(&pitch, "pitch", 0, "view pitch in degrees")
	f.DurationVar(&timeout, "timeout", 30*time.Second, "give up waiting for models after this long")
	return cmd
}

// openLog returns a logger writing to path, or to fallback when path is
// empty.
func openLog(path string, debug bool, fallback io.Writer) (*log.Logger, func(), error) {
	w, closer := fallback, func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log: %w", err)
		}
		w, closer = f, func() { _ = f.Close() }
	}
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "roomwalk",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return logger, closer, nil
}

func loadLayout(path string) (*scene.Layout, error) {
	layout, err := scene.LoadLayout(path)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	return layout, nil
}

func degrees(d float64) float64 {
	return d * math.Pi / 180
}

func run(ctx context.Context, opts *options) error {
	if opts.fps < 1 {
		return fmt.Errorf("fps must be at least 1, got %d", opts.fps)
	}
	// The terminal is in alt-screen while running, so logs only go to a file.
	logger, closeLog, err := openLog(opts.logFile, opts.debug, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	layout, err := loadLayout(opts.layout)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		logger.Warn("resize failed", "err", err)
	}
	_, _ = term.WriteString(ansi.SetModeMouseAnyEvent + ansi.SetModeMouseExtSgr +
		ansi.PushKittyKeyboard(ansi.KittyDisambiguateEscapeCodes|ansi.KittyReportEventTypes) +
		ansi.RequestKittyKeyboard)

	defer func() {
		_, _ = term.WriteString(ansi.PopKittyKeyboard(1) +
			ansi.ResetModeMouseExtSgr + ansi.ResetModeMouseAnyEvent)
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Error("terminal shutdown", "err", err)
		}
	}()

	tr := render.NewTerminalRenderer(term, width, height)
	overlay := hud.New("roomwalk")
	tr.AddOverlay(overlay)

	var s *session
	fbw, fbh := tr.FramebufferSize()
	sr := render.NewSceneRenderer(fbw, fbh, hudPresenter{
		TerminalRenderer: tr,
		refresh:          func() { s.refreshHUD() },
	})
	sr.Camera.SetFOV(degrees(layout.Camera.FOV))

	d := frame.New(layout, sr, opts.fps, logger)
	s = newSession(d, overlay, sr, tr, term, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loader := assets.NewLoader(opts.assets, assets.DefaultConcurrency, logger)
	d.Load(ctx, loader)
	logger.Info("started", "cols", width, "rows", height, "props", len(layout.Props), "fps", opts.fps)
	defer func() {
		st := d.Stats()
		logger.Info("stopped", "ticks", st.Ticks, "reverts", st.Reverts, "meshes", loader.Cached())
	}()

	ticker := time.NewTicker(time.Second / time.Duration(opts.fps))
	defer ticker.Stop()

	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if s.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

func snapshot(ctx context.Context, opts *options, out string, width, height int, yaw, pitch float64) error {
	logger, closeLog, err := openLog(opts.logFile, opts.debug, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	layout, err := loadLayout(opts.layout)
	if err != nil {
		return err
	}

	sr := render.NewSceneRenderer(width, height, nil)
	sr.Camera.SetFOV(degrees(layout.Camera.FOV))

	d := frame.New(layout, sr, opts.fps, logger)
	d.Look.Turn(degrees(yaw), degrees(pitch))
	loader := assets.NewLoader(opts.assets, assets.DefaultConcurrency, logger)
	d.Load(ctx, loader)

	poll := time.NewTicker(10 * time.Millisecond)
	defer poll.Stop()
	for {
		// Every tick renders, so the last one has every model in it.
		d.Tick()
		if d.Stats().Pending == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for models: %w", ctx.Err())
		case <-poll.C:
		}
	}

	st := d.Stats()
	if err := sr.FB.SavePNG(out); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	logger.Info("snapshot saved", "path", out, "loaded", st.Loaded, "failed", st.Failed,
		"meshes", loader.Cached(), "triangles", sr.Raster.Stats.TrianglesDrawn)
	return nil
}
