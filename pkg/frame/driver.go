// Package frame sequences one tick of the room: completed loads are taken
// in, the camera is moved and checked against the registry, the patrols
// step, and the frame is handed to the renderer.
//
// A Driver is not safe for concurrent use. Key, mouse and tick calls all
// come from the frame loop goroutine; asset loads finish on their own
// goroutines but only become visible when Tick drains them.
package frame

import (
	"context"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/taigrr/roomwalk/pkg/assets"
	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/collision"
	"github.com/taigrr/roomwalk/pkg/input"
	"github.com/taigrr/roomwalk/pkg/look"
	"github.com/taigrr/roomwalk/pkg/math3d"
	"github.com/taigrr/roomwalk/pkg/models"
	"github.com/taigrr/roomwalk/pkg/motion"
	"github.com/taigrr/roomwalk/pkg/patrol"
	"github.com/taigrr/roomwalk/pkg/scene"
)

// Renderer draws the scene from the camera pose.
type Renderer interface {
	Render(sc *scene.Scene, eye math3d.Vec3, yaw, pitch float64) error
}

// Loader starts an asset load and returns a channel that yields at most
// one result.
type Loader interface {
	Load(ctx context.Context, req assets.Request) <-chan assets.Result
}

// ScreenName is the scene node name of the TV screen quad.
const ScreenName = "screen"

type role int

const (
	roleProp role = iota
	roleFish
	roleDog
)

type pending struct {
	name   string
	role   role
	facing float64
	ch     <-chan assets.Result
}

// TickReport describes what one tick did.
type TickReport struct {
	Reverted bool
	Loaded   []string
	Failed   []string
	// RenderErr is the renderer's error, already logged.
	RenderErr error
}

// Stats are running totals since the driver was created.
type Stats struct {
	Ticks   int
	Reverts int
	Loaded  int
	Failed  int
	Pending int
	Boxes   int
}

// Driver owns the camera pose and every component the tick touches.
type Driver struct {
	Scene    *scene.Scene
	Registry *bounds.Registry
	Look     *look.Controls
	Input    *input.State
	School   *patrol.School
	Walker   *patrol.Walker
	Screen   *scene.Node

	layout   *scene.Layout
	motion   *motion.Integrator
	resolver *collision.Resolver
	renderer Renderer
	logger   *log.Logger

	pos     math3d.Vec3
	pending []pending
	stats   Stats
	blocked bool
	muted   bool
}

// New builds the room described by layout and places the camera at its
// start. The four walls are registered immediately; props, fish and the
// dog arrive through Load. A nil renderer skips drawing and a nil logger
// discards.
func New(layout *scene.Layout, r Renderer, fps int, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	reg := bounds.NewRegistry()
	room := scene.BuildRoom(layout.World)
	for _, b := range room.WallBoxes() {
		reg.Register(b)
	}

	sc := scene.New()
	sc.Add(room.Nodes()...)

	s := layout.Screen
	screen := scene.NewNode(ScreenName, models.NewQuadMesh(ScreenName, s.Width, s.Height))
	screen.Position = s.Position.Vec3()
	screen.Rotation = s.Rotation.Vec3()
	screen.Color = color.RGBA{230, 230, 255, 255}
	screen.Visible = false
	sc.Add(screen)

	return &Driver{
		Scene:    sc,
		Registry: reg,
		Look:     look.NewControls(fps),
		Input:    input.NewState(input.DefaultKeymap()),
		School:   patrol.NewSchool(layout.Fish),
		Walker:   patrol.NewDogWalker(layout.Dog, layout.World),
		Screen:   screen,
		layout:   layout,
		motion:   motion.NewIntegrator(layout.Camera.BaseSpeed, layout.World.Scale),
		resolver: collision.NewResolver(reg, layout.Camera.Collider.Vec3()),
		renderer: r,
		logger:   logger,
		pos:      layout.Camera.Start.Vec3(),
	}
}

// Load requests every prop, fish and the dog from l. Results are picked up
// by later ticks in whatever order they finish.
func (d *Driver) Load(ctx context.Context, l Loader) {
	for _, p := range d.layout.Props {
		d.start(ctx, l, assets.Request{
			Name:     p.Name,
			Path:     p.Path,
			Scale:    p.Scale,
			Position: p.Position.Vec3(),
			Rotation: p.Rotation.Vec3(),
		}, roleProp, 0)
	}

	fish := d.layout.Fish
	for i, sp := range fish.Spawns {
		facing := float64(sp.Facing)
		d.start(ctx, l, assets.Request{
			Name:     fishName(i),
			Path:     fish.Model,
			Scale:    fish.Scale,
			Position: sp.Position.Vec3(),
			Rotation: math3d.V3(0, facing, 0),
		}, roleFish, facing)
	}

	if dog := d.layout.Dog; dog.Model != "" {
		d.start(ctx, l, assets.Request{
			Name:     "dog",
			Path:     dog.Model,
			Scale:    dog.Scale,
			Position: dog.Position.Vec3(),
		}, roleDog, 0)
	}
}

func (d *Driver) start(ctx context.Context, l Loader, req assets.Request, r role, facing float64) {
	d.pending = append(d.pending, pending{
		name:   req.Name,
		role:   r,
		facing: facing,
		ch:     l.Load(ctx, req),
	})
}

func fishName(i int) string {
	return "fish " + strconv.Itoa(i+1)
}

// Tick runs one frame.
func (d *Driver) Tick() TickReport {
	var rep TickReport
	d.drain(&rep)

	d.Look.Update()

	prev := d.pos
	cand := d.motion.Step(prev, d.Input.Flags(), d.Look)
	d.pos, rep.Reverted = d.resolver.Resolve(prev, cand)
	d.blocked = rep.Reverted
	if rep.Reverted {
		d.stats.Reverts++
		d.logger.Debug("move reverted", "from", prev, "to", cand)
	}

	d.School.Step()
	d.Walker.Step()

	if d.renderer != nil {
		yaw, pitch := d.Look.Angles()
		if err := d.renderer.Render(d.Scene, d.pos, yaw, pitch); err != nil {
			rep.RenderErr = err
			d.logger.Error("render failed", "err", err)
		}
	}

	d.stats.Ticks++
	return rep
}

// drain takes every finished load without blocking.
func (d *Driver) drain(rep *TickReport) {
	kept := d.pending[:0]
	for _, p := range d.pending {
		select {
		case res, ok := <-p.ch:
			if !ok {
				// Closed without a result: the load was abandoned.
				d.logger.Warn("load abandoned", "name", p.name)
				continue
			}
			d.accept(p, res, rep)
		default:
			kept = append(kept, p)
		}
	}
	clear(d.pending[len(kept):])
	d.pending = kept
}

func (d *Driver) accept(p pending, res assets.Result, rep *TickReport) {
	if res.Err != nil {
		d.stats.Failed++
		rep.Failed = append(rep.Failed, p.name)
		return
	}

	d.Registry.Register(res.Box)
	d.Scene.Add(res.Node)
	switch p.role {
	case roleFish:
		d.School.Add(res.Node, p.facing)
	case roleDog:
		d.Walker.Attach(res.Node)
	}
	d.stats.Loaded++
	rep.Loaded = append(rep.Loaded, p.name)
}

// KeyDown records a key press and applies any peripheral action bound to
// it. The action is returned so the caller can react too.
func (d *Driver) KeyDown(key string) input.Action {
	a := d.Input.KeyDown(key)
	switch a {
	case input.ActionToggleScreen:
		d.Screen.Visible = !d.Screen.Visible
	case input.ActionPlayScreen:
		d.Screen.Visible = true
	case input.ActionToggleMute:
		d.muted = !d.muted
	}
	return a
}

// KeyUp records a key release.
func (d *Driver) KeyUp(key string) {
	d.Input.KeyUp(key)
}

// MouseDelta turns the view.
func (d *Driver) MouseDelta(dx, dy int) {
	d.Look.MouseDelta(dx, dy)
}

// Position returns the committed camera position.
func (d *Driver) Position() math3d.Vec3 {
	return d.pos
}

// Teleport moves the camera without a collision check.
func (d *Driver) Teleport(pos math3d.Vec3) {
	d.pos = pos
}

// Blocked reports whether the last tick's move was reverted.
func (d *Driver) Blocked() bool {
	return d.blocked
}

// Muted reports the mute toggle.
func (d *Driver) Muted() bool {
	return d.muted
}

// Stats returns the running totals.
func (d *Driver) Stats() Stats {
	s := d.stats
	s.Pending = len(d.pending)
	s.Boxes = d.Registry.Len()
	return s
}

// Heading returns the yaw in degrees, normalized to [0, 360).
func (d *Driver) Heading() float64 {
	yaw, _ := d.Look.Angles()
	deg := math.Mod(yaw*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
