package render

import (
	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/math3d"
	"github.com/taigrr/roomwalk/pkg/scene"
)

// Presenter shows a finished frame.
type Presenter interface {
	Present(fb *Framebuffer) error
}

// SceneRenderer draws a scene from the viewer's eye each frame.
type SceneRenderer struct {
	Camera     *Camera
	FB         *Framebuffer
	Raster     *Rasterizer
	Background Color
	LightDir   math3d.Vec3
	Crosshair  bool

	// DebugBoxes, when set, returns collision boxes to outline.
	DebugBoxes func() []bounds.AABB

	out Presenter
}

// NewSceneRenderer creates a renderer with a width x height framebuffer.
// A nil out renders without presenting, for snapshots and tests.
func NewSceneRenderer(width, height int, out Presenter) *SceneRenderer {
	cam := NewCamera()
	fb := NewFramebuffer(width, height)
	s := &SceneRenderer{
		Camera:     cam,
		FB:         fb,
		Raster:     NewRasterizer(cam, fb),
		Background: RGB(24, 24, 32),
		LightDir:   math3d.V3(0.3, 1, 0.5),
		Crosshair:  true,
		out:        out,
	}
	s.updateAspect()
	return s
}

// Resize changes the framebuffer size.
func (s *SceneRenderer) Resize(width, height int) {
	s.FB.Resize(width, height)
	s.Raster.Resize()
	s.updateAspect()
}

func (s *SceneRenderer) updateAspect() {
	if s.FB.Height > 0 {
		s.Camera.SetAspectRatio(float64(s.FB.Width) / float64(s.FB.Height))
	}
}

// Render draws sc seen from eye with the given yaw and pitch, then presents
// the frame.
func (s *SceneRenderer) Render(sc *scene.Scene, eye math3d.Vec3, yaw, pitch float64) error {
	s.Camera.SetPose(eye, yaw, pitch)
	s.FB.Clear(s.Background)
	s.Raster.ClearDepth()
	s.Raster.ResetStats()

	for _, n := range sc.Nodes() {
		if !n.Visible || n.Mesh == nil {
			continue
		}
		s.Raster.DrawMesh(n.Mesh, n.Transform(), n.Color, s.LightDir)
	}

	if s.DebugBoxes != nil {
		for _, b := range s.DebugBoxes() {
			s.Raster.DrawAABB(b, ColorGreen)
		}
	}
	if s.Crosshair {
		s.FB.DrawCrosshair(ColorWhite)
	}

	if s.out == nil {
		return nil
	}
	return s.out.Present(s.FB)
}
