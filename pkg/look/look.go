// Package look turns mouse motion into camera yaw and pitch and supplies the
// horizontal basis vectors that movement is applied along.
package look

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/roomwalk/pkg/math3d"
)

// MaxPitch keeps the view just short of straight up or down.
const MaxPitch = math.Pi/2 - 0.01

// Axis tracks an angle and its angular velocity. The velocity is pulled back
// to zero by a critically damped spring so a flick of the mouse eases out.
type Axis struct {
	Angle    float64
	Velocity float64

	spring harmonica.Spring
	accel  float64 // spring velocity of Velocity itself
}

func newAxis(fps int) Axis {
	return Axis{
		// Frequency 6 settles within a few frames; damping 1 never overshoots.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *Axis) update() {
	a.Angle += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// Controls is a pointer-lock style look controller.
type Controls struct {
	Yaw   Axis
	Pitch Axis

	// Sensitivity converts mouse cells to radians of angular velocity.
	Sensitivity float64
}

// NewControls creates look controls facing -Z, stepped at fps.
func NewControls(fps int) *Controls {
	return &Controls{
		Yaw:         newAxis(fps),
		Pitch:       newAxis(fps),
		Sensitivity: 0.02,
	}
}

// MouseDelta applies a mouse movement of dx, dy cells. Moving right turns
// right; moving down looks down.
func (c *Controls) MouseDelta(dx, dy int) {
	c.Yaw.Velocity -= float64(dx) * c.Sensitivity
	c.Pitch.Velocity -= float64(dy) * c.Sensitivity
}

// Turn sets the yaw and pitch directly and stops any residual motion.
func (c *Controls) Turn(yaw, pitch float64) {
	c.Yaw.Angle, c.Yaw.Velocity, c.Yaw.accel = yaw, 0, 0
	c.Pitch.Angle, c.Pitch.Velocity, c.Pitch.accel = clampPitch(pitch), 0, 0
}

// Update advances both axes by one frame.
func (c *Controls) Update() {
	c.Yaw.update()
	c.Pitch.update()
	if p := clampPitch(c.Pitch.Angle); p != c.Pitch.Angle {
		c.Pitch.Angle = p
		c.Pitch.Velocity, c.Pitch.accel = 0, 0
	}
}

// Forward returns the horizontal forward direction. Pitch is ignored so
// looking at the floor does not slow walking.
func (c *Controls) Forward() math3d.Vec3 {
	y := c.Yaw.Angle
	return math3d.V3(-math.Sin(y), 0, -math.Cos(y))
}

// Right returns the horizontal right direction.
func (c *Controls) Right() math3d.Vec3 {
	y := c.Yaw.Angle
	return math3d.V3(math.Cos(y), 0, -math.Sin(y))
}

// Angles returns yaw and pitch in radians.
func (c *Controls) Angles() (yaw, pitch float64) {
	return c.Yaw.Angle, c.Pitch.Angle
}

func clampPitch(p float64) float64 {
	return math.Max(-MaxPitch, math.Min(MaxPitch, p))
}
