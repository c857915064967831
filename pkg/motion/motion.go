// Package motion integrates held movement intents into camera displacement.
package motion

import (
	"math"

	"github.com/taigrr/roomwalk/pkg/input"
	"github.com/taigrr/roomwalk/pkg/math3d"
)

// Basis supplies the directions movement is applied along. The look
// controls implement it.
type Basis interface {
	Forward() math3d.Vec3
	Right() math3d.Vec3
}

// Integrator converts input flags into a position change. Motion is per
// tick, not per second, so walking speed follows the frame rate.
type Integrator struct {
	// BaseSpeed is the distance per tick at a camera height of 2.
	BaseSpeed float64
	// HalfExtent bounds x and z to [-HalfExtent, +HalfExtent].
	HalfExtent float64
}

// NewIntegrator creates an integrator for a square world of side worldScale.
func NewIntegrator(baseSpeed, worldScale float64) *Integrator {
	return &Integrator{
		BaseSpeed:  baseSpeed,
		HalfExtent: worldScale / 2,
	}
}

// SpeedFactor returns the per-tick distance at camera height y. Speed grows
// linearly with height: a higher vantage covers ground faster.
func (in *Integrator) SpeedFactor(y float64) float64 {
	return in.BaseSpeed * (y / 2)
}

// Displace returns pos moved by every held intent. Each intent contributes
// its own delta; opposing intents held together cancel exactly.
func (in *Integrator) Displace(pos math3d.Vec3, flags input.Flags, basis Basis) math3d.Vec3 {
	if !flags.Any() {
		return pos
	}

	speed := in.SpeedFactor(pos.Y)
	fwd, right := basis.Forward(), basis.Right()

	var delta math3d.Vec3
	if flags.Forward {
		delta = delta.Add(fwd.Scale(speed))
	}
	if flags.Backward {
		delta = delta.Add(fwd.Scale(-speed))
	}
	if flags.Left {
		delta = delta.Add(right.Scale(-speed))
	}
	if flags.Right {
		delta = delta.Add(right.Scale(speed))
	}
	return pos.Add(delta)
}

// Clamp confines x and z independently to the world bounds. Y is untouched.
func (in *Integrator) Clamp(pos math3d.Vec3) math3d.Vec3 {
	pos.X = clamp(pos.X, -in.HalfExtent, in.HalfExtent)
	pos.Z = clamp(pos.Z, -in.HalfExtent, in.HalfExtent)
	return pos
}

// Step displaces and then clamps.
func (in *Integrator) Step(pos math3d.Vec3, flags input.Flags, basis Basis) math3d.Vec3 {
	return in.Clamp(in.Displace(pos, flags, basis))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
