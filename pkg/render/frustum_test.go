package render

import (
	"math"
	"testing"

	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := plane.DistanceToPoint(tc.point); math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if math.Abs(plane.Normal.Len()-1) > 1e-9 {
		t.Errorf("normal length = %v, want 1", plane.Normal.Len())
	}
	if math.Abs(plane.D-2) > 1e-9 {
		t.Errorf("D = %v, want 2", plane.D)
	}

	zero := Plane{D: 3}
	zero.Normalize()
	if zero.D != 3 {
		t.Error("zero normal should be left alone")
	}
}

func roomCamera() *Camera {
	c := NewCamera()
	c.SetAspectRatio(1)
	c.SetPose(math3d.V3(0, 20, -30), 0, 0)
	return c
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := roomCamera().Frustum()

	tests := []struct {
		name    string
		box     bounds.AABB
		visible bool
	}{
		{"ahead", bounds.FromCenterAndSize(math3d.V3(0, 20, -80), math3d.V3(10, 10, 10)), true},
		{"behind", bounds.FromCenterAndSize(math3d.V3(0, 20, 20), math3d.V3(10, 10, 10)), false},
		{"far left", bounds.FromCenterAndSize(math3d.V3(-500, 20, -40), math3d.V3(10, 10, 10)), false},
		{"beyond far plane", bounds.FromCenterAndSize(math3d.V3(0, 20, -2000), math3d.V3(10, 10, 10)), false},
		{"around the eye", bounds.FromCenterAndSize(math3d.V3(0, 20, -30), math3d.V3(3, 10, 3)), true},
		{"back wall", bounds.NewAABB(math3d.V3(-175, -45, -180), math3d.V3(175, 145, -170)), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.visible {
				t.Errorf("IntersectAABB = %v, want %v", got, tc.visible)
			}
		})
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := roomCamera().Frustum()
	if !f.ContainsPoint(math3d.V3(0, 20, -40)) {
		t.Error("point ahead should be inside")
	}
	if f.ContainsPoint(math3d.V3(0, 20, -20)) {
		t.Error("point behind should be outside")
	}
}

func BenchmarkFrustumExtract(b *testing.B) {
	vp := roomCamera().ViewProjectionMatrix()
	for b.Loop() {
		_ = NewFrustumFromMatrix(vp)
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := roomCamera().Frustum()
	box := bounds.FromCenterAndSize(math3d.V3(0, 20, -80), math3d.V3(10, 10, 10))
	for b.Loop() {
		_ = f.IntersectAABB(box)
	}
}
