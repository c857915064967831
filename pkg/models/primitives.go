package models

import (
	"github.com/taigrr/roomwalk/pkg/math3d"
)

// NewBoxMesh builds a box of the given full size centered on the origin,
// with every face split into segments x segments quads. Subdividing large
// faces keeps near-plane clipping cheap when the camera stands next to a
// wall.
func NewBoxMesh(name string, size math3d.Vec3, segments int) *Mesh {
	m := NewMesh(name)
	h := size.Scale(0.5)

	// origin, U, V per face, with U x V pointing out of the box.
	faces := [6][3]math3d.Vec3{
		{math3d.V3(h.X, -h.Y, h.Z), math3d.V3(0, 0, -size.Z), math3d.V3(0, size.Y, 0)},   // +X
		{math3d.V3(-h.X, -h.Y, -h.Z), math3d.V3(0, 0, size.Z), math3d.V3(0, size.Y, 0)},  // -X
		{math3d.V3(-h.X, h.Y, h.Z), math3d.V3(size.X, 0, 0), math3d.V3(0, 0, -size.Z)},   // +Y
		{math3d.V3(-h.X, -h.Y, -h.Z), math3d.V3(size.X, 0, 0), math3d.V3(0, 0, size.Z)},  // -Y
		{math3d.V3(-h.X, -h.Y, h.Z), math3d.V3(size.X, 0, 0), math3d.V3(0, size.Y, 0)},   // +Z
		{math3d.V3(h.X, -h.Y, -h.Z), math3d.V3(-size.X, 0, 0), math3d.V3(0, size.Y, 0)},  // -Z
	}
	for _, f := range faces {
		m.addGrid(f[0], f[1], f[2], segments)
	}

	m.CalculateBounds()
	return m
}

// NewPlaneMesh builds a horizontal width x depth plane facing +Y.
func NewPlaneMesh(name string, width, depth float64, segments int) *Mesh {
	m := NewMesh(name)
	m.addGrid(
		math3d.V3(-width/2, 0, depth/2),
		math3d.V3(width, 0, 0),
		math3d.V3(0, 0, -depth),
		segments,
	)
	m.CalculateBounds()
	return m
}

// NewQuadMesh builds an upright width x height quad facing +Z, like a
// screen hung on a wall.
func NewQuadMesh(name string, width, height float64) *Mesh {
	m := NewMesh(name)
	m.addGrid(
		math3d.V3(-width/2, -height/2, 0),
		math3d.V3(width, 0, 0),
		math3d.V3(0, height, 0),
		1,
	)
	m.CalculateBounds()
	return m
}

// addGrid appends a subdivided parallelogram spanned by u and v from
// origin. The front is the side u x v points to.
func (m *Mesh) addGrid(origin, u, v math3d.Vec3, segments int) {
	if segments < 1 {
		segments = 1
	}
	normal := u.Cross(v).Normalize()
	base := len(m.Vertices)
	stride := segments + 1

	for j := 0; j <= segments; j++ {
		for i := 0; i <= segments; i++ {
			p := origin.
				Add(u.Scale(float64(i) / float64(segments))).
				Add(v.Scale(float64(j) / float64(segments)))
			m.Vertices = append(m.Vertices, MeshVertex{Position: p, Normal: normal})
		}
	}

	for j := range segments {
		for i := range segments {
			a := base + j*stride + i
			b := a + 1
			c := a + stride + 1
			d := a + stride
			// a b c d is counter-clockwise from the front; store clockwise.
			m.Faces = append(m.Faces,
				Face{V: [3]int{a, c, b}, Material: -1},
				Face{V: [3]int{a, d, c}, Material: -1},
			)
		}
	}
}
