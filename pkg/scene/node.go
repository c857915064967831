// Package scene holds the room's drawable nodes, builds the fixed room
// geometry, and reads the prop layout.
package scene

import (
	"image/color"

	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/math3d"
	"github.com/taigrr/roomwalk/pkg/models"
)

// Node is a placed mesh. Position and Rotation (Euler XYZ, radians) are
// mutated in place by patrol animators; everything else is fixed after
// creation.
type Node struct {
	Name     string
	Mesh     *models.Mesh
	Position math3d.Vec3
	Rotation math3d.Vec3
	Scale    float64
	Color    color.RGBA
	Visible  bool
}

// NewNode creates a visible node with unit scale and a neutral color.
func NewNode(name string, mesh *models.Mesh) *Node {
	return &Node{
		Name:    name,
		Mesh:    mesh,
		Scale:   1,
		Color:   color.RGBA{200, 200, 200, 255},
		Visible: true,
	}
}

// Transform returns the model-to-world matrix.
func (n *Node) Transform() math3d.Mat4 {
	return math3d.Compose(n.Position, math3d.RotateEuler(n.Rotation),
		math3d.V3(n.Scale, n.Scale, n.Scale))
}

// WorldBounds returns the world box around the node's mesh bounds at its
// current transform. A node without a mesh is a point at its position.
func (n *Node) WorldBounds() bounds.AABB {
	if n.Mesh == nil {
		return bounds.NewAABB(n.Position, n.Position)
	}
	min, max := n.Mesh.GetBounds()
	return bounds.NewAABB(min, max).Transform(n.Transform())
}
