// Package collision decides whether a camera move is committed or rolled
// back.
package collision

import (
	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/math3d"
)

// DefaultColliderSize is the camera's box: 3 wide, 10 tall, 3 deep.
var DefaultColliderSize = math3d.V3(3, 10, 3)

// Resolver tests a camera box against the registry. There is no sliding:
// a blocked move is undone entirely, so walking diagonally into a wall
// stops the camera rather than gliding along it.
type Resolver struct {
	registry *bounds.Registry
	size     math3d.Vec3
}

// NewResolver creates a resolver with a collider of the given full size.
func NewResolver(registry *bounds.Registry, size math3d.Vec3) *Resolver {
	return &Resolver{registry: registry, size: size}
}

// Collider returns the camera box centered on pos.
func (r *Resolver) Collider(pos math3d.Vec3) bounds.AABB {
	return bounds.FromCenterAndSize(pos, r.size)
}

// Collides reports whether the camera box at pos overlaps a registered box.
func (r *Resolver) Collides(pos math3d.Vec3) bool {
	return r.registry.Intersects(r.Collider(pos))
}

// Resolve returns the position to commit: candidate if it is clear,
// otherwise prev. The bool reports whether the move was reverted.
func (r *Resolver) Resolve(prev, candidate math3d.Vec3) (math3d.Vec3, bool) {
	if r.Collides(candidate) {
		return prev, true
	}
	return candidate, false
}
