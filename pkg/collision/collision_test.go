package collision

import (
	"testing"

	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/math3d"
)

func TestResolveRevertsOnOverlap(t *testing.T) {
	reg := bounds.NewRegistry()
	reg.Register(bounds.NewAABB(math3d.V3(45, 0, -5), math3d.V3(55, 20, 5)))
	r := NewResolver(reg, DefaultColliderSize)

	prev := math3d.V3(40, 5, 0)
	got, reverted := r.Resolve(prev, math3d.V3(50, 5, 0))

	if !reverted {
		t.Fatal("move into the box was not reverted")
	}
	if got != prev {
		t.Errorf("committed %v, want exactly %v", got, prev)
	}
}

func TestResolveCommitsClearMove(t *testing.T) {
	reg := bounds.NewRegistry()
	reg.Register(bounds.NewAABB(math3d.V3(45, 0, -5), math3d.V3(55, 20, 5)))
	r := NewResolver(reg, DefaultColliderSize)

	cand := math3d.V3(42, 5, 0)
	got, reverted := r.Resolve(math3d.V3(40, 5, 0), cand)

	if reverted || got != cand {
		t.Errorf("Resolve = %v, %v; want %v, false", got, reverted, cand)
	}
}

func TestColliderEdges(t *testing.T) {
	reg := bounds.NewRegistry()
	reg.Register(bounds.NewAABB(math3d.V3(45, 0, -5), math3d.V3(55, 20, 5)))
	r := NewResolver(reg, DefaultColliderSize)

	tests := []struct {
		name string
		pos  math3d.Vec3
		want bool
	}{
		{"half width short", math3d.V3(43.4, 5, 0), false},
		{"touching", math3d.V3(43.5, 5, 0), true},
		{"above the box", math3d.V3(50, 25.1, 0), false},
		{"head inside bottom", math3d.V3(50, -4, 0), true},
		{"beside in z", math3d.V3(50, 5, 6.6), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Collides(tc.pos); got != tc.want {
				t.Errorf("Collides(%v) = %v, want %v (collider %v)", tc.pos, got, tc.want, r.Collider(tc.pos))
			}
		})
	}
}

func TestEmptyRegistryNeverReverts(t *testing.T) {
	r := NewResolver(bounds.NewRegistry(), DefaultColliderSize)

	for _, p := range []math3d.Vec3{{}, math3d.V3(175, 20, -175), math3d.V3(-1e9, 0, 1e9)} {
		if _, reverted := r.Resolve(math3d.Zero3(), p); reverted {
			t.Errorf("reverted move to %v with no boxes", p)
		}
	}
}

func TestBoxRegisteredBetweenQueries(t *testing.T) {
	reg := bounds.NewRegistry()
	r := NewResolver(reg, DefaultColliderSize)
	pos := math3d.V3(0, 20, -100)

	if r.Collides(pos) {
		t.Fatal("unexpected collision")
	}
	reg.Register(bounds.NewAABB(math3d.V3(-5, 0, -105), math3d.V3(5, 30, -95)))
	if !r.Collides(pos) {
		t.Error("late-registered box not detected")
	}
}
