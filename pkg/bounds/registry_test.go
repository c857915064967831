package bounds

import (
	"testing"

	"github.com/taigrr/roomwalk/pkg/math3d"
)

func TestEmptyRegistryNeverIntersects(t *testing.T) {
	r := NewRegistry()

	probe := FromCenterAndSize(math3d.Zero3(), math3d.V3(1e6, 1e6, 1e6))
	if r.Intersects(probe) {
		t.Error("empty registry reported an intersection")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegisterIsVisibleToNextQuery(t *testing.T) {
	r := NewRegistry()
	probe := FromCenterAndSize(math3d.V3(50, 5, 0), math3d.V3(3, 10, 3))

	if r.Intersects(probe) {
		t.Fatal("unexpected hit before registering")
	}

	r.Register(NewAABB(math3d.V3(45, 0, -5), math3d.V3(55, 20, 5)))

	if !r.Intersects(probe) {
		t.Error("box registered after a miss was not seen by the next query")
	}
}

func TestFirstHitUsesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	first := NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))
	second := NewAABB(math3d.V3(5, 5, 5), math3d.V3(15, 15, 15))
	r.Register(first)
	r.Register(second)

	hit, ok := r.FirstHit(NewAABB(math3d.V3(6, 6, 6), math3d.V3(7, 7, 7)))
	if !ok || hit != first {
		t.Errorf("FirstHit = %v, %v; want %v, true", hit, ok, first)
	}
}

func TestBoxesReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register(NewAABB(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1)))

	boxes := r.Boxes()
	boxes[0].Max = math3d.V3(100, 100, 100)

	if r.Intersects(NewAABB(math3d.V3(50, 50, 50), math3d.V3(51, 51, 51))) {
		t.Error("mutating Boxes() result changed the registry")
	}
}

func BenchmarkRegistryIntersects(b *testing.B) {
	r := NewRegistry()
	for i := range 64 {
		x := float64(i * 20)
		r.Register(NewAABB(math3d.V3(x, 0, 0), math3d.V3(x+5, 5, 5)))
	}
	probe := FromCenterAndSize(math3d.V3(-100, 0, 0), math3d.V3(3, 10, 3))

	for b.Loop() {
		_ = r.Intersects(probe)
	}
}
