package patrol

import (
	"math"
	"testing"

	"github.com/taigrr/roomwalk/pkg/math3d"
	"github.com/taigrr/roomwalk/pkg/scene"
)

func aquarium() scene.FishConfig {
	return scene.FishConfig{
		Step:     0.2,
		Low:      -40,
		High:     -7,
		LowSnap:  scene.Anchor{X: -130, Z: -35, Facing: scene.Angle(-math.Pi / 2)},
		HighSnap: scene.Anchor{X: -180, Z: -7, Facing: scene.Angle(math.Pi / 2)},
	}
}

func fishAt(x, y, z, facing float64) *scene.Node {
	n := scene.NewNode("fish", nil)
	n.Position = math3d.V3(x, y, z)
	n.Rotation = math3d.V3(0, facing, 0)
	return n
}

func TestSchoolAdvancingSnap(t *testing.T) {
	s := NewSchool(aquarium())
	node := fishAt(-180, 52, -7, math.Pi/2)
	f := s.Add(node, math.Pi/2)

	for i := 1; i < 165; i++ {
		s.Step()
		if f.Heading != Advancing {
			t.Fatalf("fish turned early at tick %d (z=%v)", i, node.Position.Z)
		}
	}
	s.Step()

	if f.Heading != Retreating {
		t.Fatalf("heading after 165 ticks = %v, want retreating", f.Heading)
	}
	if node.Position.X != -130 || node.Position.Z != -35 {
		t.Errorf("position = %v, want x=-130 z=-35", node.Position)
	}
	if node.Position.Y != 52 {
		t.Errorf("y changed to %v", node.Position.Y)
	}
	if node.Rotation.Y != -math.Pi/2 {
		t.Errorf("yaw = %v, want -pi/2", node.Rotation.Y)
	}
}

func TestSchoolRetreatingSnap(t *testing.T) {
	s := NewSchool(aquarium())
	node := fishAt(-130, 52, -35, -math.Pi/2)
	f := s.Add(node, -math.Pi/2)

	// 28 / 0.2 = 140 ticks from -35 to -7.
	for i := 1; i < 140; i++ {
		s.Step()
		if f.Heading != Retreating {
			t.Fatalf("fish turned early at tick %d (z=%v)", i, node.Position.Z)
		}
	}
	s.Step()

	if f.Heading != Advancing {
		t.Fatalf("heading = %v, want advancing", f.Heading)
	}
	if node.Position.X != -180 || node.Position.Z != -7 {
		t.Errorf("position = %v, want x=-180 z=-7", node.Position)
	}
	if node.Rotation.Y != math.Pi/2 {
		t.Errorf("yaw = %v, want pi/2", node.Rotation.Y)
	}
}

func TestSchoolFullCycle(t *testing.T) {
	s := NewSchool(aquarium())
	node := fishAt(-180, 60, -7, math.Pi/2)
	f := s.Add(node, math.Pi/2)

	for range 165 + 140 {
		s.Step()
	}
	if f.Heading != Advancing || node.Position.X != -180 || node.Position.Z != -7 {
		t.Errorf("after one cycle: heading=%v pos=%v", f.Heading, node.Position)
	}
}

func TestSchoolIndependentFish(t *testing.T) {
	s := NewSchool(aquarium())
	a := fishAt(-180, 52, -7, math.Pi/2)
	b := fishAt(-130, 56, -25, -math.Pi/2)
	s.Add(a, math.Pi/2)
	s.Add(b, -math.Pi/2)

	s.Step()
	if math.Abs(a.Position.Z-(-7.2)) > 1e-12 {
		t.Errorf("advancing fish z = %v, want -7.2", a.Position.Z)
	}
	if math.Abs(b.Position.Z-(-24.8)) > 1e-12 {
		t.Errorf("retreating fish z = %v, want -24.8", b.Position.Z)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestHeadingFor(t *testing.T) {
	if HeadingFor(math.Pi/2) != Advancing {
		t.Error("+pi/2 should advance")
	}
	if HeadingFor(-math.Pi/2) != Retreating {
		t.Error("-pi/2 should retreat")
	}
	if HeadingFor(0) != Retreating {
		t.Error("anything but +pi/2 should retreat")
	}
}

func TestWalkerFourTurns(t *testing.T) {
	w := NewWalker(0.1, 165, math.Pi/2)
	dog := scene.NewNode("dog", nil)
	w.Attach(dog)

	var ticks int
	for w.Turns() < 4 {
		w.Step()
		ticks++
		if ticks > 20000 {
			t.Fatal("walker never completed four turns")
		}
	}

	// 1651 ticks out to +165.1, then three 3302-tick crossings.
	if ticks != 11557 {
		t.Errorf("fourth turn at tick %d, want 11557", ticks)
	}

	if math.Abs(dog.Rotation.Y-2*math.Pi) > 1e-12 {
		t.Errorf("yaw = %v, want 2pi", dog.Rotation.Y)
	}
	if w.Direction() != 1 {
		t.Errorf("direction = %v, want +1 after an even number of turns", w.Direction())
	}
	if math.Abs(dog.Position.X) < 165 {
		t.Errorf("x = %v, want past -165 at the fourth turn", dog.Position.X)
	}
}

func TestWalkerFirstTurn(t *testing.T) {
	w := NewWalker(0.1, 165, math.Pi/2)
	dog := scene.NewNode("dog", nil)
	w.Attach(dog)

	for w.Turns() == 0 {
		w.Step()
	}
	if dog.Position.X <= 165 {
		t.Errorf("turned at x = %v, want beyond 165", dog.Position.X)
	}
	if w.Direction() != -1 {
		t.Errorf("direction = %v, want -1", w.Direction())
	}
	if dog.Rotation.Y != math.Pi/2 {
		t.Errorf("yaw = %v, want pi/2", dog.Rotation.Y)
	}

	// The next step moves back inside without turning again.
	w.Step()
	if w.Turns() != 1 {
		t.Errorf("turns = %d after stepping back, want 1", w.Turns())
	}
}

func TestWalkerUnattached(t *testing.T) {
	w := NewWalker(0.1, 165, math.Pi/2)
	w.Step()
	if w.Attached() || w.Turns() != 0 {
		t.Error("unattached walker should be inert")
	}
}

func TestNewDogWalker(t *testing.T) {
	w := NewDogWalker(scene.DogConfig{Speed: 0.1, Margin: 10, Turn: scene.Angle(math.Pi / 2)},
		scene.WorldConfig{Scale: 350})
	if w.Boundary != 165 || w.Speed != 0.1 {
		t.Errorf("walker = %+v", w)
	}
}
