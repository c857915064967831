package scene

import (
	"math"
	"testing"

	"github.com/taigrr/roomwalk/pkg/math3d"
)

func testWorld() WorldConfig {
	return WorldConfig{
		Scale:         350,
		WallHeight:    190,
		WallThickness: 10,
		WallCenterY:   50,
		RoofY:         150,
		RoofThickness: 10,
	}
}

func TestBuildRoomWallBoxes(t *testing.T) {
	room := BuildRoom(testWorld())
	boxes := room.WallBoxes()
	if len(boxes) != 4 {
		t.Fatalf("got %d wall boxes, want 4", len(boxes))
	}

	tests := []struct {
		name     string
		min, max math3d.Vec3
	}{
		{"back", math3d.V3(-175, -45, -180), math3d.V3(175, 145, -170)},
		{"front", math3d.V3(-175, -45, 170), math3d.V3(175, 145, 180)},
		{"right", math3d.V3(170, -45, -175), math3d.V3(180, 145, 175)},
		{"left", math3d.V3(-180, -45, -175), math3d.V3(-170, 145, 175)},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := boxes[i]
			if !got.Min.ApproxEqual(tt.min, 1e-9) || !got.Max.ApproxEqual(tt.max, 1e-9) {
				t.Errorf("box = %v, want [%v %v]", got, tt.min, tt.max)
			}
		})
	}
}

func TestBuildRoomNodes(t *testing.T) {
	room := BuildRoom(testWorld())
	nodes := room.Nodes()
	if len(nodes) != 6 {
		t.Fatalf("got %d nodes, want 6", len(nodes))
	}
	if nodes[0] != room.Floor || nodes[5] != room.Roof {
		t.Error("floor must draw first and roof last")
	}
	if got := room.Roof.WorldBounds().Min.Y; math.Abs(got-145) > 1e-9 {
		t.Errorf("roof bottom = %v, want 145", got)
	}
	// Walls share one mesh.
	if room.Walls[0].Mesh != room.Walls[3].Mesh {
		t.Error("walls should share a mesh")
	}
}

func TestNodeWorldBounds(t *testing.T) {
	t.Run("no mesh", func(t *testing.T) {
		n := NewNode("empty", nil)
		n.Position = math3d.V3(1, 2, 3)
		b := n.WorldBounds()
		if b.Min != n.Position || b.Max != n.Position {
			t.Errorf("bounds = %v, want point at %v", b, n.Position)
		}
	})

	t.Run("scaled and translated", func(t *testing.T) {
		room := BuildRoom(testWorld())
		n := NewNode("box", room.Roof.Mesh)
		n.Scale = 0.5
		n.Position = math3d.V3(0, 10, 0)
		b := n.WorldBounds()
		want := math3d.V3(87.5, 12.5, 87.5)
		if !b.Max.ApproxEqual(want, 1e-9) {
			t.Errorf("max = %v, want %v", b.Max, want)
		}
	})
}

func TestSceneFind(t *testing.T) {
	s := New()
	a := NewNode("a", nil)
	b := NewNode("b", nil)
	s.Add(a, b)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if got, ok := s.Find("b"); !ok || got != b {
		t.Errorf("Find(b) = %v, %v", got, ok)
	}
	if _, ok := s.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
}
