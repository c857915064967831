package scene

import (
	"image/color"
	"math"

	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/math3d"
	"github.com/taigrr/roomwalk/pkg/models"
)

// Room is the fixed geometry: floor, four walls and a roof. Only the walls
// collide.
type Room struct {
	Floor *Node
	Walls [4]*Node
	Roof  *Node
}

var (
	floorColor = color.RGBA{235, 235, 230, 255}
	wallColor  = color.RGBA{245, 245, 245, 255}
	roofColor  = color.RGBA{220, 220, 220, 255}
)

// wallSegments subdivides walls so a wall next to the camera is clipped in
// small pieces.
const wallSegments = 12

// BuildRoom creates the room for w.
func BuildRoom(w WorldConfig) *Room {
	half := w.Scale / 2

	floor := NewNode("floor", models.NewPlaneMesh("floor", w.Scale, w.Scale, wallSegments))
	floor.Color = floorColor

	wallMesh := models.NewBoxMesh("wall", math3d.V3(w.Scale, w.WallHeight, w.WallThickness), wallSegments)
	placements := [4]struct {
		pos math3d.Vec3
		yaw float64
	}{
		{math3d.V3(0, w.WallCenterY, -half), 0},
		{math3d.V3(0, w.WallCenterY, half), 0},
		{math3d.V3(half, w.WallCenterY, 0), math.Pi / 2},
		{math3d.V3(-half, w.WallCenterY, 0), math.Pi / 2},
	}

	r := &Room{Floor: floor}
	for i, p := range placements {
		wall := NewNode("wall", wallMesh)
		wall.Position = p.pos
		wall.Rotation = math3d.V3(0, p.yaw, 0)
		wall.Color = wallColor
		r.Walls[i] = wall
	}

	roof := NewNode("roof", models.NewBoxMesh("roof", math3d.V3(w.Scale, w.RoofThickness, w.Scale), wallSegments))
	roof.Position = math3d.V3(0, w.RoofY, 0)
	roof.Color = roofColor
	r.Roof = roof

	return r
}

// Nodes returns every room node in draw order.
func (r *Room) Nodes() []*Node {
	return []*Node{r.Floor, r.Walls[0], r.Walls[1], r.Walls[2], r.Walls[3], r.Roof}
}

// WallBoxes returns the world boxes of the four walls.
func (r *Room) WallBoxes() []bounds.AABB {
	out := make([]bounds.AABB, 0, len(r.Walls))
	for _, w := range r.Walls {
		out = append(out, w.WorldBounds())
	}
	return out
}
