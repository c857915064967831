package patrol

import (
	"math"

	"github.com/taigrr/roomwalk/pkg/scene"
)

// Walker paces a node along x between -Boundary and +Boundary. Each time it
// passes a bound it reverses and adds Turn to the node's yaw. The yaw is
// never wrapped.
type Walker struct {
	Speed    float64
	Boundary float64
	Turn     float64

	node *scene.Node
	dir  float64
	n    int
}

// NewWalker creates a walker heading toward +x. It does nothing until a
// node is attached.
func NewWalker(speed, boundary, turn float64) *Walker {
	return &Walker{Speed: speed, Boundary: boundary, Turn: turn, dir: 1}
}

// NewDogWalker creates the walker described by cfg inside world w.
func NewDogWalker(cfg scene.DogConfig, w scene.WorldConfig) *Walker {
	return NewWalker(cfg.Speed, cfg.Boundary(w), float64(cfg.Turn))
}

// Attach sets the node to move.
func (w *Walker) Attach(n *scene.Node) {
	w.node = n
}

// Attached reports whether a node has been attached.
func (w *Walker) Attached() bool {
	return w.node != nil
}

// Direction is +1 while walking toward +x and -1 otherwise.
func (w *Walker) Direction() float64 {
	return w.dir
}

// Turns returns how many times the walker has reversed.
func (w *Walker) Turns() int {
	return w.n
}

// Step moves the node one tick.
func (w *Walker) Step() {
	if w.node == nil {
		return
	}
	x := w.node.Position.X + w.Speed*w.dir
	w.node.Position.X = x
	// Only an outward crossing turns; a node still past the bound on its
	// first step back must not flip again.
	if math.Abs(x) > w.Boundary && x*w.dir > 0 {
		w.dir = -w.dir
		w.node.Rotation.Y += w.Turn
		w.n++
	}
}
