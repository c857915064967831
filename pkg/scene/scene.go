package scene

// Scene is the ordered list of nodes handed to the renderer each frame.
// It is owned by the frame loop; loads append to it between ticks.
type Scene struct {
	nodes []*Node
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends nodes in draw order.
func (s *Scene) Add(nodes ...*Node) {
	s.nodes = append(s.nodes, nodes...)
}

// Nodes returns the nodes in draw order. The slice is shared; callers must
// not modify it.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Find returns the first node named name.
func (s *Scene) Find(name string) (*Node, bool) {
	for _, n := range s.nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}
