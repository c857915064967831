package bounds

// Registry is an append-only set of static boxes. It is owned by the frame
// loop and is not safe for concurrent use; loads finishing on other
// goroutines hand their boxes to the loop, which registers them between
// ticks.
type Registry struct {
	boxes []AABB
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{boxes: make([]AABB, 0, 32)}
}

// Register appends a box. Boxes are never removed or updated.
func (r *Registry) Register(box AABB) {
	r.boxes = append(r.boxes, box)
}

// Intersects reports whether candidate overlaps any registered box.
func (r *Registry) Intersects(candidate AABB) bool {
	_, ok := r.FirstHit(candidate)
	return ok
}

// FirstHit returns the first registered box overlapping candidate, in
// registration order. A linear scan is fine at room scale (tens of boxes).
func (r *Registry) FirstHit(candidate AABB) (AABB, bool) {
	for _, b := range r.boxes {
		if candidate.Intersects(b) {
			return b, true
		}
	}
	return AABB{}, false
}

// Len returns the number of registered boxes.
func (r *Registry) Len() int {
	return len(r.boxes)
}

// Boxes returns a copy of the registered boxes.
func (r *Registry) Boxes() []AABB {
	out := make([]AABB, len(r.boxes))
	copy(out, r.boxes)
	return out
}
