package render

import (
	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/math3d"
)

// boxEdges indexes the corners returned by boxCorners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0}, // min z
	{4, 5}, {5, 7}, {7, 6}, {6, 4}, // max z
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func boxCorners(b bounds.AABB) [8]math3d.Vec3 {
	var c [8]math3d.Vec3
	for i := range c {
		c[i] = math3d.V3(
			pick(i&1 != 0, b.Max.X, b.Min.X),
			pick(i&2 != 0, b.Max.Y, b.Min.Y),
			pick(i&4 != 0, b.Max.Z, b.Min.Z),
		)
	}
	return c
}

// DrawAABB outlines a world box. Boxes outside the frustum are skipped.
func (r *Rasterizer) DrawAABB(box bounds.AABB, color Color) {
	if !r.IsVisible(box) {
		return
	}
	c := boxCorners(box)
	for _, e := range boxEdges {
		r.DrawLine3D(c[e[0]], c[e[1]], color)
	}
}

// DrawCrosshair marks the framebuffer center.
func (fb *Framebuffer) DrawCrosshair(color Color) {
	cx, cy := fb.Width/2, fb.Height/2
	fb.DrawLine(cx-2, cy, cx+2, cy, color)
	fb.DrawLine(cx, cy-2, cx, cy+2, color)
}
