// Package render is a software rasterizer that draws the room into a
// framebuffer and presents it on a terminal with half-block cells.
package render

import (
	"math"

	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/math3d"
)

// Vertex is a world-space vertex ready for lighting.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    Color
}

// Triangle is three world-space vertices in the mesh's stored winding.
type Triangle struct {
	V [3]Vertex
}

// MeshSource is the read side of a mesh the rasterizer needs.
type MeshSource interface {
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	GetFaceColor(i int) ([4]float64, bool)
	GetBounds() (min, max math3d.Vec3)
}

// Stats counts work done since the last ResetStats.
type Stats struct {
	MeshesTested     int
	MeshesCulled     int
	TrianglesDrawn   int
	TrianglesClipped int
}

// Rasterizer draws lit triangles into a framebuffer with a depth buffer.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64

	Stats                  Stats
	DisableBackfaceCulling bool

	// Ambient is the light floor; surfaces facing away from the light
	// still receive this fraction of their color.
	Ambient float64
}

// NewRasterizer creates a rasterizer drawing from camera into fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera, fb: fb, Ambient: 0.35}
	r.Resize()
	return r
}

// Resize reallocates the depth buffer to the framebuffer's size.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// ClearDepth resets the depth buffer. Call once per frame.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// ResetStats zeroes Stats.
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// clipVertex is a vertex in clip space carrying its lit color as floats so
// clipping can interpolate it.
type clipVertex struct {
	pos     math3d.Vec4
	r, g, b float64
}

func lerpClip(a, b clipVertex, t float64) clipVertex {
	return clipVertex{
		pos: math3d.Vec4{
			X: a.pos.X + (b.pos.X-a.pos.X)*t,
			Y: a.pos.Y + (b.pos.Y-a.pos.Y)*t,
			Z: a.pos.Z + (b.pos.Z-a.pos.Z)*t,
			W: a.pos.W + (b.pos.W-a.pos.W)*t,
		},
		r: a.r + (b.r-a.r)*t,
		g: a.g + (b.g-a.g)*t,
		b: a.b + (b.b-a.b)*t,
	}
}

// nearDistance is positive for clip-space points in front of the near
// plane.
func nearDistance(v math3d.Vec4) float64 {
	return v.Z + v.W
}

// clipNear clips a triangle against the near plane. It returns 0, 3 or 4
// vertices in the input winding.
func clipNear(in [3]clipVertex, out *[4]clipVertex) int {
	n := 0
	for i := range 3 {
		a, b := in[i], in[(i+1)%3]
		da, db := nearDistance(a.pos), nearDistance(b.pos)
		if da >= 0 {
			out[n] = a
			n++
		}
		if (da >= 0) != (db >= 0) {
			out[n] = lerpClip(a, b, da/(da-db))
			n++
		}
	}
	return n
}

// screenVertex is a projected vertex.
type screenVertex struct {
	X, Y, Z float64
	r, g, b float64
}

func (r *Rasterizer) project(v clipVertex) screenVertex {
	w := v.pos.W
	return screenVertex{
		X: (v.pos.X/w + 1) * 0.5 * float64(r.fb.Width),
		Y: (1 - v.pos.Y/w) * 0.5 * float64(r.fb.Height),
		Z: v.pos.Z / w,
		r: v.r, g: v.g, b: v.b,
	}
}

// DrawTriangleGouraud lights each vertex against lightDir (pointing toward
// the light), clips the triangle at the near plane and fills it with
// interpolated color.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle, lightDir math3d.Vec3) {
	if r.fb == nil {
		return
	}
	viewProj := r.camera.ViewProjectionMatrix()
	light := lightDir.Normalize()

	var cv [3]clipVertex
	for i, v := range tri.V {
		intensity := r.Ambient + (1-r.Ambient)*math.Max(0, v.Normal.Dot(light))
		cv[i] = clipVertex{
			pos: viewProj.MulVec4(math3d.V4FromV3(v.Position, 1)),
			r:   float64(v.Color.R) * intensity,
			g:   float64(v.Color.G) * intensity,
			b:   float64(v.Color.B) * intensity,
		}
	}

	var poly [4]clipVertex
	n := clipNear(cv, &poly)
	if n < 3 {
		return
	}
	if n == 4 || nearDistance(cv[0].pos) < 0 || nearDistance(cv[1].pos) < 0 || nearDistance(cv[2].pos) < 0 {
		r.Stats.TrianglesClipped++
	}

	var sv [4]screenVertex
	for i := range n {
		sv[i] = r.project(poly[i])
	}
	r.fillTriangle(sv[0], sv[1], sv[2])
	if n == 4 {
		r.fillTriangle(sv[0], sv[2], sv[3])
	}
}

func (r *Rasterizer) fillTriangle(s0, s1, s2 screenVertex) {
	cross := math3d.V2(s1.X-s0.X, s1.Y-s0.Y).Cross(math3d.V2(s2.X-s0.X, s2.Y-s0.Y))
	if cross == 0 {
		return
	}
	if cross < 0 && !r.DisableBackfaceCulling {
		return
	}

	w, h := r.fb.Width, r.fb.Height
	minX := int(math.Max(0, math.Floor(min3(s0.X, s1.X, s2.X))))
	maxX := int(math.Min(float64(w-1), math.Ceil(max3(s0.X, s1.X, s2.X))))
	minY := int(math.Max(0, math.Floor(min3(s0.Y, s1.Y, s2.Y))))
	maxY := int(math.Min(float64(h-1), math.Ceil(max3(s0.Y, s1.Y, s2.Y))))
	if minX > maxX || minY > maxY {
		return
	}
	r.Stats.TrianglesDrawn++

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := barycentric(s0.X, s0.Y, s1.X, s1.Y, s2.X, s2.Y, float64(x)+0.5, float64(y)+0.5)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			z := bc.X*s0.Z + bc.Y*s1.Z + bc.Z*s2.Z
			idx := y*w + x
			if z >= r.zbuffer[idx] {
				continue
			}
			r.zbuffer[idx] = z
			r.fb.Pixels[idx] = RGB(
				clampByte(bc.X*s0.r+bc.Y*s1.r+bc.Z*s2.r),
				clampByte(bc.X*s0.g+bc.Y*s1.g+bc.Z*s2.g),
				clampByte(bc.X*s0.b+bc.Y*s1.b+bc.Z*s2.b),
			)
		}
	}
}

// barycentric returns the weights of (px, py) for vertices 0, 1 and 2.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

// IsVisible reports whether a world box intersects the view frustum.
func (r *Rasterizer) IsVisible(box bounds.AABB) bool {
	return r.camera.Frustum().IntersectAABB(box)
}

// DrawMesh draws mesh under transform with Gouraud shading. Faces with a
// material use its base color; the rest use color. Meshes whose transformed
// bounds miss the frustum are skipped.
func (r *Rasterizer) DrawMesh(mesh MeshSource, transform math3d.Mat4, color Color, lightDir math3d.Vec3) bool {
	r.Stats.MeshesTested++
	min, max := mesh.GetBounds()
	if !r.IsVisible(bounds.NewAABB(min, max).Transform(transform)) {
		r.Stats.MeshesCulled++
		return false
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		c := color
		if fc, ok := mesh.GetFaceColor(i); ok {
			c = RGB(clampByte(fc[0]*255), clampByte(fc[1]*255), clampByte(fc[2]*255))
		}

		var tri Triangle
		for k := range 3 {
			p, n := mesh.GetVertex(face[k])
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   transform.MulVec3Dir(n).Normalize(),
				Color:    c,
			}
		}
		r.DrawTriangleGouraud(tri, lightDir)
	}
	return true
}

// DrawLine3D draws a world-space segment, clipped at the near plane. It
// ignores depth so overlays stay visible.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	if r.fb == nil {
		return
	}
	viewProj := r.camera.ViewProjectionMatrix()
	ca := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	cb := viewProj.MulVec4(math3d.V4FromV3(b, 1))

	da, db := nearDistance(ca), nearDistance(cb)
	if da < 0 && db < 0 {
		return
	}
	if da < 0 {
		ca = lerpClip(clipVertex{pos: ca}, clipVertex{pos: cb}, da/(da-db)).pos
	} else if db < 0 {
		cb = lerpClip(clipVertex{pos: cb}, clipVertex{pos: ca}, db/(db-da)).pos
	}

	sa := r.project(clipVertex{pos: ca})
	sb := r.project(clipVertex{pos: cb})
	r.fb.DrawLine(int(sa.X), int(sa.Y), int(sb.X), int(sb.Y), color)
}
