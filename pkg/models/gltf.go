package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/roomwalk/pkg/math3d"
)

var (
	// ErrUnsupportedFormat is returned for files that are not .glb or .gltf.
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrEmptyMesh is returned when a document has no triangle geometry.
	ErrEmptyMesh = errors.New("model has no triangles")
)

// GLTFLoader loads GLB/GLTF files into a single flattened Mesh. Node
// transforms are baked into the vertices, so the result is the whole
// default scene in model space.
type GLTFLoader struct {
	// CalculateNormals fills in normals when the file has none.
	CalculateNormals bool
}

// NewGLTFLoader creates a loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true}
}

// LoadGLTF loads a .glb or .gltf file with default options.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads path and flattens its default scene.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.FromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return mesh, nil
}

// FromDocument flattens an already decoded document.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, mat := range doc.Materials {
		mesh.Materials = append(mesh.Materials, convertMaterial(mat))
	}

	hasNormals := true
	visit := func(nodeIdx int, world math3d.Mat4) error {
		n := doc.Nodes[nodeIdx]
		if n.Mesh == nil {
			return nil
		}
		part, normals, err := readMesh(doc, doc.Meshes[*n.Mesh])
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		hasNormals = hasNormals && normals
		// part's material indices already point into mesh.Materials.
		appendShared(mesh, part, world)
		return nil
	}

	for _, root := range sceneRoots(doc) {
		if err := walkNodes(doc, root, math3d.Identity(), visit); err != nil {
			return nil, err
		}
	}

	if len(mesh.Faces) == 0 {
		return nil, ErrEmptyMesh
	}
	if l.CalculateNormals && !hasNormals {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// sceneRoots returns the root nodes of the default scene, or of the first
// scene when no default is set. Documents without scenes yield every node
// that is nobody's child.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func walkNodes(doc *gltf.Document, idx int, parent math3d.Mat4, visit func(int, math3d.Mat4) error) error {
	world := parent.Mul(localTransform(doc.Nodes[idx]))
	if err := visit(idx, world); err != nil {
		return err
	}
	for _, c := range doc.Nodes[idx].Children {
		if err := walkNodes(doc, c, world, visit); err != nil {
			return err
		}
	}
	return nil
}

// localTransform returns a node's matrix, or its TRS when no matrix is set.
func localTransform(n *gltf.Node) math3d.Mat4 {
	if m := math3d.Mat4(n.MatrixOrDefault()); m != math3d.Identity() {
		return m
	}
	t := n.Translation
	s := n.ScaleOrDefault()
	return math3d.Compose(
		math3d.V3(t[0], t[1], t[2]),
		math3d.FromQuat(n.RotationOrDefault()),
		math3d.V3(s[0], s[1], s[2]),
	)
}

// readMesh reads the triangle primitives of m. The bool reports whether
// every primitive carried normals.
func readMesh(doc *gltf.Document, m *gltf.Mesh) (*Mesh, bool, error) {
	out := NewMesh(m.Name)
	hasNormals := true

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip lines and points
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, false, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return nil, false, fmt.Errorf("read normals: %w", err)
			}
		}
		if len(normals) < len(positions) {
			hasNormals = false
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, false, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		base := len(out.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
			out.Vertices = append(out.Vertices, v)
		}

		// glTF front faces are counter-clockwise; swap to clockwise.
		for i := 0; i+2 < len(indices); i += 3 {
			out.Faces = append(out.Faces, Face{
				V: [3]int{
					base + int(indices[i]),
					base + int(indices[i+2]),
					base + int(indices[i+1]),
				},
				Material: material,
			})
		}
	}
	return out, hasNormals, nil
}

// appendShared appends part to mesh without rebasing material indices,
// which already refer to the document-wide material list.
func appendShared(mesh, part *Mesh, transform math3d.Mat4) {
	base := len(mesh.Vertices)
	for _, v := range part.Vertices {
		mesh.Vertices = append(mesh.Vertices, MeshVertex{
			Position: transform.MulVec3(v.Position),
			Normal:   transform.MulVec3Dir(v.Normal).Normalize(),
		})
	}
	for _, f := range part.Faces {
		f.V = [3]int{f.V[0] + base, f.V[1] + base, f.V[2] + base}
		mesh.Faces = append(mesh.Faces, f)
	}
}

func convertMaterial(mat *gltf.Material) Material {
	out := Material{Name: mat.Name, BaseColor: [4]float64{1, 1, 1, 1}}
	if mat.PBRMetallicRoughness != nil {
		out.BaseColor = mat.PBRMetallicRoughness.BaseColorFactorOrDefault()
	}
	return out
}
