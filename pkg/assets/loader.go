// Package assets loads prop meshes off the frame loop. Each Load call
// returns a one-shot channel that delivers exactly one Result and is then
// closed; the frame loop polls these channels between ticks.
package assets

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/taigrr/roomwalk/pkg/bounds"
	"github.com/taigrr/roomwalk/pkg/math3d"
	"github.com/taigrr/roomwalk/pkg/models"
	"github.com/taigrr/roomwalk/pkg/scene"
)

// DefaultConcurrency bounds simultaneous mesh parses.
const DefaultConcurrency = 4

// Request places a model file in the room.
type Request struct {
	Name     string
	Path     string
	Scale    float64
	Position math3d.Vec3
	Rotation math3d.Vec3
}

// Result is the outcome of one Request. On success Node is placed and Box
// is its world bounding box; on failure only Err is set.
type Result struct {
	Request Request
	Node    *scene.Node
	Box     bounds.AABB
	Err     error
}

// Loader parses glTF files relative to a root directory. Meshes are parsed
// once per path and shared between the nodes that use them.
type Loader struct {
	root   string
	gltf   *models.GLTFLoader
	sem    *semaphore.Weighted
	group  singleflight.Group
	logger *log.Logger

	mu     sync.Mutex
	meshes map[string]*models.Mesh
}

// NewLoader creates a loader. A concurrency below 1 uses
// DefaultConcurrency; a nil logger discards.
func NewLoader(root string, concurrency int64, logger *log.Logger) *Loader {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		root:   root,
		gltf:   models.NewGLTFLoader(),
		sem:    semaphore.NewWeighted(concurrency),
		logger: logger,
		meshes: make(map[string]*models.Mesh),
	}
}

// Load starts loading req in the background.
func (l *Loader) Load(ctx context.Context, req Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- l.load(ctx, req)
	}()
	return out
}

func (l *Loader) load(ctx context.Context, req Request) Result {
	res := Result{Request: req}
	l.logger.Debug("loading", "name", req.Name, "path", req.Path)

	mesh, err := l.Mesh(ctx, req.Path)
	if err != nil {
		res.Err = fmt.Errorf("loading %s: %w", req.Name, err)
		l.logger.Error("load failed", "name", req.Name, "path", req.Path, "err", err)
		return res
	}

	node := scene.NewNode(req.Name, mesh)
	node.Scale = req.Scale
	node.Position = req.Position
	node.Rotation = req.Rotation

	res.Node = node
	res.Box = node.WorldBounds()
	l.logger.Info("loaded", "name", req.Name, "triangles", mesh.TriangleCount(), "box", res.Box)
	return res
}

// Mesh returns the parsed mesh for path, parsing it at most once.
func (l *Loader) Mesh(ctx context.Context, path string) (*models.Mesh, error) {
	l.mu.Lock()
	m, ok := l.meshes[path]
	l.mu.Unlock()
	if ok {
		return m, nil
	}

	v, err, _ := l.group.Do(path, func() (any, error) {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer l.sem.Release(1)

		m, err := l.gltf.Load(l.resolve(path))
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.meshes[path] = m
		l.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Mesh), nil
}

// Cached returns the number of parsed meshes held.
func (l *Loader) Cached() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.meshes)
}

func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) || l.root == "" {
		return path
	}
	return filepath.Join(l.root, path)
}
