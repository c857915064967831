package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/roomwalk/pkg/math3d"
)

//go:embed layout.yaml
var defaultLayout []byte

// ErrInvalidLayout is wrapped by every Validate failure.
var ErrInvalidLayout = errors.New("invalid layout")

// Layout describes everything placed in the room.
type Layout struct {
	World  WorldConfig  `yaml:"world"`
	Camera CameraConfig `yaml:"camera"`
	Props  []Prop       `yaml:"props"`
	Fish   FishConfig   `yaml:"fish"`
	Dog    DogConfig    `yaml:"dog"`
	Screen ScreenConfig `yaml:"screen"`
}

// WorldConfig sizes the room. Scale is the floor edge length; the camera
// is clamped to half of it on x and z.
type WorldConfig struct {
	Scale         float64 `yaml:"scale"`
	WallHeight    float64 `yaml:"wallHeight"`
	WallThickness float64 `yaml:"wallThickness"`
	WallCenterY   float64 `yaml:"wallCenterY"`
	RoofY         float64 `yaml:"roofY"`
	RoofThickness float64 `yaml:"roofThickness"`
}

// CameraConfig is the viewer's start pose and movement parameters.
type CameraConfig struct {
	Start     Point   `yaml:"start"`
	BaseSpeed float64 `yaml:"baseSpeed"`
	Collider  Point   `yaml:"collider"`
	FOV       float64 `yaml:"fov"`
}

// Prop is a static model placement.
type Prop struct {
	Name     string  `yaml:"name"`
	Path     string  `yaml:"path"`
	Scale    float64 `yaml:"scale"`
	Position Point   `yaml:"position"`
	Rotation Euler   `yaml:"rotation"`
}

// FishConfig describes the aquarium school. Fish facing +pi/2 swim toward
// Low; on reaching it they snap to LowSnap. Fish facing -pi/2 swim toward
// High and snap to HighSnap.
type FishConfig struct {
	Model    string      `yaml:"model"`
	Scale    float64     `yaml:"scale"`
	Step     float64     `yaml:"step"`
	Low      float64     `yaml:"low"`
	High     float64     `yaml:"high"`
	LowSnap  Anchor      `yaml:"lowSnap"`
	HighSnap Anchor      `yaml:"highSnap"`
	Spawns   []FishSpawn `yaml:"spawns"`
}

// Anchor is a teleport target on the x/z plane with the heading applied on
// arrival.
type Anchor struct {
	X      float64 `yaml:"x"`
	Z      float64 `yaml:"z"`
	Facing Angle   `yaml:"facing"`
}

// FishSpawn is one fish's starting point and heading.
type FishSpawn struct {
	Position Point `yaml:"position"`
	Facing   Angle `yaml:"facing"`
}

// DogConfig describes the patrolling dog. It walks along x between
// +-(World.Scale/2 - Margin).
type DogConfig struct {
	Model    string  `yaml:"model"`
	Scale    float64 `yaml:"scale"`
	Position Point   `yaml:"position"`
	Speed    float64 `yaml:"speed"`
	Margin   float64 `yaml:"margin"`
	Turn     Angle   `yaml:"turn"`
}

// ScreenConfig places the TV screen quad toggled with p and i.
type ScreenConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Position Point   `yaml:"position"`
	Rotation Euler   `yaml:"rotation"`
}

// Boundary is the dog's turning distance from the origin.
func (d DogConfig) Boundary(w WorldConfig) float64 {
	return w.Scale/2 - d.Margin
}

// Point is a YAML [x, y, z] triple.
type Point math3d.Vec3

// Vec3 converts p.
func (p Point) Vec3() math3d.Vec3 { return math3d.Vec3(p) }

func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("line %d: point needs 3 components, got %d", value.Line, len(xs))
	}
	*p = Point{X: xs[0], Y: xs[1], Z: xs[2]}
	return nil
}

// Angle is radians. In YAML it is either a number or an expression over pi
// such as "pi/2", "-pi" or "3*pi/4".
type Angle float64

func (a *Angle) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: angle must be a scalar", value.Line)
	}
	v, err := ParseAngle(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*a = Angle(v)
	return nil
}

// ParseAngle parses a radian value written as a number or as
// [-][k*]pi[/n].
func ParseAngle(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	sign := 1.0
	expr := s
	if strings.HasPrefix(expr, "-") {
		sign = -1
		expr = expr[1:]
	}
	coeff := 1.0
	if i := strings.Index(expr, "*"); i >= 0 {
		c, err := strconv.ParseFloat(expr[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("bad angle %q", s)
		}
		coeff = c
		expr = expr[i+1:]
	}
	div := 1.0
	if i := strings.Index(expr, "/"); i >= 0 {
		d, err := strconv.ParseFloat(expr[i+1:], 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("bad angle %q", s)
		}
		div = d
		expr = expr[:i]
	}
	if !strings.EqualFold(expr, "pi") {
		return 0, fmt.Errorf("bad angle %q", s)
	}
	return sign * coeff * math.Pi / div, nil
}

// Euler is a YAML [x, y, z] rotation whose components are angles.
type Euler [3]Angle

// Vec3 converts e.
func (e Euler) Vec3() math3d.Vec3 {
	return math3d.V3(float64(e[0]), float64(e[1]), float64(e[2]))
}

func (e *Euler) UnmarshalYAML(value *yaml.Node) error {
	var as []Angle
	if err := value.Decode(&as); err != nil {
		return err
	}
	if len(as) != 3 {
		return fmt.Errorf("line %d: rotation needs 3 components, got %d", value.Line, len(as))
	}
	copy(e[:], as)
	return nil
}

// DefaultLayout returns the built-in room.
func DefaultLayout() (*Layout, error) {
	return ParseLayout(defaultLayout)
}

// LoadLayout reads a layout file. An empty path yields the built-in room.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	l, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ParseLayout decodes and validates YAML layout data.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

const facingTolerance = 1e-9

func sameAngle(a Angle, want float64) bool {
	return math.Abs(float64(a)-want) <= facingTolerance
}

// quarterTurn reports whether a is one of the two fish headings.
func quarterTurn(a Angle) bool {
	return sameAngle(a, math.Pi/2) || sameAngle(a, -math.Pi/2)
}

// Validate rejects layouts the frame loop cannot run.
func (l *Layout) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidLayout, fmt.Sprintf(format, args...))
	}
	if l.World.Scale <= 0 {
		return invalid("world scale must be positive")
	}
	if l.Camera.BaseSpeed <= 0 {
		return invalid("camera baseSpeed must be positive")
	}
	if c := l.Camera.Collider; c.X <= 0 || c.Y <= 0 || c.Z <= 0 {
		return invalid("camera collider must be positive on every axis")
	}
	for i, p := range l.Props {
		if p.Path == "" {
			return invalid("prop %d has no path", i)
		}
		if p.Scale <= 0 {
			return invalid("prop %q scale must be positive", p.Path)
		}
	}
	if len(l.Fish.Spawns) > 0 {
		if l.Fish.Model == "" {
			return invalid("fish model is required when fish spawn")
		}
		if l.Fish.Step <= 0 {
			return invalid("fish step must be positive")
		}
		if l.Fish.Low >= l.Fish.High {
			return invalid("fish low %v must be below high %v", l.Fish.Low, l.Fish.High)
		}
		for i, sp := range l.Fish.Spawns {
			if !quarterTurn(sp.Facing) {
				return invalid("fish spawn %d facing %v must be pi/2 or -pi/2", i, float64(sp.Facing))
			}
		}
		if !sameAngle(l.Fish.LowSnap.Facing, -math.Pi/2) {
			return invalid("fish lowSnap facing %v must be -pi/2", float64(l.Fish.LowSnap.Facing))
		}
		if !sameAngle(l.Fish.HighSnap.Facing, math.Pi/2) {
			return invalid("fish highSnap facing %v must be pi/2", float64(l.Fish.HighSnap.Facing))
		}
	}
	if l.Dog.Model != "" {
		if l.Dog.Speed <= 0 {
			return invalid("dog speed must be positive")
		}
		if l.Dog.Boundary(l.World) <= 0 {
			return invalid("dog margin %v leaves no room to walk", l.Dog.Margin)
		}
	}
	return nil
}
