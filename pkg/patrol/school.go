// Package patrol moves the room's autonomous entities: a school of fish
// swimming back and forth in the aquarium and a dog walking across the
// room. Each animator owns its entities and mutates their nodes once per
// tick.
package patrol

import (
	"github.com/taigrr/roomwalk/pkg/scene"
)

// thresholdEpsilon absorbs the rounding of repeated float steps so that a
// fish crossing a threshold after an exact number of steps is not held back
// a tick by accumulated error.
const thresholdEpsilon = 1e-9

// Heading is the direction a fish swims along z.
type Heading int

const (
	// Advancing fish face +pi/2 and swim toward the low threshold.
	Advancing Heading = 1
	// Retreating fish face -pi/2 and swim toward the high threshold.
	Retreating Heading = -1
)

func (h Heading) String() string {
	if h == Advancing {
		return "advancing"
	}
	return "retreating"
}

// HeadingFor maps an initial facing angle to a heading: +pi/2 advances and
// everything else retreats. Layout validation admits only +-pi/2.
func HeadingFor(facing float64) Heading {
	if facing > 0 {
		return Advancing
	}
	return Retreating
}

// Fish is one patrol entity.
type Fish struct {
	Node    *scene.Node
	Heading Heading
}

// School steps every fish along z between Low and High, teleporting each
// one to the opposite anchor when it reaches a threshold.
type School struct {
	cfg  scene.FishConfig
	fish []*Fish
}

// NewSchool creates an empty school.
func NewSchool(cfg scene.FishConfig) *School {
	return &School{cfg: cfg}
}

// Add adopts node as a fish heading according to facing.
func (s *School) Add(node *scene.Node, facing float64) *Fish {
	f := &Fish{Node: node, Heading: HeadingFor(facing)}
	s.fish = append(s.fish, f)
	return f
}

// Len returns the number of fish.
func (s *School) Len() int {
	return len(s.fish)
}

// Step advances every fish by one tick.
func (s *School) Step() {
	for _, f := range s.fish {
		s.step(f)
	}
}

func (s *School) step(f *Fish) {
	pos := &f.Node.Position
	switch f.Heading {
	case Advancing:
		pos.Z -= s.cfg.Step
		if pos.Z <= s.cfg.Low+thresholdEpsilon {
			s.snap(f, s.cfg.LowSnap, Retreating)
		}
	default:
		pos.Z += s.cfg.Step
		if pos.Z >= s.cfg.High-thresholdEpsilon {
			s.snap(f, s.cfg.HighSnap, Advancing)
		}
	}
}

func (s *School) snap(f *Fish, a scene.Anchor, h Heading) {
	f.Node.Position.X = a.X
	f.Node.Position.Z = a.Z
	f.Node.Rotation.Y = float64(a.Facing)
	f.Heading = h
}
