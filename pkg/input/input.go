// Package input tracks which movement keys are held.
//
// Flags are level-triggered: a key-down sets its flag and only the matching
// key-up clears it. There is no queueing and no debouncing. If a key-up is
// lost (for example the terminal loses focus while the key is held) the flag
// stays set until the key is pressed and released again.
package input

// Intent is a movement direction bound to a key.
type Intent int

const (
	IntentNone Intent = iota
	IntentForward
	IntentBackward
	IntentLeft
	IntentRight
)

func (i Intent) String() string {
	switch i {
	case IntentForward:
		return "forward"
	case IntentBackward:
		return "backward"
	case IntentLeft:
		return "left"
	case IntentRight:
		return "right"
	default:
		return "none"
	}
}

// Action is a non-movement command triggered by a key press. Actions are
// handled outside the frame loop.
type Action int

const (
	ActionNone         Action = iota
	ActionToggleScreen        // p
	ActionPlayScreen          // i
	ActionToggleMute          // m
)

// Flags is the held state of the four movement intents.
type Flags struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
}

// Any reports whether at least one intent is held.
func (f Flags) Any() bool {
	return f.Forward || f.Backward || f.Left || f.Right
}

// Keymap maps key names to intents and actions.
type Keymap struct {
	Intents map[string]Intent
	Actions map[string]Action
}

// DefaultKeymap returns the WASD bindings plus the screen and mute keys.
func DefaultKeymap() Keymap {
	return Keymap{
		Intents: map[string]Intent{
			"w": IntentForward,
			"s": IntentBackward,
			"a": IntentLeft,
			"d": IntentRight,
		},
		Actions: map[string]Action{
			"p": ActionToggleScreen,
			"i": ActionPlayScreen,
			"m": ActionToggleMute,
		},
	}
}

// State holds the movement flags. It has a single writer (the key event
// handler) and a single reader per tick, both on the frame loop goroutine.
type State struct {
	keymap Keymap
	flags  Flags
}

// NewState creates a State using km.
func NewState(km Keymap) *State {
	return &State{keymap: km}
}

// KeyDown sets the flag bound to key and returns the action bound to it,
// if any. Unbound keys change nothing.
func (s *State) KeyDown(key string) Action {
	s.set(s.keymap.Intents[key], true)
	return s.keymap.Actions[key]
}

// KeyUp clears the flag bound to key. Actions fire on key-down only.
func (s *State) KeyUp(key string) {
	s.set(s.keymap.Intents[key], false)
}

// Flags returns a snapshot of the current flags.
func (s *State) Flags() Flags {
	return s.flags
}

func (s *State) set(i Intent, held bool) {
	switch i {
	case IntentForward:
		s.flags.Forward = held
	case IntentBackward:
		s.flags.Backward = held
	case IntentLeft:
		s.flags.Left = held
	case IntentRight:
		s.flags.Right = held
	}
}
