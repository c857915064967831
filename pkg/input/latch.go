package input

import (
	"slices"
	"time"
)

// Default latch timing. Initial bridges a keyboard's repeat delay; Repeat
// outlasts the gap between auto-repeats.
const (
	DefaultLatchInitial = 600 * time.Millisecond
	DefaultLatchRepeat  = 150 * time.Millisecond
)

// Latch times out held keys on terminals that report presses but never
// releases. A press of a key that is not latched holds it for Initial. A
// press while it is still latched is taken as an auto-repeat and holds it
// for Repeat from now, so letting go stops the key within Repeat once the
// keyboard has started repeating.
type Latch struct {
	Initial time.Duration
	Repeat  time.Duration

	deadlines map[string]time.Time
}

// NewLatch creates a latch with the given hold windows.
func NewLatch(initial, repeat time.Duration) *Latch {
	return &Latch{
		Initial:   initial,
		Repeat:    repeat,
		deadlines: make(map[string]time.Time),
	}
}

// Press records a press of key at now.
func (l *Latch) Press(key string, now time.Time) {
	if d, ok := l.deadlines[key]; ok && now.Before(d) {
		l.deadlines[key] = later(d, now.Add(l.Repeat))
		return
	}
	l.deadlines[key] = now.Add(l.Initial)
}

// Expired removes and returns, sorted, every key whose hold ended at or
// before now.
func (l *Latch) Expired(now time.Time) []string {
	var out []string
	for k, d := range l.deadlines {
		if !now.Before(d) {
			out = append(out, k)
			delete(l.deadlines, k)
		}
	}
	slices.Sort(out)
	return out
}

// Held returns the number of latched keys.
func (l *Latch) Held() int {
	return len(l.deadlines)
}

// Reset forgets every latched key.
func (l *Latch) Reset() {
	clear(l.deadlines)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
