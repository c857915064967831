package input

import (
	"slices"
	"testing"
	"time"
)

func TestLatchSinglePress(t *testing.T) {
	t0 := time.Unix(0, 0)
	l := NewLatch(DefaultLatchInitial, DefaultLatchRepeat)
	l.Press("w", t0)

	if got := l.Expired(t0.Add(599 * time.Millisecond)); len(got) != 0 {
		t.Errorf("expired early: %v", got)
	}
	if got := l.Expired(t0.Add(600 * time.Millisecond)); !slices.Equal(got, []string{"w"}) {
		t.Errorf("Expired = %v, want [w]", got)
	}
	if l.Held() != 0 {
		t.Error("expired key still held")
	}
}

func TestLatchRepeatsExtend(t *testing.T) {
	t0 := time.Unix(0, 0)
	l := NewLatch(DefaultLatchInitial, DefaultLatchRepeat)
	l.Press("w", t0)

	// Auto-repeat starts after 500ms and then arrives every 30ms.
	last := t0.Add(500 * time.Millisecond)
	for at := last; at.Before(t0.Add(2 * time.Second)); at = at.Add(30 * time.Millisecond) {
		l.Press("w", at)
		last = at
		if got := l.Expired(at); len(got) != 0 {
			t.Fatalf("released while repeating at %v", at.Sub(t0))
		}
	}

	if got := l.Expired(last.Add(DefaultLatchRepeat - time.Millisecond)); len(got) != 0 {
		t.Errorf("expired before the repeat window: %v", got)
	}
	if got := l.Expired(last.Add(DefaultLatchRepeat)); !slices.Equal(got, []string{"w"}) {
		t.Errorf("Expired = %v, want [w] one repeat window after the last press", got)
	}
}

func TestLatchRepeatNeverShortens(t *testing.T) {
	t0 := time.Unix(0, 0)
	l := NewLatch(DefaultLatchInitial, DefaultLatchRepeat)
	l.Press("w", t0)
	l.Press("w", t0.Add(10*time.Millisecond))

	if got := l.Expired(t0.Add(500 * time.Millisecond)); len(got) != 0 {
		t.Errorf("a quick second press cut the first hold short: %v", got)
	}
}

func TestLatchIndependentKeys(t *testing.T) {
	t0 := time.Unix(0, 0)
	l := NewLatch(DefaultLatchInitial, DefaultLatchRepeat)
	l.Press("w", t0)
	l.Press("s", t0.Add(100*time.Millisecond))

	if got := l.Expired(t0.Add(650 * time.Millisecond)); !slices.Equal(got, []string{"w"}) {
		t.Errorf("Expired = %v, want [w]", got)
	}
	if got := l.Expired(t0.Add(time.Second)); !slices.Equal(got, []string{"s"}) {
		t.Errorf("Expired = %v, want [s]", got)
	}
}

func TestLatchReset(t *testing.T) {
	t0 := time.Unix(0, 0)
	l := NewLatch(DefaultLatchInitial, DefaultLatchRepeat)
	l.Press("a", t0)
	l.Press("d", t0)
	l.Reset()
	if l.Held() != 0 || len(l.Expired(t0.Add(time.Hour))) != 0 {
		t.Error("Reset left keys latched")
	}
}
