package ledger

import (
	"sync"
	"time"
)

// Clock supplies event timestamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock. A nil ClockFunc reports the wall
// clock in UTC.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f()
}

// SystemClock is the default wall clock.
var SystemClock Clock = ClockFunc(nil)

// PinnedClock reports a pinned instant while one is set and defers to its
// base clock otherwise. Replaying recorded history uses it to stamp events
// with their original times.
type PinnedClock struct {
	mu     sync.Mutex
	base   Clock
	pinned time.Time
}

func NewPinnedClock(base Clock) *PinnedClock {
	if base == nil {
		base = SystemClock
	}
	return &PinnedClock{base: base}
}

func (c *PinnedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pinned.IsZero() {
		return c.pinned
	}
	return c.base.Now()
}

func (c *PinnedClock) Pin(t time.Time) {
	c.mu.Lock()
	c.pinned = t
	c.mu.Unlock()
}

func (c *PinnedClock) Unpin() { c.Pin(time.Time{}) }
