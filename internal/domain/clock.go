package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze capture times via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for capture timestamps. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current capture time.
func Now() time.Time {
	return clock.Now()
}
