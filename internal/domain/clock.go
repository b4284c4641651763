package domain

import "github.com/jonboulle/clockwork"

// clock is the package-level time source for window resolution so tests can
// freeze "now" via SetClock. Production code uses the real clock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
