package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// Extraction uses it to stamp messages that arrive without a timestamp.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for extraction. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
