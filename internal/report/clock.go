package report

import "github.com/jonboulle/clockwork"

// clock stamps GeneratedAt on every dashboard.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for generation timestamps. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
