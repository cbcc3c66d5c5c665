package modbus

import "github.com/bangzek/clock"

var ctime = clock.New()

// SetClock overrides the package-level clock used for silent-interval
// timing and read deadlines. Intended for tests; production code never
// needs to call it.
func SetClock(c clock.Clock) {
	ctime = c
}
