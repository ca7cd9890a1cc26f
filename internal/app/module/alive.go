package module

import "sync/atomic"

// AliveFlag is the atomic boolean a module's alive emitter sets and its
// default outlet consumes and clears.
type AliveFlag struct {
	flag atomic.Bool
}

// Set marks the flag, to be picked up by the next outlet poll.
func (a *AliveFlag) Set() {
	a.flag.Store(true)
}

// TestAndClear reports whether the flag was set and clears it atomically.
func (a *AliveFlag) TestAndClear() bool {
	return a.flag.Swap(false)
}
