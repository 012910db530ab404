package fastpath

import "time"

// Clock abstracts timer creation so the coordinator's timeout race is
// testable without real timers.
type Clock interface {
	NewTimer(d time.Duration) Timer
}

// Timer is the minimal surface the coordinator needs from a timer.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

type systemClock struct{}

type systemTimer struct{ t *time.Timer }

func (t systemTimer) C() <-chan time.Time { return t.t.C }
func (t systemTimer) Stop() bool          { return t.t.Stop() }

func (systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{t: time.NewTimer(d)}
}

// SystemClock returns the wall-clock implementation.
func SystemClock() Clock { return systemClock{} }
