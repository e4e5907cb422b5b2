package utils

import "time"

// Clock is the single source of current time for expiry decisions. Production
// code uses RealClock; tests substitute a controllable implementation.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
