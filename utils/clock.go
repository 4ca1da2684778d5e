package utils

import "time"

// Clock provides the current time; swapped for a fixed clock in tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
