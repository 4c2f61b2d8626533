package clock

import "time"

// Clock abstracts time to keep progress timestamps deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant.
type Fixed time.Time

func (fixed Fixed) Now() time.Time {
	return time.Time(fixed)
}
