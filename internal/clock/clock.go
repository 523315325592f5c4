// Package clock provides an injectable clock so that time-dependent logic
// (portfolio timestamps, trade staleness checks, token expiry) can be tested
// deterministically.
package clock

import "time"

// Clock returns the current time in a configured reporting timezone.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

func (c systemClock) Now() time.Time { return time.Now().In(c.loc) }

// New returns a Clock backed by the system clock in the given location.
// A nil location defaults to UTC.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// Fixed returns a Clock that always reports t. Intended for tests.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }
