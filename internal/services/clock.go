package services

import "time"

// Clock supplies "now" to schedule evaluation.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (local time when nil).
// Restaurants evaluate schedules in their own time zone.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location != nil {
		return time.Now().In(c.Location)
	}
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}
	return c
}
