package services

import "time"

// Clock abstracts wall-clock time so the reconciliation jobs can be tested
// with synthetic time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// NewRealClock returns a Clock backed by time.Now.
func NewRealClock() Clock {
	return realClock{}
}

// startOfNextDay returns midnight after t. Used for day-granularity date
// comparisons: a date is due when it falls before this cutoff.
func startOfNextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}

// sameOrBeforeDay reports whether a falls on the same calendar day as b or
// earlier.
func sameOrBeforeDay(a, b time.Time) bool {
	return a.Before(startOfNextDay(b))
}
