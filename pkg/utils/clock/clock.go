package clock

import "time"

// Real implements interfaces.Clock using the system time
type Real struct{}

// Now returns the current system time
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed implements interfaces.Clock with a time that never moves
type Fixed struct {
	T time.Time
}

// Now returns the fixed time
func (c Fixed) Now() time.Time {
	return c.T
}
