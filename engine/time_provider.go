package engine

import "time"

// Clock supplies frame timestamps and pacing sleeps to the loop
type Clock interface {
	// Now returns the current time; must carry a monotonic reading
	Now() time.Time

	// Sleep blocks the loop goroutine for d
	Sleep(d time.Duration)
}

// SystemClock provides the real system time with monotonic clock readings
type SystemClock struct{}

// NewSystemClock creates a new monotonic clock
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time with monotonic clock reading
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the current goroutine
func (c *SystemClock) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
