package engine

import "time"

// Clock supplies timestamps to the audio producer (peak hold deadlines) and the scheduler
type Clock interface {
	Now() time.Time
}

// TimeProvider is the real Clock, readings carry the monotonic component
type TimeProvider struct{}

// NewTimeProvider creates a wall clock
func NewTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

// Now returns time.Now()
func (p *TimeProvider) Now() time.Time {
	return time.Now()
}
