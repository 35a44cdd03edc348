package clock

import "time"

//go:generate mockgen -destination=mocks/mock_time_provider.go -package=mocks -source=clock.go

// TimeProvider abstracts wall-clock access. The simulation core only reads
// time for snapshot metadata; injecting it keeps the numeric output of a
// pre-calculation independent of when it runs.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider returns the system time.
type RealTimeProvider struct{}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NewRealTimeProvider creates a TimeProvider backed by the system clock
func NewRealTimeProvider() *RealTimeProvider {
	return &RealTimeProvider{}
}
