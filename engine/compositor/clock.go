package compositor

import (
	"sync"
	"time"
)

// Clock is the compositor's frame time source. Times are offsets from an arbitrary epoch;
// only differences between readings are meaningful.
type Clock interface {
	// Now returns the current media time.
	//
	// Returns:
	//   - time.Duration: the elapsed time since the clock's epoch
	Now() time.Duration
}

// systemClock reads the monotonic wall clock relative to its creation time.
type systemClock struct {
	start time.Time
}

// NewSystemClock creates a Clock backed by the process monotonic clock.
//
// Returns:
//   - Clock: a clock whose epoch is the moment of creation
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock is a Clock that only moves when told to. It drives the compositor
// deterministically in tests and in headless trace mode.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

var _ Clock = &ManualClock{}

// NewManualClock creates a ManualClock starting at the given time.
//
// Parameters:
//   - start: the initial reading
//
// Returns:
//   - *ManualClock: the clock
func NewManualClock(start time.Duration) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to an absolute reading.
//
// Parameters:
//   - t: the new reading
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
//
// Parameters:
//   - d: the amount of time to add
//
// Returns:
//   - time.Duration: the new reading
func (c *ManualClock) Advance(d time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	return c.now
}
