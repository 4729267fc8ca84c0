package compositor

import "time"

// CompositorBuilderOption is a functional option applied to a compositor during construction via NewCompositor.
type CompositorBuilderOption func(*compositor)

// WithClock sets the time source sampled on every Tick. The default is a system clock started at construction.
//
// Parameters:
//   - clock: the clock to sample
//
// Returns:
//   - CompositorBuilderOption: a function that applies the clock option to a compositor
func WithClock(clock Clock) CompositorBuilderOption {
	return func(c *compositor) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithDefaultAnimationDuration sets the duration used by transactions that do not set one.
//
// Parameters:
//   - d: the default duration, 0.25s if not set
//
// Returns:
//   - CompositorBuilderOption: a function that applies the duration option to a compositor
func WithDefaultAnimationDuration(d time.Duration) CompositorBuilderOption {
	return func(c *compositor) {
		if d >= 0 {
			c.defaultDuration = d
		}
	}
}

// WithDefaultTimingFunction sets the timing function used by transactions that do not set one.
//
// Parameters:
//   - tf: the default timing function, Linear if not set
//
// Returns:
//   - CompositorBuilderOption: a function that applies the timing option to a compositor
func WithDefaultTimingFunction(tf TimingFunction) CompositorBuilderOption {
	return func(c *compositor) {
		c.defaultTiming = tf
	}
}
