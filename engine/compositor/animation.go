package compositor

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-scale/common"
)

// Animation drives one Property between values over time. Implementations are BasicAnimation and
// KeyframeAnimation; unset duration and timing are taken from the transaction the animation is added in.
type Animation interface {
	// TargetKeyPath returns the key path of the property the animation drives.
	//
	// Returns:
	//   - string: the key path, e.g. "scale"
	TargetKeyPath() string

	// AnimationDuration returns the active duration. Zero until the animation is added to a compositor
	// means the transaction duration is used.
	//
	// Returns:
	//   - time.Duration: the duration
	AnimationDuration() time.Duration

	// Evaluate samples the animated value.
	//
	// Parameters:
	//   - fraction: the elapsed fraction of the duration, in [0, 1]
	//
	// Returns:
	//   - float64: the interpolated value
	Evaluate(fraction float64) float64

	// FinalValue returns the value displayed at the end of the animation.
	//
	// Returns:
	//   - float64: the final value
	FinalValue() float64

	// IsRemovedOnCompletion reports whether the animation detaches when it finishes. Retained animations
	// keep displaying FinalValue until removed.
	//
	// Returns:
	//   - bool: true if the animation is removed when finished
	IsRemovedOnCompletion() bool

	// Validate checks that the animation can be evaluated.
	//
	// Returns:
	//   - error: ErrInvalidAnimation wrapped with the reason, or nil
	Validate() error

	// resolve returns a copy with unset duration and timing filled in.
	resolve(d time.Duration, tf TimingFunction) Animation

	// stopped calls the stop delegate, if any.
	stopped(finished bool)
}

var (
	_ Animation = &BasicAnimation{}
	_ Animation = &KeyframeAnimation{}
)

// BasicAnimation interpolates a property from one value to another.
type BasicAnimation struct {
	KeyPath  string
	From, To float64

	// Duration of zero inherits the transaction duration.
	Duration time.Duration

	// Timing of nil inherits the transaction timing function.
	Timing *TimingFunction

	// RetainOnCompletion keeps the animation attached, holding To, after it finishes.
	RetainOnCompletion bool

	// OnStop is called once when the animation finishes or is removed.
	OnStop func(finished bool)
}

func (a *BasicAnimation) TargetKeyPath() string {
	return a.KeyPath
}

func (a *BasicAnimation) AnimationDuration() time.Duration {
	return a.Duration
}

func (a *BasicAnimation) Evaluate(fraction float64) float64 {
	tf := Linear
	if a.Timing != nil {
		tf = *a.Timing
	}
	return common.Lerp(a.From, a.To, tf.Transform(fraction))
}

func (a *BasicAnimation) FinalValue() float64 {
	return a.To
}

func (a *BasicAnimation) IsRemovedOnCompletion() bool {
	return !a.RetainOnCompletion
}

func (a *BasicAnimation) Validate() error {
	if a.KeyPath == "" {
		return fmt.Errorf("%w: missing key path", ErrInvalidAnimation)
	}
	if a.Duration < 0 {
		return fmt.Errorf("%w: negative duration %s", ErrInvalidAnimation, a.Duration)
	}
	return nil
}

func (a *BasicAnimation) resolve(d time.Duration, tf TimingFunction) Animation {
	c := *a
	if c.Duration == 0 {
		c.Duration = d
	}
	if c.Timing == nil {
		c.Timing = &tf
	}
	return &c
}

func (a *BasicAnimation) stopped(finished bool) {
	if a.OnStop != nil {
		a.OnStop(finished)
	}
}

// KeyframeAnimation interpolates a property through a list of values. Segment i runs from Values[i] to
// Values[i+1] between KeyTimes[i] and KeyTimes[i+1], with its easing applied to the local fraction.
type KeyframeAnimation struct {
	KeyPath string
	Values  []float64

	// KeyTimes are fractions of Duration, one per value. Nil spaces the values evenly.
	KeyTimes []float64

	// TimingFunctions holds one easing for every segment, a single easing shared by all segments, or
	// none to use the transaction timing function.
	TimingFunctions []TimingFunction

	// Duration of zero inherits the transaction duration.
	Duration time.Duration

	RetainOnCompletion bool
	OnStop             func(finished bool)

	inherited *TimingFunction
}

func (a *KeyframeAnimation) TargetKeyPath() string {
	return a.KeyPath
}

func (a *KeyframeAnimation) AnimationDuration() time.Duration {
	return a.Duration
}

func (a *KeyframeAnimation) Evaluate(fraction float64) float64 {
	if len(a.Values) == 0 {
		return 0
	}
	fraction = common.Clamp01(fraction)
	times := a.keyTimes()
	last := len(a.Values) - 1
	if fraction >= times[last] {
		return a.Values[last]
	}

	for i := range last {
		start, end := times[i], times[i+1]
		if fraction < start || fraction >= end {
			continue
		}
		local := (fraction - start) / (end - start)
		return common.Lerp(a.Values[i], a.Values[i+1], a.segmentTiming(i).Transform(local))
	}
	return a.Values[0]
}

func (a *KeyframeAnimation) FinalValue() float64 {
	if len(a.Values) == 0 {
		return 0
	}
	return a.Values[len(a.Values)-1]
}

func (a *KeyframeAnimation) IsRemovedOnCompletion() bool {
	return !a.RetainOnCompletion
}

func (a *KeyframeAnimation) Validate() error {
	if a.KeyPath == "" {
		return fmt.Errorf("%w: missing key path", ErrInvalidAnimation)
	}
	if a.Duration < 0 {
		return fmt.Errorf("%w: negative duration %s", ErrInvalidAnimation, a.Duration)
	}
	n := len(a.Values)
	if n < 2 {
		return fmt.Errorf("%w: %d keyframe values, need at least 2", ErrInvalidAnimation, n)
	}
	if a.KeyTimes != nil {
		if len(a.KeyTimes) != n {
			return fmt.Errorf("%w: %d key times for %d values", ErrInvalidAnimation, len(a.KeyTimes), n)
		}
		if a.KeyTimes[0] != 0 || a.KeyTimes[n-1] != 1 {
			return fmt.Errorf("%w: key times must start at 0 and end at 1", ErrInvalidAnimation)
		}
		for i := 1; i < n; i++ {
			if a.KeyTimes[i] < a.KeyTimes[i-1] {
				return fmt.Errorf("%w: key times decrease at index %d", ErrInvalidAnimation, i)
			}
		}
	}
	switch len(a.TimingFunctions) {
	case 0, 1, n - 1:
	default:
		return fmt.Errorf("%w: %d timing functions for %d segments", ErrInvalidAnimation, len(a.TimingFunctions), n-1)
	}
	return nil
}

func (a *KeyframeAnimation) resolve(d time.Duration, tf TimingFunction) Animation {
	c := *a
	if c.Duration == 0 {
		c.Duration = d
	}
	c.inherited = &tf
	return &c
}

func (a *KeyframeAnimation) stopped(finished bool) {
	if a.OnStop != nil {
		a.OnStop(finished)
	}
}

func (a *KeyframeAnimation) keyTimes() []float64 {
	if a.KeyTimes != nil {
		return a.KeyTimes
	}
	n := len(a.Values)
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) / float64(n-1)
	}
	return times
}

func (a *KeyframeAnimation) segmentTiming(i int) TimingFunction {
	switch len(a.TimingFunctions) {
	case 0:
		if a.inherited != nil {
			return *a.inherited
		}
		return Linear
	case 1:
		return a.TimingFunctions[0]
	default:
		return a.TimingFunctions[i]
	}
}
