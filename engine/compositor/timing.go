package compositor

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-scale/common"
)

// TimingFunction maps the elapsed fraction of an animation to the fraction of its value change.
// It is a cubic Bézier from (0,0) to (1,1) with control points (x1,y1) and (x2,y2). The zero value
// is linear.
type TimingFunction struct {
	name           string
	x1, y1, x2, y2 float64
}

var (
	// Linear advances at a constant rate.
	Linear = TimingFunction{name: "linear"}
	// EaseIn starts slowly and accelerates.
	EaseIn = NewCubicBezier(0.42, 0, 1, 1).named("easeIn")
	// EaseOut starts quickly and decelerates.
	EaseOut = NewCubicBezier(0, 0, 0.58, 1).named("easeOut")
	// EaseInEaseOut accelerates then decelerates symmetrically.
	EaseInEaseOut = NewCubicBezier(0.42, 0, 0.58, 1).named("easeInEaseOut")
	// Default is the system default curve: a gentle ease-in with a stronger ease-out.
	Default = NewCubicBezier(0.25, 0.1, 0.25, 1).named("default")
)

// NewCubicBezier creates a timing function from two Bézier control points. The x coordinates are
// clamped to [0, 1] so the curve stays a function of time.
//
// Parameters:
//   - x1, y1: the first control point
//   - x2, y2: the second control point
//
// Returns:
//   - TimingFunction: the timing curve
func NewCubicBezier(x1, y1, x2, y2 float64) TimingFunction {
	return TimingFunction{
		name: fmt.Sprintf("cubicBezier(%g,%g,%g,%g)", x1, y1, x2, y2),
		x1:   common.Clamp01(x1),
		y1:   y1,
		x2:   common.Clamp01(x2),
		y2:   y2,
	}
}

// ParseTimingFunction returns the preset with the given config name.
//
// Parameters:
//   - name: one of linear, easeIn, easeOut, easeInEaseOut or default
//
// Returns:
//   - TimingFunction: the preset
//   - error: ErrUnknownTimingFunction if the name is not a preset
func ParseTimingFunction(name string) (TimingFunction, error) {
	for _, tf := range []TimingFunction{Linear, EaseIn, EaseOut, EaseInEaseOut, Default} {
		if tf.name == name {
			return tf, nil
		}
	}
	return TimingFunction{}, fmt.Errorf("%w: %q", ErrUnknownTimingFunction, name)
}

func (f TimingFunction) named(name string) TimingFunction {
	f.name = name
	return f
}

// Name returns the preset name or a cubicBezier(...) description.
func (f TimingFunction) Name() string {
	if f.name == "" {
		return Linear.name
	}
	return f.name
}

// IsLinear reports whether the curve is the identity.
func (f TimingFunction) IsLinear() bool {
	return f.x1 == f.y1 && f.x2 == f.y2
}

// Transform maps an elapsed fraction in [0, 1] to a value fraction. Inputs outside [0, 1] are clamped.
//
// Parameters:
//   - t: the elapsed fraction
//
// Returns:
//   - float64: the eased fraction; 0 at t=0 and 1 at t=1
func (f TimingFunction) Transform(t float64) float64 {
	t = common.Clamp01(t)
	if t == 0 || t == 1 || f.IsLinear() {
		return t
	}
	return bezier(f.y1, f.y2, f.solveX(t))
}

// bezier evaluates one coordinate of the curve with end points 0 and 1 at parameter u.
func bezier(p1, p2, u float64) float64 {
	c := 3 * p1
	b := 3*(p2-p1) - c
	a := 1 - c - b
	return ((a*u+b)*u + c) * u
}

func bezierDerivative(p1, p2, u float64) float64 {
	c := 3 * p1
	b := 3*(p2-p1) - c
	a := 1 - c - b
	return (3*a*u+2*b)*u + c
}

// solveX finds the curve parameter whose x coordinate is x. Newton's method converges in a few
// steps on well-behaved curves; bisection covers flat derivatives.
func (f TimingFunction) solveX(x float64) float64 {
	const epsilon = 1e-7

	u := x
	for range 8 {
		dx := bezier(f.x1, f.x2, u) - x
		if math.Abs(dx) < epsilon {
			return u
		}
		d := bezierDerivative(f.x1, f.x2, u)
		if math.Abs(d) < 1e-6 {
			break
		}
		u -= dx / d
	}

	lo, hi := 0.0, 1.0
	u = x
	for range 64 {
		v := bezier(f.x1, f.x2, u)
		if math.Abs(v-x) < epsilon {
			return u
		}
		if v < x {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return u
}
