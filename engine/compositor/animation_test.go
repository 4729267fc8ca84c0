package compositor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicAnimationEvaluate(t *testing.T) {
	a := &BasicAnimation{KeyPath: "scale", From: 1, To: 1.9, Duration: 2 * time.Second}

	assert.InDelta(t, 1.0, a.Evaluate(0), 1e-9)
	assert.InDelta(t, 1.45, a.Evaluate(0.5), 1e-9)
	assert.InDelta(t, 1.9, a.Evaluate(1), 1e-9)
	assert.Equal(t, 1.9, a.FinalValue())
	assert.True(t, a.IsRemovedOnCompletion())
}

func TestBasicAnimationResolveInheritsUnsetFields(t *testing.T) {
	a := &BasicAnimation{KeyPath: "scale", From: 0, To: 1}
	r := a.resolve(time.Second, EaseIn)

	assert.Equal(t, time.Second, r.AnimationDuration())
	assert.InDelta(t, EaseIn.Transform(0.5), r.Evaluate(0.5), 1e-9)
	assert.Zero(t, a.Duration, "resolve must not modify the original")

	fixed := &BasicAnimation{KeyPath: "scale", To: 1, Duration: 3 * time.Second, Timing: &Linear}
	r = fixed.resolve(time.Second, EaseIn)
	assert.Equal(t, 3*time.Second, r.AnimationDuration())
	assert.InDelta(t, 0.5, r.Evaluate(0.5), 1e-9)
}

func TestBasicAnimationValidate(t *testing.T) {
	assert.NoError(t, (&BasicAnimation{KeyPath: "scale"}).Validate())
	assert.ErrorIs(t, (&BasicAnimation{}).Validate(), ErrInvalidAnimation)
	assert.ErrorIs(t, (&BasicAnimation{KeyPath: "scale", Duration: -1}).Validate(), ErrInvalidAnimation)
}

func TestKeyframeAnimationEvaluate(t *testing.T) {
	a := &KeyframeAnimation{
		KeyPath:  "scale",
		Values:   []float64{1, -1, 1.9, -1.9, 1},
		KeyTimes: []float64{0, 0.2, 0.5, 0.8, 1},
	}
	a = a.resolve(time.Second, Linear).(*KeyframeAnimation)

	cases := []struct {
		fraction float64
		want     float64
	}{
		{0, 1},
		{0.1, 0},
		{0.2, -1},
		{0.35, 0.45},
		{0.5, 1.9},
		{0.65, 0},
		{0.8, -1.9},
		{0.9, -0.45},
		{1, 1},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, a.Evaluate(c.fraction), 1e-9, "fraction %v", c.fraction)
	}
}

func TestKeyframeAnimationSegmentEasing(t *testing.T) {
	a := &KeyframeAnimation{
		KeyPath:         "scale",
		Values:          []float64{0, 1, 0},
		TimingFunctions: []TimingFunction{EaseIn, EaseOut},
	}

	// evenly spaced: segment 0 covers [0, 0.5], segment 1 covers [0.5, 1]
	assert.InDelta(t, EaseIn.Transform(0.5), a.Evaluate(0.25), 1e-9)
	assert.InDelta(t, 1-EaseOut.Transform(0.5), a.Evaluate(0.75), 1e-9)

	shared := &KeyframeAnimation{KeyPath: "scale", Values: []float64{0, 1, 0}, TimingFunctions: []TimingFunction{EaseIn}}
	assert.InDelta(t, 1-EaseIn.Transform(0.5), shared.Evaluate(0.75), 1e-9)
}

func TestKeyframeAnimationZeroWidthSegment(t *testing.T) {
	a := &KeyframeAnimation{
		KeyPath:  "scale",
		Values:   []float64{0, 1, 5, 6},
		KeyTimes: []float64{0, 0.5, 0.5, 1},
	}
	assert.NoError(t, a.Validate())
	assert.InDelta(t, 0.5, a.Evaluate(0.25), 1e-9)
	assert.InDelta(t, 5, a.Evaluate(0.5), 1e-9)
	assert.InDelta(t, 5.5, a.Evaluate(0.75), 1e-9)
}

func TestKeyframeAnimationValidate(t *testing.T) {
	valid := KeyframeAnimation{KeyPath: "scale", Values: []float64{0, 1, 2}}
	assert.NoError(t, valid.Validate())

	invalid := map[string]KeyframeAnimation{
		"no key path":       {Values: []float64{0, 1}},
		"single value":      {KeyPath: "scale", Values: []float64{1}},
		"key time count":    {KeyPath: "scale", Values: []float64{0, 1}, KeyTimes: []float64{0, 0.5, 1}},
		"first key time":    {KeyPath: "scale", Values: []float64{0, 1}, KeyTimes: []float64{0.1, 1}},
		"last key time":     {KeyPath: "scale", Values: []float64{0, 1}, KeyTimes: []float64{0, 0.9}},
		"decreasing":        {KeyPath: "scale", Values: []float64{0, 1, 2}, KeyTimes: []float64{0, 0.6, 0.4}},
		"timing count":      {KeyPath: "scale", Values: []float64{0, 1, 2, 3}, TimingFunctions: []TimingFunction{Linear, Linear}},
		"negative duration": {KeyPath: "scale", Values: []float64{0, 1}, Duration: -time.Second},
	}
	for name, a := range invalid {
		assert.ErrorIs(t, a.Validate(), ErrInvalidAnimation, name)
	}
}
