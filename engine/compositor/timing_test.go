package compositor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingFunctionEndpoints(t *testing.T) {
	for _, tf := range []TimingFunction{Linear, EaseIn, EaseOut, EaseInEaseOut, Default, NewCubicBezier(0.1, 0.8, 0.9, 0.2)} {
		assert.Equal(t, 0.0, tf.Transform(0), tf.Name())
		assert.Equal(t, 1.0, tf.Transform(1), tf.Name())
		assert.Equal(t, 0.0, tf.Transform(-0.5), tf.Name())
		assert.Equal(t, 1.0, tf.Transform(1.5), tf.Name())
	}
}

func TestTimingFunctionShapes(t *testing.T) {
	assert.Equal(t, 0.3, Linear.Transform(0.3))
	assert.True(t, TimingFunction{}.IsLinear())

	assert.InDelta(t, 0.5, EaseInEaseOut.Transform(0.5), 1e-6)
	assert.Less(t, EaseIn.Transform(0.3), 0.3)
	assert.Greater(t, EaseOut.Transform(0.3), 0.3)

	// the curve is symmetric about (0.5, 0.5)
	assert.InDelta(t, 1-EaseInEaseOut.Transform(0.2), EaseInEaseOut.Transform(0.8), 1e-6)
}

func TestTimingFunctionIsMonotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := Default.Transform(float64(i) / 100)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestParseTimingFunction(t *testing.T) {
	for _, name := range []string{"linear", "easeIn", "easeOut", "easeInEaseOut", "default"} {
		tf, err := ParseTimingFunction(name)
		require.NoError(t, err)
		assert.Equal(t, name, tf.Name())
	}

	_, err := ParseTimingFunction("bouncy")
	assert.ErrorIs(t, err, ErrUnknownTimingFunction)
}
