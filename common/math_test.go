package common

import (
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestScaleMatrixIsDiagonal(t *testing.T) {
	for _, s := range []float64{0, 1, 1.45, 1.9, -1, -1.9, 1e-3, 250} {
		m := ScaleMatrix(s)
		f := float32(s)
		want := mgl32.Mat4{
			f, 0, 0, 0,
			0, f, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}
		assert.Equal(t, want, m, "scale %v", s)
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 0.25, Clamp01(0.25))
	assert.Equal(t, 1.0, Clamp01(3))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
}

func TestLerp(t *testing.T) {
	assert.InDelta(t, 1.45, Lerp(1, 1.9, 0.5), 1e-12)
	assert.Equal(t, 1.0, Lerp(1, 1.9, 0))
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(14, 14))
	assert.False(t, r.Contains(15, 10))
	assert.False(t, r.Contains(9, 12))
	assert.False(t, Rect{}.Contains(0, 0))
}

func TestSetLoggerNilRestoresNop(t *testing.T) {
	SetLogger(slog.Default())
	assert.Same(t, slog.Default(), Logger())
	SetLogger(nil)
	assert.NotNil(t, Logger())
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}
