package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ScaleMatrix builds the 4x4 column-major model-view matrix for a uniform XY scale.
// The resulting matrix is diag(s, s, 1, 1); Z and W are never scaled.
//
// Parameters:
//   - s: the scale factor applied to the X and Y axes
//
// Returns:
//   - mgl32.Mat4: the scale matrix
func ScaleMatrix(s float64) mgl32.Mat4 {
	f := float32(s)
	return mgl32.Scale3D(f, f, 1)
}

// Lerp linearly interpolates between a and b.
//
// Parameters:
//   - a: the value at t = 0
//   - b: the value at t = 1
//   - t: the interpolation fraction, not clamped
//
// Returns:
//   - float64: a + (b-a)*t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 clamps t to the closed interval [0, 1]. NaN clamps to 0.
//
// Parameters:
//   - t: the value to clamp
//
// Returns:
//   - float64: t limited to [0, 1]
func Clamp01(t float64) float64 {
	if t > 1 {
		return 1
	}
	if t > 0 {
		return t
	}
	return 0
}
