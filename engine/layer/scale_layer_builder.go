package layer

import (
	"context"

	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
)

// ScaleLayerBuilderOption is a functional option applied to a layer during construction via NewScaleLayer.
type ScaleLayerBuilderOption func(*scaleLayer)

// WithCompositor attaches the layer to a compositor, which ticks it and runs its implicit actions.
//
// Parameters:
//   - c: the compositor
//
// Returns:
//   - ScaleLayerBuilderOption: a function that applies the compositor option to a layer
func WithCompositor(c compositor.Compositor) ScaleLayerBuilderOption {
	return func(l *scaleLayer) {
		l.compositor = c
	}
}

// WithInitialScale sets the model scale before the first frame.
//
// Parameters:
//   - s: the initial scale, 1 if not set
//
// Returns:
//   - ScaleLayerBuilderOption: a function that applies the scale option to a layer
func WithInitialScale(s float64) ScaleLayerBuilderOption {
	return func(l *scaleLayer) {
		l.state.Scale = s
	}
}

// WithBounds sets the initial layer size in pixels.
//
// Parameters:
//   - width, height: the size
//
// Returns:
//   - ScaleLayerBuilderOption: a function that applies the bounds option to a layer
func WithBounds(width, height int) ScaleLayerBuilderOption {
	return func(l *scaleLayer) {
		l.state.Width = width
		l.state.Height = height
	}
}

// WithRenderContext sets the context bounding drawable acquisition in Display.
//
// Parameters:
//   - ctx: the context, context.Background if not set
//
// Returns:
//   - ScaleLayerBuilderOption: a function that applies the context option to a layer
func WithRenderContext(ctx context.Context) ScaleLayerBuilderOption {
	return func(l *scaleLayer) {
		if ctx != nil {
			l.ctx = ctx
		}
	}
}
