package main

import (
	"context"

	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/config"
	"github.com/Carmen-Shannon/oxy-scale/engine/layer"
	"github.com/Carmen-Shannon/oxy-scale/engine/view_controller"
)

// app is the compositor, layer and view controller built from a config.
type app struct {
	compositor     compositor.Compositor
	layer          layer.ScaleLayer
	viewController view_controller.ViewController
}

func newApp(ctx context.Context, cfg config.Config, clock compositor.Clock, r layer.Renderer, width, height int) (*app, error) {
	a := cfg.Animation
	timing, err := a.TransactionTimingFunction()
	if err != nil {
		return nil, err
	}
	keyframeTimings, err := a.KeyframeTimingFunctions()
	if err != nil {
		return nil, err
	}

	comp := compositor.NewCompositor(
		compositor.WithClock(clock),
		compositor.WithDefaultAnimationDuration(a.ImplicitDuration),
	)
	l := layer.NewScaleLayer(r,
		layer.WithCompositor(comp),
		layer.WithInitialScale(a.BaseScale),
		layer.WithBounds(width, height),
		layer.WithRenderContext(ctx),
	)

	keyframes := make([]view_controller.KeyframeValue, len(a.Keyframes))
	for i, kv := range a.Keyframes {
		keyframes[i] = view_controller.KeyframeValue{Current: kv.Current, Value: kv.Value}
	}
	var keyTimes []float64
	if len(a.KeyTimes) > 0 {
		keyTimes = a.KeyTimes
	}
	vc, err := view_controller.NewViewController(l, comp,
		view_controller.WithScales(a.BaseScale, a.ExpandedScale),
		view_controller.WithTransaction(a.TransactionDuration, timing),
		view_controller.WithKeyframes(keyframes, keyTimes, keyframeTimings, a.KeyframeDuration),
	)
	if err != nil {
		l.Release()
		return nil, err
	}

	return &app{compositor: comp, layer: l, viewController: vc}, nil
}
