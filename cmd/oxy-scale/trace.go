package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/config"
)

// maxTraceDuration bounds a trace whose animation never completes.
const maxTraceDuration = 10 * time.Minute

// traceRenderer stands in for the GPU renderer and counts frames.
type traceRenderer struct {
	scale  float64
	frames int
}

func (r *traceRenderer) SetScale(s float64)    { r.scale = s }
func (r *traceRenderer) Scale() float64        { return r.scale }
func (r *traceRenderer) Resize(_, _ int) error { return nil }
func (r *traceRenderer) Release()              {}

func (r *traceRenderer) Render(context.Context) error {
	r.frames++
	return nil
}

func newTraceCmd(opts *rootOptions) *cobra.Command {
	var (
		mode string
		fps  float64
	)
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Run an animation headless on a simulated clock and print the sampled scale per frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return trace(cmd.Context(), cmd.OutOrStdout(), opts.cfg, mode, fps)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "expand", "animation to trace: expand or keyframes")
	cmd.Flags().Float64Var(&fps, "fps", 60, "simulated display rate")
	return cmd
}

func trace(ctx context.Context, w io.Writer, cfg config.Config, mode string, fps float64) error {
	if fps <= 0 {
		return fmt.Errorf("%w: fps %g", config.ErrInvalidConfig, fps)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	clock := compositor.NewManualClock(0)
	r := &traceRenderer{scale: cfg.Animation.BaseScale}
	a, err := newApp(ctx, cfg, clock, r, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer a.layer.Release()

	a.compositor.Tick()
	switch mode {
	case "expand":
		a.viewController.Expand()
	case "keyframes":
		if !a.viewController.Keyframes() {
			return fmt.Errorf("keyframe animation rejected")
		}
	default:
		return fmt.Errorf("unknown mode %q, want expand or keyframes", mode)
	}

	step := time.Duration(float64(time.Second) / fps)
	for frame := 0; ; frame++ {
		if frame > 0 {
			clock.Advance(step)
		}
		a.compositor.Tick()
		fmt.Fprintf(w, "frame %4d  t=%7.3fs  scale=%.4f  %s\n",
			frame, clock.Now().Seconds(), a.layer.PresentationScale(), a.layer.State())

		if a.viewController.Enabled() {
			break
		}
		if clock.Now() > maxTraceDuration {
			return fmt.Errorf("animation still running after %s", maxTraceDuration)
		}
	}

	stats := a.layer.Stats()
	fmt.Fprintf(w, "drawn %d frames, skipped %d\n", stats.Drawn, stats.Skipped)
	return nil
}
