package main

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-scale/common"
	"github.com/Carmen-Shannon/oxy-scale/engine"
	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scale/engine/window"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the window and run the animation demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	cfg := opts.cfg

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		common.Logger().Error("window creation failed", "err", err)
		return err
	}

	presentMode, _ := renderer.ParsePresentMode(cfg.Renderer.PresentMode)
	cc := cfg.Renderer.ClearColor
	r, err := renderer.NewRenderer(win,
		renderer.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
		renderer.WithDrawableTimeout(cfg.Renderer.DrawableTimeout),
		renderer.WithDrawableRetryInterval(cfg.Renderer.DrawableRetryInterval),
	)
	if err != nil {
		common.Logger().Error("renderer initialization failed", "err", err)
		_ = win.Close()
		return err
	}

	a, err := newApp(cmd.Context(), cfg, compositor.NewSystemClock(), r, win.Width(), win.Height())
	if err != nil {
		r.Release()
		_ = win.Close()
		return err
	}

	e, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithCompositor(a.compositor),
		engine.WithLayer(a.layer),
		engine.WithViewController(a.viewController),
		engine.WithTickRate(cfg.Display.TickRate),
		engine.WithProfiling(cfg.Display.Profile),
		engine.WithTitle(cfg.Window.Title),
	)
	if err != nil {
		a.layer.Release()
		_ = win.Close()
		return err
	}

	err = e.Run()
	common.Logger().Info("renderer stopped", "frames", r.FrameCount())
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
