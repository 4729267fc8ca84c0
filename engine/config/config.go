// Package config loads the application settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-scale/engine/compositor"
	"github.com/Carmen-Shannon/oxy-scale/engine/renderer"
)

// ErrInvalidConfig is returned by Load and Validate when a setting is out of range.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the full application configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Display   DisplayConfig   `yaml:"display"`
	Animation AnimationConfig `yaml:"animation"`
	Log       LogConfig       `yaml:"log"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type RendererConfig struct {
	PresentMode           string        `yaml:"present_mode"`
	ForceSoftware         bool          `yaml:"force_software"`
	DrawableTimeout       time.Duration `yaml:"drawable_timeout"`
	DrawableRetryInterval time.Duration `yaml:"drawable_retry_interval"`
	ClearColor            []float64     `yaml:"clear_color"`
}

type DisplayConfig struct {
	TickRate float64 `yaml:"tick_rate"`
	Profile  bool    `yaml:"profile"`
}

type AnimationConfig struct {
	// ImplicitDuration applies to scale changes made outside an explicit transaction.
	ImplicitDuration    time.Duration   `yaml:"implicit_duration"`
	BaseScale           float64         `yaml:"base_scale"`
	ExpandedScale       float64         `yaml:"expanded_scale"`
	TransactionDuration time.Duration   `yaml:"transaction_duration"`
	TransactionTiming   string          `yaml:"transaction_timing"`
	KeyframeDuration    time.Duration   `yaml:"keyframe_duration"`
	Keyframes           []KeyframeValue `yaml:"keyframes"`
	KeyTimes            []float64       `yaml:"key_times"`
	KeyframeTimings     []string        `yaml:"keyframe_timings"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// KeyframeValue is a keyframe scale in YAML: a number, or the string "current" for the scale in
// effect when the animation starts.
type KeyframeValue struct {
	Current bool
	Value   float64
}

func (k *KeyframeValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: keyframe must be a number or \"current\"", node.Line)
	}
	if node.Value == "current" {
		*k = KeyframeValue{Current: true}
		return nil
	}
	v, err := strconv.ParseFloat(node.Value, 64)
	if err != nil {
		return fmt.Errorf("line %d: keyframe %q is not a number or \"current\"", node.Line, node.Value)
	}
	*k = KeyframeValue{Value: v}
	return nil
}

func (k KeyframeValue) MarshalYAML() (any, error) {
	if k.Current {
		return "current", nil
	}
	return k.Value, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-scale",
			Width:  800,
			Height: 600,
		},
		Renderer: RendererConfig{
			PresentMode:           "vsync",
			DrawableTimeout:       100 * time.Millisecond,
			DrawableRetryInterval: 2 * time.Millisecond,
			ClearColor:            []float64{1, 1, 1, 1},
		},
		Display: DisplayConfig{
			TickRate: 60,
		},
		Animation: AnimationConfig{
			ImplicitDuration:    compositor.DefaultAnimationDuration,
			BaseScale:           1,
			ExpandedScale:       1.9,
			TransactionDuration: 2 * time.Second,
			TransactionTiming:   "linear",
			KeyframeDuration:    3 * time.Second,
			Keyframes: []KeyframeValue{
				{Current: true}, {Value: -1}, {Value: 1.9}, {Value: -1.9}, {Current: true},
			},
			KeyTimes: []float64{0, 0.2, 0.5, 0.8, 1},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults. Unknown fields are rejected. An empty path returns the defaults.
//
// Parameters:
//   - path: the file to read, or ""
//
// Returns:
//   - Config: the validated configuration
//   - error: a read or parse error, or ErrInvalidConfig
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting.
//
// Returns:
//   - error: ErrInvalidConfig wrapped with the first offending setting, or nil
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, ok := renderer.ParsePresentMode(c.Renderer.PresentMode); !ok {
		return invalid("renderer.present_mode %q, want vsync or uncapped", c.Renderer.PresentMode)
	}
	if c.Renderer.DrawableTimeout < 0 || c.Renderer.DrawableRetryInterval <= 0 {
		return invalid("renderer drawable timeout %s, retry interval %s", c.Renderer.DrawableTimeout, c.Renderer.DrawableRetryInterval)
	}
	if len(c.Renderer.ClearColor) != 4 {
		return invalid("renderer.clear_color has %d channels, want 4", len(c.Renderer.ClearColor))
	}
	for _, ch := range c.Renderer.ClearColor {
		if ch < 0 || ch > 1 {
			return invalid("renderer.clear_color channel %g outside [0, 1]", ch)
		}
	}
	if c.Display.TickRate <= 0 {
		return invalid("display.tick_rate %g", c.Display.TickRate)
	}

	a := c.Animation
	if a.ImplicitDuration < 0 || a.TransactionDuration < 0 || a.KeyframeDuration < 0 {
		return invalid("animation durations must not be negative")
	}
	if a.BaseScale == a.ExpandedScale {
		return invalid("animation base_scale and expanded_scale are both %g", a.BaseScale)
	}
	if _, err := a.TransactionTimingFunction(); err != nil {
		return invalid("animation.transaction_timing: %v", err)
	}
	if _, err := a.KeyframeTimingFunctions(); err != nil {
		return invalid("animation.keyframe_timings: %v", err)
	}
	keyframes := compositor.KeyframeAnimation{
		KeyPath:  "scale",
		Values:   make([]float64, len(a.Keyframes)),
		KeyTimes: a.KeyTimes,
	}
	if len(a.KeyTimes) == 0 {
		keyframes.KeyTimes = nil
	}
	keyframes.TimingFunctions, _ = a.KeyframeTimingFunctions()
	if err := keyframes.Validate(); err != nil {
		return invalid("animation keyframes: %v", err)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return invalid("log.level: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format %q, want text or json", c.Log.Format)
	}
	return nil
}

// TransactionTimingFunction parses TransactionTiming.
func (a AnimationConfig) TransactionTimingFunction() (compositor.TimingFunction, error) {
	return compositor.ParseTimingFunction(a.TransactionTiming)
}

// KeyframeTimingFunctions parses KeyframeTimings.
func (a AnimationConfig) KeyframeTimingFunctions() ([]compositor.TimingFunction, error) {
	if len(a.KeyframeTimings) == 0 {
		return nil, nil
	}
	tfs := make([]compositor.TimingFunction, 0, len(a.KeyframeTimings))
	for _, name := range a.KeyframeTimings {
		tf, err := compositor.ParseTimingFunction(name)
		if err != nil {
			return nil, err
		}
		tfs = append(tfs, tf)
	}
	return tfs, nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}
