package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oxy-scale.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 250*time.Millisecond, cfg.Animation.ImplicitDuration)
	assert.Equal(t, []float64{0, 0.2, 0.5, 0.8, 1}, cfg.Animation.KeyTimes)
	assert.True(t, cfg.Animation.Keyframes[0].Current)
	assert.True(t, cfg.Animation.Keyframes[4].Current)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  title: scaled
renderer:
  present_mode: uncapped
  drawable_timeout: 250ms
  clear_color: [0, 0, 0, 1]
animation:
  transaction_duration: 1.5s
  transaction_timing: easeInEaseOut
  keyframes: [current, 0.5, current]
  key_times: [0, 0.25, 1]
  keyframe_timings: [easeIn, easeOut]
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "scaled", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "uncapped", cfg.Renderer.PresentMode)
	assert.Equal(t, 250*time.Millisecond, cfg.Renderer.DrawableTimeout)
	assert.Equal(t, []float64{0, 0, 0, 1}, cfg.Renderer.ClearColor)
	assert.Equal(t, 2*time.Millisecond, cfg.Renderer.DrawableRetryInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Animation.TransactionDuration)
	assert.Equal(t, []KeyframeValue{{Current: true}, {Value: 0.5}, {Current: true}}, cfg.Animation.Keyframes)

	tf, err := cfg.Animation.TransactionTimingFunction()
	require.NoError(t, err)
	assert.Equal(t, "easeInEaseOut", tf.Name())

	tfs, err := cfg.Animation.KeyframeTimingFunctions()
	require.NoError(t, err)
	require.Len(t, tfs, 2)
	assert.Equal(t, "easeOut", tfs[1].Name())

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "window:\n  colour: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsBadKeyframe(t *testing.T) {
	_, err := Load(writeConfig(t, "animation:\n  keyframes: [current, big]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "big")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"window size":       func(c *Config) { c.Window.Width = 0 },
		"present mode":      func(c *Config) { c.Renderer.PresentMode = "mailbox" },
		"retry interval":    func(c *Config) { c.Renderer.DrawableRetryInterval = 0 },
		"clear channels":    func(c *Config) { c.Renderer.ClearColor = []float64{1, 1, 1} },
		"clear color":       func(c *Config) { c.Renderer.ClearColor = []float64{1, 1.5, 1, 1} },
		"tick rate":         func(c *Config) { c.Display.TickRate = 0 },
		"negative duration": func(c *Config) { c.Animation.KeyframeDuration = -time.Second },
		"equal scales":      func(c *Config) { c.Animation.ExpandedScale = c.Animation.BaseScale },
		"timing name":       func(c *Config) { c.Animation.TransactionTiming = "springy" },
		"keyframe timing":   func(c *Config) { c.Animation.KeyframeTimings = []string{"springy"} },
		"key times":         func(c *Config) { c.Animation.KeyTimes = []float64{0, 1} },
		"one keyframe":      func(c *Config) { c.Animation.Keyframes, c.Animation.KeyTimes = c.Animation.Keyframes[:1], nil },
		"log level":         func(c *Config) { c.Log.Level = "loud" },
		"log format":        func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, name)
	}
}

func TestKeyframeValueMarshal(t *testing.T) {
	out, err := yaml.Marshal([]KeyframeValue{{Current: true}, {Value: -1.9}})
	require.NoError(t, err)
	assert.Equal(t, "- current\n- -1.9\n", string(out))
}
