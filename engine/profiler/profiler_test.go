package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	start := time.Unix(0, 0)
	now := start
	p := NewProfiler(time.Second)
	p.lastTime = start
	p.now = func() time.Time { return now }

	for range 29 {
		now = now.Add(time.Second / 30)
		_, logged := p.Tick(0, 0)
		require.False(t, logged)
	}

	now = start.Add(time.Second)
	s, logged := p.Tick(28, 2)
	require.True(t, logged)
	assert.InDelta(t, 30, s.TPS, 1e-9)
	assert.Equal(t, uint64(28), s.Drawn)
	assert.Equal(t, uint64(2), s.Skipped)

	now = now.Add(2 * time.Second)
	s, logged = p.Tick(40, 2)
	require.True(t, logged)
	assert.InDelta(t, 0.5, s.TPS, 1e-9)
	assert.Equal(t, uint64(12), s.Drawn)
	assert.Zero(t, s.Skipped)
}

func TestDefaultInterval(t *testing.T) {
	assert.Equal(t, time.Second, NewProfiler(0).updateInterval)
}
