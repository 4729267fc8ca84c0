package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-scale/common"
)

// Profiler tracks tick rate, frame outcomes and memory statistics.
// Logs a summary through the engine logger at a configurable interval.
type Profiler struct {
	ticks          int
	drawn          uint64
	skipped        uint64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now func() time.Time
}

// Sample is one logged profiler interval.
type Sample struct {
	TPS         float64
	Drawn       uint64
	Skipped     uint64
	HeapMB      float64
	AllocRateMB float64
	NumGC       uint32
	MaxPauseUs  uint64
	SysMB       float64
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - interval: how often to log; values <= 0 default to 1 second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per compositor tick.
//
// Parameters:
//   - drawn: total frames drawn so far
//   - skipped: total frames skipped so far
//
// Returns:
//   - Sample: the interval statistics when logged
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick(drawn, skipped uint64) (Sample, bool) {
	p.ticks++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Sample{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc is cumulative and tracks churn, Sys is the process footprint
	s := Sample{
		TPS:         float64(p.ticks) / elapsed.Seconds(),
		Drawn:       drawn - p.drawn,
		Skipped:     skipped - p.skipped,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		NumGC:       p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	common.Logger().Info("profiler",
		"tps", s.TPS,
		"drawn", s.Drawn,
		"skipped", s.Skipped,
		"heapMB", s.HeapMB,
		"allocRateMB", s.AllocRateMB,
		"gc", s.NumGC,
		"maxPauseUs", s.MaxPauseUs,
		"sysMB", s.SysMB,
	)

	p.ticks = 0
	p.drawn = drawn
	p.skipped = skipped
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s, true
}
