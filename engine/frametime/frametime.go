// package frametime samples wall-clock time once per rendered frame and
// derives smoothed FPS and frame-time statistics from a bounded rolling
// window of frame durations.
package frametime

import "math"

// minDeltaMs is the floor applied to frame deltas. Timestamps that go
// backwards or repeat (timer resolution, clock adjustment) would otherwise
// produce zero or negative durations and blow up the FPS estimate.
const minDeltaMs = 1.0

// FrameStats is the aggregate view over the rolling sample window.
type FrameStats struct {
	// FPS is the smoothed frames-per-second estimate, rounded to the nearest
	// whole frame.
	FPS int

	// AverageFrameTimeMs is the mean frame duration across the window.
	AverageFrameTimeMs float64

	// Samples is the number of frame samples currently in the window.
	Samples int
}

// FrameTimer consumes one high-resolution timestamp per rendered frame and
// maintains a fixed-capacity ring of frame durations. Aggregates are
// recomputed every aggregateEvery-th call rather than on every frame; that
// only changes how often consumers observe a fresh value, not correctness.
type FrameTimer interface {
	// Tick records a frame boundary.
	//
	// Parameters:
	//   - nowMs: the current high-resolution timestamp in milliseconds
	//
	// Returns:
	//   - FrameStats: the most recent aggregate (possibly from a prior tick)
	//   - bool: true if the aggregate was recomputed on this call
	Tick(nowMs float64) (FrameStats, bool)

	// Stats returns the most recent aggregate without recording a frame.
	//
	// Returns:
	//   - FrameStats: the last computed aggregate
	Stats() FrameStats

	// Reset discards all samples and pending state.
	Reset()
}

type frameTimer struct {
	durations []float64 // ring buffer of frame durations in ms
	head      int
	filled    int

	lastTimestampMs float64
	hasLast         bool

	aggregateEvery int
	ticksSinceAgg  int
	stats          FrameStats
}

var _ FrameTimer = &frameTimer{}

// NewFrameTimer creates a FrameTimer with default settings: a 90-sample
// window with aggregates refreshed every 30 frames.
//
// Parameters:
//   - options: functional options for timer configuration
//
// Returns:
//   - FrameTimer: the newly created timer
func NewFrameTimer(options ...FrameTimerOption) FrameTimer {
	t := &frameTimer{
		durations:      make([]float64, 90),
		aggregateEvery: 30,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *frameTimer) Tick(nowMs float64) (FrameStats, bool) {
	if !t.hasLast {
		// First call establishes the baseline; there is no duration yet.
		t.lastTimestampMs = nowMs
		t.hasLast = true
		return t.stats, false
	}

	delta := nowMs - t.lastTimestampMs
	if delta < minDeltaMs {
		delta = minDeltaMs
	}
	t.lastTimestampMs = nowMs

	t.durations[t.head] = delta
	t.head = (t.head + 1) % len(t.durations)
	if t.filled < len(t.durations) {
		t.filled++
	}

	t.ticksSinceAgg++
	if t.ticksSinceAgg < t.aggregateEvery {
		return t.stats, false
	}
	t.ticksSinceAgg = 0
	t.recompute()
	return t.stats, true
}

func (t *frameTimer) Stats() FrameStats {
	return t.stats
}

func (t *frameTimer) Reset() {
	t.head = 0
	t.filled = 0
	t.hasLast = false
	t.ticksSinceAgg = 0
	t.stats = FrameStats{}
}

// recompute derives the aggregate from the mean of the sample window.
func (t *frameTimer) recompute() {
	if t.filled == 0 {
		t.stats = FrameStats{}
		return
	}

	sum := 0.0
	for i := 0; i < t.filled; i++ {
		sum += t.durations[i]
	}
	avg := sum / float64(t.filled)

	t.stats = FrameStats{
		FPS:                int(math.Round(1000.0 / avg)),
		AverageFrameTimeMs: avg,
		Samples:            t.filled,
	}
}
