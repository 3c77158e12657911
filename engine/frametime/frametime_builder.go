package frametime

// FrameTimerOption is a functional option for configuring a FrameTimer.
// Use the With* functions to create options that are applied directly to the
// timer instance.
type FrameTimerOption func(*frameTimer)

// WithWindowSize sets the capacity of the rolling sample window.
// Values <= 0 fall back to the default of 90 samples.
//
// Parameters:
//   - samples: number of frame durations to retain
//
// Returns:
//   - FrameTimerOption: option function to apply
func WithWindowSize(samples int) FrameTimerOption {
	return func(t *frameTimer) {
		if samples <= 0 {
			samples = 90
		}
		t.durations = make([]float64, samples)
	}
}

// WithAggregateInterval sets how many ticks elapse between aggregate
// recomputations. A value of 1 recomputes on every frame. Values <= 0 fall
// back to the default of 30.
//
// Parameters:
//   - ticks: number of ticks per aggregate refresh
//
// Returns:
//   - FrameTimerOption: option function to apply
func WithAggregateInterval(ticks int) FrameTimerOption {
	return func(t *frameTimer) {
		if ticks <= 0 {
			ticks = 30
		}
		t.aggregateEvery = ticks
	}
}
