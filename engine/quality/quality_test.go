package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierStepsUpOnHighFPS(t *testing.T) {
	c := NewController(WithInitialTier(TierLow))

	// Well above target+tolerance: one step per evaluation, never more.
	assert.Equal(t, TierMedium, c.Adjust(120))
	assert.Equal(t, TierHigh, c.Adjust(120))
	assert.Equal(t, TierHigh, c.Adjust(120), "high is the ceiling")
}

func TestTierStepsDownOnLowFPS(t *testing.T) {
	c := NewController(WithInitialTier(TierHigh))

	assert.Equal(t, TierMedium, c.Adjust(15))
	assert.Equal(t, TierLow, c.Adjust(15))
	assert.Equal(t, TierLow, c.Adjust(15), "low is the floor")
}

func TestNoChangeInsideToleranceBand(t *testing.T) {
	c := NewController(WithInitialTier(TierMedium), WithTargetFPS(60), WithTolerance(5))

	for _, fps := range []int{55, 58, 60, 62, 65} {
		assert.Equal(t, TierMedium, c.Adjust(fps), "fps=%d is inside the band", fps)
	}
	assert.Equal(t, TierLow, c.Adjust(54))
	c = NewController(WithInitialTier(TierMedium), WithTargetFPS(60), WithTolerance(5))
	assert.Equal(t, TierHigh, c.Adjust(66))
}

func TestNoAdjacentLowHighTransitions(t *testing.T) {
	c := NewController(WithInitialTier(TierMedium))

	var transitions []Tier
	c.Subscribe("recorder", func(tier Tier) {
		transitions = append(transitions, tier)
	})

	// Alternate extreme samples to provoke the worst oscillation.
	samples := []int{200, 1, 200, 1, 200, 200, 1, 1, 1, 200}
	prev := c.Current()
	for _, fps := range samples {
		c.Adjust(fps)
	}

	for _, tr := range transitions {
		diff := int(tr) - int(prev)
		if diff < 0 {
			diff = -diff
		}
		assert.Equal(t, 1, diff, "transition %v -> %v skips a tier", prev, tr)
		prev = tr
	}
}

func TestSustainedLowFPSFromHigh(t *testing.T) {
	c := NewController(WithInitialTier(TierHigh))

	var transitions []Tier
	c.Subscribe("recorder", func(tier Tier) {
		transitions = append(transitions, tier)
	})

	for i := 0; i < 10; i++ {
		c.Adjust(15)
	}

	// Exactly two transitions: high -> medium -> low, then it holds.
	require.Equal(t, []Tier{TierMedium, TierLow}, transitions)
	assert.Equal(t, TierLow, c.Current())
}

func TestObserversFireOnlyOnChange(t *testing.T) {
	c := NewController(WithInitialTier(TierMedium))

	calls := 0
	c.Subscribe("counter", func(Tier) { calls++ })

	c.Adjust(60)
	c.Adjust(60)
	assert.Equal(t, 0, calls, "no transition, no notification")

	c.Adjust(200)
	assert.Equal(t, 1, calls)
}

func TestObserverOrderingAndUnsubscribe(t *testing.T) {
	c := NewController(WithInitialTier(TierLow))

	var order []string
	c.Subscribe("a", func(Tier) { order = append(order, "a") })
	c.Subscribe("b", func(Tier) { order = append(order, "b") })
	c.Subscribe("c", func(Tier) { order = append(order, "c") })

	c.Adjust(200)
	require.Equal(t, []string{"a", "b", "c"}, order, "insertion-order delivery")

	order = nil
	c.Unsubscribe("b")
	c.Adjust(200)
	assert.Equal(t, []string{"a", "c"}, order)

	// Re-subscribing an existing id replaces the callback in place.
	order = nil
	c.Subscribe("a", func(Tier) { order = append(order, "a2") })
	c.Adjust(1)
	assert.Equal(t, []string{"a2", "c"}, order)
}

func TestForceTierDisablesAuto(t *testing.T) {
	c := NewController(WithInitialTier(TierHigh))

	c.ForceTier(TierLow)
	assert.Equal(t, TierLow, c.Current())
	assert.False(t, c.AutoEnabled())

	// Automatic adjustment is bypassed while the override holds.
	c.Adjust(200)
	assert.Equal(t, TierLow, c.Current())

	c.ResumeAuto()
	assert.True(t, c.AutoEnabled())
	assert.Equal(t, TierMedium, c.Adjust(200))
}

func TestForceTierNotifiesOnChange(t *testing.T) {
	c := NewController(WithInitialTier(TierHigh))

	calls := 0
	c.Subscribe("counter", func(Tier) { calls++ })

	c.ForceTier(TierHigh)
	assert.Equal(t, 0, calls, "forcing the current tier is not a transition")

	c.ForceTier(TierLow)
	assert.Equal(t, 1, calls)
}

func TestParamsFollowTier(t *testing.T) {
	c := NewController(WithInitialTier(TierHigh))

	require.Equal(t, 2048, c.Params().ShadowMapResolution)
	assert.True(t, c.Params().MSAA)

	c.Adjust(10)
	assert.Equal(t, 1024, c.Params().ShadowMapResolution)
	assert.False(t, c.Params().MSAA)
	assert.True(t, c.Params().PostProcessing)
}

func TestParamsOverride(t *testing.T) {
	c := NewController(
		WithInitialTier(TierLow),
		WithParams(map[Tier]RenderParams{
			TierLow: {ShadowMapResolution: 256, DrawDistance: 80},
		}),
	)

	assert.Equal(t, 256, c.Params().ShadowMapResolution)
	assert.Equal(t, float32(80), c.Params().DrawDistance)
	// Unoverridden tiers keep their defaults.
	assert.Equal(t, 2048, c.ParamsFor(TierHigh).ShadowMapResolution)
}

func TestParseTier(t *testing.T) {
	for s, want := range map[string]Tier{"low": TierLow, "medium": TierMedium, "high": TierHigh} {
		got, ok := ParseTier(s)
		require.True(t, ok, s)
		assert.Equal(t, want, got)
	}
	_, ok := ParseTier("ultra")
	assert.False(t, ok)
}

func TestObserverMayUnsubscribeDuringDelivery(t *testing.T) {
	c := NewController(WithInitialTier(TierLow))

	var fired []string
	c.Subscribe("first", func(tier Tier) {
		fired = append(fired, "first")
		c.Unsubscribe("first")
	})
	c.Subscribe("second", func(tier Tier) {
		fired = append(fired, "second")
	})

	require.NotPanics(t, func() { c.ForceTier(TierMedium) })
	assert.Equal(t, []string{"first", "second"}, fired, "both observers see the transition that removed one of them")

	fired = nil
	c.ForceTier(TierHigh)
	assert.Equal(t, []string{"second"}, fired, "removal takes effect from the next transition")
}

func TestObserverMaySubscribeDuringDelivery(t *testing.T) {
	c := NewController(WithInitialTier(TierLow))

	var fired []string
	c.Subscribe("first", func(tier Tier) {
		fired = append(fired, "first")
		c.Subscribe("late", func(tier Tier) {
			fired = append(fired, "late")
		})
	})

	require.NotPanics(t, func() { c.ForceTier(TierMedium) })
	assert.Equal(t, []string{"first"}, fired, "an observer added mid-delivery waits for the next transition")

	fired = nil
	c.ForceTier(TierHigh)
	assert.Equal(t, []string{"first", "late"}, fired)
}
