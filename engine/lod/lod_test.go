package lod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neoncity/engine/common"
	"github.com/neoncity/engine/engine/quality"
)

var origin = common.Vec3{}

// at returns a camera position at the given distance along +x from origin.
func at(d float32) common.Vec3 {
	return common.Vec3{d, 0, 0}
}

func TestInitialAssignmentIsNaive(t *testing.T) {
	s := NewSelector()

	cases := []struct {
		distance float32
		level    int
	}{
		{10, 0},
		{35, 1},
		{80, 2},
	}
	for _, tc := range cases {
		e := NewEntity("building", origin, []float32{20, 50})
		got := s.Update(e, at(tc.distance), quality.TierMedium)
		assert.Equal(t, tc.level, got, "distance %v", tc.distance)
		assert.Equal(t, tc.level, e.CurrentLevel)
	}
}

func TestInitialAssignmentSkipsHysteresis(t *testing.T) {
	s := NewSelector()

	// Exactly on the boundary: naive level resolves deterministically to 0
	// (distance must exceed the threshold to count as crossed).
	e := NewEntity("sign", origin, []float32{20})
	assert.Equal(t, 0, s.Update(e, at(20), quality.TierMedium))
}

func TestHysteresisSuppressesBoundaryFlicker(t *testing.T) {
	s := NewSelector()

	e := NewEntity("hologram", origin, []float32{20})
	e.HysteresisFactor = 0.1

	require.Equal(t, 0, s.Update(e, at(19.5), quality.TierMedium))

	// Camera jitter across the raw threshold must not flip the level.
	for i := 0; i < 20; i++ {
		d := float32(19.5)
		if i%2 == 1 {
			d = 20.5
		}
		assert.Equal(t, 0, s.Update(e, at(d), quality.TierMedium), "iteration %d", i)
	}

	// Going out commits only past threshold*(1+h) = 22.
	assert.Equal(t, 0, s.Update(e, at(21.9), quality.TierMedium))
	assert.Equal(t, 1, s.Update(e, at(22.1), quality.TierMedium))

	// Coming back commits only below threshold*(1-h) = 18.
	assert.Equal(t, 1, s.Update(e, at(19.5), quality.TierMedium))
	assert.Equal(t, 1, s.Update(e, at(18.1), quality.TierMedium))
	assert.Equal(t, 0, s.Update(e, at(17.9), quality.TierMedium))
}

func TestTierScalesThresholds(t *testing.T) {
	s := NewSelector()

	// High tier multiplies thresholds by 1.2, so detail persists further:
	// the 20 threshold moves to 24.
	e := NewEntity("tower", origin, []float32{20})
	assert.Equal(t, 0, s.Update(e, at(23), quality.TierHigh))

	// Low tier multiplies by 0.8: the same threshold drops to 16.
	e = NewEntity("tower", origin, []float32{20})
	assert.Equal(t, 1, s.Update(e, at(17), quality.TierLow))
}

func TestMultiLevelStepDown(t *testing.T) {
	s := NewSelector(WithHysteresisFactor(0.1))

	e := NewEntity("block", origin, []float32{20, 50})
	require.Equal(t, 0, s.Update(e, at(5), quality.TierMedium))

	// A large jump must clear each boundary's dead-band to land at level 2.
	assert.Equal(t, 2, s.Update(e, at(80), quality.TierMedium))

	// Jump just past the second raw threshold but inside its dead-band
	// (50*1.1 = 55): the walk stops at level 1.
	e = NewEntity("block", origin, []float32{20, 50})
	require.Equal(t, 0, s.Update(e, at(5), quality.TierMedium))
	assert.Equal(t, 1, s.Update(e, at(53), quality.TierMedium))
}

func TestNoThresholdsFailsSafe(t *testing.T) {
	s := NewSelector()

	e := NewEntity("prop", origin, nil)
	assert.Equal(t, 0, s.Update(e, at(1000), quality.TierMedium))
	assert.Equal(t, 1, e.LevelCount())
}

func TestUnsortedThresholdsAreRepaired(t *testing.T) {
	s := NewSelector()

	e := NewEntity("bridge", origin, []float32{50, 20})
	require.Equal(t, []float32{20, 50}, e.DistanceThresholds)
	assert.Equal(t, 1, s.Update(e, at(35), quality.TierMedium))
}

func TestLevelClampedToValidRange(t *testing.T) {
	s := NewSelector()

	e := NewEntity("kiosk", origin, []float32{20})
	e.CurrentLevel = 99 // corrupted external state

	got := s.Update(e, at(5), quality.TierMedium)
	assert.GreaterOrEqual(t, got, 0)
	assert.LessOrEqual(t, got, 1)
}

func TestNilEntity(t *testing.T) {
	s := NewSelector()
	assert.Equal(t, 0, s.Update(nil, origin, quality.TierMedium))
}
