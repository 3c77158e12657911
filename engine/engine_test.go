package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neoncity/engine/common"
	"github.com/neoncity/engine/engine/camera"
	"github.com/neoncity/engine/engine/config"
	"github.com/neoncity/engine/engine/cull"
	"github.com/neoncity/engine/engine/device"
	"github.com/neoncity/engine/engine/lod"
	"github.com/neoncity/engine/engine/quality"
	"github.com/neoncity/engine/engine/settings"
)

func translation(x, y, z float32) [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	m[12], m[13], m[14] = x, y, z
	return m
}

// drive advances the engine n frames with a fixed per-frame duration.
func drive(e Engine, n int, frameMs float64) {
	now := 0.0
	for i := 0; i < n; i++ {
		e.Frame(now)
		now += frameMs
	}
}

func TestEngineInitialTierFollowsProfile(t *testing.T) {
	tests := []struct {
		name string
		perf device.PerformanceTier
		want quality.Tier
	}{
		{"high performance device", device.PerfHigh, quality.TierHigh},
		{"medium performance device", device.PerfMedium, quality.TierMedium},
		{"low performance device", device.PerfLow, quality.TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(config.Default(), WithProfile(device.Profile{PerformanceTier: tt.perf}))
			assert.Equal(t, tt.want, e.Tier())
		})
	}
}

func TestEngineFrameRunsLODAndCulling(t *testing.T) {
	cam := camera.NewCamera(
		camera.WithPosition(common.Vec3{0, 0, 0}),
		camera.WithTarget(common.Vec3{0, 0, -1}),
	)
	ent := lod.NewEntity("tower", common.Vec3{0, 0, -20}, []float32{10, 30})
	inside := &cull.Object{Transform: translation(0, 0, -50), LocalRadius: 1}
	behind := &cull.Object{Transform: translation(0, 0, 50), LocalRadius: 1}

	e := NewEngine(config.Default(),
		WithProfile(device.Profile{PerformanceTier: device.PerfMedium}),
		WithCamera(cam),
		WithEntities(ent),
		WithObjects(inside, behind),
	)

	e.Frame(0)

	// Distance 20 against thresholds 10/30 at the medium multiplier (1.0).
	assert.Equal(t, 1, ent.CurrentLevel)
	assert.True(t, inside.Visible)
	assert.False(t, behind.Visible)
	assert.Equal(t, uint64(1), e.FrameCount())
}

func TestEngineTierDropsUnderSustainedLowFPS(t *testing.T) {
	e := NewEngine(config.Default(), WithProfile(device.Profile{PerformanceTier: device.PerfHigh}))
	require.Equal(t, quality.TierHigh, e.Tier())
	require.True(t, e.AutoEnabled())

	// 33.3ms frames measure ~30 FPS. Each aggregate refresh steps the tier
	// down one level, so two refreshes land on low.
	drive(e, 200, 33.3)

	assert.Equal(t, quality.TierLow, e.Tier())
	assert.InDelta(t, 30, e.Stats().FPS, 1)
}

func TestEngineTierStableAtTargetFPS(t *testing.T) {
	e := NewEngine(config.Default(), WithProfile(device.Profile{PerformanceTier: device.PerfMedium}))

	drive(e, 200, 1000.0/60.0)

	assert.Equal(t, quality.TierMedium, e.Tier())
}

func TestEngineForceTierDisablesAutoAndPersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "settings.db")

	store, err := settings.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	e := NewEngine(config.Default(),
		WithProfile(device.Profile{PerformanceTier: device.PerfHigh}),
		WithSettings(store),
	)
	require.NoError(t, e.ForceTier(quality.TierLow))
	assert.Equal(t, quality.TierLow, e.Tier())
	assert.False(t, e.AutoEnabled())

	// A PerfHigh profile would start at high, but the persisted override wins.
	restarted := NewEngine(config.Default(),
		WithProfile(device.Profile{PerformanceTier: device.PerfHigh}),
		WithSettings(store),
	)
	assert.Equal(t, quality.TierLow, restarted.Tier())
	assert.False(t, restarted.AutoEnabled())

	require.NoError(t, restarted.ResumeAuto())
	assert.True(t, restarted.AutoEnabled())

	resumed := NewEngine(config.Default(),
		WithProfile(device.Profile{PerformanceTier: device.PerfHigh}),
		WithSettings(store),
	)
	assert.True(t, resumed.AutoEnabled())
}

func TestEngineTierDrivesCameraDrawDistance(t *testing.T) {
	cam := camera.NewCamera(
		camera.WithPosition(common.Vec3{0, 0, 0}),
		camera.WithTarget(common.Vec3{0, 0, -1}),
	)
	e := NewEngine(config.Default(),
		WithProfile(device.Profile{PerformanceTier: device.PerfLow}),
		WithCamera(cam),
	)

	// Low tier draw distance is 150: a point at 200 is out of range.
	p := common.Vec3{0, 0, -200}
	assert.False(t, cam.Frustum().ContainsPoint(p))

	// High tier extends the draw distance to 500.
	require.NoError(t, e.ForceTier(quality.TierHigh))
	assert.True(t, cam.Frustum().ContainsPoint(p))
}

type panickingCuller struct{}

func (panickingCuller) Cull(common.Frustum, []*cull.Object) {
	panic("culler exploded")
}

func TestEngineFrameRecoversFromPanic(t *testing.T) {
	e := NewEngine(config.Default(), WithCuller(panickingCuller{}))

	require.NotPanics(t, func() { e.Frame(0) })
	require.NotPanics(t, func() { e.Frame(16.7) })
	assert.Equal(t, uint64(2), e.FrameCount())
}

func TestEngineRunQuit(t *testing.T) {
	e := NewEngine(config.Default(), WithFrameLimit(500))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	e.Quit()
	e.Quit() // idempotent

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after Quit")
	}
	assert.Greater(t, e.FrameCount(), uint64(0))
}

func TestWithFrameLimitFractionalFPS(t *testing.T) {
	var e Engine
	require.NotPanics(t, func() {
		e = NewEngine(config.Default(), WithFrameLimit(0.5))
	})
	assert.Equal(t, 2*time.Second, e.(*engine).frameLimit)

	e = NewEngine(config.Default(), WithFrameLimit(0))
	assert.Equal(t, time.Duration(0), e.(*engine).frameLimit)

	e = NewEngine(config.Default(), WithFrameLimit(60))
	assert.InDelta(t, float64(time.Second)/60, float64(e.(*engine).frameLimit), 1)
}

func TestOverridesAreSafeDuringFrames(t *testing.T) {
	e := NewEngine(config.Default(), WithProfile(device.Profile{PerformanceTier: device.PerfHigh}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		now := 0.0
		for i := 0; i < 500; i++ {
			e.Frame(now)
			now += 16.7
		}
	}()

	// UI collaborators toggle the override while frames are running.
	for i := 0; i < 200; i++ {
		require.NoError(t, e.ForceTier(quality.TierLow))
		_ = e.Tier()
		_ = e.Params()
		_ = e.AutoEnabled()
		require.NoError(t, e.ResumeAuto())
	}
	<-done

	assert.True(t, e.AutoEnabled())
}
