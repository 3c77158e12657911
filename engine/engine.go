package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/neoncity/engine/common"
	"github.com/neoncity/engine/engine/camera"
	"github.com/neoncity/engine/engine/config"
	"github.com/neoncity/engine/engine/cull"
	"github.com/neoncity/engine/engine/device"
	"github.com/neoncity/engine/engine/frametime"
	"github.com/neoncity/engine/engine/lod"
	"github.com/neoncity/engine/engine/quality"
	"github.com/neoncity/engine/engine/settings"
)

// engine implements the Engine interface.
// Owns the per-frame pipeline and coordinates the adaptive-quality subsystems.
type engine struct {
	mu sync.Mutex

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	log zerolog.Logger

	profile device.Profile

	timer   frametime.FrameTimer
	quality quality.Controller
	lod     lod.Selector
	culler  cull.Culler
	camera  camera.Camera
	store   *settings.Store

	entities []*lod.Entity
	objects  []*cull.Object

	frameCount uint64

	frameLimit time.Duration // minimum frame duration; 0 = uncapped

	logInterval time.Duration // minimum delay between frame summary log lines
	lastLog     time.Time
}

// Engine is the main entry point for the adaptive rendering pipeline.
// It runs the per-frame sequence: frame timing, quality adjustment, level-of-
// detail selection, and visibility culling, all on a single goroutine.
type Engine interface {
	// Frame advances the pipeline one frame using the given timestamp.
	// Call it once per rendered frame, with monotonically increasing
	// timestamps. Run drives this automatically from the wall clock; call it
	// directly only when the host loop owns frame pacing.
	//
	// Parameters:
	//   - nowMs: the current timestamp in milliseconds
	Frame(nowMs float64)

	// Run starts the frame loop in its own goroutine and blocks until Quit
	// is called.
	Run()

	// Quit signals the frame loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Profile returns the probed device profile the engine was built with.
	//
	// Returns:
	//   - device.Profile: the device profile
	Profile() device.Profile

	// Stats returns the most recent frame timing aggregate.
	//
	// Returns:
	//   - frametime.FrameStats: the rolling-window FPS and frame time
	Stats() frametime.FrameStats

	// Tier returns the currently active quality tier.
	//
	// Returns:
	//   - quality.Tier: the active tier
	Tier() quality.Tier

	// Params returns the rendering parameters for the currently active tier.
	//
	// Returns:
	//   - quality.RenderParams: the active parameter bundle
	Params() quality.RenderParams

	// ForceTier pins the quality tier to a user-selected value, disabling
	// automatic adjustment, and persists the choice so it survives restarts.
	//
	// Parameters:
	//   - t: the tier to pin
	//
	// Returns:
	//   - error: error if the choice cannot be persisted
	ForceTier(t quality.Tier) error

	// ResumeAuto re-enables automatic tier adjustment and persists the
	// change.
	//
	// Returns:
	//   - error: error if the choice cannot be persisted
	ResumeAuto() error

	// AutoEnabled reports whether automatic tier adjustment is active.
	//
	// Returns:
	//   - bool: true when the tier follows measured FPS
	AutoEnabled() bool

	// Camera returns the engine's camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Quality returns the quality controller, for subscribing to tier
	// transitions.
	//
	// Returns:
	//   - quality.Controller: the controller
	Quality() quality.Controller

	// AddEntity registers an entity for per-frame LOD selection.
	//
	// Parameters:
	//   - e: the entity to register
	AddEntity(e *lod.Entity)

	// AddObject registers an object for per-frame visibility culling.
	//
	// Parameters:
	//   - o: the object to register
	AddObject(o *cull.Object)

	// FrameCount returns the number of frames processed since creation.
	//
	// Returns:
	//   - uint64: the frame counter
	FrameCount() uint64
}

var _ Engine = &engine{}

// NewEngine creates an Engine wired from the given configuration: the frame
// timer, quality controller, LOD selector, and culler are all constructed
// from cfg, and a persisted tier override (if any) is applied before the
// first frame.
//
// Parameters:
//   - cfg: the adaptive-quality configuration (use config.Default() when no
//     file is involved)
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(cfg config.Config, options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		log:         zerolog.Nop(),
	}

	for _, opt := range options {
		opt(e)
	}

	e.logInterval = common.Coalesce(e.logInterval, 5*time.Second)

	if e.timer == nil {
		e.timer = frametime.NewFrameTimer(
			frametime.WithWindowSize(cfg.SampleWindow),
			frametime.WithAggregateInterval(cfg.AggregateInterval),
		)
	}

	if e.quality == nil {
		e.quality = quality.NewController(
			quality.WithInitialTier(initialTier(e.profile)),
			quality.WithTargetFPS(cfg.TargetFPS),
			quality.WithTolerance(cfg.ToleranceFPS),
			quality.WithParams(tierParams(cfg)),
			quality.WithLogger(e.log),
		)
	}

	if e.lod == nil {
		opts := []lod.SelectorOption{lod.WithHysteresisFactor(cfg.LOD.HysteresisFactor)}
		for name, m := range cfg.LOD.TierMultipliers {
			if t, ok := quality.ParseTier(name); ok {
				opts = append(opts, lod.WithTierMultiplier(t, m))
			}
		}
		e.lod = lod.NewSelector(opts...)
	}

	if e.culler == nil {
		cullOpts := []cull.CullerOption{cull.WithBatchSize(cfg.Cull.BatchSize)}
		if cfg.Cull.Workers > 0 {
			cullOpts = append(cullOpts, cull.WithWorkers(cfg.Cull.Workers))
		}
		e.culler = cull.NewCuller(cullOpts...)
	}

	if e.camera == nil {
		e.camera = camera.NewCamera()
	}

	e.applyStoredOverride()

	// The camera's draw distance follows the active tier.
	e.camera.SetFar(e.quality.Params().DrawDistance)
	e.quality.Subscribe("engine.camera", func(t quality.Tier) {
		e.camera.SetFar(e.quality.ParamsFor(t).DrawDistance)
	})

	return e
}

// applyStoredOverride restores a persisted user tier choice, if one exists.
// A corrupt or unreadable store degrades to the profile-derived default.
func (e *engine) applyStoredOverride() {
	if e.store == nil {
		return
	}
	o, ok, err := e.store.LoadOverride()
	if err != nil {
		e.log.Warn().Err(err).Msg("could not load persisted quality settings")
		return
	}
	if !ok {
		return
	}
	t, valid := quality.ParseTier(o.Tier)
	if !valid {
		e.log.Warn().Str("tier", o.Tier).Msg("ignoring unrecognized persisted tier")
		return
	}
	e.quality.ForceTier(t)
	if o.AutoAdjust {
		e.quality.ResumeAuto()
	}
}

// initialTier maps a device performance tier to the starting quality tier.
func initialTier(p device.Profile) quality.Tier {
	switch p.PerformanceTier {
	case device.PerfHigh:
		return quality.TierHigh
	case device.PerfLow:
		return quality.TierLow
	default:
		return quality.TierMedium
	}
}

// tierParams converts the configured tier bundles into controller params,
// starting from the built-in defaults so missing tiers keep sane values.
func tierParams(cfg config.Config) map[quality.Tier]quality.RenderParams {
	params := quality.DefaultParams()
	for name, tp := range cfg.Tiers {
		t, ok := quality.ParseTier(name)
		if !ok {
			continue
		}
		params[t] = quality.RenderParams{
			ShadowMapResolution: tp.ShadowMapResolution,
			ParticleMultiplier:  tp.ParticleMultiplier,
			DrawDistance:        tp.DrawDistance,
			MSAA:                tp.MSAA,
			PostProcessing:      tp.PostProcessing,
		}
	}
	return params
}

// Frame runs the fixed per-frame sequence:
//  1. record the timestamp and refresh frame timing aggregates
//  2. adjust the quality tier when a fresh aggregate is available
//  3. select LOD levels for all registered entities against the camera
//  4. cull registered objects against the camera frustum
//
// The quality tier is read once at the start of the LOD pass, so every
// entity in a frame sees the same tier even if an adjustment happened that
// same frame. A panic inside the frame is recovered and logged; the engine
// stays usable for the next frame.
func (e *engine) Frame(nowMs float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("panic", fmt.Sprint(r)).Msg("frame recovered from panic")
		}
	}()

	e.frameCount++

	stats, refreshed := e.timer.Tick(nowMs)
	if refreshed && e.quality.AutoEnabled() {
		e.quality.Adjust(stats.FPS)
	}

	tier := e.quality.Current()
	camPos := e.camera.Position()
	for _, ent := range e.entities {
		e.lod.Update(ent, camPos, tier)
	}

	e.culler.Cull(e.camera.Frustum(), e.objects)

	if refreshed {
		e.maybeLogFrameSummary(stats, tier)
	}
}

// maybeLogFrameSummary emits a throttled frame summary so logs stay readable
// at render frame rates.
func (e *engine) maybeLogFrameSummary(stats frametime.FrameStats, tier quality.Tier) {
	now := time.Now()
	if now.Sub(e.lastLog) < e.logInterval {
		return
	}
	e.lastLog = now

	visible := 0
	for _, o := range e.objects {
		if o.Visible {
			visible++
		}
	}
	e.log.Debug().
		Int("fps", stats.FPS).
		Float64("frameTimeMs", stats.AverageFrameTimeMs).
		Str("tier", tier.String()).
		Int("visible", visible).
		Int("objects", len(e.objects)).
		Int("entities", len(e.entities)).
		Uint64("frame", e.frameCount).
		Msg("frame summary")
}

func (e *engine) Run() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.frameLoop()
	e.wg.Wait()
}

// frameLoop drives Frame from the wall clock until the quit channel closes.
func (e *engine) frameLoop() {
	defer e.wg.Done()

	start := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			frameStart := time.Now()
			e.Frame(float64(frameStart.Sub(start)) / float64(time.Millisecond))

			// Frame rate limiting
			if e.frameLimit > 0 {
				elapsed := time.Since(frameStart)
				if remaining := e.frameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// Quit signals the frame loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

func (e *engine) Profile() device.Profile {
	return e.profile
}

func (e *engine) Stats() frametime.FrameStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timer.Stats()
}

func (e *engine) Tier() quality.Tier {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quality.Current()
}

func (e *engine) Params() quality.RenderParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quality.Params()
}

// ForceTier pins the tier, then persists the override. The tier change is
// applied even when persistence fails. The controller is only touched under
// the frame lock: UI collaborators call this concurrently with Run.
func (e *engine) ForceTier(t quality.Tier) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quality.ForceTier(t)
	return e.persistOverride()
}

func (e *engine) ResumeAuto() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quality.ResumeAuto()
	return e.persistOverride()
}

func (e *engine) persistOverride() error {
	if e.store == nil {
		return nil
	}
	return e.store.SaveOverride(settings.Override{
		Tier:       e.quality.Current().String(),
		AutoAdjust: e.quality.AutoEnabled(),
	})
}

func (e *engine) AutoEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quality.AutoEnabled()
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Quality() quality.Controller {
	return e.quality
}

func (e *engine) AddEntity(ent *lod.Entity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entities = append(e.entities, ent)
}

func (e *engine) AddObject(o *cull.Object) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.objects = append(e.objects, o)
}

func (e *engine) FrameCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameCount
}
