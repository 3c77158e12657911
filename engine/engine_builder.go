package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/neoncity/engine/engine/camera"
	"github.com/neoncity/engine/engine/cull"
	"github.com/neoncity/engine/engine/device"
	"github.com/neoncity/engine/engine/frametime"
	"github.com/neoncity/engine/engine/lod"
	"github.com/neoncity/engine/engine/quality"
	"github.com/neoncity/engine/engine/settings"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithLogger sets the engine's logger. The default discards all output.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(log zerolog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.log = log
	}
}

// WithProfile sets the probed device profile. The profile picks the starting
// quality tier: high-performance devices start at the high tier, low at low,
// everything else at medium.
//
// Parameters:
//   - p: the device profile (from device.Probe)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfile(p device.Profile) EngineBuilderOption {
	return func(e *engine) {
		e.profile = p
	}
}

// WithSettings attaches a settings store for persisting user tier choices.
// A stored override is applied during construction, taking precedence over
// the profile-derived starting tier.
//
// Parameters:
//   - s: the settings store
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSettings(s *settings.Store) EngineBuilderOption {
	return func(e *engine) {
		e.store = s
	}
}

// WithCamera sets a pre-configured camera rather than allowing the engine to
// create one internally.
//
// Parameters:
//   - c: the camera to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithFrameTimer sets a pre-configured frame timer, overriding the one built
// from the configuration.
//
// Parameters:
//   - t: the frame timer to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameTimer(t frametime.FrameTimer) EngineBuilderOption {
	return func(e *engine) {
		e.timer = t
	}
}

// WithQualityController sets a pre-configured quality controller, overriding
// the one built from the configuration.
//
// Parameters:
//   - c: the controller to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithQualityController(c quality.Controller) EngineBuilderOption {
	return func(e *engine) {
		e.quality = c
	}
}

// WithLODSelector sets a pre-configured LOD selector, overriding the one
// built from the configuration.
//
// Parameters:
//   - s: the selector to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLODSelector(s lod.Selector) EngineBuilderOption {
	return func(e *engine) {
		e.lod = s
	}
}

// WithCuller sets a pre-configured culler, overriding the one built from the
// configuration.
//
// Parameters:
//   - c: the culler to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCuller(c cull.Culler) EngineBuilderOption {
	return func(e *engine) {
		e.culler = c
	}
}

// WithEntities registers entities for LOD selection during construction.
//
// Parameters:
//   - entities: the entities to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEntities(entities ...*lod.Entity) EngineBuilderOption {
	return func(e *engine) {
		e.entities = append(e.entities, entities...)
	}
}

// WithObjects registers objects for visibility culling during construction.
//
// Parameters:
//   - objects: the objects to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithObjects(objects ...*cull.Object) EngineBuilderOption {
	return func(e *engine) {
		e.objects = append(e.objects, objects...)
	}
}

// WithFrameLimit sets an optional frame rate cap in frames per second for
// the Run loop. Pass 0 to uncap (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.frameLimit = 0
			return
		}
		e.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithLogInterval sets the minimum delay between frame summary log lines.
//
// Parameters:
//   - d: the interval between summaries
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogInterval(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.logInterval = d
	}
}
