package quality

import "github.com/rs/zerolog"

// ControllerOption is a functional option for configuring a Controller.
// Use the With* functions to create options that are applied directly to the
// controller instance.
type ControllerOption func(*controller)

// WithInitialTier sets the starting tier, typically seeded from the device
// profile's performance tier.
//
// Parameters:
//   - t: the starting tier (clamped into the valid range)
//
// Returns:
//   - ControllerOption: option function to apply
func WithInitialTier(t Tier) ControllerOption {
	return func(c *controller) {
		c.current = t.Clamp()
	}
}

// WithTargetFPS sets the FPS target the state machine steers toward.
// Values <= 0 fall back to the default of 60.
//
// Parameters:
//   - fps: target frames per second
//
// Returns:
//   - ControllerOption: option function to apply
func WithTargetFPS(fps int) ControllerOption {
	return func(c *controller) {
		if fps <= 0 {
			fps = 60
		}
		c.targetFPS = fps
	}
}

// WithTolerance sets the hysteresis band half-width in FPS. FPS readings
// within target±tolerance leave the tier unchanged. Negative values are
// treated as 0.
//
// Parameters:
//   - fps: band half-width in frames per second
//
// Returns:
//   - ControllerOption: option function to apply
func WithTolerance(fps int) ControllerOption {
	return func(c *controller) {
		if fps < 0 {
			fps = 0
		}
		c.tolerance = fps
	}
}

// WithParams overrides parameter bundles for individual tiers. Tiers absent
// from the override keep their defaults.
//
// Parameters:
//   - params: tier-to-bundle overrides
//
// Returns:
//   - ControllerOption: option function to apply
func WithParams(params map[Tier]RenderParams) ControllerOption {
	return func(c *controller) {
		for t, p := range params {
			c.params[t.Clamp()] = p
		}
	}
}

// WithLogger sets the logger used for tier-transition events.
//
// Parameters:
//   - log: the zerolog logger to use
//
// Returns:
//   - ControllerOption: option function to apply
func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *controller) {
		c.log = log
	}
}
