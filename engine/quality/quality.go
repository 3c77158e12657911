// package quality holds the quality-tier state machine at the center of the
// adaptive rendering subsystem. The controller consumes smoothed FPS
// aggregates, steps the current tier up or down through a hysteresis band,
// and broadcasts tier changes to registered consumers.
package quality

import (
	"github.com/rs/zerolog"
)

// Tier is a discrete rendering-fidelity level. Every tier maps to a fixed
// bundle of rendering parameters via the controller's params table.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// String returns the lowercase tier name.
//
// Returns:
//   - string: "low", "medium", or "high"
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseTier maps a tier name to its Tier value.
//
// Parameters:
//   - s: the tier name ("low", "medium", "high")
//
// Returns:
//   - Tier: the parsed tier
//   - bool: false if the name is not a known tier
func ParseTier(s string) (Tier, bool) {
	switch s {
	case "low":
		return TierLow, true
	case "medium":
		return TierMedium, true
	case "high":
		return TierHigh, true
	default:
		return TierLow, false
	}
}

// Clamp forces t into the valid low..high range.
//
// Returns:
//   - Tier: the clamped tier
func (t Tier) Clamp() Tier {
	if t < TierLow {
		return TierLow
	}
	if t > TierHigh {
		return TierHigh
	}
	return t
}

// RenderParams is the bundle of rendering parameters a tier resolves to.
// The table mapping tiers to bundles is configuration, not algorithm, and is
// overridable via WithParams.
type RenderParams struct {
	// ShadowMapResolution is the shadow map edge length in pixels.
	ShadowMapResolution int

	// ParticleMultiplier scales particle emitter counts.
	ParticleMultiplier float32

	// DrawDistance is the far-plane draw distance in world units.
	DrawDistance float32

	// MSAA enables multisample anti-aliasing.
	MSAA bool

	// PostProcessing enables the post-processing chain (bloom, tone mapping).
	PostProcessing bool
}

// DefaultParams returns the built-in tier-to-parameter table.
//
// Returns:
//   - map[Tier]RenderParams: a fresh copy of the default table
func DefaultParams() map[Tier]RenderParams {
	return map[Tier]RenderParams{
		TierLow: {
			ShadowMapResolution: 512,
			ParticleMultiplier:  0.3,
			DrawDistance:        150,
			MSAA:                false,
			PostProcessing:      false,
		},
		TierMedium: {
			ShadowMapResolution: 1024,
			ParticleMultiplier:  0.6,
			DrawDistance:        300,
			MSAA:                false,
			PostProcessing:      true,
		},
		TierHigh: {
			ShadowMapResolution: 2048,
			ParticleMultiplier:  1.0,
			DrawDistance:        500,
			MSAA:                true,
			PostProcessing:      true,
		},
	}
}

// Observer receives the new tier whenever the controller commits a change.
type Observer func(Tier)

// Controller is the quality-tier state machine. Adjust is evaluated once per
// FPS aggregate (not per raw frame) and moves the tier at most one step per
// evaluation; low never jumps directly to high.
type Controller interface {
	// Current returns the tier in effect.
	//
	// Returns:
	//   - Tier: the current tier
	Current() Tier

	// Params returns the parameter bundle for the current tier.
	//
	// Returns:
	//   - RenderParams: the active bundle
	Params() RenderParams

	// ParamsFor returns the parameter bundle for an arbitrary tier.
	//
	// Parameters:
	//   - t: the tier to look up
	//
	// Returns:
	//   - RenderParams: the bundle for that tier
	ParamsFor(t Tier) RenderParams

	// Adjust feeds one FPS aggregate into the state machine. When automatic
	// adjustment is disabled (manual override) the call is a no-op.
	//
	// Parameters:
	//   - fps: the smoothed frames-per-second estimate
	//
	// Returns:
	//   - Tier: the tier in effect after evaluation
	Adjust(fps int) Tier

	// ForceTier pins the tier and disables automatic adjustment until
	// ResumeAuto is called. Observers fire if the pinned tier differs from
	// the current one.
	//
	// Parameters:
	//   - t: the tier to pin (clamped into the valid range)
	ForceTier(t Tier)

	// ResumeAuto re-enables automatic FPS-driven adjustment.
	ResumeAuto()

	// AutoEnabled reports whether automatic adjustment is active.
	//
	// Returns:
	//   - bool: true unless a manual override is in effect
	AutoEnabled() bool

	// Subscribe registers an observer under an id. Observers are delivered in
	// subscription order, only when the tier actually changes. Subscribing an
	// existing id replaces the callback but keeps its position.
	//
	// Parameters:
	//   - id: stable identifier for later removal
	//   - fn: callback receiving the new tier
	Subscribe(id string, fn Observer)

	// Unsubscribe removes the observer registered under id. Unknown ids are
	// ignored.
	//
	// Parameters:
	//   - id: the identifier used at subscription
	Unsubscribe(id string)
}

type subscription struct {
	id string
	fn Observer
}

type controller struct {
	current   Tier
	targetFPS int
	tolerance int
	auto      bool

	params    map[Tier]RenderParams
	observers []subscription

	log zerolog.Logger
}

var _ Controller = &controller{}

// NewController creates a Controller starting at TierMedium with a 60 FPS
// target, a ±5 FPS hysteresis band, and the default parameter table.
//
// Parameters:
//   - options: functional options for controller configuration
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerOption) Controller {
	c := &controller{
		current:   TierMedium,
		targetFPS: 60,
		tolerance: 5,
		auto:      true,
		params:    DefaultParams(),
		log:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *controller) Current() Tier {
	return c.current
}

func (c *controller) Params() RenderParams {
	return c.params[c.current]
}

func (c *controller) ParamsFor(t Tier) RenderParams {
	return c.params[t.Clamp()]
}

func (c *controller) Adjust(fps int) Tier {
	if !c.auto {
		return c.current
	}

	next := c.current
	switch {
	case fps < c.targetFPS-c.tolerance:
		next = (c.current - 1).Clamp()
	case fps > c.targetFPS+c.tolerance:
		next = (c.current + 1).Clamp()
	}

	c.transition(next, fps)
	return c.current
}

func (c *controller) ForceTier(t Tier) {
	c.auto = false
	c.transition(t.Clamp(), 0)
}

func (c *controller) ResumeAuto() {
	c.auto = true
}

func (c *controller) AutoEnabled() bool {
	return c.auto
}

func (c *controller) Subscribe(id string, fn Observer) {
	for i := range c.observers {
		if c.observers[i].id == id {
			c.observers[i].fn = fn
			return
		}
	}
	c.observers = append(c.observers, subscription{id: id, fn: fn})
}

func (c *controller) Unsubscribe(id string) {
	for i := range c.observers {
		if c.observers[i].id == id {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

// transition commits a tier change and notifies observers. No-op when the
// tier is unchanged, so observers only ever see real transitions.
func (c *controller) transition(next Tier, fps int) {
	if next == c.current {
		return
	}

	prev := c.current
	c.current = next

	c.log.Info().
		Str("from", prev.String()).
		Str("to", next.String()).
		Int("fps", fps).
		Bool("auto", c.auto).
		Msg("quality tier transition")

	// Deliver over a snapshot so an observer that subscribes or unsubscribes
	// during delivery cannot mutate the slice mid-iteration.
	subs := make([]subscription, len(c.observers))
	copy(subs, c.observers)
	for _, sub := range subs {
		sub.fn(next)
	}
}
