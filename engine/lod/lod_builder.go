package lod

import "github.com/neoncity/engine/engine/quality"

// SelectorOption is a functional option for configuring a Selector.
// Use the With* functions to create options that are applied directly to the
// selector instance.
type SelectorOption func(*selector)

// WithTierMultiplier overrides the threshold scale factor for one tier.
// Values <= 0 are ignored.
//
// Parameters:
//   - tier: the tier to override
//   - multiplier: the threshold scale factor
//
// Returns:
//   - SelectorOption: option function to apply
func WithTierMultiplier(tier quality.Tier, multiplier float32) SelectorOption {
	return func(s *selector) {
		if multiplier <= 0 {
			return
		}
		s.multipliers[tier.Clamp()] = multiplier
	}
}

// WithHysteresisFactor sets the default dead-band width used by entities that
// do not carry their own factor. Values <= 0 fall back to the package default.
//
// Parameters:
//   - factor: the dead-band width (e.g. 0.1 widens boundaries by 10%)
//
// Returns:
//   - SelectorOption: option function to apply
func WithHysteresisFactor(factor float32) SelectorOption {
	return func(s *selector) {
		if factor <= 0 {
			factor = DefaultHysteresisFactor
		}
		s.hysteresis = factor
	}
}
