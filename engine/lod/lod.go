// package lod selects discrete detail levels for scene objects based on
// camera distance. Thresholds are scaled by the active quality tier and each
// level change passes through a hysteresis dead-band so an object hovering
// near a boundary does not flip representation every frame.
package lod

import (
	"sort"

	"github.com/neoncity/engine/common"
	"github.com/neoncity/engine/engine/quality"
)

// DefaultHysteresisFactor widens each threshold by 12% against the direction
// of a pending transition.
const DefaultHysteresisFactor = 0.12

// Entity is one LOD-managed object instance. Level index 0 is the highest
// detail; index len(DistanceThresholds) is the lowest.
type Entity struct {
	// ID is a stable identifier for the owning scene object.
	ID string

	// WorldPosition is the entity's position in world space.
	WorldPosition common.Vec3

	// DistanceThresholds is the ordered list of N-1 boundary distances for N
	// detail levels.
	DistanceThresholds []float32

	// CurrentLevel is the active detail level index. Fresh entities hold -1
	// until the first Update assigns a level.
	CurrentLevel int

	// HysteresisFactor is the per-entity dead-band width. Values <= 0 fall
	// back to the selector default.
	HysteresisFactor float32
}

// NewEntity creates an Entity with no level assigned yet. Thresholds are
// sorted defensively; a malformed ordering from content data must degrade to
// a working selector, not an error.
//
// Parameters:
//   - id: stable identifier
//   - position: world-space position
//   - thresholds: boundary distances, one fewer than the number of levels
//
// Returns:
//   - *Entity: the newly created entity
func NewEntity(id string, position common.Vec3, thresholds []float32) *Entity {
	sorted := make([]float32, len(thresholds))
	copy(sorted, thresholds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &Entity{
		ID:                 id,
		WorldPosition:      position,
		DistanceThresholds: sorted,
		CurrentLevel:       -1,
	}
}

// LevelCount returns the number of discrete detail levels.
//
// Returns:
//   - int: threshold count + 1, minimum 1
func (e *Entity) LevelCount() int {
	return len(e.DistanceThresholds) + 1
}

// Selector maps camera distance to detail levels. One selector serves many
// entities; per-entity state lives on the Entity itself.
type Selector interface {
	// Update recomputes the detail level for one entity. Called once per
	// entity per frame.
	//
	// Parameters:
	//   - e: the entity to update
	//   - cameraPosition: the camera's world-space position this frame
	//   - tier: the quality tier snapshot for this frame
	//
	// Returns:
	//   - int: the committed detail level index
	Update(e *Entity, cameraPosition common.Vec3, tier quality.Tier) int

	// TierMultiplier returns the threshold scale factor for a tier.
	//
	// Parameters:
	//   - tier: the tier to look up
	//
	// Returns:
	//   - float32: the multiplier applied to all thresholds
	TierMultiplier(tier quality.Tier) float32
}

type selector struct {
	multipliers map[quality.Tier]float32
	hysteresis  float32
}

var _ Selector = &selector{}

// NewSelector creates a Selector with default tier multipliers (low 0.8,
// medium 1.0, high 1.2) and the default hysteresis factor.
//
// Parameters:
//   - options: functional options for selector configuration
//
// Returns:
//   - Selector: the newly created selector
func NewSelector(options ...SelectorOption) Selector {
	s := &selector{
		multipliers: map[quality.Tier]float32{
			quality.TierLow:    0.8,
			quality.TierMedium: 1.0,
			quality.TierHigh:   1.2,
		},
		hysteresis: DefaultHysteresisFactor,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *selector) TierMultiplier(tier quality.Tier) float32 {
	if m, ok := s.multipliers[tier.Clamp()]; ok && m > 0 {
		return m
	}
	return 1.0
}

func (s *selector) Update(e *Entity, cameraPosition common.Vec3, tier quality.Tier) int {
	if e == nil {
		return 0
	}

	maxLevel := len(e.DistanceThresholds)
	if maxLevel == 0 {
		// No thresholds: single-level entity, fail safe to full detail.
		e.CurrentLevel = 0
		return 0
	}

	distance := e.WorldPosition.Distance(cameraPosition)
	mult := s.TierMultiplier(tier)

	// Naive target: the count of scaled thresholds the distance exceeds.
	naive := 0
	for _, t := range e.DistanceThresholds {
		if distance > t*mult {
			naive++
		}
	}

	// First assignment takes the naive level directly; hysteresis only
	// governs changes, not the initial state.
	if e.CurrentLevel < 0 {
		e.CurrentLevel = naive
		return e.CurrentLevel
	}

	current := e.CurrentLevel
	if current > maxLevel {
		current = maxLevel
	}
	if naive == current {
		return e.CurrentLevel
	}

	h := e.HysteresisFactor
	if h <= 0 {
		h = s.hysteresis
	}

	// Step toward the naive target one boundary at a time, committing each
	// crossing only if the distance clears the dead-band around it. Moving to
	// a lower-detail level (higher index) crosses threshold[current] going
	// out; moving to higher detail crosses threshold[current-1] coming back.
	for naive > current {
		boundary := e.DistanceThresholds[current] * mult
		if distance <= boundary*(1+h) {
			break
		}
		current++
	}
	for naive < current {
		boundary := e.DistanceThresholds[current-1] * mult
		if distance >= boundary*(1-h) {
			break
		}
		current--
	}

	if current < 0 {
		current = 0
	}
	if current > maxLevel {
		current = maxLevel
	}
	e.CurrentLevel = current
	return e.CurrentLevel
}
