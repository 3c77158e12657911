// package device probes the host environment once at startup and condenses
// the result into an immutable DeviceProfile: device class, graphics tier,
// texture limits, reduced-motion preference, network class, and an initial
// performance tier. Probing never fails outward; every sub-probe that errors
// or panics degrades to its most conservative value.
package device

import "github.com/rs/zerolog"

// DeviceClass is the coarse form factor of the host device.
type DeviceClass int

const (
	ClassMobile DeviceClass = iota
	ClassTablet
	ClassDesktop
)

// String returns the lowercase class name.
//
// Returns:
//   - string: "mobile", "tablet", or "desktop"
func (c DeviceClass) String() string {
	switch c {
	case ClassMobile:
		return "mobile"
	case ClassTablet:
		return "tablet"
	case ClassDesktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// GraphicsTier is the generation of graphics API available on the host.
type GraphicsTier int

const (
	// GraphicsNone means no usable graphics adapter could be created; the
	// caller is responsible for routing to a non-3D fallback.
	GraphicsNone GraphicsTier = iota

	// GraphicsBasic means only a software/compatibility adapter is available.
	GraphicsBasic

	// GraphicsAdvanced means a hardware adapter with the full feature set is
	// available.
	GraphicsAdvanced
)

// String returns the lowercase tier name.
//
// Returns:
//   - string: "none", "basic", or "advanced"
func (g GraphicsTier) String() string {
	switch g {
	case GraphicsNone:
		return "none"
	case GraphicsBasic:
		return "basic"
	case GraphicsAdvanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// PerformanceTier is the coarse initial guess at rendering headroom, later
// refined at runtime by FPS-driven adjustment.
type PerformanceTier int

const (
	PerfLow PerformanceTier = iota
	PerfMedium
	PerfHigh
)

// String returns the lowercase tier name.
//
// Returns:
//   - string: "low", "medium", or "high"
func (p PerformanceTier) String() string {
	switch p {
	case PerfLow:
		return "low"
	case PerfMedium:
		return "medium"
	case PerfHigh:
		return "high"
	default:
		return "unknown"
	}
}

// NetworkClass is the coarse quality of the host's network connection.
type NetworkClass int

const (
	NetworkSlow NetworkClass = iota
	NetworkMedium
	NetworkFast
)

// Capability wraps a single probed feature as an explicit supported or
// unsupported result, so consumers never sniff for presence themselves.
type Capability[T any] struct {
	Supported bool
	Value     T
}

// Available creates a supported Capability holding v.
//
// Parameters:
//   - v: the probed value
//
// Returns:
//   - Capability[T]: a supported capability
func Available[T any](v T) Capability[T] {
	return Capability[T]{Supported: true, Value: v}
}

// Unavailable creates an unsupported Capability.
//
// Returns:
//   - Capability[T]: an unsupported capability with a zero value
func Unavailable[T any]() Capability[T] {
	return Capability[T]{}
}

// Or returns the capability's value when supported, otherwise the fallback.
//
// Parameters:
//   - fallback: the value to use when the capability is unsupported
//
// Returns:
//   - T: the probed value or the fallback
func (c Capability[T]) Or(fallback T) T {
	if c.Supported {
		return c.Value
	}
	return fallback
}

// Profile is the immutable snapshot produced by Probe. It is computed once
// at startup and never mutated; recomputation happens only on explicit user
// request by calling Probe again.
type Profile struct {
	DeviceClass          DeviceClass
	GraphicsTier         GraphicsTier
	MaxTextureDimension  int
	PerformanceTier      PerformanceTier
	PrefersReducedMotion bool
	NetworkClass         NetworkClass
}

// Probe inspects the environment through the given backend and assembles a
// complete Profile. It never panics: a sub-probe that errors or panics
// degrades to the most conservative value for that feature (graphics unknown
// -> none, network unknown -> fast as the neutral default, reduced motion
// unknown -> false).
//
// Parameters:
//   - backend: the environment probing backend (use NewBackend for the host)
//   - log: logger for probe diagnostics
//
// Returns:
//   - Profile: the assembled device profile
func Probe(backend Backend, log zerolog.Logger) Profile {
	gfx := probeFeature(log, "graphics", backend.ProbeGraphics)
	display := probeFeature(log, "display", backend.ProbeDisplay)
	reducedMotion := probeFeature(log, "reduced-motion", backend.ProbeReducedMotion)
	network := probeFeature(log, "network", backend.ProbeNetwork)

	graphics := gfx.Or(GraphicsInfo{Tier: GraphicsNone})

	p := Profile{
		DeviceClass:          classifyDisplay(display),
		GraphicsTier:         graphics.Tier,
		MaxTextureDimension:  graphics.MaxTextureDimension,
		PrefersReducedMotion: reducedMotion.Or(false),
		NetworkClass:         network.Or(NetworkFast),
	}
	p.PerformanceTier = classifyPerformance(p, graphics)

	log.Info().
		Str("deviceClass", p.DeviceClass.String()).
		Str("graphicsTier", p.GraphicsTier.String()).
		Int("maxTextureDimension", p.MaxTextureDimension).
		Str("performanceTier", p.PerformanceTier.String()).
		Bool("prefersReducedMotion", p.PrefersReducedMotion).
		Msg("device profile")

	return p
}

// probeFeature runs one sub-probe, converting errors and panics into an
// Unavailable result.
func probeFeature[T any](log zerolog.Logger, name string, fn func() (T, error)) (cap Capability[T]) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("probe", name).Interface("panic", r).Msg("probe panicked, using fallback")
			cap = Unavailable[T]()
		}
	}()

	v, err := fn()
	if err != nil {
		log.Debug().Str("probe", name).Err(err).Msg("probe unavailable")
		return Unavailable[T]()
	}
	return Available(v)
}

// classifyDisplay buckets the display into a device class. Absent display
// information defaults to desktop, the class native binaries run on.
func classifyDisplay(display Capability[DisplayInfo]) DeviceClass {
	if !display.Supported {
		return ClassDesktop
	}

	d := display.Value
	shortEdge := float32(min(d.WidthPx, d.HeightPx))
	if d.ContentScale > 1 {
		// Compare in scaled points so a high-DPI phone is not mistaken for a
		// large display.
		shortEdge /= d.ContentScale
	}

	switch {
	case d.Touch && shortEdge < 500:
		return ClassMobile
	case d.Touch:
		return ClassTablet
	default:
		return ClassDesktop
	}
}

// classifyPerformance derives the initial performance tier from the graphics
// probe and device class. Mobile hardware is capped at medium regardless of
// adapter class.
func classifyPerformance(p Profile, graphics GraphicsInfo) PerformanceTier {
	var tier PerformanceTier
	switch {
	case graphics.Tier == GraphicsNone:
		return PerfLow
	case graphics.Tier == GraphicsBasic:
		tier = PerfLow
	case graphics.DiscreteGPU:
		tier = PerfHigh
	default:
		tier = PerfMedium
	}

	if p.DeviceClass == ClassMobile && tier > PerfMedium {
		tier = PerfMedium
	}
	return tier
}
