package device

// GraphicsInfo is the raw result of the graphics sub-probe.
type GraphicsInfo struct {
	// Tier is the best adapter generation that could be created.
	Tier GraphicsTier

	// MaxTextureDimension is the adapter's 2D texture edge limit in pixels.
	MaxTextureDimension int

	// DiscreteGPU is true when the adapter is a dedicated graphics card
	// rather than an integrated or software device.
	DiscreteGPU bool
}

// DisplayInfo is the raw result of the display sub-probe.
type DisplayInfo struct {
	// WidthPx and HeightPx are the primary display's resolution.
	WidthPx  int
	HeightPx int

	// ContentScale is the display's DPI scale factor.
	ContentScale float32

	// Touch is true when the display reports touch input support.
	Touch bool
}

// Backend performs the environment-specific sub-probes. Each method returns
// an error when the feature cannot be determined; returning an error (or
// panicking) is always safe and degrades that feature to its conservative
// fallback in Probe.
type Backend interface {
	// ProbeGraphics attempts to create a graphics adapter and query its
	// limits.
	//
	// Returns:
	//   - GraphicsInfo: the adapter tier and limits
	//   - error: error if no adapter could be created
	ProbeGraphics() (GraphicsInfo, error)

	// ProbeDisplay queries the primary display's mode and input traits.
	//
	// Returns:
	//   - DisplayInfo: display resolution and scale
	//   - error: error if no display could be queried
	ProbeDisplay() (DisplayInfo, error)

	// ProbeReducedMotion checks the OS-level reduced-motion preference.
	//
	// Returns:
	//   - bool: true if the user prefers reduced motion
	//   - error: error if the preference is not exposed
	ProbeReducedMotion() (bool, error)

	// ProbeNetwork estimates the quality of the network connection.
	//
	// Returns:
	//   - NetworkClass: the coarse network class
	//   - error: error if no estimate is available
	ProbeNetwork() (NetworkClass, error)
}
