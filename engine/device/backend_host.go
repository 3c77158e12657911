package device

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// reducedMotionEnv is checked by the reduced-motion sub-probe. There is no
// portable OS query for this preference from a native process, so it is
// honored as an explicit opt-in.
const reducedMotionEnv = "NEONCITY_REDUCED_MOTION"

// hostBackend probes the real host through WebGPU and GLFW.
type hostBackend struct{}

var _ Backend = hostBackend{}

// NewBackend creates the host environment backend.
//
// Returns:
//   - Backend: a backend probing the real host
func NewBackend() Backend {
	return hostBackend{}
}

// ProbeGraphics requests a WebGPU adapter, preferring hardware and falling
// back to the software adapter. Adapter creation panics inside the native
// bindings are handled by Probe's recovery; an error here simply reports
// GraphicsNone upstream.
func (hostBackend) ProbeGraphics() (GraphicsInfo, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return GraphicsInfo{}, fmt.Errorf("wgpu instance creation failed")
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
	tier := GraphicsAdvanced
	if err != nil {
		// No hardware adapter; try the software fallback before giving up.
		adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			ForceFallbackAdapter: true,
		})
		if err != nil {
			return GraphicsInfo{}, fmt.Errorf("no graphics adapter available: %w", err)
		}
		tier = GraphicsBasic
	}
	defer adapter.Release()

	info := adapter.GetInfo()
	if info.AdapterType == wgpu.AdapterTypeCPU {
		tier = GraphicsBasic
	}

	limits := adapter.GetLimits()

	return GraphicsInfo{
		Tier:                tier,
		MaxTextureDimension: int(limits.Limits.MaxTextureDimension2D),
		DiscreteGPU:         info.AdapterType == wgpu.AdapterTypeDiscreteGPU,
	}, nil
}

// ProbeDisplay reads the primary monitor's video mode and content scale.
// GLFW stays initialized afterwards; the window layer initializes it again
// ref-counted when the engine starts.
func (hostBackend) ProbeDisplay() (DisplayInfo, error) {
	if err := glfw.Init(); err != nil {
		return DisplayInfo{}, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return DisplayInfo{}, fmt.Errorf("no primary monitor")
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return DisplayInfo{}, fmt.Errorf("no video mode for primary monitor")
	}
	scaleX, _ := monitor.GetContentScale()

	return DisplayInfo{
		WidthPx:      mode.Width,
		HeightPx:     mode.Height,
		ContentScale: scaleX,
	}, nil
}

// ProbeReducedMotion honors the opt-in environment variable.
func (hostBackend) ProbeReducedMotion() (bool, error) {
	v, ok := os.LookupEnv(reducedMotionEnv)
	if !ok {
		return false, fmt.Errorf("reduced-motion preference not exposed")
	}
	return v == "1" || v == "true", nil
}

// ProbeNetwork has no portable estimate on the host; the neutral fallback in
// Probe applies.
func (hostBackend) ProbeNetwork() (NetworkClass, error) {
	return NetworkFast, fmt.Errorf("network information not exposed")
}
