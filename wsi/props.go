// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"log"
	"sync"

	"gviegas/present/driver"
	"gviegas/present/internal/drm"
	"gviegas/present/vk"
)

// Properties answers the capability queries of one surface.
// Implementations are per-platform; results are stable for
// the lifetime of the surface unless noted otherwise.
type Properties interface {
	// Capabilities returns what the surface supports when
	// dev presents to it.
	Capabilities(dev driver.Device) vk.SurfaceCapabilities

	// Formats returns the format/color space pairs that
	// presentable images may use, in reporting order.
	Formats(dev driver.Device) []vk.SurfaceFormat2

	// PresentModes returns the present modes the surface
	// supports.
	PresentModes() []vk.PresentMode

	// CompatibleModes returns the present modes that a
	// swapchain created with mode may switch to without
	// being recreated; mode itself is always among them.
	// Querying a mode the surface does not support is a
	// caller error.
	CompatibleModes(mode vk.PresentMode) ([]vk.PresentMode, error)

	// Compatible reports whether a swapchain created with
	// mode a may present with mode b.
	Compatible(a, b vk.PresentMode) bool

	// Scaling returns how the surface scales and places
	// images whose extent does not match its own.
	// The scaled extent bounds are not filled in here;
	// they follow the capabilities' image extent bounds.
	Scaling() vk.SurfacePresentScalingCapabilities

	// Timing returns the surface's support for present
	// timing queries.
	Timing() vk.PresentTimingCapabilities

	// InstanceExts returns the instance-level extensions
	// that presenting to the surface requires.
	InstanceExts() []string

	// DeviceExts returns the device-level extensions that
	// presenting to the surface requires.
	DeviceExts() []string
}

// Present modes supported by every platform.
// Each mode is compatible with itself alone.
var supportedModes = [2]vk.PresentMode{vk.PresentFIFO, vk.PresentMailbox}

func modeSupported(m vk.PresentMode) bool {
	for _, x := range supportedModes {
		if x == m {
			return true
		}
	}
	return false
}

func presentModes() []vk.PresentMode {
	ms := make([]vk.PresentMode, len(supportedModes))
	copy(ms, supportedModes[:])
	return ms
}

func compatibleModes(m vk.PresentMode) ([]vk.PresentMode, error) {
	if !modeSupported(m) {
		log.Printf("[!] wsi: compatibility query with unsupported mode %v", m)
		return nil, vk.ErrNoHostMemory
	}
	return []vk.PresentMode{m}, nil
}

func compatible(a, b vk.PresentMode) bool { return a == b && modeSupported(a) }

// capsCommon fills the capability fields that do not vary
// across platforms.
func capsCommon(dev driver.Device) vk.SurfaceCapabilities {
	dim := dev.Limits().MaxImageDim2D
	return vk.SurfaceCapabilities{
		MaxImageCount:    vk.MaxSwapchainImages,
		MinImageExtent:   vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent:   vk.Extent2D{Width: dim, Height: dim},
		MaxImageLayers:   1,
		Transforms:       vk.TransformIdentity,
		CurrentTransform: vk.TransformIdentity,
		CompositeAlpha:   vk.AlphaOpaque | vk.AlphaPreMultiplied | vk.AlphaInherit,
		Usage: vk.UsageTransferSrc | vk.UsageTransferDst | vk.UsageSampled |
			vk.UsageStorage | vk.UsageColorAttachment,
	}
}

// waylandProps answers capability queries for Wayland
// surfaces. Formats derive from the DRM format list the
// compositor advertised, so they are computed lazily
// against a given device and memoized.
type waylandProps struct {
	surf *Surface

	fmtMu   sync.Mutex
	fmtDev  driver.Device
	formats []vk.SurfaceFormat2
}

func (p *waylandProps) Capabilities(dev driver.Device) vk.SurfaceCapabilities {
	caps := capsCommon(dev)
	caps.MinImageCount = 2
	caps.CurrentExtent = p.surf.Extent()
	return caps
}

func (p *waylandProps) Formats(dev driver.Device) []vk.SurfaceFormat2 {
	p.fmtMu.Lock()
	defer p.fmtMu.Unlock()
	if dev != p.fmtDev {
		fmts := make([]vk.SurfaceFormat2, 0, len(p.surf.fourccs))
		seen := make(map[vk.Format]bool, len(p.surf.fourccs))
		add := func(f vk.Format) {
			if f == vk.FormatUndefined || seen[f] || !dev.SupportsFormat(f) {
				return
			}
			seen[f] = true
			fmts = append(fmts, vk.SurfaceFormat2{
				SurfaceFormat: vk.SurfaceFormat{Format: f, ColorSpace: vk.SRGBNonlinear},
			})
		}
		for _, c := range p.surf.fourccs {
			add(drm.Format(c))
			add(drm.SRGBFormat(c))
		}
		if dev.FixedRateCompression() {
			for i := range fmts {
				fmts[i].Compression = &vk.ImageCompressionProperties{
					Compression:    vk.CompressionFixedRateDefault,
					FixedRateFlags: 1,
				}
			}
		}
		p.fmtDev = dev
		p.formats = fmts
	}
	fmts := make([]vk.SurfaceFormat2, len(p.formats))
	copy(fmts, p.formats)
	return fmts
}

func (p *waylandProps) PresentModes() []vk.PresentMode { return presentModes() }

func (p *waylandProps) CompatibleModes(mode vk.PresentMode) ([]vk.PresentMode, error) {
	return compatibleModes(mode)
}

func (p *waylandProps) Compatible(a, b vk.PresentMode) bool { return compatible(a, b) }

func (p *waylandProps) Scaling() vk.SurfacePresentScalingCapabilities {
	return vk.SurfacePresentScalingCapabilities{
		Scaling:  vk.ScalingOneToOne,
		GravityX: vk.GravityMin,
		GravityY: vk.GravityMin,
	}
}

func (p *waylandProps) Timing() vk.PresentTimingCapabilities {
	return vk.PresentTimingCapabilities{
		TimingSupported: true,
		StageQueries:    vk.StageQueueOperationsEnd,
	}
}

func (p *waylandProps) InstanceExts() []string {
	return []string{
		vk.ExtGetPhysDevProps2,
		vk.ExtExternalFenceCaps,
		vk.ExtExternalSemaphoreCaps,
		vk.ExtExternalMemoryCaps,
	}
}

func (p *waylandProps) DeviceExts() []string {
	return []string{
		vk.ExtImageDrmModifier,
		vk.ExtBindMemory2,
		vk.ExtImageFormatList,
		vk.ExtSamplerYcbcr,
		vk.ExtMaintenance1,
		vk.ExtGetMemoryReqs2,
		vk.ExtExternalMemoryDmaBuf,
		vk.ExtExternalMemoryFd,
		vk.ExtExternalMemory,
		vk.ExtExternalFence,
		vk.ExtExternalFenceFd,
	}
}

// xcbProps answers capability queries for X11 surfaces.
type xcbProps struct {
	surf *Surface
}

// Formats that X11 surfaces report, in reporting order.
// The list is fixed; any device the engine would run on
// can render all of them.
var xcbFormats = [5]vk.SurfaceFormat2{
	{SurfaceFormat: vk.SurfaceFormat{Format: vk.R5G6B5Unorm, ColorSpace: vk.SRGBNonlinear}},
	{SurfaceFormat: vk.SurfaceFormat{Format: vk.R8G8B8A8SRGB, ColorSpace: vk.SRGBNonlinear}},
	{SurfaceFormat: vk.SurfaceFormat{Format: vk.B8G8R8A8Unorm, ColorSpace: vk.SRGBNonlinear}},
	{SurfaceFormat: vk.SurfaceFormat{Format: vk.B8G8R8A8SRGB, ColorSpace: vk.SRGBNonlinear}},
	{SurfaceFormat: vk.SurfaceFormat{Format: vk.R8G8B8A8Unorm, ColorSpace: vk.SRGBNonlinear}},
}

func (p *xcbProps) Capabilities(dev driver.Device) vk.SurfaceCapabilities {
	caps := capsCommon(dev)
	caps.MinImageCount = 4
	caps.CurrentExtent = p.surf.Extent()
	return caps
}

func (p *xcbProps) Formats(dev driver.Device) []vk.SurfaceFormat2 {
	fmts := make([]vk.SurfaceFormat2, len(xcbFormats))
	copy(fmts, xcbFormats[:])
	return fmts
}

func (p *xcbProps) PresentModes() []vk.PresentMode { return presentModes() }

func (p *xcbProps) CompatibleModes(mode vk.PresentMode) ([]vk.PresentMode, error) {
	return compatibleModes(mode)
}

func (p *xcbProps) Compatible(a, b vk.PresentMode) bool { return compatible(a, b) }

// Scaling reports no scaling support; the X11 path always
// presents images at their own size.
func (p *xcbProps) Scaling() vk.SurfacePresentScalingCapabilities {
	return vk.SurfacePresentScalingCapabilities{}
}

func (p *xcbProps) Timing() vk.PresentTimingCapabilities {
	return vk.PresentTimingCapabilities{
		TimingSupported:         true,
		AtAbsoluteTimeSupported: true,
		AtRelativeTimeSupported: true,
		StageQueries: vk.StageQueueOperationsEnd | vk.StageImageLatched |
			vk.StageImageFirstPixelOut | vk.StageImageFirstPixelVisible,
		StageTargets: vk.StageImageLatched | vk.StageImageFirstPixelOut |
			vk.StageImageFirstPixelVisible,
	}
}

func (p *xcbProps) InstanceExts() []string {
	return []string{
		vk.ExtExternalFenceCaps,
		vk.ExtExternalMemoryCaps,
		vk.ExtGetPhysDevProps2,
	}
}

func (p *xcbProps) DeviceExts() []string {
	return []string{
		vk.ExtExternalMemory,
		vk.ExtExternalMemoryFd,
		vk.ExtExternalFence,
		vk.ExtExternalFenceFd,
		vk.ExtExternalSemaphore,
		vk.ExtExternalSemaphoreFd,
		vk.ExtDedicatedAlloc,
		vk.ExtGetMemoryReqs2,
		vk.ExtSamplerYcbcr,
		vk.ExtQueueFamilyForeign,
		vk.ExtMaintenance1,
		vk.ExtBindMemory2,
	}
}

// headlessProps answers capability queries for surfaces
// that present to no display.
type headlessProps struct {
	surf *Surface
}

// Formats that headless surfaces report, in reporting
// order. Entries the device cannot render are omitted.
var headlessFormats = [4]vk.Format{
	vk.B8G8R8A8Unorm,
	vk.B8G8R8A8SRGB,
	vk.R8G8B8A8Unorm,
	vk.R8G8B8A8SRGB,
}

func (p *headlessProps) Capabilities(dev driver.Device) vk.SurfaceCapabilities {
	caps := capsCommon(dev)
	caps.MinImageCount = 2
	caps.CurrentExtent = p.surf.Extent()
	return caps
}

func (p *headlessProps) Formats(dev driver.Device) []vk.SurfaceFormat2 {
	fmts := make([]vk.SurfaceFormat2, 0, len(headlessFormats))
	for _, f := range headlessFormats {
		if dev.SupportsFormat(f) {
			fmts = append(fmts, vk.SurfaceFormat2{
				SurfaceFormat: vk.SurfaceFormat{Format: f, ColorSpace: vk.SRGBNonlinear},
			})
		}
	}
	return fmts
}

func (p *headlessProps) PresentModes() []vk.PresentMode { return presentModes() }

func (p *headlessProps) CompatibleModes(mode vk.PresentMode) ([]vk.PresentMode, error) {
	return compatibleModes(mode)
}

func (p *headlessProps) Compatible(a, b vk.PresentMode) bool { return compatible(a, b) }

func (p *headlessProps) Scaling() vk.SurfacePresentScalingCapabilities {
	return vk.SurfacePresentScalingCapabilities{
		Scaling:  vk.ScalingOneToOne,
		GravityX: vk.GravityMin,
		GravityY: vk.GravityMin,
	}
}

func (p *headlessProps) Timing() vk.PresentTimingCapabilities {
	return vk.PresentTimingCapabilities{
		TimingSupported: true,
		StageQueries:    vk.StageQueueOperationsEnd,
	}
}

func (p *headlessProps) InstanceExts() []string {
	return []string{
		vk.ExtGetPhysDevProps2,
		vk.ExtExternalFenceCaps,
	}
}

func (p *headlessProps) DeviceExts() []string {
	return []string{
		vk.ExtExternalFence,
		vk.ExtExternalFenceFd,
	}
}
