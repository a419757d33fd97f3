// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package layer

import (
	"log"

	"gviegas/present/driver"
	"gviegas/present/internal/drm"
	"gviegas/present/vk"
	"gviegas/present/wsi"
)

// Surface creation can fail only for lack of bookkeeping
// space, so creators report failure as
// vk.ErrorOutOfHostMemory.

// CreateHeadlessSurface creates a surface that presents
// off-screen at a fixed size.
func (i *Instance) CreateHeadlessSurface(width, height uint32) (vk.Surface, vk.Result) {
	s, err := wsi.NewHeadless(width, height)
	if err != nil {
		return 0, vk.ErrorOutOfHostMemory
	}
	return i.surfaces.put(s), vk.Success
}

// CreateWaylandSurface creates a surface backed by a
// wayland compositor that advertises the given drm
// formats.
func (i *Instance) CreateWaylandSurface(fourccs []drm.FourCC) (vk.Surface, vk.Result) {
	s, err := wsi.NewWayland(fourccs)
	if err != nil {
		return 0, vk.ErrorOutOfHostMemory
	}
	return i.surfaces.put(s), vk.Success
}

// CreateXCBSurface creates a surface backed by an X11
// window of the given size.
func (i *Instance) CreateXCBSurface(width, height uint32, trueColor bool) (vk.Surface, vk.Result) {
	s, err := wsi.NewXCB(width, height, trueColor)
	if err != nil {
		return 0, vk.ErrorOutOfHostMemory
	}
	return i.surfaces.put(s), vk.Success
}

// DestroySurface closes a surface and drops its handle.
// Swapchains still targeting the surface become lost; they
// remain valid and must still be destroyed by their owner.
// Destroying a handle that is not live has no effect.
func (i *Instance) DestroySurface(h vk.Surface) {
	if s, ok := i.surfaces.remove(h); ok {
		s.Close()
	}
}

// SurfaceSupport reports whether dev can present to a
// surface. A device that cannot bridge native fences is
// unsupported on every platform.
func (i *Instance) SurfaceSupport(dev driver.Device, h vk.Surface) (bool, vk.Result) {
	s, ok := i.surfaces.get(h)
	if !ok {
		return false, vk.ErrorValidationFailed
	}
	if !dev.SyncFdSupported() {
		log.Printf("[!] layer: device cannot bridge native fences; presentation unsupported")
		return false, vk.Success
	}
	return s.PresentationSupported(dev), vk.Success
}

// SurfaceCapabilities returns what a surface supports on
// dev.
func (i *Instance) SurfaceCapabilities(dev driver.Device, h vk.Surface, caps *vk.SurfaceCapabilities) vk.Result {
	s, ok := i.surfaces.get(h)
	if !ok {
		return vk.ErrorValidationFailed
	}
	*caps = s.Properties().Capabilities(dev)
	return vk.Success
}

// SurfaceFormats returns the format/color space pairs a
// surface supports on dev, using the two-call protocol.
func (i *Instance) SurfaceFormats(dev driver.Device, h vk.Surface, count *uint32, fmts []vk.SurfaceFormat) vk.Result {
	s, ok := i.surfaces.get(h)
	if !ok {
		return vk.ErrorValidationFailed
	}
	f2 := s.Properties().Formats(dev)
	fs := make([]vk.SurfaceFormat, len(f2))
	for j := range f2 {
		fs[j] = f2[j].SurfaceFormat
	}
	return wsi.Enumerate(fs, count, fmts)
}

// SurfaceFormats2 is SurfaceFormats with compression
// properties attached to each entry.
func (i *Instance) SurfaceFormats2(dev driver.Device, h vk.Surface, count *uint32, fmts []vk.SurfaceFormat2) vk.Result {
	s, ok := i.surfaces.get(h)
	if !ok {
		return vk.ErrorValidationFailed
	}
	return wsi.Enumerate(s.Properties().Formats(dev), count, fmts)
}

// SurfacePresentModes returns the present modes a surface
// supports, using the two-call protocol.
func (i *Instance) SurfacePresentModes(h vk.Surface, count *uint32, modes []vk.PresentMode) vk.Result {
	s, ok := i.surfaces.get(h)
	if !ok {
		return vk.ErrorValidationFailed
	}
	return wsi.Enumerate(s.Properties().PresentModes(), count, modes)
}

// SurfaceCapabilities2 answers an extended surface query.
// The optional queries of caps are answered when non-nil:
// mode compatibility needs info.PresentMode set and fails
// the whole call with vk.ErrorOutOfHostMemory if the named
// mode is not supported by the surface; scaled image
// extents follow the capability extents; timing is
// answered only when the instance enables PresentTiming.
func (i *Instance) SurfaceCapabilities2(dev driver.Device, info *vk.SurfaceInfo2, caps *vk.SurfaceCapabilities2) vk.Result {
	s, ok := i.surfaces.get(info.Surface)
	if !ok {
		return vk.ErrorValidationFailed
	}
	props := s.Properties()
	if info.PresentMode != nil {
		modes, err := props.CompatibleModes(info.PresentMode.PresentMode)
		if err != nil {
			return vk.AsResult(err)
		}
		if caps.ModeCompatibility != nil {
			caps.ModeCompatibility.PresentModes = modes
		}
	}
	caps.Capabilities = props.Capabilities(dev)
	if caps.Scaling != nil {
		sc := props.Scaling()
		sc.MinScaledImageExtent = caps.Capabilities.MinImageExtent
		sc.MaxScaledImageExtent = caps.Capabilities.MaxImageExtent
		*caps.Scaling = sc
	}
	if caps.Timing != nil && i.cfg.PresentTiming {
		*caps.Timing = props.Timing()
	}
	return vk.Success
}

// PresentRectangles returns the regions of a surface that
// dev presents to, using the two-call protocol. There is
// always exactly one: the whole current extent.
func (i *Instance) PresentRectangles(dev driver.Device, h vk.Surface, count *uint32, rects []vk.Rect2D) vk.Result {
	s, ok := i.surfaces.get(h)
	if !ok {
		return vk.ErrorValidationFailed
	}
	if rects == nil {
		*count = 1
		return vk.Success
	}
	if *count == 0 {
		return vk.Incomplete
	}
	*count = 1
	rects[0] = vk.Rect2D{Extent: s.Properties().Capabilities(dev).CurrentExtent}
	return vk.Success
}
