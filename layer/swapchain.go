// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package layer

import (
	"log"

	"gviegas/present/driver"
	"gviegas/present/vk"
	"gviegas/present/wsi"
)

// CreateSwapchain creates a swapchain targeting a surface
// of the device's instance. info.Surface must name such a
// surface; there is no other implementation below this one
// that could create the swapchain instead, so an unknown
// surface fails with vk.ErrorInitializationFail.
// A non-null info.OldSwapchain must name a live swapchain
// of d, which the new one replaces and retires.
func (d *Device) CreateSwapchain(info *vk.SwapchainCreateInfo) (vk.Swapchain, vk.Result) {
	surf, ok := d.inst.Surface(info.Surface)
	if !ok {
		return 0, vk.ErrorInitializationFail
	}
	var old *wsi.Swapchain
	if info.OldSwapchain != 0 {
		if old, ok = d.swapchains.get(info.OldSwapchain); !ok {
			return 0, vk.ErrorValidationFailed
		}
	}
	sc, err := wsi.NewSwapchain(d.dev, surf, old, info)
	if err != nil {
		return 0, vk.AsResult(err)
	}
	return d.swapchains.put(sc), vk.Success
}

// DestroySwapchain destroys a swapchain, draining its
// outstanding presentations first.
// Destroying a handle that is not live has no effect.
func (d *Device) DestroySwapchain(h vk.Swapchain) {
	if sc, ok := d.swapchains.remove(h); ok {
		sc.Destroy()
	}
}

// SwapchainImages returns a swapchain's presentable images
// using the two-call protocol.
func (d *Device) SwapchainImages(h vk.Swapchain, count *uint32, imgs []vk.Image) vk.Result {
	sc, ok := d.swapchains.get(h)
	if !ok {
		return vk.ErrorValidationFailed
	}
	return sc.Images(count, imgs)
}

// SwapchainStatus returns a swapchain's current status
// without any other effect.
func (d *Device) SwapchainStatus(h vk.Swapchain) vk.Result {
	sc, ok := d.swapchains.get(h)
	if !ok {
		return vk.ErrorValidationFailed
	}
	return sc.Status()
}

// AcquireNextImage hands out a presentable image of a
// swapchain, identified by its index. At least one of sem
// and fen must be a valid sync object; both are signaled
// when the image is ready to be rendered to.
func (d *Device) AcquireNextImage(h vk.Swapchain, timeout uint64, sem vk.Semaphore, fen vk.Fence) (uint32, vk.Result) {
	sc, ok := d.swapchains.get(h)
	if !ok {
		return 0, vk.ErrorValidationFailed
	}
	return sc.Acquire(timeout, sem, fen)
}

// AcquireNextImage2 is AcquireNextImage with its
// parameters gathered in a struct. info.DeviceMask is
// accepted but carries no meaning on a single-device
// group.
func (d *Device) AcquireNextImage2(info *vk.AcquireNextImageInfo) (uint32, vk.Result) {
	return d.AcquireNextImage(info.Swapchain, info.Timeout, info.Semaphore, info.Fence)
}

// QueuePresent presents one acquired image to each
// swapchain named in info, in order.
// A call spanning more than one swapchain issues a single
// sync submission that gates every presentation in the
// batch on info.WaitSemaphores; if that submission fails,
// the call aborts before any image is presented. Past that
// point every presentation is attempted: per-swapchain
// codes go to info.Results when non-nil, and the first
// non-success code becomes the aggregate result.
func (d *Device) QueuePresent(que vk.Queue, info *vk.PresentInfo) vk.Result {
	scs := make([]*wsi.Swapchain, len(info.Swapchains))
	for i, h := range info.Swapchains {
		sc, ok := d.swapchains.get(h)
		if !ok {
			return vk.ErrorValidationFailed
		}
		scs[i] = sc
	}
	timed := d.inst.cfg.PresentTiming && info.TimingInfos != nil
	if timed && len(info.TimingInfos.TimingInfos) != len(scs) {
		return vk.ErrorValidationFailed
	}
	ids := info.PresentIDs != nil && len(info.PresentIDs.IDs) == len(scs)
	fb := info.FrameBoundary
	batched := len(scs) > 1
	if batched {
		// One submission releases the whole batch at once;
		// each image's present then waits on its own
		// ordering semaphore.
		sems := driver.SubmitSemaphores{Wait: info.WaitSemaphores}
		for i, sc := range scs {
			if idx := info.ImageIndices[i]; idx < uint32(sc.ImageCount()) {
				sems.Signal = append(sems.Signal, sc.PresentSemaphore(idx))
			}
		}
		if err := d.dev.Submit(que, sems, 0, fb); err != nil {
			return vk.AsResult(err)
		}
		fb = nil
	}
	ret := vk.Success
	for i, sc := range scs {
		params := wsi.PresentParams{
			ImageIndex:    info.ImageIndices[i],
			FrameBoundary: fb,
		}
		if batched {
			if params.ImageIndex < uint32(sc.ImageCount()) {
				params.Waits = []vk.Semaphore{sc.PresentSemaphore(params.ImageIndex)}
			}
		} else {
			params.Waits = info.WaitSemaphores
		}
		if ids {
			params.PresentID = info.PresentIDs.IDs[i]
		}
		if info.PresentFences != nil {
			params.Fence = info.PresentFences.Fences[i]
		}
		if info.PresentModes != nil {
			params.SwitchTo = &info.PresentModes.Modes[i]
		}
		if timed {
			params.Timing = &info.TimingInfos.TimingInfos[i]
		}
		res := sc.Present(que, &params)
		if info.Results != nil {
			info.Results[i] = res
		}
		if res != vk.Success && ret == vk.Success {
			ret = res
		}
	}
	return ret
}

// CreateImage creates an image through the device driver.
// When info carries swapchain info naming a live swapchain
// of d, the image instead matches that swapchain's
// presentable images and can be bound to one of its slots
// through BindImageMemory2.
func (d *Device) CreateImage(info *vk.ImageCreateInfo) (vk.Image, vk.Result) {
	if info.Swapchain != nil && info.Swapchain.Swapchain != 0 {
		sc, ok := d.swapchains.get(info.Swapchain.Swapchain)
		if !ok {
			return 0, vk.ErrorValidationFailed
		}
		img, err := sc.AliasImage()
		return img, vk.AsResult(err)
	}
	img, err := d.dev.NewImage(info)
	return img, vk.AsResult(err)
}

// BindImageMemory2 executes a batch of memory bindings.
// Entries that carry swapchain info bind to the named
// swapchain slot; the rest bind through the driver. Every
// entry is attempted regardless of earlier failures, and
// when the maintenance6 extension is enabled each entry's
// status, if present, receives that entry's code. The call
// returns the code of the last entry that failed, or
// success.
func (d *Device) BindImageMemory2(binds []vk.BindImageMemoryInfo) vk.Result {
	status := d.ExtensionEnabled(vk.ExtMaintenance6)
	ret := vk.Success
	for i := range binds {
		b := &binds[i]
		var err error
		if b.Swapchain == nil || b.Swapchain.Swapchain == 0 {
			err = d.dev.BindImageMemory(b.Image, b.Memory, b.MemoryOffset)
		} else if sc, ok := d.swapchains.get(b.Swapchain.Swapchain); ok {
			err = sc.BindImage(b.Image, b.Swapchain.ImageIndex)
		} else {
			err = vk.ErrValidation
		}
		res := vk.AsResult(err)
		if status && b.Status != nil && b.Status.Result != nil {
			*b.Status.Result = res
		}
		if err != nil {
			log.Printf("[!] layer: binding %d of %d failed: %v", i+1, len(binds), err)
			ret = res
		}
	}
	return ret
}

// DeviceGroupPresentCapabilities reports presentation over
// a device group of size one: only the device itself can
// present, locally.
func (d *Device) DeviceGroupPresentCapabilities(caps *vk.DeviceGroupPresentCapabilities) vk.Result {
	*caps = vk.DeviceGroupPresentCapabilities{Modes: vk.DeviceGroupPresentLocal}
	caps.PresentMask[0] = 1
	return vk.Success
}

// DeviceGroupSurfacePresentModes returns how a device
// group presents to a surface of the device's instance:
// locally, always.
func (d *Device) DeviceGroupSurfacePresentModes(h vk.Surface) (vk.DeviceGroupPresentMode, vk.Result) {
	if !d.inst.OwnsSurface(h) {
		return 0, vk.ErrorValidationFailed
	}
	return vk.DeviceGroupPresentLocal, vk.Success
}
