// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"errors"

	"gviegas/present/driver"
	"gviegas/present/vk"
)

var (
	errRebind = errors.New("soft: image already bound")
	errRange  = errors.New("soft: memory range out of bounds")
)

type image struct {
	info vk.ImageCreateInfo
	mem  vk.DeviceMemory
	off  uint64
}

type memory struct {
	size uint64
}

// texelBytes returns the byte size of one texel of f.
func texelBytes(f vk.Format) uint64 {
	switch f {
	case vk.R4G4B4A4Unorm, vk.B4G4R4A4Unorm, vk.R5G6B5Unorm, vk.B5G6R5Unorm,
		vk.R5G5B5A1Unorm, vk.B5G5R5A1Unorm, vk.A1R5G5B5Unorm:
		return 2
	case vk.R8G8B8Unorm, vk.B8G8R8Unorm:
		return 3
	default:
		return 4
	}
}

// SupportsFormat reports whether presentable images of
// format f can be created.
func (d *Device) SupportsFormat(f vk.Format) bool {
	switch f {
	case vk.R4G4B4A4Unorm, vk.B4G4R4A4Unorm,
		vk.R5G6B5Unorm, vk.B5G6R5Unorm,
		vk.R5G5B5A1Unorm, vk.B5G5R5A1Unorm, vk.A1R5G5B5Unorm,
		vk.R8G8B8Unorm, vk.B8G8R8Unorm,
		vk.R8G8B8A8Unorm, vk.R8G8B8A8SRGB,
		vk.B8G8R8A8Unorm, vk.B8G8R8A8SRGB:
		return true
	}
	return false
}

// FixedRateCompression reports whether images can use
// fixed-rate compression.
func (d *Device) FixedRateCompression() bool { return true }

// NewImage creates a new image.
func (d *Device) NewImage(info *vk.ImageCreateInfo) (vk.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	img := vk.Image(d.newHandle())
	layers := info.ArrayLayers
	if layers == 0 {
		layers = 1
	}
	d.imgs[img] = &image{
		info: vk.ImageCreateInfo{
			Format:      info.Format,
			Extent:      info.Extent,
			ArrayLayers: layers,
			Usage:       info.Usage,
			SharingMode: info.SharingMode,
		},
	}
	return img, nil
}

// DestroyImage destroys an image.
func (d *Device) DestroyImage(img vk.Image) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.imgs, img)
}

// ImageRequirements returns what img needs from a memory
// allocation.
func (d *Device) ImageRequirements(img vk.Image) vk.MemoryRequirements {
	d.mu.Lock()
	defer d.mu.Unlock()
	im, ok := d.imgs[img]
	if !ok {
		return vk.MemoryRequirements{}
	}
	ext := im.info.Extent
	size := uint64(ext.Width) * uint64(ext.Height) * uint64(im.info.ArrayLayers) * texelBytes(im.info.Format)
	size = (size + 255) &^ 255
	return vk.MemoryRequirements{
		Size:      size,
		Alignment: 256,
		TypeBits:  1,
	}
}

// AllocateMemory allocates size bytes of device memory.
func (d *Device) AllocateMemory(size uint64) (vk.DeviceMemory, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	mem := vk.DeviceMemory(d.newHandle())
	d.mems[mem] = &memory{size: size}
	return mem, nil
}

// FreeMemory frees a memory allocation.
func (d *Device) FreeMemory(mem vk.DeviceMemory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.mems, mem)
}

// BindImageMemory binds a range of mem to img.
func (d *Device) BindImageMemory(img vk.Image, mem vk.DeviceMemory, off uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	im, ok := d.imgs[img]
	if !ok {
		return driver.ErrBadHandle
	}
	m, ok := d.mems[mem]
	if !ok {
		return driver.ErrBadHandle
	}
	if im.mem != 0 {
		return errRebind
	}
	ext := im.info.Extent
	size := uint64(ext.Width) * uint64(ext.Height) * uint64(im.info.ArrayLayers) * texelBytes(im.info.Format)
	if off+size > m.size {
		return errRange
	}
	im.mem = mem
	im.off = off
	return nil
}

// Backing returns the memory binding of img.
// It is a diagnostic for callers that need to check that
// two image handles share storage.
func (d *Device) Backing(img vk.Image) (mem vk.DeviceMemory, off uint64, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	im, ok := d.imgs[img]
	if !ok || im.mem == 0 {
		return 0, 0, false
	}
	return im.mem, im.off, true
}
