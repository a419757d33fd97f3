// Copyright 2025 Gustavo C. Viegas. All rights reserved.

// Package layer exposes the presentation engine through
// the original API's calling conventions: opaque handles,
// result codes, two-call array queries and batch
// semantics. An Instance owns the surfaces created through
// it; each Device opened from an Instance owns swapchains
// and drives presentation through a loaded driver.
//
// Operations identify surfaces and swapchains by handle.
// Handles that were never minted, or whose object was
// destroyed, fail lookups cleanly: such calls return
// vk.ErrorValidationFailed and have no effect.
package layer

import (
	"errors"
	"strings"

	"gviegas/present/driver"
	"gviegas/present/vk"
	"gviegas/present/wsi"
)

// Config selects optional layer behavior.
type Config struct {
	// PresentTiming enables presentation timing: timing
	// capability queries are answered and per-present
	// timing requests take effect. When false, both are
	// ignored.
	PresentTiming bool
}

// Instance owns the surfaces created through the layer and
// answers surface-level queries about them.
// All methods are safe for concurrent use.
type Instance struct {
	cfg      Config
	surfaces table[vk.Surface, *wsi.Surface]
}

// NewInstance creates an instance with the given
// configuration.
func NewInstance(cfg Config) *Instance {
	return &Instance{cfg: cfg}
}

// OwnsSurface returns whether h names a live surface
// created through i.
func (i *Instance) OwnsSurface(h vk.Surface) bool {
	_, ok := i.surfaces.get(h)
	return ok
}

// Surface returns the surface h names.
// Callers use it to reach the surface object itself, e.g.
// to record a resize reported by the display stack.
func (i *Instance) Surface(h vk.Surface) (*wsi.Surface, bool) {
	return i.surfaces.get(h)
}

// Device presents to surfaces of a given Instance on
// behalf of client code. It owns the swapchains created
// through it and the mapping of their handles.
// All methods are safe for concurrent use; operating on
// the same swapchain from multiple goroutines needs
// external serialization, as the engine demands.
type Device struct {
	inst       *Instance
	dev        driver.Device
	exts       map[string]bool
	swapchains table[vk.Swapchain, *wsi.Swapchain]
}

var errNoDriver = errors.New("layer: driver not found")

// loadDriver opens any registered driver whose name
// contains name. It is case-sensitive; the empty string
// matches every driver.
func loadDriver(name string) (driver.Device, error) {
	drivers := driver.Drivers()
	err := errNoDriver
	for i := range drivers {
		if !strings.Contains(drivers[i].Name(), name) {
			continue
		}
		var d driver.Device
		if d, err = drivers[i].Open(); err != nil {
			continue
		}
		return d, nil
	}
	return nil, err
}

// NewDevice creates a device whose driver is selected from
// the registry by name substring. exts lists the enabled
// extension names; operations that an extension gates
// consult this set.
func (i *Instance) NewDevice(driverName string, exts []string) (*Device, error) {
	dev, err := loadDriver(driverName)
	if err != nil {
		return nil, err
	}
	es := make(map[string]bool, len(exts))
	for _, e := range exts {
		es[e] = true
	}
	return &Device{inst: i, dev: dev, exts: es}, nil
}

// Driver returns the driver device beneath d. Client code
// creates its images, memory and sync objects there, and
// presents on its Queue.
func (d *Device) Driver() driver.Device { return d.dev }

// ExtensionEnabled returns whether the named extension was
// enabled at device creation.
func (d *Device) ExtensionEnabled(name string) bool {
	return d.exts[name]
}

// OwnsSwapchain returns whether h names a live swapchain
// created through d.
func (d *Device) OwnsSwapchain(h vk.Swapchain) bool {
	_, ok := d.swapchains.get(h)
	return ok
}

// Close destroys every swapchain still alive on d.
// The driver device is shared with other devices and
// remains open.
func (d *Device) Close() {
	for _, sc := range d.swapchains.drain() {
		sc.Destroy()
	}
}
