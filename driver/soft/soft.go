// Copyright 2025 Gustavo C. Viegas. All rights reserved.

// Package soft implements driver.Driver in software.
// Images and memory are bookkeeping records, semaphores
// and fences are real synchronization primitives (fences
// are backed by event file descriptors, so they can cross
// the native boundary like any other sync file), and sync
// submissions complete asynchronously when their waits are
// pending. It exists so the presentation engine can run,
// and be tested, without a hardware driver underneath.
package soft

import (
	"sync"

	"gviegas/present/driver"
	"gviegas/present/vk"
)

// driverName identifies this driver in the registry.
const driverName = "soft"

func init() { driver.Register(&drv) }

var drv softDriver

type softDriver struct {
	mu  sync.Mutex
	dev *Device
}

// Open initializes the driver.
func (d *softDriver) Open() (driver.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dev == nil {
		d.dev = newDevice()
	}
	return d.dev, nil
}

// Name returns the name of the driver.
func (d *softDriver) Name() string { return driverName }

// Close deinitializes the driver.
func (d *softDriver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dev != nil {
		d.dev.Close()
		d.dev = nil
	}
}

// Device implements driver.Device.
type Device struct {
	mu   sync.Mutex
	seq  uint64
	que  vk.Queue
	imgs map[vk.Image]*image
	mems map[vk.DeviceMemory]*memory
	sems map[vk.Semaphore]*semaphore
	fens map[vk.Fence]*fence

	// Outstanding async submissions.
	wg sync.WaitGroup

	// Frame boundaries seen by Submit, in order.
	fbs []vk.FrameBoundary
}

func newDevice() *Device {
	d := &Device{
		imgs: make(map[vk.Image]*image),
		mems: make(map[vk.DeviceMemory]*memory),
		sems: make(map[vk.Semaphore]*semaphore),
		fens: make(map[vk.Fence]*fence),
	}
	d.que = vk.Queue(d.newHandle())
	return d
}

// newHandle mints a fresh handle value.
// Callers must hold d.mu or be the sole referent.
func (d *Device) newHandle() uint64 {
	d.seq++
	return d.seq
}

// Queue returns the queue that Submit operates on.
func (d *Device) Queue() vk.Queue { return d.que }

// Limits returns the device's fixed bounds.
func (d *Device) Limits() driver.Limits {
	return driver.Limits{MaxImageDim2D: 16384}
}

// Close releases the device.
// It drains asynchronous submissions first.
func (d *Device) Close() {
	d.wg.Wait()
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, f := range d.fens {
		f.close()
	}
	d.imgs = make(map[vk.Image]*image)
	d.mems = make(map[vk.DeviceMemory]*memory)
	d.sems = make(map[vk.Semaphore]*semaphore)
	d.fens = make(map[vk.Fence]*fence)
	d.fbs = nil
}

// FrameBoundaries returns a copy of every frame boundary
// annotation submitted so far, in submission order.
// It is a diagnostic for callers that need to check how
// many boundaries a present produced.
func (d *Device) FrameBoundaries() []vk.FrameBoundary {
	d.mu.Lock()
	defer d.mu.Unlock()
	fbs := make([]vk.FrameBoundary, len(d.fbs))
	copy(fbs, d.fbs)
	return fbs
}
