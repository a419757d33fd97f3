// Copyright 2025 Gustavo C. Viegas. All rights reserved.

// Package driver defines the interface between the
// presentation engine and the underlying device driver.
// It covers the small slice of device functionality that
// swapchains need: image and memory objects, semaphores,
// fences, native fence descriptors and sync-only queue
// submissions.
package driver

import (
	"errors"
	"log"
	"sync"

	"gviegas/present/vk"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same Device
	// instance. Callers should assume that Open is not safe
	// for parallel execution.
	Open() (Device, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	// Callers should assume that Close is not safe for
	// parallel execution.
	Close()
}

// SubmitSemaphores names the semaphores of one sync
// submission: every Wait semaphore must signal before the
// submission completes, then every Signal semaphore is
// signaled.
type SubmitSemaphores struct {
	Wait   []vk.Semaphore
	Signal []vk.Semaphore
}

// Limits describes fixed device bounds.
type Limits struct {
	// MaxImageDim2D is the maximum width and height of
	// 2D images.
	MaxImageDim2D uint32
}

// Device is the interface that gives meaning to vk handles.
// All methods are safe for concurrent use unless noted
// otherwise. Handles passed to a Device must have been
// created by that same Device.
type Device interface {
	// NewImage creates a new image.
	// The image has no backing memory; bind it before use.
	NewImage(info *vk.ImageCreateInfo) (vk.Image, error)

	// DestroyImage destroys an image.
	// Backing memory is not freed.
	DestroyImage(img vk.Image)

	// ImageRequirements returns what img needs from a
	// memory allocation.
	ImageRequirements(img vk.Image) vk.MemoryRequirements

	// Limits returns the device's fixed bounds.
	Limits() Limits

	// SupportsFormat reports whether presentable images of
	// format f can be created.
	SupportsFormat(f vk.Format) bool

	// FixedRateCompression reports whether images can use
	// fixed-rate compression. Surface format queries attach
	// compression properties only when this is true.
	FixedRateCompression() bool

	// AllocateMemory allocates size bytes of device memory.
	AllocateMemory(size uint64) (vk.DeviceMemory, error)

	// FreeMemory frees a memory allocation.
	// The caller is responsible for ensuring that no image
	// is still bound to it.
	FreeMemory(mem vk.DeviceMemory)

	// BindImageMemory binds a range of mem to img.
	// Binding is permanent; rebinding a bound image fails.
	BindImageMemory(img vk.Image, mem vk.DeviceMemory, off uint64) error

	// NewSemaphore creates a new binary semaphore in the
	// unsignaled state.
	NewSemaphore() (vk.Semaphore, error)

	// DestroySemaphore destroys a semaphore.
	DestroySemaphore(sem vk.Semaphore)

	// NewFence creates a new fence.
	NewFence(signaled bool) (vk.Fence, error)

	// DestroyFence destroys a fence.
	DestroyFence(f vk.Fence)

	// ResetFence returns a fence to the unsignaled state.
	ResetFence(f vk.Fence) error

	// WaitFence blocks until f is signaled or timeout
	// nanoseconds elapse. Timeout zero polls; vk.NoTimeout
	// waits indefinitely. Expiry returns ErrTimedOut.
	WaitFence(f vk.Fence, timeout uint64) error

	// SyncFdSupported returns whether fences can cross the
	// native boundary as file descriptors. When false,
	// ExportSyncFd and ImportSyncFd always fail.
	SyncFdSupported() bool

	// ExportSyncFd exports the payload of f as a native
	// sync file descriptor. The descriptor is owned by the
	// caller and observes the signal exactly once; f itself
	// remains valid.
	ExportSyncFd(f vk.Fence) (int, error)

	// ImportSyncFd replaces the payload of f with the state
	// of a native sync file descriptor. Ownership of fd
	// moves to the device regardless of the outcome.
	ImportSyncFd(fd int, f vk.Fence) error

	// Queue returns the queue that Submit operates on.
	Queue() vk.Queue

	// Submit issues a sync-only submission: after every
	// sems.Wait semaphore has signaled, every sems.Signal
	// semaphore is signaled, then f (if not null). fb, when
	// non-nil, annotates the submission as belonging to one
	// user-visible frame. Submit returns once the
	// submission is queued, not once it completes.
	Submit(que vk.Queue, sems SubmitSemaphores, f vk.Fence, fb *vk.FrameBoundary) error

	// Close releases the device.
	// Behavior of outstanding handles becomes undefined.
	Close()
}

// ErrNoDevice means that no suitable device could be
// found.
var ErrNoDevice = errors.New("driver: no suitable device found")

// ErrTimedOut means that a bounded wait expired before
// the awaited object signaled.
var ErrTimedOut = errors.New("driver: wait timed out")

// ErrCannotExport means that a synchronization object
// cannot cross the native boundary.
var ErrCannotExport = errors.New("driver: native sync export not supported")

// ErrBadHandle means that a handle does not refer to a
// live object of the expected kind.
var ErrBadHandle = errors.New("driver: invalid object handle")

// Drivers returns the registered Drivers.
// Client code imports specific driver packages, and then
// call this function from init. As such, drivers that do
// not register themselves on init will not be considered
// for selection.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver.
// Driver implementations are expected to call Register
// exactly once, from an init function.
// If a driver with the same name has already been
// registered, it will be replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			log.Printf("[!] driver '%s' replaced", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	log.Printf("driver '%s' registered", drv.Name())
}

// Variables used for driver registration.
var (
	mu      sync.Mutex
	drivers = make([]Driver, 0, 1)
)
