// Copyright 2025 Gustavo C. Viegas. All rights reserved.

// Package vk defines the presentation slice of the Vulkan API
// as plain Go values: object handles, result codes and the
// structures exchanged by swapchain operations.
// It has no bindings of its own; gviegas/present/driver
// implementations give meaning to the handles declared here.
package vk

import "errors"

// Handles.
// The zero value of every handle type is the null handle.
type (
	Surface      uint64
	Swapchain    uint64
	Image        uint64
	Semaphore    uint64
	Fence        uint64
	DeviceMemory uint64
	Queue        uint64
)

// NoTimeout makes acquire operations block indefinitely.
const NoTimeout = ^uint64(0)

const (
	// MaxSwapchainImages is the largest image count a
	// swapchain will be created with, regardless of what
	// the surface reports.
	MaxSwapchainImages = 6

	// MaxDeviceGroupSize bounds the physical device count
	// of a device group.
	MaxDeviceGroupSize = 32
)

// Result is a wire-level operation code.
// Non-negative values are success codes, negative values
// are errors. Values match the original API so handles and
// results can cross process boundaries unchanged.
type Result int32

// Result codes produced or propagated by this module.
const (
	Success    Result = 0
	NotReady   Result = 1
	Timeout    Result = 2
	Incomplete Result = 5
	Suboptimal Result = 1000001003

	ErrorOutOfHostMemory    Result = -1
	ErrorOutOfDeviceMemory  Result = -2
	ErrorInitializationFail Result = -3
	ErrorDeviceLost         Result = -4
	ErrorSurfaceLost        Result = -1000000000
	ErrorNativeWindowInUse  Result = -1000000001
	ErrorOutOfDate          Result = -1000001004
	ErrorValidationFailed   Result = -1000011001
)

// Errors that Result values map to.
// Calls that take the Go error route report these; the
// boundary converts back and forth with Err and AsResult.
var (
	ErrNoHostMemory   = errors.New("vk: out of host memory")
	ErrNoDeviceMemory = errors.New("vk: out of device memory")
	ErrInitFailed     = errors.New("vk: initialization failed")
	ErrDeviceLost     = errors.New("vk: device lost")
	ErrSurface        = errors.New("vk: surface lost")
	ErrWindowInUse    = errors.New("vk: native window in use")
	ErrOutOfDate      = errors.New("vk: swapchain out of date")
	ErrValidation     = errors.New("vk: validation failed")
	ErrFatal          = errors.New("vk: unexpected result")
)

// IsError returns whether r is an error code.
func (r Result) IsError() bool { return r < 0 }

// Err returns the error corresponding to r, or nil if r is
// a success code.
func (r Result) Err() error {
	if r >= 0 {
		return nil
	}
	switch r {
	case ErrorOutOfHostMemory:
		return ErrNoHostMemory
	case ErrorOutOfDeviceMemory:
		return ErrNoDeviceMemory
	case ErrorInitializationFail:
		return ErrInitFailed
	case ErrorDeviceLost:
		return ErrDeviceLost
	case ErrorSurfaceLost:
		return ErrSurface
	case ErrorNativeWindowInUse:
		return ErrWindowInUse
	case ErrorOutOfDate:
		return ErrOutOfDate
	case ErrorValidationFailed:
		return ErrValidation
	default:
		return ErrFatal
	}
}

// AsResult converts an error back into a wire-level code.
// A nil error converts to Success; errors that do not wrap
// one of the vars above convert to ErrorInitializationFail.
func AsResult(err error) Result {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrNoHostMemory):
		return ErrorOutOfHostMemory
	case errors.Is(err, ErrNoDeviceMemory):
		return ErrorOutOfDeviceMemory
	case errors.Is(err, ErrDeviceLost):
		return ErrorDeviceLost
	case errors.Is(err, ErrSurface):
		return ErrorSurfaceLost
	case errors.Is(err, ErrWindowInUse):
		return ErrorNativeWindowInUse
	case errors.Is(err, ErrOutOfDate):
		return ErrorOutOfDate
	case errors.Is(err, ErrValidation):
		return ErrorValidationFailed
	default:
		return ErrorInitializationFail
	}
}

// String returns the name of the code as spelled in the
// original API.
func (r Result) String() string {
	switch r {
	case Success:
		return "VK_SUCCESS"
	case NotReady:
		return "VK_NOT_READY"
	case Timeout:
		return "VK_TIMEOUT"
	case Incomplete:
		return "VK_INCOMPLETE"
	case Suboptimal:
		return "VK_SUBOPTIMAL_KHR"
	case ErrorOutOfHostMemory:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case ErrorOutOfDeviceMemory:
		return "VK_ERROR_OUT_OF_DEVICE_MEMORY"
	case ErrorInitializationFail:
		return "VK_ERROR_INITIALIZATION_FAILED"
	case ErrorDeviceLost:
		return "VK_ERROR_DEVICE_LOST"
	case ErrorSurfaceLost:
		return "VK_ERROR_SURFACE_LOST_KHR"
	case ErrorNativeWindowInUse:
		return "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR"
	case ErrorOutOfDate:
		return "VK_ERROR_OUT_OF_DATE_KHR"
	case ErrorValidationFailed:
		return "VK_ERROR_VALIDATION_FAILED_EXT"
	default:
		return "VK_RESULT_<unknown>"
	}
}
