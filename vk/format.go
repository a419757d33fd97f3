// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package vk

// Format describes the layout of image texels.
// Only formats that presentation surfaces report are
// declared here; values match the original API.
type Format int32

// Formats.
const (
	FormatUndefined Format = 0

	R4G4B4A4Unorm Format = 2
	B4G4R4A4Unorm Format = 3
	R5G6B5Unorm   Format = 4
	B5G6R5Unorm   Format = 5
	R5G5B5A1Unorm Format = 6
	B5G5R5A1Unorm Format = 7
	A1R5G5B5Unorm Format = 8
	R8G8B8Unorm   Format = 23
	B8G8R8Unorm   Format = 30
	R8G8B8A8Unorm Format = 37
	R8G8B8A8SRGB  Format = 43
	B8G8R8A8Unorm Format = 44
	B8G8R8A8SRGB  Format = 50
)

// ColorSpace describes how presented texel values are
// interpreted by the display.
type ColorSpace int32

// Color spaces.
const SRGBNonlinear ColorSpace = 0

// PresentMode selects how presentation requests relate
// to the display's refresh.
type PresentMode int32

// Present modes.
const (
	PresentImmediate        PresentMode = 0
	PresentMailbox          PresentMode = 1
	PresentFIFO             PresentMode = 2
	PresentFIFORelaxed      PresentMode = 3
	PresentSharedDemand     PresentMode = 1000111000
	PresentSharedContinuous PresentMode = 1000111001
)

// String returns the name of the mode as spelled in the
// original API.
func (m PresentMode) String() string {
	switch m {
	case PresentImmediate:
		return "VK_PRESENT_MODE_IMMEDIATE_KHR"
	case PresentMailbox:
		return "VK_PRESENT_MODE_MAILBOX_KHR"
	case PresentFIFO:
		return "VK_PRESENT_MODE_FIFO_KHR"
	case PresentFIFORelaxed:
		return "VK_PRESENT_MODE_FIFO_RELAXED_KHR"
	case PresentSharedDemand:
		return "VK_PRESENT_MODE_SHARED_DEMAND_REFRESH_KHR"
	case PresentSharedContinuous:
		return "VK_PRESENT_MODE_SHARED_CONTINUOUS_REFRESH_KHR"
	default:
		return "VK_PRESENT_MODE_<unknown>"
	}
}

// SurfaceTransform is a bitmask of surface orientations.
type SurfaceTransform uint32

// Surface transforms.
const (
	TransformIdentity   SurfaceTransform = 0x1
	TransformRotate90   SurfaceTransform = 0x2
	TransformRotate180  SurfaceTransform = 0x4
	TransformRotate270  SurfaceTransform = 0x8
	TransformHMirror    SurfaceTransform = 0x10
	TransformHMirror90  SurfaceTransform = 0x20
	TransformHMirror180 SurfaceTransform = 0x40
	TransformHMirror270 SurfaceTransform = 0x80
	TransformInherit    SurfaceTransform = 0x100
)

// CompositeAlpha is a bitmask of alpha compositing modes.
type CompositeAlpha uint32

// Composite alpha modes.
const (
	AlphaOpaque         CompositeAlpha = 0x1
	AlphaPreMultiplied  CompositeAlpha = 0x2
	AlphaPostMultiplied CompositeAlpha = 0x4
	AlphaInherit        CompositeAlpha = 0x8
)

// ImageUsage is a bitmask of intended image uses.
type ImageUsage uint32

// Image usages.
const (
	UsageTransferSrc     ImageUsage = 0x1
	UsageTransferDst     ImageUsage = 0x2
	UsageSampled         ImageUsage = 0x4
	UsageStorage         ImageUsage = 0x8
	UsageColorAttachment ImageUsage = 0x10
	UsageDSAttachment    ImageUsage = 0x20
	UsageTransient       ImageUsage = 0x40
	UsageInputAttachment ImageUsage = 0x80
)

// SharingMode selects how queue families share a resource.
type SharingMode int32

// Sharing modes.
const (
	SharingExclusive  SharingMode = 0
	SharingConcurrent SharingMode = 1
)

// SwapchainCreateFlags is a bitmask of swapchain creation
// options.
type SwapchainCreateFlags uint32

// Swapchain creation flags.
const (
	SwapchainProtected     SwapchainCreateFlags = 0x2
	SwapchainMutableFormat SwapchainCreateFlags = 0x4
	SwapchainDeferredAlloc SwapchainCreateFlags = 0x8
)

// DeviceGroupPresentMode is a bitmask of device group
// presentation modes.
type DeviceGroupPresentMode uint32

// Device group present modes.
const (
	DeviceGroupPresentLocal            DeviceGroupPresentMode = 0x1
	DeviceGroupPresentRemote           DeviceGroupPresentMode = 0x2
	DeviceGroupPresentSum              DeviceGroupPresentMode = 0x4
	DeviceGroupPresentLocalMultiDevice DeviceGroupPresentMode = 0x8
)

// PresentScaling is a bitmask of scaling methods applied
// when a presented image does not match the surface extent.
type PresentScaling uint32

// Present scaling methods.
const (
	ScalingOneToOne PresentScaling = 0x1
	ScalingAspect   PresentScaling = 0x2
	ScalingStretch  PresentScaling = 0x4
)

// PresentGravity is a bitmask of image placements used
// when a presented image is smaller than the surface.
type PresentGravity uint32

// Present gravities.
const (
	GravityMin      PresentGravity = 0x1
	GravityMax      PresentGravity = 0x2
	GravityCentered PresentGravity = 0x4
)

// PresentStage is a bitmask of presentation pipeline stages
// that timing queries may refer to.
type PresentStage uint32

// Present stages.
const (
	StageQueueOperationsEnd     PresentStage = 0x1
	StageRequestsMade           PresentStage = 0x2
	StageImageLatched           PresentStage = 0x4
	StageImageFirstPixelOut     PresentStage = 0x8
	StageImageFirstPixelVisible PresentStage = 0x10
)

// ImageCompression is a bitmask of fixed-rate compression
// controls reported per surface format.
type ImageCompression uint32

// Image compression controls.
const (
	CompressionDefault           ImageCompression = 0
	CompressionFixedRateDefault  ImageCompression = 0x1
	CompressionFixedRateExplicit ImageCompression = 0x2
	CompressionDisabled          ImageCompression = 0x4
)
