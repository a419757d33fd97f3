// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package vk

// Extension structures that chain off a parent in the
// original API are modeled as optional pointer fields on
// the parent struct here. A nil field means the extension
// was not provided.

// Offset2D is a two-dimensional offset.
type Offset2D struct {
	X, Y int32
}

// Extent2D is a two-dimensional size.
type Extent2D struct {
	Width, Height uint32
}

// ExtentUndefined is the width and height a surface reports
// when its extent is decided by the swapchain targeting it.
const ExtentUndefined = ^uint32(0)

// Rect2D is an offset and extent pair.
type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

// SurfaceCapabilities describes what a surface supports.
type SurfaceCapabilities struct {
	MinImageCount    uint32
	MaxImageCount    uint32
	CurrentExtent    Extent2D
	MinImageExtent   Extent2D
	MaxImageExtent   Extent2D
	MaxImageLayers   uint32
	Transforms       SurfaceTransform
	CurrentTransform SurfaceTransform
	CompositeAlpha   CompositeAlpha
	Usage            ImageUsage
}

// SurfaceFormat is a format/color space pair supported by
// a surface.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// ImageCompressionProperties reports the fixed-rate
// compression support of a surface format.
type ImageCompressionProperties struct {
	Compression    ImageCompression
	FixedRateFlags uint32
}

// SurfaceFormat2 is a surface format with its compression
// properties attached. Compression is nil when the surface
// does not support fixed-rate compression.
type SurfaceFormat2 struct {
	SurfaceFormat
	Compression *ImageCompressionProperties
}

// SurfacePresentModeInfo names the present mode a surface
// query refers to.
type SurfacePresentModeInfo struct {
	PresentMode PresentMode
}

// SurfacePresentModeCompatibility lists the present modes a
// swapchain created with the queried mode may switch to.
type SurfacePresentModeCompatibility struct {
	PresentModes []PresentMode
}

// SurfaceInfo2 is the parameter block of extended surface
// queries.
type SurfaceInfo2 struct {
	Surface Surface

	PresentMode *SurfacePresentModeInfo
}

// SurfacePresentScalingCapabilities reports how a surface
// scales and places images whose extent does not match its
// own.
type SurfacePresentScalingCapabilities struct {
	Scaling              PresentScaling
	GravityX             PresentGravity
	GravityY             PresentGravity
	MinScaledImageExtent Extent2D
	MaxScaledImageExtent Extent2D
}

// PresentTimingCapabilities reports a surface's support for
// presentation timing queries.
type PresentTimingCapabilities struct {
	TimingSupported         bool
	AtAbsoluteTimeSupported bool
	AtRelativeTimeSupported bool
	StageQueries            PresentStage
	StageTargets            PresentStage
}

// SurfaceCapabilities2 is the result block of extended
// surface queries. The optional pointer fields must be
// non-nil on input for their query to be answered;
// ModeCompatibility requires SurfaceInfo2.PresentMode to
// be set.
type SurfaceCapabilities2 struct {
	Capabilities SurfaceCapabilities

	ModeCompatibility *SurfacePresentModeCompatibility
	Scaling           *SurfacePresentScalingCapabilities
	Timing            *PresentTimingCapabilities
}

// SwapchainPresentModesCreateInfo declares every present
// mode a swapchain intends to switch to during its
// lifetime.
type SwapchainPresentModesCreateInfo struct {
	PresentModes []PresentMode
}

// SwapchainCreateInfo describes a swapchain to create.
type SwapchainCreateInfo struct {
	Flags          SwapchainCreateFlags
	Surface        Surface
	MinImageCount  uint32
	Format         Format
	ColorSpace     ColorSpace
	Extent         Extent2D
	ArrayLayers    uint32
	Usage          ImageUsage
	SharingMode    SharingMode
	QueueFamilies  []uint32
	PreTransform   SurfaceTransform
	CompositeAlpha CompositeAlpha
	PresentMode    PresentMode
	Clipped        bool
	OldSwapchain   Swapchain

	PresentModes *SwapchainPresentModesCreateInfo
}

// AcquireNextImageInfo is the parameter block of the
// extended acquire operation.
type AcquireNextImageInfo struct {
	Swapchain  Swapchain
	Timeout    uint64
	Semaphore  Semaphore
	Fence      Fence
	DeviceMask uint32
}

// PresentID carries one application present id per
// swapchain in a present call. It takes effect only when
// len(IDs) matches the call's swapchain count.
type PresentID struct {
	IDs []uint64
}

// SwapchainPresentFenceInfo carries one fence per swapchain
// in a present call; each fence is signaled only once the
// display path has retired the presented image.
type SwapchainPresentFenceInfo struct {
	Fences []Fence
}

// SwapchainPresentModeInfo requests a present mode switch,
// one mode per swapchain in a present call.
type SwapchainPresentModeInfo struct {
	Modes []PresentMode
}

// FrameBoundary marks the submissions of one user-visible
// frame.
type FrameBoundary struct {
	FrameID uint64
	Images  []Image
}

// PresentTimingInfo asks the presentation engine to record
// timing for one present request.
type PresentTimingInfo struct {
	TargetPresentTime uint64
	StageQueries      uint32
}

// PresentTimingsInfo carries one timing request per
// swapchain in a present call. Its length must match the
// call's swapchain count.
type PresentTimingsInfo struct {
	TimingInfos []PresentTimingInfo
}

// PresentInfo describes a present call spanning one or
// more swapchains. ImageIndices[i] is presented to
// Swapchains[i]. If Results is non-nil it must have the
// same length as Swapchains and receives one code per
// swapchain.
type PresentInfo struct {
	WaitSemaphores []Semaphore
	Swapchains     []Swapchain
	ImageIndices   []uint32
	Results        []Result

	PresentIDs    *PresentID
	PresentFences *SwapchainPresentFenceInfo
	PresentModes  *SwapchainPresentModeInfo
	FrameBoundary *FrameBoundary
	TimingInfos   *PresentTimingsInfo
}

// ImageSwapchainCreateInfo binds an image creation request
// to a swapchain; the new image aliases the swapchain's
// backing and is bound to one of its slots later.
type ImageSwapchainCreateInfo struct {
	Swapchain Swapchain
}

// ImageCreateInfo describes a presentable 2D image.
type ImageCreateInfo struct {
	Format        Format
	Extent        Extent2D
	ArrayLayers   uint32
	Usage         ImageUsage
	SharingMode   SharingMode
	QueueFamilies []uint32

	Swapchain *ImageSwapchainCreateInfo
}

// BindImageMemorySwapchainInfo redirects a bind to the
// backing memory of a swapchain image slot. When present,
// the bind's Memory field is ignored.
type BindImageMemorySwapchainInfo struct {
	Swapchain  Swapchain
	ImageIndex uint32
}

// BindMemoryStatus receives the result of one entry in a
// batch bind call.
type BindMemoryStatus struct {
	Result *Result
}

// BindImageMemoryInfo is one entry of a batch bind call.
type BindImageMemoryInfo struct {
	Image        Image
	Memory       DeviceMemory
	MemoryOffset uint64

	Swapchain *BindImageMemorySwapchainInfo
	Status    *BindMemoryStatus
}

// MemoryRequirements reports what an image needs from a
// memory allocation.
type MemoryRequirements struct {
	Size      uint64
	Alignment uint64
	TypeBits  uint32
}

// DeviceGroupPresentCapabilities reports which physical
// devices of a group can present and how.
type DeviceGroupPresentCapabilities struct {
	PresentMask [MaxDeviceGroupSize]uint32
	Modes       DeviceGroupPresentMode
}
