// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package vk

// Extension names understood by the presentation engine.
const (
	// Instance extensions.
	ExtSurface               = "VK_KHR_surface"
	ExtGetSurfaceCaps2       = "VK_KHR_get_surface_capabilities2"
	ExtSurfaceMaintenance1   = "VK_EXT_surface_maintenance1"
	ExtGetPhysDevProps2      = "VK_KHR_get_physical_device_properties2"
	ExtExternalFenceCaps     = "VK_KHR_external_fence_capabilities"
	ExtExternalSemaphoreCaps = "VK_KHR_external_semaphore_capabilities"
	ExtExternalMemoryCaps    = "VK_KHR_external_memory_capabilities"

	// Device extensions.
	ExtSwapchain             = "VK_KHR_swapchain"
	ExtSwapchainMaintenance1 = "VK_EXT_swapchain_maintenance1"
	ExtDeviceGroup           = "VK_KHR_device_group"
	ExtPresentID             = "VK_KHR_present_id"
	ExtMaintenance1          = "VK_KHR_maintenance1"
	ExtMaintenance6          = "VK_KHR_maintenance6"
	ExtFrameBoundary         = "VK_EXT_frame_boundary"
	ExtImageCompression      = "VK_EXT_image_compression_control"
	ExtExternalFenceFd       = "VK_KHR_external_fence_fd"
	ExtExternalSemaphoreFd   = "VK_KHR_external_semaphore_fd"
	ExtExternalFence         = "VK_KHR_external_fence"
	ExtExternalSemaphore     = "VK_KHR_external_semaphore"
	ExtExternalMemory        = "VK_KHR_external_memory"
	ExtExternalMemoryFd      = "VK_KHR_external_memory_fd"
	ExtExternalMemoryDmaBuf  = "VK_EXT_external_memory_dma_buf"
	ExtBindMemory2           = "VK_KHR_bind_memory2"
	ExtGetMemoryReqs2        = "VK_KHR_get_memory_requirements2"
	ExtImageFormatList       = "VK_KHR_image_format_list"
	ExtImageDrmModifier      = "VK_EXT_image_drm_format_modifier"
	ExtSamplerYcbcr          = "VK_KHR_sampler_ycbcr_conversion"
	ExtDedicatedAlloc        = "VK_KHR_dedicated_allocation"
	ExtQueueFamilyForeign    = "VK_EXT_queue_family_foreign"
)
