// Copyright 2025 Gustavo C. Viegas. All rights reserved.

// Package drm maps DRM fourcc codes to vk formats.
// Surfaces that negotiate buffers through the native DRM
// stack report their formats as fourcc codes; the tables
// here decide which of those a swapchain can render to.
package drm

import "gviegas/present/vk"

// FourCC is a packed DRM format code.
type FourCC uint32

// String returns the four characters of the code.
func (c FourCC) String() string {
	return string([]byte{byte(c), byte(c >> 8), byte(c >> 16), byte(c >> 24)})
}

// Known fourcc codes.
const (
	RGB332 FourCC = 'R' | 'G'<<8 | 'B'<<16 | '8'<<24
	BGR233 FourCC = 'B' | 'G'<<8 | 'R'<<16 | '8'<<24

	XRGB4444 FourCC = 'X' | 'R'<<8 | '1'<<16 | '2'<<24
	XBGR4444 FourCC = 'X' | 'B'<<8 | '1'<<16 | '2'<<24
	RGBX4444 FourCC = 'R' | 'X'<<8 | '1'<<16 | '2'<<24
	BGRX4444 FourCC = 'B' | 'X'<<8 | '1'<<16 | '2'<<24
	ARGB4444 FourCC = 'A' | 'R'<<8 | '1'<<16 | '2'<<24
	ABGR4444 FourCC = 'A' | 'B'<<8 | '1'<<16 | '2'<<24
	RGBA4444 FourCC = 'R' | 'A'<<8 | '1'<<16 | '2'<<24
	BGRA4444 FourCC = 'B' | 'A'<<8 | '1'<<16 | '2'<<24

	XRGB1555 FourCC = 'X' | 'R'<<8 | '1'<<16 | '5'<<24
	XBGR1555 FourCC = 'X' | 'B'<<8 | '1'<<16 | '5'<<24
	RGBX5551 FourCC = 'R' | 'X'<<8 | '1'<<16 | '5'<<24
	BGRX5551 FourCC = 'B' | 'X'<<8 | '1'<<16 | '5'<<24
	ARGB1555 FourCC = 'A' | 'R'<<8 | '1'<<16 | '5'<<24
	ABGR1555 FourCC = 'A' | 'B'<<8 | '1'<<16 | '5'<<24
	RGBA5551 FourCC = 'R' | 'A'<<8 | '1'<<16 | '5'<<24
	BGRA5551 FourCC = 'B' | 'A'<<8 | '1'<<16 | '5'<<24

	RGB565 FourCC = 'R' | 'G'<<8 | '1'<<16 | '6'<<24
	BGR565 FourCC = 'B' | 'G'<<8 | '1'<<16 | '6'<<24

	RGB888 FourCC = 'R' | 'G'<<8 | '2'<<16 | '4'<<24
	BGR888 FourCC = 'B' | 'G'<<8 | '2'<<16 | '4'<<24

	XRGB8888 FourCC = 'X' | 'R'<<8 | '2'<<16 | '4'<<24
	XBGR8888 FourCC = 'X' | 'B'<<8 | '2'<<16 | '4'<<24
	RGBX8888 FourCC = 'R' | 'X'<<8 | '2'<<16 | '4'<<24
	BGRX8888 FourCC = 'B' | 'X'<<8 | '2'<<16 | '4'<<24
	ARGB8888 FourCC = 'A' | 'R'<<8 | '2'<<16 | '4'<<24
	ABGR8888 FourCC = 'A' | 'B'<<8 | '2'<<16 | '4'<<24
	RGBA8888 FourCC = 'R' | 'A'<<8 | '2'<<16 | '4'<<24
	BGRA8888 FourCC = 'B' | 'A'<<8 | '2'<<16 | '4'<<24
)

// Spec describes one fourcc code.
// Format is vk.FormatUndefined for codes that are known
// but cannot back a presentable image.
type Spec struct {
	Planes int
	Bits   [4]int
	Format vk.Format
}

var specs = map[FourCC]Spec{
	RGB332:   {1, [4]int{8}, vk.FormatUndefined},
	BGR233:   {1, [4]int{8}, vk.FormatUndefined},
	XRGB4444: {1, [4]int{16}, vk.FormatUndefined},
	XBGR4444: {1, [4]int{16}, vk.FormatUndefined},
	RGBX4444: {1, [4]int{16}, vk.FormatUndefined},
	BGRX4444: {1, [4]int{16}, vk.FormatUndefined},
	ARGB4444: {1, [4]int{16}, vk.FormatUndefined},
	ABGR4444: {1, [4]int{16}, vk.FormatUndefined},
	RGBA4444: {1, [4]int{16}, vk.R4G4B4A4Unorm},
	BGRA4444: {1, [4]int{16}, vk.B4G4R4A4Unorm},
	XRGB1555: {1, [4]int{16}, vk.FormatUndefined},
	XBGR1555: {1, [4]int{16}, vk.FormatUndefined},
	RGBX5551: {1, [4]int{16}, vk.FormatUndefined},
	BGRX5551: {1, [4]int{16}, vk.FormatUndefined},
	ARGB1555: {1, [4]int{16}, vk.A1R5G5B5Unorm},
	ABGR1555: {1, [4]int{16}, vk.FormatUndefined},
	RGBA5551: {1, [4]int{16}, vk.R5G5B5A1Unorm},
	BGRA5551: {1, [4]int{16}, vk.B5G5R5A1Unorm},
	RGB565:   {1, [4]int{16}, vk.R5G6B5Unorm},
	BGR565:   {1, [4]int{16}, vk.B5G6R5Unorm},
	RGB888:   {1, [4]int{24}, vk.B8G8R8Unorm},
	BGR888:   {1, [4]int{24}, vk.R8G8B8Unorm},
	XRGB8888: {1, [4]int{32}, vk.FormatUndefined},
	XBGR8888: {1, [4]int{32}, vk.FormatUndefined},
	RGBX8888: {1, [4]int{32}, vk.FormatUndefined},
	BGRX8888: {1, [4]int{32}, vk.FormatUndefined},
	ARGB8888: {1, [4]int{32}, vk.B8G8R8A8Unorm},
	ABGR8888: {1, [4]int{32}, vk.R8G8B8A8Unorm},
	RGBA8888: {1, [4]int{32}, vk.FormatUndefined},
	BGRA8888: {1, [4]int{32}, vk.FormatUndefined},
}

// The sRGB variants live in a separate table because a
// single fourcc code maps to two formats, one per transfer
// function, and callers want them distinguished.
var srgbFormats = map[FourCC]vk.Format{
	ARGB8888: vk.B8G8R8A8SRGB,
	ABGR8888: vk.R8G8B8A8SRGB,
}

// Lookup returns the spec of a known fourcc code.
func Lookup(c FourCC) (Spec, bool) {
	s, ok := specs[c]
	return s, ok
}

// Format returns the vk format that renders like c, or
// vk.FormatUndefined if c is unknown or unsupported.
func Format(c FourCC) vk.Format {
	return specs[c].Format
}

// SRGBFormat returns the sRGB vk format that renders like
// c, or vk.FormatUndefined if c has none.
func SRGBFormat(c FourCC) vk.Format {
	if f, ok := srgbFormats[c]; ok {
		return f
	}
	return vk.FormatUndefined
}
