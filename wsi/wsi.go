// Copyright 2025 Gustavo C. Viegas. All rights reserved.

// Package wsi implements the presentation engine behind
// swapchain operations: surfaces and their capability
// queries, the presentable image pool, the swapchain state
// machine and the synchronization that bridges driver
// semaphores/fences and native sync file descriptors.
// Because a system need not have a display stack attached,
// platform surfaces are fed their native data (DRM format
// lists, window geometry) at creation rather than queried
// live; the headless platform needs no such data at all.
package wsi

import (
	"errors"
	"sync"

	"gviegas/present/driver"
	"gviegas/present/internal/drm"
	"gviegas/present/vk"
)

// Platform identifies the display stack a surface
// presents to.
type Platform int

// Platforms.
const (
	// Headless surfaces present to no display; their
	// images retire as soon as the rendering that targets
	// them completes.
	Headless Platform = iota
	Wayland
	XCB
)

// The maximum number of surfaces that can exist at any
// given time.
const MaxSurfaces = 64

var errSurfaceLimit = errors.New("wsi: too many surfaces")

// Surface is a presentation target.
type Surface struct {
	plat  Platform
	props Properties

	// Platform data injected at creation.
	fourccs   []drm.FourCC
	trueColor bool

	mu     sync.Mutex
	extent vk.Extent2D
	scs    map[*Swapchain]struct{}
	cur    *Swapchain
	closed bool
}

// NewHeadless creates a surface that presents to no
// display. Its extent is the given size.
func NewHeadless(width, height uint32) (*Surface, error) {
	s := &Surface{
		plat:   Headless,
		extent: vk.Extent2D{Width: width, Height: height},
		scs:    make(map[*Swapchain]struct{}),
	}
	s.props = &headlessProps{surf: s}
	if err := addSurface(s); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWayland creates a surface backed by a Wayland
// compositor. fourccs is the DRM format list the compositor
// advertised for dma-buf buffers; formats the surface
// supports derive from it. An empty list means the
// compositor speaks no dma-buf protocol, which rules out
// presentation support.
func NewWayland(fourccs []drm.FourCC) (*Surface, error) {
	s := &Surface{
		plat:    Wayland,
		fourccs: fourccs,
		extent:  vk.Extent2D{Width: vk.ExtentUndefined, Height: vk.ExtentUndefined},
		scs:     make(map[*Swapchain]struct{}),
	}
	s.props = &waylandProps{surf: s}
	if err := addSurface(s); err != nil {
		return nil, err
	}
	return s, nil
}

// NewXCB creates a surface backed by an X11 window of the
// given size. trueColor records whether the window's visual
// is a true- or direct-color one; without it the window
// cannot be presented to.
func NewXCB(width, height uint32, trueColor bool) (*Surface, error) {
	s := &Surface{
		plat:      XCB,
		trueColor: trueColor,
		extent:    vk.Extent2D{Width: width, Height: height},
		scs:       make(map[*Swapchain]struct{}),
	}
	s.props = &xcbProps{surf: s}
	if err := addSurface(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Platform returns the platform the surface presents to.
func (s *Surface) Platform() Platform { return s.plat }

// Properties returns the surface's capability provider.
func (s *Surface) Properties() Properties { return s.props }

// Extent returns the surface's current extent.
// Surfaces whose size follows the swapchain report
// vk.ExtentUndefined for both dimensions.
func (s *Surface) Extent() vk.Extent2D {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extent
}

// SetExtent records a new surface size, as reported by the
// display stack on a configure/resize event.
func (s *Surface) SetExtent(width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extent = vk.Extent2D{Width: width, Height: height}
}

// PresentationSupported returns whether dev can present to
// the surface. Native sync file support is a prerequisite
// on every platform; platforms then add their own.
func (s *Surface) PresentationSupported(dev driver.Device) bool {
	if !dev.SyncFdSupported() {
		return false
	}
	switch s.plat {
	case Wayland:
		return len(s.fourccs) > 0
	case XCB:
		return s.trueColor
	}
	return true
}

// Close invalidates the surface.
// Swapchains still targeting it become lost; they remain
// valid objects and must still be destroyed by their owner.
func (s *Surface) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	scs := make([]*Swapchain, 0, len(s.scs))
	for sc := range s.scs {
		scs = append(scs, sc)
	}
	s.mu.Unlock()
	for _, sc := range scs {
		sc.markLost()
	}
	closeSurface(s)
}

// addSurface stores s in createdSurfaces.
func addSurface(s *Surface) error {
	surfMu.Lock()
	defer surfMu.Unlock()
	if surfaceCount >= MaxSurfaces {
		return errSurfaceLimit
	}
	for i := range createdSurfaces {
		if createdSurfaces[i] == nil {
			createdSurfaces[i] = s
			surfaceCount++
			break
		}
	}
	return nil
}

// closeSurface removes s from createdSurfaces and
// decrements surfaceCount.
func closeSurface(s *Surface) {
	surfMu.Lock()
	defer surfMu.Unlock()
	for i := range createdSurfaces {
		if createdSurfaces[i] == s {
			createdSurfaces[i] = nil
			surfaceCount--
			return
		}
	}
}

// Surfaces returns all created surfaces.
// The returned value becomes out of date after calls to
// the New* constructors and Surface.Close.
func Surfaces() []*Surface {
	surfMu.Lock()
	defer surfMu.Unlock()
	if surfaceCount == 0 {
		return nil
	}
	ss := make([]*Surface, 0, surfaceCount)
	for i := range createdSurfaces {
		if createdSurfaces[i] != nil {
			ss = append(ss, createdSurfaces[i])
		}
	}
	return ss
}

var (
	surfMu          sync.Mutex
	surfaceCount    int
	createdSurfaces [MaxSurfaces]*Surface
)

// Enumerate implements the two-call enumeration protocol
// shared by capability queries: when dst is nil, the number
// of available entries is stored in *count; otherwise up to
// *count entries are copied into dst, *count is updated to
// the number copied, and vk.Incomplete is returned if dst
// was too small for all of them.
func Enumerate[T any](src []T, count *uint32, dst []T) vk.Result {
	if dst == nil {
		*count = uint32(len(src))
		return vk.Success
	}
	res := vk.Success
	if uint32(len(src)) > *count {
		res = vk.Incomplete
	}
	*count = min(*count, uint32(len(src)))
	copy(dst, src[:*count])
	return res
}
