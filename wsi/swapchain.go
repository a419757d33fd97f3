// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"gviegas/present/driver"
	"gviegas/present/vk"
)

// Swapchain presents a pool of images to a surface.
// Presentation is first-in, first-out for every supported
// mode; modes differ only in what capability queries
// report, so switching modes never reorders requests.
type Swapchain struct {
	dev  driver.Device
	surf *Surface
	pool *pool

	format     vk.Format
	colorSpace vk.ColorSpace
	extent     vk.Extent2D
	layers     uint32
	usage      vk.ImageUsage
	sharing    vk.SharingMode
	families   []uint32

	ops  chan presentOp
	done chan struct{}

	mu          sync.Mutex
	mode        vk.PresentMode
	switchModes []vk.PresentMode
	status      vk.Result
	retired     bool
	destroyed   bool
	timings     []PresentTiming
}

// presentOp is one presentation in flight, owned by the
// retirement worker. fd is the sync file of the present
// submission; the image retires when it signals.
type presentOp struct {
	idx    uint32
	fd     int
	fence  vk.Fence
	id     uint64
	timing *vk.PresentTimingInfo
}

// maxTimings bounds the recorded timings kept between
// calls to Timings. Older records are dropped first.
const maxTimings = 16

// PresentTiming is one recorded presentation timing.
type PresentTiming struct {
	PresentID  uint64
	TargetTime uint64
	ActualTime uint64
	Stage      vk.PresentStage
}

// NewSwapchain creates a swapchain that presents to surf.
// info's Surface and OldSwapchain handle fields carry no
// meaning here; surf and old are those objects, already
// resolved. A non-nil old must target surf and is retired
// when creation succeeds. Creation fails with
// vk.ErrWindowInUse if another live swapchain targets surf.
func NewSwapchain(dev driver.Device, surf *Surface, old *Swapchain, info *vk.SwapchainCreateInfo) (*Swapchain, error) {
	if old != nil && old.surf != surf {
		return nil, vk.ErrInitFailed
	}
	props := surf.Properties()
	caps := props.Capabilities(dev)

	if !modeSupported(info.PresentMode) {
		return nil, vk.ErrInitFailed
	}
	switchModes := []vk.PresentMode{info.PresentMode}
	if info.PresentModes != nil {
		ms := info.PresentModes.PresentModes
		hasOwn := false
		for _, m := range ms {
			if !props.Compatible(info.PresentMode, m) {
				return nil, vk.ErrInitFailed
			}
			hasOwn = hasOwn || m == info.PresentMode
		}
		if !hasOwn {
			return nil, vk.ErrInitFailed
		}
		switchModes = make([]vk.PresentMode, len(ms))
		copy(switchModes, ms)
	}

	ext := info.Extent
	if ext.Width < caps.MinImageExtent.Width || ext.Height < caps.MinImageExtent.Height ||
		ext.Width > caps.MaxImageExtent.Width || ext.Height > caps.MaxImageExtent.Height {
		return nil, vk.ErrInitFailed
	}
	if info.Usage == 0 || info.Usage&^caps.Usage != 0 {
		return nil, vk.ErrInitFailed
	}
	layers := info.ArrayLayers
	if layers == 0 {
		layers = 1
	}
	if layers > caps.MaxImageLayers {
		return nil, vk.ErrInitFailed
	}
	formatOk := false
	for _, f := range props.Formats(dev) {
		if f.Format == info.Format && f.ColorSpace == info.ColorSpace {
			formatOk = true
			break
		}
	}
	if !formatOk {
		return nil, vk.ErrInitFailed
	}

	count := max(info.MinImageCount, caps.MinImageCount)
	count = min(count, caps.MaxImageCount)

	s := &Swapchain{
		dev:         dev,
		surf:        surf,
		format:      info.Format,
		colorSpace:  info.ColorSpace,
		extent:      ext,
		layers:      layers,
		usage:       info.Usage,
		sharing:     info.SharingMode,
		families:    info.QueueFamilies,
		mode:        info.PresentMode,
		switchModes: switchModes,
		status:      vk.Success,
	}
	imgInfo := s.imageInfo()
	deferBind := info.Flags&vk.SwapchainDeferredAlloc != 0
	pool, err := newPool(dev, &imgInfo, int(count), deferBind)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	surf.mu.Lock()
	switch {
	case surf.closed:
		surf.mu.Unlock()
		pool.destroy()
		return nil, vk.ErrSurface
	case surf.cur != nil && surf.cur != old:
		surf.mu.Unlock()
		pool.destroy()
		return nil, vk.ErrWindowInUse
	}
	surf.scs[s] = struct{}{}
	surf.cur = s
	surf.mu.Unlock()
	if old != nil {
		old.markRetired()
	}

	s.ops = make(chan presentOp, pool.count())
	s.done = make(chan struct{})
	go s.serve()
	return s, nil
}

func (s *Swapchain) imageInfo() vk.ImageCreateInfo {
	return vk.ImageCreateInfo{
		Format:        s.format,
		Extent:        s.extent,
		ArrayLayers:   s.layers,
		Usage:         s.usage,
		SharingMode:   s.sharing,
		QueueFamilies: s.families,
	}
}

// Surface returns the surface the swapchain presents to.
func (s *Swapchain) Surface() *Surface { return s.surf }

// Format returns the format of the swapchain's images.
func (s *Swapchain) Format() vk.Format { return s.format }

// ColorSpace returns the color space of the swapchain's
// images.
func (s *Swapchain) ColorSpace() vk.ColorSpace { return s.colorSpace }

// Extent returns the extent of the swapchain's images.
func (s *Swapchain) Extent() vk.Extent2D { return s.extent }

// ImageCount returns the number of presentable images.
func (s *Swapchain) ImageCount() int { return s.pool.count() }

// Mode returns the swapchain's current present mode.
func (s *Swapchain) Mode() vk.PresentMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SwitchModes returns the present modes the swapchain may
// switch to, as declared at creation.
func (s *Swapchain) SwitchModes() []vk.PresentMode {
	ms := make([]vk.PresentMode, len(s.switchModes))
	copy(ms, s.switchModes)
	return ms
}

// Images returns the swapchain's presentable images using
// the two-call protocol: with a nil imgs, the image count
// is stored in *count; otherwise up to *count images are
// copied into imgs.
func (s *Swapchain) Images(count *uint32, imgs []vk.Image) vk.Result {
	return Enumerate(s.pool.images(), count, imgs)
}

// PresentSemaphore returns the semaphore that orders
// coordinated presents of a given image: a coordinator's
// submission signals it and the image's present waits on
// it through PresentParams.Waits.
func (s *Swapchain) PresentSemaphore(idx uint32) vk.Semaphore {
	return s.pool.presentSemaphore(idx)
}

// AliasImage creates an image suitable for binding to one
// of the swapchain's image slots. It matches the
// swapchain's own images and is created unbound.
func (s *Swapchain) AliasImage() (vk.Image, error) {
	info := s.imageInfo()
	return s.dev.NewImage(&info)
}

// BindImage binds img to the backing memory of a given
// slot: either one of the swapchain's own images, whose
// binding was deferred at creation, or an image created
// with AliasImage. The slot must have been acquired at
// least once.
func (s *Swapchain) BindImage(img vk.Image, idx uint32) error {
	err := s.pool.bind(img, idx)
	if errors.Is(err, vk.ErrValidation) {
		log.Printf("[!] wsi: bind to an image that was not acquired first")
	}
	return err
}

// Acquire hands out a presentable image, identified by its
// index. sem and fen, of which at least one must not be
// null, are signaled when the image is ready to be
// rendered to. timeout is in nanoseconds; zero polls,
// returning vk.NotReady when no image is free, and
// vk.NoTimeout waits indefinitely.
func (s *Swapchain) Acquire(timeout uint64, sem vk.Semaphore, fen vk.Fence) (uint32, vk.Result) {
	if sem == 0 && fen == 0 {
		panic("wsi: acquire with no sync objects")
	}
	s.mu.Lock()
	switch {
	case s.destroyed:
		panic("wsi: acquire on destroyed swapchain")
	case s.status.IsError():
		res := s.status
		s.mu.Unlock()
		return 0, res
	case s.retired:
		s.mu.Unlock()
		return 0, vk.ErrorOutOfDate
	}
	s.mu.Unlock()

	idx, res := s.pool.acquire(timeout)
	if res != vk.Success {
		return 0, res
	}
	// Nothing outstanding targets a free image, so the
	// client's sync objects can be signaled right away.
	var sems driver.SubmitSemaphores
	if sem != 0 {
		sems.Signal = []vk.Semaphore{sem}
	}
	if err := s.dev.Submit(s.dev.Queue(), sems, fen, nil); err != nil {
		s.pool.unacquire(idx)
		return 0, vk.AsResult(err)
	}
	if s.suboptimal() {
		return idx, vk.Suboptimal
	}
	return idx, vk.Success
}

// PresentParams describes one image presentation.
type PresentParams struct {
	// ImageIndex identifies the image being presented.
	// It must be in the acquired state and bound.
	ImageIndex uint32

	// Waits are semaphores that must signal before the
	// presentation takes place.
	Waits []vk.Semaphore

	// PresentID tags the request. Zero means untagged.
	PresentID uint64

	// Fence, when not null, is signaled once the image
	// retires.
	Fence vk.Fence

	// SwitchTo, when non-nil, switches the swapchain to
	// the given present mode. The mode must be among those
	// declared at creation; otherwise the presentation is
	// rejected without presenting or changing any state.
	SwitchTo *vk.PresentMode

	// FrameBoundary, when non-nil, annotates the
	// presentation submission.
	FrameBoundary *vk.FrameBoundary

	// Timing, when non-nil, asks that the presentation
	// record its timing, retrievable through Timings.
	Timing *vk.PresentTimingInfo
}

// Present submits an acquired image for presentation on
// que. The image moves to the pending state and retires,
// in submission order, once the presentation completes.
func (s *Swapchain) Present(que vk.Queue, params *PresentParams) vk.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.destroyed:
		panic("wsi: present on destroyed swapchain")
	case s.status.IsError():
		return s.status
	case s.retired:
		return vk.ErrorOutOfDate
	}
	if params.SwitchTo != nil {
		ok := false
		for _, m := range s.switchModes {
			if m == *params.SwitchTo {
				ok = true
				break
			}
		}
		if !ok {
			log.Printf("[!] wsi: switch to present mode %v not declared at creation", *params.SwitchTo)
			return vk.ErrorValidationFailed
		}
	}
	if res := s.pool.markPending(params.ImageIndex, params.PresentID); res != vk.Success {
		return res
	}
	fen := s.pool.retireFence(params.ImageIndex)
	if err := s.dev.Submit(que, driver.SubmitSemaphores{Wait: params.Waits}, fen, params.FrameBoundary); err != nil {
		s.pool.rollbackPending(params.ImageIndex)
		return vk.AsResult(err)
	}
	fd, err := s.dev.ExportSyncFd(fen)
	if err != nil {
		// The submission will still signal the fence;
		// settle it before giving the image back.
		s.dev.WaitFence(fen, vk.NoTimeout)
		s.dev.ResetFence(fen)
		s.pool.rollbackPending(params.ImageIndex)
		return vk.AsResult(err)
	}
	if params.SwitchTo != nil {
		s.mode = *params.SwitchTo
	}
	s.ops <- presentOp{
		idx:    params.ImageIndex,
		fd:     fd,
		fence:  params.Fence,
		id:     params.PresentID,
		timing: params.Timing,
	}
	if s.suboptimal() {
		return vk.Suboptimal
	}
	return vk.Success
}

// Status returns the swapchain's current status without
// any other effect.
func (s *Swapchain) Status() vk.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.status.IsError():
		return s.status
	case s.retired:
		return vk.ErrorOutOfDate
	case s.suboptimal():
		return vk.Suboptimal
	}
	return vk.Success
}

// Timings returns the presentation timings recorded so far
// and clears them. Only presents that carry a timing
// request record one, at retirement.
func (s *Swapchain) Timings() []PresentTiming {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.timings
	s.timings = nil
	return ts
}

// suboptimal reports whether the surface's extent drifted
// from the swapchain's since creation. Surfaces that take
// their size from the swapchain never drift.
func (s *Swapchain) suboptimal() bool {
	ext := s.surf.Extent()
	if ext.Width == vk.ExtentUndefined && ext.Height == vk.ExtentUndefined {
		return false
	}
	return ext != s.extent
}

// markRetired puts the swapchain in the retired state.
// A retired swapchain cannot acquire nor present; images
// already pending still retire normally.
func (s *Swapchain) markRetired() {
	s.mu.Lock()
	s.retired = true
	s.mu.Unlock()
}

// markLost latches the surface-lost status.
func (s *Swapchain) markLost() {
	s.mu.Lock()
	if !s.status.IsError() {
		s.status = vk.ErrorSurfaceLost
	}
	s.mu.Unlock()
}

// serve retires presented images in submission order.
// It runs on its own goroutine until Destroy.
func (s *Swapchain) serve() {
	defer close(s.done)
	for op := range s.ops {
		// The display path owns the sync file; the image
		// is done presenting when it signals.
		waitSyncFile(op.fd)
		unix.Close(op.fd)
		if err := s.dev.ResetFence(s.pool.retireFence(op.idx)); err != nil {
			log.Printf("[!] wsi: retirement fence reset failed: %v", err)
		}
		if op.timing != nil {
			s.recordTiming(op)
		}
		if op.fence != 0 {
			if err := s.dev.Submit(s.dev.Queue(), driver.SubmitSemaphores{}, op.fence, nil); err != nil {
				log.Printf("[!] wsi: present fence signaling failed: %v", err)
			}
		}
		s.pool.release(op.idx)
	}
}

func (s *Swapchain) recordTiming(op presentOp) {
	t := PresentTiming{
		PresentID:  op.id,
		TargetTime: op.timing.TargetPresentTime,
		ActualTime: uint64(time.Now().UnixNano()),
		Stage:      vk.StageQueueOperationsEnd,
	}
	s.mu.Lock()
	if len(s.timings) >= maxTimings {
		s.timings = s.timings[1:]
	}
	s.timings = append(s.timings, t)
	s.mu.Unlock()
}

// waitSyncFile blocks until a sync file signals.
func waitSyncFile(fd int) {
	for {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(fds, -1); err == unix.EINTR {
			continue
		}
		return
	}
}

// Destroy drains outstanding presentations and frees every
// resource the swapchain owns. The swapchain must not be
// used afterwards.
func (s *Swapchain) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	s.mu.Unlock()

	s.surf.mu.Lock()
	delete(s.surf.scs, s)
	if s.surf.cur == s {
		s.surf.cur = nil
	}
	s.surf.mu.Unlock()

	close(s.ops)
	<-s.done
	s.pool.destroy()
}
