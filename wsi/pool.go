// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"math"
	"sync"
	"time"

	"gviegas/present/driver"
	"gviegas/present/internal/bitvec"
	"gviegas/present/vk"
)

// imageState tracks a pool slot through its lifecycle.
type imageState int

const (
	// imgFree slots are available to acquire.
	imgFree imageState = iota
	// imgAcquired slots are owned by the client.
	imgAcquired
	// imgPending slots were submitted for presentation
	// and have not retired yet.
	imgPending
)

// imageRec is one presentable image slot.
type imageRec struct {
	img vk.Image
	mem vk.DeviceMemory

	state imageState

	// bound is unset while binding is deferred; the slot
	// cannot be presented until the client binds it.
	bound bool

	// acquiredOnce records that the slot was acquired at
	// least once; binds may target only such slots.
	acquiredOnce bool

	// presentSem orders coordinated presents: the batch
	// submission signals it and the present submission
	// waits on it.
	presentSem vk.Semaphore

	// retireFence signals when the present submission
	// completes; its payload crosses to the display path
	// as a sync file.
	retireFence vk.Fence

	presentID uint64
}

// pool holds the presentable images of one swapchain.
type pool struct {
	dev driver.Device

	mu      sync.Mutex
	recs    []imageRec
	used    bitvec.V[uint]
	waiters []chan uint32
}

// newPool creates count image slots described by info.
// Every slot gets its own memory allocation; the image is
// bound to it right away unless deferBind is set, in which
// case binding is left to the client.
func newPool(dev driver.Device, info *vk.ImageCreateInfo, count int, deferBind bool) (*pool, error) {
	p := &pool{
		dev:  dev,
		recs: make([]imageRec, 0, count),
		used: bitvec.New[uint](count),
	}
	for i := 0; i < count; i++ {
		var rec imageRec
		img, err := dev.NewImage(info)
		if err != nil {
			p.destroy()
			return nil, err
		}
		rec.img = img
		reqs := dev.ImageRequirements(img)
		mem, err := dev.AllocateMemory(reqs.Size)
		if err != nil {
			dev.DestroyImage(img)
			p.destroy()
			return nil, err
		}
		rec.mem = mem
		if !deferBind {
			if err := dev.BindImageMemory(img, mem, 0); err != nil {
				dev.DestroyImage(img)
				dev.FreeMemory(mem)
				p.destroy()
				return nil, err
			}
			rec.bound = true
		}
		sem, err := dev.NewSemaphore()
		if err != nil {
			dev.DestroyImage(img)
			dev.FreeMemory(mem)
			p.destroy()
			return nil, err
		}
		rec.presentSem = sem
		fen, err := dev.NewFence(false)
		if err != nil {
			dev.DestroySemaphore(sem)
			dev.DestroyImage(img)
			dev.FreeMemory(mem)
			p.destroy()
			return nil, err
		}
		rec.retireFence = fen
		p.recs = append(p.recs, rec)
	}
	return p, nil
}

// count returns the number of slots in the pool.
func (p *pool) count() int { return len(p.recs) }

// images returns the pool's images in slot order.
func (p *pool) images() []vk.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	imgs := make([]vk.Image, len(p.recs))
	for i := range p.recs {
		imgs[i] = p.recs[i].img
	}
	return imgs
}

// image returns the image of a given slot.
func (p *pool) image(idx uint32) vk.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recs[idx].img
}

// presentSemaphore returns the present ordering semaphore
// of a given slot.
func (p *pool) presentSemaphore(idx uint32) vk.Semaphore {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recs[idx].presentSem
}

// retireFence returns the retirement fence of a given
// slot.
func (p *pool) retireFence(idx uint32) vk.Fence {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recs[idx].retireFence
}

// acquire hands out a free slot, marking it acquired.
// timeout is in nanoseconds; zero polls and vk.NoTimeout
// waits indefinitely. It returns vk.NotReady or vk.Timeout
// respectively when no slot frees up in time.
func (p *pool) acquire(timeout uint64) (uint32, vk.Result) {
	p.mu.Lock()
	if i, ok := p.used.Search(); ok {
		p.used.Set(i)
		rec := &p.recs[i]
		rec.state = imgAcquired
		rec.acquiredOnce = true
		p.mu.Unlock()
		return uint32(i), vk.Success
	}
	if timeout == 0 {
		p.mu.Unlock()
		return 0, vk.NotReady
	}
	ch := make(chan uint32, 1)
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()

	if timeout >= math.MaxInt64 {
		idx, ok := <-ch
		if !ok {
			return 0, vk.ErrorOutOfDate
		}
		return idx, vk.Success
	}
	tm := time.NewTimer(time.Duration(timeout))
	defer tm.Stop()
	select {
	case idx, ok := <-ch:
		if !ok {
			return 0, vk.ErrorOutOfDate
		}
		return idx, vk.Success
	case <-tm.C:
		p.mu.Lock()
		select {
		case idx, ok := <-ch:
			p.mu.Unlock()
			if !ok {
				return 0, vk.ErrorOutOfDate
			}
			return idx, vk.Success
		default:
		}
		for i := range p.waiters {
			if p.waiters[i] == ch {
				p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
				break
			}
		}
		p.mu.Unlock()
		return 0, vk.Timeout
	}
}

// markPending moves an acquired slot to the pending state,
// recording the present id the client associated with it.
// It fails without changing any state if the slot is not
// currently acquired or was never bound.
func (p *pool) markPending(idx uint32, id uint64) vk.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx >= uint32(len(p.recs)) {
		return vk.ErrorValidationFailed
	}
	rec := &p.recs[idx]
	if rec.state != imgAcquired || !rec.bound {
		return vk.ErrorValidationFailed
	}
	rec.state = imgPending
	rec.presentID = id
	return vk.Success
}

// rollbackPending returns a pending slot to the acquired
// state. It undoes markPending when the presentation
// submission could not be issued.
func (p *pool) rollbackPending(idx uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec := &p.recs[idx]
	if rec.state != imgPending {
		panic("wsi: rollback of slot not pending")
	}
	rec.state = imgAcquired
}

// freeSlot makes a slot available again. If an acquire is
// waiting, ownership moves to it directly; otherwise the
// slot becomes free. Callers must hold p.mu.
func (p *pool) freeSlot(idx uint32) {
	rec := &p.recs[idx]
	if len(p.waiters) > 0 {
		ch := p.waiters[0]
		p.waiters = p.waiters[1:]
		rec.state = imgAcquired
		ch <- idx
		return
	}
	rec.state = imgFree
	p.used.Unset(int(idx))
}

// release retires a pending slot.
func (p *pool) release(idx uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.recs[idx].state != imgPending {
		panic("wsi: release of slot not pending")
	}
	p.freeSlot(idx)
}

// unacquire returns an acquired slot to the free state.
// It undoes acquire when arming the client's sync objects
// fails.
func (p *pool) unacquire(idx uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.recs[idx].state != imgAcquired {
		panic("wsi: unacquire of slot not acquired")
	}
	p.freeSlot(idx)
}

// bindAllowed reports whether a slot may accept a binding.
// Slots accept bindings only after their first acquire.
// Callers must hold p.mu.
func (p *pool) bindAllowed(idx uint32) bool {
	return idx < uint32(len(p.recs)) && p.recs[idx].acquiredOnce
}

// bind binds img to the backing memory of a given slot, at
// offset zero. img is either the slot's own image, whose
// binding was deferred at creation, or an image created
// against the swapchain to alias the slot.
func (p *pool) bind(img vk.Image, idx uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.bindAllowed(idx) {
		return vk.ErrValidation
	}
	rec := &p.recs[idx]
	if err := p.dev.BindImageMemory(img, rec.mem, 0); err != nil {
		return err
	}
	if img == rec.img {
		rec.bound = true
	}
	return nil
}

// destroy frees every driver object the pool created and
// fails any acquire still waiting.
func (p *pool) destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.waiters {
		close(ch)
	}
	p.waiters = nil
	for i := range p.recs {
		rec := &p.recs[i]
		if rec.retireFence != 0 {
			p.dev.DestroyFence(rec.retireFence)
		}
		if rec.presentSem != 0 {
			p.dev.DestroySemaphore(rec.presentSem)
		}
		if rec.img != 0 {
			p.dev.DestroyImage(rec.img)
		}
		if rec.mem != 0 {
			p.dev.FreeMemory(rec.mem)
		}
	}
	p.recs = nil
}
