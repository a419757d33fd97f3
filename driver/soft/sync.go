// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"encoding/binary"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"gviegas/present/driver"
	"gviegas/present/vk"
)

// semaphore is a binary semaphore.
// Waiting consumes the signal; signaling with waiters
// queued hands the signal to the oldest waiter.
type semaphore struct {
	mu       sync.Mutex
	signaled bool
	waiters  []chan struct{}
}

func (s *semaphore) signal() {
	s.mu.Lock()
	if len(s.waiters) > 0 {
		ch := s.waiters[0]
		s.waiters = s.waiters[1:]
		s.mu.Unlock()
		close(ch)
		return
	}
	s.signaled = true
	s.mu.Unlock()
}

func (s *semaphore) wait() {
	s.mu.Lock()
	if s.signaled {
		s.signaled = false
		s.mu.Unlock()
		return
	}
	ch := make(chan struct{})
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()
	<-ch
}

// fence owns an event file descriptor.
// The descriptor's counter is the fence payload: nonzero
// means signaled. Exports dup the descriptor, so exported
// files observe signals on the original and vice versa.
type fence struct {
	mu  sync.Mutex
	efd int
}

func newFence(signaled bool) (*fence, error) {
	efd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, vk.ErrNoHostMemory
	}
	f := &fence{efd: efd}
	if signaled {
		f.signal()
	}
	return f, nil
}

func (f *fence) signal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.efd < 0 {
		return
	}
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], 1)
	unix.Write(f.efd, b[:])
}

func (f *fence) reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.efd < 0 {
		return driver.ErrBadHandle
	}
	var b [8]byte
	for {
		_, err := unix.Read(f.efd, b[:])
		switch err {
		case nil, unix.EAGAIN:
			return nil
		case unix.EINTR:
			continue
		default:
			return err
		}
	}
}

func (f *fence) wait(timeout uint64) error {
	f.mu.Lock()
	efd := f.efd
	f.mu.Unlock()
	if efd < 0 {
		return driver.ErrBadHandle
	}
	var deadline time.Time
	if timeout != vk.NoTimeout {
		deadline = time.Now().Add(time.Duration(timeout))
	}
	for {
		ms := -1
		if timeout != vk.NoTimeout {
			d := time.Until(deadline)
			if d < 0 {
				d = 0
			}
			ms = int((d + time.Millisecond - 1) / time.Millisecond)
		}
		fds := []unix.PollFd{{Fd: int32(efd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, ms)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return err
		case n == 0:
			return driver.ErrTimedOut
		case fds[0].Revents&unix.POLLIN == 0:
			return driver.ErrBadHandle
		}
		return nil
	}
}

func (f *fence) export() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.efd < 0 {
		return -1, driver.ErrBadHandle
	}
	return unix.FcntlInt(uintptr(f.efd), unix.F_DUPFD_CLOEXEC, 0)
}

func (f *fence) adopt(fd int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	unix.SetNonblock(fd, true)
	if f.efd >= 0 {
		unix.Close(f.efd)
	}
	f.efd = fd
}

func (f *fence) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.efd >= 0 {
		unix.Close(f.efd)
		f.efd = -1
	}
}

// NewSemaphore creates a new binary semaphore in the
// unsignaled state.
func (d *Device) NewSemaphore() (vk.Semaphore, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sem := vk.Semaphore(d.newHandle())
	d.sems[sem] = &semaphore{}
	return sem, nil
}

// DestroySemaphore destroys a semaphore.
func (d *Device) DestroySemaphore(sem vk.Semaphore) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sems, sem)
}

// NewFence creates a new fence.
func (d *Device) NewFence(signaled bool) (vk.Fence, error) {
	f, err := newFence(signaled)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fen := vk.Fence(d.newHandle())
	d.fens[fen] = f
	return fen, nil
}

// DestroyFence destroys a fence.
func (d *Device) DestroyFence(fen vk.Fence) {
	d.mu.Lock()
	f := d.fens[fen]
	delete(d.fens, fen)
	d.mu.Unlock()
	if f != nil {
		f.close()
	}
}

// ResetFence returns a fence to the unsignaled state.
func (d *Device) ResetFence(fen vk.Fence) error {
	d.mu.Lock()
	f, ok := d.fens[fen]
	d.mu.Unlock()
	if !ok {
		return driver.ErrBadHandle
	}
	return f.reset()
}

// WaitFence blocks until fen is signaled or timeout
// nanoseconds elapse.
func (d *Device) WaitFence(fen vk.Fence, timeout uint64) error {
	d.mu.Lock()
	f, ok := d.fens[fen]
	d.mu.Unlock()
	if !ok {
		return driver.ErrBadHandle
	}
	return f.wait(timeout)
}

// SyncFdSupported returns whether fences can cross the
// native boundary as file descriptors.
func (d *Device) SyncFdSupported() bool { return true }

// ExportSyncFd exports the payload of fen as a native sync
// file descriptor.
func (d *Device) ExportSyncFd(fen vk.Fence) (int, error) {
	d.mu.Lock()
	f, ok := d.fens[fen]
	d.mu.Unlock()
	if !ok {
		return -1, driver.ErrBadHandle
	}
	return f.export()
}

// ImportSyncFd replaces the payload of fen with the state
// of a native sync file descriptor.
func (d *Device) ImportSyncFd(fd int, fen vk.Fence) error {
	d.mu.Lock()
	f, ok := d.fens[fen]
	d.mu.Unlock()
	if !ok {
		unix.Close(fd)
		return driver.ErrBadHandle
	}
	f.adopt(fd)
	return nil
}

// Submit issues a sync-only submission.
// Submissions with no waits complete before Submit
// returns; the rest complete asynchronously.
func (d *Device) Submit(que vk.Queue, sems driver.SubmitSemaphores, fen vk.Fence, fb *vk.FrameBoundary) error {
	if que != d.que {
		return driver.ErrBadHandle
	}
	d.mu.Lock()
	waits := make([]*semaphore, len(sems.Wait))
	for i, h := range sems.Wait {
		s, ok := d.sems[h]
		if !ok {
			d.mu.Unlock()
			return driver.ErrBadHandle
		}
		waits[i] = s
	}
	signals := make([]*semaphore, len(sems.Signal))
	for i, h := range sems.Signal {
		s, ok := d.sems[h]
		if !ok {
			d.mu.Unlock()
			return driver.ErrBadHandle
		}
		signals[i] = s
	}
	var f *fence
	if fen != 0 {
		var ok bool
		if f, ok = d.fens[fen]; !ok {
			d.mu.Unlock()
			return driver.ErrBadHandle
		}
	}
	if fb != nil {
		d.fbs = append(d.fbs, *fb)
	}
	d.mu.Unlock()

	done := func() {
		for _, s := range signals {
			s.signal()
		}
		if f != nil {
			f.signal()
		}
	}
	if len(waits) == 0 {
		done()
		return nil
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for _, s := range waits {
			s.wait()
		}
		done()
	}()
	return nil
}
