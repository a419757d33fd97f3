// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"gviegas/present/driver"
	"gviegas/present/vk"
)

func newTestDevice(t *testing.T) *Device {
	d := newDevice()
	t.Cleanup(d.Close)
	return d
}

func TestFenceWait(t *testing.T) {
	d := newTestDevice(t)
	f, err := d.NewFence(false)
	if err != nil {
		t.Fatalf("NewFence:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(f, 0); !errors.Is(err, driver.ErrTimedOut) {
		t.Fatalf("WaitFence (poll, unsignaled):\nhave %v\nwant %v", err, driver.ErrTimedOut)
	}
	if err := d.WaitFence(f, uint64(10*time.Millisecond)); !errors.Is(err, driver.ErrTimedOut) {
		t.Fatalf("WaitFence (bounded, unsignaled):\nhave %v\nwant %v", err, driver.ErrTimedOut)
	}
	sf, err := d.NewFence(true)
	if err != nil {
		t.Fatalf("NewFence:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(sf, 0); err != nil {
		t.Fatalf("WaitFence (signaled):\nhave %v\nwant nil", err)
	}
	if err := d.ResetFence(sf); err != nil {
		t.Fatalf("ResetFence:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(sf, 0); !errors.Is(err, driver.ErrTimedOut) {
		t.Fatalf("WaitFence (after reset):\nhave %v\nwant %v", err, driver.ErrTimedOut)
	}
}

func TestSubmitSignalsFence(t *testing.T) {
	d := newTestDevice(t)
	f, _ := d.NewFence(false)
	if err := d.Submit(d.Queue(), driver.SubmitSemaphores{}, f, nil); err != nil {
		t.Fatalf("Submit:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(f, uint64(time.Second)); err != nil {
		t.Fatalf("WaitFence:\nhave %v\nwant nil", err)
	}
}

func TestSubmitWaits(t *testing.T) {
	d := newTestDevice(t)
	sem, _ := d.NewSemaphore()
	f, _ := d.NewFence(false)
	sems := driver.SubmitSemaphores{Wait: []vk.Semaphore{sem}}
	if err := d.Submit(d.Queue(), sems, f, nil); err != nil {
		t.Fatalf("Submit:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(f, uint64(20*time.Millisecond)); !errors.Is(err, driver.ErrTimedOut) {
		t.Fatalf("WaitFence (wait pending):\nhave %v\nwant %v", err, driver.ErrTimedOut)
	}
	sems = driver.SubmitSemaphores{Signal: []vk.Semaphore{sem}}
	if err := d.Submit(d.Queue(), sems, 0, nil); err != nil {
		t.Fatalf("Submit:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(f, vk.NoTimeout); err != nil {
		t.Fatalf("WaitFence (wait satisfied):\nhave %v\nwant nil", err)
	}
}

func TestSemaphoreHandoff(t *testing.T) {
	d := newTestDevice(t)
	sem, _ := d.NewSemaphore()
	// Pre-signal, then consume through a dependent submission.
	if err := d.Submit(d.Queue(), driver.SubmitSemaphores{Signal: []vk.Semaphore{sem}}, 0, nil); err != nil {
		t.Fatalf("Submit:\nhave %v\nwant nil", err)
	}
	f, _ := d.NewFence(false)
	if err := d.Submit(d.Queue(), driver.SubmitSemaphores{Wait: []vk.Semaphore{sem}}, f, nil); err != nil {
		t.Fatalf("Submit:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(f, vk.NoTimeout); err != nil {
		t.Fatalf("WaitFence:\nhave %v\nwant nil", err)
	}
	// The signal must have been consumed.
	f2, _ := d.NewFence(false)
	if err := d.Submit(d.Queue(), driver.SubmitSemaphores{Wait: []vk.Semaphore{sem}}, f2, nil); err != nil {
		t.Fatalf("Submit:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(f2, uint64(20*time.Millisecond)); !errors.Is(err, driver.ErrTimedOut) {
		t.Fatalf("WaitFence (signal consumed):\nhave %v\nwant %v", err, driver.ErrTimedOut)
	}
	d.Submit(d.Queue(), driver.SubmitSemaphores{Signal: []vk.Semaphore{sem}}, 0, nil)
	if err := d.WaitFence(f2, vk.NoTimeout); err != nil {
		t.Fatalf("WaitFence:\nhave %v\nwant nil", err)
	}
}

func TestExportImport(t *testing.T) {
	d := newTestDevice(t)
	if !d.SyncFdSupported() {
		t.Fatalf("SyncFdSupported:\nhave false\nwant true")
	}
	src, _ := d.NewFence(false)
	fd, err := d.ExportSyncFd(src)
	if err != nil {
		t.Fatalf("ExportSyncFd:\nhave %v\nwant nil", err)
	}
	dst, _ := d.NewFence(false)
	if err := d.ImportSyncFd(fd, dst); err != nil {
		t.Fatalf("ImportSyncFd:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(dst, 0); !errors.Is(err, driver.ErrTimedOut) {
		t.Fatalf("WaitFence (imported, unsignaled):\nhave %v\nwant %v", err, driver.ErrTimedOut)
	}
	if err := d.Submit(d.Queue(), driver.SubmitSemaphores{}, src, nil); err != nil {
		t.Fatalf("Submit:\nhave %v\nwant nil", err)
	}
	if err := d.WaitFence(dst, uint64(time.Second)); err != nil {
		t.Fatalf("WaitFence (imported, signaled through source):\nhave %v\nwant nil", err)
	}
}

func TestExportedFdPolls(t *testing.T) {
	d := newTestDevice(t)
	f, _ := d.NewFence(false)
	fd, err := d.ExportSyncFd(f)
	if err != nil {
		t.Fatalf("ExportSyncFd:\nhave %v\nwant nil", err)
	}
	defer unix.Close(fd)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n != 0 {
		t.Fatalf("Poll (unsignaled):\nhave %v, %v\nwant 0, nil", n, err)
	}
	d.Submit(d.Queue(), driver.SubmitSemaphores{}, f, nil)
	fds[0].Revents = 0
	n, err = unix.Poll(fds, 1000)
	if err != nil || n != 1 || fds[0].Revents&unix.POLLIN == 0 {
		t.Fatalf("Poll (signaled):\nhave %v, %v, %#x\nwant 1, nil, POLLIN", n, err, fds[0].Revents)
	}
}

func TestImageBacking(t *testing.T) {
	d := newTestDevice(t)
	info := vk.ImageCreateInfo{
		Format:      vk.B8G8R8A8Unorm,
		Extent:      vk.Extent2D{Width: 64, Height: 64},
		ArrayLayers: 1,
		Usage:       vk.UsageColorAttachment,
	}
	img, err := d.NewImage(&info)
	if err != nil {
		t.Fatalf("NewImage:\nhave %v\nwant nil", err)
	}
	if _, _, ok := d.Backing(img); ok {
		t.Fatalf("Backing (unbound):\nhave ok\nwant !ok")
	}
	reqs := d.ImageRequirements(img)
	if reqs.Size == 0 || reqs.Alignment == 0 {
		t.Fatalf("ImageRequirements:\nhave %v\nwant nonzero size and alignment", reqs)
	}
	mem, err := d.AllocateMemory(reqs.Size)
	if err != nil {
		t.Fatalf("AllocateMemory:\nhave %v\nwant nil", err)
	}
	if err := d.BindImageMemory(img, mem, 0); err != nil {
		t.Fatalf("BindImageMemory:\nhave %v\nwant nil", err)
	}
	m, off, ok := d.Backing(img)
	if !ok || m != mem || off != 0 {
		t.Fatalf("Backing:\nhave %v, %v, %v\nwant %v, 0, true", m, off, ok, mem)
	}
	if err := d.BindImageMemory(img, mem, 0); err == nil {
		t.Fatalf("BindImageMemory (rebind):\nhave nil\nwant error")
	}
	img2, _ := d.NewImage(&info)
	if err := d.BindImageMemory(img2, mem, reqs.Size); err == nil {
		t.Fatalf("BindImageMemory (out of range):\nhave nil\nwant error")
	}
	if err := d.BindImageMemory(vk.Image(0xbad), mem, 0); !errors.Is(err, driver.ErrBadHandle) {
		t.Fatalf("BindImageMemory (bad image):\nhave %v\nwant %v", err, driver.ErrBadHandle)
	}
}

func TestFrameBoundaries(t *testing.T) {
	d := newTestDevice(t)
	if n := len(d.FrameBoundaries()); n != 0 {
		t.Fatalf("FrameBoundaries:\nhave %d\nwant 0", n)
	}
	d.Submit(d.Queue(), driver.SubmitSemaphores{}, 0, nil)
	fb := vk.FrameBoundary{FrameID: 7}
	d.Submit(d.Queue(), driver.SubmitSemaphores{}, 0, &fb)
	fbs := d.FrameBoundaries()
	if len(fbs) != 1 || fbs[0].FrameID != 7 {
		t.Fatalf("FrameBoundaries:\nhave %v\nwant one entry with frame id 7", fbs)
	}
}

func TestSubmitBadQueue(t *testing.T) {
	d := newTestDevice(t)
	err := d.Submit(vk.Queue(0xbad), driver.SubmitSemaphores{}, 0, nil)
	if !errors.Is(err, driver.ErrBadHandle) {
		t.Fatalf("Submit (bad queue):\nhave %v\nwant %v", err, driver.ErrBadHandle)
	}
}
