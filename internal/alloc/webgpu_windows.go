//go:build windows

package alloc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// gpuRegion is one device buffer plus the host copy handed out by Lock.
type gpuRegion struct {
	buffer *wgpu.Buffer
	size   uint64
	shadow []byte
	locks  int
	dirty  bool
}

// WebGPU keeps allocations in GPU storage buffers.
//
// Locking for read copies the buffer through a MapRead staging buffer into a
// host shadow. Locking for write hands out the shadow and uploads it when
// the last lock is released.
type WebGPU struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	mu      sync.Mutex
	regions map[Handle]*gpuRegion
	next    Handle
}

// NewWebGPU requests a GPU device.
// Returns an error if WebGPU is not available.
func NewWebGPU() (a *WebGPU, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			a = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", err)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &WebGPU{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    queue,
		regions:  make(map[Handle]*gpuRegion),
	}, nil
}

// alignedSize rounds n up to the 4-byte granularity of buffer copies.
func alignedSize(n int) uint64 {
	return (uint64(n) + 3) &^ 3 //nolint:gosec // G115: n validated non-negative
}

// Alloc creates a zeroed storage buffer of at least size bytes.
func (a *WebGPU) Alloc(size int) (Handle, error) {
	if size < 0 {
		return 0, fmt.Errorf("webgpu: %w: %d", ErrNegativeSize, size)
	}
	gpuSize := alignedSize(size)
	if gpuSize == 0 {
		gpuSize = 4
	}

	buffer := a.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  gpuSize,
	})
	if buffer == nil {
		return 0, fmt.Errorf("webgpu: failed to create %d byte buffer", gpuSize)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.next++
	a.regions[a.next] = &gpuRegion{
		buffer: buffer,
		size:   gpuSize,
		shadow: make([]byte, size, gpuSize),
	}
	return a.next, nil
}

// Lock returns the host shadow of h, refreshed from the device on the first lock.
func (a *WebGPU) Lock(h Handle, op LockOp) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.regions[h]
	if !ok {
		return nil, fmt.Errorf("webgpu: lock for %s: %w: %d", op, ErrInvalidHandle, h)
	}
	if r.locks == 0 {
		if err := a.download(r); err != nil {
			return nil, err
		}
	}
	r.locks++
	if op == LockForWrite {
		r.dirty = true
	}
	return r.shadow, nil
}

// Unlock uploads pending writes when the last lock on h is released.
func (a *WebGPU) Unlock(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.regions[h]
	if !ok || r.locks == 0 {
		return
	}
	r.locks--
	if r.locks == 0 && r.dirty {
		a.upload(r)
		r.dirty = false
	}
}

// Free releases the device buffer behind h.
func (a *WebGPU) Free(h Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.regions[h]
	if !ok {
		return false
	}
	r.buffer.Release()
	delete(a.regions, h)
	return true
}

// Release frees every outstanding buffer and the device.
func (a *WebGPU) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for h, r := range a.regions {
		r.buffer.Release()
		delete(a.regions, h)
	}
	if a.queue != nil {
		a.queue.Release()
		a.queue = nil
	}
	if a.device != nil {
		a.device.Release()
		a.device = nil
	}
	if a.adapter != nil {
		a.adapter.Release()
		a.adapter = nil
	}
	if a.instance != nil {
		a.instance.Release()
		a.instance = nil
	}
}

// download copies the device buffer into the shadow through a staging buffer.
func (a *WebGPU) download(r *gpuRegion) error {
	staging := a.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  r.size,
	})
	defer staging.Release()

	encoder := a.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(r.buffer, 0, staging, 0, r.size)
	a.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(a.device, wgpu.MapModeRead, 0, r.size); err != nil {
		return fmt.Errorf("webgpu: failed to map staging buffer: %w", err)
	}
	mapped := staging.GetMappedRange(0, r.size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(r.shadow, unsafe.Slice((*byte)(mapped), r.size))
	staging.Unmap()
	return nil
}

// upload copies the shadow into the device buffer.
func (a *WebGPU) upload(r *gpuRegion) {
	staging := a.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             r.size,
		MappedAtCreation: wgpu.True,
	})
	defer staging.Release()

	mapped := staging.GetMappedRange(0, r.size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mapped), r.size), r.shadow[:cap(r.shadow)])
	staging.Unmap()

	encoder := a.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, r.buffer, 0, r.size)
	a.queue.Submit(encoder.Finish(nil))
}
