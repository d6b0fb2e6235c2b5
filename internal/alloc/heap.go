package alloc

import (
	"fmt"
	"math"
	"sync"
	"unsafe"
)

// alignment is the byte alignment of every heap region.
const alignment = 64

// heapRegion is one live heap allocation.
type heapRegion struct {
	data  []byte
	locks int
}

// Heap allocates regions on the Go heap.
// Regions are 64-byte aligned so any element type can be reinterpreted over them.
// Heap is safe for concurrent use.
type Heap struct {
	mu      sync.Mutex
	regions map[Handle]*heapRegion
	next    Handle
	bytes   int
}

// HeapStats is a snapshot of heap allocator usage.
type HeapStats struct {
	LiveHandles int
	LiveBytes   int
	OpenLocks   int
}

var (
	defaultHeap     *Heap
	defaultHeapOnce sync.Once
)

// Default returns the process-wide heap allocator used by blobs created
// without an explicit allocator.
func Default() *Heap {
	defaultHeapOnce.Do(func() {
		defaultHeap = NewHeap()
	})
	return defaultHeap
}

// NewHeap creates an empty heap allocator.
func NewHeap() *Heap {
	return &Heap{
		regions: make(map[Handle]*heapRegion),
	}
}

// Alloc reserves size zeroed bytes.
func (a *Heap) Alloc(size int) (Handle, error) {
	if size < 0 {
		return 0, fmt.Errorf("heap: %w: %d", ErrNegativeSize, size)
	}
	if size > math.MaxInt-alignment {
		return 0, fmt.Errorf("heap: %w: %d bytes", ErrTooLarge, size)
	}
	buf, err := makeRegion(size + alignment)
	if err != nil {
		return 0, err
	}
	//nolint:gosec // G103: address is only used to compute the alignment shift
	addr := uintptr(unsafe.Pointer(&buf[0]))
	shift := int((alignment - addr%alignment) % alignment)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.next++
	h := a.next
	a.regions[h] = &heapRegion{data: buf[shift : shift+size : shift+size]}
	a.bytes += size
	return h, nil
}

// makeRegion allocates n bytes, turning the runtime's length panic into an error.
func makeRegion(n int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("heap: %w: %d bytes: %v", ErrTooLarge, n, r)
		}
	}()
	return make([]byte, n), nil
}

// Lock returns the region behind h. The heap does not distinguish readers
// from writers; it only counts outstanding locks.
func (a *Heap) Lock(h Handle, op LockOp) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.regions[h]
	if !ok {
		return nil, fmt.Errorf("heap: lock for %s: %w: %d", op, ErrInvalidHandle, h)
	}
	r.locks++
	return r.data, nil
}

// Unlock releases one lock taken on h.
func (a *Heap) Unlock(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r, ok := a.regions[h]; ok && r.locks > 0 {
		r.locks--
	}
}

// Free drops the region behind h. It returns false for unknown handles.
func (a *Heap) Free(h Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.regions[h]
	if !ok {
		return false
	}
	a.bytes -= len(r.data)
	delete(a.regions, h)
	return true
}

// Stats returns current usage.
func (a *Heap) Stats() HeapStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := HeapStats{
		LiveHandles: len(a.regions),
		LiveBytes:   a.bytes,
	}
	for _, r := range a.regions {
		stats.OpenLocks += r.locks
	}
	return stats
}
