//go:build unix

package alloc

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Mmap allocates anonymous private memory mappings outside the Go heap.
// Zero-byte requests are served without a mapping.
type Mmap struct {
	mu      sync.Mutex
	regions map[Handle][]byte
	next    Handle
}

// NewMmap creates an mmap-backed allocator.
func NewMmap() (*Mmap, error) {
	return &Mmap{regions: make(map[Handle][]byte)}, nil
}

// Alloc maps size bytes of zeroed memory.
func (a *Mmap) Alloc(size int) (Handle, error) {
	if size < 0 {
		return 0, fmt.Errorf("mmap: %w: %d", ErrNegativeSize, size)
	}

	var data []byte
	if size > 0 {
		var err error
		data, err = unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			return 0, fmt.Errorf("mmap: map %d bytes: %w", size, err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.next++
	a.regions[a.next] = data
	return a.next, nil
}

// Lock returns the mapping behind h.
func (a *Mmap) Lock(h Handle, op LockOp) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, ok := a.regions[h]
	if !ok {
		return nil, fmt.Errorf("mmap: lock for %s: %w: %d", op, ErrInvalidHandle, h)
	}
	return data, nil
}

// Unlock is a no-op: mappings stay resident until freed.
func (a *Mmap) Unlock(Handle) {}

// Free unmaps the region behind h.
func (a *Mmap) Free(h Handle) bool {
	a.mu.Lock()
	data, ok := a.regions[h]
	delete(a.regions, h)
	a.mu.Unlock()

	if !ok {
		return false
	}
	if data == nil {
		return true
	}
	return unix.Munmap(data) == nil
}
