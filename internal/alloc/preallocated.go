package alloc

import "fmt"

// preallocatedHandle is the single handle served by a Preallocated allocator.
const preallocatedHandle Handle = 1

// Preallocated serves one caller-owned region.
// It never owns the memory: Free always reports false.
type Preallocated struct {
	data []byte
}

// NewPreallocated wraps buf. The caller keeps ownership of buf.
func NewPreallocated(buf []byte) *Preallocated {
	return &Preallocated{data: buf}
}

// Alloc succeeds when the wrapped region can hold size bytes.
func (a *Preallocated) Alloc(size int) (Handle, error) {
	if size < 0 {
		return 0, fmt.Errorf("preallocated: %w: %d", ErrNegativeSize, size)
	}
	if size > len(a.data) {
		return 0, fmt.Errorf("preallocated: requested %d bytes, region holds %d", size, len(a.data))
	}
	return preallocatedHandle, nil
}

// Lock returns the wrapped region.
func (a *Preallocated) Lock(h Handle, op LockOp) ([]byte, error) {
	if h != preallocatedHandle {
		return nil, fmt.Errorf("preallocated: lock for %s: %w: %d", op, ErrInvalidHandle, h)
	}
	return a.data, nil
}

// Unlock is a no-op.
func (a *Preallocated) Unlock(Handle) {}

// Free is a no-op and reports false.
func (a *Preallocated) Free(Handle) bool {
	return false
}
