package blob

import "sync"

// LockedMemory is a byte region held under an allocator lock.
//
// The region is valid until Release. Release unlocks exactly once; further
// calls are no-ops and Bytes returns nil afterwards.
type LockedMemory struct {
	data   []byte
	unlock func()
	once   sync.Once
}

// newLockedMemory wraps data. unlock runs on the first Release.
func newLockedMemory(data []byte, unlock func()) *LockedMemory {
	return &LockedMemory{data: data, unlock: unlock}
}

// Bytes returns the locked region, or nil once released.
func (m *LockedMemory) Bytes() []byte {
	return m.data
}

// Len returns the region size in bytes.
func (m *LockedMemory) Len() int {
	return len(m.data)
}

// Release gives the lock back to the allocator.
func (m *LockedMemory) Release() {
	m.once.Do(func() {
		m.data = nil
		if m.unlock != nil {
			m.unlock()
		}
	})
}

// window narrows the region to [offset, offset+size) and takes over the lock.
// On error the lock is released.
func (m *LockedMemory) window(offset, size int) (*LockedMemory, error) {
	if offset < 0 || size < 0 || offset+size > len(m.data) {
		available := len(m.data)
		m.Release()
		return nil, &RangeError{Offset: offset, Required: offset + size, Available: available}
	}
	return &LockedMemory{
		data:   m.data[offset : offset+size : offset+size],
		unlock: m.Release,
	}, nil
}

// As reinterprets the locked region as a slice of T.
// The slice must not be used after Release.
func As[T Element](m *LockedMemory) []T {
	return reinterpret[T](m.Bytes())
}

// Locked is a typed view of a LockedMemory region.
type Locked[T Element] struct {
	mem   *LockedMemory
	elems []T
}

// newLocked reinterprets mem as n elements of T.
func newLocked[T Element](mem *LockedMemory, n int) *Locked[T] {
	elems := reinterpret[T](mem.Bytes())
	if len(elems) > n {
		elems = elems[:n:n]
	}
	return &Locked[T]{mem: mem, elems: elems}
}

// Slice returns the elements. The slice must not be used after Release.
func (l *Locked[T]) Slice() []T {
	return l.elems
}

// Len returns the number of elements.
func (l *Locked[T]) Len() int {
	return len(l.elems)
}

// At returns element i. i must be in [0, Len()).
func (l *Locked[T]) At(i int) T {
	return l.elems[i]
}

// Set stores v at index i. i must be in [0, Len()).
func (l *Locked[T]) Set(i int, v T) {
	l.elems[i] = v
}

// Bytes returns the underlying locked bytes.
func (l *Locked[T]) Bytes() []byte {
	return l.mem.Bytes()
}

// Release gives the lock back to the allocator.
func (l *Locked[T]) Release() {
	l.elems = nil
	l.mem.Release()
}
