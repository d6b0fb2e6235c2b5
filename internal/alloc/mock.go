package alloc

import (
	"fmt"
	"sync"
)

// Verify that the allocators implement Allocator.
var (
	_ Allocator = (*Heap)(nil)
	_ Allocator = (*Preallocated)(nil)
	_ Allocator = (*Mock)(nil)
)

// MockHandle is the handle returned by Mock.Alloc.
const MockHandle Handle = 1

// Mock is a call-recording allocator for tests.
// Every Lock returns Region, whatever the handle.
type Mock struct {
	mu sync.Mutex

	// Region is returned by Lock.
	Region []byte
	// AllocErr, when set, makes Alloc fail.
	AllocErr error
	// LockErr, when set, makes Lock fail.
	LockErr error

	allocs  []int
	locks   []LockOp
	unlocks int
	frees   int
}

// NewMock creates a Mock serving region.
func NewMock(region []byte) *Mock {
	return &Mock{Region: region}
}

// Alloc records size and returns MockHandle.
func (m *Mock) Alloc(size int) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.allocs = append(m.allocs, size)
	if m.AllocErr != nil {
		return 0, m.AllocErr
	}
	return MockHandle, nil
}

// Lock records op and returns Region.
func (m *Mock) Lock(h Handle, op LockOp) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LockErr != nil {
		return nil, m.LockErr
	}
	if h != MockHandle {
		return nil, fmt.Errorf("mock: %w: %d", ErrInvalidHandle, h)
	}
	m.locks = append(m.locks, op)
	return m.Region, nil
}

// Unlock records the call.
func (m *Mock) Unlock(Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unlocks++
}

// Free records the call and reports true.
func (m *Mock) Free(Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frees++
	return true
}

// Allocs returns the sizes passed to Alloc.
func (m *Mock) Allocs() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.allocs...)
}

// Locks returns the number of successful Lock calls for op.
func (m *Mock) Locks(op LockOp) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, l := range m.locks {
		if l == op {
			n++
		}
	}
	return n
}

// Unlocks returns the number of Unlock calls.
func (m *Mock) Unlocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unlocks
}

// Frees returns the number of Free calls.
func (m *Mock) Frees() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frees
}
