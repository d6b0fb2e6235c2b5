// Package alloc provides the memory allocators that back blobs.
//
// An Allocator hands out opaque handles and grants temporary access to the
// memory behind them through Lock/Unlock pairs. Blobs never touch memory
// outside of a lock.
package alloc

import (
	"errors"
	"fmt"
)

// Handle identifies one allocation. Its value is meaningful only to the
// allocator that returned it.
type Handle uintptr

// LockOp selects the access mode requested from Lock.
type LockOp int

// Supported lock modes.
const (
	LockForRead LockOp = iota
	LockForWrite
)

// String returns a human-readable lock mode.
func (op LockOp) String() string {
	switch op {
	case LockForRead:
		return "read"
	case LockForWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Common errors.
var (
	ErrInvalidHandle = errors.New("invalid allocation handle")
	ErrUnsupported   = errors.New("allocator not supported on this platform")
	ErrNegativeSize  = errors.New("negative allocation size")
	ErrTooLarge      = errors.New("allocation too large")
)

// Allocator acquires, locks and releases raw memory regions.
//
// Every successful Lock must be matched by exactly one Unlock for the same
// handle. Free reports whether memory was actually released.
type Allocator interface {
	Alloc(size int) (Handle, error)
	Lock(h Handle, op LockOp) ([]byte, error)
	Unlock(h Handle)
	Free(h Handle) bool
}

// Kinds accepted by New.
const (
	KindHeap   = "heap"
	KindMmap   = "mmap"
	KindWebGPU = "webgpu"
)

// New creates an allocator by kind name.
// The empty string selects the shared heap allocator.
func New(kind string) (Allocator, error) {
	switch kind {
	case "", KindHeap:
		return Default(), nil
	case KindMmap:
		a, err := NewMmap()
		if err != nil {
			return nil, err
		}
		return a, nil
	case KindWebGPU:
		a, err := NewWebGPU()
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown allocator kind %q", kind)
	}
}
