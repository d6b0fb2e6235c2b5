package blob

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/born-ml/blob/internal/alloc"
)

// Blob is the element-type independent surface shared by TBlob and Proxy.
type Blob interface {
	// Desc returns the tensor descriptor.
	Desc() TensorDesc
	// Precision returns the element precision.
	Precision() Precision
	// Size returns the number of elements.
	Size() int
	// ByteSize returns the size in bytes.
	ByteSize() int
	// ElementSize returns the byte width of one element.
	ElementSize() int
	// IsAllocated reports whether memory is available for locking.
	IsAllocated() bool
	// Allocate acquires memory for the blob.
	Allocate() error
	// Deallocate releases owned memory and reports whether anything was released.
	Deallocate() bool
	// Buffer locks the memory for reading and writing.
	Buffer() (*LockedMemory, error)
	// CBuffer locks the memory for reading.
	CBuffer() (*LockedMemory, error)
}

// Verify that TBlob and Proxy implement Blob.
var (
	_ Blob = (*TBlob[float32])(nil)
	_ Blob = (*Proxy[float32])(nil)
)

// TBlob is an allocator-backed blob of elements of type T.
//
// A TBlob exclusively owns its allocation: it is the only party that frees
// it. Memory is reachable only through Buffer, CBuffer, Data, ReadOnly and
// the iterators, each of which holds an allocator lock until released.
type TBlob[T Element] struct {
	desc      TensorDesc
	allocator alloc.Allocator
	handle    alloc.Handle
	allocated bool
	locks     atomic.Int64 // outstanding locks, including those of proxies
}

// NewTBlob creates an unallocated blob. A nil allocator selects alloc.Default().
func NewTBlob[T Element](desc TensorDesc, allocator alloc.Allocator) (*TBlob[T], error) {
	if err := checkPrecision[T](desc.Precision); err != nil {
		return nil, err
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if allocator == nil {
		allocator = alloc.Default()
	}
	return &TBlob[T]{
		desc:      NewTensorDesc(desc.Precision, desc.Shape, desc.Layout),
		allocator: allocator,
	}, nil
}

// NewTBlobFromSlice creates an allocated blob over caller-owned memory.
// The blob never frees data: Deallocate reports false.
func NewTBlobFromSlice[T Element](desc TensorDesc, data []T) (*TBlob[T], error) {
	if err := checkPrecision[T](desc.Precision); err != nil {
		return nil, err
	}
	if len(data) < desc.Size() {
		return nil, fmt.Errorf("%w: %d elements supplied, descriptor needs %d", ErrOutOfRange, len(data), desc.Size())
	}

	b, err := NewTBlob[T](desc, alloc.NewPreallocated(bytesOf(data)))
	if err != nil {
		return nil, err
	}
	if err := b.Allocate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Desc returns a copy of the tensor descriptor.
func (b *TBlob[T]) Desc() TensorDesc {
	return NewTensorDesc(b.desc.Precision, b.desc.Shape, b.desc.Layout)
}

// Precision returns the element precision.
func (b *TBlob[T]) Precision() Precision {
	return b.desc.Precision
}

// Layout returns the layout tag.
func (b *TBlob[T]) Layout() Layout {
	return b.desc.Layout
}

// Shape returns a copy of the blob's shape.
func (b *TBlob[T]) Shape() Shape {
	return b.desc.Shape.Clone()
}

// Size returns the number of elements.
func (b *TBlob[T]) Size() int {
	return b.desc.Size()
}

// ByteSize returns the size in bytes.
func (b *TBlob[T]) ByteSize() int {
	return b.desc.ByteSize()
}

// ElementSize returns the byte width of one element.
func (b *TBlob[T]) ElementSize() int {
	return b.desc.Precision.Size()
}

// Allocator returns the allocator backing the blob.
func (b *TBlob[T]) Allocator() alloc.Allocator {
	return b.allocator
}

// IsAllocated reports whether the blob holds an allocation.
func (b *TBlob[T]) IsAllocated() bool {
	return b.allocated
}

// SetShape changes the shape of an unallocated blob.
// Byte accounting follows the new shape; nothing is reallocated.
func (b *TBlob[T]) SetShape(shape Shape) error {
	if b.allocated {
		return fmt.Errorf("%w: cannot reshape an allocated blob", ErrInvalidState)
	}
	desc := NewTensorDesc(b.desc.Precision, shape, b.desc.Layout)
	if err := desc.Validate(); err != nil {
		return err
	}
	b.desc = desc
	return nil
}

// Allocate requests ByteSize bytes from the allocator.
// On failure the blob stays unallocated.
func (b *TBlob[T]) Allocate() error {
	if b.allocated {
		return fmt.Errorf("%w: blob is already allocated", ErrInvalidState)
	}
	h, err := b.allocator.Alloc(b.ByteSize())
	if err != nil {
		return fmt.Errorf("%w: %d bytes: %w", ErrAllocation, b.ByteSize(), err)
	}
	b.handle = h
	b.allocated = true
	return nil
}

// Deallocate frees the allocation and reports whether memory was released.
// It returns false when the blob is unallocated, does not own its memory, or
// still has locks outstanding; in the last case the blob stays allocated.
func (b *TBlob[T]) Deallocate() bool {
	if !b.allocated || b.locks.Load() > 0 {
		return false
	}
	released := b.allocator.Free(b.handle)
	b.handle = 0
	b.allocated = false
	return released
}

// lock takes one allocator lock and trims the region to ByteSize.
func (b *TBlob[T]) lock(op alloc.LockOp) (*LockedMemory, error) {
	if !b.allocated {
		return nil, fmt.Errorf("%w: lock for %s on unallocated blob", ErrInvalidState, op)
	}
	h := b.handle
	data, err := b.allocator.Lock(h, op)
	if err != nil {
		return nil, fmt.Errorf("lock for %s: %w", op, err)
	}
	b.locks.Add(1)
	mem := newLockedMemory(data, func() {
		b.locks.Add(-1)
		b.allocator.Unlock(h)
	})
	if len(data) < b.ByteSize() {
		mem.Release()
		return nil, fmt.Errorf("%w: allocator returned %d bytes, blob needs %d", ErrAllocation, len(data), b.ByteSize())
	}
	return mem.window(0, b.ByteSize())
}

// Buffer locks the blob for reading and writing.
func (b *TBlob[T]) Buffer() (*LockedMemory, error) {
	return b.lock(alloc.LockForWrite)
}

// CBuffer locks the blob for reading.
func (b *TBlob[T]) CBuffer() (*LockedMemory, error) {
	return b.lock(alloc.LockForRead)
}

// Data locks the blob for writing and returns its elements.
func (b *TBlob[T]) Data() (*Locked[T], error) {
	return lockTyped[T](b.Buffer, b.Size())
}

// ReadOnly locks the blob for reading and returns its elements.
func (b *TBlob[T]) ReadOnly() (*Locked[T], error) {
	return lockTyped[T](b.CBuffer, b.Size())
}

// Values returns a sequence over the elements under a read lock.
// See Proxy.Values for the traversal contract.
func (b *TBlob[T]) Values() (iter.Seq[T], error) {
	if !b.allocated {
		return nil, fmt.Errorf("%w: iterate over unallocated blob", ErrInvalidState)
	}
	return values[T](b.CBuffer, b.Size()), nil
}

// Elements returns a sequence of index and element pointer pairs under a write lock.
func (b *TBlob[T]) Elements() (iter.Seq2[int, *T], error) {
	if !b.allocated {
		return nil, fmt.Errorf("%w: iterate over unallocated blob", ErrInvalidState)
	}
	return elements[T](b.Buffer, b.Size()), nil
}
