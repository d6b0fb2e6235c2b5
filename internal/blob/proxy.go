package blob

import (
	"fmt"
	"iter"
	"math"
)

// Proxy is a zero-copy view of another blob's bytes as elements of type T.
//
// The window starts at offset elements of the source (counted in the
// source's own element width) and spans Size elements of T. A Proxy never
// allocates or frees memory: every lock is forwarded to the source, and
// Deallocate is always a no-op. The proxy holds a reference to its source,
// so the source outlives every proxy built on it.
type Proxy[T Element] struct {
	desc        TensorDesc
	source      Blob
	offset      int
	offsetBytes int
}

// NewProxy creates a view of source with the given precision, layout and shape.
// offset is expressed in elements of source. The window
// [offset*source.ElementSize(), offset*source.ElementSize() + shape.NumElements()*sizeof(T))
// must fit inside source, otherwise the error matches ErrOutOfRange.
func NewProxy[T Element](p Precision, layout Layout, source Blob, offset int, shape Shape) (*Proxy[T], error) {
	if source == nil {
		return nil, fmt.Errorf("%w: proxy needs a source blob", ErrInvalidState)
	}
	if err := checkPrecision[T](p); err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: negative offset %d", ErrOutOfRange, offset)
	}

	desc := NewTensorDesc(p, shape, layout)
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	available := source.ByteSize()
	offsetBytes, ok := mulInt(offset, source.ElementSize())
	if !ok || offsetBytes > available || desc.ByteSize() > available-offsetBytes {
		if !ok {
			offsetBytes = math.MaxInt
		}
		return nil, &RangeError{
			Offset:    offsetBytes,
			Required:  addSat(offsetBytes, desc.ByteSize()),
			Available: available,
		}
	}

	return &Proxy[T]{
		desc:        desc,
		source:      source,
		offset:      offset,
		offsetBytes: offsetBytes,
	}, nil
}

// Desc returns a copy of the proxy's tensor descriptor.
func (p *Proxy[T]) Desc() TensorDesc {
	return NewTensorDesc(p.desc.Precision, p.desc.Shape, p.desc.Layout)
}

// Precision returns the proxy's element precision.
func (p *Proxy[T]) Precision() Precision {
	return p.desc.Precision
}

// Layout returns the proxy's layout tag.
func (p *Proxy[T]) Layout() Layout {
	return p.desc.Layout
}

// Shape returns a copy of the proxy's shape.
func (p *Proxy[T]) Shape() Shape {
	return p.desc.Shape.Clone()
}

// Size returns the number of visible elements.
func (p *Proxy[T]) Size() int {
	return p.desc.Size()
}

// ByteSize returns the size of the window in bytes.
func (p *Proxy[T]) ByteSize() int {
	return p.desc.ByteSize()
}

// ElementSize returns the byte width of one proxy element.
func (p *Proxy[T]) ElementSize() int {
	return p.desc.Precision.Size()
}

// Source returns the viewed blob.
func (p *Proxy[T]) Source() Blob {
	return p.source
}

// Offset returns the window start in source elements.
func (p *Proxy[T]) Offset() int {
	return p.offset
}

// OffsetBytes returns the window start in bytes.
func (p *Proxy[T]) OffsetBytes() int {
	return p.offsetBytes
}

// IsAllocated reports whether the source holds memory.
func (p *Proxy[T]) IsAllocated() bool {
	return p.source.IsAllocated()
}

// Allocate never allocates. It succeeds when the source is already allocated.
func (p *Proxy[T]) Allocate() error {
	if !p.source.IsAllocated() {
		return fmt.Errorf("%w: proxy cannot allocate its source", ErrInvalidState)
	}
	return nil
}

// Deallocate never releases memory and always reports false.
func (p *Proxy[T]) Deallocate() bool {
	return false
}

// forward narrows a source lock to the proxy window.
func (p *Proxy[T]) forward(mem *LockedMemory, err error) (*LockedMemory, error) {
	if err != nil {
		return nil, fmt.Errorf("proxy: %w", err)
	}
	return mem.window(p.offsetBytes, p.ByteSize())
}

// Buffer locks the source for reading and writing and returns the window.
func (p *Proxy[T]) Buffer() (*LockedMemory, error) {
	return p.forward(p.source.Buffer())
}

// CBuffer locks the source for reading and returns the window.
func (p *Proxy[T]) CBuffer() (*LockedMemory, error) {
	return p.forward(p.source.CBuffer())
}

// Data locks the source for writing and returns the window's elements.
func (p *Proxy[T]) Data() (*Locked[T], error) {
	return lockTyped[T](p.Buffer, p.Size())
}

// ReadOnly locks the source for reading and returns the window's elements.
func (p *Proxy[T]) ReadOnly() (*Locked[T], error) {
	return lockTyped[T](p.CBuffer, p.Size())
}

// Values returns a sequence over the window's elements in index order.
//
// Each traversal takes exactly one read lock on the source and releases it
// when the traversal ends, including early exit. The sequence can be ranged
// over any number of times. It panics if the source was deallocated after
// Values returned.
func (p *Proxy[T]) Values() (iter.Seq[T], error) {
	if !p.source.IsAllocated() {
		return nil, fmt.Errorf("%w: iterate over proxy of unallocated blob", ErrInvalidState)
	}
	return values[T](p.CBuffer, p.Size()), nil
}

// Elements returns a sequence of index and element pointer pairs under one
// write lock per traversal. Writes through the pointers land in the source.
func (p *Proxy[T]) Elements() (iter.Seq2[int, *T], error) {
	if !p.source.IsAllocated() {
		return nil, fmt.Errorf("%w: iterate over proxy of unallocated blob", ErrInvalidState)
	}
	return elements[T](p.Buffer, p.Size()), nil
}
