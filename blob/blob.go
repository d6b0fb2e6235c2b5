// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package blob

import (
	"context"

	"github.com/born-ml/blob/internal/alloc"
	"github.com/born-ml/blob/internal/blob"
)

// Element is the constraint for blob element types.
// Supported types: int8..int64, uint8..uint64, float32, float64.
type Element = blob.Element

// Precision identifies the element type stored in a blob.
type Precision = blob.Precision

// Precision constants.
const (
	Unspecified Precision = blob.Unspecified
	FP32        Precision = blob.FP32
	FP16        Precision = blob.FP16
	BF16        Precision = blob.BF16
	FP64        Precision = blob.FP64
	I8          Precision = blob.I8
	U8          Precision = blob.U8
	I16         Precision = blob.I16
	U16         Precision = blob.U16
	I32         Precision = blob.I32
	U32         Precision = blob.U32
	I64         Precision = blob.I64
	U64         Precision = blob.U64
	BOOL        Precision = blob.BOOL
)

// Layout is the axis-ordering convention carried by a descriptor.
type Layout = blob.Layout

// Layout constants.
const (
	ANY     Layout = blob.ANY
	C       Layout = blob.C
	CN      Layout = blob.CN
	HW      Layout = blob.HW
	NC      Layout = blob.NC
	CHW     Layout = blob.CHW
	NCHW    Layout = blob.NCHW
	NHWC    Layout = blob.NHWC
	NCDHW   Layout = blob.NCDHW
	NDHWC   Layout = blob.NDHWC
	OIHW    Layout = blob.OIHW
	SCALAR  Layout = blob.SCALAR
	BLOCKED Layout = blob.BLOCKED
)

// Shape represents the dimensions of a blob.
type Shape = blob.Shape

// TensorDesc describes precision, shape and layout of a blob.
type TensorDesc = blob.TensorDesc

// Blob is the element-type independent surface of TBlob and Proxy.
type Blob = blob.Blob

// TBlob is an allocator-backed blob of T.
type TBlob[T Element] = blob.TBlob[T]

// Proxy is a non-owning view over part of another blob, read as T.
type Proxy[T Element] = blob.Proxy[T]

// LockedMemory is a locked byte region. Call Release when done.
type LockedMemory = blob.LockedMemory

// Locked is a locked region viewed as T. Call Release when done.
type Locked[T Element] = blob.Locked[T]

// RangeError reports a view that does not fit its source.
type RangeError = blob.RangeError

// Allocator is the memory provider behind a TBlob.
type Allocator = alloc.Allocator

// Errors returned by blob operations.
var (
	ErrAllocation        = blob.ErrAllocation
	ErrOutOfRange        = blob.ErrOutOfRange
	ErrInvalidState      = blob.ErrInvalidState
	ErrPrecisionMismatch = blob.ErrPrecisionMismatch
)

// NewTensorDesc creates a descriptor. The shape is copied.
func NewTensorDesc(p Precision, shape Shape, layout Layout) TensorDesc {
	return blob.NewTensorDesc(p, shape, layout)
}

// ParsePrecision converts a name such as "fp32" into a Precision.
func ParsePrecision(name string) (Precision, error) {
	return blob.ParsePrecision(name)
}

// NewTBlob creates an unallocated blob. A nil allocator selects DefaultAllocator.
func NewTBlob[T Element](desc TensorDesc, allocator Allocator) (*TBlob[T], error) {
	return blob.NewTBlob[T](desc, allocator)
}

// NewTBlobFromSlice creates an allocated blob over caller-owned data.
func NewTBlobFromSlice[T Element](desc TensorDesc, data []T) (*TBlob[T], error) {
	return blob.NewTBlobFromSlice(desc, data)
}

// NewProxy creates a view of shape over source, starting offset source
// elements in and reading elements of precision p.
func NewProxy[T Element](p Precision, layout Layout, source Blob, offset int, shape Shape) (*Proxy[T], error) {
	return blob.NewProxy[T](p, layout, source, offset, shape)
}

// As reinterprets locked memory as a slice of T.
func As[T Element](m *LockedMemory) []T {
	return blob.As[T](m)
}

// DefaultAllocator returns the process-wide heap allocator.
func DefaultAllocator() Allocator {
	return alloc.Default()
}

// NewAllocator returns an allocator by kind: "heap", "mmap" or "webgpu".
func NewAllocator(kind string) (Allocator, error) {
	return alloc.New(kind)
}

// Copy copies the bytes of src into dst. Both must be allocated and the same
// byte size. Large copies run in parallel chunks.
func Copy(ctx context.Context, dst, src Blob) error {
	return blob.Copy(ctx, dst, src)
}
