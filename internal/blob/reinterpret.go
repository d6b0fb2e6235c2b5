package blob

import (
	"fmt"
	"unsafe"
)

// Element is a constraint for the Go types a blob can hold.
// FP16 and BF16 are carried as uint16, BOOL as uint8.
type Element interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// sizeOf returns the byte width of T.
func sizeOf[T Element]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// checkPrecision verifies that p describes elements of type T.
func checkPrecision[T Element](p Precision) error {
	if p.Size() == 0 || p.Size() != sizeOf[T]() {
		var zero T
		return fmt.Errorf("%w: %s is %d bytes, %T is %d bytes", ErrPrecisionMismatch, p, p.Size(), zero, sizeOf[T]())
	}
	return nil
}

// reinterpret views b as a slice of T without copying, in native byte order.
// Trailing bytes that do not fill a whole element are not exposed.
//
// This is the only place where blob memory changes type.
func reinterpret[T Element](b []byte) []T {
	n := len(b) / sizeOf[T]()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length bounded by len(b)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// bytesOf views the memory of s as bytes without copying.
func bytesOf[T Element](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length bounded by len(s)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*sizeOf[T]())
}
