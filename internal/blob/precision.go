// Package blob provides typed memory blobs for tensor data and zero-copy
// proxies that reinterpret a byte range of a blob as another element type.
package blob

import (
	"fmt"
	"strings"
)

// Precision identifies the element type stored in a blob.
type Precision int

// Supported precisions.
const (
	Unspecified Precision = iota
	FP32
	FP16
	BF16
	FP64
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	BOOL
)

// Size returns the byte width of one element, or 0 for Unspecified.
func (p Precision) Size() int {
	switch p {
	case FP64, I64, U64:
		return 8
	case FP32, I32, U32:
		return 4
	case FP16, BF16, I16, U16:
		return 2
	case I8, U8, BOOL:
		return 1
	default:
		return 0
	}
}

// String returns a human-readable name for the precision.
func (p Precision) String() string {
	switch p {
	case FP32:
		return "fp32"
	case FP16:
		return "fp16"
	case BF16:
		return "bf16"
	case FP64:
		return "fp64"
	case I8:
		return "i8"
	case U8:
		return "u8"
	case I16:
		return "i16"
	case U16:
		return "u16"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case I64:
		return "i64"
	case U64:
		return "u64"
	case BOOL:
		return "bool"
	default:
		return "unspecified"
	}
}

// IsFloat reports whether the precision holds floating-point values.
func (p Precision) IsFloat() bool {
	switch p {
	case FP32, FP16, BF16, FP64:
		return true
	default:
		return false
	}
}

// IsSigned reports whether the precision holds signed values.
func (p Precision) IsSigned() bool {
	switch p {
	case I8, I16, I32, I64:
		return true
	default:
		return p.IsFloat()
	}
}

// Precisions lists every supported precision in declaration order.
func Precisions() []Precision {
	return []Precision{FP32, FP16, BF16, FP64, I8, U8, I16, U16, I32, U32, I64, U64, BOOL}
}

// ParsePrecision converts a name such as "fp32" or "U8" into a Precision.
func ParsePrecision(name string) (Precision, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range Precisions() {
		if p.String() == name {
			return p, nil
		}
	}
	return Unspecified, fmt.Errorf("unknown precision %q", name)
}
