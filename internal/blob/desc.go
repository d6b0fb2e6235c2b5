package blob

import (
	"fmt"
	"math"
)

// TensorDesc describes the contents of a blob: element precision, shape and
// layout.
type TensorDesc struct {
	Precision Precision
	Shape     Shape
	Layout    Layout
}

// NewTensorDesc creates a descriptor. The shape is copied.
func NewTensorDesc(p Precision, shape Shape, layout Layout) TensorDesc {
	return TensorDesc{Precision: p, Shape: shape.Clone(), Layout: layout}
}

// Size returns the number of elements.
func (d TensorDesc) Size() int {
	return d.Shape.NumElements()
}

// ByteSize returns the number of bytes needed to hold every element.
// The result is only meaningful for a descriptor that passes Validate.
func (d TensorDesc) ByteSize() int {
	return d.Size() * d.Precision.Size()
}

// Validate checks the precision and shape, and that the byte size fits in an int.
func (d TensorDesc) Validate() error {
	if d.Precision.Size() == 0 {
		return fmt.Errorf("unsupported precision %s", d.Precision)
	}
	if err := d.Shape.Validate(); err != nil {
		return fmt.Errorf("invalid shape: %w", err)
	}
	if _, ok := mulInt(d.Size(), d.Precision.Size()); !ok {
		return fmt.Errorf("%w: %s needs more than %d bytes", ErrOutOfRange, d, math.MaxInt)
	}
	return nil
}

// String returns a compact description such as "fp32[1 2 3] CHW".
func (d TensorDesc) String() string {
	return fmt.Sprintf("%s%v %s", d.Precision, []int(d.Shape), d.Layout)
}
