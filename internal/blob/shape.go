package blob

import (
	"fmt"
	"math"
	"slices"
)

// Shape lists the dimensions of a blob. An empty shape is a scalar.
type Shape []int

// NumElements returns the product of the dimensions, 1 for a scalar.
// The result is only meaningful for a shape that passes Validate.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Validate rejects negative dimensions and shapes whose element count does
// not fit in an int. Zero is allowed and gives an empty blob.
func (s Shape) Validate() error {
	if i := slices.IndexFunc(s, func(d int) bool { return d < 0 }); i >= 0 {
		return fmt.Errorf("dimension %d is negative: %d", i, s[i])
	}
	if slices.Contains(s, 0) {
		return nil
	}
	n := 1
	for _, d := range s {
		var ok bool
		if n, ok = mulInt(n, d); !ok {
			return fmt.Errorf("%w: shape %v has more than %d elements", ErrOutOfRange, []int(s), math.MaxInt)
		}
	}
	return nil
}

// Equal reports whether both shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s, other)
}

// Clone returns an independent copy. A nil shape clones to an empty one.
func (s Shape) Clone() Shape {
	return append(Shape{}, s...)
}

// mulInt multiplies two non-negative ints and reports false on overflow.
func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// addSat adds two non-negative ints, saturating at math.MaxInt.
func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
