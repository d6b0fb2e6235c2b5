package blob

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrAllocation        = errors.New("allocation failed")
	ErrOutOfRange        = errors.New("out of range")
	ErrInvalidState      = errors.New("invalid blob state")
	ErrPrecisionMismatch = errors.New("precision does not match element type")
)

// RangeError reports a window that does not fit inside its source.
type RangeError struct {
	Offset    int // Window start in bytes
	Required  int // Window end in bytes
	Available int // Source size in bytes
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("out of range: window [%d, %d) exceeds %d byte source", e.Offset, e.Required, e.Available)
}

// Unwrap makes RangeError match ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
