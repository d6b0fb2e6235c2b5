//go:build !windows

package alloc

import "fmt"

// WebGPU is unavailable on this platform.
type WebGPU struct{}

// NewWebGPU always fails on this platform.
func NewWebGPU() (*WebGPU, error) {
	return nil, fmt.Errorf("webgpu: %w", ErrUnsupported)
}

// Alloc always fails.
func (*WebGPU) Alloc(int) (Handle, error) { return 0, ErrUnsupported }

// Lock always fails.
func (*WebGPU) Lock(Handle, LockOp) ([]byte, error) { return nil, ErrUnsupported }

// Unlock is a no-op.
func (*WebGPU) Unlock(Handle) {}

// Free reports false.
func (*WebGPU) Free(Handle) bool { return false }

// Release is a no-op.
func (*WebGPU) Release() {}
