//go:build !unix

package alloc

// Mmap is unavailable on this platform.
type Mmap struct{}

// NewMmap always fails on this platform.
func NewMmap() (*Mmap, error) {
	return nil, ErrUnsupported
}

// Alloc always fails.
func (*Mmap) Alloc(int) (Handle, error) { return 0, ErrUnsupported }

// Lock always fails.
func (*Mmap) Lock(Handle, LockOp) ([]byte, error) { return nil, ErrUnsupported }

// Unlock is a no-op.
func (*Mmap) Unlock(Handle) {}

// Free reports false.
func (*Mmap) Free(Handle) bool { return false }
