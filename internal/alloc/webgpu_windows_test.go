//go:build windows

package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebGPURoundTrip(t *testing.T) {
	a, err := NewWebGPU()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	defer a.Release()

	h, err := a.Alloc(6)
	require.NoError(t, err)

	data, err := a.Lock(h, LockForWrite)
	require.NoError(t, err)
	require.Len(t, data, 6)
	copy(data, []byte{1, 2, 3, 4, 5, 6})
	a.Unlock(h)

	data, err = a.Lock(h, LockForRead)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, data)
	a.Unlock(h)

	assert.True(t, a.Free(h))
}
