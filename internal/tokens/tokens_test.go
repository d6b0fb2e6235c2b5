package tokens

import (
	"testing"

	"github.com/born-ml/blob/internal/alloc"
	"github.com/born-ml/blob/internal/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEncoder skips when the encoding cannot be loaded (no network, no cache).
func newEncoder(t *testing.T, a alloc.Allocator) *Encoder {
	t.Helper()
	enc, err := NewEncoder("", a)
	if err != nil {
		t.Skipf("tiktoken encoding not available: %v", err)
	}
	return enc
}

func TestEncodeDecode(t *testing.T) {
	enc := newEncoder(t, nil)
	assert.Equal(t, DefaultEncoding, enc.Name())

	text := "Hello, world! Blobs are views over bytes."
	b, err := enc.Encode(text)
	require.NoError(t, err)
	defer b.Deallocate()

	assert.Equal(t, blob.I32, b.Precision())
	assert.Positive(t, b.Size())

	got, err := enc.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestWindowDecodesSubsequence(t *testing.T) {
	enc := newEncoder(t, alloc.NewHeap())

	b, err := enc.Encode("one two three four five six")
	require.NoError(t, err)
	defer b.Deallocate()
	require.GreaterOrEqual(t, b.Size(), 4)

	w, err := Window(b, 1, 2)
	require.NoError(t, err)

	all, err := b.ReadOnly()
	require.NoError(t, err)
	want := append([]int32(nil), all.Slice()[1:3]...)
	all.Release()

	ro, err := w.ReadOnly()
	require.NoError(t, err)
	assert.Equal(t, want, ro.Slice())
	ro.Release()

	assert.False(t, w.Deallocate())
	assert.True(t, b.IsAllocated())

	_, err = Window(b, b.Size(), 1)
	require.ErrorIs(t, err, blob.ErrOutOfRange)
}

func TestDecodeRejectsOtherPrecisions(t *testing.T) {
	enc := newEncoder(t, nil)

	b, err := blob.NewTBlob[float32](blob.NewTensorDesc(blob.FP32, blob.Shape{2}, blob.C), nil)
	require.NoError(t, err)

	_, err = enc.Decode(b)
	require.ErrorIs(t, err, blob.ErrPrecisionMismatch)
}
