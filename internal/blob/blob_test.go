package blob

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/blob/internal/alloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTBlobAccounting(t *testing.T) {
	tests := []struct {
		name      string
		precision Precision
		shape     Shape
		size      int
		byteSize  int
	}{
		{"fp32 chw", FP32, Shape{1, 2, 3}, 6, 24},
		{"scalar", FP32, Shape{}, 1, 4},
		{"empty", FP32, Shape{2, 0}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewTBlob[float32](NewTensorDesc(tt.precision, tt.shape, CHW), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.size, b.Size())
			assert.Equal(t, tt.byteSize, b.ByteSize())
			assert.Equal(t, 4, b.ElementSize())
			assert.False(t, b.IsAllocated())
			assert.Same(t, alloc.Default(), b.Allocator())
		})
	}
}

func TestNewTBlobRejectsPrecisionMismatch(t *testing.T) {
	_, err := NewTBlob[uint8](NewTensorDesc(FP32, Shape{3}, C), nil)
	require.ErrorIs(t, err, ErrPrecisionMismatch)

	_, err = NewTBlob[float32](NewTensorDesc(Unspecified, Shape{3}, C), nil)
	require.ErrorIs(t, err, ErrPrecisionMismatch)

	// Half precisions are carried as uint16.
	_, err = NewTBlob[uint16](NewTensorDesc(BF16, Shape{3}, C), nil)
	require.NoError(t, err)
}

func TestNewTBlobRejectsNegativeShape(t *testing.T) {
	_, err := NewTBlob[float32](NewTensorDesc(FP32, Shape{2, -1}, C), nil)
	require.Error(t, err)
}

func TestTBlobLifecycle(t *testing.T) {
	a := alloc.NewHeap()
	b, err := NewTBlob[int32](NewTensorDesc(I32, Shape{4}, C), a)
	require.NoError(t, err)

	_, err = b.Buffer()
	require.ErrorIs(t, err, ErrInvalidState, "lock before allocate")

	require.NoError(t, b.Allocate())
	assert.True(t, b.IsAllocated())
	assert.Equal(t, 16, a.Stats().LiveBytes)

	err = b.Allocate()
	require.ErrorIs(t, err, ErrInvalidState, "double allocate")

	assert.True(t, b.Deallocate())
	assert.False(t, b.IsAllocated())
	assert.False(t, b.Deallocate(), "nothing left to release")
	assert.Zero(t, a.Stats().LiveHandles)
}

func TestTBlobAllocationFailureLeavesUnallocated(t *testing.T) {
	boom := errors.New("out of device memory")
	m := &alloc.Mock{AllocErr: boom}

	b, err := NewTBlob[float32](NewTensorDesc(FP32, Shape{8}, C), m)
	require.NoError(t, err)

	err = b.Allocate()
	require.ErrorIs(t, err, ErrAllocation)
	require.ErrorIs(t, err, boom)
	assert.False(t, b.IsAllocated())
	assert.False(t, b.Deallocate())
	assert.Zero(t, m.Frees())
}

func TestTBlobSetShape(t *testing.T) {
	b, err := NewTBlob[float32](NewTensorDesc(FP32, Shape{2}, C), nil)
	require.NoError(t, err)

	require.NoError(t, b.SetShape(Shape{2, 3}))
	assert.Equal(t, 24, b.ByteSize())

	require.NoError(t, b.Allocate())
	defer b.Deallocate()

	err = b.SetShape(Shape{4})
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, Shape{2, 3}, b.Shape(), "failed reshape leaves shape unchanged")
}

func TestTBlobLockErrors(t *testing.T) {
	boom := errors.New("device lost")
	m := &alloc.Mock{Region: make([]byte, 16), LockErr: boom}

	b, err := NewTBlob[float32](NewTensorDesc(FP32, Shape{4}, C), m)
	require.NoError(t, err)
	require.NoError(t, b.Allocate())

	_, err = b.CBuffer()
	require.ErrorIs(t, err, boom)

	// A region shorter than the blob is never handed out.
	m.LockErr = nil
	m.Region = make([]byte, 8)
	_, err = b.Buffer()
	require.ErrorIs(t, err, ErrAllocation)
	assert.Equal(t, 1, m.Unlocks(), "short region lock must be released")
}

func TestTBlobFromSliceDoesNotOwn(t *testing.T) {
	data := []float32{1, 2, 3, 4}
	b, err := NewTBlobFromSlice(NewTensorDesc(FP32, Shape{2, 2}, NC), data)
	require.NoError(t, err)
	assert.True(t, b.IsAllocated())

	l, err := b.Data()
	require.NoError(t, err)
	l.Set(3, 40)
	l.Release()
	assert.Equal(t, float32(40), data[3], "blob writes land in the caller's slice")

	assert.False(t, b.Deallocate(), "caller-owned memory is never released")

	_, err = NewTBlobFromSlice(NewTensorDesc(FP32, Shape{5}, C), data)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestLockedMemoryReleaseOnce(t *testing.T) {
	m := alloc.NewMock(make([]byte, 8))
	b, err := NewTBlob[uint8](NewTensorDesc(U8, Shape{8}, C), m)
	require.NoError(t, err)
	require.NoError(t, b.Allocate())

	mem, err := b.Buffer()
	require.NoError(t, err)
	mem.Release()
	mem.Release()

	assert.Nil(t, mem.Bytes())
	assert.Equal(t, 1, m.Unlocks())
}

func TestTBlobIteration(t *testing.T) {
	m := alloc.NewMock(make([]byte, 4*4))
	b, err := NewTBlob[int32](NewTensorDesc(I32, Shape{4}, C), m)
	require.NoError(t, err)

	_, err = b.Values()
	require.ErrorIs(t, err, ErrInvalidState)
	_, err = b.Elements()
	require.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, b.Allocate())

	elems, err := b.Elements()
	require.NoError(t, err)
	for i, v := range elems {
		*v = int32(i * 10) //nolint:gosec // G115: small test index
	}

	vals, err := b.Values()
	require.NoError(t, err)

	var got []int32
	for v := range vals {
		got = append(got, v)
	}
	assert.Equal(t, []int32{0, 10, 20, 30}, got)

	// Restartable: a second traversal sees the same values.
	got = got[:0]
	for v := range vals {
		got = append(got, v)
	}
	assert.Equal(t, []int32{0, 10, 20, 30}, got)

	assert.Equal(t, 1, m.Locks(alloc.LockForWrite))
	assert.Equal(t, 2, m.Locks(alloc.LockForRead))
	assert.Equal(t, 3, m.Unlocks())
}

func TestShapeOverflowIsRejected(t *testing.T) {
	huge := Shape{math.MaxInt / 2, 3}

	require.ErrorIs(t, huge.Validate(), ErrOutOfRange)
	require.NoError(t, Shape{math.MaxInt / 2, 3, 0}.Validate(), "a zero dimension gives an empty shape")

	_, err := NewTBlob[uint8](NewTensorDesc(U8, huge, C), nil)
	require.ErrorIs(t, err, ErrOutOfRange, "element count overflows")

	_, err = NewTBlob[float32](NewTensorDesc(FP32, Shape{math.MaxInt / 2}, C), nil)
	require.ErrorIs(t, err, ErrOutOfRange, "byte size overflows")

	src := mustBlob[uint8](t, U8, Shape{16})
	_, err = NewProxy[uint8](U8, C, src, 0, huge)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewProxy[float32](FP32, C, src, 0, Shape{math.MaxInt / 2})
	require.ErrorIs(t, err, ErrOutOfRange)

	b := mustBlob[float32](t, FP32, Shape{2})
	require.ErrorIs(t, b.SetShape(Shape{math.MaxInt / 4, 2}), ErrOutOfRange)
	assert.Equal(t, Shape{2}, b.Shape())
	assert.Equal(t, 8, b.ByteSize())
}

func TestTBlobAllocateTooLarge(t *testing.T) {
	a := alloc.NewHeap()
	b, err := NewTBlob[uint8](NewTensorDesc(U8, Shape{math.MaxInt - 8}, C), a)
	require.NoError(t, err)

	err = b.Allocate()
	require.ErrorIs(t, err, ErrAllocation)
	require.ErrorIs(t, err, alloc.ErrTooLarge)
	assert.False(t, b.IsAllocated())
	assert.Zero(t, a.Stats().LiveHandles)
}

func TestTBlobDeallocateWithOpenLocks(t *testing.T) {
	a := alloc.NewHeap()
	b, err := NewTBlob[int32](NewTensorDesc(I32, Shape{4}, C), a)
	require.NoError(t, err)
	require.NoError(t, b.Allocate())

	mem, err := b.CBuffer()
	require.NoError(t, err)
	assert.False(t, b.Deallocate(), "blob is locked")
	assert.True(t, b.IsAllocated())
	mem.Release()

	view, err := NewProxy[uint8](U8, C, b, 1, Shape{4})
	require.NoError(t, err)
	data, err := view.Data()
	require.NoError(t, err)
	assert.False(t, b.Deallocate(), "blob is locked through a proxy")
	data.Release()

	seq, err := b.Values()
	require.NoError(t, err)
	for range seq {
		assert.False(t, b.Deallocate(), "blob is locked by a traversal")
		break
	}

	assert.Zero(t, a.Stats().OpenLocks)
	assert.True(t, b.Deallocate())
	assert.False(t, b.IsAllocated())
	assert.Zero(t, a.Stats().LiveHandles)
}
