package blob

import (
	"context"
	"fmt"

	"github.com/born-ml/blob/internal/parallel"
)

// Copy copies the bytes of src into dst. Both must be allocated and have the
// same ByteSize; precisions may differ, the bytes are copied as they are.
// src is locked for reading and dst for writing for the duration of the copy.
// Large copies are split across goroutines. dst and src must not overlap.
func Copy(ctx context.Context, dst, src Blob) error {
	return CopyWithConfig(ctx, dst, src, parallel.DefaultConfig())
}

// CopyWithConfig is Copy with explicit parallelism settings.
func CopyWithConfig(ctx context.Context, dst, src Blob, cfg parallel.Config) error {
	if dst.ByteSize() != src.ByteSize() {
		return fmt.Errorf("%w: copy of %d bytes into %d bytes", ErrOutOfRange, src.ByteSize(), dst.ByteSize())
	}

	in, err := src.CBuffer()
	if err != nil {
		return fmt.Errorf("copy source: %w", err)
	}
	defer in.Release()

	out, err := dst.Buffer()
	if err != nil {
		return fmt.Errorf("copy destination: %w", err)
	}
	defer out.Release()

	from, to := in.Bytes(), out.Bytes()
	return parallel.Chunks(ctx, len(from), cfg, func(_ context.Context, start, end int) error {
		copy(to[start:end], from[start:end])
		return nil
	})
}
