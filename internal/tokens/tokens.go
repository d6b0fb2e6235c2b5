// Package tokens builds int32 token-id blobs from text.
//
// Token ids are the usual input tensor of a language model; Window exposes
// a slice of them as a proxy so consumers can read a context window without
// copying.
package tokens

import (
	"fmt"

	"github.com/born-ml/blob/internal/alloc"
	"github.com/born-ml/blob/internal/blob"
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the encoding used when none is given.
const DefaultEncoding = "cl100k_base"

// Encoder turns text into token-id blobs using a tiktoken encoding.
type Encoder struct {
	encoding  *tiktoken.Tiktoken
	name      string
	allocator alloc.Allocator
}

// NewEncoder loads the named tiktoken encoding. An empty name selects
// DefaultEncoding; a nil allocator selects alloc.Default().
func NewEncoder(encodingName string, allocator alloc.Allocator) (*Encoder, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}
	return &Encoder{encoding: encoding, name: encodingName, allocator: allocator}, nil
}

// Name returns the encoding name.
func (e *Encoder) Name() string {
	return e.name
}

// Encode tokenizes text into an allocated I32 blob of shape [n].
func (e *Encoder) Encode(text string) (*blob.TBlob[int32], error) {
	ids := e.encoding.Encode(text, nil, nil)

	b, err := blob.NewTBlob[int32](blob.NewTensorDesc(blob.I32, blob.Shape{len(ids)}, blob.C), e.allocator)
	if err != nil {
		return nil, err
	}
	if err := b.Allocate(); err != nil {
		return nil, err
	}

	l, err := b.Data()
	if err != nil {
		b.Deallocate()
		return nil, err
	}
	defer l.Release()

	for i, id := range ids {
		l.Set(i, int32(id)) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}
	return b, nil
}

// Decode converts the token ids held by src back to text.
func (e *Encoder) Decode(src blob.Blob) (string, error) {
	if src.Precision() != blob.I32 {
		return "", fmt.Errorf("%w: token blobs are %s, got %s", blob.ErrPrecisionMismatch, blob.I32, src.Precision())
	}

	mem, err := src.CBuffer()
	if err != nil {
		return "", err
	}
	defer mem.Release()

	ids := blob.As[int32](mem)
	intIDs := make([]int, len(ids))
	for i, id := range ids {
		intIDs[i] = int(id)
	}
	return e.encoding.Decode(intIDs), nil
}

// Window returns a proxy over count tokens of src starting at token start.
func Window(src *blob.TBlob[int32], start, count int) (*blob.Proxy[int32], error) {
	return blob.NewProxy[int32](blob.I32, blob.C, src, start, blob.Shape{count})
}
