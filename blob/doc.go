// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package blob provides typed memory blobs and zero-copy reinterpreting views.
//
// # Overview
//
// A TBlob[T] owns a region obtained from an Allocator and exposes it as a
// sequence of T. A Proxy[T] is a non-owning view over a byte range of
// another blob that reads the same bytes as a different element type.
//
//   - Blobs allocate and free through a pluggable Allocator (heap, mmap, WebGPU)
//   - Every access locks the allocator region and must be released
//   - Proxies never allocate or free, they forward locks to their source
//   - Iteration is lazy and restartable, one lock per traversal
//
// # Basic Usage
//
//	src, _ := blob.NewTBlob[uint8](blob.NewTensorDesc(blob.U8, blob.Shape{8}, blob.C), nil)
//	_ = src.Allocate()
//	defer src.Deallocate()
//
//	// View bytes [2, 8) as three int16 values.
//	view, err := blob.NewProxy[int16](blob.I16, blob.C, src, 2, blob.Shape{3})
//	if err != nil {
//	    return err
//	}
//
//	data, _ := view.Data()
//	defer data.Release()
//	data.Set(0, -1)
//
// # Offsets
//
// A proxy offset counts elements of the source, not of the view. The view
// starts at offset*source.ElementSize() bytes and must end within
// source.ByteSize(); ending exactly at the last byte is valid.
//
// # Byte Order
//
// Reinterpretation uses the host byte order. Values written through a view
// of one width and read through another are only portable between hosts of
// the same endianness.
package blob
