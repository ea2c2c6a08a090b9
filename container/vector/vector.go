/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package vector implements a growable array whose storage comes from an
// allocator.Allocator instead of the Go runtime.
package vector

import (
	"fmt"
	"unsafe"

	"github.com/bytedance/gopkg/util/logger"

	"github.com/cloudwego/act/allocator"
	"github.com/cloudwego/act/unsafex"
)

// Vector is a dynamic array of T.
//
// Elements live in a single block obtained from the allocator given at
// construction. The GC doesn't scan that memory, so T must not contain
// pointers, New and WithCapacity return ErrPointerElem otherwise.
// Capacity doubles when a push doesn't fit, and only ShrinkToFit reduces it.
//
// A Vector is owned by one goroutine, and must be released with Free.
type Vector[T any] struct {
	alloc allocator.Allocator // nil after Free

	buf      []byte // cap*elemSize bytes
	len      int
	cap      int
	elemSize int
}

// New creates an empty vector with capacity 0.
func New[T any](a allocator.Allocator) (*Vector[T], error) {
	return WithCapacity[T](a, 0)
}

// WithCapacity creates an empty vector with room for n elements.
func WithCapacity[T any](a allocator.Allocator, n int) (*Vector[T], error) {
	if a == nil {
		return nil, ErrNullAllocator
	}
	if hasPointers(elemType[T]()) {
		return nil, fmt.Errorf("%w: %s", ErrPointerElem, elemType[T]())
	}
	var zero T
	sz := int(unsafe.Sizeof(zero))
	if n < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrAllocationFailed, n)
	}
	buf := a.Alloc(n, sz)
	if buf == nil {
		return nil, fmt.Errorf("%w: %d elements of %d bytes", ErrAllocationFailed, n, sz)
	}
	return &Vector[T]{alloc: a, buf: buf, cap: n, elemSize: sz}, nil
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	if v == nil {
		return 0
	}
	return v.len
}

// Cap returns the number of elements the vector can hold without growing.
func (v *Vector[T]) Cap() int {
	if v == nil {
		return 0
	}
	return v.cap
}

// ElemSize returns the size in bytes of T.
func (v *Vector[T]) ElemSize() int {
	if v == nil {
		return 0
	}
	return v.elemSize
}

// Allocator returns the allocator backing the vector, nil once freed.
func (v *Vector[T]) Allocator() allocator.Allocator {
	if v == nil {
		return nil
	}
	return v.alloc
}

func (v *Vector[T]) check() error {
	if v == nil {
		return ErrNullVector
	}
	if v.alloc == nil {
		return ErrNullHeader
	}
	return nil
}

// elems returns all cap slots viewed as []T.
func (v *Vector[T]) elems() []T {
	return unsafex.SliceOf[T](v.buf, v.cap)
}

// Slice returns the live elements.
// It shares memory with the vector and is only valid until the next call
// which may relocate it: Push, Append, ShrinkToFit or Free.
func (v *Vector[T]) Slice() []T {
	if v.check() != nil {
		return nil
	}
	return v.elems()[:v.len]
}

// Push appends x, growing the vector if it's full.
//
// If growing fails, the vector is left untouched.
func (v *Vector[T]) Push(x T) error {
	if err := v.check(); err != nil {
		return err
	}
	if v.len+1 > v.cap {
		newCap := 1
		if v.cap > 0 {
			newCap = 2 * v.cap
		}
		if err := v.relocate(newCap); err != nil {
			return err
		}
	}
	v.elems()[v.len] = x
	v.len++
	return nil
}

// Append pushes xs in order. It stops at the first failure.
func (v *Vector[T]) Append(xs ...T) error {
	for _, x := range xs {
		if err := v.Push(x); err != nil {
			return err
		}
	}
	return nil
}

// Pop removes and returns the last element. Capacity is unchanged.
func (v *Vector[T]) Pop() (x T, err error) {
	if err = v.check(); err != nil {
		return
	}
	if v.len == 0 {
		return x, ErrEmptyContainer
	}
	v.len--
	x = v.elems()[v.len]
	return x, nil
}

// Get returns the ith element.
func (v *Vector[T]) Get(i int) (x T, err error) {
	if err = v.check(); err != nil {
		return
	}
	if i < 0 || i >= v.len {
		return x, fmt.Errorf("%w: index %d, len %d", ErrIndexOutOfBounds, i, v.len)
	}
	return v.elems()[i], nil
}

// Set replaces the ith element.
func (v *Vector[T]) Set(i int, x T) error {
	if err := v.check(); err != nil {
		return err
	}
	if i < 0 || i >= v.len {
		return fmt.Errorf("%w: index %d, len %d", ErrIndexOutOfBounds, i, v.len)
	}
	v.elems()[i] = x
	return nil
}

// ShrinkToFit reallocates the vector so that Cap() == Len().
// It's a no-op if the vector is already tight.
func (v *Vector[T]) ShrinkToFit() error {
	if err := v.check(); err != nil {
		return err
	}
	if v.cap <= v.len {
		return nil
	}
	return v.relocate(v.len)
}

// Clone returns a deep copy of v using the same allocator.
// The copy is built by pushing, so its capacity follows the growth policy.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	c, err := New[T](v.alloc)
	if err != nil {
		return nil, err
	}
	if err = c.Append(v.Slice()...); err != nil {
		_ = c.Free()
		return nil, err
	}
	return c, nil
}

// Free releases the memory of v.
// Any later call returns ErrNullHeader.
func (v *Vector[T]) Free() error {
	if err := v.check(); err != nil {
		return err
	}
	v.alloc.Free(v.buf)
	v.alloc = nil
	v.buf = nil
	v.len = 0
	v.cap = 0
	return nil
}

// relocate moves the live elements into a fresh block of newCap elements.
// The old block is freed only after the new one is populated.
func (v *Vector[T]) relocate(newCap int) error {
	nbuf := v.alloc.Alloc(newCap, v.elemSize)
	if nbuf == nil {
		logger.Warnf("vector: alloc failed when resizing from %d to %d elements of %d bytes",
			v.cap, newCap, v.elemSize)
		return fmt.Errorf("%w: capacity %d -> %d", ErrResizeFailed, v.cap, newCap)
	}
	src := unsafex.BytesOf(v.Slice())
	if len(nbuf) < newCap*v.elemSize || copy(nbuf, src) != len(src) {
		v.alloc.Free(nbuf)
		return fmt.Errorf("%w: short block of %d bytes", ErrMemcpyFailed, len(nbuf))
	}
	v.alloc.Free(v.buf)
	v.buf = nbuf
	v.cap = newCap
	return nil
}
