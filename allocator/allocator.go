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

// Package allocator defines the memory capability every container in this
// module allocates through, and a few implementations of it.
//
// Containers never call make or the runtime directly for their element
// storage. They are handed an Allocator at construction and keep using it
// until Free, which makes it possible to back them with a fixed arena,
// a pool, or an instrumented allocator in tests.
package allocator

import (
	"math"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// Allocator allocates, resizes and frees raw memory.
//
// A block returned by Alloc or Resize is owned by whoever stores it, and must
// only be resized or freed through the Allocator that returned it.
// Implementations report failure by returning nil, they never abort.
type Allocator interface {
	// Alloc returns n*size zeroed bytes, or nil if the allocation failed.
	// If n*size is zero, a non-nil empty slice is returned.
	Alloc(n, size int) []byte

	// Resize changes the size of buf to n*size bytes like realloc.
	// The returned block may start at a different address, the first
	// min(len(buf), n*size) bytes are preserved and the rest is zeroed.
	// On failure it returns nil and buf is left untouched.
	// Resize(nil, n, size) is the same as Alloc(n, size).
	Resize(buf []byte, n, size int) []byte

	// Free releases buf. Freeing nil or an empty slice is a no-op.
	Free(buf []byte)
}

// GPA is the general purpose allocator backed by the Go heap.
//
// Memory is reclaimed by the GC, so Free is a no-op, but containers still
// call it exactly once which keeps them portable to other allocators.
var GPA Allocator = heapAllocator{}

type heapAllocator struct{}

func (heapAllocator) Alloc(n, size int) []byte {
	sz, ok := blockSize(n, size)
	if !ok {
		return nil
	}
	return make([]byte, sz)
}

func (a heapAllocator) Resize(buf []byte, n, size int) []byte {
	if buf == nil {
		return a.Alloc(n, size)
	}
	sz, ok := blockSize(n, size)
	if !ok {
		return nil
	}
	if sz == 0 {
		return make([]byte, 0)
	}
	// no need to zero the whole block, only the tail after copy
	nbuf := dirtmake.Bytes(sz, sz)
	m := copy(nbuf, buf)
	clear(nbuf[m:])
	return nbuf
}

func (heapAllocator) Free([]byte) {}

// blockSize returns n*size, or false if the result is negative or overflows.
func blockSize(n, size int) (int, bool) {
	if n < 0 || size < 0 {
		return 0, false
	}
	if n != 0 && size > math.MaxInt/n {
		return 0, false
	}
	return n * size, true
}
