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

package allocator

import "github.com/bytedance/gopkg/lang/mcache"

type poolAllocator struct{}

// Pool returns an Allocator which recycles blocks through size-class pools.
//
// Blocks are rounded up to a power of two, so growing a block within its
// class is done in place without copying.
func Pool() Allocator {
	return poolAllocator{}
}

func (poolAllocator) Alloc(n, size int) []byte {
	sz, ok := blockSize(n, size)
	if !ok {
		return nil
	}
	if sz == 0 {
		return []byte{}
	}
	buf := mcache.Malloc(sz)
	clear(buf) // pooled buf may be dirty
	return buf
}

func (a poolAllocator) Resize(buf []byte, n, size int) []byte {
	if buf == nil {
		return a.Alloc(n, size)
	}
	sz, ok := blockSize(n, size)
	if !ok {
		return nil
	}
	if sz <= cap(buf) {
		old := len(buf)
		buf = buf[:sz]
		if sz > old {
			clear(buf[old:])
		}
		return buf
	}
	nbuf := mcache.Malloc(sz)
	m := copy(nbuf, buf)
	clear(nbuf[m:])
	a.Free(buf)
	return nbuf
}

func (poolAllocator) Free(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	mcache.Free(buf)
}
