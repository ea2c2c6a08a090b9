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

import (
	"fmt"
	"math/bits"
	"unsafe"

	"github.com/bytedance/gopkg/util/logger"
)

const (
	// blockHeaderSize is the in-band header written in front of each block:
	// [4 bytes magic][4 bytes requested size]
	blockHeaderSize = 8

	blockMagic uint32 = 0xBADF00D
)

// BuddyOption configures a Buddy allocator.
type BuddyOption struct {
	// MinBlockSize is the smallest block handed out, header included.
	// It must be a power of two greater than the 8-byte block header.
	MinBlockSize int

	// MaxBlockSize is the largest block handed out, header included.
	// It must be a power of two, and the arena must be a multiple of it.
	MaxBlockSize int
}

// DefaultBuddyOption returns the default values of BuddyOption.
// Container blocks are small, so the classes start much lower than a page.
func DefaultBuddyOption() *BuddyOption {
	return &BuddyOption{
		MinBlockSize: 64,
		MaxBlockSize: 64 << 10,
	}
}

// Buddy is an Allocator serving blocks out of a single fixed arena using the
// buddy system. It returns nil once the arena cannot fit a request, which
// makes it handy for bounding the memory a container may use.
//
// Freeing a block which was not returned by the same Buddy panics.
type Buddy struct {
	arena      []byte
	arenaStart unsafe.Pointer

	// freeLists[o] holds offsets of free blocks of size minBlock<<o.
	freeLists [][]int

	// needsCoalesce is set when a non-root block is freed,
	// buddies are only merged when an allocation can't be served.
	needsCoalesce bool

	minBlock int
	minShift int
	maxBlock int
	maxOrder int
}

// NewBuddy creates a Buddy allocator managing arena.
// If o is nil, DefaultBuddyOption is used.
func NewBuddy(arena []byte, o *BuddyOption) (*Buddy, error) {
	if o == nil {
		o = DefaultBuddyOption()
	}
	minBlock, maxBlock := o.MinBlockSize, o.MaxBlockSize
	if minBlock <= 0 || minBlock&(minBlock-1) != 0 {
		return nil, fmt.Errorf("buddy: MinBlockSize must be a power of two, got %d", minBlock)
	}
	if maxBlock <= 0 || maxBlock&(maxBlock-1) != 0 {
		return nil, fmt.Errorf("buddy: MaxBlockSize must be a power of two, got %d", maxBlock)
	}
	if minBlock > maxBlock {
		return nil, fmt.Errorf("buddy: MinBlockSize (%d) must be <= MaxBlockSize (%d)", minBlock, maxBlock)
	}
	if minBlock <= blockHeaderSize {
		return nil, fmt.Errorf("buddy: MinBlockSize must be > %d, got %d", blockHeaderSize, minBlock)
	}
	if len(arena) < maxBlock || len(arena)%maxBlock != 0 {
		return nil, fmt.Errorf("buddy: arena size must be a multiple of %d, got %d", maxBlock, len(arena))
	}

	minShift := bits.TrailingZeros(uint(minBlock))
	b := &Buddy{
		arena:      arena,
		arenaStart: unsafe.Pointer(&arena[0]),
		minBlock:   minBlock,
		minShift:   minShift,
		maxBlock:   maxBlock,
		maxOrder:   bits.TrailingZeros(uint(maxBlock)) - minShift,
	}
	b.freeLists = make([][]int, b.maxOrder+1)
	b.Reset()
	return b, nil
}

// Alloc implements Allocator.
func (b *Buddy) Alloc(n, size int) []byte {
	sz, ok := blockSize(n, size)
	if !ok {
		return nil
	}
	if sz == 0 {
		return []byte{}
	}
	buf := b.alloc(sz)
	clear(buf) // blocks are recycled
	return buf
}

// Resize implements Allocator.
// It grows in place while the request still fits the current block.
func (b *Buddy) Resize(buf []byte, n, size int) []byte {
	if buf == nil {
		return b.Alloc(n, size)
	}
	sz, ok := blockSize(n, size)
	if !ok {
		return nil
	}
	if sz > 0 && sz <= cap(buf) {
		old := len(buf)
		buf = buf[:sz]
		if sz > old {
			clear(buf[old:])
		}
		b.setSize(buf, sz)
		return buf
	}
	nbuf := b.Alloc(n, size)
	if nbuf == nil {
		return nil
	}
	copy(nbuf, buf)
	b.Free(buf)
	return nbuf
}

// Free implements Allocator.
// The block must be the slice returned by Alloc or Resize, or a reslice of it
// which keeps its capacity.
func (b *Buddy) Free(buf []byte) {
	c := cap(buf)
	if c == 0 {
		return
	}
	if c > b.maxBlock {
		panic("buddy: invalid block size")
	}
	offset := b.blockOffset(buf)
	if offset < 0 || offset >= len(b.arena) {
		logger.Errorf("buddy: freeing block not in arena, offset=%d", offset)
		panic("buddy: block not in arena")
	}
	hdr := unsafe.Add(b.arenaStart, offset)
	if *(*uint32)(hdr) != blockMagic {
		logger.Errorf("buddy: double free or invalid block, offset=%d", offset)
		panic("buddy: double free or invalid block")
	}
	if int(*(*uint32)(unsafe.Add(hdr, 4))) > c {
		panic("buddy: corrupted size")
	}
	total := c + blockHeaderSize
	if offset&(total-1) != 0 {
		panic("buddy: misaligned block")
	}
	*(*uint32)(hdr) = 0

	order := b.order(total)
	b.freeLists[order] = append(b.freeLists[order], offset)
	if order < b.maxOrder {
		b.needsCoalesce = true
	}
}

// Available returns the total free bytes available for allocation.
func (b *Buddy) Available() int {
	total := 0
	for o, fl := range b.freeLists {
		total += len(fl) * ((b.minBlock << o) - blockHeaderSize)
	}
	return total
}

// Reset drops all allocations and returns the arena to its initial state.
// Blocks handed out before Reset MUST NOT be used or freed after it.
func (b *Buddy) Reset() {
	for o := range b.freeLists {
		b.freeLists[o] = b.freeLists[o][:0]
	}
	for off := 0; off < len(b.arena); off += b.maxBlock {
		b.freeLists[b.maxOrder] = append(b.freeLists[b.maxOrder], off)
	}
	b.needsCoalesce = false
}

func (b *Buddy) alloc(sz int) []byte {
	if sz > b.maxBlock-blockHeaderSize {
		return nil
	}
	order := b.order(sz + blockHeaderSize)

	found := -1
	for o := order; o <= b.maxOrder; o++ {
		if len(b.freeLists[o]) > 0 {
			found = o
			break
		}
	}
	if found == -1 && b.needsCoalesce {
		found = b.coalesceUntil(order)
		if found == -1 {
			b.needsCoalesce = false
		}
	}
	if found == -1 {
		return nil
	}

	fl := b.freeLists[found]
	offset := fl[len(fl)-1]
	b.freeLists[found] = fl[:len(fl)-1]

	// split, left half keeps the offset, right half goes to the lower order
	for found > order {
		found--
		b.freeLists[found] = append(b.freeLists[found], offset+(b.minBlock<<found))
	}

	hdr := unsafe.Add(b.arenaStart, offset)
	*(*uint32)(hdr) = blockMagic
	*(*uint32)(unsafe.Add(hdr, 4)) = uint32(sz)

	blockLen := (b.minBlock << order) - blockHeaderSize
	return unsafe.Slice((*byte)(unsafe.Add(hdr, blockHeaderSize)), blockLen)[:sz]
}

// coalesceUntil merges free buddies bottom up until a block of at least
// target order exists. It returns that order, or -1.
func (b *Buddy) coalesceUntil(target int) int {
	for o := 0; o < target; o++ {
		fl := b.freeLists[o]
		if len(fl) < 2 {
			continue
		}
		sortInts(fl)
		bs := b.minBlock << o
		n := 0
		for i := 0; i < len(fl); {
			off := fl[i]
			if i+1 < len(fl) && fl[i+1] == off^bs {
				b.freeLists[o+1] = append(b.freeLists[o+1], off&^bs)
				i += 2
				continue
			}
			fl[n] = off
			n++
			i++
		}
		b.freeLists[o] = fl[:n]
	}
	for o := target; o <= b.maxOrder; o++ {
		if len(b.freeLists[o]) > 0 {
			return o
		}
	}
	return -1
}

func (b *Buddy) blockOffset(buf []byte) int {
	p := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	return int(p-uintptr(b.arenaStart)) - blockHeaderSize
}

func (b *Buddy) setSize(buf []byte, sz int) {
	hdr := unsafe.Add(b.arenaStart, b.blockOffset(buf))
	*(*uint32)(unsafe.Add(hdr, 4)) = uint32(sz)
}

// order returns the smallest order whose block fits sz bytes.
func (b *Buddy) order(sz int) int {
	if sz <= b.minBlock {
		return 0
	}
	return bits.Len(uint(sz-1)) - b.minShift
}

// sortInts is an insertion sort, free lists are short and mostly sorted.
func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j] < a[j-1]; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
