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
	"unsafe"

	"github.com/bytedance/gopkg/util/logger"
)

// Limit wraps an Allocator and fails any Alloc or Resize which would make
// the live bytes exceed a fixed budget.
type Limit struct {
	a     Allocator
	max   int
	used  int
	sizes map[*byte]int
}

var _ Allocator = (*Limit)(nil)

// NewLimit returns a Limit allowing at most maxBytes live bytes from a,
// or from GPA if a is nil.
func NewLimit(a Allocator, maxBytes int) *Limit {
	if a == nil {
		a = GPA
	}
	return &Limit{a: a, max: maxBytes, sizes: make(map[*byte]int)}
}

// Used returns the live bytes allocated through l.
func (l *Limit) Used() int {
	return l.used
}

// SetMax changes the budget. Blocks already allocated are kept.
func (l *Limit) SetMax(maxBytes int) {
	l.max = maxBytes
}

// Alloc implements Allocator.
func (l *Limit) Alloc(n, size int) []byte {
	sz, ok := blockSize(n, size)
	if !ok || l.used+sz > l.max {
		logger.Debugf("allocator: limit rejects %d bytes, used=%d max=%d", sz, l.used, l.max)
		return nil
	}
	buf := l.a.Alloc(n, size)
	if buf != nil {
		l.track(buf)
	}
	return buf
}

// Resize implements Allocator.
func (l *Limit) Resize(buf []byte, n, size int) []byte {
	sz, ok := blockSize(n, size)
	old := l.sizeOf(buf)
	if !ok || l.used-old+sz > l.max {
		logger.Debugf("allocator: limit rejects resize %d -> %d bytes, used=%d max=%d", old, sz, l.used, l.max)
		return nil
	}
	nbuf := l.a.Resize(buf, n, size)
	if nbuf != nil {
		l.untrack(buf)
		l.track(nbuf)
	}
	return nbuf
}

// Free implements Allocator.
func (l *Limit) Free(buf []byte) {
	l.untrack(buf)
	l.a.Free(buf)
}

func (l *Limit) sizeOf(buf []byte) int {
	if cap(buf) == 0 {
		return 0
	}
	return l.sizes[unsafe.SliceData(buf)]
}

func (l *Limit) track(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	l.sizes[unsafe.SliceData(buf)] = len(buf)
	l.used += len(buf)
}

func (l *Limit) untrack(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	p := unsafe.SliceData(buf)
	l.used -= l.sizes[p]
	delete(l.sizes, p)
}
