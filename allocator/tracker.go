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

// Stats is a snapshot of the calls observed by a Tracker.
type Stats struct {
	Allocs   int // successful Alloc calls
	Resizes  int // successful Resize calls
	Frees    int // Free calls of live blocks
	Failures int // Alloc or Resize calls which returned nil

	// InvalidFrees counts Free calls of blocks the Tracker doesn't know,
	// e.g. a double free. They are NOT forwarded to the underlying allocator.
	InvalidFrees int

	LiveBlocks int // non-empty blocks allocated and not yet freed
	LiveBytes  int // sum of len of live blocks
}

// Tracker wraps an Allocator and records every block passing through it.
// It's meant for tests and debugging, and is not safe for concurrent use.
type Tracker struct {
	a     Allocator
	live  map[*byte]int
	stats Stats
}

var _ Allocator = (*Tracker)(nil)

// NewTracker returns a Tracker forwarding to a, or GPA if a is nil.
func NewTracker(a Allocator) *Tracker {
	if a == nil {
		a = GPA
	}
	return &Tracker{a: a, live: make(map[*byte]int)}
}

// Alloc implements Allocator.
func (t *Tracker) Alloc(n, size int) []byte {
	buf := t.a.Alloc(n, size)
	if buf == nil {
		t.stats.Failures++
		return nil
	}
	t.stats.Allocs++
	t.add(buf)
	return buf
}

// Resize implements Allocator.
func (t *Tracker) Resize(buf []byte, n, size int) []byte {
	nbuf := t.a.Resize(buf, n, size)
	if nbuf == nil {
		t.stats.Failures++
		return nil
	}
	t.stats.Resizes++
	t.remove(buf)
	t.add(nbuf)
	return nbuf
}

// Free implements Allocator.
func (t *Tracker) Free(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	if !t.remove(buf) {
		t.stats.InvalidFrees++
		logger.Warnf("allocator: free of unknown block %p, len=%d", unsafe.SliceData(buf), len(buf))
		return
	}
	t.stats.Frees++
	t.a.Free(buf)
}

// Stats returns the current counters.
func (t *Tracker) Stats() Stats {
	return t.stats
}

// Leaked reports whether any block is still live.
func (t *Tracker) Leaked() bool {
	return t.stats.LiveBlocks != 0
}

func (t *Tracker) add(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	t.live[unsafe.SliceData(buf)] = len(buf)
	t.stats.LiveBlocks++
	t.stats.LiveBytes += len(buf)
}

func (t *Tracker) remove(buf []byte) bool {
	if cap(buf) == 0 {
		return false
	}
	p := unsafe.SliceData(buf)
	sz, ok := t.live[p]
	if !ok {
		return false
	}
	delete(t.live, p)
	t.stats.LiveBlocks--
	t.stats.LiveBytes -= sz
	return true
}
