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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	tr := NewTracker(Pool())

	b1 := tr.Alloc(2, 8)
	b2 := tr.Alloc(1, 100)
	require.NotNil(t, b1)
	require.NotNil(t, b2)
	assert.Equal(t, Stats{Allocs: 2, LiveBlocks: 2, LiveBytes: 116}, tr.Stats())

	b1 = tr.Resize(b1, 4, 8)
	require.NotNil(t, b1)
	s := tr.Stats()
	assert.Equal(t, 1, s.Resizes)
	assert.Equal(t, 2, s.LiveBlocks)
	assert.Equal(t, 132, s.LiveBytes)

	tr.Free(b1)
	tr.Free(b2)
	assert.False(t, tr.Leaked())

	// double free is counted, not forwarded
	tr.Free(b2)
	s = tr.Stats()
	assert.Equal(t, 2, s.Frees)
	assert.Equal(t, 1, s.InvalidFrees)
	assert.Equal(t, 0, s.LiveBytes)

	// empty blocks are not tracked
	z := tr.Alloc(0, 1)
	tr.Free(z)
	assert.Equal(t, 3, tr.Stats().Allocs)
	assert.Equal(t, 1, tr.Stats().InvalidFrees)
}

func TestTrackerFailures(t *testing.T) {
	tr := NewTracker(NewLimit(nil, 16))
	assert.Nil(t, tr.Alloc(1, 32))
	b := tr.Alloc(1, 16)
	require.NotNil(t, b)
	assert.Nil(t, tr.Resize(b, 1, 17))
	assert.Equal(t, 2, tr.Stats().Failures)
	assert.True(t, tr.Leaked())
	tr.Free(b)
	assert.False(t, tr.Leaked())
}

func TestTrackerBuddyDoubleFree(t *testing.T) {
	// the tracker protects the arena from a double free panic
	tr := NewTracker(newTestBuddy(t, 64<<10))
	b := tr.Alloc(1, 10)
	tr.Free(b)
	assert.NotPanics(t, func() { tr.Free(b) })
	assert.Equal(t, 1, tr.Stats().InvalidFrees)
}
