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

package vector

import "errors"

var (
	// ErrNullVector is returned when the *Vector is nil.
	ErrNullVector = errors.New("vector: nil vector")

	// ErrNullHeader is returned when the vector bookkeeping is gone,
	// which happens after Free.
	ErrNullHeader = errors.New("vector: vector already freed")

	// ErrNullAllocator is returned when no allocator is given.
	ErrNullAllocator = errors.New("vector: nil allocator")

	// ErrAllocationFailed is returned when the allocator fails on construction.
	ErrAllocationFailed = errors.New("vector: allocation failed")

	// ErrMemcpyFailed is returned when a block is too short to hold the elements copied into it.
	ErrMemcpyFailed = errors.New("vector: memcpy failed")

	// ErrResizeFailed is returned when the allocator fails to grow or shrink the vector.
	ErrResizeFailed = errors.New("vector: resize failed")

	// ErrEmptyContainer is returned by Pop on an empty vector.
	ErrEmptyContainer = errors.New("vector: empty vector")

	// ErrIndexOutOfBounds is returned by Get and Set.
	ErrIndexOutOfBounds = errors.New("vector: index out of bounds")

	// ErrPointerElem is returned when the element type holds Go pointers,
	// which the allocator memory would hide from the GC.
	ErrPointerElem = errors.New("vector: element type contains pointers")
)
