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

package xstring

import "errors"

var (
	// ErrNullString is returned when the *String is nil.
	ErrNullString = errors.New("xstring: nil string")

	// ErrNullAllocator is returned when no allocator is given,
	// or when the string was already freed.
	ErrNullAllocator = errors.New("xstring: nil allocator")

	// ErrAllocationFailed is returned when the allocator fails to create a buffer.
	ErrAllocationFailed = errors.New("xstring: allocation failed")

	// ErrResizeFailed is returned when the allocator fails to grow or shrink the buffer.
	ErrResizeFailed = errors.New("xstring: resize failed")

	// ErrMemcpyFailed is returned when a buffer is too short for the bytes copied into it.
	ErrMemcpyFailed = errors.New("xstring: memcpy failed")

	// ErrMemmoveFailed is returned by Copy when the new buffer is too short.
	ErrMemmoveFailed = errors.New("xstring: memmove failed")

	// ErrEmptyString is returned by operations which need at least one byte,
	// or a buffer, to work on.
	ErrEmptyString = errors.New("xstring: empty string")

	// ErrCharNotInString is returned by FindFirstIndexOf on a miss.
	ErrCharNotInString = errors.New("xstring: char not in string")

	// ErrIndexOutOfBounds is returned by SplitAt.
	ErrIndexOutOfBounds = errors.New("xstring: index out of bounds")
)
