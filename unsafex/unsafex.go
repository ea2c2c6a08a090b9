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

package unsafex

import "unsafe"

// BinaryToString converts []byte to string without copy.
// The string changes whenever b changes, do not keep it after b is freed.
func BinaryToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// SliceOf views the first n*sizeof(T) bytes of b as a []T with len and cap n.
//
// b must be suitably aligned for T and hold at least n elements.
// type T must NOT contain pointer, the memory is invisible to GC.
func SliceOf[T any](b []byte, n int) []T {
	if n == 0 {
		return []T{}
	}
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return make([]T, n)
	}
	if len(b) < n*int(unsafe.Sizeof(zero)) {
		panic("unsafex: buffer too small")
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// BytesOf views the elements of s as raw bytes without copy.
func BytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	var zero T
	sz := int(unsafe.Sizeof(zero)) * len(s)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), sz)
}
