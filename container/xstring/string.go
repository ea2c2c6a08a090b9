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

// Package xstring implements a null-terminated dynamic byte string whose
// buffer comes from an allocator.Allocator.
//
// Unlike vector.Vector, a String grows by a fixed step of 8 bytes and
// allocates lazily: New and WithCapacity don't touch the allocator until
// the first push.
package xstring

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/gopkg/util/logger"
	"github.com/bytedance/gopkg/util/xxhash3"

	"github.com/cloudwego/act/allocator"
	"github.com/cloudwego/act/unsafex"
)

const growStep = 8

// String is a growable byte string.
//
// cap always counts the terminator slot. While data is nil, cap is only the
// capacity reserved for the first allocation.
//
// Copying a String value aliases its buffer, use Copy for a deep copy.
type String struct {
	alloc allocator.Allocator // nil after Free

	len  int
	cap  int
	data []byte // nil until the first push, or cap bytes with data[len] == 0
}

// New creates an empty string. Nothing is allocated.
func New(a allocator.Allocator) (*String, error) {
	return WithCapacity(a, 0)
}

// WithCapacity creates an empty string reserving n bytes.
// The buffer is allocated by the first push.
func WithCapacity(a allocator.Allocator, n int) (*String, error) {
	if a == nil {
		return nil, ErrNullAllocator
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrAllocationFailed, n)
	}
	return &String{alloc: a, cap: n}, nil
}

// FromString creates a string holding a copy of s.
// Like a C string, s ends at its first NUL byte.
func FromString(a allocator.Allocator, s string) (*String, error) {
	if a == nil {
		return nil, ErrNullAllocator
	}
	s = cstr(s)
	n := len(s) + 1
	buf := a.Alloc(n, 1)
	if buf == nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrAllocationFailed, n)
	}
	if len(buf) < n || copy(buf, s) != len(s) {
		a.Free(buf)
		return nil, fmt.Errorf("%w: short block of %d bytes", ErrMemcpyFailed, len(buf))
	}
	buf[len(s)] = 0
	return &String{alloc: a, len: len(s), cap: n, data: buf}, nil
}

func cstr(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}

func (s *String) check() error {
	if s == nil {
		return ErrNullString
	}
	if s.alloc == nil {
		return ErrNullAllocator
	}
	return nil
}

// Len returns the number of bytes, excluding the terminator.
func (s *String) Len() int {
	if s == nil {
		return 0
	}
	return s.len
}

// Cap returns the size of the buffer, or the reservation if not allocated yet.
func (s *String) Cap() int {
	if s == nil {
		return 0
	}
	return s.cap
}

// Allocator returns the allocator backing s, nil once freed.
func (s *String) Allocator() allocator.Allocator {
	if s == nil {
		return nil
	}
	return s.alloc
}

// Bytes returns the content without the terminator.
// It shares memory with s and is only valid until the next mutation.
func (s *String) Bytes() []byte {
	if s == nil || s.data == nil {
		return nil
	}
	return s.data[:s.len]
}

// CStr returns the content followed by the terminator, or nil if nothing is allocated.
func (s *String) CStr() []byte {
	if s == nil || s.data == nil {
		return nil
	}
	return s.data[:s.len+1]
}

// String returns a copy of the content as a Go string.
func (s *String) String() string {
	return string(s.Bytes())
}

// UnsafeString returns the content as a Go string without copying.
// The result must not be used after the next mutation or Free.
func (s *String) UnsafeString() string {
	return unsafex.BinaryToString(s.Bytes())
}

// Hash returns the xxh3 hash of the content.
func (s *String) Hash() uint64 {
	return xxhash3.Hash(s.Bytes())
}

// Equal reports whether s and b hold the same bytes.
func (s *String) Equal(b *String) bool {
	return bytes.Equal(s.Bytes(), b.Bytes())
}

// WriteTo implements io.WriterTo. The terminator is not written.
func (s *String) WriteTo(w io.Writer) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

// reserve makes sure the buffer holds at least need bytes.
// If there's no buffer yet, the reservation is allocated, or first bytes
// when nothing was reserved.
func (s *String) reserve(first, need int) error {
	if s.data == nil {
		n := s.cap
		if n == 0 {
			n = first
		}
		buf := s.alloc.Alloc(n, 1)
		if buf == nil {
			logger.Warnf("xstring: alloc %d bytes failed", n)
			return fmt.Errorf("%w: %d bytes", ErrAllocationFailed, n)
		}
		s.data = buf
		s.cap = n
	}
	if s.cap >= need {
		return nil
	}
	newCap := s.cap
	for newCap < need {
		newCap += growStep
	}
	buf := s.alloc.Resize(s.data, newCap, 1)
	if buf == nil {
		logger.Warnf("xstring: resize from %d to %d bytes failed", s.cap, newCap)
		return fmt.Errorf("%w: %d -> %d bytes", ErrResizeFailed, s.cap, newCap)
	}
	s.data = buf
	s.cap = newCap
	return nil
}

// PushChar appends c.
// Pushing 0 only rewrites the terminator, the length is unchanged.
func (s *String) PushChar(c byte) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := s.reserve(2, s.len+2); err != nil {
		return err
	}
	s.data[s.len] = c
	if c != 0 {
		s.data[s.len+1] = 0
		s.len++
	}
	return nil
}

// PushString appends str up to its first NUL byte.
func (s *String) PushString(str string) error {
	if err := s.check(); err != nil {
		return err
	}
	str = cstr(str)
	if err := s.reserve(len(str)+1, s.len+len(str)+1); err != nil {
		return err
	}
	if copy(s.data[s.len:], str) != len(str) {
		return fmt.Errorf("%w: %d bytes into %d", ErrMemcpyFailed, len(str), s.cap-s.len)
	}
	s.len += len(str)
	s.data[s.len] = 0
	return nil
}

// PopChar removes and returns the last byte.
func (s *String) PopChar() (byte, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if s.len == 0 || s.data == nil {
		return 0, ErrEmptyString
	}
	s.len--
	c := s.data[s.len]
	s.data[s.len] = 0
	return c, nil
}

// FindFirstIndexOf returns the index of the first c in s.
// The index is only meaningful if err is nil, 0 is returned on failure.
func (s *String) FindFirstIndexOf(c byte) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if s.len == 0 {
		return 0, ErrEmptyString
	}
	i := bytes.IndexByte(s.data[:s.len], c)
	if i < 0 {
		return 0, fmt.Errorf("%w: %q", ErrCharNotInString, c)
	}
	return i, nil
}

// SplitAt returns two new strings holding s[:idx] and s[idx:].
// s is left untouched and the results don't share memory with it.
func (s *String) SplitAt(idx int) (left, right *String, err error) {
	if err = s.check(); err != nil {
		return nil, nil, err
	}
	if s.len == 0 {
		return nil, nil, ErrEmptyString
	}
	if idx < 0 || idx >= s.len {
		return nil, nil, fmt.Errorf("%w: index %d, len %d", ErrIndexOutOfBounds, idx, s.len)
	}
	if left, err = s.substr(0, idx); err != nil {
		return nil, nil, err
	}
	if right, err = s.substr(idx, s.len); err != nil {
		_ = left.Free()
		return nil, nil, err
	}
	return left, right, nil
}

func (s *String) substr(from, to int) (*String, error) {
	r, err := WithCapacity(s.alloc, to-from)
	if err != nil {
		return nil, err
	}
	for _, c := range s.data[from:to] {
		if err = r.PushChar(c); err != nil {
			_ = r.Free()
			return nil, err
		}
	}
	if err = r.PushChar(0); err != nil {
		_ = r.Free()
		return nil, err
	}
	return r, nil
}

// Copy returns a deep copy of s with the same allocator, length and capacity.
func (s *String) Copy() (*String, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	c := &String{alloc: s.alloc, len: s.len, cap: s.cap}
	if s.data == nil {
		return c, nil
	}
	buf := s.alloc.Alloc(s.cap, 1)
	if buf == nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrAllocationFailed, s.cap)
	}
	if copy(buf, s.data[:s.len+1]) != s.len+1 {
		s.alloc.Free(buf)
		return nil, fmt.Errorf("%w: short block of %d bytes", ErrMemmoveFailed, len(buf))
	}
	c.data = buf
	return c, nil
}

// ShrinkToFit resizes the buffer to Len()+1 bytes.
// A string with no buffer drops its reservation instead.
func (s *String) ShrinkToFit() error {
	if err := s.check(); err != nil {
		return err
	}
	if s.data == nil {
		if s.cap > 0 {
			logger.Debugf("xstring: dropping reservation of %d bytes", s.cap)
		}
		s.cap = 0
		return nil
	}
	n := s.len + 1
	if s.cap == n {
		return nil
	}
	buf := s.alloc.Resize(s.data, n, 1)
	if buf == nil {
		logger.Warnf("xstring: resize from %d to %d bytes failed", s.cap, n)
		return fmt.Errorf("%w: %d -> %d bytes", ErrResizeFailed, s.cap, n)
	}
	s.data = buf
	s.cap = n
	return nil
}

// Free returns the buffer to the allocator.
// Any later call returns ErrNullAllocator.
func (s *String) Free() error {
	if err := s.check(); err != nil {
		return err
	}
	if s.data != nil {
		s.alloc.Free(s.data)
	}
	*s = String{}
	return nil
}

// Concat returns a new string holding a followed by b, allocated with a's allocator.
func Concat(a, b *String) (*String, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	if err := b.check(); err != nil {
		return nil, err
	}
	n := a.len + b.len
	buf := a.alloc.Alloc(n+1, 1)
	if buf == nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrAllocationFailed, n+1)
	}
	if len(buf) < n+1 {
		a.alloc.Free(buf)
		return nil, fmt.Errorf("%w: short block of %d bytes", ErrMemcpyFailed, len(buf))
	}
	m := copy(buf, a.Bytes())
	copy(buf[m:], b.Bytes())
	buf[n] = 0
	return &String{alloc: a.alloc, len: n, cap: n + 1, data: buf}, nil
}
