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

// Package showable lets a value render itself as an xstring.String.
package showable

import (
	"errors"
	"fmt"
	"io"

	"github.com/cloudwego/act/allocator"
	"github.com/cloudwego/act/container/xstring"
)

var (
	ErrNullShowable  = errors.New("showable: nil or freed showable")
	ErrNullAllocator = errors.New("showable: nil allocator")
	ErrNullRender    = errors.New("showable: nil render func")
	ErrEmptyString   = errors.New("showable: render returned an empty string")
	ErrNullWriter    = errors.New("showable: nil writer")
	ErrWriteFailed   = errors.New("showable: write failed")
)

// RenderFunc renders v into a new string allocated with a.
// The caller owns the result.
type RenderFunc[T any] func(a allocator.Allocator, v *T) (*xstring.String, error)

// Showable wraps a value of T with the func rendering it.
type Showable[T any] struct {
	alloc  allocator.Allocator // nil after Free
	render RenderFunc[T]
	value  T
}

// New returns a Showable holding the zero value of T.
// Use Value to set it.
func New[T any](a allocator.Allocator, render RenderFunc[T]) (*Showable[T], error) {
	if a == nil {
		return nil, ErrNullAllocator
	}
	if render == nil {
		return nil, ErrNullRender
	}
	return &Showable[T]{alloc: a, render: render}, nil
}

func (s *Showable[T]) check() error {
	if s == nil || s.alloc == nil {
		return ErrNullShowable
	}
	return nil
}

// Value returns the wrapped value for in-place updates, nil once freed.
func (s *Showable[T]) Value() *T {
	if s.check() != nil {
		return nil
	}
	return &s.value
}

// Allocator returns the allocator rendered strings come from.
func (s *Showable[T]) Allocator() allocator.Allocator {
	if s == nil {
		return nil
	}
	return s.alloc
}

// AsString renders the value. The caller must Free the result.
func (s *Showable[T]) AsString() (*xstring.String, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	str, err := s.render(s.alloc, &s.value)
	if err != nil {
		return nil, err
	}
	if str.Len() == 0 {
		if str != nil {
			_ = str.Free()
		}
		return nil, ErrEmptyString
	}
	return str, nil
}

// Display renders the value into w.
func (s *Showable[T]) Display(w io.Writer) error {
	if err := s.check(); err != nil {
		return err
	}
	if w == nil {
		return ErrNullWriter
	}
	str, err := s.AsString()
	if err != nil {
		return err
	}
	defer str.Free()

	n, err := str.WriteTo(w)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrWriteFailed, err)
	}
	if int(n) != str.Len() {
		return fmt.Errorf("%w: short write %d of %d bytes", ErrWriteFailed, n, str.Len())
	}
	return nil
}

// Free releases s. Any later call returns ErrNullShowable.
func (s *Showable[T]) Free() error {
	if err := s.check(); err != nil {
		return err
	}
	*s = Showable[T]{}
	return nil
}
