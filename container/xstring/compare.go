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

import "bytes"

// Comparison is the result of Compare.
type Comparison int8

const (
	Invalid Comparison = iota
	Equal
	NotEqual
	LessThan
	GreaterThan
)

func (c Comparison) String() string {
	switch c {
	case Equal:
		return "Equal"
	case NotEqual:
		return "NotEqual"
	case LessThan:
		return "LessThan"
	case GreaterThan:
		return "GreaterThan"
	}
	return "Invalid"
}

// Compare orders a and b by length only.
// Strings of the same length are reported Equal or NotEqual, never ordered.
func Compare(a, b *String) (Comparison, error) {
	if err := a.check(); err != nil {
		return Invalid, err
	}
	if err := b.check(); err != nil {
		return Invalid, err
	}
	if a.data == nil || b.data == nil {
		return Invalid, ErrEmptyString
	}
	switch {
	case a.len > b.len:
		return GreaterThan, nil
	case a.len < b.len:
		return LessThan, nil
	case bytes.Equal(a.Bytes(), b.Bytes()):
		return Equal, nil
	}
	return NotEqual, nil
}
