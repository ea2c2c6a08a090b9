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

package showable

import (
	"strconv"
	"strings"

	"github.com/cloudwego/act/allocator"
	"github.com/cloudwego/act/container/xstring"
	"github.com/cloudwego/act/unsafex"
)

// Render helpers for scalar fields, meant to be composed in a RenderFunc.

// Uint64 renders v in base 10.
func Uint64(a allocator.Allocator, v uint64) (*xstring.String, error) {
	var b [24]byte
	return xstring.FromString(a, unsafex.BinaryToString(strconv.AppendUint(b[:0], v, 10)))
}

// Int64 renders v in base 10.
func Int64(a allocator.Allocator, v int64) (*xstring.String, error) {
	var b [24]byte
	return xstring.FromString(a, unsafex.BinaryToString(strconv.AppendInt(b[:0], v, 10)))
}

// Float64 renders v with exactly precision digits after the point,
// e.g. 42.99 with precision 3 is "42.990".
// A negative precision uses the fewest digits representing v exactly.
func Float64(a allocator.Allocator, v float64, precision int) (*xstring.String, error) {
	var b [64]byte
	return xstring.FromString(a, unsafex.BinaryToString(strconv.AppendFloat(b[:0], v, 'f', precision, 64)))
}

// Quoted renders s surrounded by double quotes. s ends at its first NUL byte.
func Quoted(a allocator.Allocator, s string) (*xstring.String, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	str, err := xstring.WithCapacity(a, len(s)+3)
	if err != nil {
		return nil, err
	}
	if err = str.PushChar('"'); err == nil {
		if err = str.PushString(s); err == nil {
			err = str.PushChar('"')
		}
	}
	if err != nil {
		_ = str.Free()
		return nil, err
	}
	return str, nil
}
