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
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/act/allocator"
	"github.com/cloudwego/act/container/xstring"
)

type tst struct {
	val1 int
	val2 float64
	val3 string
}

func renderTst(a allocator.Allocator, v *tst) (*xstring.String, error) {
	val1, err := Int64(a, int64(v.val1))
	if err != nil {
		return nil, err
	}
	defer val1.Free()
	val2, err := Float64(a, v.val2, 3)
	if err != nil {
		return nil, err
	}
	defer val2.Free()
	val3, err := Quoted(a, v.val3)
	if err != nil {
		return nil, err
	}
	defer val3.Free()

	s, err := xstring.New(a)
	if err != nil {
		return nil, err
	}
	for _, part := range []string{
		"Tst {\n  val1 = ", val1.UnsafeString(),
		",\n  val2 = ", val2.UnsafeString(),
		",\n  val3 = ", val3.UnsafeString(),
		"\n}",
	} {
		if err = s.PushString(part); err != nil {
			_ = s.Free()
			return nil, err
		}
	}
	return s, nil
}

const tstWant = "Tst {\n  val1 = 22,\n  val2 = 42.990,\n  val3 = \"Hello World!\"\n}"

func TestShowableStruct(t *testing.T) {
	tr := allocator.NewTracker(nil)
	sh, err := New(tr, renderTst)
	require.NoError(t, err)
	*sh.Value() = tst{val1: 22, val2: 42.99, val3: "Hello World!"}

	str, err := sh.AsString()
	require.NoError(t, err)
	assert.Equal(t, tstWant, str.String())
	require.NoError(t, str.Free())

	var buf bytes.Buffer
	require.NoError(t, sh.Display(&buf))
	assert.Equal(t, tstWant, buf.String())

	require.NoError(t, sh.Free())
	assert.False(t, tr.Leaked())
	assert.Equal(t, 0, tr.Stats().InvalidFrees)
}

func TestNew(t *testing.T) {
	_, err := New[tst](nil, renderTst)
	assert.ErrorIs(t, err, ErrNullAllocator)
	_, err = New[tst](allocator.GPA, nil)
	assert.ErrorIs(t, err, ErrNullRender)

	sh, err := New(allocator.GPA, renderTst)
	require.NoError(t, err)
	assert.Equal(t, tst{}, *sh.Value())
	assert.Equal(t, allocator.GPA, sh.Allocator())
}

func TestFree(t *testing.T) {
	sh, err := New(allocator.GPA, renderTst)
	require.NoError(t, err)
	require.NoError(t, sh.Free())
	assert.ErrorIs(t, sh.Free(), ErrNullShowable)
	assert.Nil(t, sh.Value())
	assert.Nil(t, sh.Allocator())
	_, err = sh.AsString()
	assert.ErrorIs(t, err, ErrNullShowable)
	assert.ErrorIs(t, sh.Display(&bytes.Buffer{}), ErrNullShowable)

	var n *Showable[tst]
	assert.ErrorIs(t, n.Free(), ErrNullShowable)
	assert.Nil(t, n.Value())
}

func TestAsStringEmpty(t *testing.T) {
	tr := allocator.NewTracker(nil)
	sh, err := New(tr, func(a allocator.Allocator, _ *int) (*xstring.String, error) {
		return xstring.FromString(a, "")
	})
	require.NoError(t, err)
	_, err = sh.AsString()
	assert.ErrorIs(t, err, ErrEmptyString)
	assert.False(t, tr.Leaked())

	sh, err = New(tr, func(allocator.Allocator, *int) (*xstring.String, error) {
		return nil, nil
	})
	require.NoError(t, err)
	_, err = sh.AsString()
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestAsStringRenderError(t *testing.T) {
	sh, err := New(allocator.NewLimit(nil, 0), renderTst)
	require.NoError(t, err)
	_, err = sh.AsString()
	assert.ErrorIs(t, err, xstring.ErrAllocationFailed)
	assert.ErrorIs(t, sh.Display(&bytes.Buffer{}), xstring.ErrAllocationFailed)
}

type errWriter struct{ n int }

func (w errWriter) Write(p []byte) (int, error) {
	if w.n < len(p) {
		return w.n, errors.New("disk full")
	}
	return len(p), nil
}

func TestDisplay(t *testing.T) {
	tr := allocator.NewTracker(nil)
	sh, err := New(tr, renderTst)
	require.NoError(t, err)
	*sh.Value() = tst{val1: -1, val2: 0.5, val3: "x"}

	assert.ErrorIs(t, sh.Display(nil), ErrNullWriter)
	assert.ErrorIs(t, sh.Display(errWriter{n: 3}), ErrWriteFailed)
	require.NoError(t, sh.Display(errWriter{n: 1 << 10}))

	var buf bytes.Buffer
	require.NoError(t, sh.Display(&buf))
	assert.Equal(t, "Tst {\n  val1 = -1,\n  val2 = 0.500,\n  val3 = \"x\"\n}", buf.String())
	assert.False(t, tr.Leaked())
}

func TestScalars(t *testing.T) {
	check := func(want string) func(*xstring.String, error) {
		return func(s *xstring.String, err error) {
			t.Helper()
			require.NoError(t, err)
			assert.Equal(t, want, s.String())
			assert.Equal(t, len(want)+1, s.Cap())
			require.NoError(t, s.Free())
		}
	}
	a := allocator.GPA
	check("10")(Uint64(a, uint64(uint8(10))))
	check("20")(Uint64(a, uint64(uint16(20))))
	check("0")(Uint64(a, 0))
	check("18446744073709551615")(Uint64(a, math.MaxUint64))
	check("50")(Int64(a, 50))
	check("-9223372036854775808")(Int64(a, math.MinInt64))

	check("10.11")(Float64(a, float64(float32(10.11)), 2))
	check("20.22")(Float64(a, 20.22, 2))
	check("42.990")(Float64(a, 42.99, 3))
	check("3")(Float64(a, 3, 0))
	check("0.05")(Float64(a, 0.05, -1))

	check("\"Hello World!\"")(Quoted(a, "Hello World!"))
	check("\"\"")(Quoted(a, ""))
	check("\"ab\"")(Quoted(a, "ab\x00cd"))
}

func TestScalarsFailure(t *testing.T) {
	l := allocator.NewLimit(nil, 2)
	_, err := Uint64(l, 100)
	assert.ErrorIs(t, err, xstring.ErrAllocationFailed)
	_, err = Quoted(l, "x")
	assert.ErrorIs(t, err, xstring.ErrAllocationFailed)
	assert.Equal(t, 0, l.Used())
}
