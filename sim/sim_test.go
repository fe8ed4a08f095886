/*
 * Copyright 2026 The percept Authors
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

package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZipfian(t *testing.T) {
	s := NewZipfian(1.25, 2, 100)
	for i := 0; i < 100; i++ {
		v, err := s()
		require.NoError(t, err)
		require.Less(t, v, uint64(100))
	}
}

func TestUniform(t *testing.T) {
	s := NewUniform(100)
	for i := 0; i < 100; i++ {
		v, err := s()
		require.NoError(t, err)
		require.Less(t, v, uint64(100))
	}
}

func TestReaderLirs(t *testing.T) {
	s := NewReader(ParseLirs, bytes.NewReader([]byte("1\r\n2\r\n3\r\n")))
	for want := uint64(1); want <= 3; want++ {
		v, err := s()
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
	_, err := s()
	require.Equal(t, ErrDone, err)
}

func TestReaderLirsPlainNewlines(t *testing.T) {
	s := NewReader(ParseLirs, bytes.NewReader([]byte("7\n8\n")))
	v, err := s()
	require.NoError(t, err)
	require.Equal(t, uint64(7), v)
	v, err = s()
	require.NoError(t, err)
	require.Equal(t, uint64(8), v)
}

func TestReaderAnnotatesBadLines(t *testing.T) {
	s := NewReader(ParseLirs, bytes.NewReader([]byte("1\nnot-a-number\n")))
	_, err := s()
	require.NoError(t, err)
	_, err = s()
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
}

func TestParseKeys(t *testing.T) {
	s := NewReader(ParseKeys, bytes.NewReader([]byte("alpha\nbeta\nalpha\n")))
	a1, err := s()
	require.NoError(t, err)
	b1, err := s()
	require.NoError(t, err)
	a2, err := s()
	require.NoError(t, err)
	require.Equal(t, a1, a2, "the same key must map to the same address")
	require.NotEqual(t, a1, b1)
	_, err = s()
	require.Equal(t, ErrDone, err)
}

func TestCollection(t *testing.T) {
	c := Collection(NewUniform(16), 1000)
	require.Len(t, c, 1000)
	for _, v := range c {
		require.Less(t, v, uint64(16))
	}
}
