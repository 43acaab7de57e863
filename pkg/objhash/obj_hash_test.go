// Copyright 2023 Meta Platforms, Inc. and affiliates.
//
// Redistribution and use in source and binary forms, with or without modification, are permitted provided that the following conditions are met:
//
// 1. Redistributions of source code must retain the above copyright notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and the following disclaimer in the documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or promote products derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package objhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type custom struct {
	name string
}

func (c custom) CacheWrite(b *Builder) error {
	b.WriteString("custom")
	b.WriteString(c.name)
	return nil
}

func TestBuild(t *testing.T) {
	t.Run("order_and_values", func(t *testing.T) {
		v0 := MustBuild(1, "a", uint8(2))
		v1 := MustBuild(1, uint8(2), "a")
		v2 := MustBuild(1, "b", uint8(2))
		v3 := MustBuild(1, "a", uint8(2))

		require.Equal(t, v0, v3)
		require.NotEqual(t, v0, v1)
		require.NotEqual(t, v0, v2)
		require.NotEqual(t, v1, v2)
	})

	t.Run("boundaries", func(t *testing.T) {
		require.NotEqual(t, MustBuild("HEST", []byte("ab")), MustBuild("HESTa", []byte("b")))
		require.NotEqual(t, MustBuild("ab"), MustBuild([]byte("ab")))
		require.NotEqual(t, MustBuild(1), MustBuild(uint(1)))
	})

	t.Run("custom", func(t *testing.T) {
		require.Equal(t, MustBuild(custom{name: "x"}), MustBuild("custom", "x"))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Build(map[string]string{})
		require.Error(t, err)
	})

	t.Run("reset", func(t *testing.T) {
		b := NewBuilder()
		h0, err := b.Build("a")
		require.NoError(t, err)
		b.Reset()
		h1, err := b.Build("a")
		require.NoError(t, err)
		require.Equal(t, h0, h1)
	})
}
