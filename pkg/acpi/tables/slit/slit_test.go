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

package slit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
)

func build(n uint64, entries ...byte) *acpitest.Builder {
	b := acpitest.New(Signature)
	b.U64(n).Raw(entries...)
	return b
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("symmetric", func(t *testing.T) {
		v := New().Validate(ctx, build(2, 10, 20, 20, 10).Table())
		require.True(t, v.Finalize().OverallPass)
		require.Empty(t, v.Diagnostics)
	})

	t.Run("asymmetric", func(t *testing.T) {
		v := New().Validate(ctx, build(2, 10, 20, 21, 10).Table())
		require.False(t, v.Finalize().OverallPass)
		require.Equal(t, []string{"SLITAsymmetricEntry"}, v.Codes())
	})

	t.Run("unreachable", func(t *testing.T) {
		v := New().Validate(ctx, build(2, 10, 0xff, 0xff, 10).Table())
		require.Empty(t, v.Diagnostics)
	})

	t.Run("bad_entries", func(t *testing.T) {
		v := New().Validate(ctx, build(2, 11, 5, 5, 10).Table())
		require.Equal(t, []string{"SLITBadCornerEntry", "SLITEntryReserved", "SLITEntryReserved"}, v.Codes())
	})

	t.Run("huge_count_small_table", func(t *testing.T) {
		v := New().Validate(ctx, build(0xffff, 10).Table())
		require.Equal(t, []string{"SLITTooManySystemLocalities"}, v.Codes())
	})

	t.Run("count_overflows", func(t *testing.T) {
		// 0x100000000 squared wraps to zero in 64 bits
		v := New().Validate(ctx, build(1<<32, 10).Table())
		require.Equal(t, []string{"SLITTooManySystemLocalities"}, v.Codes())
	})

	t.Run("no_localities", func(t *testing.T) {
		v := New().Validate(ctx, build(0).Table())
		require.Empty(t, v.Diagnostics)
	})
}
