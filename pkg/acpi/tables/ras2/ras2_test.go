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

package ras2

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
)

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U16(0).U16(2)
		b.U8(0).U16(0).U8(FeatureTypeMemory).U32(0)
		b.U8(1).U16(0).U8(0x80).U32(1)
		v := New().Validate(ctx, b.Table())
		require.Empty(t, v.Diagnostics)
	})

	t.Run("bad_descriptors", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U16(0).U16(2)
		b.U8(5).U16(0).U8(0x10).U32(0)
		b.U8(5).U16(0).U8(0).U32(1)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"RAS2BadFeatureType", "RAS2DuplicatePCCID"}, v.Codes())
	})

	t.Run("count_exceeds_table", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U16(0).U16(0xffff)
		b.U8(0).U16(0).U8(0).U32(0)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"RAS2BadDescriptorCount"}, v.Codes())
	})
}
