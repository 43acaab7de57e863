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

package tcpa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
)

func server(deviceFlags uint8, baseSpace uint8) *acpitest.Builder {
	b := acpitest.New(Signature)
	b.U16(uint16(PlatformClassServer)).
		U16(0).
		U64(0x10000).
		U64(0x7f000000).
		U16(0x0102).
		U8(deviceFlags).
		U8(0).
		U8(0).
		Zero(3).
		U32(0).
		GAS(baseSpace, 8, 0, 1, 0xfed40000).
		U32(0).
		GAS(0, 8, 0, 1, 0xfed40000).
		Raw(0, 0, 0, 0)
	return b
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("client", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U16(uint16(PlatformClassClient)).U32(0x10000).U64(0x7f000000)
		v := New().Validate(ctx, b.Table())
		require.Empty(t, v.Diagnostics)
	})

	t.Run("client_null", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U16(uint16(PlatformClassClient)).U32(0).U64(0)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"TCPABadLogLength", "TCPABadLogAddress"}, v.Codes())
	})

	t.Run("client_short", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U16(uint16(PlatformClassClient)).U32(0x10000)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"TCPATooShort"}, v.Codes())
	})

	t.Run("server", func(t *testing.T) {
		v := New().Validate(ctx, server(0x01, 0).Table())
		require.Empty(t, v.Diagnostics)
	})

	t.Run("server_bad", func(t *testing.T) {
		v := New().Validate(ctx, server(0x80, 3).Table())
		require.Equal(t, []string{"TCPAReservedBitUsed", "TCPABadAddressSpaceID"}, v.Codes())
	})

	t.Run("bad_class", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U16(7)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"TCPABadPlatformClass"}, v.Codes())
	})
}
