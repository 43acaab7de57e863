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

package rsdp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
	"github.com/immune-gmbh/fwtest/pkg/acpi/checksum"
)

func build(revision uint8, rsdt uint32, xsdt uint64) []byte {
	var b acpitest.Buf
	b.Raw([]byte(Magic)...).U8(0).Raw([]byte("FWTEST")...).U8(revision).U32(rsdt)
	if revision == 0 {
		data := b.Bytes()
		checksum.Fix(data, offsetChecksum)
		return data
	}
	b.U32(V2Size).U64(xsdt).U8(0).Zero(3)
	data := b.Bytes()
	checksum.Fix(data[:V1Size], offsetChecksum)
	checksum.Fix(data, offsetExtendedChecksum)
	return data
}

func validate(data []byte) []string {
	return New().Validate(context.Background(), acpitest.FromBytes(Signature, data)).Codes()
}

func TestValidate(t *testing.T) {
	t.Run("valid_v1", func(t *testing.T) {
		require.Empty(t, validate(build(0, 0x7fff0000, 0)))
	})

	t.Run("valid_v2", func(t *testing.T) {
		require.Empty(t, validate(build(2, 0x7fff0000, 0x7fff1000)))
	})

	t.Run("bad_checksum", func(t *testing.T) {
		data := build(0, 0x7fff0000, 0)
		data[offsetChecksum]++
		require.Equal(t, []string{"RSDPBadChecksum"}, validate(data))
	})

	t.Run("bad_extended_checksum", func(t *testing.T) {
		data := build(2, 0x7fff0000, 0x7fff1000)
		data[offsetExtendedChecksum]++
		require.Equal(t, []string{"RSDPBadExtendedChecksum"}, validate(data))
	})

	t.Run("extended_checksum_ignored_for_v1", func(t *testing.T) {
		data := append(build(0, 0x7fff0000, 0), 0xff)
		require.Empty(t, validate(data))
	})

	t.Run("revision_1", func(t *testing.T) {
		require.Equal(t, []string{"RSDPBadRevision"}, validate(build(1, 0x7fff0000, 0x7fff1000)))
	})

	t.Run("null_addresses", func(t *testing.T) {
		require.Equal(t, []string{"RSDPNullRSDTAddress"}, validate(build(0, 0, 0)))
		require.Equal(t, []string{"RSDPNullXSDTAddress"}, validate(build(2, 0, 0)))
	})

	t.Run("too_short", func(t *testing.T) {
		data := build(2, 0x7fff0000, 0x7fff1000)
		require.Equal(t, []string{"RSDPTooShort"}, validate(data[:30]))
		require.Equal(t, []string{"RSDPTooShort"}, validate(data[:10]))
	})

	t.Run("bad_signature", func(t *testing.T) {
		data := build(0, 0x7fff0000, 0)
		data[0] = 'X'
		checksum.Fix(data, offsetChecksum)
		require.Equal(t, []string{"RSDPBadSignature"}, validate(data))
	})
}
