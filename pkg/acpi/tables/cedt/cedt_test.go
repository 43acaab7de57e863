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

package cedt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
)

func chbs(b *acpitest.Builder, uid, version uint32, length uint64) {
	b.U8(uint8(SubtableTypeCHBS)).U8(0).U16(chbsSize).
		U32(uid).U32(version).U32(0).U64(0xfe000000).U64(length)
}

func cfmws(b *acpitest.Builder, eniw uint8, targets int) {
	b.U8(uint8(SubtableTypeCFMWS)).U8(0).U16(uint16(cfmwsFixedSize + 4*targets)).
		U32(0).U64(0x1000000000).U64(0x40000000).U8(eniw).U8(0).U16(0).U32(0).U16(0x000f).U16(0)
	for i := 0; i < targets; i++ {
		b.U32(uint32(i))
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		b := acpitest.New(Signature)
		chbs(b, 0, CXLVersionRCH, chbsLengthRCH)
		chbs(b, 1, CXLVersionHostBridge, chbsLengthHostBridge)
		cfmws(b, 1, 2)
		cfmws(b, 8, 3)
		b.U8(uint8(SubtableTypeCXIMS)).U8(0).U16(24).U16(0).U8(0).U8(2).U64(1).U64(2)
		b.U8(uint8(SubtableTypeRDPAS)).U8(0).U16(rdpasSize).U16(0).U16(0x0100).U8(1).U64(0xfe100000)
		v := New().Validate(ctx, b.Table())
		require.Empty(t, v.Diagnostics)
	})

	t.Run("chbs_rch_bad_length", func(t *testing.T) {
		b := acpitest.New(Signature)
		chbs(b, 0, CXLVersionRCH, 0x1000)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"CEDTBadCHBSLength"}, v.Codes())
		require.False(t, v.Finalize().OverallPass)
	})

	t.Run("chbs_bad_version", func(t *testing.T) {
		b := acpitest.New(Signature)
		chbs(b, 0, 2, chbsLengthRCH)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"CEDTBadCHBSVersion"}, v.Codes())
	})

	t.Run("chbs_duplicate_uid", func(t *testing.T) {
		b := acpitest.New(Signature)
		chbs(b, 7, CXLVersionRCH, chbsLengthRCH)
		chbs(b, 7, CXLVersionRCH, chbsLengthRCH)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"CEDTDuplicateCHBSUID"}, v.Codes())
	})

	t.Run("cfmws_bad_fields", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U8(uint8(SubtableTypeCFMWS)).U8(0).U16(cfmwsFixedSize + 4).
			U32(0).U64(0x1000000000).U64(0x40000000).U8(0).U8(2).U16(0).U32(0).U16(0x0020).U16(0).U32(0)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"CEDTBadCFMWSInterleaveArithmetic", "CEDTReservedBitUsed"}, v.Codes())
	})

	t.Run("cfmws_targets_mismatch", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U8(uint8(SubtableTypeCFMWS)).U8(0).U16(cfmwsFixedSize + 4).
			U32(0).U64(0x1000000000).U64(0x40000000).U8(2).U8(0).U16(0).U32(0).U16(0).U16(0).U32(0)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"CEDTBadSubtableLength"}, v.Codes())
	})

	t.Run("unknown_type_continues", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U8(9).U8(0).U16(4)
		chbs(b, 0, CXLVersionRCH, 0x1000)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"CEDTBadSubtableType", "CEDTBadCHBSLength"}, v.Codes())
	})

	t.Run("zero_length_subtable", func(t *testing.T) {
		b := acpitest.New(Signature)
		chbs(b, 0, CXLVersionRCH, chbsLengthRCH)
		b.U8(uint8(SubtableTypeCHBS)).U8(0).U16(0)
		chbs(b, 1, CXLVersionRCH, 0x1000)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"CEDTZeroLengthRecord"}, v.Codes())
	})

	t.Run("subtable_crosses_table", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U8(uint8(SubtableTypeCHBS)).U8(0).U16(0x100).U32(0)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"CEDTRecordOutOfRange"}, v.Codes())
	})
}

func TestInterleaveWays(t *testing.T) {
	for eniw, expected := range map[uint8]uint64{0: 1, 1: 2, 2: 4, 3: 8, 4: 16, 8: 3, 9: 6, 10: 12} {
		ways, ok := interleaveWays(eniw)
		require.True(t, ok)
		require.Equal(t, expected, ways)
	}
	for _, eniw := range []uint8{5, 6, 7, 11, 0xff} {
		_, ok := interleaveWays(eniw)
		require.False(t, ok)
	}
}
