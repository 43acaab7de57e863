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

package fpdt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
)

func pointer(b *acpitest.Builder, recordType RecordType, revision uint8, address uint64) {
	b.U16(uint16(recordType)).U8(pointerRecordLength).U8(revision).U32(0).U64(address)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		b := acpitest.New(Signature)
		pointer(b, RecordTypeBasicBootPointer, 1, 0x7f000000)
		pointer(b, RecordTypeS3PTPointer, 1, 0x7f001000)
		v := New().Validate(ctx, b.Table())
		require.Empty(t, v.Diagnostics)
	})

	t.Run("vendor_and_reserved", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U16(0x1234).U8(6).U8(1).U16(0)
		b.U16(0x0002).U8(4).U8(1)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"FPDTVendorRecord", "FPDTReservedRecordType"}, v.Codes())
	})

	t.Run("bad_pointer", func(t *testing.T) {
		b := acpitest.New(Signature)
		pointer(b, RecordTypeBasicBootPointer, 2, 0)
		pointer(b, RecordTypeBasicBootPointer, 1, 0x7f000000)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"FPDTBadRecordRevision", "FPDTNullPointer", "FPDTDuplicatePointerRecord"}, v.Codes())
	})

	t.Run("zero_length", func(t *testing.T) {
		b := acpitest.New(Signature)
		b.U16(0).U8(0).U8(1).Zero(12)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"FPDTZeroLengthRecord"}, v.Codes())
	})
}
