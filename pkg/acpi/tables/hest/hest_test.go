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

package hest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
)

type builder struct {
	*acpitest.Builder
	sourceID uint16
}

func newBuilder(count uint32) *builder {
	b := &builder{Builder: acpitest.New(Signature)}
	b.U32(count)
	return b
}

func (b *builder) header(t ErrorSourceType) {
	b.U16(uint16(t)).U16(b.sourceID)
	b.sourceID++
}

func (b *builder) common() {
	b.U16(0).U8(0).U8(1).U32(1).U32(1)
}

func (b *builder) notification(notificationType uint8) {
	b.U8(notificationType).U8(notificationSize).U16(0x003f).U32(1000).U32(0).U32(0).U32(0).U32(0).U32(0)
}

func (b *builder) banks(count int, format uint8) {
	for i := 0; i < count; i++ {
		b.U8(uint8(i)).U8(1).U8(format).U8(0).U32(0x400).U64(0).U32(0x401).U32(0x402).U32(0x403)
	}
}

func (b *builder) machineCheck(banks int) {
	b.header(ErrorSourceTypeIA32MachineCheck)
	b.common()
	b.U64(0).U64(0).U8(uint8(banks)).Zero(7)
	b.banks(banks, 0)
}

func (b *builder) correctedMachineCheck(banks int) {
	b.header(ErrorSourceTypeIA32CorrectedMachineCheck)
	b.common()
	b.notification(2)
	b.U8(uint8(banks)).Zero(3)
	b.banks(banks, 1)
}

func (b *builder) nmi() {
	b.header(ErrorSourceTypeNMI)
	b.U32(0).U32(1).U32(1).U32(0x1000)
}

func (b *builder) rootPortAER() {
	b.header(ErrorSourceTypePCIeRootPortAER)
	b.common()
	b.U32(0).U16(0).U16(0).U16(0).U16(0).U32(0).U32(0).U32(0).U32(0).U32(0)
}

func (b *builder) ghesV2(spaceID uint8) {
	b.header(ErrorSourceTypeGHESv2)
	b.U16(0xffff).U8(0).U8(1).U32(1).U32(1).U32(0x1000)
	b.GAS(spaceID, 64, 0, 4, 0x7f000000)
	b.notification(0)
	b.U32(0x1000)
	b.GAS(0, 64, 0, 4, 0x7f000100).U64(0).U64(1)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		b := newBuilder(5)
		b.machineCheck(2)
		b.correctedMachineCheck(3)
		b.nmi()
		b.rootPortAER()
		b.ghesV2(0)
		v := New().Validate(ctx, b.Table())
		require.Empty(t, v.Diagnostics)
	})

	t.Run("too_many", func(t *testing.T) {
		b := newBuilder(6)
		b.machineCheck(0)
		b.machineCheck(1)
		b.correctedMachineCheck(0)
		b.correctedMachineCheck(0)
		b.nmi()
		b.nmi()
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{
			"HESTTooManyIA32ArchMachineCheckExceptions",
			"HESTTooManyIA32CorrectedMachineChecks",
			"HESTTooManyNMIStructures",
		}, v.Codes())
	})

	t.Run("invalid_type_aborts", func(t *testing.T) {
		b := newBuilder(3)
		b.nmi()
		b.U16(3).U16(0x10).Zero(16)
		b.nmi()
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"HESTInvalidType"}, v.Codes())
	})

	t.Run("banks_cross_table", func(t *testing.T) {
		b := newBuilder(1)
		b.header(ErrorSourceTypeIA32MachineCheck)
		b.common()
		b.U64(0).U64(0).U8(200).Zero(7)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"HESTRecordOutOfRange"}, v.Codes())
	})

	t.Run("truncated_tail_terminates", func(t *testing.T) {
		b := newBuilder(2)
		b.nmi()
		b.Zero(12)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"HESTRecordTruncated"}, v.Codes())
	})

	t.Run("type_needs_header", func(t *testing.T) {
		b := newBuilder(2)
		b.nmi()
		b.U8(2)
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"HESTRecordTruncated"}, v.Codes())
	})

	t.Run("field_checks", func(t *testing.T) {
		b := newBuilder(2)
		b.header(ErrorSourceTypeIA32CorrectedMachineCheck)
		b.U16(0).U8(0).U8(2).U32(0).U32(1)
		b.notification(12)
		b.U8(1).Zero(3)
		b.banks(1, 3)
		b.ghesV2(1)
		v := New().Validate(ctx, b.Table())
		// notification type, enabled, records, bank status data format, GHES error status address
		require.Equal(t, []string{
			"HESTFieldOutOfRange",
			"HESTInvalidValue",
			"HESTBadRecordsToPreallocate",
			"HESTFieldOutOfRange",
			"HESTBadAddressSpaceID",
		}, v.Codes())
	})

	t.Run("count_mismatch", func(t *testing.T) {
		b := newBuilder(2)
		b.nmi()
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"HESTBadErrorSourceCount"}, v.Codes())
	})

	t.Run("duplicate_source_id", func(t *testing.T) {
		b := newBuilder(2)
		b.nmi()
		b.sourceID = 0
		b.rootPortAER()
		v := New().Validate(ctx, b.Table())
		require.Equal(t, []string{"HESTDuplicateSourceID"}, v.Codes())
	})
}
