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

// Package lpit validates the Low Power Idle Table.
package lpit

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/fieldcheck"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// Signature of the table.
const Signature = "LPIT"

// StateTypeNativeCState is the only defined LPI state structure type.
const StateTypeNativeCState = 0

const nativeCStateLength = 56

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize,
}

// stateHeader is "type u32, length u32".
var stateHeader = walker.HeaderShape{
	TypeOffset:   0,
	TypeWidth:    4,
	LengthOffset: 4,
	LengthWidth:  4,
	Size:         8,
}

var allowedSpaces = []fieldcheck.AddressSpaceID{
	fieldcheck.AddressSpaceSystemMemory,
	fieldcheck.AddressSpaceSystemIO,
	fieldcheck.AddressSpaceFFH,
}

// Validator validates LPIT.
type Validator struct{}

// New returns a LPIT Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Low Power Idle Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	var expectedUID uint64
	walker.Walk(t.Records(shape), walker.Config{
		Shape: stateHeader,
		Table: Signature,
		What:  "LPI state",
	}, v, func(rec *walker.Record, _ *verdict.Verdict) {
		if rec.Type != StateTypeNativeCState {
			t.Check.Fail(verdict.SeverityHigh, "InvalidType",
				"LPIT LPI state structure at offset 0x%x has type 0x%x, expecting 0x%x (native C-state).",
				rec.Offset, rec.Type, StateTypeNativeCState)
			return
		}
		uid, ok := validateNativeCState(t, rec)
		if !ok {
			return
		}
		if uint64(uid) != expectedUID {
			t.Check.Fail(verdict.SeverityMedium, "NativeCStateBadUID",
				"LPIT native C-state at offset 0x%x has Unique ID %d, expecting %d: IDs must start at 0 and increase by 1.",
				rec.Offset, uid, expectedUID)
		}
		expectedUID = uint64(uid) + 1
	})
	return v
}

func validateNativeCState(t *common.Table, rec *walker.Record) (uint16, bool) {
	if rec.Length() != nativeCStateLength {
		t.Check.Fail(verdict.SeverityHigh, "NativeCStateBadLength",
			"LPIT native C-state at offset 0x%x has length %d, expecting %d.",
			rec.Offset, rec.Length(), nativeCStateLength)
		return 0, false
	}

	f := rec.Cursor().Fields()
	f.Skip(8)
	uid := f.U16()
	reserved := f.U16()
	flags := f.U32()
	entryTrigger := table.ReadGenericAddressFields(f)
	residency := f.U32()
	_ = f.U32() // latency
	residencyCounter := table.ReadGenericAddressFields(f)
	_ = f.U64() // residency counter frequency
	if err := f.Err(); err != nil {
		t.FieldTooShort("native C-state", err)
		return 0, false
	}

	t.Check.ReservedZero(verdict.SeverityMedium, "native C-state Reserved", uint64(reserved))
	t.Check.ReservedBits("native C-state Flags", uint64(flags), 2, 31)
	t.Check.AddressSpace("native C-state Entry Trigger", entryTrigger.SpaceID, allowedSpaces...)
	if residency == 0 {
		t.Check.Fail(verdict.SeverityMedium, "NativeCStateZeroResidency",
			"LPIT native C-state %d has zero Minimum Residency.", uid)
	}
	t.Check.AddressSpace("native C-state Residency Counter", residencyCounter.SpaceID, allowedSpaces...)
	return uid, true
}
