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

// Package hpet validates the High Precision Event Timer table.
package hpet

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/fieldcheck"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Signature of the table.
const Signature = "HPET"

const (
	pageProtectionNone = 0
	pageProtection64K  = 2
)

var shape = common.Shape{
	Signature: Signature,
	MinLength: 56,
}

// Validator validates HPET.
type Validator struct{}

// New returns a HPET Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "High Precision Event Timer Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.FixedPart(shape).Fields()
	eventTimerBlockID := f.U32()
	baseAddress := table.ReadGenericAddressFields(f)
	_ = f.U8()  // HPET number
	_ = f.U16() // main counter minimum clock tick
	pageProtection := f.U8()
	if err := f.Err(); err != nil {
		t.FieldTooShort("fixed part", err)
		return v
	}

	if eventTimerBlockID&0xff == 0 {
		t.Check.Fail(verdict.SeverityMedium, "InvalidHardwareRevisionID",
			"HPET Event Timer Block ID 0x%08x has a zero Hardware Revision ID.", eventTimerBlockID)
	}
	t.Check.ReservedBits("Event Timer Block ID", uint64(eventTimerBlockID), 14, 14)
	t.Check.AddressSpace("Base Address", baseAddress.SpaceID, fieldcheck.AddressSpaceSystemMemory)
	if baseAddress.Address == 0 {
		t.Check.Fail(verdict.SeverityHigh, "NullBaseAddress", "HPET Base Address is null.")
	}
	t.Check.Range("Page Protection", uint64(pageProtection&0x0f), pageProtectionNone, pageProtection64K)
	return v
}
