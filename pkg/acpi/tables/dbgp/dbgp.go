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

// Package dbgp validates the Debug Port Table.
package dbgp

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/fieldcheck"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Signature of the table.
const Signature = "DBGP"

const (
	interfaceType16550       = 0
	interfaceType16550Subset = 1
)

var shape = common.Shape{
	Signature: Signature,
	MinLength: 52,
}

// Validator validates DBGP.
type Validator struct{}

// New returns a DBGP Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Debug Port Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.FixedPart(shape).Fields()
	interfaceType := f.U8()
	reserved := f.Bytes(3)
	baseAddress := table.ReadGenericAddressFields(f)
	if err := f.Err(); err != nil {
		t.FieldTooShort("fixed part", err)
		return v
	}

	t.Check.EnumMembership("Interface Type", uint64(interfaceType),
		interfaceType16550, interfaceType16550Subset)
	t.Check.ReservedBytesZero(verdict.SeverityLow, "Reserved", reserved)
	t.Check.AddressSpace("Base Address", baseAddress.SpaceID,
		fieldcheck.AddressSpaceSystemMemory, fieldcheck.AddressSpaceSystemIO)
	if baseAddress.Address == 0 {
		t.Check.Fail(verdict.SeverityHigh, "NullBaseAddress", "DBGP Base Address is null.")
	}
	return v
}
