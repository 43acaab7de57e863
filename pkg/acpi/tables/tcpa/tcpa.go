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

// Package tcpa validates the Trusted Computing Platform Alliance table.
package tcpa

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/fieldcheck"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Signature of the table.
const Signature = "TCPA"

// PlatformClass is the value of the "Platform Class" field.
type PlatformClass uint16

const (
	PlatformClassClient = PlatformClass(0)
	PlatformClassServer = PlatformClass(1)
)

const (
	clientLength = 50
	serverLength = 100
)

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize + 2,
}

// Validator validates TCPA.
type Validator struct{}

// New returns a TCPA Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Trusted Computing Platform Alliance Capabilities Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.Body.Fields()
	class := PlatformClass(f.U16())
	if err := f.Err(); err != nil {
		t.FieldTooShort("Platform Class", err)
		return v
	}

	switch class {
	case PlatformClassClient:
		if t.Check.LengthAtLeast(uint64(t.Length()), clientLength) {
			validateClient(t, t.Body.Fields())
		}
	case PlatformClassServer:
		if t.Check.LengthAtLeast(uint64(t.Length()), serverLength) {
			validateServer(t, t.Body.Fields())
		}
	default:
		t.Check.Fail(verdict.SeverityHigh, "BadPlatformClass",
			"TCPA Platform Class is 0x%x, expecting 0x0 (client) or 0x1 (server).", class)
	}
	return v
}

func validateClient(t *common.Table, f *cursor.Fields) {
	logAreaMinimumLength := f.U32()
	logAreaStartAddress := f.U64()
	if err := f.Err(); err != nil {
		t.FieldTooShort("client fields", err)
		return
	}

	if logAreaMinimumLength == 0 {
		t.Check.Fail(verdict.SeverityHigh, "BadLogLength", "TCPA client Log Area Minimum Length is zero.")
	}
	if logAreaStartAddress == 0 {
		t.Check.Fail(verdict.SeverityHigh, "BadLogAddress", "TCPA client Log Area Start Address is null.")
	}
}

func validateServer(t *common.Table, f *cursor.Fields) {
	reserved0 := f.U16()
	logAreaMinimumLength := f.U64()
	logAreaStartAddress := f.U64()
	specRevision := f.U16()
	deviceFlags := f.U8()
	interruptFlags := f.U8()
	_ = f.U8() // GPE
	reserved1 := f.Bytes(3)
	_ = f.U32() // global system interrupt
	baseAddress := table.ReadGenericAddressFields(f)
	reserved2 := f.U32()
	configAddress := table.ReadGenericAddressFields(f)
	_ = f.Bytes(4) // PCI segment, bus, device, function
	if err := f.Err(); err != nil {
		t.FieldTooShort("server fields", err)
		return
	}

	t.Check.ReservedZero(verdict.SeverityMedium, "server Reserved", uint64(reserved0))
	if logAreaMinimumLength == 0 {
		t.Check.Fail(verdict.SeverityHigh, "BadLogLength", "TCPA server Log Area Minimum Length is zero.")
	}
	if logAreaStartAddress == 0 {
		t.Check.Fail(verdict.SeverityHigh, "BadLogAddress", "TCPA server Log Area Start Address is null.")
	}
	if specRevision < 0x0100 {
		t.Check.Fail(verdict.SeverityMedium, "BadSpecRevision",
			"TCPA server Specification Revision is 0x%04x, expecting at least 0x0100.", specRevision)
	}
	t.Check.ReservedBits("server Device Flags", uint64(deviceFlags), 3, 7)
	t.Check.ReservedBits("server Interrupt Flags", uint64(interruptFlags), 4, 7)
	t.Check.ReservedBytesZero(verdict.SeverityMedium, "server Reserved", reserved1)
	t.Check.AddressSpace("server Base Address", baseAddress.SpaceID,
		fieldcheck.AddressSpaceSystemMemory, fieldcheck.AddressSpaceSystemIO)
	t.Check.ReservedZero(verdict.SeverityMedium, "server Reserved", uint64(reserved2))
	t.Check.AddressSpace("server Configuration Address", configAddress.SpaceID,
		fieldcheck.AddressSpaceSystemMemory, fieldcheck.AddressSpaceSystemIO)
}
