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

// Package uefi validates the UEFI ACPI Data Table.
package uefi

import (
	"context"

	"github.com/linuxboot/fiano/pkg/guid"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Signature of the table.
const Signature = "UEFI"

var (
	// SMMCommunicationGUID identifies the SMM Communication ACPI table payload.
	SMMCommunicationGUID = *guid.MustParse("C68ED8E2-9DC6-4CBD-9D94-DB65ACC5C332")
)

const smmCommunicationPayloadSize = 4 + 8

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize + 16 + 2,
}

// Validator validates UEFI.
type Validator struct{}

// New returns a UEFI Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "UEFI ACPI Data Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.FixedPart(shape).Fields()
	var identifier guid.GUID
	copy(identifier[:], f.Bytes(16))
	dataOffset := f.U16()
	if err := f.Err(); err != nil {
		t.FieldTooShort("fixed part", err)
		return v
	}

	if identifier == (guid.GUID{}) {
		t.Check.Fail(verdict.SeverityHigh, "ZeroIdentifier", "UEFI Identifier GUID is all zeros.")
	}
	if int(dataOffset) < shape.MinLength || int(dataOffset) > t.Length() {
		t.Check.Fail(verdict.SeverityHigh, "BadDataOffset",
			"UEFI Data Offset is 0x%x, expecting a value in the range 0x%x..0x%x.",
			dataOffset, shape.MinLength, t.Length())
		return v
	}

	if identifier == SMMCommunicationGUID {
		validateSMMCommunication(t, int(dataOffset))
	}
	return v
}

func validateSMMCommunication(t *common.Table, dataOffset int) {
	c, err := t.At(dataOffset)
	if err != nil {
		t.FieldTooShort("Data Offset", err)
		return
	}
	f := c.Fields()
	swSMINumber := f.U32()
	bufferPtrAddress := f.U64()
	if err := f.Err(); err != nil {
		t.FieldTooShort("SMM Communication payload", err)
		return
	}
	if bufferPtrAddress == 0 {
		t.Check.Fail(verdict.SeverityMedium, "SMMCommunicationNullBuffer",
			"UEFI SMM Communication Buffer Ptr Address is null (SW SMI number 0x%x).", swSMINumber)
	}
	t.Verdict.Info("UEFISMMCommunication",
		"UEFI SMM Communication table: SW SMI number 0x%x, buffer pointer at 0x%x.", swSMINumber, bufferPtrAddress)
}
