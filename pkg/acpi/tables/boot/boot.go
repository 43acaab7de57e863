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

// Package boot validates the Simple Boot Flag table.
package boot

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Signature of the table.
const Signature = "BOOT"

// lastRTCRegister is the last CMOS register used by the real time clock.
const lastRTCRegister = 0x0d

var shape = common.Shape{
	Signature: Signature,
	MinLength: 40,
}

// Validator validates BOOT.
type Validator struct{}

// New returns a BOOT Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Simple Boot Flag Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.FixedPart(shape).Fields()
	cmosIndex := f.U8()
	reserved := f.Bytes(3)
	if err := f.Err(); err != nil {
		t.FieldTooShort("fixed part", err)
		return v
	}

	if cmosIndex <= lastRTCRegister {
		t.Check.Fail(verdict.SeverityMedium, "CMOSIndexInRTCRange",
			"BOOT CMOS Index 0x%02x is within the RTC registers range 0x00..0x%02x.", cmosIndex, lastRTCRegister)
	}
	t.Check.ReservedBytesZero(verdict.SeverityLow, "Reserved", reserved)

	if raw.Provenance == table.ProvenanceFromFirmware {
		v.Info("BOOTCMOSNotRead", "BOOT CMOS register 0x%02x content was not checked (needs I/O port access).", cmosIndex)
	}
	return v
}
