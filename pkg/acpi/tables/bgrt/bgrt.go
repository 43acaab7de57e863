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

// Package bgrt validates the Boot Graphics Resource Table.
package bgrt

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Signature of the table.
const Signature = "BGRT"

var shape = common.Shape{
	Signature: Signature,
	MinLength: 56,
}

// Validator validates BGRT.
type Validator struct{}

// New returns a BGRT Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Boot Graphics Resource Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.FixedPart(shape).Fields()
	version := f.U16()
	status := f.U8()
	imageType := f.U8()
	imageAddress := f.U64()
	_ = f.U32() // X offset
	_ = f.U32() // Y offset
	if err := f.Err(); err != nil {
		t.FieldTooShort("fixed part", err)
		return v
	}

	if version != 1 {
		t.Check.Fail(verdict.SeverityHigh, "InvalidVersion",
			"BGRT Version field is 0x%x and not the only allowed value 0x1.", version)
	}
	t.Check.ReservedBits("Status", uint64(status), 3, 7)
	if imageType != 0 {
		t.Check.Fail(verdict.SeverityHigh, "InvalidType",
			"BGRT Image Type field is 0x%x and not the only allowed value 0x0 (Bitmap).", imageType)
	}
	if imageAddress == 0 {
		t.Check.Fail(verdict.SeverityMedium, "NullImageAddress", "BGRT Image Address is null.")
	}
	return v
}
