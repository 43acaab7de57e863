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

// Package nhlt validates the Non HD Audio Link Table.
//
// NHLT is nested three levels deep: endpoints contain a device specific
// configuration blob and a list of formats, every format is followed by its
// own configuration blob. Every nested size is checked against the bound of
// its parent endpoint, never against the table.
package nhlt

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// Signature of the table.
const Signature = "NHLT"

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize + 1,
}

// endpointDescriptor is "length u32" followed by the fixed descriptor
// fields, 19 bytes in total.
var endpointDescriptor = walker.HeaderShape{
	LengthOffset: 0,
	LengthWidth:  4,
	Size:         19,
}

// Validator validates NHLT.
type Validator struct{}

// New returns a NHLT Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Non HD Audio Link Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.FixedPart(shape).Fields()
	endpointCount := f.U8()
	if err := f.Err(); err != nil {
		t.FieldTooShort("Endpoint Count", err)
		return v
	}

	records := t.Records(shape)
	if endpointCount == 0 {
		t.Verdict.Info("NHLTNoEndpoints", "NHLT has no endpoints.")
	} else {
		result := walker.Walk(records, walker.Config{
			Shape:      endpointDescriptor,
			Table:      Signature,
			What:       "endpoint",
			MaxRecords: int(endpointCount),
		}, v, func(rec *walker.Record, _ *verdict.Verdict) {
			validateEndpoint(t, rec)
		})
		if result.Termination.IsError() {
			return v
		}
		if result.Records != int(endpointCount) {
			t.Check.Fail(verdict.SeverityHigh, "BadEndpointCount",
				"NHLT Endpoint Count is %d, but the table contains only %d endpoints.", endpointCount, result.Records)
			return v
		}
	}

	validateOEDConfig(t, records)
	return v
}

// validateOEDConfig validates the optional OED configuration which follows
// the endpoints.
func validateOEDConfig(t *common.Table, c *cursor.Cursor) {
	if c.AtEnd() {
		return
	}
	size, err := c.ReadU32()
	if err != nil {
		t.FieldTooShort("OED configuration size", err)
		return
	}
	if err := c.Skip(uint64(size)); err != nil {
		t.FieldTooShort("OED configuration", err)
		return
	}
	if !c.AtEnd() {
		t.Check.Fail(verdict.SeverityLow, "TrailingBytes",
			"NHLT has %d unexpected bytes at offset 0x%x after the OED configuration.", c.Remaining(), c.Offset())
	}
}
