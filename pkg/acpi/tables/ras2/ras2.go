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

// Package ras2 validates the RAS2 feature table.
package ras2

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// Signature of the table.
const Signature = "RAS2"

// FeatureTypeMemory is the only feature type defined by ACPI, 0x80..0xff
// are vendor specific.
const FeatureTypeMemory = 0x00

const (
	featureTypeVendorFirst = 0x80
	descriptorSize         = 8
)

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize + 4,
}

// Validator validates RAS2.
type Validator struct{}

// New returns a RAS2 Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "ACPI RAS2 Feature Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.FixedPart(shape).Fields()
	reserved := f.U16()
	count := f.U16()
	if err := f.Err(); err != nil {
		t.FieldTooShort("fixed part", err)
		return v
	}
	t.Check.ReservedZero(verdict.SeverityMedium, "Reserved", uint64(reserved))

	records := t.Records(shape)
	fit := records.Remaining() / descriptorSize
	if expected := shape.MinLength + int(count)*descriptorSize; expected != t.Length() {
		t.Check.Fail(verdict.SeverityHigh, "BadDescriptorCount",
			"RAS2 declares %d PCC descriptors which need a table of %d bytes, but the table has %d bytes.",
			count, expected, t.Length())
	}
	if int(count) < fit {
		fit = int(count)
	}
	if fit == 0 {
		return v
	}

	pccIDs := map[uint8]int{}
	walker.WalkImplicit(records, walker.ImplicitConfig{
		TypeOffset: 3,
		TypeWidth:  1,
		HeaderSize: descriptorSize,
		SizeOf:     walker.FixedSize(descriptorSize),
		Table:      Signature,
		What:       "PCC descriptor",
		MaxRecords: fit,
	}, v, func(rec *walker.Record, _ *verdict.Verdict) {
		f := rec.Cursor().Fields()
		pccID := f.U8()
		reserved := f.U16()
		featureType := f.U8()
		_ = f.U32() // instance
		if err := f.Err(); err != nil {
			t.FieldTooShort("PCC descriptor", err)
			return
		}

		if prev, ok := pccIDs[pccID]; ok {
			t.Check.Fail(verdict.SeverityMedium, "DuplicatePCCID",
				"RAS2 PCC descriptors %d and %d use the same PCC ID 0x%x.", prev, rec.Index, pccID)
		} else {
			pccIDs[pccID] = rec.Index
		}
		t.Check.ReservedZero(verdict.SeverityMedium, "PCC descriptor Reserved", uint64(reserved))
		if featureType != FeatureTypeMemory && featureType < featureTypeVendorFirst {
			t.Check.Fail(verdict.SeverityMedium, "BadFeatureType",
				"RAS2 PCC descriptor %d has reserved Feature Type 0x%x.", rec.Index, featureType)
		}
	})
	return v
}
