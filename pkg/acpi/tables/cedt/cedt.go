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

// Package cedt validates the CXL Early Discovery Table.
package cedt

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// Signature of the table.
const Signature = "CEDT"

// SubtableType is the type of a CEDT subtable.
type SubtableType uint8

const (
	SubtableTypeCHBS  = SubtableType(0)
	SubtableTypeCFMWS = SubtableType(1)
	SubtableTypeCXIMS = SubtableType(2)
	SubtableTypeRDPAS = SubtableType(3)
)

// String implements fmt.Stringer.
func (t SubtableType) String() string {
	switch t {
	case SubtableTypeCHBS:
		return "CHBS"
	case SubtableTypeCFMWS:
		return "CFMWS"
	case SubtableTypeCXIMS:
		return "CXIMS"
	case SubtableTypeRDPAS:
		return "RDPAS"
	}
	return "unknown"
}

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize,
}

// subtableHeader is "type u8, reserved u8, length u16".
var subtableHeader = walker.HeaderShape{
	TypeOffset:   0,
	TypeWidth:    1,
	LengthOffset: 2,
	LengthWidth:  2,
	Size:         4,
}

// Validator validates CEDT.
type Validator struct{}

// New returns a CEDT Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "CXL Early Discovery Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	s := &state{
		Table:    t,
		chbsUIDs: map[uint32]int{},
	}
	walker.Walk(t.Records(shape), walker.Config{
		Shape: subtableHeader,
		Table: Signature,
		What:  "subtable",
	}, v, s.dispatch)
	return v
}

// state is the cross-subtable state of a single validation.
type state struct {
	*common.Table
	chbsUIDs map[uint32]int
}

func (s *state) dispatch(rec *walker.Record, _ *verdict.Verdict) {
	f := rec.Cursor().Fields()
	f.Skip(1)
	reserved := f.U8()
	f.Skip(2)
	if err := f.Err(); err != nil {
		s.FieldTooShort("subtable header", err)
		return
	}
	s.Check.ReservedZero(verdict.SeverityMedium, SubtableType(rec.Type).String()+" Reserved", uint64(reserved))

	switch SubtableType(rec.Type) {
	case SubtableTypeCHBS:
		s.validateCHBS(rec, f)
	case SubtableTypeCFMWS:
		s.validateCFMWS(rec, f)
	case SubtableTypeCXIMS:
		s.validateCXIMS(rec, f)
	case SubtableTypeRDPAS:
		s.validateRDPAS(rec, f)
	default:
		s.Check.Fail(verdict.SeverityHigh, "BadSubtableType",
			"CEDT subtable %d at offset 0x%x has type 0x%x, expecting 0x0..0x3.", rec.Index, rec.Offset, rec.Type)
	}
}

// exactLength pushes "CEDTBadSubtableLength" and returns false unless the
// subtable is exactly expected bytes long.
func (s *state) exactLength(rec *walker.Record, expected int) bool {
	if rec.Length() == expected {
		return true
	}
	return s.Check.Fail(verdict.SeverityHigh, "BadSubtableLength",
		"CEDT %s subtable at offset 0x%x has length %d, expecting %d.",
		SubtableType(rec.Type), rec.Offset, rec.Length(), expected)
}
