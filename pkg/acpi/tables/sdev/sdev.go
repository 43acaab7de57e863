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

// Package sdev validates the Secure Devices table.
package sdev

import (
	"context"
	"fmt"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// Signature of the table.
const Signature = "SDEV"

// StructureType is the type of a secure device structure.
type StructureType uint8

const (
	StructureTypeNamespaceDevice = StructureType(0)
	StructureTypePCIeEndpoint    = StructureType(1)
)

// String implements fmt.Stringer.
func (t StructureType) String() string {
	switch t {
	case StructureTypeNamespaceDevice:
		return "ACPI Namespace Device"
	case StructureTypePCIeEndpoint:
		return "PCIe Endpoint Device"
	}
	return fmt.Sprintf("unknown_structure_type_0x%02x", uint8(t))
}

const structureFixedSize = 16

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize,
}

// structureHeader is "type u8, flags u8, length u16".
var structureHeader = walker.HeaderShape{
	TypeOffset:   0,
	TypeWidth:    1,
	LengthOffset: 2,
	LengthWidth:  2,
	Size:         4,
}

// Validator validates SDEV.
type Validator struct{}

// New returns a SDEV Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Secure Devices Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	walker.Walk(t.Records(shape), walker.Config{
		Shape: structureHeader,
		Table: Signature,
		What:  "secure device structure",
	}, v, func(rec *walker.Record, _ *verdict.Verdict) {
		validateStructure(t, rec)
	})
	return v
}

func validateStructure(t *common.Table, rec *walker.Record) {
	structureType := StructureType(rec.Type)
	switch structureType {
	case StructureTypeNamespaceDevice, StructureTypePCIeEndpoint:
	default:
		t.Check.Fail(verdict.SeverityHigh, "BadStructureType",
			"SDEV structure %d at offset 0x%x has type 0x%x, expecting 0x0 or 0x1.", rec.Index, rec.Offset, rec.Type)
		return
	}
	if rec.Length() < structureFixedSize {
		t.Check.Fail(verdict.SeverityHigh, "BadStructureLength",
			"SDEV %s structure at offset 0x%x has length %d, expecting at least %d.",
			structureType, rec.Offset, rec.Length(), structureFixedSize)
		return
	}

	f := rec.Cursor().Fields()
	f.Skip(1)
	flags := f.U8()
	f.Skip(2)
	var fields [6]uint16
	for idx := range fields {
		fields[idx] = f.U16()
	}
	if err := f.Err(); err != nil {
		t.FieldTooShort(structureType.String(), err)
		return
	}
	t.Check.ReservedBits(structureType.String()+" Flags", uint64(flags), 2, 7)

	switch structureType {
	case StructureTypeNamespaceDevice:
		deviceIDOffset, deviceIDLength := fields[0], fields[1]
		vendorInfoOffset, vendorInfoLength := fields[2], fields[3]
		secureAccessOffset, secureAccessLength := fields[4], fields[5]
		if checkRange(t, rec, "Device Identifier", deviceIDOffset, deviceIDLength) && deviceIDLength == 0 {
			t.Check.Fail(verdict.SeverityMedium, "EmptyDeviceIdentifier",
				"SDEV ACPI Namespace Device structure %d has an empty Device Identifier.", rec.Index)
		}
		checkRange(t, rec, "Vendor Specific Information", vendorInfoOffset, vendorInfoLength)
		// The content of secure access components is not decoded.
		checkRange(t, rec, "Secure Access Components", secureAccessOffset, secureAccessLength)

	case StructureTypePCIeEndpoint:
		pathOffset, pathLength := fields[2], fields[3]
		vendorInfoOffset, vendorInfoLength := fields[4], fields[5]
		if checkRange(t, rec, "Path", pathOffset, pathLength) && (pathLength == 0 || pathLength%2 != 0) {
			t.Check.Fail(verdict.SeverityMedium, "BadPathLength",
				"SDEV PCIe Endpoint Device structure %d has Path Length %d, expecting a non-zero multiple of 2.",
				rec.Index, pathLength)
		}
		checkRange(t, rec, "Vendor Specific Information", vendorInfoOffset, vendorInfoLength)
	}
}

// checkRange checks that an (offset, length) pair lies within the
// structure, after its fixed part.
func checkRange(t *common.Table, rec *walker.Record, field string, offset, length uint16) bool {
	if length == 0 {
		return true
	}
	end := uint64(offset) + uint64(length)
	if uint64(offset) >= structureFixedSize && end <= uint64(rec.Length()) {
		return true
	}
	return t.Check.Fail(verdict.SeverityHigh, "OffsetOutOfRange",
		"SDEV %s structure %d %s [0x%x, 0x%x) is outside of the structure [0x%x, 0x%x).",
		StructureType(rec.Type), rec.Index, field, offset, end, structureFixedSize, rec.Length())
}
