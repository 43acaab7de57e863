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

// Package fpdt validates the Firmware Performance Data Table.
package fpdt

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// Signature of the table.
const Signature = "FPDT"

// RecordType is the type of a performance record.
type RecordType uint16

const (
	RecordTypeBasicBootPointer = RecordType(0x0000)
	RecordTypeS3PTPointer      = RecordType(0x0001)

	recordTypeVendorFirst = RecordType(0x1000)
	recordTypeVendorLast  = RecordType(0x3fff)
)

// String implements fmt.Stringer.
func (t RecordType) String() string {
	switch t {
	case RecordTypeBasicBootPointer:
		return "FBPT Pointer"
	case RecordTypeS3PTPointer:
		return "S3PT Pointer"
	}
	if t >= recordTypeVendorFirst && t <= recordTypeVendorLast {
		return "vendor"
	}
	return "reserved"
}

const (
	pointerRecordLength   = 16
	pointerRecordRevision = 1
)

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize,
}

// recordHeader is "type u16, length u8, revision u8".
var recordHeader = walker.HeaderShape{
	TypeOffset:   0,
	TypeWidth:    2,
	LengthOffset: 2,
	LengthWidth:  1,
	Size:         4,
}

// Validator validates FPDT.
type Validator struct{}

// New returns a FPDT Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Firmware Performance Data Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	result := walker.Walk(t.Records(shape), walker.Config{
		Shape: recordHeader,
		Table: Signature,
		What:  "performance record",
	}, v, func(rec *walker.Record, v *verdict.Verdict) {
		validateRecord(t, rec)
	})

	for _, recordType := range []RecordType{RecordTypeBasicBootPointer, RecordTypeS3PTPointer} {
		if count := result.Counts[uint32(recordType)]; count > 1 {
			t.Check.Fail(verdict.SeverityMedium, "DuplicatePointerRecord",
				"FPDT contains %d %s records, expecting at most one.", count, recordType)
		}
	}
	return v
}

func validateRecord(t *common.Table, rec *walker.Record) {
	recordType := RecordType(rec.Type)
	switch {
	case recordType == RecordTypeBasicBootPointer || recordType == RecordTypeS3PTPointer:
		validatePointerRecord(t, rec)
	case recordType >= recordTypeVendorFirst && recordType <= recordTypeVendorLast:
		t.Verdict.Info("FPDTVendorRecord",
			"FPDT vendor specific performance record type 0x%04x at offset 0x%x was not validated.", rec.Type, rec.Offset)
	default:
		t.Check.Fail(verdict.SeverityMedium, "ReservedRecordType",
			"FPDT performance record at offset 0x%x has reserved type 0x%04x.", rec.Offset, rec.Type)
	}
}

func validatePointerRecord(t *common.Table, rec *walker.Record) {
	recordType := RecordType(rec.Type)
	if rec.Length() != pointerRecordLength {
		t.Check.Fail(verdict.SeverityHigh, "BadRecordLength",
			"FPDT %s record at offset 0x%x has length %d, expecting %d.",
			recordType, rec.Offset, rec.Length(), pointerRecordLength)
		return
	}

	f := rec.Cursor().Fields()
	f.Skip(3)
	revision := f.U8()
	reserved := f.U32()
	address := f.U64()
	if err := f.Err(); err != nil {
		t.FieldTooShort(recordType.String(), err)
		return
	}

	if revision != pointerRecordRevision {
		t.Check.Fail(verdict.SeverityMedium, "BadRecordRevision",
			"FPDT %s record revision is %d, expecting %d.", recordType, revision, pointerRecordRevision)
	}
	t.Check.ReservedZero(verdict.SeverityMedium, recordType.String()+" Reserved", uint64(reserved))
	if address == 0 {
		t.Check.Fail(verdict.SeverityHigh, "NullPointer", "FPDT %s record points to a null address.", recordType)
	}
}
