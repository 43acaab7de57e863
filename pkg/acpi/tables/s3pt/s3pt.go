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

// Package s3pt validates the S3 Performance Table.
//
// S3PT is pointed to by FPDT and, unlike the other tables, only has an
// 8-byte header (signature and length) and no checksum.
package s3pt

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/fieldcheck"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// Signature of the table.
const Signature = "S3PT"

// HeaderSize is the size of the S3PT header.
const HeaderSize = 8

// RecordType is the type of a S3PT performance record.
type RecordType uint16

const (
	RecordTypeResume  = RecordType(0)
	RecordTypeSuspend = RecordType(1)
)

const (
	resumeRecordLength  = 24
	suspendRecordLength = 20
	recordRevision      = 1
)

// recordHeader is "type u16, length u8, revision u8".
var recordHeader = walker.HeaderShape{
	TypeOffset:   0,
	TypeWidth:    2,
	LengthOffset: 2,
	LengthWidth:  1,
	Size:         4,
}

// Validator validates S3PT.
type Validator struct{}

// New returns a S3PT Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "S3 Performance Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	check := fieldcheck.New(v, Signature)
	if !check.LengthAtLeast(uint64(len(raw.Data)), HeaderSize) {
		return v
	}

	f := cursor.NewFull(raw.Data).Fields()
	signature := f.Bytes(4)
	length := f.U32()
	if err := f.Err(); err != nil {
		check.Fail(verdict.SeverityHigh, "FieldTooShort", "S3PT header: %v.", err)
		return v
	}
	logger.FromCtx(ctx).Debugf("%s: signature '%s' length %d", raw, signature, length)

	if string(signature) != Signature {
		check.Fail(verdict.SeverityMedium, "BadSignature", "S3PT table has signature '%s' in its header.", signature)
	}
	limit := len(raw.Data)
	if uint64(length) != uint64(limit) {
		check.Fail(verdict.SeverityHigh, "BadTableLength",
			"S3PT header declares length %d, but the table has %d bytes.", length, limit)
		if int64(length) < int64(limit) {
			limit = int(length)
		}
		if !check.LengthAtLeast(uint64(limit), HeaderSize) {
			return v
		}
	}

	records, err := cursor.New(raw.Data, HeaderSize, limit)
	if err != nil {
		check.Fail(verdict.SeverityHigh, "FieldTooShort", "S3PT records: %v.", err)
		return v
	}
	result := walker.Walk(records, walker.Config{
		Shape: recordHeader,
		Table: Signature,
		What:  "performance record",
	}, v, func(rec *walker.Record, _ *verdict.Verdict) {
		validateRecord(check, rec)
	})
	if result.Termination.IsError() {
		return v
	}

	switch resumes := result.Counts[uint32(RecordTypeResume)]; {
	case resumes == 0:
		check.Fail(verdict.SeverityHigh, "NoResumeRecord", "S3PT has no basic S3 resume performance record.")
	case resumes > 1:
		check.Fail(verdict.SeverityHigh, "TooManyResumeRecords",
			"S3PT has %d basic S3 resume performance records, expecting exactly one.", resumes)
	}
	if suspends := result.Counts[uint32(RecordTypeSuspend)]; suspends > 1 {
		check.Fail(verdict.SeverityHigh, "TooManySuspendRecords",
			"S3PT has %d basic S3 suspend performance records, expecting at most one.", suspends)
	}
	return v
}

func validateRecord(check fieldcheck.Checker, rec *walker.Record) {
	f := rec.Cursor().Fields()
	f.Skip(3)
	revision := f.U8()

	switch RecordType(rec.Type) {
	case RecordTypeResume:
		if rec.Length() != resumeRecordLength {
			check.Fail(verdict.SeverityHigh, "BadRecordLength",
				"S3PT resume record at offset 0x%x has length %d, expecting %d.", rec.Offset, rec.Length(), resumeRecordLength)
			return
		}
		resumeCount := f.U32()
		fullResume := f.U64()
		averageResume := f.U64()
		if err := f.Err(); err != nil {
			check.Fail(verdict.SeverityHigh, "FieldTooShort", "S3PT resume record: %v.", err)
			return
		}
		if resumeCount == 0 && (fullResume != 0 || averageResume != 0) {
			check.Fail(verdict.SeverityLow, "BadResumeTimes",
				"S3PT resume record has Resume Count 0 but non-zero resume times (full %d ns, average %d ns).",
				fullResume, averageResume)
		}
	case RecordTypeSuspend:
		if rec.Length() != suspendRecordLength {
			check.Fail(verdict.SeverityHigh, "BadRecordLength",
				"S3PT suspend record at offset 0x%x has length %d, expecting %d.", rec.Offset, rec.Length(), suspendRecordLength)
			return
		}
		start := f.U64()
		end := f.U64()
		if err := f.Err(); err != nil {
			check.Fail(verdict.SeverityHigh, "FieldTooShort", "S3PT suspend record: %v.", err)
			return
		}
		if end < start {
			check.Fail(verdict.SeverityMedium, "BadSuspendTimes",
				"S3PT suspend record Suspend End %d ns is before Suspend Start %d ns.", end, start)
		}
	default:
		check.Fail(verdict.SeverityMedium, "ReservedRecordType",
			"S3PT performance record at offset 0x%x has reserved type 0x%x.", rec.Offset, rec.Type)
		return
	}

	if revision != recordRevision {
		check.Fail(verdict.SeverityMedium, "BadRecordRevision",
			"S3PT %d record revision is %d, expecting %d.", rec.Type, revision, recordRevision)
	}
}
