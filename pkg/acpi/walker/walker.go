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

// Package walker iterates sequences of variable-length sub-records within a
// bounded region.
//
// Two modes are supported:
//   - explicit: every record carries its own length field (CEDT, LPIT,
//     FPDT, SDEV, S3PT, NHLT endpoints);
//   - implicit: the record size is computed from its type and an embedded
//     count field (HEST error sources, RAS2 descriptors).
//
// A malformed record aborts the remaining iteration: once one length can
// not be trusted, no later offset can be trusted either.
package walker

import (
	"fmt"

	pkgbytes "github.com/linuxboot/fiano/pkg/bytes"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Termination is the reason why a walk has stopped.
type Termination uint8

const (
	// TerminationComplete means the walk consumed the region exactly.
	TerminationComplete = Termination(iota)

	// TerminationRecordLimit means the configured amount of records was
	// walked before the end of the region.
	TerminationRecordLimit

	// TerminationTruncated means a record header did not fit the region.
	TerminationTruncated

	// TerminationZeroLengthRecord means a record declared zero length.
	TerminationZeroLengthRecord

	// TerminationRecordTooShort means a record declared a length smaller
	// than its own header.
	TerminationRecordTooShort

	// TerminationRangeExceeded means a record declared a length which
	// crosses the end of the region.
	TerminationRangeExceeded

	// TerminationUnknownRecordType means the size of an implicit-size
	// record could not be determined because its type is unknown.
	TerminationUnknownRecordType
)

// String implements fmt.Stringer.
func (t Termination) String() string {
	switch t {
	case TerminationComplete:
		return "complete"
	case TerminationRecordLimit:
		return "record_limit"
	case TerminationTruncated:
		return "truncated"
	case TerminationZeroLengthRecord:
		return "zero_length_record"
	case TerminationRecordTooShort:
		return "record_too_short"
	case TerminationRangeExceeded:
		return "range_exceeded"
	case TerminationUnknownRecordType:
		return "unknown_record_type"
	}
	return fmt.Sprintf("unknown_termination_%d", uint8(t))
}

// IsError returns true if the walk stopped due to a malformed record.
func (t Termination) IsError() bool {
	return t != TerminationComplete && t != TerminationRecordLimit
}

// Record is a single sub-record extracted by a walk.
type Record struct {
	// Type is the value of the type field (zero if the shape has none).
	Type uint32

	// Index is the ordinal number of the record within the walk.
	Index int

	// Offset is the absolute offset of the record within the table.
	Offset int

	// Data is exactly the bytes of the record, header included.
	Data []byte
}

// Range returns the absolute extent of the record.
func (rec *Record) Range() pkgbytes.Range {
	return pkgbytes.Range{
		Offset: uint64(rec.Offset),
		Length: uint64(len(rec.Data)),
	}
}

// Cursor returns a new cursor bounded to the record. Offsets of the
// returned cursor are relative to the record start.
func (rec *Record) Cursor() *cursor.Cursor {
	return cursor.NewFull(rec.Data)
}

// Length returns the length of the record.
func (rec *Record) Length() int {
	return len(rec.Data)
}

// DispatchFunc validates a single record. It must only read the record
// through rec (never the parent region).
type DispatchFunc func(rec *Record, v *verdict.Verdict)

// Result is the summary of a walk, used for cross-record checks.
type Result struct {
	// Records is the amount of records dispatched.
	Records int

	// Termination is the reason the walk stopped.
	Termination Termination

	// Counts is the amount of dispatched records per record type.
	Counts map[uint32]int

	// End is the absolute offset where the walk stopped.
	End int
}

func newResult(start int) Result {
	return Result{
		Counts: map[uint32]int{},
		End:    start,
	}
}

func (r *Result) dispatched(rec *Record) {
	r.Records++
	r.Counts[rec.Type]++
	r.End = rec.Offset + len(rec.Data)
}

func abortedAt(offset int) string {
	return fmt.Sprintf("aborting the walk at offset 0x%x", offset)
}
