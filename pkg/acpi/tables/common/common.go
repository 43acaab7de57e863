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

// Package common implements the prologue shared by table validators:
// minimum length, declared length, checksum and header logging.
package common

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/immune-gmbh/fwtest/pkg/acpi/checksum"
	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/fieldcheck"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Shape describes the fixed part of a table kind.
type Shape struct {
	// Signature is the table signature and the prefix of diagnostic codes.
	Signature string

	// MinLength is the size of the common header plus the fixed part
	// which follows it.
	MinLength int
}

// Table is the state of a validation after a successful prologue.
type Table struct {
	// Raw is the validated table.
	Raw *table.RawTable

	// Header is the decoded common header.
	Header *table.Header

	// Verdict is the accumulator of the validation.
	Verdict *verdict.Verdict

	// Check is bound to Verdict and the table signature.
	Check fieldcheck.Checker

	// Body is bounded to the smaller of the declared length and the
	// buffer length and positioned right after the common header.
	Body *cursor.Cursor
}

// Length returns the amount of bytes the validation may read.
func (t *Table) Length() int {
	return t.Body.Limit()
}

// Begin runs the common prologue. If it returns nil the table is not safe
// to read and the caller must return v as is.
//
// The checks are:
//   - the buffer holds at least shape.MinLength bytes;
//   - the header length field equals the buffer length
//     ("<T>BadTableLength"), the smaller of the two bounds the reads;
//   - the bytes up to that bound sum to zero ("<T>BadChecksum").
func Begin(ctx context.Context, raw *table.RawTable, shape Shape, v *verdict.Verdict) *Table {
	check := fieldcheck.New(v, shape.Signature)
	if !check.LengthAtLeast(uint64(len(raw.Data)), uint64(shape.MinLength)) {
		return nil
	}

	header, err := raw.Header()
	if err != nil {
		// unreachable: MinLength covers the common header
		check.Fail(verdict.SeverityCritical, "BadHeader", "%v", err)
		return nil
	}
	logger.FromCtx(ctx).Debugf("%s: %s", raw, header)

	if string(header.Signature[:]) != shape.Signature {
		check.Fail(verdict.SeverityMedium, "BadSignature",
			"%s table has signature '%s' in its header.", shape.Signature, header.Signature[:])
	}

	limit := len(raw.Data)
	if uint64(header.Length) != uint64(len(raw.Data)) {
		check.Fail(verdict.SeverityHigh, "BadTableLength",
			"%s table header declares length %d, but the table has %d bytes.",
			shape.Signature, header.Length, len(raw.Data))
		if int64(header.Length) < int64(limit) {
			limit = int(header.Length)
		}
		if !check.LengthAtLeast(uint64(limit), uint64(shape.MinLength)) {
			return nil
		}
	}

	checksum.Verify(v, verdict.SeverityHigh, shape.Signature+"BadChecksum",
		shape.Signature+" table", raw.Data[:limit], table.ChecksumOffset)

	body, err := cursor.New(raw.Data, table.HeaderSize, limit)
	if err != nil {
		// unreachable: HeaderSize <= MinLength <= limit
		check.Fail(verdict.SeverityCritical, "BadHeader", "%v", err)
		return nil
	}

	return &Table{
		Raw:     raw,
		Header:  header,
		Verdict: v,
		Check:   check,
		Body:    body,
	}
}

// FixedPart returns a cursor over the fixed part following the common
// header, i.e. [HeaderSize, MinLength). It does not advance t.Body.
func (t *Table) FixedPart(shape Shape) *cursor.Cursor {
	c, err := t.Body.SubCursor(uint64(shape.MinLength - table.HeaderSize))
	if err != nil {
		// unreachable: Begin checked MinLength
		panic(err)
	}
	return c
}

// Records returns a cursor over the bytes following the fixed part.
func (t *Table) Records(shape Shape) *cursor.Cursor {
	c := t.Body.Rest()
	if err := c.Skip(uint64(shape.MinLength - table.HeaderSize)); err != nil {
		// unreachable: Begin checked MinLength
		panic(err)
	}
	return c
}

// At returns a cursor from the absolute offset up to the end of the
// readable part of the table.
func (t *Table) At(offset int) (*cursor.Cursor, error) {
	return cursor.New(t.Raw.Data, offset, t.Length())
}

// FieldTooShort pushes the diagnostic for a read which failed although the
// size was checked beforehand, or for a nested size field which crosses
// the bound established by its parent.
func (t *Table) FieldTooShort(what string, err error) {
	t.Check.Fail(verdict.SeverityHigh, "FieldTooShort", "%s %s: %v.", t.Check.Table, what, err)
}
