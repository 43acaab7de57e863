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

package walker

import (
	"errors"
	"fmt"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// ErrUnknownRecordType is returned by a SizeFunc which does not know how
// to size a record of the given type.
type ErrUnknownRecordType struct {
	Type uint32
}

// Error implements error.
func (err ErrUnknownRecordType) Error() string {
	return fmt.Sprintf("unknown record type 0x%x", err.Type)
}

// SizeFunc computes the total size of an implicit-size record of the given
// type. rec is bounded to the remainder of the region and positioned at the
// record start; it may be used to read embedded count fields.
type SizeFunc func(recordType uint32, rec *cursor.Cursor) (uint64, error)

// ImplicitConfig configures an implicit-size walk.
type ImplicitConfig struct {
	// TypeOffset is the offset of the type field within the record.
	TypeOffset int

	// TypeWidth is the width of the type field in bytes: 1, 2 or 4.
	// Zero means the records have no type field.
	TypeWidth int

	// HeaderSize is the amount of bytes which must be available before
	// the type field is read.
	HeaderSize int

	// SizeOf computes the record size.
	SizeOf SizeFunc

	// Table is the signature used as the prefix of diagnostic codes.
	Table string

	// What names the records in diagnostic messages. Defaults to "record".
	What string

	// MaxRecords stops the walk after this amount of records (zero means
	// no limit).
	MaxRecords int
}

func (cfg ImplicitConfig) what() string {
	if cfg.What == "" {
		return "record"
	}
	return cfg.What
}

// FixedSize returns a SizeFunc for records which all have the same size.
func FixedSize(size uint64) SizeFunc {
	return func(uint32, *cursor.Cursor) (uint64, error) {
		return size, nil
	}
}

// WalkImplicit iterates records whose size is computed by cfg.SizeOf
// rather than read from a length field.
//
// The header (HeaderSize bytes) is always confirmed to be available before
// the type field is read. Unknown record types push one High
// "<Table>InvalidType" diagnostic and terminate the walk.
func WalkImplicit(c *cursor.Cursor, cfg ImplicitConfig, v *verdict.Verdict, dispatch DispatchFunc) Result {
	if cfg.TypeWidth != 0 && !validWidth(cfg.TypeWidth) {
		panic(fmt.Errorf("invalid type field width %d for %s", cfg.TypeWidth, cfg.Table))
	}
	if cfg.TypeOffset+cfg.TypeWidth > cfg.HeaderSize {
		panic(fmt.Errorf("type field does not fit the %d byte header of %s", cfg.HeaderSize, cfg.Table))
	}

	result := newResult(c.Offset())
	what := cfg.what()
	headerSize := uint64(cfg.HeaderSize)
	for index := 0; ; index++ {
		if cfg.MaxRecords > 0 && index >= cfg.MaxRecords {
			result.Termination = TerminationRecordLimit
			return result
		}
		if c.AtEnd() {
			result.Termination = TerminationComplete
			return result
		}

		offset := c.Offset()
		header, err := c.SubCursor(headerSize)
		if err != nil {
			v.Push(verdict.SeverityHigh, cfg.Table+"RecordTruncated",
				"%s %s %d header at offset 0x%x needs %d bytes but only %d remain, %s.",
				cfg.Table, what, index, offset, headerSize, c.Remaining(), abortedAt(offset))
			result.Termination = TerminationTruncated
			return result
		}

		var recordType uint64
		if cfg.TypeWidth != 0 {
			recordType = readField(header, cfg.TypeOffset, cfg.TypeWidth)
		}

		size, err := cfg.SizeOf(uint32(recordType), c.Rest())
		switch {
		case err == nil:
		case errors.As(err, &ErrUnknownRecordType{}):
			v.Push(verdict.SeverityHigh, cfg.Table+"InvalidType",
				"%s %s %d at offset 0x%x has type 0x%x which is invalid, %s.",
				cfg.Table, what, index, offset, recordType, abortedAt(offset))
			result.Termination = TerminationUnknownRecordType
			return result
		default:
			v.Push(verdict.SeverityHigh, cfg.Table+"RecordTruncated",
				"%s %s %d (type 0x%x) at offset 0x%x: unable to determine the size: %v, %s.",
				cfg.Table, what, index, recordType, offset, err, abortedAt(offset))
			result.Termination = TerminationTruncated
			return result
		}

		if size == 0 {
			v.Push(verdict.SeverityHigh, cfg.Table+"ZeroLengthRecord",
				"%s %s %d (type 0x%x) at offset 0x%x has zero size, %s.",
				cfg.Table, what, index, recordType, offset, abortedAt(offset))
			result.Termination = TerminationZeroLengthRecord
			return result
		}
		if size < headerSize {
			v.Push(verdict.SeverityHigh, cfg.Table+"RecordLengthTooShort",
				"%s %s %d (type 0x%x) at offset 0x%x has size %d which is smaller than its %d byte header, %s.",
				cfg.Table, what, index, recordType, offset, size, headerSize, abortedAt(offset))
			result.Termination = TerminationRecordTooShort
			return result
		}

		data, err := c.ReadBytes(size)
		if err != nil {
			v.Push(verdict.SeverityHigh, cfg.Table+"RecordOutOfRange",
				"%s %s %d (type 0x%x) at offset 0x%x has size %d which crosses the end of the region at 0x%x, %s.",
				cfg.Table, what, index, recordType, offset, size, c.Limit(), abortedAt(offset))
			result.Termination = TerminationRangeExceeded
			return result
		}

		rec := &Record{
			Type:   uint32(recordType),
			Index:  index,
			Offset: offset,
			Data:   data,
		}
		dispatch(rec, v)
		result.dispatched(rec)
	}
}
