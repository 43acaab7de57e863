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
	"fmt"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// HeaderShape describes the common header of explicit-length records.
type HeaderShape struct {
	// TypeOffset is the offset of the type field within the header.
	TypeOffset int

	// TypeWidth is the width of the type field in bytes: 1, 2 or 4.
	// Zero means the records have no type field.
	TypeWidth int

	// LengthOffset is the offset of the length field within the header.
	LengthOffset int

	// LengthWidth is the width of the length field in bytes: 1, 2 or 4.
	LengthWidth int

	// Size is the size of the whole header.
	Size int
}

// Validate checks that the shape is self-consistent.
func (s HeaderShape) Validate() error {
	if s.TypeWidth != 0 && !validWidth(s.TypeWidth) {
		return fmt.Errorf("invalid type field width %d", s.TypeWidth)
	}
	if !validWidth(s.LengthWidth) {
		return fmt.Errorf("invalid length field width %d", s.LengthWidth)
	}
	if s.TypeOffset < 0 || s.TypeOffset+s.TypeWidth > s.Size {
		return fmt.Errorf("type field [%d:+%d] does not fit a header of %d bytes", s.TypeOffset, s.TypeWidth, s.Size)
	}
	if s.LengthOffset < 0 || s.LengthOffset+s.LengthWidth > s.Size {
		return fmt.Errorf("length field [%d:+%d] does not fit a header of %d bytes", s.LengthOffset, s.LengthWidth, s.Size)
	}
	return nil
}

func validWidth(w int) bool {
	switch w {
	case 1, 2, 4:
		return true
	}
	return false
}

// Config configures an explicit-length walk.
type Config struct {
	// Shape is the common record header shape.
	Shape HeaderShape

	// Table is the signature used as the prefix of diagnostic codes.
	Table string

	// What names the records in diagnostic messages ("subtable",
	// "endpoint", ...). Defaults to "record".
	What string

	// MaxRecords stops the walk after this amount of records (zero means
	// no limit). Used when the record count is declared separately and the
	// records are followed by other data.
	MaxRecords int
}

func (cfg Config) what() string {
	if cfg.What == "" {
		return "record"
	}
	return cfg.What
}

// Walk iterates explicit-length records from the current offset of c up to
// its limit, calling dispatch for each record.
//
// Structural problems (truncation, zero length, length smaller than the
// header, length crossing the limit) push exactly one High diagnostic and
// terminate the walk. The parent cursor is advanced past the dispatched
// records.
func Walk(c *cursor.Cursor, cfg Config, v *verdict.Verdict, dispatch DispatchFunc) Result {
	if err := cfg.Shape.Validate(); err != nil {
		panic(fmt.Errorf("invalid header shape for %s: %w", cfg.Table, err))
	}

	result := newResult(c.Offset())
	what := cfg.what()
	headerSize := uint64(cfg.Shape.Size)
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
		if cfg.Shape.TypeWidth != 0 {
			recordType = readField(header, cfg.Shape.TypeOffset, cfg.Shape.TypeWidth)
		}
		length := readField(header, cfg.Shape.LengthOffset, cfg.Shape.LengthWidth)

		if length == 0 {
			v.Push(verdict.SeverityHigh, cfg.Table+"ZeroLengthRecord",
				"%s %s %d (type 0x%x) at offset 0x%x has zero length, %s.",
				cfg.Table, what, index, recordType, offset, abortedAt(offset))
			result.Termination = TerminationZeroLengthRecord
			return result
		}
		if length < headerSize {
			v.Push(verdict.SeverityHigh, cfg.Table+"RecordLengthTooShort",
				"%s %s %d (type 0x%x) at offset 0x%x declares length %d which is smaller than its %d byte header, %s.",
				cfg.Table, what, index, recordType, offset, length, headerSize, abortedAt(offset))
			result.Termination = TerminationRecordTooShort
			return result
		}

		data, err := c.ReadBytes(length)
		if err != nil {
			v.Push(verdict.SeverityHigh, cfg.Table+"RecordOutOfRange",
				"%s %s %d (type 0x%x) at offset 0x%x declares length %d which crosses the end of the region at 0x%x, %s.",
				cfg.Table, what, index, recordType, offset, length, c.Limit(), abortedAt(offset))
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

// readField reads a field of the already bounds-checked header.
func readField(header *cursor.Cursor, offset, width int) uint64 {
	c, err := cursor.New(header.Bytes(), offset, offset+width)
	if err != nil {
		// unreachable: the shape was validated and the header fits
		panic(err)
	}
	v, err := c.ReadUint(width)
	if err != nil {
		panic(err)
	}
	return v
}
