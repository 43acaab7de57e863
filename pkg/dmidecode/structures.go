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

package dmidecode

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/digitalocean/go-smbios/smbios"
	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

const (
	// StructureHeaderSize is the size of the type, length and handle fields.
	StructureHeaderSize = 4

	// TypeEndOfTable marks the last structure of the table.
	TypeEndOfTable = 127
)

var stringSetTerminator = []byte{0, 0}

// structureSize returns the size of the formatted area plus the string-set.
func structureSize(_ uint32, rec *cursor.Cursor) (uint64, error) {
	data := rec.Bytes()
	formatted := int(data[1])
	if formatted < StructureHeaderSize {
		// let the walker report it
		return uint64(formatted), nil
	}
	if formatted > len(data) {
		return uint64(formatted), nil
	}
	idx := bytes.Index(data[formatted:], stringSetTerminator)
	if idx < 0 {
		return 0, fmt.Errorf("the string-set is not terminated by a double NUL")
	}
	return uint64(formatted + idx + len(stringSetTerminator)), nil
}

// ValidateStructureTable walks the SMBIOS structure table and checks that
// every structure is well-formed, handles are unique and the table ends
// with an end-of-table structure.
func ValidateStructureTable(data []byte, ep *EntryPoint) *verdict.Verdict {
	v := verdict.New(TableName)

	region := data
	if ep != nil && ep.TableLength != 0 {
		switch {
		case uint64(ep.TableLength) > uint64(len(data)):
			v.Push(verdict.SeverityHigh, TableName+"TableTruncated",
				"SMBIOS structure table is %d bytes long, but the entry point declares %d.", len(data), ep.TableLength)
		case ep.Anchor == Anchor21:
			// 3.0 declares the maximum size only
			region = data[:ep.TableLength]
		}
	}

	handles := map[uint16]int{}
	var endOfTable = -1
	var afterEnd int
	result := walker.WalkImplicit(cursor.NewFull(region), walker.ImplicitConfig{
		TypeWidth:  1,
		HeaderSize: StructureHeaderSize,
		SizeOf:     structureSize,
		Table:      TableName,
		What:       "structure",
	}, v, func(rec *walker.Record, v *verdict.Verdict) {
		if endOfTable >= 0 {
			afterEnd++
			return
		}
		handle := binary.LittleEndian.Uint16(rec.Data[2:])
		if prev, ok := handles[handle]; ok {
			v.Push(verdict.SeverityMedium, TableName+"DuplicateHandle",
				"SMBIOS structure %d (type %d) at offset 0x%x reuses handle 0x%04x of structure %d.",
				rec.Index, rec.Type, rec.Offset, handle, prev)
		} else {
			handles[handle] = rec.Index
		}
		if rec.Type == TypeEndOfTable {
			endOfTable = rec.Index
		}
	})

	if result.Termination != walker.TerminationComplete {
		return v
	}
	switch {
	case endOfTable < 0:
		v.Push(verdict.SeverityMedium, TableName+"MissingEndOfTable",
			"SMBIOS structure table has no end-of-table (type %d) structure.", TypeEndOfTable)
	case afterEnd > 0:
		v.Info(TableName+"DataAfterEndOfTable",
			"SMBIOS structure table has %d structures after the end-of-table structure.", afterEnd)
	}
	if ep != nil && ep.NumStructures != 0 && int(ep.NumStructures) != result.Records {
		v.Push(verdict.SeverityLow, TableName+"StructureCountMismatch",
			"SMBIOS entry point declares %d structures, found %d.", ep.NumStructures, result.Records)
	}
	return v
}

// ValidateStructures checks structures which were already decoded by
// go-smbios, for example the ones of a local DMI table.
func ValidateStructures(ss []*smbios.Structure) *verdict.Verdict {
	v := verdict.New(TableName)
	handles := map[uint16]int{}
	endOfTable := false
	for idx, s := range ss {
		if s.Header.Length < StructureHeaderSize {
			v.Push(verdict.SeverityHigh, TableName+"RecordLengthTooShort",
				"SMBIOS structure %d (type %d) has length %d which is smaller than its header.",
				idx, s.Header.Type, s.Header.Length)
		}
		if prev, ok := handles[s.Header.Handle]; ok {
			v.Push(verdict.SeverityMedium, TableName+"DuplicateHandle",
				"SMBIOS structure %d (type %d) reuses handle 0x%04x of structure %d.",
				idx, s.Header.Type, s.Header.Handle, prev)
		} else {
			handles[s.Header.Handle] = idx
		}
		if s.Header.Type == TypeEndOfTable {
			endOfTable = true
		}
	}
	if !endOfTable {
		v.Push(verdict.SeverityMedium, TableName+"MissingEndOfTable",
			"SMBIOS structure table has no end-of-table (type %d) structure.", TypeEndOfTable)
	}
	return v
}
