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
	"encoding/binary"

	"github.com/immune-gmbh/fwtest/pkg/acpi/checksum"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

const (
	// Anchor21 starts a 32-bit (SMBIOS 2.1+) entry point.
	Anchor21 = "_SM_"

	// Anchor30 starts a 64-bit (SMBIOS 3.0+) entry point.
	Anchor30 = "_SM3_"

	anchorIntermediate = "_DMI_"

	// EntryPoint21Size is the size of a 32-bit entry point.
	EntryPoint21Size = 0x1f

	// EntryPoint30Size is the size of a 64-bit entry point.
	EntryPoint30Size = 0x18

	// TableName prefixes all the SMBIOS diagnostic codes.
	TableName = "SMBIOS"
)

// EntryPoint is the decoded SMBIOS entry point.
type EntryPoint struct {
	Anchor        string
	MajorVersion  uint8
	MinorVersion  uint8
	TableLength   uint32
	TableAddress  uint64
	NumStructures uint16
}

// ValidateEntryPoint checks the anchors, lengths and checksums of a 32-bit
// or 64-bit SMBIOS entry point. The returned EntryPoint is nil if the data
// is not recognized as an entry point at all.
func ValidateEntryPoint(data []byte) (*EntryPoint, *verdict.Verdict) {
	v := verdict.New(TableName)
	switch {
	case len(data) >= len(Anchor30) && string(data[:len(Anchor30)]) == Anchor30:
		return validateEntryPoint30(v, data), v
	case len(data) >= len(Anchor21) && string(data[:len(Anchor21)]) == Anchor21:
		return validateEntryPoint21(v, data), v
	}
	v.Push(verdict.SeverityCritical, TableName+"BadAnchor",
		"SMBIOS entry point does not start with %q or %q.", Anchor21, Anchor30)
	return nil, v
}

func validateEntryPoint21(v *verdict.Verdict, data []byte) *EntryPoint {
	if len(data) < EntryPoint21Size {
		v.Push(verdict.SeverityCritical, TableName+"TooShort",
			"SMBIOS 2.1 entry point is %d bytes long, expecting at least %d.", len(data), EntryPoint21Size)
		return nil
	}

	length := int(data[5])
	switch {
	case length == EntryPoint21Size:
	case length == 0x1e:
		// SMBIOS 2.1 documented the length as 0x1e by mistake
		v.Info(TableName+"LegacyEntryPointLength",
			"SMBIOS 2.1 entry point length is 0x1e, which is tolerated for version 2.1 only.")
		length = EntryPoint21Size
	default:
		v.Push(verdict.SeverityMedium, TableName+"BadEntryPointLength",
			"SMBIOS 2.1 entry point length is 0x%x, expecting 0x%x.", length, EntryPoint21Size)
		if length > len(data) || length < EntryPoint21Size {
			length = EntryPoint21Size
		}
	}
	checksum.Verify(v, verdict.SeverityCritical, TableName+"BadEntryPointChecksum",
		"SMBIOS entry point", data[:length], 4)

	if string(data[0x10:0x15]) != anchorIntermediate {
		v.Push(verdict.SeverityHigh, TableName+"BadIntermediateAnchor",
			"SMBIOS intermediate anchor is %q, expecting %q.", data[0x10:0x15], anchorIntermediate)
	} else {
		checksum.Verify(v, verdict.SeverityHigh, TableName+"BadIntermediateChecksum",
			"SMBIOS intermediate entry point", data[0x10:EntryPoint21Size], 0x15-0x10)
	}

	ep := &EntryPoint{
		Anchor:        Anchor21,
		MajorVersion:  data[6],
		MinorVersion:  data[7],
		TableLength:   uint32(binary.LittleEndian.Uint16(data[0x16:])),
		TableAddress:  uint64(binary.LittleEndian.Uint32(data[0x18:])),
		NumStructures: binary.LittleEndian.Uint16(data[0x1c:]),
	}
	if ep.TableAddress == 0 {
		v.Push(verdict.SeverityHigh, TableName+"NullTableAddress", "SMBIOS structure table address is zero.")
	}
	return ep
}

func validateEntryPoint30(v *verdict.Verdict, data []byte) *EntryPoint {
	if len(data) < EntryPoint30Size {
		v.Push(verdict.SeverityCritical, TableName+"TooShort",
			"SMBIOS 3.0 entry point is %d bytes long, expecting at least %d.", len(data), EntryPoint30Size)
		return nil
	}

	length := int(data[6])
	if length != EntryPoint30Size {
		v.Push(verdict.SeverityMedium, TableName+"BadEntryPointLength",
			"SMBIOS 3.0 entry point length is 0x%x, expecting 0x%x.", length, EntryPoint30Size)
		if length > len(data) || length < EntryPoint30Size {
			length = EntryPoint30Size
		}
	}
	checksum.Verify(v, verdict.SeverityCritical, TableName+"BadEntryPointChecksum",
		"SMBIOS entry point", data[:length], 5)

	if data[10] != 1 {
		v.Push(verdict.SeverityLow, TableName+"BadEntryPointRevision",
			"SMBIOS 3.0 entry point revision is %d, expecting 1.", data[10])
	}
	if data[11] != 0 {
		v.Push(verdict.SeverityLow, TableName+"ReservedNonZero",
			"SMBIOS 3.0 entry point reserved byte is 0x%02x, expecting zero.", data[11])
	}

	ep := &EntryPoint{
		Anchor:       Anchor30,
		MajorVersion: data[7],
		MinorVersion: data[8],
		TableLength:  binary.LittleEndian.Uint32(data[12:]),
		TableAddress: binary.LittleEndian.Uint64(data[16:]),
	}
	if ep.TableAddress == 0 {
		v.Push(verdict.SeverityHigh, TableName+"NullTableAddress", "SMBIOS structure table address is zero.")
	}
	return ep
}
