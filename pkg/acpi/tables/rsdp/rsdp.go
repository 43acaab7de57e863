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

// Package rsdp validates the Root System Description Pointer.
//
// RSDP has no common header. Revision 0 only covers the first 20 bytes
// with its checksum, revision 2 and later add the extended fields and an
// extended checksum over the whole structure.
package rsdp

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/immune-gmbh/fwtest/pkg/acpi/checksum"
	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/fieldcheck"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Signature is the name the validator is registered under.
const Signature = table.SignatureRSDP

// Magic is the signature found in memory.
const Magic = "RSD PTR "

const (
	// V1Size is the size of the revision 0 structure.
	V1Size = 20

	// V2Size is the size of the revision 2 structure.
	V2Size = 36

	offsetChecksum         = 8
	offsetExtendedChecksum = 32
)

// RSDP is the decoded structure. The extended fields are zero for
// revision 0.
type RSDP struct {
	Signature        [8]byte
	Checksum         uint8
	OEMID            [6]byte
	Revision         uint8
	RSDTAddress      uint32
	Length           uint32
	XSDTAddress      uint64
	ExtendedChecksum uint8
	Reserved         [3]byte
}

// Parse decodes data, which must hold at least V1Size bytes (V2Size
// for revision 2 and later).
func Parse(data []byte) (*RSDP, error) {
	var r RSDP
	f := cursor.NewFull(data).Fields()
	copy(r.Signature[:], f.Bytes(8))
	r.Checksum = f.U8()
	copy(r.OEMID[:], f.Bytes(6))
	r.Revision = f.U8()
	r.RSDTAddress = f.U32()
	if err := f.Err(); err != nil {
		return nil, err
	}
	if r.Revision == 0 {
		return &r, nil
	}
	r.Length = f.U32()
	r.XSDTAddress = f.U64()
	r.ExtendedChecksum = f.U8()
	copy(r.Reserved[:], f.Bytes(3))
	if err := f.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validator validates RSDP.
type Validator struct{}

// New returns a RSDP Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Root System Description Pointer"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	check := fieldcheck.New(v, Signature)
	if !check.LengthAtLeast(uint64(len(raw.Data)), V1Size) {
		return v
	}
	if revision := raw.Data[15]; revision > 0 && !check.LengthAtLeast(uint64(len(raw.Data)), V2Size) {
		return v
	}
	r, err := Parse(raw.Data)
	if err != nil {
		// unreachable: the length was checked above
		check.Fail(verdict.SeverityCritical, "FieldTooShort", "RSDP: %v.", err)
		return v
	}
	logger.FromCtx(ctx).Debugf("RSDP: revision %d, OEM '%s', RSDT 0x%08x, XSDT 0x%016x",
		r.Revision, printable(r.OEMID[:]), r.RSDTAddress, r.XSDTAddress)

	if string(r.Signature[:]) != Magic {
		check.Fail(verdict.SeverityCritical, "BadSignature",
			"RSDP signature is '%s', expecting '%s'.", printable(r.Signature[:]), Magic)
	}
	checksum.Verify(v, verdict.SeverityCritical, "RSDPBadChecksum",
		"RSDP", raw.Data[:V1Size], offsetChecksum)
	if r.Revision > 0 {
		checksum.Verify(v, verdict.SeverityCritical, "RSDPBadExtendedChecksum",
			"RSDP extended", raw.Data[:V2Size], offsetExtendedChecksum)
	}

	for _, c := range r.OEMID {
		if c < 0x20 || c > 0x7e {
			check.Fail(verdict.SeverityLow, "BadOEMID",
				"RSDP OEM ID '%s' contains non-printable characters.", printable(r.OEMID[:]))
			break
		}
	}

	switch {
	case r.Revision == 0:
		if r.RSDTAddress == 0 {
			check.Fail(verdict.SeverityCritical, "NullRSDTAddress",
				"RSDP revision 0 has a null RSDT address.")
		}
		return v
	case r.Revision == 1:
		check.Fail(verdict.SeverityHigh, "BadRevision",
			"RSDP revision is 1, expecting 0 or 2 and later.")
	}

	if r.Length != V2Size {
		check.Fail(verdict.SeverityHigh, "BadLength",
			"RSDP length is %d, expecting %d.", r.Length, V2Size)
	}
	if r.XSDTAddress == 0 {
		check.Fail(verdict.SeverityCritical, "NullXSDTAddress",
			"RSDP revision %d has a null XSDT address.", r.Revision)
	}
	check.ReservedBytesZero(verdict.SeverityLow, "Reserved", r.Reserved[:])
	return v
}

func printable(b []byte) string {
	result := make([]byte, len(b))
	for idx, c := range b {
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		result[idx] = c
	}
	return string(result)
}
