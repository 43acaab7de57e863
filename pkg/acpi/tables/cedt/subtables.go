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

package cedt

import (
	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

const (
	chbsSize       = 32
	cfmwsFixedSize = 36
	cximsFixedSize = 8
	rdpasSize      = 17
)

// CHBS CXL versions and the register block length each one requires.
const (
	CXLVersionRCH        = 0
	CXLVersionHostBridge = 1

	chbsLengthRCH        = 0x2000
	chbsLengthHostBridge = 0x10000
)

// cfmwsGranularity is 256MB, the alignment unit of CXL fixed memory windows.
const cfmwsGranularity = 256 << 20

func (s *state) validateCHBS(rec *walker.Record, f *cursor.Fields) {
	if !s.exactLength(rec, chbsSize) {
		return
	}
	uid := f.U32()
	cxlVersion := f.U32()
	reserved := f.U32()
	base := f.U64()
	length := f.U64()
	if err := f.Err(); err != nil {
		s.FieldTooShort("CHBS", err)
		return
	}

	if prev, ok := s.chbsUIDs[uid]; ok {
		s.Check.Fail(verdict.SeverityMedium, "DuplicateCHBSUID",
			"CEDT CHBS subtables %d and %d have the same UID 0x%x.", prev, rec.Index, uid)
	} else {
		s.chbsUIDs[uid] = rec.Index
	}

	switch cxlVersion {
	case CXLVersionRCH:
		if length != chbsLengthRCH {
			s.Check.Fail(verdict.SeverityHigh, "BadCHBSLength",
				"CEDT CHBS Length is 0x%x, expecting 0x%x for CXL version %d (RCH).", length, chbsLengthRCH, cxlVersion)
		}
	case CXLVersionHostBridge:
		if length != chbsLengthHostBridge {
			s.Check.Fail(verdict.SeverityHigh, "BadCHBSLength",
				"CEDT CHBS Length is 0x%x, expecting 0x%x for CXL version %d (host bridge).", length, chbsLengthHostBridge, cxlVersion)
		}
	default:
		s.Check.Fail(verdict.SeverityHigh, "BadCHBSVersion",
			"CEDT CHBS CXL Version is 0x%x, expecting 0x0 or 0x1.", cxlVersion)
	}
	s.Check.ReservedZero(verdict.SeverityMedium, "CHBS Reserved", uint64(reserved))
	if base == 0 {
		s.Check.Fail(verdict.SeverityHigh, "NullCHBSBase", "CEDT CHBS Base is null.")
	}
}

// interleaveWays decodes the "Encoded Number of Interleave Ways" field.
func interleaveWays(eniw uint8) (uint64, bool) {
	switch {
	case eniw <= 4:
		return 1 << eniw, true
	case eniw >= 8 && eniw <= 10:
		return 3 << (eniw - 8), true
	}
	return 0, false
}

func (s *state) validateCFMWS(rec *walker.Record, f *cursor.Fields) {
	if rec.Length() < cfmwsFixedSize {
		s.Check.Fail(verdict.SeverityHigh, "BadSubtableLength",
			"CEDT CFMWS subtable at offset 0x%x has length %d, expecting at least %d.",
			rec.Offset, rec.Length(), cfmwsFixedSize)
		return
	}
	reserved1 := f.U32()
	base := f.U64()
	size := f.U64()
	eniw := f.U8()
	arithmetic := f.U8()
	reserved2 := f.U16()
	_ = f.U32() // host bridge interleave granularity
	restrictions := f.U16()
	_ = f.U16() // QTG ID
	if err := f.Err(); err != nil {
		s.FieldTooShort("CFMWS", err)
		return
	}

	s.Check.ReservedZero(verdict.SeverityMedium, "CFMWS Reserved", uint64(reserved1))
	s.Check.ReservedZero(verdict.SeverityMedium, "CFMWS Reserved", uint64(reserved2))
	if arithmetic > 1 {
		s.Check.Fail(verdict.SeverityHigh, "BadCFMWSInterleaveArithmetic",
			"CEDT CFMWS Interleave Arithmetic is 0x%x, expecting 0x0 (modulo) or 0x1 (XOR).", arithmetic)
	}
	s.Check.ReservedBits("CFMWS Window Restrictions", uint64(restrictions), 5, 15)
	if base%cfmwsGranularity != 0 || size%cfmwsGranularity != 0 {
		s.Check.Fail(verdict.SeverityMedium, "BadCFMWSAlignment",
			"CEDT CFMWS Base HPA 0x%x and Window Size 0x%x must be 256MB aligned.", base, size)
	}

	ways, ok := interleaveWays(eniw)
	if !ok {
		s.Check.Fail(verdict.SeverityHigh, "BadCFMWSInterleaveWays",
			"CEDT CFMWS Encoded Number of Interleave Ways is 0x%x, expecting 0x0..0x4 or 0x8..0xa.", eniw)
		return
	}
	s.exactLength(rec, cfmwsFixedSize+4*int(ways))
}

func (s *state) validateCXIMS(rec *walker.Record, f *cursor.Fields) {
	if rec.Length() < cximsFixedSize {
		s.Check.Fail(verdict.SeverityHigh, "BadSubtableLength",
			"CEDT CXIMS subtable at offset 0x%x has length %d, expecting at least %d.",
			rec.Offset, rec.Length(), cximsFixedSize)
		return
	}
	reserved := f.U16()
	_ = f.U8() // host bridge interleave granularity
	xorMaps := f.U8()
	if err := f.Err(); err != nil {
		s.FieldTooShort("CXIMS", err)
		return
	}
	s.Check.ReservedZero(verdict.SeverityMedium, "CXIMS Reserved", uint64(reserved))
	s.exactLength(rec, cximsFixedSize+8*int(xorMaps))
}

func (s *state) validateRDPAS(rec *walker.Record, f *cursor.Fields) {
	if !s.exactLength(rec, rdpasSize) {
		return
	}
	_ = f.U16() // segment
	_ = f.U16() // BDF
	protocol := f.U8()
	base := f.U64()
	if err := f.Err(); err != nil {
		s.FieldTooShort("RDPAS", err)
		return
	}
	if protocol > 1 {
		s.Check.Fail(verdict.SeverityHigh, "BadRDPASProtocol",
			"CEDT RDPAS Protocol Type is 0x%x, expecting 0x0 (CXL.io) or 0x1 (CXL.cachemem).", protocol)
	}
	if base == 0 {
		s.Check.Fail(verdict.SeverityHigh, "NullRDPASBase", "CEDT RDPAS Base Address is null.")
	}
}
