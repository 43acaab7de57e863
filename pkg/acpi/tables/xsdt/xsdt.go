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

// Package xsdt validates the root tables of the table tree: RSDT (32-bit
// entries) and XSDT (64-bit entries).
package xsdt

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

const (
	// SignatureRSDT is the signature of the Root System Description Table.
	SignatureRSDT = "RSDT"

	// SignatureXSDT is the signature of the Extended System Description Table.
	SignatureXSDT = "XSDT"
)

// Validator validates RSDT or XSDT.
type Validator struct {
	signature  string
	entryWidth int
}

// NewRSDT returns a RSDT Validator.
func NewRSDT() Validator {
	return Validator{signature: SignatureRSDT, entryWidth: 4}
}

// NewXSDT returns a XSDT Validator.
func NewXSDT() Validator {
	return Validator{signature: SignatureXSDT, entryWidth: 8}
}

// Signature implements table.Validator.
func (val Validator) Signature() string {
	return val.signature
}

// Description implements table.Validator.
func (val Validator) Description() string {
	if val.signature == SignatureRSDT {
		return "Root System Description Table"
	}
	return "Extended System Description Table"
}

// Validate implements table.Validator.
func (val Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(val.signature)
	shape := common.Shape{
		Signature: val.signature,
		MinLength: table.HeaderSize,
	}
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	entries := t.Records(shape)
	if rem := entries.Remaining() % val.entryWidth; rem != 0 {
		t.Check.Fail(verdict.SeverityMedium, "BadEntryAreaLength",
			"%s entry area is %d bytes long, which is not a multiple of %d, the last %d bytes are ignored.",
			val.signature, entries.Remaining(), val.entryWidth, rem)
	}

	seen := map[uint64]int{}
	for idx := 0; entries.Remaining() >= val.entryWidth; idx++ {
		addr, err := entries.ReadUint(val.entryWidth)
		if err != nil {
			t.FieldTooShort("entry", err)
			break
		}
		if addr == 0 {
			t.Check.Fail(verdict.SeverityMedium, "NullEntry",
				"%s entry %d is a null address.", val.signature, idx)
			continue
		}
		if prev, ok := seen[addr]; ok {
			t.Check.Fail(verdict.SeverityMedium, "DuplicateEntry",
				"%s entries %d and %d both point to 0x%x.", val.signature, prev, idx, addr)
			continue
		}
		seen[addr] = idx
	}
	return v
}
