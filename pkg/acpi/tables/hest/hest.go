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

// Package hest validates the Hardware Error Source Table.
//
// HEST error source structures carry no length field: the size of each
// one is derived from its type and, for the machine check structures, from
// the number of hardware banks which follow it.
package hest

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// Signature of the table.
const Signature = "HEST"

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize + 4,
}

// errorSourceHeaderSize covers "type u16, source id u16", the part common
// to all error source structures.
const errorSourceHeaderSize = 4

// Validator validates HEST.
type Validator struct{}

// New returns a HEST Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "Hardware Error Source Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.FixedPart(shape).Fields()
	errorSourceCount := f.U32()
	if err := f.Err(); err != nil {
		t.FieldTooShort("Error Source Count", err)
		return v
	}

	s := &state{
		Table:     t,
		sourceIDs: map[uint16]int{},
	}
	result := walker.WalkImplicit(t.Records(shape), walker.ImplicitConfig{
		TypeOffset: 0,
		TypeWidth:  2,
		HeaderSize: errorSourceHeaderSize,
		SizeOf:     errorSourceSize,
		Table:      Signature,
		What:       "error source",
	}, v, s.dispatch)

	for _, limit := range []struct {
		Type ErrorSourceType
		Code string
	}{
		{ErrorSourceTypeIA32MachineCheck, "TooManyIA32ArchMachineCheckExceptions"},
		{ErrorSourceTypeIA32CorrectedMachineCheck, "TooManyIA32CorrectedMachineChecks"},
		{ErrorSourceTypeNMI, "TooManyNMIStructures"},
	} {
		if count := result.Counts[uint32(limit.Type)]; count > 1 {
			t.Check.Fail(verdict.SeverityHigh, limit.Code,
				"HEST contains %d %s structures, expecting at most one.", count, limit.Type)
		}
	}

	if !result.Termination.IsError() && uint64(errorSourceCount) != uint64(result.Records) {
		t.Check.Fail(verdict.SeverityMedium, "BadErrorSourceCount",
			"HEST Error Source Count is %d, but the table contains %d error source structures.",
			errorSourceCount, result.Records)
	}
	return v
}

// errorSourceSize implements walker.SizeFunc.
func errorSourceSize(recordType uint32, c *cursor.Cursor) (uint64, error) {
	errorSourceType := ErrorSourceType(recordType)
	fixedSize, ok := errorSourceType.fixedSize()
	if !ok {
		return 0, walker.ErrUnknownRecordType{Type: recordType}
	}

	banksOffset, hasBanks := errorSourceType.banksOffset()
	if !hasBanks {
		return fixedSize, nil
	}
	if err := c.Skip(uint64(banksOffset)); err != nil {
		return 0, err
	}
	banks, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	return fixedSize + uint64(banks)*bankSize, nil
}

type state struct {
	*common.Table
	sourceIDs map[uint16]int
}

func (s *state) dispatch(rec *walker.Record, _ *verdict.Verdict) {
	errorSourceType := ErrorSourceType(rec.Type)
	f := rec.Cursor().Fields()
	f.Skip(2)
	sourceID := f.U16()
	if err := f.Err(); err != nil {
		s.FieldTooShort(errorSourceType.String(), err)
		return
	}
	if prev, ok := s.sourceIDs[sourceID]; ok {
		s.Check.Fail(verdict.SeverityMedium, "DuplicateSourceID",
			"HEST error sources %d and %d have the same Source ID 0x%x.", prev, rec.Index, sourceID)
	} else {
		s.sourceIDs[sourceID] = rec.Index
	}

	switch errorSourceType {
	case ErrorSourceTypeIA32MachineCheck:
		s.validateMachineCheck(rec, f)
	case ErrorSourceTypeIA32CorrectedMachineCheck, ErrorSourceTypeIA32DeferredMachineCheck:
		s.validateCorrectedMachineCheck(rec, f)
	case ErrorSourceTypeNMI:
		s.validateNMI(rec, f)
	case ErrorSourceTypePCIeRootPortAER, ErrorSourceTypePCIeDeviceAER, ErrorSourceTypePCIeBridgeAER:
		s.validateAER(rec, f)
	case ErrorSourceTypeGHES, ErrorSourceTypeGHESv2:
		s.validateGHES(rec, f)
	}
}
