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

// Package slit validates the System Locality Distance Information Table.
package slit

import (
	"context"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Signature of the table.
const Signature = "SLIT"

const (
	// MaxSystemLocalities is the largest locality count which can not
	// overflow the matrix size arithmetic.
	MaxSystemLocalities = 0xffff

	// LocalDistance is the normalized distance of a locality to itself.
	LocalDistance = 10

	// Unreachable marks a locality which can not be reached from another.
	Unreachable = 0xff
)

var shape = common.Shape{
	Signature: Signature,
	MinLength: table.HeaderSize + 8,
}

// Validator validates SLIT.
type Validator struct{}

// New returns a SLIT Validator.
func New() Validator {
	return Validator{}
}

// Signature implements table.Validator.
func (Validator) Signature() string {
	return Signature
}

// Description implements table.Validator.
func (Validator) Description() string {
	return "System Locality Distance Information Table"
}

// Validate implements table.Validator.
func (Validator) Validate(ctx context.Context, raw *table.RawTable) *verdict.Verdict {
	v := verdict.New(Signature)
	t := common.Begin(ctx, raw, shape, v)
	if t == nil {
		return v
	}

	f := t.FixedPart(shape).Fields()
	localities := f.U64()
	if err := f.Err(); err != nil {
		t.FieldTooShort("Number of System Localities", err)
		return v
	}

	// The count is bounded first, so that the product below can not wrap.
	if localities > MaxSystemLocalities {
		t.Check.Fail(verdict.SeverityMedium, "TooManySystemLocalities",
			"SLIT Number of System Localities is 0x%x, the maximum is 0x%x.",
			localities, uint64(MaxSystemLocalities))
		return v
	}
	need := localities*localities + uint64(shape.MinLength)
	if need > uint64(t.Length()) {
		t.Check.Fail(verdict.SeverityMedium, "TooManySystemLocalities",
			"SLIT Number of System Localities %d needs a table of %d bytes, but the table has %d bytes.",
			localities, need, t.Length())
		return v
	}

	matrix, err := t.Records(shape).ReadBytes(localities * localities)
	if err != nil {
		t.FieldTooShort("locality distance matrix", err)
		return v
	}
	checkMatrix(t, matrix, int(localities))
	return v
}

func checkMatrix(t *common.Table, matrix []byte, n int) {
	at := func(i, j int) uint8 {
		return matrix[i*n+j]
	}

	for i := 0; i < n; i++ {
		if d := at(i, i); d != LocalDistance {
			t.Check.Fail(verdict.SeverityMedium, "BadCornerEntry",
				"SLIT entry [%d][%d] is %d, expecting %d.", i, i, d, LocalDistance)
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := at(i, j)
			if d < LocalDistance {
				t.Check.Fail(verdict.SeverityMedium, "EntryReserved",
					"SLIT entry [%d][%d] is %d, values 0..%d are reserved.", i, j, d, LocalDistance-1)
			}
			if j > i && d != at(j, i) {
				t.Check.Fail(verdict.SeverityMedium, "AsymmetricEntry",
					"SLIT entry [%d][%d] is %d, but entry [%d][%d] is %d.", i, j, d, j, i, at(j, i))
			}
		}
	}
}
