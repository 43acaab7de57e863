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

// Package fieldcheck contains the stateless field predicates shared by all
// table validators.
//
// Every check appends at most one Diagnostic to the Verdict (and only on
// failure) and returns whether the check passed. All values are treated
// as unsigned.
package fieldcheck

import (
	"fmt"
	"strings"

	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Checker binds the checks to a Verdict and to the signature used as
// the prefix of diagnostic codes.
type Checker struct {
	Verdict *verdict.Verdict
	Table   string
}

// New returns a Checker which pushes diagnostics with codes prefixed with
// the given table signature.
func New(v *verdict.Verdict, table string) Checker {
	return Checker{Verdict: v, Table: table}
}

// Code returns the diagnostic code for the given suffix, e.g.
// "CEDT" + "ReservedNonZero".
func (c Checker) Code(suffix string) string {
	return c.Table + suffix
}

// Fail unconditionally pushes a diagnostic with the code prefixed by the
// table signature. It always returns false.
func (c Checker) Fail(severity verdict.Severity, suffix string, format string, args ...any) bool {
	c.Verdict.Push(severity, c.Code(suffix), format, args...)
	return false
}

// ReservedZero passes iff value is zero.
func (c Checker) ReservedZero(severity verdict.Severity, field string, value uint64) bool {
	if value == 0 {
		return true
	}
	return c.Fail(severity, "ReservedNonZero",
		"%s %s field must be zero, got 0x%x instead.", c.Table, field, value)
}

// ReservedBytesZero passes iff all bytes are zero.
func (c Checker) ReservedBytesZero(severity verdict.Severity, field string, value []byte) bool {
	for idx, b := range value {
		if b != 0 {
			return c.Fail(severity, "ReservedNonZero",
				"%s %s field must be zero, got 0x%02x at byte %d instead.", c.Table, field, b, idx)
		}
	}
	return true
}

// ReservedBits passes iff the bits [lowBit..highBit] (inclusive) of value
// are all zero.
func (c Checker) ReservedBits(field string, value uint64, lowBit, highBit uint) bool {
	mask := BitMask(lowBit, highBit)
	if value&mask == 0 {
		return true
	}
	return c.Fail(verdict.SeverityMedium, "ReservedBitUsed",
		"%s %s is 0x%x and has reserved bits [%d:%d] set (mask 0x%x).",
		c.Table, field, value, highBit, lowBit, mask)
}

// FixedValue passes iff actual == expected.
func (c Checker) FixedValue(severity verdict.Severity, field string, actual, expected uint64) bool {
	if actual == expected {
		return true
	}
	return c.Fail(severity, "BadFieldValue",
		"%s %s is 0x%x, expecting 0x%x.", c.Table, field, actual, expected)
}

// Range passes iff min <= actual <= max.
func (c Checker) Range(field string, actual, min, max uint64) bool {
	if min <= actual && actual <= max {
		return true
	}
	return c.Fail(verdict.SeverityHigh, "FieldOutOfRange",
		"%s %s is 0x%x, expecting a value in the range 0x%x..0x%x.", c.Table, field, actual, min, max)
}

// EnumMembership passes iff actual is one of allowed.
func (c Checker) EnumMembership(field string, actual uint64, allowed ...uint64) bool {
	for _, a := range allowed {
		if actual == a {
			return true
		}
	}
	return c.Fail(verdict.SeverityHigh, "InvalidValue",
		"%s %s is 0x%x, expecting one of %s.", c.Table, field, actual, formatSet(allowed))
}

// LengthAtLeast passes iff declared >= minimum. It must be called before
// any read which depends on the checked size.
func (c Checker) LengthAtLeast(declared, minimum uint64) bool {
	if declared >= minimum {
		return true
	}
	return c.Fail(verdict.SeverityHigh, "TooShort",
		"%s table too short, expecting %d bytes, instead got %d bytes.", c.Table, minimum, declared)
}

// BitMask returns the mask with bits [lowBit..highBit] (inclusive) set.
func BitMask(lowBit, highBit uint) uint64 {
	if highBit > 63 {
		highBit = 63
	}
	if lowBit > highBit {
		return 0
	}
	width := highBit - lowBit + 1
	if width == 64 {
		return ^uint64(0)
	}
	return ((uint64(1) << width) - 1) << lowBit
}

func formatSet(values []uint64) string {
	var result strings.Builder
	result.WriteByte('{')
	for idx, v := range values {
		if idx > 0 {
			result.WriteString(", ")
		}
		fmt.Fprintf(&result, "0x%x", v)
	}
	result.WriteByte('}')
	return result.String()
}
