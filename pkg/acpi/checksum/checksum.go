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

// Package checksum implements the 8-bit sum-to-zero checksum used by ACPI
// (and SMBIOS) structures.
package checksum

import (
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Sum returns the sum of all bytes modulo 256. A correctly checksummed
// region sums to zero.
func Sum(data []byte) uint8 {
	var sum uint8
	for _, b := range data {
		sum += b
	}
	return sum
}

// Expected returns the value the checksum byte should have had for the
// region to sum to zero, given the value it actually has.
func Expected(declared, sum uint8) uint8 {
	return declared - sum
}

// Fix sets data[idx] so that data sums to zero.
func Fix(data []byte, idx int) {
	data[idx] = 0
	data[idx] = -Sum(data)
}

// Verify checks that data sums to zero, where data[idx] is the declared
// checksum byte. On a mismatch it pushes one Diagnostic with the given
// severity and code and returns false.
//
// The caller guarantees idx is within data.
func Verify(v *verdict.Verdict, severity verdict.Severity, code string, what string, data []byte, idx int) bool {
	sum := Sum(data)
	if sum == 0 {
		return true
	}
	declared := data[idx]
	v.Push(severity, code,
		"%s checksum is 0x%02x, expecting 0x%02x (%d bytes summed to 0x%02x instead of zero).",
		what, declared, Expected(declared, sum), len(data), sum)
	return false
}
