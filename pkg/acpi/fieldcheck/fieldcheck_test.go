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

package fieldcheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

func TestChecks(t *testing.T) {
	type testCase struct {
		name  string
		check func(c Checker) bool
		code  string
	}
	for _, tc := range []testCase{
		{"reserved_zero_ok", func(c Checker) bool { return c.ReservedZero(verdict.SeverityMedium, "Reserved", 0) }, ""},
		{"reserved_zero_fail", func(c Checker) bool { return c.ReservedZero(verdict.SeverityMedium, "Reserved", 1) }, "TESTReservedNonZero"},
		{"reserved_bytes_fail", func(c Checker) bool {
			return c.ReservedBytesZero(verdict.SeverityLow, "Reserved", []byte{0, 0, 4})
		}, "TESTReservedNonZero"},
		{"reserved_bits_ok", func(c Checker) bool { return c.ReservedBits("Flags", 0x03, 2, 31) }, ""},
		{"reserved_bits_fail", func(c Checker) bool { return c.ReservedBits("Flags", 0x04, 2, 31) }, "TESTReservedBitUsed"},
		{"reserved_bits_high", func(c Checker) bool { return c.ReservedBits("Flags", 1<<63, 2, 63) }, "TESTReservedBitUsed"},
		{"fixed_ok", func(c Checker) bool { return c.FixedValue(verdict.SeverityHigh, "Version", 1, 1) }, ""},
		{"fixed_fail", func(c Checker) bool { return c.FixedValue(verdict.SeverityHigh, "Version", 2, 1) }, "TESTBadFieldValue"},
		{"range_ok_low", func(c Checker) bool { return c.Range("Type", 0, 0, 11) }, ""},
		{"range_ok_high", func(c Checker) bool { return c.Range("Type", 11, 0, 11) }, ""},
		{"range_fail", func(c Checker) bool { return c.Range("Type", 12, 0, 11) }, "TESTFieldOutOfRange"},
		{"enum_ok", func(c Checker) bool { return c.EnumMembership("Class", 1, 0, 1) }, ""},
		{"enum_fail", func(c Checker) bool { return c.EnumMembership("Class", 2, 0, 1) }, "TESTInvalidValue"},
		{"gas_ok", func(c Checker) bool {
			return c.AddressSpace("Base", AddressSpaceSystemIO, AddressSpaceSystemMemory, AddressSpaceSystemIO)
		}, ""},
		{"gas_fail", func(c Checker) bool { return c.AddressSpace("Base", AddressSpacePCC, AddressSpaceSystemMemory) }, "TESTBadAddressSpaceID"},
		{"length_ok", func(c Checker) bool { return c.LengthAtLeast(36, 36) }, ""},
		{"length_fail", func(c Checker) bool { return c.LengthAtLeast(35, 36) }, "TESTTooShort"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := verdict.New("TEST")
			ok := tc.check(New(v, "TEST"))
			if tc.code == "" {
				require.True(t, ok)
				require.Empty(t, v.Diagnostics)
				return
			}
			require.False(t, ok)
			require.Equal(t, []string{tc.code}, v.Codes())
		})
	}
}

func TestBitMask(t *testing.T) {
	require.Equal(t, uint64(0xf8), BitMask(3, 7))
	require.Equal(t, uint64(1), BitMask(0, 0))
	require.Equal(t, ^uint64(0), BitMask(0, 63))
	require.Equal(t, uint64(0), BitMask(5, 4))
	require.Equal(t, uint64(0xffc0), BitMask(6, 15))
}
