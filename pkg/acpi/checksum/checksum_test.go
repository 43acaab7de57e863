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

package checksum

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

func TestSum(t *testing.T) {
	require.Equal(t, uint8(0), Sum(nil))
	require.Equal(t, uint8(6), Sum([]byte{1, 2, 3}))
	require.Equal(t, uint8(0), Sum([]byte{0xff, 0x01}))
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		buf := make([]byte, 1+rng.Intn(256))
		rng.Read(buf)
		Fix(buf, len(buf)-1)

		v := verdict.New("TEST")
		require.True(t, Verify(v, verdict.SeverityHigh, "TESTBadChecksum", "Table", buf, len(buf)-1))
		require.Empty(t, v.Diagnostics)

		bit := rng.Intn(len(buf) * 8)
		buf[bit/8] ^= 1 << (bit % 8)

		v = verdict.New("TEST")
		require.False(t, Verify(v, verdict.SeverityHigh, "TESTBadChecksum", "Table", buf, len(buf)-1))
		require.Equal(t, []string{"TESTBadChecksum"}, v.Codes())

		// substituting the reported value must make the checksum pass
		buf[len(buf)-1] = Expected(buf[len(buf)-1], Sum(buf))
		require.Equal(t, uint8(0), Sum(buf))
	}
}
