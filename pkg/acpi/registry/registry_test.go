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

package registry

import (
	"context"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/checksum"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/hest"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/slit"
)

func TestRegistry(t *testing.T) {
	r := Default()
	require.Len(t, r.Signatures(), 19)
	require.Equal(t, "BGRT", r.Signatures()[0])
	require.NotNil(t, r.Get(hest.Signature))
	require.Nil(t, r.Get("SSDT"))
	require.Equal(t, "SSDT", r.ValidatorFor("SSDT").Signature())

	require.Error(t, r.Add(slit.New()))
	require.Error(t, NewRegistry().Add(nil))
}

// randomTable returns a random image which, most of the time, passes the
// common prologue, so that the decoders behind it get exercised.
func randomTable(rng *rand.Rand, signature string) []byte {
	data := make([]byte, rng.Intn(512))
	rng.Read(data)
	if len(data) < table.HeaderSize || rng.Intn(8) == 0 {
		return data
	}
	copy(data, signature)
	declared := uint32(len(data))
	if rng.Intn(8) == 0 {
		declared = rng.Uint32()
	}
	binary.LittleEndian.PutUint32(data[4:], declared)
	checksum.Fix(data, table.ChecksumOffset)
	return data
}

func TestRandomTablesDoNotPanic(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(0))
	r := Default()
	for _, signature := range r.Signatures() {
		v := r.Get(signature)
		for i := 0; i < 2000; i++ {
			data := randomTable(rng, signature)
			raw, err := table.New(signature, data, table.ProvenanceFromFile)
			require.NoError(t, err)
			require.NotPanics(t, func() {
				v.Validate(ctx, raw)
			}, "%s: %X", signature, data)
		}
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))
	r := Default()
	for _, signature := range r.Signatures() {
		for i := 0; i < 100; i++ {
			raw, err := table.New(signature, randomTable(rng, signature), table.ProvenanceFromFirmware)
			require.NoError(t, err)
			first := r.Validate(ctx, raw)
			second := r.Validate(ctx, raw)
			require.Equal(t, first, second)
		}
	}
}

func FuzzValidate(f *testing.F) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 16; i++ {
		f.Add(randomTable(rng, hest.Signature))
	}
	ctx := context.Background()
	r := Default()
	f.Fuzz(func(t *testing.T, data []byte) {
		for _, signature := range r.Signatures() {
			raw, err := table.New(signature, data, table.ProvenanceFromFile)
			require.NoError(t, err)
			r.Validate(ctx, raw)
		}
	})
}
