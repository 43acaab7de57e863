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

package logentryfingerprint

import (
	"testing"

	"github.com/facebookincubator/go-belt/pkg/field"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/types"
	"github.com/stretchr/testify/require"
)

func fingerprint(t *testing.T, result types.PreHookResult) FieldValue {
	var value FieldValue
	result.ExtraFields.ForEachField(func(f *field.Field) bool {
		require.Equal(t, FieldKey, f.Key)
		value = f.Value.(FieldValue)
		return true
	})
	require.NotEmpty(t, value)
	return value
}

func TestPreHook(t *testing.T) {
	h := PreHook{}

	a := fingerprint(t, h.ProcessInputf(nil, logger.LevelWarning, "%s: bad checksum", "HEST"))
	b := fingerprint(t, h.ProcessInputf(nil, logger.LevelWarning, "%s: bad checksum", "SLIT"))
	require.Equal(t, a, b, "format arguments must not affect the fingerprint")
	require.Len(t, string(a), 16)

	c := fingerprint(t, h.ProcessInputf(nil, logger.LevelError, "%s: bad checksum", "HEST"))
	require.NotEqual(t, a, c)

	d := fingerprint(t, h.ProcessInput(nil, logger.LevelWarning, "x", 1))
	e := fingerprint(t, h.ProcessInput(nil, logger.LevelWarning, "y", 2))
	require.Equal(t, d, e, "only argument types are hashed")
}
