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

package helpers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/tableprovider"
)

const acpidump = `
SSDT @ 0x0000000000000000
    0000: 53 53 44 54                                      SSDT
`

func newSource(t *testing.T, args ...string) *Source {
	s := &Source{}
	flagSet := pflag.NewFlagSet("source", pflag.ContinueOnError)
	s.SetupFlagSet(flagSet)
	require.NoError(t, flagSet.Parse(args))
	return s
}

func TestSourceDumpCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "acpidump.txt")
	require.NoError(t, os.WriteFile(path, []byte(acpidump), 0o644))
	fi, err := os.Stat(path)
	require.NoError(t, err)

	s := newSource(t, "--source", path)
	defer s.Close()

	provider, err := s.Provider()
	require.NoError(t, err)
	require.IsType(t, &tableprovider.ACPIDump{}, provider)
	require.NotNil(t, provider.(*tableprovider.ACPIDump).Config.Cache)
	tables, err := provider.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	// an unchanged file is not parsed again, not even by another provider
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'\n'}, len(acpidump)), 0o644))
	require.NoError(t, os.Chtimes(path, fi.ModTime(), fi.ModTime()))
	provider, err = s.Provider()
	require.NoError(t, err)
	tables, err = provider.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 1)
}

func TestSourceDumpCacheDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acpidump.txt")
	require.NoError(t, os.WriteFile(path, []byte(acpidump), 0o644))

	s := newSource(t, "--source", path, "--dump-cache-size", "0")
	defer s.Close()

	provider, err := s.Provider()
	require.NoError(t, err)
	require.Nil(t, provider.(*tableprovider.ACPIDump).Config.Cache)
}
