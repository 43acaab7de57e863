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

package list

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
	"github.com/immune-gmbh/fwtest/pkg/commands"
)

func execute(t *testing.T, args ...string) string {
	cmd := &Command{}
	flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
	cmd.SetupFlagSet(flagSet)
	require.NoError(t, flagSet.Parse(args))

	var buf bytes.Buffer
	require.NoError(t, cmd.Execute(context.Background(), commands.Config{Stdout: &buf}, flagSet.Args()))
	return buf.String()
}

func TestList(t *testing.T) {
	out := execute(t)
	require.Contains(t, out, "HEST")
	require.Contains(t, out, "SLIT")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "APIC.dat"), acpitest.New("APIC").Bytes(), 0o644))
	out = execute(t, "--tables", "--source", dir)
	require.Contains(t, out, "APIC")
	require.Contains(t, out, "generic")
	require.Contains(t, out, "FWTEST")
}
