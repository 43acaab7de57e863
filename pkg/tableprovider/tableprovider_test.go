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

package tableprovider

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/objcache"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func compress(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestParseFileName(t *testing.T) {
	for fileName, expected := range map[string]struct {
		name     string
		instance int
	}{
		"HEST":        {"HEST", 0},
		"SSDT2":       {"SSDT", 2},
		"ssdt12.dat":  {"SSDT", 12},
		"rsdp.dat.xz": {"RSDP", 0},
		"DSDT.aml":    {"DSDT", 0},
	} {
		name, instance, err := parseFileName(fileName)
		require.NoError(t, err, fileName)
		require.Equal(t, expected.name, name, fileName)
		require.Equal(t, expected.instance, instance, fileName)
	}

	for _, fileName := range []string{"abc", "SSDTx", "README.md"} {
		_, _, err := parseFileName(fileName)
		require.Error(t, err, fileName)
	}
}

func TestDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	hestBuilder := acpitest.New("HEST")
	hestBuilder.U32(0)
	ssdtBuilder := acpitest.New("SSDT")
	ssdtBuilder.Raw(1, 2, 3)
	hest, ssdt := hestBuilder.Bytes(), ssdtBuilder.Bytes()
	writeFile(t, dir, "hest.dat", hest)
	writeFile(t, dir, "SSDT1.xz", compress(t, ssdt))
	writeFile(t, dir, "SSDT2", ssdt)
	writeFile(t, dir, "notes", []byte("x"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dynamic"), 0o755))

	p := NewDir(dir)
	tables, err := p.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	require.Equal(t, "HEST", tables[0].String())
	require.Equal(t, "SSDT1", tables[1].String())
	require.Equal(t, ssdt, tables[1].Data)
	require.Equal(t, table.ProvenanceFromFile, tables[2].Provenance)

	got, err := p.GetTable(ctx, "ssdt", 0)
	require.NoError(t, err)
	require.Equal(t, 1, got.Instance)

	_, err = p.GetTable(ctx, "SLIT", 0)
	require.ErrorAs(t, err, &ErrNotFound{})
}

func TestDirPartialFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, dir, "HEST", acpitest.New("HEST").Bytes())
	writeFile(t, dir, "SLIT.xz", []byte("not xz"))
	writeFile(t, dir, "CEDT", make([]byte, 128))

	tables, err := NewDir(dir, OptionMaxTableSize(64)).Tables(ctx)
	require.Len(t, tables, 1)
	var mErr *multierror.Error
	require.ErrorAs(t, err, &mErr)
	require.Len(t, mErr.Errors, 2)
	require.ErrorAs(t, err, &ErrTooLarge{})
}

func TestSysfs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "DSDT", acpitest.New("DSDT").Bytes())

	p := NewSysfs(OptionRoot(dir))
	got, err := p.GetTable(context.Background(), "DSDT", 0)
	require.NoError(t, err)
	require.Equal(t, table.ProvenanceFromFirmware, got.Provenance)
}

const sampleACPIDump = `
RSD PTR @ 0x00000000000F05B0
    0000: 52 53 44 20 50 54 52 20 4E 42 4F 43 48 53 20 00  RSD PTR NBOCHS .
    0010: 00 10 00 00                                      ....

SSDT @ 0x0000000000000000
    0000: 53 53 44 54                                      SSDT

SSDT @ 0x0000000000001000
    0000: 53 53 44 54 AA                                   SSDT.
`

func TestParseACPIDump(t *testing.T) {
	tables, err := ParseACPIDump(strings.NewReader(sampleACPIDump))
	require.NoError(t, err)
	require.Len(t, tables, 3)

	rsdp, err := tables.GetTable(context.Background(), "RSDP", 0)
	require.NoError(t, err)
	require.Len(t, rsdp.Data, 20)
	require.Equal(t, "RSD PTR ", string(rsdp.Data[:8]))

	ssdt1, err := tables.GetTable(context.Background(), "SSDT", 1)
	require.NoError(t, err)
	require.Equal(t, []byte{'S', 'S', 'D', 'T', 0xaa}, ssdt1.Data)

	_, err = ParseACPIDump(strings.NewReader("    0000: 00 01\n"))
	require.ErrorAs(t, err, &ErrParse{})

	_, err = ParseACPIDump(strings.NewReader("HEST @ 0x0\n    0010: 00 01\n"))
	require.ErrorAs(t, err, &ErrParse{})
}

func TestFilter(t *testing.T) {
	tables := Static{
		acpitest.FromBytes("HEST", nil),
		acpitest.FromBytes("SLIT", nil),
	}
	require.Len(t, Filter(tables), 2)
	require.Len(t, Filter(tables, "slit"), 1)
}

func TestACPIDumpCache(t *testing.T) {
	ctx := context.Background()
	cache, err := objcache.New(1 << 20)
	require.NoError(t, err)
	defer cache.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "acpidump.txt")
	writeFile(t, dir, "acpidump.txt", []byte(sampleACPIDump))
	fi, err := os.Stat(path)
	require.NoError(t, err)

	provider := NewACPIDump(path, OptionCache{Cache: cache})
	tables, err := provider.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 3)

	// same size and modification time: the cached tables are returned
	writeFile(t, dir, "acpidump.txt", bytes.Repeat([]byte{'\n'}, len(sampleACPIDump)))
	require.NoError(t, os.Chtimes(path, fi.ModTime(), fi.ModTime()))
	tables, err = provider.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 3)

	// without the cache the file is parsed again
	tables, err = NewACPIDump(path).Tables(ctx)
	require.NoError(t, err)
	require.Empty(t, tables)
}
