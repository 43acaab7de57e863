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

package dmidecode

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/digitalocean/go-smbios/smbios"
	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
	"github.com/immune-gmbh/fwtest/pkg/acpi/checksum"
)

func entryPoint21(tableLength uint16, numStructures uint16) []byte {
	b := &acpitest.Buf{}
	b.Raw([]byte(Anchor21)...).U8(0).U8(EntryPoint21Size).U8(2).U8(8).U16(0x100).U8(0).Zero(5)
	b.Raw([]byte(anchorIntermediate)...).U8(0).U16(tableLength).U32(0x000f0000).U16(numStructures).U8(0x28)
	data := b.Bytes()
	checksum.Fix(data[0x10:EntryPoint21Size], 5)
	checksum.Fix(data, 4)
	return data
}

func entryPoint30(maxSize uint32) []byte {
	b := &acpitest.Buf{}
	b.Raw([]byte(Anchor30)...).U8(0).U8(EntryPoint30Size).U8(3).U8(2).U8(0).U8(1).U8(0).U32(maxSize).U64(0x7b000000)
	data := b.Bytes()
	checksum.Fix(data, 5)
	return data
}

func structureTable() []byte {
	b := &acpitest.Buf{}
	b.U8(0).U8(4).U16(0).Raw('a', 'b', 0, 0)
	b.U8(1).U8(5).U16(1).U8(0xaa).Raw(0, 0)
	b.U8(TypeEndOfTable).U8(4).U16(2).Raw(0, 0)
	return b.Bytes()
}

func TestEntryPoint(t *testing.T) {
	t.Run("v21", func(t *testing.T) {
		ep, v := ValidateEntryPoint(entryPoint21(22, 3))
		require.True(t, v.Passed(), v.Diagnostics)
		require.Equal(t, Anchor21, ep.Anchor)
		require.Equal(t, uint8(2), ep.MajorVersion)
		require.Equal(t, uint32(22), ep.TableLength)
		require.Equal(t, uint16(3), ep.NumStructures)
	})

	t.Run("v30", func(t *testing.T) {
		ep, v := ValidateEntryPoint(entryPoint30(0x1000))
		require.True(t, v.Passed(), v.Diagnostics)
		require.Equal(t, Anchor30, ep.Anchor)
		require.Equal(t, uint64(0x7b000000), ep.TableAddress)
	})

	t.Run("bad_anchor", func(t *testing.T) {
		ep, v := ValidateEntryPoint([]byte("_XX_"))
		require.Nil(t, ep)
		require.Equal(t, []string{"SMBIOSBadAnchor"}, v.Codes())
	})

	t.Run("too_short", func(t *testing.T) {
		_, v := ValidateEntryPoint(entryPoint30(0)[:10])
		require.Equal(t, []string{"SMBIOSTooShort"}, v.Codes())
	})

	t.Run("bad_checksum", func(t *testing.T) {
		data := entryPoint21(22, 3)
		data[4]++
		_, v := ValidateEntryPoint(data)
		require.Equal(t, []string{"SMBIOSBadEntryPointChecksum"}, v.Codes())
	})

	t.Run("bad_intermediate", func(t *testing.T) {
		data := entryPoint21(22, 3)
		data[0x16]++
		data[4]--
		_, v := ValidateEntryPoint(data)
		require.Equal(t, []string{"SMBIOSBadIntermediateChecksum"}, v.Codes())

		data = entryPoint21(22, 3)
		data[0x10] = 'X'
		checksum.Fix(data, 4)
		_, v = ValidateEntryPoint(data)
		require.Equal(t, []string{"SMBIOSBadIntermediateAnchor"}, v.Codes())
	})

	t.Run("legacy_length", func(t *testing.T) {
		data := entryPoint21(22, 3)
		data[5] = 0x1e
		checksum.Fix(data, 4)
		_, v := ValidateEntryPoint(data)
		require.True(t, v.Passed())
		require.Equal(t, []string{"SMBIOSLegacyEntryPointLength"}, v.Codes())
	})
}

func TestStructureTable(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		data := structureTable()
		v := ValidateStructureTable(data, nil)
		require.True(t, v.Passed(), v.Diagnostics)

		ep, _ := ValidateEntryPoint(entryPoint21(uint16(len(data)), 3))
		v = ValidateStructureTable(data, ep)
		require.True(t, v.Passed(), v.Diagnostics)
	})

	t.Run("count_mismatch", func(t *testing.T) {
		data := structureTable()
		ep, _ := ValidateEntryPoint(entryPoint21(uint16(len(data)), 5))
		v := ValidateStructureTable(data, ep)
		require.Equal(t, []string{"SMBIOSStructureCountMismatch"}, v.Codes())
	})

	t.Run("truncated", func(t *testing.T) {
		data := structureTable()
		ep, _ := ValidateEntryPoint(entryPoint21(uint16(len(data)+10), 3))
		v := ValidateStructureTable(data, ep)
		require.Contains(t, v.Codes(), "SMBIOSTableTruncated")
	})

	t.Run("duplicate_handle", func(t *testing.T) {
		data := structureTable()
		data[10] = 0
		v := ValidateStructureTable(data, nil)
		require.Equal(t, []string{"SMBIOSDuplicateHandle"}, v.Codes())
	})

	t.Run("missing_end", func(t *testing.T) {
		data := structureTable()
		v := ValidateStructureTable(data[:len(data)-6], nil)
		require.Equal(t, []string{"SMBIOSMissingEndOfTable"}, v.Codes())
	})

	t.Run("unterminated_strings", func(t *testing.T) {
		b := &acpitest.Buf{}
		b.U8(0).U8(4).U16(0).Raw('a', 'b', 0)
		v := ValidateStructureTable(b.Bytes(), nil)
		require.Equal(t, []string{"SMBIOSRecordTruncated"}, v.Codes())
	})

	t.Run("short_structure", func(t *testing.T) {
		b := &acpitest.Buf{}
		b.U8(0).U8(2).U16(0).Raw(0, 0)
		v := ValidateStructureTable(b.Bytes(), nil)
		require.Equal(t, []string{"SMBIOSRecordLengthTooShort"}, v.Codes())
	})

	t.Run("formatted_area_out_of_range", func(t *testing.T) {
		b := &acpitest.Buf{}
		b.U8(0).U8(0x40).U16(0).Raw(0, 0)
		v := ValidateStructureTable(b.Bytes(), nil)
		require.Equal(t, []string{"SMBIOSRecordOutOfRange"}, v.Codes())
	})
}

func TestValidateStructures(t *testing.T) {
	ss, err := smbios.NewDecoder(bytes.NewReader(structureTable())).Decode()
	require.NoError(t, err)
	require.Len(t, ss, 3)
	require.True(t, ValidateStructures(ss).Passed())

	v := ValidateStructures(ss[:2])
	require.Equal(t, []string{"SMBIOSMissingEndOfTable"}, v.Codes())
}

func TestDMITableFromSMBIOSData(t *testing.T) {
	dmiTable, err := DMITableFromSMBIOSData(bytes.NewReader(structureTable()))
	require.NoError(t, err)
	require.Len(t, dmiTable.SMBIOSStructs, 3)
}

func TestBIOSInfo(t *testing.T) {
	b := &acpitest.Buf{}
	b.U8(0).U8(0x12).U16(0).U8(1).U8(2).U16(0xe800).U8(3).U8(0).U64(0)
	b.Raw([]byte("Acme\x001.0\x0001/01/2023\x00\x00")...)
	b.U8(TypeEndOfTable).U8(4).U16(1).Raw(0, 0)

	dmiTable, err := DMITableFromSMBIOSData(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	require.Equal(t, BIOSInfo{
		Vendor:      "Acme",
		Version:     "1.0",
		ReleaseDate: "01/01/2023",
	}, dmiTable.BIOSInfo())

	// a type 0 structure too short to hold any field
	dmiTable, err = DMITableFromSMBIOSData(bytes.NewReader(structureTable()))
	require.NoError(t, err)
	require.Equal(t, BIOSInfo{}, dmiTable.BIOSInfo())
}

func TestReadRaw(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadRaw(dir)
	require.ErrorAs(t, err, &ErrDMITable{})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "smbios_entry_point"), entryPoint30(0x100), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "DMI"), structureTable(), 0o644))
	raw, err := ReadRaw(dir)
	require.NoError(t, err)
	require.Equal(t, structureTable(), raw.Table)
}
