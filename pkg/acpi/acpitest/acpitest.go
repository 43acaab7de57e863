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

// Package acpitest builds synthetic tables for tests.
package acpitest

import (
	"encoding/binary"

	"github.com/linuxboot/fiano/pkg/guid"

	"github.com/immune-gmbh/fwtest/pkg/acpi/checksum"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
)

// Buf is a little-endian byte buffer builder.
type Buf struct {
	data []byte
}

// U8 appends a byte.
func (b *Buf) U8(v uint8) *Buf {
	b.data = append(b.data, v)
	return b
}

// U16 appends a little-endian uint16.
func (b *Buf) U16(v uint16) *Buf {
	b.data = binary.LittleEndian.AppendUint16(b.data, v)
	return b
}

// U32 appends a little-endian uint32.
func (b *Buf) U32(v uint32) *Buf {
	b.data = binary.LittleEndian.AppendUint32(b.data, v)
	return b
}

// U64 appends a little-endian uint64.
func (b *Buf) U64(v uint64) *Buf {
	b.data = binary.LittleEndian.AppendUint64(b.data, v)
	return b
}

// Raw appends bytes as is.
func (b *Buf) Raw(v ...byte) *Buf {
	b.data = append(b.data, v...)
	return b
}

// Zero appends n zero bytes.
func (b *Buf) Zero(n int) *Buf {
	b.data = append(b.data, make([]byte, n)...)
	return b
}

// GUID appends a GUID in its binary (mixed-endian) form.
func (b *Buf) GUID(g guid.GUID) *Buf {
	b.data = append(b.data, g[:]...)
	return b
}

// GAS appends a Generic Address Structure.
func (b *Buf) GAS(spaceID, bitWidth, bitOffset, accessSize uint8, address uint64) *Buf {
	return b.U8(spaceID).U8(bitWidth).U8(bitOffset).U8(accessSize).U64(address)
}

// Len returns the current length.
func (b *Buf) Len() int {
	return len(b.data)
}

// Bytes returns the built bytes.
func (b *Buf) Bytes() []byte {
	return b.data
}

// Builder builds a table with the common header. The length and checksum
// are computed by Bytes unless overridden.
type Builder struct {
	Buf
	signature      string
	revision       uint8
	lengthOverride *uint32
	badChecksum    bool
}

// New returns a Builder for a table with the given signature.
func New(signature string) *Builder {
	return &Builder{signature: signature, revision: 1}
}

// Revision sets the header revision.
func (b *Builder) Revision(r uint8) *Builder {
	b.revision = r
	return b
}

// DeclaredLength makes the header declare the given length instead of the
// real one.
func (b *Builder) DeclaredLength(l uint32) *Builder {
	b.lengthOverride = &l
	return b
}

// BadChecksum makes the checksum byte wrong.
func (b *Builder) BadChecksum() *Builder {
	b.badChecksum = true
	return b
}

// Bytes returns the table image: the common header followed by the
// appended body.
func (b *Builder) Bytes() []byte {
	result := make([]byte, table.HeaderSize, table.HeaderSize+len(b.data))
	copy(result[0:4], b.signature)
	result[8] = b.revision
	copy(result[10:16], "FWTEST")
	copy(result[16:24], "SYNTHTBL")
	binary.LittleEndian.PutUint32(result[24:28], 1)
	copy(result[28:32], "FWTS")
	binary.LittleEndian.PutUint32(result[32:36], 1)
	result = append(result, b.data...)

	length := uint32(len(result))
	if b.lengthOverride != nil {
		length = *b.lengthOverride
	}
	binary.LittleEndian.PutUint32(result[4:8], length)
	checksum.Fix(result, table.ChecksumOffset)
	if b.badChecksum {
		result[table.ChecksumOffset]++
	}
	return result
}

// Table returns the built table as a RawTable read from a file.
func (b *Builder) Table() *table.RawTable {
	return FromBytes(b.signature, b.Bytes())
}

// FromBytes wraps data into a RawTable read from a file, panicking on
// invalid input.
func FromBytes(signature string, data []byte) *table.RawTable {
	t, err := table.New(signature, data, table.ProvenanceFromFile)
	if err != nil {
		panic(err)
	}
	return t
}
