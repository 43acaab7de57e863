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

package cursor

// Fields reads consecutive fields from a Cursor and remembers the first
// failure, after which all reads return zero values.
//
// It is meant for fixed layouts whose size was checked beforehand:
//
//	f := c.Fields()
//	version := f.U16()
//	status := f.U8()
//	if err := f.Err(); err != nil {
//		...
//	}
type Fields struct {
	c   *Cursor
	err error
}

// Fields returns a Fields reader over c. Reads advance c.
func (c *Cursor) Fields() *Fields {
	return &Fields{c: c}
}

// Err returns the first failure.
func (f *Fields) Err() error {
	return f.err
}

// Offset returns the offset of the underlying cursor.
func (f *Fields) Offset() int {
	return f.c.Offset()
}

// U8 reads a byte.
func (f *Fields) U8() uint8 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadU8()
	f.err = err
	return v
}

// U16 reads a little-endian uint16.
func (f *Fields) U16() uint16 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadU16()
	f.err = err
	return v
}

// U32 reads a little-endian uint32.
func (f *Fields) U32() uint32 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadU32()
	f.err = err
	return v
}

// U64 reads a little-endian uint64.
func (f *Fields) U64() uint64 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadU64()
	f.err = err
	return v
}

// Bytes reads n bytes.
func (f *Fields) Bytes(n uint64) []byte {
	if f.err != nil {
		return nil
	}
	v, err := f.c.ReadBytes(n)
	f.err = err
	return v
}

// Skip skips n bytes.
func (f *Fields) Skip(n uint64) {
	if f.err != nil {
		return
	}
	f.err = f.c.Skip(n)
}
