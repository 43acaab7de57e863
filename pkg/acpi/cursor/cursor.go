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

// Package cursor provides the only way to read raw table bytes: a read
// cursor which can never move past its limit.
package cursor

import (
	"encoding/binary"
)

// Cursor is a bounds-checked sequential little-endian reader over an
// immutable byte buffer.
//
// Invariant: 0 <= start <= offset <= limit <= len(data). A failed read does
// not change the offset.
//
// Offsets are absolute within the underlying buffer, so a nested cursor
// reports positions the same way as its parent does.
type Cursor struct {
	data   []byte
	start  int
	offset int
	limit  int
}

// New returns a Cursor over data[start:limit].
func New(data []byte, start, limit int) (*Cursor, error) {
	if start < 0 || start > limit || limit > len(data) {
		return nil, ErrInvalidRegion{Start: start, Limit: limit, Size: len(data)}
	}
	return &Cursor{
		data:   data,
		start:  start,
		offset: start,
		limit:  limit,
	}, nil
}

// NewFull returns a Cursor over the whole data.
func NewFull(data []byte) *Cursor {
	return &Cursor{
		data:  data,
		limit: len(data),
	}
}

// Offset returns the absolute position of the next read.
func (c *Cursor) Offset() int {
	return c.offset
}

// Start returns the absolute position the cursor was created at.
func (c *Cursor) Start() int {
	return c.start
}

// Limit returns the absolute position the cursor can not read past.
func (c *Cursor) Limit() int {
	return c.limit
}

// Consumed returns the amount of bytes read since the cursor was created.
func (c *Cursor) Consumed() int {
	return c.offset - c.start
}

// Remaining returns the amount of bytes left before the limit.
func (c *Cursor) Remaining() int {
	return c.limit - c.offset
}

// AtEnd returns true if no bytes are left.
func (c *Cursor) AtEnd() bool {
	return c.offset == c.limit
}

func (c *Cursor) ensure(n uint64) error {
	if n > uint64(c.Remaining()) {
		return ErrTruncated{Offset: c.offset, Want: n, Remaining: c.Remaining()}
	}
	return nil
}

// ReadU8 reads a byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.ensure(1); err != nil {
		return 0, err
	}
	v := c.data[c.offset]
	c.offset++
	return v, nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.ensure(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.offset:])
	c.offset += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.ensure(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.offset:])
	c.offset += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64.
func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.ensure(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.data[c.offset:])
	c.offset += 8
	return v, nil
}

// ReadUint reads a little-endian unsigned integer of 1, 2, 4 or 8 bytes.
func (c *Cursor) ReadUint(width int) (uint64, error) {
	switch width {
	case 1:
		v, err := c.ReadU8()
		return uint64(v), err
	case 2:
		v, err := c.ReadU16()
		return uint64(v), err
	case 4:
		v, err := c.ReadU32()
		return uint64(v), err
	case 8:
		return c.ReadU64()
	}
	return 0, ErrInvalidWidth{Width: width}
}

// ReadBytes returns the next n bytes. The result aliases the underlying
// buffer and must not be modified.
func (c *Cursor) ReadBytes(n uint64) ([]byte, error) {
	if err := c.ensure(n); err != nil {
		return nil, err
	}
	end := c.offset + int(n)
	v := c.data[c.offset:end:end]
	c.offset = end
	return v, nil
}

// Skip advances the offset by n bytes.
func (c *Cursor) Skip(n uint64) error {
	if err := c.ensure(n); err != nil {
		return err
	}
	c.offset += int(n)
	return nil
}

// SubCursor returns a new cursor over the next n bytes. The parent is not
// advanced.
func (c *Cursor) SubCursor(n uint64) (*Cursor, error) {
	if err := c.ensure(n); err != nil {
		return nil, err
	}
	return &Cursor{
		data:   c.data,
		start:  c.offset,
		offset: c.offset,
		limit:  c.offset + int(n),
	}, nil
}

// Rest returns a new cursor over all the remaining bytes. The parent is not
// advanced.
func (c *Cursor) Rest() *Cursor {
	return &Cursor{
		data:   c.data,
		start:  c.offset,
		offset: c.offset,
		limit:  c.limit,
	}
}

// Bytes returns all the bytes the cursor was created over, regardless of
// the current offset. The result must not be modified.
func (c *Cursor) Bytes() []byte {
	return c.data[c.start:c.limit:c.limit]
}
