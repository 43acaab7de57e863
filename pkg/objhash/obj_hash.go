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

// Package objhash builds memoization keys out of sets of values, for
// example a table signature and its image.
package objhash

import (
	"encoding/binary"
	"fmt"

	"github.com/xaionaro-go/unsafetools"
	"lukechampine.com/blake3"
)

const blake3Size = 32

// ObjHash is a set of bytes which is unique and deterministic for a set
// of input values.
//
// The order of values is also important ("1, 2, 3" != "3, 2, 1").
type ObjHash [blake3Size]byte

// String implements fmt.Stringer.
func (h ObjHash) String() string {
	return fmt.Sprintf("%X", h[:])
}

// MustBuild is the same as Build, but expects no error (panics if any).
func MustBuild(args ...any) ObjHash {
	result, err := Build(args...)
	if err != nil {
		panic(err)
	}
	return result
}

// Build returns a ObjHash for a set of values.
func Build(args ...any) (ObjHash, error) {
	return NewBuilder().Build(args...)
}

// Custom allows a type to define how it is written into a Builder.
type Custom interface {
	CacheWrite(b *Builder) error
}

// Builder converts a set of values to an ObjHash.
type Builder struct {
	Blake3 *blake3.Hasher
}

// NewBuilder returns a new instance of Builder.
func NewBuilder() *Builder {
	return &Builder{
		Blake3: blake3.New(blake3Size, nil),
	}
}

// kind tags every written value, so that values of different types with
// the same bytes produce different hashes.
type kind uint8

const (
	kindBytes = kind(iota + 1)
	kindString
	kindUint
	kindInt
	kindBool
)

// WriteBytes adds a length-prefixed byte string.
func (b *Builder) WriteBytes(in []byte) {
	b.writeKind(kindBytes, uint64(len(in)))
	_, _ = b.Blake3.Write(in)
}

// WriteString adds a length-prefixed string.
func (b *Builder) WriteString(in string) {
	b.writeKind(kindString, uint64(len(in)))
	_, _ = b.Blake3.Write(unsafetools.CastStringToBytes(in))
}

// WriteUint adds an unsigned integer.
func (b *Builder) WriteUint(u uint64) {
	b.writeKind(kindUint, u)
}

func (b *Builder) writeKind(k kind, v uint64) {
	var buf [9]byte
	buf[0] = uint8(k)
	binary.LittleEndian.PutUint64(buf[1:], v)
	_, _ = b.Blake3.Write(buf[:])
}

// Build just calls Write and Result.
func (b *Builder) Build(args ...any) (ObjHash, error) {
	if err := b.Write(args...); err != nil {
		return ObjHash{}, err
	}
	return b.Result(), nil
}

// Reset resets the set of values.
func (b *Builder) Reset() {
	b.Blake3.Reset()
}

// Result returns the hash of the values written so far.
func (b *Builder) Result() ObjHash {
	var result ObjHash
	copy(result[:], b.Blake3.Sum(nil))
	return result
}

// Write adds values.
func (b *Builder) Write(args ...any) error {
	for idx, arg := range args {
		if err := b.write(arg); err != nil {
			return fmt.Errorf("unable to append argument #%d: %w", idx, err)
		}
	}
	return nil
}

func (b *Builder) write(arg any) error {
	switch v := arg.(type) {
	case Custom:
		return v.CacheWrite(b)
	case []byte:
		b.WriteBytes(v)
	case string:
		b.WriteString(v)
	case bool:
		var u uint64
		if v {
			u = 1
		}
		b.writeKind(kindBool, u)
	case uint8:
		b.WriteUint(uint64(v))
	case uint16:
		b.WriteUint(uint64(v))
	case uint32:
		b.WriteUint(uint64(v))
	case uint64:
		b.WriteUint(v)
	case uint:
		b.WriteUint(uint64(v))
	case int:
		b.writeKind(kindInt, uint64(v))
	case int64:
		b.writeKind(kindInt, uint64(v))
	case int32:
		b.writeKind(kindInt, uint64(v))
	default:
		return fmt.Errorf("unsupported type %T", arg)
	}
	return nil
}
