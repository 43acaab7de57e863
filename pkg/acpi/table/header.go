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

package table

import (
	"fmt"
	"strings"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
)

// HeaderSize is the size of the common header of all tables except RSDP,
// FACS and S3PT.
const HeaderSize = 36

const (
	offsetLength   = 4
	offsetRevision = 8
	offsetChecksum = 9
)

// ChecksumOffset is the offset of the checksum byte in the common header.
const ChecksumOffset = offsetChecksum

// Header is the common table header.
type Header struct {
	Signature       [4]byte
	Length          uint32
	Revision        uint8
	Checksum        uint8
	OEMID           [6]byte
	OEMTableID      [8]byte
	OEMRevision     uint32
	CreatorID       [4]byte
	CreatorRevision uint32
}

// ParseHeader decodes the common header from the beginning of data.
func ParseHeader(data []byte) (*Header, error) {
	c := cursor.NewFull(data)
	h := &Header{}

	sig, err := c.ReadBytes(4)
	if err != nil {
		return nil, ErrHeader{Err: err}
	}
	copy(h.Signature[:], sig)
	if h.Length, err = c.ReadU32(); err != nil {
		return nil, ErrHeader{Err: err}
	}
	if h.Revision, err = c.ReadU8(); err != nil {
		return nil, ErrHeader{Err: err}
	}
	if h.Checksum, err = c.ReadU8(); err != nil {
		return nil, ErrHeader{Err: err}
	}
	oemID, err := c.ReadBytes(6)
	if err != nil {
		return nil, ErrHeader{Err: err}
	}
	copy(h.OEMID[:], oemID)
	oemTableID, err := c.ReadBytes(8)
	if err != nil {
		return nil, ErrHeader{Err: err}
	}
	copy(h.OEMTableID[:], oemTableID)
	if h.OEMRevision, err = c.ReadU32(); err != nil {
		return nil, ErrHeader{Err: err}
	}
	creatorID, err := c.ReadBytes(4)
	if err != nil {
		return nil, ErrHeader{Err: err}
	}
	copy(h.CreatorID[:], creatorID)
	if h.CreatorRevision, err = c.ReadU32(); err != nil {
		return nil, ErrHeader{Err: err}
	}
	return h, nil
}

// String implements fmt.Stringer.
func (h *Header) String() string {
	return fmt.Sprintf("%s rev %d len %d oem '%s' '%s' rev 0x%x creator '%s' rev 0x%x",
		printable(h.Signature[:]), h.Revision, h.Length,
		printable(h.OEMID[:]), printable(h.OEMTableID[:]), h.OEMRevision,
		printable(h.CreatorID[:]), h.CreatorRevision,
	)
}

func printable(b []byte) string {
	var result strings.Builder
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		result.WriteByte(c)
	}
	return strings.TrimRight(result.String(), " ")
}
