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

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/fieldcheck"
)

// GenericAddressSize is the size of a Generic Address Structure.
const GenericAddressSize = 12

// GenericAddress is a Generic Address Structure.
type GenericAddress struct {
	SpaceID    fieldcheck.AddressSpaceID
	BitWidth   uint8
	BitOffset  uint8
	AccessSize uint8
	Address    uint64
}

// ReadGenericAddress reads a Generic Address Structure from c.
func ReadGenericAddress(c *cursor.Cursor) (GenericAddress, error) {
	b, err := c.ReadBytes(GenericAddressSize)
	if err != nil {
		return GenericAddress{}, err
	}
	sub := cursor.NewFull(b)
	var gas GenericAddress
	spaceID, _ := sub.ReadU8()
	gas.SpaceID = fieldcheck.AddressSpaceID(spaceID)
	gas.BitWidth, _ = sub.ReadU8()
	gas.BitOffset, _ = sub.ReadU8()
	gas.AccessSize, _ = sub.ReadU8()
	gas.Address, _ = sub.ReadU64()
	return gas, nil
}

// ReadGenericAddressFields reads a Generic Address Structure via f.
func ReadGenericAddressFields(f *cursor.Fields) GenericAddress {
	return GenericAddress{
		SpaceID:    fieldcheck.AddressSpaceID(f.U8()),
		BitWidth:   f.U8(),
		BitOffset:  f.U8(),
		AccessSize: f.U8(),
		Address:    f.U64(),
	}
}

// String implements fmt.Stringer.
func (gas GenericAddress) String() string {
	return fmt.Sprintf("%s:0x%x (width %d, offset %d, access %d)",
		gas.SpaceID, gas.Address, gas.BitWidth, gas.BitOffset, gas.AccessSize)
}
