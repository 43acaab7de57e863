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

package fieldcheck

import (
	"fmt"

	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// AddressSpaceID is the space ID of a Generic Address Structure.
type AddressSpaceID uint8

const (
	AddressSpaceSystemMemory    = AddressSpaceID(0x00)
	AddressSpaceSystemIO        = AddressSpaceID(0x01)
	AddressSpacePCIConfig       = AddressSpaceID(0x02)
	AddressSpaceEmbeddedControl = AddressSpaceID(0x03)
	AddressSpaceSMBus           = AddressSpaceID(0x04)
	AddressSpaceSystemCMOS      = AddressSpaceID(0x05)
	AddressSpacePCIBarTarget    = AddressSpaceID(0x06)
	AddressSpaceIPMI            = AddressSpaceID(0x07)
	AddressSpaceGPIO            = AddressSpaceID(0x08)
	AddressSpaceGenericSerial   = AddressSpaceID(0x09)
	AddressSpacePCC             = AddressSpaceID(0x0a)
	AddressSpacePRM             = AddressSpaceID(0x0b)
	AddressSpaceFFH             = AddressSpaceID(0x7f)
)

// String implements fmt.Stringer.
func (id AddressSpaceID) String() string {
	switch id {
	case AddressSpaceSystemMemory:
		return "System Memory"
	case AddressSpaceSystemIO:
		return "System I/O"
	case AddressSpacePCIConfig:
		return "PCI Configuration"
	case AddressSpaceEmbeddedControl:
		return "Embedded Controller"
	case AddressSpaceSMBus:
		return "SMBus"
	case AddressSpaceSystemCMOS:
		return "System CMOS"
	case AddressSpacePCIBarTarget:
		return "PCI BAR Target"
	case AddressSpaceIPMI:
		return "IPMI"
	case AddressSpaceGPIO:
		return "GPIO"
	case AddressSpaceGenericSerial:
		return "Generic Serial Bus"
	case AddressSpacePCC:
		return "PCC"
	case AddressSpacePRM:
		return "PRM"
	case AddressSpaceFFH:
		return "Functional Fixed Hardware"
	}
	return fmt.Sprintf("unknown_space_0x%02x", uint8(id))
}

// AddressSpace passes iff id is one of allowed.
func (c Checker) AddressSpace(field string, id AddressSpaceID, allowed ...AddressSpaceID) bool {
	for _, a := range allowed {
		if id == a {
			return true
		}
	}
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		names = append(names, a.String())
	}
	return c.Fail(verdict.SeverityHigh, "BadAddressSpaceID",
		"%s %s address space ID is 0x%02x (%s), expecting one of %v.", c.Table, field, uint8(id), id, names)
}
