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

package hest

import (
	"fmt"
)

// ErrorSourceType is the type of a HEST error source structure.
type ErrorSourceType uint16

const (
	ErrorSourceTypeIA32MachineCheck          = ErrorSourceType(0)
	ErrorSourceTypeIA32CorrectedMachineCheck = ErrorSourceType(1)
	ErrorSourceTypeNMI                       = ErrorSourceType(2)
	ErrorSourceTypePCIeRootPortAER           = ErrorSourceType(6)
	ErrorSourceTypePCIeDeviceAER             = ErrorSourceType(7)
	ErrorSourceTypePCIeBridgeAER             = ErrorSourceType(8)
	ErrorSourceTypeGHES                      = ErrorSourceType(9)
	ErrorSourceTypeGHESv2                    = ErrorSourceType(10)
	ErrorSourceTypeIA32DeferredMachineCheck  = ErrorSourceType(11)
)

// String implements fmt.Stringer.
func (t ErrorSourceType) String() string {
	switch t {
	case ErrorSourceTypeIA32MachineCheck:
		return "IA-32 Architecture Machine Check Exception"
	case ErrorSourceTypeIA32CorrectedMachineCheck:
		return "IA-32 Architecture Corrected Machine Check"
	case ErrorSourceTypeNMI:
		return "IA-32 Architecture NMI"
	case ErrorSourceTypePCIeRootPortAER:
		return "PCI Express Root Port AER"
	case ErrorSourceTypePCIeDeviceAER:
		return "PCI Express Device AER"
	case ErrorSourceTypePCIeBridgeAER:
		return "PCI Express Bridge AER"
	case ErrorSourceTypeGHES:
		return "Generic Hardware Error Source"
	case ErrorSourceTypeGHESv2:
		return "Generic Hardware Error Source version 2"
	case ErrorSourceTypeIA32DeferredMachineCheck:
		return "IA-32 Architecture Deferred Machine Check"
	}
	return fmt.Sprintf("unknown_error_source_type_0x%04x", uint16(t))
}

// fixedSize returns the size of the structure without the hardware banks.
func (t ErrorSourceType) fixedSize() (uint64, bool) {
	switch t {
	case ErrorSourceTypeIA32MachineCheck:
		return 40, true
	case ErrorSourceTypeIA32CorrectedMachineCheck, ErrorSourceTypeIA32DeferredMachineCheck:
		return 48, true
	case ErrorSourceTypeNMI:
		return 20, true
	case ErrorSourceTypePCIeRootPortAER:
		return 48, true
	case ErrorSourceTypePCIeDeviceAER:
		return 44, true
	case ErrorSourceTypePCIeBridgeAER:
		return 56, true
	case ErrorSourceTypeGHES:
		return 64, true
	case ErrorSourceTypeGHESv2:
		return 92, true
	}
	return 0, false
}

// banksOffset returns the offset of the "Number of Hardware Banks" field
// for the structures followed by hardware banks.
func (t ErrorSourceType) banksOffset() (int, bool) {
	switch t {
	case ErrorSourceTypeIA32MachineCheck:
		return 32, true
	case ErrorSourceTypeIA32CorrectedMachineCheck, ErrorSourceTypeIA32DeferredMachineCheck:
		return 44, true
	}
	return 0, false
}

// bankSize is the size of a machine check error bank structure.
const bankSize = 28

// notificationSize is the size of a hardware error notification structure.
const notificationSize = 28

// maxNotificationType is the last defined hardware error notification type
// (Software Delegated Exception).
const maxNotificationType = 11

// maxStatusDataFormat is the last defined machine check bank status data
// format (IA-32 MCA, Intel 64 MCA, AMD64 MCA).
const maxStatusDataFormat = 2
