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

// Package table defines the raw table handed over by a table provider and
// the interface every table validator implements.
package table

import (
	"context"
	"fmt"
	"strings"

	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Provenance tells where the table bytes came from.
type Provenance uint8

const (
	// ProvenanceUndefined is the zero value, it is rejected by New.
	ProvenanceUndefined = Provenance(iota)

	// ProvenanceFromFirmware means the bytes were read from live firmware
	// (for example /sys/firmware/acpi/tables).
	ProvenanceFromFirmware

	// ProvenanceFromFile means the bytes were read from a saved dump.
	ProvenanceFromFile
)

// String implements fmt.Stringer.
func (p Provenance) String() string {
	switch p {
	case ProvenanceUndefined:
		return "undefined"
	case ProvenanceFromFirmware:
		return "firmware"
	case ProvenanceFromFile:
		return "file"
	}
	return fmt.Sprintf("unknown_provenance_%d", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Provenance) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Provenance) UnmarshalText(b []byte) error {
	for candidate := ProvenanceUndefined; candidate <= ProvenanceFromFile; candidate++ {
		if candidate.String() == string(b) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown provenance %q", b)
}

// SignatureRSDP is the name the Root System Description Pointer is
// registered and provided under. Its in-memory signature is "RSD PTR ".
const SignatureRSDP = "RSDP"

// RawTable is an immutable table image.
type RawTable struct {
	// Name is the 4-character table signature, e.g. "HEST".
	Name string

	// Instance is the ordinal number of the table among the tables with
	// the same signature (SSDT-s for example).
	Instance int

	// Data is the table image, the common header included.
	Data []byte

	// Provenance tells where Data came from.
	Provenance Provenance
}

// New returns a RawTable after checking the preconditions: a valid
// signature and a known provenance.
func New(name string, data []byte, provenance Provenance) (*RawTable, error) {
	if err := CheckSignature(name); err != nil {
		return nil, err
	}
	switch provenance {
	case ProvenanceFromFirmware, ProvenanceFromFile:
	default:
		return nil, ErrInvalidProvenance{Provenance: provenance}
	}
	return &RawTable{
		Name:       name,
		Data:       data,
		Provenance: provenance,
	}, nil
}

// Length returns the length of the table image.
func (t *RawTable) Length() int {
	return len(t.Data)
}

// String implements fmt.Stringer.
func (t *RawTable) String() string {
	if t.Instance == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s%d", t.Name, t.Instance)
}

// Header parses the common header.
func (t *RawTable) Header() (*Header, error) {
	return ParseHeader(t.Data)
}

// Revision returns the revision byte of the common header, or zero if the
// table is too short to have one.
func (t *RawTable) Revision() uint8 {
	if len(t.Data) <= offsetRevision {
		return 0
	}
	return t.Data[offsetRevision]
}

// CheckSignature returns an error if name is not a 4-character printable
// ASCII signature.
func CheckSignature(name string) error {
	if len(name) != 4 {
		return ErrInvalidSignature{Signature: name}
	}
	for _, r := range name {
		if r < 0x20 || r > 0x7e {
			return ErrInvalidSignature{Signature: name}
		}
	}
	return nil
}

// NormalizeSignature converts a user supplied table name to a signature.
func NormalizeSignature(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Validator validates tables of a single kind.
type Validator interface {
	// Signature returns the signature of the tables the Validator handles.
	Signature() string

	// Description returns a short human readable description.
	Description() string

	// Validate validates the table and returns a fresh Verdict. It never
	// panics and never reads outside of t.Data.
	Validate(ctx context.Context, t *RawTable) *verdict.Verdict
}
