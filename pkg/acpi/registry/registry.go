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

// Package registry maps table signatures to their validators.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/bgrt"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/boot"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/cedt"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/dbgp"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/fpdt"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/generic"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/hest"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/hpet"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/lpit"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/nhlt"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/ras2"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/rsdp"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/s3pt"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/sbst"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/sdev"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/slit"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/tcpa"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/uefi"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/xsdt"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Registry provides access to table validators by signature.
type Registry struct {
	validators map[string]table.Validator
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		validators: map[string]table.Validator{},
	}
}

// Add registers a validator.
func (r *Registry) Add(v table.Validator) error {
	if v == nil {
		return fmt.Errorf("validator should not be nil")
	}
	signature := v.Signature()
	if err := table.CheckSignature(signature); err != nil {
		return err
	}
	if _, found := r.validators[signature]; found {
		return fmt.Errorf("validator for '%s' is already registered", signature)
	}
	r.validators[signature] = v
	return nil
}

// Get returns the validator registered for the signature, or nil.
func (r *Registry) Get(signature string) table.Validator {
	return r.validators[signature]
}

// ValidatorFor returns the validator registered for the signature, or a
// validator of the common header and the checksum if there is none.
func (r *Registry) ValidatorFor(signature string) table.Validator {
	if v := r.Get(signature); v != nil {
		return v
	}
	return generic.New(signature)
}

// Validate validates the table with the validator of its signature.
func (r *Registry) Validate(ctx context.Context, t *table.RawTable) *verdict.Verdict {
	return r.ValidatorFor(t.Name).Validate(ctx, t)
}

// Signatures returns the sorted signatures of all registered validators.
func (r *Registry) Signatures() []string {
	result := make([]string, 0, len(r.validators))
	for signature := range r.validators {
		result = append(result, signature)
	}
	sort.Strings(result)
	return result
}

// NewRegistryWithKnownValidators returns a Registry with every validator
// of the tables subpackages registered.
func NewRegistryWithKnownValidators() (*Registry, error) {
	r := NewRegistry()
	for _, v := range []table.Validator{
		bgrt.New(),
		boot.New(),
		cedt.New(),
		dbgp.New(),
		fpdt.New(),
		hest.New(),
		hpet.New(),
		lpit.New(),
		nhlt.New(),
		ras2.New(),
		rsdp.New(),
		s3pt.New(),
		sbst.New(),
		sdev.New(),
		slit.New(),
		tcpa.New(),
		uefi.New(),
		xsdt.NewRSDT(),
		xsdt.NewXSDT(),
	} {
		if err := r.Add(v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

var defaultRegistry = mustDefault()

func mustDefault() *Registry {
	r, err := NewRegistryWithKnownValidators()
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the shared Registry with all known validators. It must
// not be modified.
func Default() *Registry {
	return defaultRegistry
}
