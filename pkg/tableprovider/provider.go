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

// Package tableprovider acquires raw tables from the running system or from
// saved dumps.
package tableprovider

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
)

// Provider is a source of raw tables.
type Provider interface {
	// GetTable returns the instance-th table with the given signature.
	GetTable(ctx context.Context, name string, instance int) (*table.RawTable, error)

	// Tables returns all the tables the source has. If some of them could
	// not be loaded it returns the rest together with a non-nil error.
	Tables(ctx context.Context) ([]*table.RawTable, error)
}

// Static is a Provider over an already loaded set of tables.
type Static []*table.RawTable

var _ Provider = (Static)(nil)

// GetTable implements Provider.
func (s Static) GetTable(_ context.Context, name string, instance int) (*table.RawTable, error) {
	name = table.NormalizeSignature(name)
	for _, t := range s {
		if t.Name == name && t.Instance == instance {
			return t, nil
		}
	}
	return nil, ErrNotFound{Name: name, Instance: instance}
}

// Tables implements Provider.
func (s Static) Tables(context.Context) ([]*table.RawTable, error) {
	return s, nil
}

// Filter returns the tables with the given signatures, all of them if no
// signature is given.
func Filter(tables []*table.RawTable, names ...string) []*table.RawTable {
	if len(names) == 0 {
		return tables
	}
	wanted := map[string]struct{}{}
	for _, name := range names {
		wanted[table.NormalizeSignature(name)] = struct{}{}
	}
	var result []*table.RawTable
	for _, t := range tables {
		if _, ok := wanted[t.Name]; ok {
			result = append(result, t)
		}
	}
	return result
}

// sortTables orders tables by signature and then by instance.
func sortTables(tables []*table.RawTable) {
	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].Name != tables[j].Name {
			return tables[i].Name < tables[j].Name
		}
		return tables[i].Instance < tables[j].Instance
	})
}

// parseFileName converts names like "SSDT2", "ssdt2.dat" or "HEST.xz" to
// the signature and the instance number.
func parseFileName(fileName string) (string, int, error) {
	base := strings.TrimSuffix(fileName, ".xz")
	for _, ext := range []string{".dat", ".aml", ".bin"} {
		base = strings.TrimSuffix(base, ext)
	}
	if len(base) < 4 {
		return "", 0, fmt.Errorf("'%s' is too short to contain a table signature", fileName)
	}
	name := table.NormalizeSignature(base[:4])
	if err := table.CheckSignature(name); err != nil {
		return "", 0, err
	}
	if len(base) == 4 {
		return name, 0, nil
	}
	instance, err := strconv.ParseUint(base[4:], 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("'%s' has an invalid instance suffix: %w", fileName, err)
	}
	return name, int(instance), nil
}
