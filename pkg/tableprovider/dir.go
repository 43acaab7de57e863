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

package tableprovider

import (
	"context"
	"os"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
)

// SysfsRoot is where Linux exposes the firmware tables.
const SysfsRoot = "/sys/firmware/acpi/tables"

// Dir is a Provider reading one table per file from a directory.
//
// File names are the signature, an optional instance number and an
// optional extension: "HEST", "SSDT2", "ssdt2.dat", "rsdp.dat.xz".
type Dir struct {
	Config     Config
	Provenance table.Provenance
}

var _ Provider = (*Dir)(nil)

// NewSysfs returns a Provider of the tables of the running firmware.
func NewSysfs(opts ...Option) *Dir {
	return &Dir{
		Config:     newConfig(SysfsRoot, opts),
		Provenance: table.ProvenanceFromFirmware,
	}
}

// NewDir returns a Provider of the table dumps in the directory, for
// example the output of "acpidump -b" or "acpixtract -a".
func NewDir(path string, opts ...Option) *Dir {
	return &Dir{
		Config:     newConfig(path, opts),
		Provenance: table.ProvenanceFromFile,
	}
}

type dirEntry struct {
	path     string
	name     string
	instance int
}

func (d *Dir) entries(ctx context.Context) ([]dirEntry, error) {
	files, err := os.ReadDir(d.Config.Root)
	if err != nil {
		return nil, ErrRead{Path: d.Config.Root, Err: err}
	}

	var result []dirEntry
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name, instance, err := parseFileName(file.Name())
		if err != nil {
			logger.FromCtx(ctx).Debugf("skipping '%s': %v", file.Name(), err)
			continue
		}
		result = append(result, dirEntry{
			path:     filepath.Join(d.Config.Root, file.Name()),
			name:     name,
			instance: instance,
		})
	}
	return result, nil
}

func (d *Dir) load(entry dirEntry) (*table.RawTable, error) {
	data, err := readFile(entry.path, d.Config.MaxTableSize)
	if err != nil {
		return nil, err
	}
	t, err := table.New(entry.name, data, d.Provenance)
	if err != nil {
		return nil, err
	}
	t.Instance = entry.instance
	return t, nil
}

// GetTable implements Provider.
//
// Linux numbers multiple tables of the same signature starting from 1, so
// instance 0 falls back to instance 1.
func (d *Dir) GetTable(ctx context.Context, name string, instance int) (*table.RawTable, error) {
	name = table.NormalizeSignature(name)
	entries, err := d.entries(ctx)
	if err != nil {
		return nil, err
	}

	find := func(instance int) *dirEntry {
		for idx := range entries {
			if entries[idx].name == name && entries[idx].instance == instance {
				return &entries[idx]
			}
		}
		return nil
	}
	entry := find(instance)
	if entry == nil && instance == 0 {
		entry = find(1)
	}
	if entry == nil {
		return nil, ErrNotFound{Name: name, Instance: instance}
	}
	return d.load(*entry)
}

// Tables implements Provider.
func (d *Dir) Tables(ctx context.Context) ([]*table.RawTable, error) {
	entries, err := d.entries(ctx)
	if err != nil {
		return nil, err
	}

	var (
		result []*table.RawTable
		mErr   *multierror.Error
	)
	for _, entry := range entries {
		t, err := d.load(entry)
		if err != nil {
			mErr = multierror.Append(mErr, err)
			continue
		}
		logger.FromCtx(ctx).Debugf("loaded %s (%d bytes) from '%s'", t, t.Length(), entry.path)
		result = append(result, t)
	}
	sortTables(result)
	return result, mErr.ErrorOrNil()
}
