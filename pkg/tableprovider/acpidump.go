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
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/objhash"
)

var acpidumpTableLine = regexp.MustCompile(`^\s*(\S{4})\s+@\s+0x[0-9a-fA-F]+\s*$`)

// acpidumpHexColumns is the width of the hex part of a data line: 16
// bytes as "XX ". The ASCII rendition follows it.
const acpidumpHexColumns = 16 * 3

// ParseACPIDump parses the text output of acpidump:
//
//	HEST @ 0x000000007AF5F000
//	    0000: 48 45 53 54 28 00 00 00 01 5C 46 57 54 45 53 54  HEST(....\FWTEST
//	    ...
//
// Tables with the same signature get increasing instance numbers in the
// order of their appearance. The in-memory signature "RSD PTR" is
// mapped to RSDP.
func ParseACPIDump(r io.Reader) (Static, error) {
	var (
		result    Static
		name      string
		data      []byte
		instances = map[string]int{}
	)
	flush := func() error {
		if name == "" {
			return nil
		}
		t, err := table.New(name, data, table.ProvenanceFromFile)
		if err != nil {
			return err
		}
		t.Instance = instances[name]
		instances[name]++
		result = append(result, t)
		name, data = "", nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(line), "RSD PTR") {
			line = strings.Replace(line, "RSD PTR", table.SignatureRSDP, 1)
		}
		if m := acpidumpTableLine.FindStringSubmatch(line); m != nil {
			if err := flush(); err != nil {
				return nil, ErrParse{Line: lineNum, Err: err}
			}
			name = table.NormalizeSignature(m[1])
			continue
		}

		if name == "" {
			return nil, ErrParse{Line: lineNum, Err: fmt.Errorf("data line outside of a table")}
		}
		chunk, err := parseACPIDumpDataLine(line, len(data))
		if err != nil {
			return nil, ErrParse{Line: lineNum, Err: err}
		}
		data = append(data, chunk...)
	}
	if err := scanner.Err(); err != nil {
		return nil, ErrParse{Line: lineNum, Err: err}
	}
	if err := flush(); err != nil {
		return nil, ErrParse{Line: lineNum, Err: err}
	}
	sortTables(result)
	return result, nil
}

func parseACPIDumpDataLine(line string, expectedOffset int) ([]byte, error) {
	offsetStr, rest, found := strings.Cut(strings.TrimSpace(line), ": ")
	if !found {
		return nil, fmt.Errorf("no offset separator in '%s'", line)
	}
	offset, err := strconv.ParseUint(offsetStr, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid offset '%s': %w", offsetStr, err)
	}
	if int(offset) != expectedOffset {
		return nil, fmt.Errorf("offset is 0x%x, expecting 0x%x", offset, expectedOffset)
	}

	if len(rest) > acpidumpHexColumns {
		rest = rest[:acpidumpHexColumns]
	}
	var result []byte
	for _, field := range strings.Fields(rest) {
		if len(field) != 2 {
			// the ASCII rendition of a short last line
			break
		}
		b, err := hex.DecodeString(field)
		if err != nil {
			break
		}
		result = append(result, b...)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no data bytes in '%s'", line)
	}
	return result, nil
}

// ACPIDump is a Provider over an acpidump text file.
type ACPIDump struct {
	Path   string
	Config Config
}

var _ Provider = (*ACPIDump)(nil)

// NewACPIDump returns a Provider of the tables in the acpidump output file.
func NewACPIDump(path string, opts ...Option) *ACPIDump {
	return &ACPIDump{
		Path:   path,
		Config: newConfig("", opts),
	}
}

func (d *ACPIDump) load(ctx context.Context) (Static, error) {
	if d.Config.Cache == nil {
		return d.parse(ctx)
	}

	fi, err := os.Stat(d.Path)
	if err != nil {
		return nil, ErrRead{Path: d.Path, Err: err}
	}
	key := objhash.MustBuild(d.Path, uint64(fi.Size()), fi.ModTime().UnixNano())
	if tables, ok := d.Config.Cache.Get(ctx, key).(Static); ok {
		return tables, nil
	}

	tables, err := d.parse(ctx)
	if err != nil {
		return nil, err
	}
	var cost uint64
	for _, t := range tables {
		cost += uint64(t.Length())
	}
	d.Config.Cache.Set(ctx, key, tables, cost)
	return tables, nil
}

func (d *ACPIDump) parse(ctx context.Context) (Static, error) {
	// the text is about 4.5 times larger than the binary it encodes
	text, err := readFile(d.Path, d.Config.MaxTableSize*5)
	if err != nil {
		return nil, err
	}
	tables, err := ParseACPIDump(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("unable to parse '%s': %w", d.Path, err)
	}
	logger.FromCtx(ctx).Debugf("loaded %d tables from '%s'", len(tables), d.Path)
	return tables, nil
}

// GetTable implements Provider.
func (d *ACPIDump) GetTable(ctx context.Context, name string, instance int) (*table.RawTable, error) {
	tables, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return tables.GetTable(ctx, name, instance)
}

// Tables implements Provider.
func (d *ACPIDump) Tables(ctx context.Context) ([]*table.RawTable, error) {
	return d.load(ctx)
}

// Open returns the Provider for path: a directory of table files or an
// acpidump text file.
func Open(path string, opts ...Option) (Provider, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, ErrRead{Path: path, Err: err}
	}
	if fi.IsDir() {
		return NewDir(path, opts...), nil
	}
	return NewACPIDump(path, opts...), nil
}
