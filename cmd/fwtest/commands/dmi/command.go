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

package dmi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/pflag"

	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/commands"
	"github.com/immune-gmbh/fwtest/pkg/dmidecode"
)

// Command is the implementation of `commands.Command`.
type Command struct {
	dir       *string
	imagePath *string
}

// Usage prints the syntax of arguments for this command
func (cmd Command) Usage() string {
	return ""
}

// Description explains what this verb commands to do
func (cmd Command) Description() string {
	return "validate the SMBIOS entry point and structure table, and print the BIOS info"
}

// SetupFlagSet is called to allow the command implementation
// to setup which option flags it has.
func (cmd *Command) SetupFlagSet(flagSet *pflag.FlagSet) {
	cmd.dir = flagSet.String("dir", dmidecode.SysfsRoot, "directory with the files 'smbios_entry_point' and 'DMI'")
	cmd.imagePath = flagSet.String("image", "", "take the SMBIOS static data from this firmware image instead")
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd Command) Execute(ctx context.Context, cfg commands.Config, args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("error: too many parameters")}
	}

	v := verdict.New(dmidecode.TableName)
	var dmiTable *dmidecode.DMITable
	var structureTable []byte
	switch {
	case *cmd.imagePath != "":
		imageBytes, err := os.ReadFile(*cmd.imagePath)
		if err != nil {
			return fmt.Errorf("unable to read the firmware image: %w", err)
		}
		structureTable, err = dmidecode.RawTableFromFirmwareImage(imageBytes)
		if err != nil {
			return err
		}
		v.Merge(dmidecode.ValidateStructureTable(structureTable, nil))
	default:
		raw, err := dmidecode.ReadRaw(*cmd.dir)
		if err != nil {
			if *cmd.dir != dmidecode.SysfsRoot {
				return err
			}
			// the raw files are not readable on every platform,
			// fall back to whatever go-dmidecode can find
			logger.FromCtx(ctx).Debugf("%v, falling back to the local DMI table", err)
			dmiTable, err = dmidecode.LocalDMITable()
			if err != nil {
				return err
			}
			v.Merge(dmidecode.ValidateStructures(dmiTable.SMBIOSStructs))
			break
		}
		ep, epVerdict := dmidecode.ValidateEntryPoint(raw.EntryPoint)
		v.Merge(epVerdict)
		if ep != nil {
			logger.FromCtx(ctx).Debugf("SMBIOS %d.%d, table of %d bytes at 0x%x",
				ep.MajorVersion, ep.MinorVersion, ep.TableLength, ep.TableAddress)
		}
		v.Merge(dmidecode.ValidateStructureTable(raw.Table, ep))
		structureTable = raw.Table
	}

	w := cfg.Output()
	for _, d := range v.Diagnostics {
		fmt.Fprintf(w, "%s\n", d)
	}

	if dmiTable == nil {
		var err error
		dmiTable, err = dmidecode.DMITableFromSMBIOSData(bytes.NewReader(structureTable))
		if err != nil {
			logger.FromCtx(ctx).Warnf("unable to decode the SMBIOS structures: %v", err)
		}
	}
	if dmiTable != nil {
		b, err := json.Marshal(dmiTable.BIOSInfo())
		if err != nil {
			return fmt.Errorf("unable to serialize BIOSInfo: %w", err)
		}
		fmt.Fprintf(w, "%s\n", b)
	}

	if v.Passed() {
		return nil
	}
	return commands.SilentError{Err: commands.ErrExitCode{
		Code:   v.Worst().FailureExitCode(),
		Reason: fmt.Sprintf("SMBIOS data has %d issues", v.Failures()),
	}}
}
