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

package list

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/pflag"

	"github.com/immune-gmbh/fwtest/cmd/fwtest/helpers"
	"github.com/immune-gmbh/fwtest/pkg/acpi/registry"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/commands"
)

// Command is the implementation of `commands.Command`.
type Command struct {
	source helpers.Source
	tables *bool
}

// Usage prints the syntax of arguments for this command
func (cmd Command) Usage() string {
	return ""
}

// Description explains what this verb commands to do
func (cmd Command) Description() string {
	return "list the supported tables, or the tables of the firmware with --tables"
}

// SetupFlagSet is called to allow the command implementation
// to setup which option flags it has.
func (cmd *Command) SetupFlagSet(flagSet *pflag.FlagSet) {
	cmd.source.SetupFlagSet(flagSet)
	cmd.tables = flagSet.BoolP("tables", "t", false, "list the tables found in the source instead of the supported ones")
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd Command) Execute(ctx context.Context, cfg commands.Config, args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("error: too many parameters")}
	}

	w := tablewriter.NewWriter(cfg.Output())
	w.SetBorder(false)
	w.SetAutoWrapText(false)

	reg := registry.Default()
	if !*cmd.tables {
		w.SetHeader([]string{"Signature", "Description"})
		for _, signature := range reg.Signatures() {
			w.Append([]string{signature, reg.Get(signature).Description()})
		}
		w.Render()
		return nil
	}

	provider, err := cmd.source.Provider()
	if err != nil {
		return fmt.Errorf("unable to open the tables: %w", err)
	}
	defer cmd.source.Close()
	tables, err := provider.Tables(ctx)
	if err != nil && len(tables) == 0 {
		return fmt.Errorf("unable to read the tables: %w", err)
	}

	w.SetHeader([]string{"Table", "Length", "Revision", "OEM ID", "Validator"})
	for _, t := range tables {
		validator := "generic"
		if reg.Get(t.Name) != nil {
			validator = t.Name
		}
		oemID := ""
		if t.Name != table.SignatureRSDP {
			if hdr, err := t.Header(); err == nil {
				oemID = string(hdr.OEMID[:])
			}
		}
		w.Append([]string{
			t.String(),
			strconv.Itoa(t.Length()),
			strconv.Itoa(int(t.Revision())),
			oemID,
			validator,
		})
	}
	w.Render()
	return err
}
