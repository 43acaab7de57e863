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

package dump

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"

	"github.com/immune-gmbh/fwtest/cmd/fwtest/helpers"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/rsdp"
	"github.com/immune-gmbh/fwtest/pkg/commands"
)

// Command is the implementation of `commands.Command`.
type Command struct {
	source     helpers.Source
	outputPath *string
}

// Usage prints the syntax of arguments for this command
func (cmd Command) Usage() string {
	return "<table>"
}

// Description explains what this verb commands to do
func (cmd Command) Description() string {
	return "print the header and a hex dump of a table (like HEST or SSDT2)"
}

// SetupFlagSet is called to allow the command implementation
// to setup which option flags it has.
func (cmd *Command) SetupFlagSet(flagSet *pflag.FlagSet) {
	cmd.source.SetupFlagSet(flagSet)
	cmd.outputPath = flagSet.StringP("output", "o", "", "save the raw table to this file instead of printing it")
}

func parseTableName(arg string) (string, int, error) {
	if len(arg) < 4 {
		return "", 0, fmt.Errorf("invalid table name '%s'", arg)
	}
	name := table.NormalizeSignature(arg[:4])
	if err := table.CheckSignature(name); err != nil {
		return "", 0, err
	}
	if len(arg) == 4 {
		return name, 0, nil
	}
	instance, err := strconv.Atoi(arg[4:])
	if err != nil || instance < 1 {
		return "", 0, fmt.Errorf("invalid table instance '%s'", arg[4:])
	}
	return name, instance, nil
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd Command) Execute(ctx context.Context, cfg commands.Config, args []string) error {
	if len(args) < 1 {
		return commands.ErrArgs{Err: fmt.Errorf("error: no table specified")}
	}
	if len(args) > 1 {
		return commands.ErrArgs{Err: fmt.Errorf("error: too many parameters")}
	}
	name, instance, err := parseTableName(args[0])
	if err != nil {
		return commands.ErrArgs{Err: err}
	}

	provider, err := cmd.source.Provider()
	if err != nil {
		return fmt.Errorf("unable to open the tables: %w", err)
	}
	defer cmd.source.Close()
	t, err := provider.GetTable(ctx, name, instance)
	if err != nil {
		return fmt.Errorf("unable to get table '%s': %w", args[0], err)
	}

	if *cmd.outputPath != "" {
		if err := os.WriteFile(*cmd.outputPath, t.Data, 0640); err != nil {
			return fmt.Errorf("unable to save the table: %w", err)
		}
		return nil
	}

	w := cfg.Output()
	spewCfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	if t.Name == table.SignatureRSDP {
		if ptr, err := rsdp.Parse(t.Data); err == nil {
			spewCfg.Fdump(w, ptr)
		}
	} else if hdr, err := t.Header(); err == nil {
		fmt.Fprintf(w, "%s\n", hdr)
	}
	spewCfg.Fdump(w, t.Data)
	return nil
}
