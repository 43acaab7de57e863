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

package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/experimental/tracer"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/pflag"

	"github.com/immune-gmbh/fwtest/cmd/fwtest/helpers"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/commands"
	"github.com/immune-gmbh/fwtest/pkg/runner"
)

// Command is the implementation of `commands.Command`.
type Command struct {
	source      helpers.Source
	configPath  *string
	tables      *[]string
	skip        *[]string
	minSeverity verdict.Severity
	concurrency *int
	cacheSize   *int
	asJSON      *bool
	verbose     *bool
}

// Usage prints the syntax of arguments for this command
func (cmd Command) Usage() string {
	return "[TABLE...]"
}

// Description explains what this verb commands to do
func (cmd Command) Description() string {
	return "validate the ACPI tables, the exit code is the severity of the worst failure"
}

// SetupFlagSet is called to allow the command implementation
// to setup which option flags it has.
func (cmd *Command) SetupFlagSet(flagSet *pflag.FlagSet) {
	cmd.source.SetupFlagSet(flagSet)
	cmd.configPath = flagSet.StringP("config", "c", "", "path to a YAML file with the runner configuration; the options below override it")
	cmd.tables = flagSet.StringSlice("tables", nil, "validate only these tables (by signature)")
	cmd.skip = flagSet.StringSlice("skip", nil, "do not validate these tables (by signature)")
	flagSet.Var(&cmd.minSeverity, "min-severity", "the lowest severity which fails the run: low, medium, high, critical")
	cmd.concurrency = flagSet.Int("concurrency", 0, "amount of tables validated in parallel (zero means the amount of CPUs)")
	cmd.cacheSize = flagSet.Int("cache-size", -1, fmt.Sprintf("amount of memoized verdicts, zero disables the cache (default %d)", runner.DefaultCacheSize))
	cmd.asJSON = flagSet.Bool("json", false, "print the report as JSON")
	cmd.verbose = flagSet.BoolP("verbose", "v", false, "print also the passed tables and informational diagnostics")
}

func (cmd Command) runnerOptions(tables []string) ([]runner.Option, error) {
	var opts []runner.Option
	if *cmd.configPath != "" {
		cfg, err := runner.LoadConfig(*cmd.configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cfg)
	}
	if len(tables) > 0 {
		opts = append(opts, runner.OptionTables(tables))
	}
	if len(*cmd.skip) > 0 {
		opts = append(opts, runner.OptionSkip(*cmd.skip))
	}
	if cmd.minSeverity != verdict.SeverityInfo {
		opts = append(opts, runner.OptionMinSeverity(cmd.minSeverity))
	}
	if *cmd.concurrency > 0 {
		opts = append(opts, runner.OptionConcurrency(*cmd.concurrency))
	}
	if *cmd.cacheSize >= 0 {
		opts = append(opts, runner.OptionCacheSize(*cmd.cacheSize))
	}
	return opts, nil
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd Command) Execute(ctx context.Context, cfg commands.Config, args []string) error {
	provider, err := cmd.source.Provider()
	if err != nil {
		return fmt.Errorf("unable to open the tables: %w", err)
	}
	defer cmd.source.Close()

	opts, err := cmd.runnerOptions(append(append([]string{}, *cmd.tables...), args...))
	if err != nil {
		return err
	}
	r, err := runner.New(opts...)
	if err != nil {
		return fmt.Errorf("unable to initialize the runner: %w", err)
	}

	tables, err := provider.Tables(ctx)
	if err != nil {
		if len(tables) == 0 {
			return fmt.Errorf("unable to read the tables: %w", err)
		}
		logger.FromCtx(ctx).Warnf("some tables were not read: %v", err)
	}

	report := r.Run(ctx, tables)

	span, _ := tracer.StartChildSpanFromCtx(ctx, "print")
	if *cmd.asJSON {
		err = printJSON(cfg.Output(), report)
	} else {
		printHumanReadable(cfg.Output(), report, *cmd.verbose)
	}
	span.Finish()
	if err != nil {
		return fmt.Errorf("unable to print the report: %w", err)
	}

	if report.Passed() {
		return nil
	}
	return commands.SilentError{Err: commands.ErrExitCode{
		Code:   report.ExitCode(),
		Reason: fmt.Sprintf("%d of %d tables failed", len(report.Failed()), len(report.Results)),
	}}
}

func printJSON(w io.Writer, report *runner.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
