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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/facebookincubator/go-belt/beltctx"
	"github.com/facebookincubator/go-belt/tool/experimental/errmon"
	"github.com/facebookincubator/go-belt/tool/experimental/tracer"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/fatih/color"
	fianoLog "github.com/linuxboot/fiano/pkg/log"
	"github.com/spf13/pflag"

	"github.com/immune-gmbh/fwtest/cmd/fwtest/commands/dmi"
	"github.com/immune-gmbh/fwtest/cmd/fwtest/commands/dump"
	"github.com/immune-gmbh/fwtest/cmd/fwtest/commands/list"
	"github.com/immune-gmbh/fwtest/cmd/fwtest/commands/validate"
	"github.com/immune-gmbh/fwtest/pkg/commands"
	"github.com/immune-gmbh/fwtest/pkg/observability"
)

var (
	knownCommands = map[string]commands.Command{
		"dmi":      &dmi.Command{},
		"dump":     &dump.Command{},
		"list":     &list.Command{},
		"validate": &validate.Command{},
	}
	exitCode = 0
)

func usage(flagSet *pflag.FlagSet) {
	flagSet.Usage()
	exitCode = 2 // the standard Go's exit-code on invalid flags
}

type flags struct {
	isQuiet      *bool
	noColor      *bool
	loggingLevel logger.Level
	tracePrefix  *string
}

// fiano logs warnings when it tries to decompress non-compressed data, and
// then continues correctly. Lower those to debug messages, fatal errors are
// kept as is.
type quietLogger struct {
	log logger.Logger
}

func (l quietLogger) Errorf(format string, args ...any) {
	l.log.Debugf(format, args...)
}

func (l quietLogger) Fatalf(format string, args ...any) {
	l.log.Fatalf(format, args...)
}

func (l quietLogger) Warnf(format string, args ...any) {
	l.log.Debugf(format, args...)
}

func setupFlag() (*pflag.FlagSet, *flags) {
	var f flags

	flagSet := pflag.NewFlagSet("fwtest", pflag.ExitOnError)
	// the global options precede the command
	flagSet.SetInterspersed(false)
	flagSet.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "syntax: fwtest [global options] <command> [options] {arguments}\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nPossible commands:\n")

		// sort commands
		var commandList []string
		for commandName := range knownCommands {
			commandList = append(commandList, commandName)
		}
		sort.Strings(commandList)

		// display commands
		for _, commandName := range commandList {
			command := knownCommands[commandName]
			_, _ = fmt.Fprintf(os.Stderr, "    fwtest %-20s %s\n",
				fmt.Sprintf("%s %s", commandName, command.Usage()), command.Description())
		}
		_, _ = fmt.Fprintf(os.Stderr, "\nGlobal options:\n")

		// display options
		flagSet.PrintDefaults()
	}

	f.loggingLevel = logger.LevelWarning // the default value
	flagSet.Var(&f.loggingLevel, "log-level", "logging level")
	f.isQuiet = flagSet.BoolP("quiet", "q", false, "suppress stdout")
	f.noColor = flagSet.Bool("no-color", false, "disable colors")
	f.tracePrefix = flagSet.String("trace-prefix", "", "prepend traceID with this value")
	return flagSet, &f
}

func main() {
	ctx, endFunc := context.WithCancel(context.Background())
	defer func() {
		// We want both: custom exitcode (which could be set only via `os.Exit`)
		// and working `defer`-s. So we have to put os.Exit into a defer.

		// Though we do not want to avoid printing panics, so:
		if event := errmon.ObserveRecoverCtx(ctx, recover()); event != nil {
			endFunc()
			beltctx.Flush(ctx)
			panic(event.PanicValue)
		}

		logger.FromCtx(ctx).Debugf("exitcode is %d", exitCode)
		endFunc()
		beltctx.Flush(ctx)
		os.Exit(exitCode)
	}()

	// Parse arguments

	flagSet, flags := setupFlag()
	_ = flagSet.Parse(os.Args[1:])

	if flagSet.NArg() < 1 {
		_, _ = fmt.Fprintf(os.Stderr, "error: no command specified\n\n")
		usage(flagSet)
		return
	}
	if *flags.noColor {
		color.NoColor = true
	}

	// Initialize everything
	ctx = observability.WithBelt(
		ctx,
		flags.loggingLevel,
		*flags.tracePrefix,
		true,
	)

	commandName := flagSet.Arg(0)
	args := flagSet.Args()[1:]

	span, ctx := tracer.StartChildSpanFromCtx(ctx, commandName)
	defer span.Finish()

	cfg := commands.Config{
		IsQuiet: *flags.isQuiet,
	}

	logger.FromCtx(ctx).Debugf("cmd: '%s'; args: %v", commandName, args)

	// fiano logs through its own global logger.
	fianoLog.DefaultLogger = quietLogger{log: logger.FromCtx(ctx)}

	// Execute the command

	command := knownCommands[commandName]
	if command == nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: unknown command '%s'\n\n", commandName)
		usage(flagSet)
		return
	}

	flagSet = pflag.NewFlagSet(commandName, pflag.ExitOnError)
	flagSet.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "syntax: fwtest %s [options] %s\n\nOptions:\n",
			commandName, command.Usage())
		flagSet.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\n")
	}

	command.SetupFlagSet(flagSet)
	_ = flagSet.Parse(args)
	err := command.Execute(ctx, cfg, flagSet.Args())

	// Process the error
	if err == nil {
		return
	}

	isSilentError := false
	exitCode = 5
	nestedErr := err
setExitCodeLoop:
	for nestedErr != nil {
		switch nestedErr := nestedErr.(type) {
		case commands.ErrArgs:
			_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", nestedErr)
			usage(flagSet)
			return
		case commands.SilentError:
			isSilentError = true
		case commands.ExitCoder:
			exitCode = nestedErr.ExitCode()
			break setExitCodeLoop
		}
		nestedErr = errors.Unwrap(nestedErr)
	}
	if !isSilentError {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
