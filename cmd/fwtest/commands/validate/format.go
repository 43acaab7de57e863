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
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/runner"
)

var severityColor = map[verdict.Severity]*color.Color{
	verdict.SeverityInfo:     color.New(color.FgCyan),
	verdict.SeverityLow:      color.New(color.FgYellow),
	verdict.SeverityMedium:   color.New(color.FgHiYellow),
	verdict.SeverityHigh:     color.New(color.FgRed),
	verdict.SeverityCritical: color.New(color.FgHiRed, color.Bold),
}

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
)

// textReporter prints a verdict.Verdict.
type textReporter struct {
	w       io.Writer
	verbose bool
}

var _ verdict.Reporter = (*textReporter)(nil)

func (r *textReporter) ReportPass(msg string) {
	if r.verbose {
		fmt.Fprintf(r.w, "    %s\n", msg)
	}
}

func (r *textReporter) ReportFail(severity verdict.Severity, code string, msg string) {
	fmt.Fprintf(r.w, "    %s %s: %s\n", severityColor[severity].Sprintf("[%-8s]", severity), code, msg)
}

func (r *textReporter) ReportInfo(msg string) {
	if r.verbose {
		fmt.Fprintf(r.w, "    %s %s\n", severityColor[verdict.SeverityInfo].Sprintf("[%-8s]", verdict.SeverityInfo), msg)
	}
}

func printHumanReadable(w io.Writer, report *runner.Report, verbose bool) {
	reporter := &textReporter{w: w, verbose: verbose}
	for _, result := range report.Results {
		status := passColor.Sprint("PASS")
		if !result.Outcome.OverallPass {
			status = failColor.Sprint("FAIL")
		} else if !verbose {
			continue
		}
		fmt.Fprintf(w, "%s %-8s %s (%d bytes, %s)\n", status, result.Table, result.Description, result.Length, result.Provenance)

		v := &verdict.Verdict{
			Table:       result.Outcome.Table,
			Diagnostics: result.Outcome.Diagnostics,
		}
		verdict.Report(reporter, v)
	}

	failed := len(report.Failed())
	summary := passColor.Sprintf("all %d tables passed", len(report.Results))
	if failed > 0 {
		summary = failColor.Sprintf("%d of %d tables failed", failed, len(report.Results))
	}
	fmt.Fprintf(w, "%s, worst failure: %s, run ID: %s\n", summary, report.Worst(), report.RunID)
}
