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

package runner

import (
	"time"

	"github.com/google/uuid"

	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
)

// Result is the outcome of validating one table.
type Result struct {
	Table       string           `json:"table"`
	Description string           `json:"description"`
	Provenance  table.Provenance `json:"provenance"`
	Length      int              `json:"length"`
	Cached      bool             `json:"cached"`
	Duration    time.Duration    `json:"duration_ns"`
	Outcome     verdict.Outcome  `json:"outcome"`
}

// Report is the outcome of a Run.
type Report struct {
	RunID       uuid.UUID        `json:"run_id"`
	MinSeverity verdict.Severity `json:"min_severity"`
	Results     []Result         `json:"results"`
}

// Counts returns true if the diagnostic fails the run.
func (r *Report) Counts(d verdict.Diagnostic) bool {
	return d.Severity.IsFailure() && d.Severity >= r.MinSeverity
}

// Worst returns the highest severity among the diagnostics which fail the
// run, SeverityInfo if there are none.
func (r *Report) Worst() verdict.Severity {
	worst := verdict.SeverityInfo
	for _, result := range r.Results {
		for _, d := range result.Outcome.Diagnostics {
			if r.Counts(d) && d.Severity > worst {
				worst = d.Severity
			}
		}
	}
	return worst
}

// Passed returns true if no diagnostic fails the run.
func (r *Report) Passed() bool {
	return r.Worst() == verdict.SeverityInfo
}

// Failed returns the results of the tables which did not pass.
func (r *Report) Failed() []Result {
	var result []Result
	for _, res := range r.Results {
		if !res.Outcome.OverallPass {
			result = append(result, res)
		}
	}
	return result
}

// ExitCode returns the exit code of the worst failure.
func (r *Report) ExitCode() int {
	return r.Worst().FailureExitCode()
}
