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

// Package verdict accumulates the outcome of validating a single table.
package verdict

import (
	"fmt"
)

// Diagnostic is a single finding.
type Diagnostic struct {
	// Severity tells how important the finding is.
	Severity Severity `json:"severity"`

	// Code is a stable identifier of the finding, for example
	// "HESTTooManyIA32ArchMachineCheckExceptions". Downstream tooling
	// matches on it, so it must never change once published.
	Code string `json:"code"`

	// Message is a human readable description.
	Message string `json:"message"`
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

// Verdict is an accumulator of Diagnostic-s produced while validating one table.
//
// A Verdict is not safe for concurrent use; it is owned by the validation
// call which created it.
type Verdict struct {
	// Table is the signature of the validated table.
	Table string `json:"table"`

	// Diagnostics is the ordered list of findings.
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// New returns a fresh Verdict for the table with the given signature.
func New(table string) *Verdict {
	return &Verdict{Table: table}
}

// Push appends a Diagnostic.
func (v *Verdict) Push(severity Severity, code string, format string, args ...any) {
	v.Diagnostics = append(v.Diagnostics, Diagnostic{
		Severity: severity,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Info appends an informational Diagnostic, which does not affect the outcome.
func (v *Verdict) Info(code string, format string, args ...any) {
	v.Push(SeverityInfo, code, format, args...)
}

// Merge appends all Diagnostic-s of another Verdict.
func (v *Verdict) Merge(other *Verdict) {
	if other == nil {
		return
	}
	v.Diagnostics = append(v.Diagnostics, other.Diagnostics...)
}

// Passed returns true if no failure Diagnostic-s were pushed.
func (v *Verdict) Passed() bool {
	return v.Failures() == 0
}

// Failures returns the amount of Diagnostic-s which fail the table.
func (v *Verdict) Failures() int {
	count := 0
	for _, d := range v.Diagnostics {
		if d.Severity.IsFailure() {
			count++
		}
	}
	return count
}

// Worst returns the highest severity among the pushed Diagnostic-s.
func (v *Verdict) Worst() Severity {
	worst := SeverityInfo
	for _, d := range v.Diagnostics {
		if d.Severity > worst {
			worst = d.Severity
		}
	}
	return worst
}

// Codes returns the codes of all Diagnostic-s in order.
func (v *Verdict) Codes() []string {
	result := make([]string, 0, len(v.Diagnostics))
	for _, d := range v.Diagnostics {
		result = append(result, d.Code)
	}
	return result
}

// Clone returns a deep copy.
func (v *Verdict) Clone() *Verdict {
	if v == nil {
		return nil
	}
	result := &Verdict{Table: v.Table}
	if v.Diagnostics != nil {
		result.Diagnostics = make([]Diagnostic, len(v.Diagnostics))
		copy(result.Diagnostics, v.Diagnostics)
	}
	return result
}

// Outcome is the final aggregate of a Verdict.
type Outcome struct {
	Table       string       `json:"table"`
	OverallPass bool         `json:"overall_pass"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Finalize returns the final aggregate of the Verdict.
func (v *Verdict) Finalize() Outcome {
	return Outcome{
		Table:       v.Table,
		OverallPass: v.Passed(),
		Diagnostics: v.Clone().Diagnostics,
	}
}
