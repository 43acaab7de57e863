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

package verdict

import (
	"fmt"
	"strings"
)

// Severity tells how serious a Diagnostic is.
//
// The numeric order is meaningful: a higher value is more severe.
type Severity uint8

const (
	// SeverityInfo is a note which does not affect the pass/fail outcome.
	SeverityInfo = Severity(iota)

	// SeverityLow is a cosmetic or advisory issue.
	SeverityLow

	// SeverityMedium is a violation which is unlikely to break an OS.
	SeverityMedium

	// SeverityHigh is a violation which is likely to confuse an OS.
	SeverityHigh

	// SeverityCritical is a violation which makes the table unusable.
	SeverityCritical

	endOfSeverity
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return fmt.Sprintf("unknown_severity_%d", uint8(s))
}

// Set implements flag.Value.
func (s *Severity) Set(in string) error {
	in = strings.Trim(strings.ToLower(in), " ")
	for v := Severity(0); v < endOfSeverity; v++ {
		if in == v.String() {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown severity '%s'", in)
}

// Type implements pflag.Value.
func (s Severity) Type() string {
	return "severity"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	return s.Set(string(b))
}

// IsFailure returns true if a Diagnostic of this severity fails a table.
func (s Severity) IsFailure() bool {
	return s >= SeverityLow
}

// FailureExitCode returns the exit code a CLI should use when the worst
// failure found has this severity.
func (s Severity) FailureExitCode() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}

	return -2 // -1 is reserved for global unknown errors.
}
