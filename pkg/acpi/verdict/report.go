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
)

// Reporter is the receiving end of the test reporting framework.
type Reporter interface {
	ReportPass(msg string)
	ReportFail(severity Severity, code string, msg string)
	ReportInfo(msg string)
}

// Report forwards the Verdict to a Reporter.
//
// Informational Diagnostic-s are reported via ReportInfo, failures via
// ReportFail. If there are no failures then a single pass message is
// synthesized. It returns the overall outcome.
func Report(r Reporter, v *Verdict) bool {
	for _, d := range v.Diagnostics {
		if !d.Severity.IsFailure() {
			r.ReportInfo(d.Message)
			continue
		}
		r.ReportFail(d.Severity, d.Code, d.Message)
	}

	passed := v.Passed()
	if passed {
		r.ReportPass(fmt.Sprintf("No issues found in %s table.", v.Table))
	}
	return passed
}
