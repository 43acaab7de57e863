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

package table

import (
	"fmt"
)

// ErrInvalidSignature means the table name is not a valid signature.
type ErrInvalidSignature struct {
	Signature string
}

// Error implements error.
func (err ErrInvalidSignature) Error() string {
	return fmt.Sprintf("invalid table signature '%s'", err.Signature)
}

// ErrInvalidProvenance means the provenance tag is unknown.
type ErrInvalidProvenance struct {
	Provenance Provenance
}

// Error implements error.
func (err ErrInvalidProvenance) Error() string {
	return fmt.Sprintf("invalid provenance: %s", err.Provenance)
}

// ErrHeader means the common header could not be decoded.
type ErrHeader struct {
	Err error
}

// Error implements error.
func (err ErrHeader) Error() string {
	return fmt.Sprintf("unable to parse the table header: %v", err.Err)
}

// Unwrap implements errors.Unwrap interface.
func (err ErrHeader) Unwrap() error {
	return err.Err
}
