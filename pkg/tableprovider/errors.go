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

package tableprovider

import (
	"fmt"
)

// ErrNotFound means the requested table does not exist in the source.
type ErrNotFound struct {
	Name     string
	Instance int
}

func (err ErrNotFound) Error() string {
	if err.Instance == 0 {
		return fmt.Sprintf("table %s not found", err.Name)
	}
	return fmt.Sprintf("table %s instance %d not found", err.Name, err.Instance)
}

// ErrRead means a table file could not be read.
type ErrRead struct {
	Path string
	Err  error
}

func (err ErrRead) Error() string {
	return fmt.Sprintf("unable to read '%s': %v", err.Path, err.Err)
}

func (err ErrRead) Unwrap() error {
	return err.Err
}

// ErrTooLarge means a table file exceeds the configured size limit.
type ErrTooLarge struct {
	Path  string
	Limit int64
}

func (err ErrTooLarge) Error() string {
	return fmt.Sprintf("'%s' is larger than %d bytes", err.Path, err.Limit)
}

// ErrParse means the acpidump text could not be parsed.
type ErrParse struct {
	Line int
	Err  error
}

func (err ErrParse) Error() string {
	return fmt.Sprintf("unable to parse line %d: %v", err.Line, err.Err)
}

func (err ErrParse) Unwrap() error {
	return err.Err
}
