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

package cursor

import (
	"fmt"
)

// ErrTruncated means a read would have crossed the cursor limit.
type ErrTruncated struct {
	Offset    int
	Want      uint64
	Remaining int
}

// Error implements error.
func (err ErrTruncated) Error() string {
	return fmt.Sprintf("truncated: need %d bytes at offset 0x%x, but only %d remain", err.Want, err.Offset, err.Remaining)
}

// ErrInvalidRegion means a cursor was requested over a region which does not
// fit the buffer.
type ErrInvalidRegion struct {
	Start int
	Limit int
	Size  int
}

// Error implements error.
func (err ErrInvalidRegion) Error() string {
	return fmt.Sprintf("invalid region [0x%x, 0x%x) of a buffer of size 0x%x", err.Start, err.Limit, err.Size)
}

// ErrInvalidWidth means an integer width other than 1, 2, 4 or 8 was requested.
type ErrInvalidWidth struct {
	Width int
}

// Error implements error.
func (err ErrInvalidWidth) Error() string {
	return fmt.Sprintf("invalid integer width %d", err.Width)
}
