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

package s3pt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immune-gmbh/fwtest/pkg/acpi/acpitest"
)

func s3pt(records func(b *acpitest.Buf)) []byte {
	var body acpitest.Buf
	records(&body)
	var b acpitest.Buf
	b.Raw([]byte(Signature)...).U32(uint32(HeaderSize + body.Len())).Raw(body.Bytes()...)
	return b.Bytes()
}

func resume(b *acpitest.Buf) {
	b.U16(uint16(RecordTypeResume)).U8(resumeRecordLength).U8(recordRevision).U32(3).U64(1000).U64(900)
}

func suspend(b *acpitest.Buf, start, end uint64) {
	b.U16(uint16(RecordTypeSuspend)).U8(suspendRecordLength).U8(recordRevision).U64(start).U64(end)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	validate := func(data []byte) []string {
		return New().Validate(ctx, acpitest.FromBytes(Signature, data)).Codes()
	}

	require.Empty(t, validate(s3pt(func(b *acpitest.Buf) {
		resume(b)
		suspend(b, 100, 200)
	})))

	require.Equal(t, []string{"S3PTNoResumeRecord"}, validate(s3pt(func(b *acpitest.Buf) {
		suspend(b, 100, 200)
	})))

	require.Equal(t, []string{"S3PTBadSuspendTimes", "S3PTTooManyResumeRecords", "S3PTTooManySuspendRecords"},
		validate(s3pt(func(b *acpitest.Buf) {
			resume(b)
			resume(b)
			suspend(b, 200, 100)
			suspend(b, 100, 200)
		})))

	require.Equal(t, []string{"S3PTZeroLengthRecord"}, validate(s3pt(func(b *acpitest.Buf) {
		resume(b)
		b.U16(uint16(RecordTypeSuspend)).U8(0).U8(1).Zero(16)
	})))

	require.Equal(t, []string{"S3PTTooShort"}, validate([]byte("S3PT")))
}
