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

package formatter

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestCompactText(t *testing.T) {
	entryTime := time.Date(2001, 02, 03, 04, 05, 06, 07, time.UTC)

	t.Run("allow_list", func(t *testing.T) {
		b, err := (&CompactText{
			FieldAllowList: []string{"table"},
		}).Format(&logrus.Entry{
			Time: entryTime,
			Data: logrus.Fields{
				"table": "HEST",
				"runID": "abc",
			},
			Level:   logrus.WarnLevel,
			Message: "msg",
		})
		require.NoError(t, err)
		require.Equal(t, "[2001-02-03T04:05:06Z W] msg\ttable=HEST\n", string(b))
	})

	t.Run("all_fields_sorted", func(t *testing.T) {
		b, err := (&CompactText{
			TimestampFormat: "15:04",
		}).Format(&logrus.Entry{
			Time: entryTime,
			Data: logrus.Fields{
				"table":   "SLIT",
				"records": 4,
			},
			Level:   logrus.DebugLevel,
			Message: "walked",
		})
		require.NoError(t, err)
		require.Equal(t, "[04:05 D] walked\trecords=4\ttable=SLIT\n", string(b))
	})

	t.Run("colors", func(t *testing.T) {
		b, err := (&CompactText{Colors: true}).Format(&logrus.Entry{
			Time:    entryTime,
			Level:   logrus.ErrorLevel,
			Message: "msg",
		})
		require.NoError(t, err)
		require.Contains(t, string(b), "\x1b[31mE\x1b[0m")

		b, err = (&CompactText{Colors: true}).Format(&logrus.Entry{
			Time:    entryTime,
			Level:   logrus.InfoLevel,
			Message: "msg",
		})
		require.NoError(t, err)
		require.Equal(t, "[2001-02-03T04:05:06Z I] msg\n", string(b))
	})
}
