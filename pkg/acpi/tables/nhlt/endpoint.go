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

package nhlt

import (
	"fmt"

	"github.com/linuxboot/fiano/pkg/guid"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/tables/common"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// LinkType is the type of the audio link of an endpoint.
type LinkType uint8

const (
	LinkTypeHDAudio = LinkType(0)
	LinkTypeDSP     = LinkType(1)
	LinkTypePDM     = LinkType(2)
	LinkTypeSSP     = LinkType(3)
)

// Direction is the direction of an endpoint.
type Direction uint8

const (
	DirectionRender         = Direction(0)
	DirectionCapture        = Direction(1)
	DirectionRenderLoopback = Direction(2)
	DirectionRenderFeedback = Direction(3)
)

const (
	maxDeviceType = 2

	waveFormatExtensibleSize = 40
	waveFormatExtensible     = 0xfffe
	waveFormatExtensionSize  = 22
	deviceInfoSize           = 18
)

var (
	// PCMSubFormatGUID is KSDATAFORMAT_SUBTYPE_PCM.
	PCMSubFormatGUID = *guid.MustParse("00000001-0000-0010-8000-00AA00389B71")
)

// endpoint walks the nested structures of a single endpoint; every read
// goes through c, which is bounded to the endpoint.
type endpoint struct {
	*common.Table
	rec *walker.Record
	c   *cursor.Cursor
}

func (ep *endpoint) tooShort(what string, err error) {
	ep.FieldTooShort(fmt.Sprintf("endpoint %d %s", ep.rec.Index, what), err)
}

func validateEndpoint(t *common.Table, rec *walker.Record) {
	ep := &endpoint{Table: t, rec: rec, c: rec.Cursor()}

	f := ep.c.Fields()
	f.Skip(4) // length
	linkType := f.U8()
	_ = f.U8()  // instance ID
	_ = f.U16() // vendor ID
	_ = f.U16() // device ID
	_ = f.U16() // revision ID
	_ = f.U32() // subsystem ID
	deviceType := f.U8()
	direction := f.U8()
	_ = f.U8() // virtual bus ID
	if err := f.Err(); err != nil {
		ep.tooShort("descriptor", err)
		return
	}

	prefix := fmt.Sprintf("endpoint %d ", rec.Index)
	t.Check.Range(prefix+"Link Type", uint64(linkType), uint64(LinkTypeHDAudio), uint64(LinkTypeSSP))
	t.Check.Range(prefix+"Device Type", uint64(deviceType), 0, maxDeviceType)
	t.Check.Range(prefix+"Direction", uint64(direction), uint64(DirectionRender), uint64(DirectionRenderFeedback))

	if !ep.skipCapabilities("device specific configuration") {
		return
	}
	if !ep.validateFormats() {
		return
	}
	if !ep.validateDevicesInfo() {
		return
	}
	if !ep.c.AtEnd() {
		t.Check.Fail(verdict.SeverityLow, "TrailingBytes",
			"NHLT endpoint %d has %d unexpected bytes at offset 0x%x.", rec.Index, ep.c.Remaining(), rec.Offset+ep.c.Offset())
	}
}

// skipCapabilities skips a "size u32" prefixed configuration blob.
func (ep *endpoint) skipCapabilities(what string) bool {
	size, err := ep.c.ReadU32()
	if err != nil {
		ep.tooShort(what+" size", err)
		return false
	}
	if err := ep.c.Skip(uint64(size)); err != nil {
		ep.tooShort(what, err)
		return false
	}
	return true
}

func (ep *endpoint) validateFormats() bool {
	count, err := ep.c.ReadU8()
	if err != nil {
		ep.tooShort("formats count", err)
		return false
	}
	for idx := 0; idx < int(count); idx++ {
		format, err := ep.c.ReadBytes(waveFormatExtensibleSize)
		if err != nil {
			ep.tooShort(fmt.Sprintf("format %d", idx), err)
			return false
		}
		ep.validateWaveFormat(idx, cursor.NewFull(format))
		if !ep.skipCapabilities(fmt.Sprintf("format %d configuration", idx)) {
			return false
		}
	}
	return true
}

func (ep *endpoint) validateWaveFormat(idx int, c *cursor.Cursor) {
	f := c.Fields()
	formatTag := f.U16()
	channels := f.U16()
	samplesPerSec := f.U32()
	avgBytesPerSec := f.U32()
	blockAlign := f.U16()
	bitsPerSample := f.U16()
	extensionSize := f.U16()
	validBitsPerSample := f.U16()
	_ = f.U32() // channel mask
	var subFormat guid.GUID
	copy(subFormat[:], f.Bytes(16))
	if err := f.Err(); err != nil {
		ep.tooShort(fmt.Sprintf("format %d", idx), err)
		return
	}

	what := fmt.Sprintf("NHLT endpoint %d format %d", ep.rec.Index, idx)
	if formatTag != waveFormatExtensible {
		ep.Check.Fail(verdict.SeverityMedium, "BadFormatTag",
			"%s tag is 0x%04x, expecting 0x%04x (WAVE_FORMAT_EXTENSIBLE).", what, formatTag, waveFormatExtensible)
	}
	if extensionSize != waveFormatExtensionSize {
		ep.Check.Fail(verdict.SeverityMedium, "BadFormatExtensionSize",
			"%s cbSize is %d, expecting %d.", what, extensionSize, waveFormatExtensionSize)
	}
	if expected := uint32(channels) * uint32(bitsPerSample) / 8; uint32(blockAlign) != expected {
		ep.Check.Fail(verdict.SeverityMedium, "BadBlockAlign",
			"%s block align is %d, expecting %d for %d channels of %d bits.", what, blockAlign, expected, channels, bitsPerSample)
	}
	if expected := uint64(samplesPerSec) * uint64(blockAlign); uint64(avgBytesPerSec) != expected {
		ep.Check.Fail(verdict.SeverityMedium, "BadByteRate",
			"%s average bytes per second is %d, expecting %d.", what, avgBytesPerSec, expected)
	}
	if validBitsPerSample > bitsPerSample {
		ep.Check.Fail(verdict.SeverityMedium, "BadValidBitsPerSample",
			"%s valid bits per sample %d exceeds the container size of %d bits.", what, validBitsPerSample, bitsPerSample)
	}
	if subFormat != PCMSubFormatGUID {
		ep.Check.Fail(verdict.SeverityLow, "NonPCMSubFormat",
			"%s sub format is %s, expecting %s (PCM).", what, subFormat, PCMSubFormatGUID)
	}
}

// validateDevicesInfo validates the optional device information list which
// may follow the formats.
func (ep *endpoint) validateDevicesInfo() bool {
	if ep.c.AtEnd() {
		return true
	}
	count, err := ep.c.ReadU8()
	if err != nil {
		ep.tooShort("devices count", err)
		return false
	}
	if err := ep.c.Skip(uint64(count) * deviceInfoSize); err != nil {
		ep.tooShort("devices information", err)
		return false
	}
	return true
}
