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

package hest

import (
	"fmt"

	"github.com/immune-gmbh/fwtest/pkg/acpi/cursor"
	"github.com/immune-gmbh/fwtest/pkg/acpi/fieldcheck"
	"github.com/immune-gmbh/fwtest/pkg/acpi/table"
	"github.com/immune-gmbh/fwtest/pkg/acpi/verdict"
	"github.com/immune-gmbh/fwtest/pkg/acpi/walker"
)

// commonFields are the fields which follow the type and the source ID in
// most error source structures.
type commonFields struct {
	Reserved             uint16
	Flags                uint8
	Enabled              uint8
	RecordsToPreallocate uint32
	MaxSectionsPerRecord uint32
}

func readCommonFields(f *cursor.Fields) commonFields {
	return commonFields{
		Reserved:             f.U16(),
		Flags:                f.U8(),
		Enabled:              f.U8(),
		RecordsToPreallocate: f.U32(),
		MaxSectionsPerRecord: f.U32(),
	}
}

func name(rec *walker.Record, field string) string {
	return fmt.Sprintf("%s %s", ErrorSourceType(rec.Type), field)
}

func (s *state) checkFlagsAndCounts(rec *walker.Record, flags, enabled uint8, records, sections uint32) {
	s.Check.ReservedBits(name(rec, "Flags"), uint64(flags), 3, 7)
	s.Check.EnumMembership(name(rec, "Enabled"), uint64(enabled), 0, 1)
	if records < 1 {
		s.Check.Fail(verdict.SeverityMedium, "BadRecordsToPreallocate",
			"HEST %s Number of Records to Preallocate is %d, expecting at least 1.", ErrorSourceType(rec.Type), records)
	}
	if sections < 1 {
		s.Check.Fail(verdict.SeverityMedium, "BadSectionsPerRecord",
			"HEST %s Max Sections Per Record is %d, expecting at least 1.", ErrorSourceType(rec.Type), sections)
	}
}

func (s *state) checkCommonFields(rec *walker.Record, c commonFields) {
	s.Check.ReservedZero(verdict.SeverityMedium, name(rec, "Reserved"), uint64(c.Reserved))
	s.checkFlagsAndCounts(rec, c.Flags, c.Enabled, c.RecordsToPreallocate, c.MaxSectionsPerRecord)
}

func (s *state) validateMachineCheck(rec *walker.Record, f *cursor.Fields) {
	c := readCommonFields(f)
	_ = f.U64() // global capability init data
	_ = f.U64() // global control init data
	banks := f.U8()
	reserved := f.Bytes(7)
	if err := f.Err(); err != nil {
		s.FieldTooShort(ErrorSourceType(rec.Type).String(), err)
		return
	}
	s.checkCommonFields(rec, c)
	s.Check.ReservedBytesZero(verdict.SeverityMedium, name(rec, "Reserved"), reserved)
	s.validateBanks(rec, f, banks)
}

func (s *state) validateCorrectedMachineCheck(rec *walker.Record, f *cursor.Fields) {
	c := readCommonFields(f)
	s.validateNotification(rec, f)
	banks := f.U8()
	reserved := f.Bytes(3)
	if err := f.Err(); err != nil {
		s.FieldTooShort(ErrorSourceType(rec.Type).String(), err)
		return
	}
	s.checkCommonFields(rec, c)
	s.Check.ReservedBytesZero(verdict.SeverityMedium, name(rec, "Reserved"), reserved)
	s.validateBanks(rec, f, banks)
}

func (s *state) validateBanks(rec *walker.Record, f *cursor.Fields, banks uint8) {
	for idx := 0; idx < int(banks); idx++ {
		_ = f.U8() // bank number
		clearStatusOnInit := f.U8()
		statusDataFormat := f.U8()
		reserved := f.U8()
		f.Skip(4 + 8 + 4 + 4 + 4)
		if err := f.Err(); err != nil {
			s.FieldTooShort(fmt.Sprintf("%s bank %d", ErrorSourceType(rec.Type), idx), err)
			return
		}
		s.Check.EnumMembership(name(rec, fmt.Sprintf("bank %d Clear Status On Initialization", idx)),
			uint64(clearStatusOnInit), 0, 1)
		s.Check.Range(name(rec, fmt.Sprintf("bank %d Status Data Format", idx)),
			uint64(statusDataFormat), 0, maxStatusDataFormat)
		s.Check.ReservedZero(verdict.SeverityMedium, name(rec, fmt.Sprintf("bank %d Reserved", idx)), uint64(reserved))
	}
}

// validateNotification validates a hardware error notification structure.
// Read failures are left in f for the caller to report.
func (s *state) validateNotification(rec *walker.Record, f *cursor.Fields) {
	notificationType := f.U8()
	length := f.U8()
	configWriteEnable := f.U16()
	f.Skip(notificationSize - 4)
	if f.Err() != nil {
		return
	}
	s.Check.Range(name(rec, "Notification Type"), uint64(notificationType), 0, maxNotificationType)
	if length != notificationSize {
		s.Check.Fail(verdict.SeverityHigh, "BadNotificationLength",
			"HEST %s Notification Length is %d, expecting %d.", ErrorSourceType(rec.Type), length, notificationSize)
	}
	s.Check.ReservedBits(name(rec, "Notification Configuration Write Enable"), uint64(configWriteEnable), 6, 15)
}

func (s *state) validateNMI(rec *walker.Record, f *cursor.Fields) {
	reserved := f.U32()
	records := f.U32()
	sections := f.U32()
	_ = f.U32() // max raw data length
	if err := f.Err(); err != nil {
		s.FieldTooShort(ErrorSourceType(rec.Type).String(), err)
		return
	}
	s.Check.ReservedZero(verdict.SeverityMedium, name(rec, "Reserved"), uint64(reserved))
	if records < 1 {
		s.Check.Fail(verdict.SeverityMedium, "BadRecordsToPreallocate",
			"HEST %s Number of Records to Preallocate is %d, expecting at least 1.", ErrorSourceType(rec.Type), records)
	}
	if sections < 1 {
		s.Check.Fail(verdict.SeverityMedium, "BadSectionsPerRecord",
			"HEST %s Max Sections Per Record is %d, expecting at least 1.", ErrorSourceType(rec.Type), sections)
	}
}

func (s *state) validateAER(rec *walker.Record, f *cursor.Fields) {
	c := readCommonFields(f)
	_ = f.U32() // bus
	_ = f.U16() // device
	_ = f.U16() // function
	_ = f.U16() // device control
	reserved := f.U16()
	f.Skip(4 + 4 + 4 + 4) // uncorrectable mask and severity, correctable mask, advanced capabilities
	switch ErrorSourceType(rec.Type) {
	case ErrorSourceTypePCIeRootPortAER:
		f.Skip(4) // root error command
	case ErrorSourceTypePCIeBridgeAER:
		f.Skip(4 + 4 + 4) // secondary uncorrectable mask and severity, secondary advanced capabilities
	}
	if err := f.Err(); err != nil {
		s.FieldTooShort(ErrorSourceType(rec.Type).String(), err)
		return
	}
	s.checkCommonFields(rec, c)
	s.Check.ReservedZero(verdict.SeverityMedium, name(rec, "Reserved"), uint64(reserved))
}

func (s *state) validateGHES(rec *walker.Record, f *cursor.Fields) {
	_ = f.U16() // related source ID
	flags := f.U8()
	enabled := f.U8()
	records := f.U32()
	sections := f.U32()
	_ = f.U32() // max raw data length
	errorStatusAddress := table.ReadGenericAddressFields(f)
	s.validateNotification(rec, f)
	errorStatusBlockLength := f.U32()
	var readAck table.GenericAddress
	if ErrorSourceType(rec.Type) == ErrorSourceTypeGHESv2 {
		readAck = table.ReadGenericAddressFields(f)
		f.Skip(8 + 8) // read ack preserve and write
	}
	if err := f.Err(); err != nil {
		s.FieldTooShort(ErrorSourceType(rec.Type).String(), err)
		return
	}

	s.Check.ReservedZero(verdict.SeverityMedium, name(rec, "Flags"), uint64(flags))
	s.checkFlagsAndCounts(rec, 0, enabled, records, sections)
	s.Check.AddressSpace(name(rec, "Error Status Address"), errorStatusAddress.SpaceID,
		fieldcheck.AddressSpaceSystemMemory)
	if errorStatusBlockLength == 0 {
		s.Check.Fail(verdict.SeverityMedium, "BadErrorStatusBlockLength",
			"HEST %s Error Status Block Length is zero.", ErrorSourceType(rec.Type))
	}
	if ErrorSourceType(rec.Type) == ErrorSourceTypeGHESv2 {
		s.Check.AddressSpace(name(rec, "Read Ack Register"), readAck.SpaceID,
			fieldcheck.AddressSpaceSystemMemory)
	}
}
