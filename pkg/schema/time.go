// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package schema

import (
	"fmt"
	"strings"
	"time"
)

// DateTime is an xs:dateTime value. It encodes as RFC 3339 with fractional
// seconds only when they are non-zero.
type DateTime struct {
	time.Time
}

// NewDateTime wraps t.
func NewDateTime(t time.Time) DateTime { return DateTime{Time: t} }

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // no zone designator, read as UTC
}

func (d *DateTime) decodeWire(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date-time %q", s)
}

func (d DateTime) encodeWire() string { return d.Format(time.RFC3339Nano) }

// Date is an xs:date value.
type Date struct {
	time.Time
}

// NewDate returns the Date of year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) decodeWire(s string) error {
	s = strings.TrimSpace(s)
	// xs:date may carry a zone designator; the calendar day is kept
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	d.Time = t
	return nil
}

func (d Date) encodeWire() string { return d.Format(time.DateOnly) }
