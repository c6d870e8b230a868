// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package schema

import "strings"

// Outcome is the normalized content of a response status.
type Outcome struct {
	Code      string
	Message   string
	RefNumber string
}

// OK reports whether the code denotes success. The remote system reports
// success as a code made of zeros ("0000").
func (o Outcome) OK() bool {
	code := strings.TrimSpace(o.Code)
	if strings.EqualFold(code, "OK") {
		return true
	}
	return code != "" && strings.Trim(code, "0") == ""
}

// Status is implemented by the status objects of the message (dm*) and data
// box (db*) services.
type Status interface {
	Outcome() Outcome
}

// DmStatus is the status of a message service response.
type DmStatus struct {
	StatusCode    string  `isds:"dmStatusCode,required"`
	StatusMessage string  `isds:"dmStatusMessage,required"`
	RefNumber     *string `isds:"dmStatusRefNumber"`
}

func (s DmStatus) Outcome() Outcome {
	return Outcome{Code: s.StatusCode, Message: s.StatusMessage, RefNumber: deref(s.RefNumber)}
}

// DbStatus is the status of a data box service response.
type DbStatus struct {
	StatusCode    string  `isds:"dbStatusCode,required"`
	StatusMessage string  `isds:"dbStatusMessage,required"`
	RefNumber     *string `isds:"dbStatusRefNumber"`
}

func (s DbStatus) Outcome() Outcome {
	return Outcome{Code: s.StatusCode, Message: s.StatusMessage, RefNumber: deref(s.RefNumber)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
