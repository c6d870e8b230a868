// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Package schema defines the typed request and response models of the ISDS
// web services and the codec between them and the wire form produced by
// the SOAP transport.
//
// Every record declares its wire names with struct tags:
//
//	type DmStatus struct {
//		StatusCode    string  `isds:"dmStatusCode,required"`
//		StatusMessage string  `isds:"dmStatusMessage,required"`
//		RefNumber     *string `isds:"dmStatusRefNumber"`
//	}
//
// Required fields are value types and their absence fails decoding with an
// *isdserr.SchemaError naming the dotted wire path. Optional fields are
// pointers (or slices) and stay nil when absent.
//
// The wire form is a tree of map[string]any, []any and string leaves. Lists
// of records are wrapped twice by the remote API, e.g.
//
//	dmRecords._value_1[].dmRecord
//
// which the MessageRecords and DataBoxResults containers mirror.
//
// Response envelopes are decoded with DecodeResponse, which checks the
// status before the payload.
package schema
