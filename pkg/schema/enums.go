// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// parseIntEnum coerces a wire string to a member of an integer enumeration.
func parseIntEnum[T ~int](s string, names map[T]string, kind string) (T, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", kind, s)
	}
	v := T(n)
	if _, ok := names[v]; !ok {
		return 0, fmt.Errorf("unknown %s %d", kind, n)
	}
	return v, nil
}

func enumName[T ~int](v T, names map[T]string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return strconv.Itoa(int(v))
}

// MessageStatus is the delivery state of a message. The values carry no
// progression order.
type MessageStatus int

const (
	MessageCreated            MessageStatus = 1
	MessageDelivered          MessageStatus = 2
	MessageDeliveredByFiction MessageStatus = 3
	MessageDeliveredByLogin   MessageStatus = 4
	MessageUndeliverable      MessageStatus = 5
	MessageAccepted           MessageStatus = 6
	MessageRead               MessageStatus = 7
	MessageCancelled          MessageStatus = 8
	MessageDeleted            MessageStatus = 9
)

var messageStatusNames = map[MessageStatus]string{
	MessageCreated:            "CREATED",
	MessageDelivered:          "DELIVERED",
	MessageDeliveredByFiction: "DELIVERED_BY_FICTION",
	MessageDeliveredByLogin:   "DELIVERED_BY_LOGIN",
	MessageUndeliverable:      "UNDELIVERABLE",
	MessageAccepted:           "ACCEPTED",
	MessageRead:               "READ",
	MessageCancelled:          "CANCELLED",
	MessageDeleted:            "DELETED",
}

func (s MessageStatus) String() string { return enumName(s, messageStatusNames) }

func (s *MessageStatus) decodeWire(v string) (err error) {
	*s, err = parseIntEnum(v, messageStatusNames, "message status")
	return err
}

func (s MessageStatus) encodeWire() string { return strconv.Itoa(int(s)) }

// SenderType classifies the sender of a message.
type SenderType int

const (
	SenderSystem SenderType = 0
	SenderOVM    SenderType = 10
	SenderPO     SenderType = 20
	SenderPFO    SenderType = 30
	SenderFO     SenderType = 40
)

var senderTypeNames = map[SenderType]string{
	SenderSystem: "SYSTEM",
	SenderOVM:    "OVM",
	SenderPO:     "PO",
	SenderPFO:    "PFO",
	SenderFO:     "FO",
}

func (t SenderType) String() string { return enumName(t, senderTypeNames) }

func (t *SenderType) decodeWire(v string) (err error) {
	*t, err = parseIntEnum(v, senderTypeNames, "sender type")
	return err
}

func (t SenderType) encodeWire() string { return strconv.Itoa(int(t)) }

// DataBoxState is the lifecycle state of a data box. DataBoxAll is a query
// wildcard, not a real state.
type DataBoxState int

const (
	DataBoxInvalid    DataBoxState = -1
	DataBoxAll        DataBoxState = 0
	DataBoxActive     DataBoxState = 1
	DataBoxInactive   DataBoxState = 2
	DataBoxTerminated DataBoxState = 3
)

var dataBoxStateNames = map[DataBoxState]string{
	DataBoxInvalid:    "INVALID",
	DataBoxAll:        "ALL",
	DataBoxActive:     "ACTIVE",
	DataBoxInactive:   "INACTIVE",
	DataBoxTerminated: "TERMINATED",
}

func (s DataBoxState) String() string { return enumName(s, dataBoxStateNames) }

func (s *DataBoxState) decodeWire(v string) (err error) {
	*s, err = parseIntEnum(v, dataBoxStateNames, "data box state")
	return err
}

func (s DataBoxState) encodeWire() string { return strconv.Itoa(int(s)) }

// StatusFilter restricts message listings to one status. NoStatusFilter
// lists every message.
type StatusFilter int

// NoStatusFilter is the default listing filter.
const NoStatusFilter StatusFilter = -1

// FilterStatus returns the filter selecting messages in status s.
func FilterStatus(s MessageStatus) StatusFilter { return StatusFilter(s) }

// DataBoxType is the holder type of a data box: one of the four base kinds
// or one of their registered subtypes.
type DataBoxType string

const (
	DataBoxOVM DataBoxType = "OVM" // public authority
	DataBoxPO  DataBoxType = "PO"  // legal entity
	DataBoxPFO DataBoxType = "PFO" // business individual
	DataBoxFO  DataBoxType = "FO"  // individual
)

var dataBoxTypes = map[DataBoxType]bool{
	"OVM": true, "OVM_NOTAR": true, "OVM_EXEKUT": true, "OVM_REQ": true,
	"OVM_FO": true, "OVM_PFO": true, "OVM_PO": true,
	"PO": true, "PO_ZAK": true, "PO_REQ": true,
	"PFO": true, "PFO_ADVOK": true, "PFO_DANPOR": true, "PFO_INSSPR": true,
	"PFO_AUDITOR": true, "PFO_ZNALEC": true, "PFO_TLUMOCNIK": true,
	"PFO_ARCH": true, "PFO_AIAT": true, "PFO_AZI": true, "PFO_REQ": true,
	"FO": true,
}

// Kind returns the base holder kind of t (PFO for PFO_ADVOK).
func (t DataBoxType) Kind() DataBoxType {
	if base, _, found := strings.Cut(string(t), "_"); found {
		return DataBoxType(base)
	}
	return t
}

func (t *DataBoxType) decodeWire(v string) error {
	if !dataBoxTypes[DataBoxType(v)] {
		return fmt.Errorf("unknown data box type %q", v)
	}
	*t = DataBoxType(v)
	return nil
}

func (t DataBoxType) encodeWire() string { return string(t) }

// FileMetaType is the role of a file within a message.
type FileMetaType string

const (
	FileMain      FileMetaType = "main"
	FileEnclosure FileMetaType = "enclosure"
	FileSignature FileMetaType = "signature"
	FileMeta      FileMetaType = "meta"
)

func (t *FileMetaType) decodeWire(v string) error {
	switch FileMetaType(v) {
	case FileMain, FileEnclosure, FileSignature, FileMeta:
		*t = FileMetaType(v)
		return nil
	}
	return fmt.Errorf("unknown file meta type %q", v)
}

func (t FileMetaType) encodeWire() string { return string(t) }

// SendOptions is the kind of messages a found data box accepts.
type SendOptions string

const (
	SendAll  SendOptions = "ALL"  // public and commercial messages
	SendDZ   SendOptions = "DZ"   // public messages only
	SendPDZ  SendOptions = "PDZ"  // commercial messages only
	SendNone SendOptions = "NONE" // no messages
)

func (o *SendOptions) decodeWire(v string) error {
	switch SendOptions(v) {
	case SendAll, SendDZ, SendPDZ, SendNone:
		*o = SendOptions(v)
		return nil
	}
	return fmt.Errorf("unknown send options %q", v)
}

func (o SendOptions) encodeWire() string { return string(o) }
