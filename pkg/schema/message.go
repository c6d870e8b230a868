// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package schema

// MessageRecord is one entry of a received or sent message listing.
type MessageRecord struct {
	Ordinal             int64         `isds:"dmOrdinal,required"`
	ID                  string        `isds:"dmID,required"`
	SenderID            string        `isds:"dbIDSender,required"`
	Sender              string        `isds:"dmSender,required"`
	SenderAddress       *string       `isds:"dmSenderAddress"`
	SenderType          SenderType    `isds:"dmSenderType,required"`
	Recipient           string        `isds:"dmRecipient,required"`
	RecipientAddress    *string       `isds:"dmRecipientAddress"`
	AmbiguousRecipient  *string       `isds:"dmAmbiguousRecipient"`
	SenderOrgUnit       *string       `isds:"dmSenderOrgUnit"`
	SenderOrgUnitNum    *string       `isds:"dmSenderOrgUnitNum"`
	RecipientID         string        `isds:"dbIDRecipient,required"`
	RecipientOrgUnit    *string       `isds:"dmRecipientOrgUnit"`
	RecipientOrgUnitNum *string       `isds:"dmRecipientOrgUnitNum"`
	ToHands             *string       `isds:"dmToHands"`
	Subject             string        `isds:"dmAnnotation,required"`
	RecipientRefNumber  *string       `isds:"dmRecipientRefNumber"`
	SenderRefNumber     *string       `isds:"dmSenderRefNumber"`
	RecipientIdent      *string       `isds:"dmRecipientIdent"`
	SenderIdent         *string       `isds:"dmSenderIdent"`
	LegalTitleLaw       *int64        `isds:"dmLegalTitleLaw"`
	LegalTitleYear      *int64        `isds:"dmLegalTitleYear"`
	LegalTitleSect      *string       `isds:"dmLegalTitleSect"`
	LegalTitlePar       *string       `isds:"dmLegalTitlePar"`
	LegalTitlePoint     *string       `isds:"dmLegalTitlePoint"`
	PersonalDelivery    *bool         `isds:"dmPersonalDelivery"`
	AllowSubstDelivery  *bool         `isds:"dmAllowSubstDelivery"`
	Status              MessageStatus `isds:"dmMessageStatus,required"`
	AttachmentSize      uint64        `isds:"dmAttachmentSize,required"`
	DeliveryTime        *DateTime     `isds:"dmDeliveryTime"`
	AcceptanceTime      *DateTime     `isds:"dmAcceptanceTime"`
	Type                *string       `isds:"dmType"`
	VODZ                *string       `isds:"dmVODZ"`
}

// MessageRecordEnvelope wraps one record of a dmRecords sequence.
type MessageRecordEnvelope struct {
	Record MessageRecord `isds:"dmRecord,required"`
}

// MessageRecords is the dmRecords container.
type MessageRecords struct {
	Records []MessageRecordEnvelope `isds:"_value_1"`
}

// List flattens the container to its records.
func (r *MessageRecords) List() []MessageRecord {
	if r == nil {
		return nil
	}
	out := make([]MessageRecord, len(r.Records))
	for i, env := range r.Records {
		out[i] = env.Record
	}
	return out
}

// ReceivedFile is a file of a downloaded message.
type ReceivedFile struct {
	MimeType       string       `isds:"dmMimeType,required"`
	MetaType       FileMetaType `isds:"dmFileMetaType,required"`
	Description    string       `isds:"dmFileDescr,required"`
	GUID           *string      `isds:"dmFileGuid"`
	UpperGUID      *string      `isds:"dmUpFileGuid"`
	Format         *string      `isds:"dmFormat"`
	EncodedContent *string      `isds:"dmEncodedContent"`
	XMLContent     *string      `isds:"dmXMLContent"`
}

// ReceivedFiles is the dmFiles container of a downloaded message.
type ReceivedFiles struct {
	Files []ReceivedFile `isds:"dmFile"`
}

// MessageEnvelope is the dmDm part of a downloaded message. Files is only
// present in full message downloads.
type MessageEnvelope struct {
	ID                  string         `isds:"dmID,required"`
	SenderID            string         `isds:"dbIDSender,required"`
	Sender              string         `isds:"dmSender,required"`
	SenderAddress       *string        `isds:"dmSenderAddress"`
	SenderType          SenderType     `isds:"dmSenderType,required"`
	Recipient           string         `isds:"dmRecipient,required"`
	RecipientAddress    *string        `isds:"dmRecipientAddress"`
	AmbiguousRecipient  *string        `isds:"dmAmbiguousRecipient"`
	SenderOrgUnit       *string        `isds:"dmSenderOrgUnit"`
	SenderOrgUnitNum    *string        `isds:"dmSenderOrgUnitNum"`
	RecipientID         string         `isds:"dbIDRecipient,required"`
	RecipientOrgUnit    *string        `isds:"dmRecipientOrgUnit"`
	RecipientOrgUnitNum *string        `isds:"dmRecipientOrgUnitNum"`
	ToHands             *string        `isds:"dmToHands"`
	Subject             string         `isds:"dmAnnotation,required"`
	RecipientRefNumber  *string        `isds:"dmRecipientRefNumber"`
	SenderRefNumber     *string        `isds:"dmSenderRefNumber"`
	RecipientIdent      *string        `isds:"dmRecipientIdent"`
	SenderIdent         *string        `isds:"dmSenderIdent"`
	LegalTitleLaw       *int64         `isds:"dmLegalTitleLaw"`
	LegalTitleYear      *int64         `isds:"dmLegalTitleYear"`
	LegalTitleSect      *string        `isds:"dmLegalTitleSect"`
	LegalTitlePar       *string        `isds:"dmLegalTitlePar"`
	LegalTitlePoint     *string        `isds:"dmLegalTitlePoint"`
	PersonalDelivery    bool           `isds:"dmPersonalDelivery,required"`
	AllowSubstDelivery  bool           `isds:"dmAllowSubstDelivery,required"`
	Files               *ReceivedFiles `isds:"dmFiles"`
}

// Hash is a message digest with its algorithm attribute.
type Hash struct {
	Value     string `isds:"_value_1,required"`
	Algorithm string `isds:"algorithm,required"`
}

// ReturnedMessage is a downloaded message or message envelope.
type ReturnedMessage struct {
	Envelope       MessageEnvelope `isds:"dmDm,required"`
	Hash           *Hash           `isds:"dmHash"`
	QTimestamp     *string         `isds:"dmQTimestamp"`
	DeliveryTime   *DateTime       `isds:"dmDeliveryTime"`
	AcceptanceTime *DateTime       `isds:"dmAcceptanceTime"`
	Status         MessageStatus   `isds:"dmMessageStatus,required"`
	AttachmentSize uint64          `isds:"dmAttachmentSize,required"`
	Type           *string         `isds:"dmType"`
}

// Event is one entry of a delivery history.
type Event struct {
	Time        DateTime `isds:"dmEventTime,required"`
	Description string   `isds:"dmEventDescr,required"`
}

// Events is the dmEvents container.
type Events struct {
	Events []Event `isds:"dmEvent"`
}

// DeliveryInfo is the delivery record of a message.
type DeliveryInfo struct {
	Envelope       MessageEnvelope `isds:"dmDm,required"`
	Hash           *Hash           `isds:"dmHash"`
	QTimestamp     *string         `isds:"dmQTimestamp"`
	DeliveryTime   *DateTime       `isds:"dmDeliveryTime"`
	AcceptanceTime *DateTime       `isds:"dmAcceptanceTime"`
	Status         MessageStatus   `isds:"dmMessageStatus,required"`
	Events         *Events         `isds:"dmEvents"`
}

// StateChange reports a message entering a new status.
type StateChange struct {
	ID        string        `isds:"dmID,required"`
	EventTime DateTime      `isds:"dmEventTime,required"`
	Status    MessageStatus `isds:"dmMessageStatus,required"`
}

// StateChangeEnvelope wraps one record of a state change sequence.
type StateChangeEnvelope struct {
	Record StateChange `isds:"dmRecord,required"`
}

// StateChangeRecords is the dmRecords container of GetMessageStateChanges.
type StateChangeRecords struct {
	Records []StateChangeEnvelope `isds:"_value_1"`
}

// List flattens the container to its state changes.
func (r *StateChangeRecords) List() []StateChange {
	if r == nil {
		return nil
	}
	out := make([]StateChange, len(r.Records))
	for i, env := range r.Records {
		out[i] = env.Record
	}
	return out
}

// SingleStatus is the per-recipient outcome of CreateMultipleMessage.
type SingleStatus struct {
	ID     *string  `isds:"dmID"`
	Status DmStatus `isds:"dmStatus,required"`
}

// MultipleStatus is the dmMultipleStatus container.
type MultipleStatus struct {
	Statuses []SingleStatus `isds:"dmSingleStatus"`
}

// Failed returns the recipients whose message was rejected.
func (m MultipleStatus) Failed() []SingleStatus {
	var failed []SingleStatus
	for _, s := range m.Statuses {
		if !s.Status.Outcome().OK() {
			failed = append(failed, s)
		}
	}
	return failed
}
