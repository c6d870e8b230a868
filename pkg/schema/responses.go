// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package schema

import (
	"encoding/base64"
	"fmt"
	"reflect"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
)

// DecodeResponse validates a raw response of operation into T. The field of
// T tagged "status" is validated first; a failure status is returned as
// *isdserr.RemoteFault even when the payload would parse. Payload errors
// after a successful status are *isdserr.SchemaError.
func DecodeResponse[T any](operation string, raw Wire) (*T, error) {
	out := new(T)
	rv := reflect.ValueOf(out).Elem()
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: response type %T is not a struct", *out)
	}

	sf, ok := statusField(rv.Type())
	if !ok {
		return nil, fmt.Errorf("schema: response type %T has no status field", *out)
	}
	if raw == nil {
		return nil, isdserr.Missing(sf.wire)
	}

	statusRaw, present := raw[sf.wire]
	if !present || statusRaw == nil {
		return nil, isdserr.Missing(sf.wire)
	}
	fv := rv.Field(sf.index)
	if err := decodeValue(sf.wire, statusRaw, fv); err != nil {
		return nil, err
	}
	status, ok := fv.Interface().(Status)
	if !ok {
		return nil, fmt.Errorf("schema: status field of %T does not report an outcome", *out)
	}
	if outcome := status.Outcome(); !outcome.OK() {
		return nil, &isdserr.RemoteFault{
			Operation: operation,
			Code:      outcome.Code,
			Message:   outcome.Message,
			RefNumber: outcome.RefNumber,
		}
	}

	if err := decodeStruct("", raw, rv); err != nil {
		return nil, err
	}
	return out, nil
}

func statusField(t reflect.Type) (field, bool) {
	for _, f := range fieldsOf(t) {
		if f.status {
			return f, true
		}
	}
	return field{}, false
}

// StatusResponse is a message service response carrying only a status.
type StatusResponse struct {
	Status DmStatus `isds:"dmStatus,required,status"`
}

// DbStatusResponse is a data box service response carrying only a status.
type DbStatusResponse struct {
	Status DbStatus `isds:"dbStatus,required,status"`
}

// ListOfMessagesResponse answers GetListOfReceivedMessages,
// GetListOfSentMessages and GetListOfErasedMessages.
type ListOfMessagesResponse struct {
	Records *MessageRecords `isds:"dmRecords"`
	Status  DmStatus        `isds:"dmStatus,required,status"`
}

// Messages returns the listed records.
func (r *ListOfMessagesResponse) Messages() []MessageRecord { return r.Records.List() }

// CreateMessageResponse answers CreateMessage.
type CreateMessageResponse struct {
	ID     string   `isds:"dmID,required"`
	Status DmStatus `isds:"dmStatus,required,status"`
}

// CreateMultipleMessageResponse answers CreateMultipleMessage. The
// per-recipient outcomes are not raised as faults.
type CreateMultipleMessageResponse struct {
	Results MultipleStatus `isds:"dmMultipleStatus,required"`
	Status  DmStatus       `isds:"dmStatus,required,status"`
}

// DownloadMessageResponse answers MessageDownload.
type DownloadMessageResponse struct {
	Message ReturnedMessage `isds:"dmReturnedMessage,required"`
	Status  DmStatus        `isds:"dmStatus,required,status"`
}

// MessageEnvelopeResponse answers MessageEnvelopeDownload and
// SentMessageEnvelopeDownload.
type MessageEnvelopeResponse struct {
	Message ReturnedMessage `isds:"dmReturnedMessageEnvelope,required"`
	Status  DmStatus        `isds:"dmStatus,required,status"`
}

// SignedMessageResponse answers the signed download operations. Signature
// is the base64 CMS structure.
type SignedMessageResponse struct {
	Signature string   `isds:"dmSignature,required"`
	Status    DmStatus `isds:"dmStatus,required,status"`
}

// AuthenticateMessageResponse answers AuthenticateMessage.
type AuthenticateMessageResponse struct {
	Authentic bool     `isds:"dmAuthResult,required"`
	Status    DmStatus `isds:"dmStatus,required,status"`
}

// ResignDocumentResponse answers Re-signISDSDocument.
type ResignDocumentResponse struct {
	Document string   `isds:"dmResultDoc,required"`
	ValidTo  *Date    `isds:"dmValidTo"`
	Status   DmStatus `isds:"dmStatus,required,status"`
}

// DeliveryInfoResponse answers GetDeliveryInfo.
type DeliveryInfoResponse struct {
	Delivery DeliveryInfo `isds:"dmDelivery,required"`
	Status   DmStatus     `isds:"dmStatus,required,status"`
}

// StateChangesResponse answers GetMessageStateChanges.
type StateChangesResponse struct {
	Records *StateChangeRecords `isds:"dmRecords"`
	Status  DmStatus            `isds:"dmStatus,required,status"`
}

// VerifyMessageResponse answers VerifyMessage.
type VerifyMessageResponse struct {
	Hash   Hash     `isds:"dmHash,required"`
	Status DmStatus `isds:"dmStatus,required,status"`
}

// FindDataBoxResponse answers FindDataBox2 and FindPersonalDataBox.
type FindDataBoxResponse struct {
	Results *DataBoxResults `isds:"dbResults"`
	Status  DbStatus        `isds:"dbStatus,required,status"`
}

// DataBoxes returns the found data boxes.
func (r *FindDataBoxResponse) DataBoxes() []DataBoxInfo { return r.Results.List() }

// CheckDataBoxResponse answers CheckDataBox.
type CheckDataBoxResponse struct {
	State  DataBoxState `isds:"dbState,required"`
	Status DbStatus     `isds:"dbStatus,required,status"`
}

// CreditInfoResponse answers DataBoxCreditInfo. Credit is in hellers.
type CreditInfoResponse struct {
	CurrentCredit int64    `isds:"currentCredit,required"`
	NotifEmail    *string  `isds:"notifEmail"`
	Status        DbStatus `isds:"dbStatus,required,status"`
}

// PDZInfoResponse answers PDZInfo.
type PDZInfoResponse struct {
	Info   PDZInfo  `isds:"pdzInfo,required"`
	Status DbStatus `isds:"dbStatus,required,status"`
}

// PDZSendInfoResponse answers PDZSendInfo.
type PDZSendInfoResponse struct {
	Allowed bool     `isds:"PDZsiResult,required"`
	Status  DbStatus `isds:"dbStatus,required,status"`
}

// OwnerInfoResponse answers GetOwnerInfoFromLogin2 and
// GetOwnerInfoFromLogin.
type OwnerInfoResponse struct {
	OwnerInfo OwnerInfo `isds:"dbOwnerInfo,required"`
	Status    DbStatus  `isds:"dbStatus,required,status"`
}

// UserInfoResponse answers GetUserInfoFromLogin2.
type UserInfoResponse struct {
	UserInfo UserInfo `isds:"dbUserInfo,required"`
	Status   DbStatus `isds:"dbStatus,required,status"`
}

// PasswordInfoResponse answers GetPasswordInfo. ExpiresAt is absent when
// the password does not expire.
type PasswordInfoResponse struct {
	ExpiresAt *DateTime `isds:"pswExpDate"`
	Status    DbStatus  `isds:"dbStatus,required,status"`
}

// SearchResponse answers ISDSSearch2 and ISDSSearch3. Position is the
// zero based index of the first returned result.
type SearchResponse struct {
	TotalCount   int64          `isds:"totalCount"`
	CurrentCount int64          `isds:"currentCount"`
	Position     int64          `isds:"position"`
	LastPage     *bool          `isds:"lastPage"`
	Results      *SearchResults `isds:"dbResults"`
	Status       DbStatus       `isds:"dbStatus,required,status"`
}

// DataBoxes returns the found data boxes.
func (r *SearchResponse) DataBoxes() []SearchResult { return r.Results.List() }

// DataBoxListResponse answers GetDataBoxList. Data is the base64 encoded
// ZIP archive of a CSV list.
type DataBoxListResponse struct {
	Data   string   `isds:"dblData,required"`
	Status DbStatus `isds:"dbStatus,required,status"`
}

// Archive decodes Data.
func (r *DataBoxListResponse) Archive() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(r.Data)
	if err != nil {
		return nil, isdserr.Invalid("dblData", "invalid base64: %v", err)
	}
	return b, nil
}

// ActivityStatusResponse answers GetDataBoxActivityStatus.
type ActivityStatusResponse struct {
	ID      *string          `isds:"dbID"`
	Periods *ActivityPeriods `isds:"Periods"`
	Status  DbStatus         `isds:"dbStatus,required,status"`
}

// List returns the reported periods.
func (r *ActivityStatusResponse) List() []ActivityPeriod {
	if r.Periods == nil {
		return nil
	}
	return r.Periods.Periods
}

// DTInfoResponse answers DTInfo: the current and the ordered long term
// storage (data vault) of a data box. Capacities count messages.
type DTInfoResponse struct {
	CurrentType     *int64   `isds:"ActDTType"`
	CurrentCapacity *int64   `isds:"ActDTCapacity"`
	CurrentFrom     *Date    `isds:"ActDTFrom"`
	CurrentTo       *Date    `isds:"ActDTTo"`
	CurrentUsed     *int64   `isds:"ActDTCapUsed"`
	FutureType      *int64   `isds:"FutDTType"`
	FutureCapacity  *int64   `isds:"FutDTCapacity"`
	FutureFrom      *Date    `isds:"FutDTFrom"`
	FutureTo        *Date    `isds:"FutDTTo"`
	FuturePaid      *int64   `isds:"FutDTPaid"`
	Status          DbStatus `isds:"dbStatus,required,status"`
}

// DataBoxUsersResponse answers GetDataBoxUsers2.
type DataBoxUsersResponse struct {
	Users  *DataBoxUsers `isds:"dbUsers"`
	Status DbStatus      `isds:"dbStatus,required,status"`
}

// List returns the users of the data box.
func (r *DataBoxUsersResponse) List() []UserInfo {
	if r.Users == nil {
		return nil
	}
	return r.Users.Users
}
