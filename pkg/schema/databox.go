// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package schema

import "strings"

// OwnerInfo identifies a data box and its holder. Every field is optional;
// an absent field is not applicable to the holder type or not disclosed.
// It is also the query of FindDataBox.
type OwnerInfo struct {
	ID                   *string       `isds:"dbID"`
	AifoIsds             *bool         `isds:"aifoIsds"`
	Type                 *DataBoxType  `isds:"dbType"`
	IC                   *string       `isds:"ic"`
	GivenNames           *string       `isds:"pnGivenNames"`
	LastName             *string       `isds:"pnLastName"`
	FirmName             *string       `isds:"firmName"`
	BirthDate            *Date         `isds:"biDate"`
	BirthCity            *string       `isds:"biCity"`
	BirthCounty          *string       `isds:"biCounty"`
	BirthState           *string       `isds:"biState"`
	AddressCode          *string       `isds:"adCode"`
	AddressCity          *string       `isds:"adCity"`
	AddressDistrict      *string       `isds:"adDistrict"`
	AddressStreet        *string       `isds:"adStreet"`
	NumberInStreet       *string       `isds:"adNumberInStreet"`
	NumberInMunicipality *string       `isds:"adNumberInMunicipality"`
	ZipCode              *string       `isds:"adZipCode"`
	AddressState         *string       `isds:"adState"`
	Nationality          *string       `isds:"nationality"`
	IDOVM                *string       `isds:"dbIdOVM"`
	State                *DataBoxState `isds:"dbState"`
	OpenAddressing       *bool         `isds:"dbOpenAddressing"`
	UpperID              *string       `isds:"dbUpperID"`
}

// DataBoxInfo is a data box found by a search.
type DataBoxInfo struct {
	ID                   *string       `isds:"dbID"`
	Type                 *DataBoxType  `isds:"dbType"`
	IC                   *string       `isds:"ic"`
	FirmName             *string       `isds:"firmName"`
	GivenNames           *string       `isds:"pnGivenNames"`
	LastName             *string       `isds:"pnLastName"`
	BirthDate            *Date         `isds:"biDate"`
	BirthCity            *string       `isds:"biCity"`
	BirthCounty          *string       `isds:"biCounty"`
	BirthState           *string       `isds:"biState"`
	AddressCode          *string       `isds:"adCode"`
	AddressCity          *string       `isds:"adCity"`
	AddressDistrict      *string       `isds:"adDistrict"`
	AddressStreet        *string       `isds:"adStreet"`
	NumberInStreet       *string       `isds:"adNumberInStreet"`
	NumberInMunicipality *string       `isds:"adNumberInMunicipality"`
	ZipCode              *string       `isds:"adZipCode"`
	AddressState         *string       `isds:"adState"`
	Nationality          *string       `isds:"nationality"`
	IDOVM                *string       `isds:"dbIdOVM"`
	State                *DataBoxState `isds:"dbState"`
	EffectiveOVM         *bool         `isds:"dbEffectiveOVM"`
	OpenAddressing       *bool         `isds:"dbOpenAddressing"`
}

// DataBoxResultEnvelope wraps one entry of a dbResults sequence.
type DataBoxResultEnvelope struct {
	OwnerInfo DataBoxInfo `isds:"dbOwnerInfo,required"`
}

// DataBoxResults is the dbResults container.
type DataBoxResults struct {
	Results []DataBoxResultEnvelope `isds:"_value_1"`
}

// List flattens the container to its data boxes.
func (r *DataBoxResults) List() []DataBoxInfo {
	if r == nil {
		return nil
	}
	out := make([]DataBoxInfo, len(r.Results))
	for i, env := range r.Results {
		out[i] = env.OwnerInfo
	}
	return out
}

// UserInfo describes the user behind the current login.
type UserInfo struct {
	GivenNames           *string `isds:"pnGivenNames"`
	LastName             *string `isds:"pnLastName"`
	BirthDate            *Date   `isds:"biDate"`
	UserID               *string `isds:"userID"`
	UserType             *string `isds:"userType"`
	Privileges           *int64  `isds:"userPrivils"`
	IC                   *string `isds:"ic"`
	FirmName             *string `isds:"firmName"`
	AddressCity          *string `isds:"adCity"`
	AddressStreet        *string `isds:"adStreet"`
	NumberInStreet       *string `isds:"adNumberInStreet"`
	NumberInMunicipality *string `isds:"adNumberInMunicipality"`
	ZipCode              *string `isds:"adZipCode"`
	AddressState         *string `isds:"adState"`
	ContactAddress       *string `isds:"caStreet"`
	ContactCity          *string `isds:"caCity"`
	ContactZipCode       *string `isds:"caZipCode"`
	ContactState         *string `isds:"caState"`
}

// PDZInfo describes whether a data box may send commercial messages.
type PDZInfo struct {
	ID            string    `isds:"dbID,required"`
	Allowed       bool      `isds:"pdzAllowed,required"`
	EffectiveFrom *DateTime `isds:"pdzEffectiveFrom"`
	EffectiveTo   *DateTime `isds:"pdzEffectiveTo"`
}

// Markers around the matched text of a highlighted search result.
const (
	HighlightStart = "|$*HL_START*$|"
	HighlightEnd   = "|$*HL_END*$|"
)

var highlightStripper = strings.NewReplacer(HighlightStart, "", HighlightEnd, "")

// StripHighlights removes highlight markers from s.
func StripHighlights(s string) string { return highlightStripper.Replace(s) }

// SearchResult is a data box found by a full text search.
type SearchResult struct {
	ID           string       `isds:"dbID,required"`
	Type         *DataBoxType `isds:"dbType"`
	Name         *string      `isds:"dbName"`
	Address      *string      `isds:"dbAddress"`
	BirthDate    *Date        `isds:"dbBiDate"`
	IC           *string      `isds:"dbICO"`
	IDOVM        *string      `isds:"dbIdOVM"`
	EffectiveOVM *bool        `isds:"dbEffectiveOVM"`
	SendOptions  *SendOptions `isds:"dbSendOptions"`
}

// SearchResultEnvelope wraps one entry of a full text dbResults sequence.
type SearchResultEnvelope struct {
	Result SearchResult `isds:"dbResult,required"`
}

// SearchResults is the dbResults container of a full text search.
type SearchResults struct {
	Results []SearchResultEnvelope `isds:"_value_1"`
}

// List flattens the container to its results.
func (r *SearchResults) List() []SearchResult {
	if r == nil {
		return nil
	}
	out := make([]SearchResult, len(r.Results))
	for i, env := range r.Results {
		out[i] = env.Result
	}
	return out
}

// ActivityPeriod is a span during which a data box kept one state. An
// absent bound is open.
type ActivityPeriod struct {
	From  *DateTime    `isds:"PeriodFrom"`
	To    *DateTime    `isds:"PeriodTo"`
	State DataBoxState `isds:"DbState,required"`
}

// ActivityPeriods is the Periods container.
type ActivityPeriods struct {
	Periods []ActivityPeriod `isds:"Period"`
}

// DataBoxUsers is the dbUsers container.
type DataBoxUsers struct {
	Users []UserInfo `isds:"dbUserInfo"`
}
